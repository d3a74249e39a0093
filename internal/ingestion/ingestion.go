// Package ingestion fetches a bounded window of commit history. The listing
// cap is deliberately much larger than the detail cap: listing pages are
// cheap, per-commit detail fetches are the dominant cost against the API
// rate budget, and only line-count-sensitive metrics need them.
package ingestion

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gitgauge/gitgauge-go/internal/models"
)

// Bounds control ingestion call volume.
const (
	// DefaultMaxCommits caps how many commits are listed in total.
	DefaultMaxCommits = 500
	// DefaultMaxDetailed caps how many commits get a per-commit detail fetch.
	DefaultMaxDetailed = 100
	// DefaultPageSize is the listing page size.
	DefaultPageSize = 50
)

// CommitSource is the slice of the GitHub client ingestion depends on.
type CommitSource interface {
	// ListCommitPage returns one page of commits in API page order, newest
	// first, with placeholder stats.
	ListCommitPage(ctx context.Context, owner, repo string, since time.Time, page, perPage int) ([]models.CommitRecord, error)
	// FetchCommitDetail returns line-level stats for a single commit.
	FetchCommitDetail(ctx context.Context, owner, repo, sha string) (additions, deletions, changedFiles int, err error)
}

// Options override the default bounds. Zero values keep the defaults.
type Options struct {
	MaxCommits  int
	MaxDetailed int
	PageSize    int
}

func (o Options) withDefaults() Options {
	if o.MaxCommits <= 0 {
		o.MaxCommits = DefaultMaxCommits
	}
	if o.MaxDetailed <= 0 {
		o.MaxDetailed = DefaultMaxDetailed
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	return o
}

// Ingestor pulls bounded commit history from a CommitSource.
type Ingestor struct {
	source CommitSource
	opts   Options
	logger *logrus.Logger
}

// New creates an ingestor over the given source.
func New(source CommitSource, opts Options, logger *logrus.Logger) *Ingestor {
	if logger == nil {
		logger = logrus.New()
	}
	return &Ingestor{source: source, opts: opts.withDefaults(), logger: logger}
}

// FetchCommits ingests up to MaxCommits commits since the given cutoff
// (zero means unbounded history). The first MaxDetailed commits in listing
// order get a detail fetch; the rest keep degraded placeholder stats. A
// failed detail fetch downgrades that one record and ingestion continues; a
// failed listing call is fatal. Context cancellation mid-flight returns the
// partial list gathered so far with a nil error, matching the local-degrade
// policy.
func (ing *Ingestor) FetchCommits(ctx context.Context, owner, repo string, since time.Time) ([]models.CommitRecord, error) {
	commits := make([]models.CommitRecord, 0, ing.opts.PageSize)

	for page := 1; len(commits) < ing.opts.MaxCommits; page++ {
		listed, err := ing.source.ListCommitPage(ctx, owner, repo, since, page, ing.opts.PageSize)
		if err != nil {
			if ctx.Err() != nil && len(commits) > 0 {
				ing.logger.WithFields(logrus.Fields{
					"repo":    owner + "/" + repo,
					"commits": len(commits),
				}).Warn("ingestion canceled, returning partial history")
				return commits, nil
			}
			return nil, err
		}
		if len(listed) == 0 {
			break
		}

		for _, record := range listed {
			if len(commits) >= ing.opts.MaxCommits {
				break
			}
			if len(commits) < ing.opts.MaxDetailed {
				record = ing.fetchDetail(ctx, owner, repo, record)
			}
			commits = append(commits, record)
		}

		if len(listed) < ing.opts.PageSize {
			break
		}
	}

	detailed := len(commits)
	if detailed > ing.opts.MaxDetailed {
		detailed = ing.opts.MaxDetailed
	}
	ing.logger.WithFields(logrus.Fields{
		"repo":     owner + "/" + repo,
		"commits":  len(commits),
		"detailed": detailed,
	}).Info("ingested commits")

	return commits, nil
}

// fetchDetail upgrades a listed record with line-level stats. Any failure
// leaves the degraded placeholder shape in place; it never aborts the batch.
func (ing *Ingestor) fetchDetail(ctx context.Context, owner, repo string, record models.CommitRecord) models.CommitRecord {
	additions, deletions, changedFiles, err := ing.source.FetchCommitDetail(ctx, owner, repo, record.SHA)
	if err != nil {
		ing.logger.WithFields(logrus.Fields{
			"repo": owner + "/" + repo,
			"sha":  record.SHA,
		}).WithError(err).Warn("commit detail unavailable, using basic data")
		return record
	}

	record.Additions = additions
	record.Deletions = deletions
	record.ChangedFiles = changedFiles
	record.DetailFetched = true
	return record
}
