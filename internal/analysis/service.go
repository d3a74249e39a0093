// Package analysis orchestrates one analysis run: URL classification,
// bounded ingestion, metric computation and persistence.
package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gitgauge/gitgauge-go/internal/analyzer"
	"github.com/gitgauge/gitgauge-go/internal/errors"
	"github.com/gitgauge/gitgauge-go/internal/ingestion"
	"github.com/gitgauge/gitgauge-go/internal/models"
	"github.com/gitgauge/gitgauge-go/internal/storage"
)

// GitHubClient is the slice of the GitHub API the service depends on.
type GitHubClient interface {
	FetchRepository(ctx context.Context, owner, name string) (*models.Repository, error)
	FetchUser(ctx context.Context, username string) (*models.UserAccount, error)
	FetchUserRepositories(ctx context.Context, username string, maxRepos int) ([]models.Repository, error)
	ingestion.CommitSource
}

// Options bound one analysis run. Zero values keep the defaults.
type Options struct {
	// WindowDays is the trailing commit window.
	WindowDays int
	// MaxUserRepos caps how many repositories a user analysis covers.
	MaxUserRepos int
	// MaxCommitsPerRepo caps per-repository commits in user mode.
	MaxCommitsPerRepo int
	// RepoConcurrency bounds the user-mode fan-out. The shared rate
	// limiter still applies underneath.
	RepoConcurrency int
	// ResultTTL is how long a stored result satisfies a repeat request.
	ResultTTL time.Duration
	// Ingestion bounds repository-mode commit ingestion.
	Ingestion ingestion.Options
}

func (o Options) withDefaults() Options {
	if o.WindowDays <= 0 {
		o.WindowDays = 90
	}
	if o.MaxUserRepos <= 0 {
		o.MaxUserRepos = 10
	}
	if o.MaxCommitsPerRepo <= 0 {
		o.MaxCommitsPerRepo = 25
	}
	if o.RepoConcurrency <= 0 {
		o.RepoConcurrency = 4
	}
	if o.ResultTTL <= 0 {
		o.ResultTTL = time.Hour
	}
	return o
}

// Service runs analyses end to end.
type Service struct {
	client   GitHubClient
	engine   *analyzer.Engine
	ingestor *ingestion.Ingestor
	store    storage.Store
	opts     Options
	logger   *logrus.Logger
	now      func() time.Time
}

// NewService creates an analysis service.
func NewService(client GitHubClient, store storage.Store, engine *analyzer.Engine, opts Options, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	if engine == nil {
		engine = analyzer.New()
	}
	opts = opts.withDefaults()

	return &Service{
		client:   client,
		engine:   engine,
		ingestor: ingestion.New(client, opts.Ingestion, logger),
		store:    store,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Analyze runs one analysis. A stored result for the same URL younger than
// ResultTTL is returned as-is without touching the GitHub API.
func (s *Service) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisRecord, error) {
	if req.URL == "" {
		return nil, errors.New(errors.KindValidation, "url is required")
	}

	target, err := ParseGitHubURL(req.URL)
	if err != nil {
		return nil, err
	}
	if req.Type != "" && req.Type != target.Type {
		return nil, errors.Newf(errors.KindValidation,
			"url resolves to a %s but request type is %s", target.Type, req.Type)
	}

	if cached := s.freshResult(ctx, target.URL); cached != nil {
		s.logger.WithField("url", target.URL).Info("returning cached analysis")
		return cached, nil
	}

	var record *models.AnalysisRecord
	switch target.Type {
	case models.AnalysisTypeRepository:
		record, err = s.analyzeRepository(ctx, target)
	case models.AnalysisTypeUser:
		record, err = s.analyzeUser(ctx, target)
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveAnalysis(ctx, record); err != nil {
		return nil, errors.Wrap(err, errors.KindUnknown, "persist analysis")
	}

	s.logger.WithFields(logrus.Fields{
		"id":   record.ID,
		"url":  record.URL,
		"type": record.AnalysisType,
	}).Info("analysis completed")

	return record, nil
}

// freshResult returns a stored record for the URL if it is younger than the
// result TTL. Storage read failures fall through to a fresh run.
func (s *Service) freshResult(ctx context.Context, url string) *models.AnalysisRecord {
	record, err := s.store.GetLatestByURL(ctx, url)
	if err != nil {
		if !errors.IsNotFound(err) {
			s.logger.WithError(err).Warn("result cache lookup failed")
		}
		return nil
	}
	if s.now().Sub(record.CreatedAt) >= s.opts.ResultTTL {
		return nil
	}
	return record
}

func (s *Service) analyzeRepository(ctx context.Context, target *Target) (*models.AnalysisRecord, error) {
	repo, err := s.client.FetchRepository(ctx, target.Owner, target.Repo)
	if err != nil {
		return nil, err
	}

	since := s.now().AddDate(0, 0, -s.opts.WindowDays)
	commits, err := s.ingestor.FetchCommits(ctx, target.Owner, target.Repo, since)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"repo":    repo.FullName,
		"commits": len(commits),
	}).Info("computing repository metrics")

	dora := s.engine.DoraMetrics(commits)
	health := s.engine.HealthMetrics(commits)
	contributors := s.engine.Contributors(commits)
	timeline := s.engine.Timeline(commits, analyzer.DefaultTimelineDays)
	work := s.engine.WorkClassification(commits)

	owner := repo.Owner
	if owner == "" {
		owner = target.Owner
	}

	return &models.AnalysisRecord{
		ID:                 uuid.NewString(),
		URL:                target.URL,
		RepositoryName:     repo.Name,
		RepositoryOwner:    owner,
		AnalysisType:       models.AnalysisTypeRepository,
		DoraMetrics:        &dora,
		HealthMetrics:      &health,
		Contributors:       contributors,
		Timeline:           timeline,
		WorkClassification: &work,
		CreatedAt:          s.now().UTC(),
	}, nil
}

func (s *Service) analyzeUser(ctx context.Context, target *Target) (*models.AnalysisRecord, error) {
	user, err := s.client.FetchUser(ctx, target.Owner)
	if err != nil {
		return nil, err
	}

	repos, err := s.client.FetchUserRepositories(ctx, target.Owner, s.opts.MaxUserRepos)
	if err != nil {
		return nil, err
	}
	if len(repos) == 0 {
		return nil, errors.Newf(errors.KindEmptyResult,
			"no public repositories found for user %s", target.Owner)
	}

	since := s.now().AddDate(0, 0, -s.opts.WindowDays)

	// Fan out per-repository listings; a failed repository is skipped, not
	// fatal. Results land by index so the merged order stays deterministic.
	results := make([][]models.CommitRecord, len(repos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.RepoConcurrency)
	for i, repo := range repos {
		g.Go(func() error {
			commits, err := s.client.ListCommitPage(gctx, target.Owner, repo.Name, since, 1, s.opts.MaxCommitsPerRepo)
			if err != nil {
				s.logger.WithFields(logrus.Fields{
					"repo": repo.Name,
					"user": target.Owner,
				}).WithError(err).Warn("skipping repository, commits unavailable")
				return nil
			}
			results[i] = commits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []models.CommitRecord
	contributed := 0
	for _, commits := range results {
		if len(commits) > 0 {
			contributed++
		}
		merged = append(merged, commits...)
	}
	if len(merged) == 0 {
		return nil, errors.Newf(errors.KindEmptyResult,
			"no commits found in the last %d days for user %s", s.opts.WindowDays, target.Owner)
	}

	s.logger.WithFields(logrus.Fields{
		"user":    user.Login,
		"repos":   contributed,
		"commits": len(merged),
	}).Info("computing user metrics")

	ua := s.engine.UserAnalysis(*user, repos, merged, contributed)

	return &models.AnalysisRecord{
		ID:           uuid.NewString(),
		URL:          target.URL,
		Username:     user.Login,
		AnalysisType: models.AnalysisTypeUser,
		UserAnalysis: &ua,
		CreatedAt:    s.now().UTC(),
	}, nil
}
