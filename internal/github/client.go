// Package github wraps the GitHub REST API client with rate limiting, a TTL
// metadata cache, call-stats tracking, and mapping of API failures onto the
// typed error taxonomy.
package github

import (
	"context"
	"net/http"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/gitgauge/gitgauge-go/internal/cache"
	"github.com/gitgauge/gitgauge-go/internal/errors"
	"github.com/gitgauge/gitgauge-go/internal/models"
	"github.com/gitgauge/gitgauge-go/internal/stats"
)

// repoListPageSize is the page size for user repository listing.
const repoListPageSize = 30

// metadataTTL is how long repository/user metadata stays cached.
const metadataTTL = 5 * time.Minute

// Client wraps the GitHub API with a shared rate limiter. The limiter is the
// single backpressure point: any concurrent ingestion fan-out still queues
// through it.
type Client struct {
	api     *gh.Client
	limiter *rate.Limiter
	cache   *cache.Cache
	tracker *stats.Tracker
	logger  *logrus.Logger
}

// NewClient creates a GitHub client. ratePerSec bounds sustained request
// rate; GitHub allows 5000/hour (~1.4/sec) for authenticated tokens, so the
// default configuration stays below that.
func NewClient(token string, ratePerSec float64, c *cache.Cache, tracker *stats.Tracker, logger *logrus.Logger) *Client {
	api := gh.NewClient(nil)
	if token != "" {
		api = api.WithAuthToken(token)
	}
	if ratePerSec <= 0 {
		ratePerSec = 1
	}

	return &Client{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1),
		cache:   c,
		tracker: tracker,
		logger:  logger,
	}
}

// FetchRepository gets repository metadata, served from cache when fresh.
func (c *Client) FetchRepository(ctx context.Context, owner, name string) (*models.Repository, error) {
	key := "repo:" + owner + "/" + name
	if cached, ok := c.cacheGet(key); ok {
		c.track("repos.get", true)
		repo := cached.(models.Repository)
		return &repo, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, errors.KindUnknown, "rate limiter")
	}
	c.track("repos.get", false)

	repo, _, err := c.api.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, mapError(err, "repository "+owner+"/"+name)
	}

	out := convertRepository(repo)
	c.cacheSet(key, out)
	return &out, nil
}

// FetchUser gets user profile metadata, served from cache when fresh.
func (c *Client) FetchUser(ctx context.Context, username string) (*models.UserAccount, error) {
	key := "user:" + username
	if cached, ok := c.cacheGet(key); ok {
		c.track("users.get", true)
		user := cached.(models.UserAccount)
		return &user, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, errors.KindUnknown, "rate limiter")
	}
	c.track("users.get", false)

	user, _, err := c.api.Users.Get(ctx, username)
	if err != nil {
		return nil, mapError(err, "user "+username)
	}

	out := convertUser(user)
	c.cacheSet(key, out)
	return &out, nil
}

// FetchUserRepositories lists up to maxRepos of a user's own repositories,
// most recently updated first, with forks filtered out after collection.
func (c *Client) FetchUserRepositories(ctx context.Context, username string, maxRepos int) ([]models.Repository, error) {
	opts := &gh.RepositoryListOptions{
		Type:        "owner",
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: repoListPageSize, Page: 1},
	}

	var collected []models.Repository
	for len(collected) < maxRepos {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, errors.KindUnknown, "rate limiter")
		}
		c.track("repos.listForUser", false)

		page, _, err := c.api.Repositories.List(ctx, username, opts)
		if err != nil {
			return nil, mapError(err, "repositories for user "+username)
		}
		if len(page) == 0 {
			break
		}

		for _, repo := range page {
			if len(collected) >= maxRepos {
				break
			}
			collected = append(collected, convertRepository(repo))
		}

		if len(page) < repoListPageSize {
			break
		}
		opts.Page++
	}

	originals := make([]models.Repository, 0, len(collected))
	for _, repo := range collected {
		if !repo.Fork {
			originals = append(originals, repo)
		}
	}
	if len(originals) > maxRepos {
		originals = originals[:maxRepos]
	}

	c.logger.WithFields(logrus.Fields{
		"username": username,
		"repos":    len(originals),
	}).Debug("fetched user repositories")
	return originals, nil
}

// ListCommitPage fetches one page of the commit listing. Records come back
// in API page order with degraded placeholder stats; callers upgrade them
// via FetchCommitDetail.
func (c *Client) ListCommitPage(ctx context.Context, owner, repo string, since time.Time, page, perPage int) ([]models.CommitRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, errors.KindUnknown, "rate limiter")
	}
	c.track("repos.listCommits", false)

	opts := &gh.CommitsListOptions{
		ListOptions: gh.ListOptions{PerPage: perPage, Page: page},
	}
	if !since.IsZero() {
		opts.Since = since
	}

	commits, _, err := c.api.Repositories.ListCommits(ctx, owner, repo, opts)
	if err != nil {
		return nil, mapError(err, "commits for "+owner+"/"+repo)
	}

	records := make([]models.CommitRecord, 0, len(commits))
	for _, commit := range commits {
		records = append(records, convertCommit(commit))
	}
	return records, nil
}

// FetchCommitDetail fetches line-level stats for one commit.
func (c *Client) FetchCommitDetail(ctx context.Context, owner, repo, sha string) (additions, deletions, changedFiles int, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, 0, 0, errors.Wrap(err, errors.KindUnknown, "rate limiter")
	}
	c.track("repos.getCommit", false)

	detail, _, err := c.api.Repositories.GetCommit(ctx, owner, repo, sha, nil)
	if err != nil {
		return 0, 0, 0, mapError(err, "commit "+sha)
	}

	return detail.GetStats().GetAdditions(), detail.GetStats().GetDeletions(), len(detail.Files), nil
}

func (c *Client) cacheGet(key string) (any, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *Client) cacheSet(key string, value any) {
	if c.cache != nil {
		c.cache.Set(key, value, metadataTTL)
	}
}

func (c *Client) track(endpoint string, fromCache bool) {
	if c.tracker != nil {
		c.tracker.Track(endpoint, http.MethodGet, fromCache)
	}
}

func convertRepository(repo *gh.Repository) models.Repository {
	return models.Repository{
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		Owner:         repo.GetOwner().GetLogin(),
		Description:   repo.GetDescription(),
		Language:      repo.GetLanguage(),
		Fork:          repo.GetFork(),
		Archived:      repo.GetArchived(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		Topics:        repo.Topics,
		HasLicense:    repo.GetLicense() != nil,
		HasWiki:       repo.GetHasWiki(),
		HasPages:      repo.GetHasPages(),
		HasDownloads:  repo.GetHasDownloads(),
		HasIssues:     repo.GetHasIssues(),
		DefaultBranch: repo.GetDefaultBranch(),
		CreatedAt:     repo.GetCreatedAt().Time,
		UpdatedAt:     repo.GetUpdatedAt().Time,
	}
}

func convertUser(user *gh.User) models.UserAccount {
	return models.UserAccount{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		AvatarURL:   user.GetAvatarURL(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		PublicRepos: user.GetPublicRepos(),
		Hireable:    user.GetHireable(),
		Company:     user.GetCompany(),
		Location:    user.GetLocation(),
		Bio:         user.GetBio(),
		CreatedAt:   user.GetCreatedAt().Time,
	}
}

func convertCommit(commit *gh.RepositoryCommit) models.CommitRecord {
	author := commit.GetCommit().GetAuthor().GetName()
	if author == "" {
		author = "Unknown"
	}

	return models.CommitRecord{
		SHA:          commit.GetSHA(),
		Message:      commit.GetCommit().GetMessage(),
		Author:       author,
		Email:        commit.GetCommit().GetAuthor().GetEmail(),
		Date:         commit.GetCommit().GetAuthor().GetDate().Time,
		ChangedFiles: 1,
	}
}
