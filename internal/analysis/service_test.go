package analysis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitgauge/gitgauge-go/internal/analyzer"
	"github.com/gitgauge/gitgauge-go/internal/errors"
	"github.com/gitgauge/gitgauge-go/internal/models"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeClient struct {
	mu sync.Mutex

	repo  *models.Repository
	user  *models.UserAccount
	repos []models.Repository

	commitsByRepo map[string][]models.CommitRecord
	failRepos     map[string]bool

	repoCalls int
	listCalls int
}

func (f *fakeClient) FetchRepository(ctx context.Context, owner, name string) (*models.Repository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.repoCalls++
	if f.repo == nil {
		return nil, errors.Newf(errors.KindNotFound, "repository %s/%s not found", owner, name)
	}
	return f.repo, nil
}

func (f *fakeClient) FetchUser(ctx context.Context, username string) (*models.UserAccount, error) {
	if f.user == nil {
		return nil, errors.Newf(errors.KindNotFound, "user %s not found", username)
	}
	return f.user, nil
}

func (f *fakeClient) FetchUserRepositories(ctx context.Context, username string, maxRepos int) ([]models.Repository, error) {
	if len(f.repos) > maxRepos {
		return f.repos[:maxRepos], nil
	}
	return f.repos, nil
}

func (f *fakeClient) ListCommitPage(ctx context.Context, owner, repo string, since time.Time, page, perPage int) ([]models.CommitRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.failRepos[repo] {
		return nil, errors.New(errors.KindRateLimited, "rate limit exceeded")
	}
	commits := f.commitsByRepo[repo]
	if page > 1 || len(commits) <= perPage {
		if page > 1 {
			return nil, nil
		}
		return commits, nil
	}
	return commits[:perPage], nil
}

func (f *fakeClient) FetchCommitDetail(ctx context.Context, owner, repo, sha string) (int, int, int, error) {
	return 10, 4, 2, nil
}

type memStore struct {
	mu      sync.Mutex
	records map[string]*models.AnalysisRecord
	saves   int
}

func newMemStore() *memStore {
	return &memStore{records: map[string]*models.AnalysisRecord{}}
}

func (m *memStore) SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.records[record.ID] = record
	return nil
}

func (m *memStore) GetAnalysis(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record, ok := m.records[id]; ok {
		return record, nil
	}
	return nil, errors.Newf(errors.KindNotFound, "analysis %s not found", id)
}

func (m *memStore) GetLatestByURL(ctx context.Context, url string) (*models.AnalysisRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.AnalysisRecord
	for _, record := range m.records {
		if record.URL != url {
			continue
		}
		if latest == nil || record.CreatedAt.After(latest.CreatedAt) {
			latest = record
		}
	}
	if latest == nil {
		return nil, errors.Newf(errors.KindNotFound, "no analysis for %s", url)
	}
	return latest, nil
}

func (m *memStore) ListRecent(ctx context.Context, limit int) ([]models.AnalysisSummary, error) {
	return nil, nil
}

func (m *memStore) Close() error { return nil }

func commitAt(sha, message string, at time.Time) models.CommitRecord {
	return models.CommitRecord{
		SHA:     sha,
		Message: message,
		Author:  "Ada",
		Email:   "ada@example.com",
		Date:    at,
	}
}

func newTestService(client *fakeClient, store *memStore) *Service {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := NewService(client, store, analyzer.NewWithClock(func() time.Time { return testNow }), Options{}, logger)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestAnalyzeRepository(t *testing.T) {
	client := &fakeClient{
		repo: &models.Repository{Name: "hello-world", Owner: "octocat", FullName: "octocat/hello-world"},
		commitsByRepo: map[string][]models.CommitRecord{
			"hello-world": {
				commitAt("a", "feat: add parser", testNow.Add(-48*time.Hour)),
				commitAt("b", "fix: crash on empty input", testNow.Add(-24*time.Hour)),
			},
		},
	}
	store := newMemStore()
	svc := newTestService(client, store)

	record, err := svc.Analyze(context.Background(), models.AnalysisRequest{
		URL:  "https://github.com/octocat/hello-world",
		Type: models.AnalysisTypeRepository,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, models.AnalysisTypeRepository, record.AnalysisType)
	assert.Equal(t, "hello-world", record.RepositoryName)
	assert.Equal(t, "octocat", record.RepositoryOwner)
	require.NotNil(t, record.DoraMetrics)
	require.NotNil(t, record.HealthMetrics)
	require.NotNil(t, record.WorkClassification)
	assert.Len(t, record.Timeline, analyzer.DefaultTimelineDays)
	require.Len(t, record.Contributors, 1)
	assert.Equal(t, 2, record.Contributors[0].Commits)
	assert.Nil(t, record.UserAnalysis)
	assert.Equal(t, testNow, record.CreatedAt)
	assert.Equal(t, 1, store.saves)
}

func TestAnalyzeRejectsTypeMismatch(t *testing.T) {
	svc := newTestService(&fakeClient{}, newMemStore())

	_, err := svc.Analyze(context.Background(), models.AnalysisRequest{
		URL:  "https://github.com/octocat",
		Type: models.AnalysisTypeRepository,
	})

	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestAnalyzeRejectsEmptyURL(t *testing.T) {
	svc := newTestService(&fakeClient{}, newMemStore())

	_, err := svc.Analyze(context.Background(), models.AnalysisRequest{Type: models.AnalysisTypeRepository})

	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestAnalyzeReturnsFreshStoredResult(t *testing.T) {
	client := &fakeClient{}
	store := newMemStore()
	stored := &models.AnalysisRecord{
		ID:           "cached-1",
		URL:          "https://github.com/octocat/hello-world",
		AnalysisType: models.AnalysisTypeRepository,
		CreatedAt:    testNow.Add(-30 * time.Minute),
	}
	require.NoError(t, store.SaveAnalysis(context.Background(), stored))
	store.saves = 0
	svc := newTestService(client, store)

	record, err := svc.Analyze(context.Background(), models.AnalysisRequest{
		URL: "https://github.com/octocat/hello-world",
	})
	require.NoError(t, err)

	assert.Equal(t, "cached-1", record.ID)
	assert.Zero(t, client.repoCalls, "fresh stored result must not hit the API")
	assert.Zero(t, store.saves)
}

func TestAnalyzeIgnoresStaleStoredResult(t *testing.T) {
	client := &fakeClient{
		repo: &models.Repository{Name: "hello-world", Owner: "octocat"},
		commitsByRepo: map[string][]models.CommitRecord{
			"hello-world": {commitAt("a", "feat: thing", testNow.Add(-time.Hour))},
		},
	}
	store := newMemStore()
	stored := &models.AnalysisRecord{
		ID:           "cached-1",
		URL:          "https://github.com/octocat/hello-world",
		AnalysisType: models.AnalysisTypeRepository,
		CreatedAt:    testNow.Add(-2 * time.Hour),
	}
	require.NoError(t, store.SaveAnalysis(context.Background(), stored))
	svc := newTestService(client, store)

	record, err := svc.Analyze(context.Background(), models.AnalysisRequest{
		URL: "https://github.com/octocat/hello-world",
	})
	require.NoError(t, err)

	assert.NotEqual(t, "cached-1", record.ID)
	assert.Equal(t, 1, client.repoCalls)
}

func TestAnalyzeRepositoryNotFound(t *testing.T) {
	svc := newTestService(&fakeClient{}, newMemStore())

	_, err := svc.Analyze(context.Background(), models.AnalysisRequest{
		URL: "https://github.com/octocat/missing",
	})

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestAnalyzeUser(t *testing.T) {
	client := &fakeClient{
		user: &models.UserAccount{
			Login:       "octocat",
			PublicRepos: 3,
			CreatedAt:   testNow.AddDate(-2, 0, 0),
		},
		repos: []models.Repository{
			{Name: "alpha", Owner: "octocat", Stars: 10, Language: "Go", UpdatedAt: testNow.Add(-24 * time.Hour)},
			{Name: "beta", Owner: "octocat", Stars: 3, Language: "Go", UpdatedAt: testNow.Add(-48 * time.Hour)},
			{Name: "gamma", Owner: "octocat", Stars: 1, UpdatedAt: testNow.Add(-72 * time.Hour)},
		},
		commitsByRepo: map[string][]models.CommitRecord{
			"alpha": {
				commitAt("a1", "feat: add alpha", testNow.Add(-24*time.Hour)),
				commitAt("a2", "fix: alpha bug", testNow.Add(-26*time.Hour)),
			},
			"beta": {commitAt("b1", "docs: readme", testNow.Add(-30*time.Hour))},
		},
		failRepos: map[string]bool{"gamma": true},
	}
	store := newMemStore()
	svc := newTestService(client, store)

	record, err := svc.Analyze(context.Background(), models.AnalysisRequest{
		URL:  "https://github.com/octocat",
		Type: models.AnalysisTypeUser,
	})
	require.NoError(t, err)

	assert.Equal(t, models.AnalysisTypeUser, record.AnalysisType)
	assert.Equal(t, "octocat", record.Username)
	assert.Empty(t, record.RepositoryName)
	assert.Nil(t, record.DoraMetrics)
	require.NotNil(t, record.UserAnalysis)
	assert.Equal(t, "octocat", record.UserAnalysis.UserProfile.Username)
	// gamma failed, so only alpha and beta contribute.
	assert.Equal(t, 3, record.UserAnalysis.ActivityMetrics.TotalCommits)
	assert.Equal(t, 2, record.UserAnalysis.ActivityMetrics.ReposContributedCount)
	assert.Equal(t, 3, client.listCalls)
	assert.Equal(t, 1, store.saves)
}

func TestAnalyzeUserNoRepositories(t *testing.T) {
	client := &fakeClient{user: &models.UserAccount{Login: "octocat"}}
	svc := newTestService(client, newMemStore())

	_, err := svc.Analyze(context.Background(), models.AnalysisRequest{
		URL: "https://github.com/octocat",
	})

	require.Error(t, err)
	assert.True(t, errors.IsEmptyResult(err))
}

func TestAnalyzeUserNoCommits(t *testing.T) {
	client := &fakeClient{
		user:  &models.UserAccount{Login: "octocat"},
		repos: []models.Repository{{Name: "alpha", Owner: "octocat"}},
	}
	svc := newTestService(client, newMemStore())

	_, err := svc.Analyze(context.Background(), models.AnalysisRequest{
		URL: "https://github.com/octocat",
	})

	require.Error(t, err)
	assert.True(t, errors.IsEmptyResult(err))
}
