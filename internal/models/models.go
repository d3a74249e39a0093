package models

import (
	"encoding/json"
	"time"
)

// CommitRecord is the normalized unit every metric computation operates on.
// Additions, Deletions and ChangedFiles are only meaningful when DetailFetched
// is true; otherwise they hold the degraded placeholders (0/0/1).
type CommitRecord struct {
	SHA           string    `json:"sha"`
	Message       string    `json:"message"`
	Author        string    `json:"author"`
	Email         string    `json:"email"`
	Date          time.Time `json:"date"`
	Additions     int       `json:"additions"`
	Deletions     int       `json:"deletions"`
	ChangedFiles  int       `json:"changedFiles"`
	DetailFetched bool      `json:"detailFetched"`
}

// Repository holds the GitHub repository metadata fields the analyzer consumes.
type Repository struct {
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Owner         string    `json:"owner"`
	Description   string    `json:"description"`
	Language      string    `json:"language"`
	Fork          bool      `json:"fork"`
	Archived      bool      `json:"archived"`
	Stars         int       `json:"stargazers_count"`
	Forks         int       `json:"forks_count"`
	Topics        []string  `json:"topics"`
	HasLicense    bool      `json:"has_license"`
	HasWiki       bool      `json:"has_wiki"`
	HasPages      bool      `json:"has_pages"`
	HasDownloads  bool      `json:"has_downloads"`
	HasIssues     bool      `json:"has_issues"`
	DefaultBranch string    `json:"default_branch"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserAccount holds the GitHub user profile fields the analyzer consumes.
type UserAccount struct {
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	AvatarURL   string    `json:"avatar_url"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	PublicRepos int       `json:"public_repos"`
	Hireable    bool      `json:"hireable"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Bio         string    `json:"bio"`
	CreatedAt   time.Time `json:"created_at"`
}

// Rating is the four-level DORA performance band.
type Rating string

const (
	RatingElite  Rating = "elite"
	RatingHigh   Rating = "high"
	RatingMedium Rating = "medium"
	RatingLow    Rating = "low"
)

// DoraMetric is one of the four DORA sub-metrics.
type DoraMetric struct {
	Value  string  `json:"value"`
	Score  float64 `json:"score"`
	Rating Rating  `json:"rating"`
}

// DoraMetrics bundles the four DORA indicators with an overall score.
type DoraMetrics struct {
	DeploymentFrequency DoraMetric `json:"deploymentFrequency"`
	LeadTime            DoraMetric `json:"leadTime"`
	ChangeFailureRate   DoraMetric `json:"changeFailureRate"`
	RecoveryTime        DoraMetric `json:"recoveryTime"`
	OverallScore        int        `json:"overallScore"`
	OverallRating       Rating     `json:"overallRating"`
}

// HealthStatus is the four-level repository health band.
type HealthStatus string

const (
	HealthExcellent HealthStatus = "excellent"
	HealthGood      HealthStatus = "good"
	HealthFair      HealthStatus = "fair"
	HealthPoor      HealthStatus = "poor"
)

// HealthMetrics summarizes repository (or merged user) commit health.
type HealthMetrics struct {
	OverallScore       int          `json:"overallScore"`
	Status             HealthStatus `json:"status"`
	TotalCommits       int          `json:"totalCommits"`
	FilesChanged       int          `json:"filesChanged"`
	ActiveContributors int          `json:"activeContributors"`
	CodeVelocity       string       `json:"codeVelocity"`
	InnovationRatio    int          `json:"innovationRatio"`
	TechnicalDebt      int          `json:"technicalDebt"`
	LastActivity       string       `json:"lastActivity"`
}

// Contributor is one ranked entry in the contributor leaderboard.
// Identity is the exact name+email concatenation, no fuzzy merging.
type Contributor struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Commits      int    `json:"commits"`
	LinesAdded   int    `json:"linesAdded"`
	LinesDeleted int    `json:"linesDeleted"`
	FilesChanged int    `json:"filesChanged"`
	Rank         int    `json:"rank"`
}

// ActivityTier buckets a calendar day by commit count.
type ActivityTier string

const (
	ActivityVeryHigh ActivityTier = "very-high"
	ActivityHigh     ActivityTier = "high"
	ActivityMedium   ActivityTier = "medium"
	ActivityLow      ActivityTier = "low"
	ActivityNone     ActivityTier = "none"
)

// TimelineDay is one day in the trailing activity window.
type TimelineDay struct {
	Date         string       `json:"date"`
	Commits      int          `json:"commits"`
	LinesChanged int          `json:"linesChanged"`
	Activity     ActivityTier `json:"activity"`
}

// WorkClassification holds the four work-category percentages. Each is
// rounded independently, so the sum may drift a point or two from 100.
type WorkClassification struct {
	Innovation    int `json:"innovation"`
	BugFixes      int `json:"bugFixes"`
	Maintenance   int `json:"maintenance"`
	Documentation int `json:"documentation"`
}

// UserProfile is a reshape of the GitHub user profile.
type UserProfile struct {
	Username       string `json:"username"`
	Name           string `json:"name"`
	AvatarURL      string `json:"avatarUrl"`
	Followers      int    `json:"followers"`
	Following      int    `json:"following"`
	PublicRepos    int    `json:"publicRepos"`
	AccountAgeDays int    `json:"accountAgeDays"`
	Hireable       bool   `json:"hireable"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
}

// TopRepo is one entry in the stars leaderboard of a portfolio.
type TopRepo struct {
	Name        string `json:"name"`
	Stars       int    `json:"stars"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

// PortfolioSummary partitions and tallies a user's repository list.
type PortfolioSummary struct {
	TotalOwned        int            `json:"totalOwned"`
	TotalForked       int            `json:"totalForked"`
	TotalArchived     int            `json:"totalArchived"`
	ReposActiveLast90 int            `json:"reposActiveLast90d"`
	ReposWithReleases int            `json:"reposWithReleases"`
	Languages         map[string]int `json:"languages"`
	TopReposByStars   []TopRepo      `json:"topReposByStars"`
	TotalStars        int            `json:"totalStars"`
	TotalForks        int            `json:"totalForks"`
}

// ActivityMetrics describes when and how often a user commits.
type ActivityMetrics struct {
	TotalCommits           int        `json:"totalCommits"`
	ActiveDays             int        `json:"activeDays"`
	LongestStreak          int        `json:"longestStreak"`
	AvgCommitsPerActiveDay float64    `json:"avgCommitsPerActiveDay"`
	CommitsByWeekday       [7]int     `json:"commitsByWeekday"`
	CommitsByHour          [24]int    `json:"commitsByHour"`
	ReposContributedCount  int        `json:"reposContributedCount"`
	FirstCommitDate        *time.Time `json:"firstCommitDate"`
	LastCommitDate         *time.Time `json:"lastCommitDate"`
}

// BestPractices holds proxy-heuristic percentages over a repository list.
// The proxies are deliberately coarse (e.g. pages-or-downloads standing in
// for CI); they are documented heuristics, not ground truth.
type BestPractices struct {
	PctWithLicense      int `json:"pctWithLicense"`
	PctWithReadme       int `json:"pctWithReadme"`
	PctWithCI           int `json:"pctWithCI"`
	PctWithTopics       int `json:"pctWithTopics"`
	PctWithContributing int `json:"pctWithContributing"`
	PctWithDescription  int `json:"pctWithDescription"`
	ArchivedRatio       int `json:"archivedRatio"`
}

// Impact scores a user's footprint across repositories.
type Impact struct {
	PopularTopics     []string `json:"popularTopics"`
	ContributionScore int      `json:"contributionScore"`
	DiversityScore    int      `json:"diversityScore"`
}

// UserAnalysis bundles the five user-only views. These replace, not extend,
// the repository metric bundle.
type UserAnalysis struct {
	UserProfile      UserProfile      `json:"userProfile"`
	PortfolioSummary PortfolioSummary `json:"portfolioSummary"`
	ActivityMetrics  ActivityMetrics  `json:"activityMetrics"`
	BestPractices    BestPractices    `json:"bestPractices"`
	Impact           Impact           `json:"impact"`
}

// AnalysisType discriminates repository-mode from user-mode records.
type AnalysisType string

const (
	AnalysisTypeRepository AnalysisType = "repository"
	AnalysisTypeUser       AnalysisType = "user"
)

// AnalysisRequest is the inbound analyze request.
type AnalysisRequest struct {
	URL  string       `json:"url"`
	Type AnalysisType `json:"type"`
}

// AnalysisRecord is the persisted result of one analysis run. Its JSON
// shape is discriminated by AnalysisType: repository records serialize the
// URL as repositoryUrl and carry no username key, user records serialize it
// as userUrl and carry no repository keys.
type AnalysisRecord struct {
	ID                 string              `db:"id"`
	URL                string              `db:"url"`
	RepositoryName     string              `db:"repository_name"`
	RepositoryOwner    string              `db:"repository_owner"`
	Username           string              `db:"username"`
	AnalysisType       AnalysisType        `db:"analysis_type"`
	DoraMetrics        *DoraMetrics        `db:"-"`
	HealthMetrics      *HealthMetrics      `db:"-"`
	Contributors       []Contributor       `db:"-"`
	Timeline           []TimelineDay       `db:"-"`
	WorkClassification *WorkClassification `db:"-"`
	UserAnalysis       *UserAnalysis       `db:"-"`
	CreatedAt          time.Time           `db:"created_at"`
}

type repositoryRecordJSON struct {
	ID                 string              `json:"id"`
	RepositoryURL      string              `json:"repositoryUrl"`
	RepositoryName     string              `json:"repositoryName"`
	RepositoryOwner    string              `json:"repositoryOwner"`
	AnalysisType       AnalysisType        `json:"analysisType"`
	DoraMetrics        *DoraMetrics        `json:"doraMetrics,omitempty"`
	HealthMetrics      *HealthMetrics      `json:"healthMetrics,omitempty"`
	Contributors       []Contributor       `json:"contributors,omitempty"`
	Timeline           []TimelineDay       `json:"timeline,omitempty"`
	WorkClassification *WorkClassification `json:"workClassification,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
}

type userRecordJSON struct {
	ID           string        `json:"id"`
	UserURL      string        `json:"userUrl"`
	Username     string        `json:"username"`
	AnalysisType AnalysisType  `json:"analysisType"`
	UserAnalysis *UserAnalysis `json:"userAnalysis,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// MarshalJSON emits the mode-specific response shape.
func (r AnalysisRecord) MarshalJSON() ([]byte, error) {
	if r.AnalysisType == AnalysisTypeUser {
		return json.Marshal(userRecordJSON{
			ID:           r.ID,
			UserURL:      r.URL,
			Username:     r.Username,
			AnalysisType: r.AnalysisType,
			UserAnalysis: r.UserAnalysis,
			CreatedAt:    r.CreatedAt,
		})
	}
	return json.Marshal(repositoryRecordJSON{
		ID:                 r.ID,
		RepositoryURL:      r.URL,
		RepositoryName:     r.RepositoryName,
		RepositoryOwner:    r.RepositoryOwner,
		AnalysisType:       r.AnalysisType,
		DoraMetrics:        r.DoraMetrics,
		HealthMetrics:      r.HealthMetrics,
		Contributors:       r.Contributors,
		Timeline:           r.Timeline,
		WorkClassification: r.WorkClassification,
		CreatedAt:          r.CreatedAt,
	})
}

// UnmarshalJSON accepts either mode's shape.
func (r *AnalysisRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		repositoryRecordJSON
		UserURL      string        `json:"userUrl"`
		Username     string        `json:"username"`
		UserAnalysis *UserAnalysis `json:"userAnalysis"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ID = raw.ID
	r.URL = raw.RepositoryURL
	if raw.UserURL != "" {
		r.URL = raw.UserURL
	}
	r.RepositoryName = raw.RepositoryName
	r.RepositoryOwner = raw.RepositoryOwner
	r.Username = raw.Username
	r.AnalysisType = raw.AnalysisType
	r.DoraMetrics = raw.DoraMetrics
	r.HealthMetrics = raw.HealthMetrics
	r.Contributors = raw.Contributors
	r.Timeline = raw.Timeline
	r.WorkClassification = raw.WorkClassification
	r.UserAnalysis = raw.UserAnalysis
	r.CreatedAt = raw.CreatedAt
	return nil
}

// AnalysisSummary is the trimmed listing shape for recent analyses.
type AnalysisSummary struct {
	ID              string       `json:"id"`
	URL             string       `json:"url"`
	RepositoryName  string       `json:"repositoryName,omitempty"`
	RepositoryOwner string       `json:"repositoryOwner,omitempty"`
	Username        string       `json:"username,omitempty"`
	AnalysisType    AnalysisType `json:"analysisType"`
	CreatedAt       time.Time    `json:"createdAt"`
}
