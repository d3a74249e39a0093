package analyzer

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/gitgauge/gitgauge-go/internal/models"
)

// portfolioWindow is the recency window for "active" repositories.
const portfolioWindow = 90 * 24 * time.Hour

// UserAnalysis assembles the five user-only views over a user's profile,
// repository list and merged commit stream. reposContributed is the number
// of repositories that actually yielded commits during aggregation.
func (e *Engine) UserAnalysis(user models.UserAccount, repos []models.Repository, commits []models.CommitRecord, reposContributed int) models.UserAnalysis {
	return models.UserAnalysis{
		UserProfile:      e.UserProfile(user),
		PortfolioSummary: e.PortfolioSummary(repos),
		ActivityMetrics:  e.ActivityMetrics(commits, reposContributed),
		BestPractices:    e.BestPractices(repos),
		Impact:           e.Impact(repos, commits),
	}
}

// UserProfile reshapes the GitHub profile and derives the account age.
func (e *Engine) UserProfile(user models.UserAccount) models.UserProfile {
	age := 0
	if !user.CreatedAt.IsZero() {
		age = int(e.now().Sub(user.CreatedAt).Hours() / 24)
	}

	return models.UserProfile{
		Username:       user.Login,
		Name:           user.Name,
		AvatarURL:      user.AvatarURL,
		Followers:      user.Followers,
		Following:      user.Following,
		PublicRepos:    user.PublicRepos,
		AccountAgeDays: age,
		Hireable:       user.Hireable,
		Company:        user.Company,
		Location:       user.Location,
		Bio:            user.Bio,
	}
}

// PortfolioSummary partitions the repository list and tallies languages,
// stars and forks, with a top-5 stars leaderboard.
func (e *Engine) PortfolioSummary(repos []models.Repository) models.PortfolioSummary {
	cutoff := e.now().Add(-portfolioWindow)

	summary := models.PortfolioSummary{Languages: make(map[string]int)}
	for _, r := range repos {
		if r.Fork {
			summary.TotalForked++
		} else {
			summary.TotalOwned++
		}
		if r.Archived {
			summary.TotalArchived++
		}
		if r.UpdatedAt.After(cutoff) {
			summary.ReposActiveLast90++
		}
		if r.HasDownloads {
			summary.ReposWithReleases++
		}
		if r.Language != "" {
			summary.Languages[r.Language]++
		}
		summary.TotalStars += r.Stars
		summary.TotalForks += r.Forks
	}

	top := make([]models.Repository, len(repos))
	copy(top, repos)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Stars > top[j].Stars })
	for i, r := range top {
		if i >= 5 {
			break
		}
		summary.TopReposByStars = append(summary.TopReposByStars, models.TopRepo{
			Name:        r.Name,
			Stars:       r.Stars,
			Description: r.Description,
			Language:    r.Language,
		})
	}

	return summary
}

// ActivityMetrics derives when-and-how-often statistics from the merged
// commit stream. Active days and streaks use UTC calendar dates; the weekday
// and hour histograms use each commit's local time.
func (e *Engine) ActivityMetrics(commits []models.CommitRecord, reposContributed int) models.ActivityMetrics {
	if len(commits) == 0 {
		return models.ActivityMetrics{}
	}

	sorted := sortedByDate(commits)

	metrics := models.ActivityMetrics{
		TotalCommits:          len(commits),
		ReposContributedCount: reposContributed,
	}

	days := make(map[string]struct{})
	for _, c := range commits {
		days[c.Date.UTC().Format("2006-01-02")] = struct{}{}
		local := c.Date.Local()
		metrics.CommitsByWeekday[int(local.Weekday())]++
		metrics.CommitsByHour[local.Hour()]++
	}

	metrics.ActiveDays = len(days)
	metrics.AvgCommitsPerActiveDay = math.Round(float64(len(commits))/float64(len(days))*100) / 100
	metrics.LongestStreak = longestStreak(days)

	first := sorted[0].Date
	last := sorted[len(sorted)-1].Date
	metrics.FirstCommitDate = &first
	metrics.LastCommitDate = &last

	return metrics
}

// longestStreak scans the sorted distinct dates for runs of consecutive
// calendar days.
func longestStreak(days map[string]struct{}) int {
	sorted := make([]string, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	longest, current := 0, 0
	var prev time.Time
	for i, d := range sorted {
		day, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue
		}
		if i > 0 && day.Sub(prev) == 24*time.Hour {
			current++
		} else {
			if current > longest {
				longest = current
			}
			current = 1
		}
		prev = day
	}
	if current > longest {
		longest = current
	}
	return longest
}

// BestPractices computes proxy percentages over the repository list. Each
// check is a deliberate heuristic over metadata flags, not an inspection of
// repository contents.
func (e *Engine) BestPractices(repos []models.Repository) models.BestPractices {
	total := len(repos)
	if total == 0 {
		return models.BestPractices{}
	}

	var license, readme, ci, topics, contributing, description, archived int
	for _, r := range repos {
		if r.HasLicense {
			license++
		}
		if r.HasWiki || strings.Contains(strings.ToLower(r.Description), "readme") {
			readme++
		}
		if r.HasPages || r.HasDownloads {
			ci++
		}
		if len(r.Topics) > 0 {
			topics++
		}
		if r.HasIssues {
			contributing++
		}
		if strings.TrimSpace(r.Description) != "" {
			description++
		}
		if r.Archived {
			archived++
		}
	}

	return models.BestPractices{
		PctWithLicense:      roundPct(license, total),
		PctWithReadme:       roundPct(readme, total),
		PctWithCI:           roundPct(ci, total),
		PctWithTopics:       roundPct(topics, total),
		PctWithContributing: roundPct(contributing, total),
		PctWithDescription:  roundPct(description, total),
		ArchivedRatio:       roundPct(archived, total),
	}
}

// Impact blends topic popularity, language diversity, and an ad hoc weighted
// contribution score across the portfolio.
func (e *Engine) Impact(repos []models.Repository, commits []models.CommitRecord) models.Impact {
	topicCounts := make(map[string]int)
	languages := make(map[string]struct{})
	totalStars := 0

	for _, r := range repos {
		for _, topic := range r.Topics {
			topicCounts[topic]++
		}
		if r.Language != "" {
			languages[r.Language] = struct{}{}
		}
		totalStars += r.Stars
	}

	topics := make([]string, 0, len(topicCounts))
	for t := range topicCounts {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		if topicCounts[topics[i]] != topicCounts[topics[j]] {
			return topicCounts[topics[i]] > topicCounts[topics[j]]
		}
		return topics[i] < topics[j]
	})
	if len(topics) > 10 {
		topics = topics[:10]
	}

	contribution := math.Min(float64(len(commits))*0.1+float64(totalStars)*0.5+float64(len(repos))*2, 100)

	return models.Impact{
		PopularTopics:     topics,
		ContributionScore: int(math.Round(contribution)),
		DiversityScore:    int(math.Min(float64(len(languages)*10), 100)),
	}
}
