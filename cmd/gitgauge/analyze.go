package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitgauge/gitgauge-go/internal/models"
)

var (
	analyzeType string
	analyzeJSON bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <github-url>",
	Short: "Analyze a GitHub repository or user from the command line",
	Long: `Runs one analysis and prints the result.

Examples:
  gitgauge analyze https://github.com/golang/go
  gitgauge analyze https://github.com/octocat --type user --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeType, "type", "", "analysis type: repository or user (default: inferred)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full result as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.store.Close()

	record, err := d.service.Analyze(cmd.Context(), models.AnalysisRequest{
		URL:  args[0],
		Type: models.AnalysisType(analyzeType),
	})
	if err != nil {
		return err
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	}

	printSummary(record)
	return nil
}

func printSummary(record *models.AnalysisRecord) {
	fmt.Printf("Analysis %s (%s)\n", record.ID, record.AnalysisType)
	fmt.Printf("URL: %s\n\n", record.URL)

	if record.AnalysisType == models.AnalysisTypeUser {
		printUserSummary(record)
		return
	}

	if record.DoraMetrics != nil {
		d := record.DoraMetrics
		fmt.Printf("DORA (overall %d, %s)\n", d.OverallScore, d.OverallRating)
		fmt.Printf("  Deployment frequency: %-18s %s\n", d.DeploymentFrequency.Value, d.DeploymentFrequency.Rating)
		fmt.Printf("  Lead time:            %-18s %s\n", d.LeadTime.Value, d.LeadTime.Rating)
		fmt.Printf("  Change failure rate:  %-18s %s\n", d.ChangeFailureRate.Value, d.ChangeFailureRate.Rating)
		fmt.Printf("  Recovery time:        %-18s %s\n", d.RecoveryTime.Value, d.RecoveryTime.Rating)
	}

	if record.HealthMetrics != nil {
		h := record.HealthMetrics
		fmt.Printf("\nHealth: %d (%s), %d commits, %d contributors, velocity %s\n",
			h.OverallScore, h.Status, h.TotalCommits, h.ActiveContributors, h.CodeVelocity)
	}

	if record.WorkClassification != nil {
		w := record.WorkClassification
		fmt.Printf("\nWork: %d%% innovation, %d%% maintenance, %d%% bug fixes, %d%% docs\n",
			w.Innovation, w.Maintenance, w.BugFixes, w.Documentation)
	}

	if len(record.Contributors) > 0 {
		fmt.Println("\nTop contributors:")
		for _, c := range record.Contributors {
			fmt.Printf("  %2d. %-24s %d commits\n", c.Rank, c.Name, c.Commits)
		}
	}
}

func printUserSummary(record *models.AnalysisRecord) {
	if record.UserAnalysis == nil {
		return
	}
	ua := record.UserAnalysis

	fmt.Printf("User: %s\n", ua.UserProfile.Username)
	fmt.Printf("  Followers: %d, public repos: %d, account age: %d days\n",
		ua.UserProfile.Followers, ua.UserProfile.PublicRepos, ua.UserProfile.AccountAgeDays)

	ps := ua.PortfolioSummary
	fmt.Printf("\nPortfolio: %d owned, %d forked, %d archived, %d stars total\n",
		ps.TotalOwned, ps.TotalForked, ps.TotalArchived, ps.TotalStars)
	for _, repo := range ps.TopReposByStars {
		fmt.Printf("  %-28s %d stars\n", repo.Name, repo.Stars)
	}

	am := ua.ActivityMetrics
	fmt.Printf("\nActivity: %d commits over %d active days, longest streak %d days\n",
		am.TotalCommits, am.ActiveDays, am.LongestStreak)

	fmt.Printf("\nImpact: contribution %d, diversity %d\n",
		ua.Impact.ContributionScore, ua.Impact.DiversityScore)
}
