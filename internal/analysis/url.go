package analysis

import (
	"regexp"
	"strings"

	"github.com/gitgauge/gitgauge-go/internal/errors"
	"github.com/gitgauge/gitgauge-go/internal/models"
)

var (
	repoURLPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/?$`)
	userURLPattern = regexp.MustCompile(`github\.com/([^/]+)/?$`)
)

// Target is a parsed GitHub URL. Repo is empty for user targets.
type Target struct {
	Owner string
	Repo  string
	URL   string
	Type  models.AnalysisType
}

// ParseGitHubURL classifies a GitHub URL as a repository or user target.
// Two path segments mean a repository, one means a user profile; a trailing
// ".git" on the repository name is stripped.
func ParseGitHubURL(raw string) (*Target, error) {
	trimmed := strings.TrimSpace(raw)

	if m := repoURLPattern.FindStringSubmatch(trimmed); m != nil {
		return &Target{
			Owner: strings.TrimSpace(m[1]),
			Repo:  strings.TrimSpace(strings.TrimSuffix(m[2], ".git")),
			URL:   trimmed,
			Type:  models.AnalysisTypeRepository,
		}, nil
	}

	if m := userURLPattern.FindStringSubmatch(trimmed); m != nil {
		return &Target{
			Owner: strings.TrimSpace(m[1]),
			URL:   trimmed,
			Type:  models.AnalysisTypeUser,
		}, nil
	}

	return nil, errors.New(errors.KindValidation,
		"invalid GitHub URL format, expected repository (github.com/owner/repo) or user (github.com/username)")
}
