package github

import (
	stderrors "errors"
	"net/http"

	gh "github.com/google/go-github/v57/github"

	"github.com/gitgauge/gitgauge-go/internal/errors"
)

// mapError converts a go-github failure into the typed taxonomy so callers
// dispatch on kind instead of matching message text.
func mapError(err error, what string) error {
	var rateErr *gh.RateLimitError
	if stderrors.As(err, &rateErr) {
		return errors.Wrap(err, errors.KindRateLimited, "rate limit exceeded fetching "+what)
	}

	var abuseErr *gh.AbuseRateLimitError
	if stderrors.As(err, &abuseErr) {
		return errors.Wrap(err, errors.KindRateLimited, "secondary rate limit fetching "+what)
	}

	var respErr *gh.ErrorResponse
	if stderrors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound, http.StatusForbidden:
			// Forbidden reads as inaccessible, same as missing.
			return errors.Wrap(err, errors.KindNotFound, what+" not found or not accessible")
		case http.StatusUnauthorized:
			return errors.Wrap(err, errors.KindAuthRequired, "github credentials rejected fetching "+what)
		}
	}

	return errors.Wrap(err, errors.KindUnknown, "fetch "+what)
}
