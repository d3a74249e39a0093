package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{"tagged not found", New(KindNotFound, "repo missing"), KindNotFound},
		{"tagged rate limited", New(KindRateLimited, "quota exhausted"), KindRateLimited},
		{"wrapped in fmt chain", fmt.Errorf("analyze: %w", New(KindAuthRequired, "no token")), KindAuthRequired},
		{"untagged", stderrors.New("boom"), KindUnknown},
		{"nil cause wrap", Wrap(stderrors.New("io"), KindValidation, "bad url"), KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.err))
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, KindUnknown, "ignored"))
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := stderrors.New("secondary rate limit")
	err := Wrap(cause, KindRateLimited, "list commits")

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "list commits")
	assert.Contains(t, err.Error(), "secondary rate limit")
}

func TestIsMatchesOnKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", Newf(KindNotFound, "user %s not found", "octocat"))

	assert.True(t, IsNotFound(err))
	assert.False(t, IsRateLimited(err))
	assert.True(t, stderrors.Is(err, &Error{Kind: KindNotFound}))
}
