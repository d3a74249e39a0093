package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name in the OS keychain
	KeyringService = "GitGauge"

	// KeyringGitHubTokenItem is the key for the GitHub token
	KeyringGitHubTokenItem = "github-token"
)

// KeyringManager handles secure credential storage in the OS keychain.
type KeyringManager struct {
	logger *logrus.Entry
}

// NewKeyringManager creates a new keyring manager.
func NewKeyringManager(logger *logrus.Logger) *KeyringManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &KeyringManager{
		logger: logger.WithField("component", "keyring"),
	}
}

// SetGitHubToken stores the GitHub token in the OS keychain.
// - macOS: Keychain Access.app → "GitGauge" → "github-token"
// - Windows: Credential Manager → "GitGauge"
// - Linux: Secret Service (requires libsecret)
func (km *KeyringManager) SetGitHubToken(token string) error {
	if token == "" {
		return fmt.Errorf("github token cannot be empty")
	}

	if err := keyring.Set(KeyringService, KeyringGitHubTokenItem, token); err != nil {
		km.logger.WithError(err).Error("failed to save GitHub token to keychain")
		return fmt.Errorf("failed to save to OS keychain: %w", err)
	}

	km.logger.WithField("service", KeyringService).Info("github token saved to keychain")
	return nil
}

// GetGitHubToken retrieves the GitHub token from the OS keychain.
func (km *KeyringManager) GetGitHubToken() (string, error) {
	token, err := keyring.Get(KeyringService, KeyringGitHubTokenItem)
	if err == keyring.ErrNotFound {
		// Not an error - just not set yet
		return "", nil
	}
	if err != nil {
		km.logger.WithError(err).Error("failed to get GitHub token from keychain")
		return "", fmt.Errorf("failed to read from OS keychain: %w", err)
	}

	km.logger.Debug("github token retrieved from keychain")
	return token, nil
}

// DeleteGitHubToken removes the GitHub token from the OS keychain.
func (km *KeyringManager) DeleteGitHubToken() error {
	err := keyring.Delete(KeyringService, KeyringGitHubTokenItem)
	if err == keyring.ErrNotFound {
		// Already deleted, not an error
		return nil
	}
	if err != nil {
		km.logger.WithError(err).Error("failed to delete GitHub token from keychain")
		return fmt.Errorf("failed to delete from OS keychain: %w", err)
	}

	km.logger.Info("github token deleted from keychain")
	return nil
}

// IsAvailable checks if the OS keychain is available. Returns false on
// headless systems (CI) where a keychain backend isn't running.
func (km *KeyringManager) IsAvailable() bool {
	_, err := keyring.Get(KeyringService, "test-availability")
	if err == keyring.ErrNotFound {
		return true
	}
	if err != nil {
		km.logger.WithError(err).Debug("keychain not available")
		return false
	}
	return true
}

// MaskToken masks a token for display, keeping the first 7 and last 4
// characters: "ghp_abc...wxyz".
func MaskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) < 12 {
		return "***"
	}
	return fmt.Sprintf("%s...%s", token[:7], token[len(token)-4:])
}
