package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/gitgauge/gitgauge-go/internal/errors"
)

// CredentialManager handles token retrieval with a priority chain:
// environment variables → keychain → config file → interactive prompt.
type CredentialManager struct {
	keyring    *KeyringManager
	configPath string
}

// Credentials holds stored credentials.
type Credentials struct {
	GitHubToken string `yaml:"github_token"`
}

// NewCredentialManager creates a new credential manager.
func NewCredentialManager(logger *logrus.Logger) *CredentialManager {
	homeDir, _ := os.UserHomeDir()
	configPath := filepath.Join(homeDir, ".config", "gitgauge", "credentials.yaml")

	return &CredentialManager{
		keyring:    NewKeyringManager(logger),
		configPath: configPath,
	}
}

// GetGitHubToken retrieves the GitHub token using the priority chain. An
// empty token with a nil error means unauthenticated access; callers that
// require a token use RequireGitHubToken.
func (cm *CredentialManager) GetGitHubToken() (string, error) {
	// 1. Environment variable (highest priority)
	for _, envVar := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if token := os.Getenv(envVar); token != "" {
			return token, nil
		}
	}

	// 2. Keychain
	if cm.keyring.IsAvailable() {
		if token, err := cm.keyring.GetGitHubToken(); err == nil && token != "" {
			return token, nil
		}
	}

	// 3. Config file
	if creds, err := cm.loadConfigFile(); err == nil && creds.GitHubToken != "" {
		return creds.GitHubToken, nil
	}

	// 4. Interactive prompt (optional credential)
	if isInteractive() {
		fmt.Println("\nGitHub token not found (optional).")
		fmt.Println("   Required for: private repos, higher rate limits")
		fmt.Println("   Create one at: https://github.com/settings/tokens")
		fmt.Println()
		fmt.Print("Enter GitHub token (or press Enter to skip): ")

		token, _ := cm.readSecurely()
		if token != "" {
			if cm.keyring.IsAvailable() {
				cm.keyring.SetGitHubToken(token)
			}
			return token, nil
		}
		return "", nil
	}

	// Token is optional for public repos
	return "", nil
}

// RequireGitHubToken retrieves the GitHub token and fails if none is
// configured anywhere in the chain.
func (cm *CredentialManager) RequireGitHubToken() (string, error) {
	token, err := cm.GetGitHubToken()
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New(errors.KindAuthRequired,
			"GITHUB_TOKEN not found. Set it via:\n"+
				"  1. Environment variable: export GITHUB_TOKEN=ghp_...\n"+
				"  2. Run: gitgauge auth login (to set up keychain)\n"+
				"  3. Config file: "+cm.configPath)
	}
	return token, nil
}

// SaveGitHubToken saves the token to the keychain (preferred) or the
// config file (fallback).
func (cm *CredentialManager) SaveGitHubToken(token string) error {
	if token == "" {
		return errors.New(errors.KindValidation, "github token cannot be empty")
	}

	if cm.keyring.IsAvailable() {
		if err := cm.keyring.SetGitHubToken(token); err != nil {
			return errors.Wrap(err, errors.KindUnknown, "failed to save GitHub token to keychain")
		}
		return nil
	}

	return cm.saveConfigFile(Credentials{GitHubToken: token})
}

// DeleteGitHubToken removes the stored token from the keychain and the
// config file.
func (cm *CredentialManager) DeleteGitHubToken() error {
	if cm.keyring.IsAvailable() {
		if err := cm.keyring.DeleteGitHubToken(); err != nil {
			return err
		}
	}
	if err := os.Remove(cm.configPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// HasToken checks whether a token is configured anywhere in the chain
// without prompting.
func (cm *CredentialManager) HasToken() bool {
	for _, envVar := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if os.Getenv(envVar) != "" {
			return true
		}
	}

	if cm.keyring.IsAvailable() {
		if token, err := cm.keyring.GetGitHubToken(); err == nil && token != "" {
			return true
		}
	}

	if creds, err := cm.loadConfigFile(); err == nil && creds.GitHubToken != "" {
		return true
	}

	return false
}

// GetConfigPath returns the path to the credentials file.
func (cm *CredentialManager) GetConfigPath() string {
	return cm.configPath
}

// loadConfigFile loads credentials from the config file.
func (cm *CredentialManager) loadConfigFile() (*Credentials, error) {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, err
	}

	return &creds, nil
}

// saveConfigFile saves credentials to the config file with user-only
// permissions.
func (cm *CredentialManager) saveConfigFile(creds Credentials) error {
	dir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(creds)
	if err != nil {
		return err
	}

	return os.WriteFile(cm.configPath, data, 0600)
}

// readSecurely reads a token from stdin without echoing.
func (cm *CredentialManager) readSecurely() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		bytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // New line after password input
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(bytes)), nil
	}

	// Fallback: read from stdin (piped input)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// isInteractive returns true if stdin is a terminal (not piped).
func isInteractive() bool {
	return term.IsTerminal(int(syscall.Stdin))
}
