package config

import (
	"testing"
)

func TestKeyringManager_SaveAndGetGitHubToken(t *testing.T) {
	km := NewKeyringManager(nil)

	// Skip on headless systems without a keychain backend.
	if !km.IsAvailable() {
		t.Skip("Keychain not available, skipping test")
	}

	defer km.DeleteGitHubToken()

	testToken := "ghp_test123456789"

	if err := km.SetGitHubToken(testToken); err != nil {
		t.Fatalf("Failed to save GitHub token: %v", err)
	}

	retrieved, err := km.GetGitHubToken()
	if err != nil {
		t.Fatalf("Failed to get GitHub token: %v", err)
	}

	if retrieved != testToken {
		t.Errorf("Expected token %s, got %s", testToken, retrieved)
	}
}

func TestKeyringManager_DeleteGitHubToken(t *testing.T) {
	km := NewKeyringManager(nil)

	if !km.IsAvailable() {
		t.Skip("Keychain not available, skipping test")
	}

	if err := km.SetGitHubToken("ghp_test_delete_123"); err != nil {
		t.Fatalf("Failed to save GitHub token: %v", err)
	}

	if err := km.DeleteGitHubToken(); err != nil {
		t.Fatalf("Failed to delete GitHub token: %v", err)
	}

	retrieved, err := km.GetGitHubToken()
	if err != nil {
		t.Fatalf("Unexpected error after delete: %v", err)
	}
	if retrieved != "" {
		t.Errorf("Expected empty token after delete, got %s", retrieved)
	}
}

func TestKeyringManager_SetEmptyTokenFails(t *testing.T) {
	km := NewKeyringManager(nil)

	if err := km.SetGitHubToken(""); err == nil {
		t.Error("Expected error when saving empty token")
	}
}
