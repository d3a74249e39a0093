package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gitgauge/gitgauge-go/internal/config"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored GitHub token",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a GitHub token in the OS keychain",
	Long: `Stores a GitHub personal access token in the OS keychain (or a
user-only credentials file on systems without one). The token raises the
GitHub API rate limit and grants access to private repositories.

Create a token at: https://github.com/settings/tokens`,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored GitHub token",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a GitHub token is configured",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	fmt.Print("Enter GitHub token: ")
	token, err := readToken()
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("no token entered")
	}

	cm := config.NewCredentialManager(logger)
	if err := cm.SaveGitHubToken(token); err != nil {
		return err
	}

	fmt.Printf("Token %s saved\n", config.MaskToken(token))
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	cm := config.NewCredentialManager(logger)
	if err := cm.DeleteGitHubToken(); err != nil {
		return err
	}

	fmt.Println("Stored token removed")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	for _, envVar := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if token := os.Getenv(envVar); token != "" {
			fmt.Printf("Using %s from environment: %s\n", envVar, config.MaskToken(token))
			return nil
		}
	}

	cm := config.NewCredentialManager(logger)
	if cm.HasToken() {
		fmt.Println("Token configured (keychain or credentials file)")
		return nil
	}

	fmt.Println("No token configured. Run: gitgauge auth login")
	return nil
}

// readToken reads a token from stdin without echoing when attached to a
// terminal.
func readToken() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		bytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(bytes)), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
