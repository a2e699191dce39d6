package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"videobatch/pkg/auth"
	"videobatch/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the YouTube API key",
	Long: `Manage the YouTube Data API key used by 'videobatch run'.

The key is looked up in this order:
  - VIDEOBATCH_API_KEY or NUXT_GOOGLE_API_KEY environment variable
  - System keychain (stored with 'videobatch auth set-key')
  - Encrypted credentials file, used by set-key when no keychain is available
  - youtube.api_key in the configuration file`,
}

// setKeyCmd represents the auth set-key command
var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store the API key in the system keychain",
	Long: `Store the YouTube Data API key in the system keychain.

On hosts without a keychain the key is sealed into an encrypted file under
the user config directory instead. Set VIDEOBATCH_PASSPHRASE to control the
encryption passphrase; otherwise one is generated next to the file.

The key is read from the terminal without echo, or from stdin when piped.`,
	Example: `  # Interactive
  videobatch auth set-key

  # From a secret manager
  vault read -field=key secret/youtube | videobatch auth set-key`,
	Args: cobra.NoArgs,
	RunE: runSetKey,
}

// authStatusCmd represents the auth status command
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which API key would be used",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

// clearKeyCmd represents the auth clear-key command
var clearKeyCmd = &cobra.Command{
	Use:   "clear-key",
	Short: "Remove the stored API key",
	Args:  cobra.NoArgs,
	RunE:  runClearKey,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(setKeyCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(clearKeyCmd)
}

func runSetKey(cmd *cobra.Command, args []string) error {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(ui.Output, "YouTube API key: ")
	}

	key, err := readSecret()
	if err != nil {
		return fmt.Errorf("failed to read api key: %w", err)
	}

	source, err := auth.NewManager("").SetKey(key)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return errors.New("api key cannot be empty")
		}
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("API key stored in %s: %s", source, auth.MaskKey(strings.TrimSpace(key))))
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	cred, err := auth.NewManager(cfg.YouTube.APIKey).Resolve()
	if err != nil {
		ui.PrintWarning("No API key configured")
		fmt.Fprintln(ui.Output, "\nSet VIDEOBATCH_API_KEY or run 'videobatch auth set-key'.")
		return err
	}

	ui.PrintInfo("Source", cred.Source)
	ui.PrintInfo("Key", cred.Masked())
	return nil
}

func runClearKey(cmd *cobra.Command, args []string) error {
	err := auth.NewManager("").ClearKey()
	if errors.Is(err, auth.ErrCredentialsNotFound) {
		ui.PrintWarning("No stored API key found")
		return nil
	}
	if err != nil {
		return err
	}

	ui.PrintSuccess("Stored API key removed")
	return nil
}

// readSecret reads a secret from stdin without echoing when stdin is a terminal
func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(ui.Output)
		if err == nil {
			return string(secret), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
