package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/deskhours/sucktorial/internal/config"
	"github.com/deskhours/sucktorial/internal/factorial"
	"github.com/deskhours/sucktorial/internal/logger"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and persist the session",
	Long: `Log in to Factorial with your email and password.

Credentials are read from flags, SUCKTORIAL_* environment variables or a
.env file. If none are configured you will be prompted. The session
cookie is stored under ~/.sucktorial/sessions/ so following commands
skip the login form.

Examples:
  sucktorial login
  sucktorial login --email jane@corp.com
  sucktorial --env work login`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and delete the saved session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func runLogin(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings()
	if errors.Is(err, config.ErrCredentials) {
		// Nothing configured, fall back to an interactive prompt.
		email, password, perr := promptCredentials(flagEmail)
		if perr != nil {
			return perr
		}
		flagEmail, flagPassword = email, password
		settings, err = resolveSettings()
	}
	if err != nil {
		return err
	}

	client := factorial.New(settings.Client, settings.Credentials, logger.Default())

	fmt.Println("🔄 Logging in...")
	if err := client.Login(cmd.Context()); err != nil {
		fmt.Println("❌ Login failed. Check your credentials and try again.")
		return err
	}

	fmt.Printf("✅ Logged in as %s\n", client.Email())
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if err := client.Logout(cmd.Context()); err != nil {
		return err
	}

	fmt.Println("✅ Logged out, session deleted")
	return nil
}

// promptCredentials asks for the pieces that are missing. The password
// is read without echo.
func promptCredentials(email string) (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	} else {
		fmt.Printf("Email: %s\n", email)
	}

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", "", fmt.Errorf("failed to read password: %w", err)
	}

	return email, string(passwordBytes), nil
}
