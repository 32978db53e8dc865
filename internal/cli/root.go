package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/deskhours/sucktorial/internal/config"
	"github.com/deskhours/sucktorial/internal/logger"
	"github.com/deskhours/sucktorial/internal/tui"
)

var (
	flagEmail     string
	flagPassword  string
	flagEnvName   string
	flagUserAgent string
	flagBaseURL   string
	flagDebug     bool

	logLevel   string
	logFile    string
	logConsole bool
)

var rootCmd = &cobra.Command{
	Use:   "sucktorial",
	Short: "Sucktorial - clock in and out of Factorial from the terminal",
	Long: `Sucktorial is a personal command-line client for the Factorial HR
web service: login, clock in/out, and inspect shifts and leaves without
touching a browser.

Run 'sucktorial' without arguments to launch the interactive dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load preferences from file (or defaults if not exists)
		prefs, err := config.LoadPrefs()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			prefs = config.DefaultPrefs()
		}

		// Override with CLI flags if provided
		prefsChanged := false
		if cmd.Flags().Changed("log-level") {
			prefs.LogLevel = logLevel
			prefsChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			prefs.LogFile = logFile
			prefsChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			prefs.LogConsole = logConsole
			prefsChanged = true
		}

		// Save preferences if changed via CLI flags
		if prefsChanged {
			if err := prefs.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		settings := &config.Settings{Prefs: prefs, Debug: flagDebug}
		if err := logger.Init(settings.LoggerConfig()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("Sucktorial started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		// Launch the dashboard
		client, err := newClient()
		if err != nil {
			return err
		}

		logger.Info("Launching TUI")
		m := tui.NewModel(client)
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("Sucktorial exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Account and environment flags
	rootCmd.PersistentFlags().StringVar(&flagEmail, "email", "", "Account email (overrides .env)")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "Account password (overrides .env)")
	rootCmd.PersistentFlags().StringVar(&flagEnvName, "env", "", "Use credentials from .<name>.env")
	rootCmd.PersistentFlags().StringVar(&flagUserAgent, "user-agent", "", "Custom User-Agent header")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Vendor API base URL")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	// Logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Add subcommands
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(clockCmd)
	rootCmd.AddCommand(shiftsCmd)
	rootCmd.AddCommand(periodsCmd)
	rootCmd.AddCommand(leavesCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(graphqlCmd)
}
