package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/deskhours/sucktorial/internal/factorial"
	"github.com/deskhours/sucktorial/internal/logger"
)

// envPrefix namespaces process environment variables so they cannot clash
// with unrelated shell settings (LANG, EMAIL on some systems).
const envPrefix = "SUCKTORIAL_"

// ErrCredentials is returned when the account credentials are incomplete.
var ErrCredentials = errors.New("config: both email and password are required, fix your .env file")

// Prefs holds the non-secret user preferences persisted in
// ~/.sucktorial/config.yaml. Credentials never live here.
type Prefs struct {
	BaseURL    string `yaml:"base_url"`    // vendor API host, empty means production
	Locale     string `yaml:"locale"`      // login page language segment
	UserAgent  string `yaml:"user_agent"`  // empty means the built-in browser agent
	EmployeeID int64  `yaml:"employee_id"` // empty means resolve via GraphQL
	LeaveGuard bool   `yaml:"leave_guard"` // refuse to clock in while on leave

	// Logging configuration
	LogLevel   string `yaml:"log_level"`   // DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file"`    // Path to log file
	LogConsole bool   `yaml:"log_console"` // Mirror log entries to stderr
}

// Overrides carries the command-line flags that take precedence over every
// other configuration source.
type Overrides struct {
	Email     string
	Password  string
	UserAgent string
	BaseURL   string
	EnvFile   string // name for .<name>.env, layered over .env
	Debug     bool
}

// Settings is the fully resolved configuration a command runs with.
type Settings struct {
	Client      factorial.Config
	Credentials factorial.Credentials
	Prefs       *Prefs
	Debug       bool
}

// DefaultPrefs returns default preferences
func DefaultPrefs() *Prefs {
	home, _ := os.UserHomeDir()
	logPath := ""
	if home != "" {
		logPath = filepath.Join(home, ".sucktorial", "logs", "sucktorial.log")
	}

	return &Prefs{
		LogLevel:   getEnv(envPrefix+"LOG_LEVEL", "INFO"),
		LogFile:    getEnv(envPrefix+"LOG_FILE", logPath),
		LogConsole: getEnv(envPrefix+"LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func prefsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".sucktorial", "config.yaml"), nil
}

// LoadPrefs loads preferences from ~/.sucktorial/config.yaml, falling back
// to defaults when the file does not exist.
func LoadPrefs() (*Prefs, error) {
	path, err := prefsPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultPrefs(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	prefs := DefaultPrefs()
	if err := yaml.Unmarshal(data, prefs); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return prefs, nil
}

// Save writes the preferences to ~/.sucktorial/config.yaml
func (p *Prefs) Save() error {
	path, err := prefsPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// envFileValues reads credentials and overrides from .env, overlaying
// .<name>.env when a named environment is selected. Missing files are not
// an error: the other sources may still supply everything.
func envFileValues(name string) map[string]string {
	values, err := godotenv.Read(".env")
	if err != nil {
		values = map[string]string{}
	}
	if name != "" {
		if named, err := godotenv.Read("." + name + ".env"); err == nil {
			for k, v := range named {
				values[k] = v
			}
		}
	}
	return values
}

// Resolve layers every configuration source into one Settings value.
// Precedence, highest first: CLI flags, SUCKTORIAL_* process environment,
// .env files, config.yaml preferences, built-in defaults. It fails with
// ErrCredentials unless both email and password are present.
func Resolve(o Overrides) (*Settings, error) {
	prefs, err := LoadPrefs()
	if err != nil {
		return nil, err
	}

	fileEnv := envFileValues(o.EnvFile)

	pick := func(override, key, pref string) string {
		if override != "" {
			return override
		}
		if v := os.Getenv(envPrefix + key); v != "" {
			return v
		}
		if v := fileEnv[key]; v != "" {
			return v
		}
		return pref
	}

	email := pick(o.Email, "EMAIL", "")
	password := pick(o.Password, "PASSWORD", "")
	if email == "" || password == "" {
		return nil, ErrCredentials
	}

	cfg := factorial.NewConfig(pick(o.BaseURL, "BASE_URL", prefs.BaseURL), pick("", "LOCALE", prefs.Locale))
	if ua := pick(o.UserAgent, "USER_AGENT", prefs.UserAgent); ua != "" {
		cfg.UserAgent = ua
	}

	cfg.EmployeeID = prefs.EmployeeID
	if raw := pick("", "EMPLOYEE_ID", ""); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config: invalid EMPLOYEE_ID %q: %w", raw, err)
		}
		cfg.EmployeeID = id
	}

	cfg.LeaveGuard = prefs.LeaveGuard
	if raw := pick("", "LEAVE_GUARD", ""); raw != "" {
		cfg.LeaveGuard = raw == "true" || raw == "1"
	}

	debug := o.Debug
	if raw := pick("", "DEBUG", ""); raw != "" {
		debug = debug || raw == "true" || raw == "1"
	}

	return &Settings{
		Client:      cfg,
		Credentials: factorial.Credentials{Email: email, Password: password},
		Prefs:       prefs,
		Debug:       debug,
	}, nil
}

// LoggerConfig converts the resolved preferences into a logger setup.
// Debug mode forces the DEBUG level regardless of the configured one.
func (s *Settings) LoggerConfig() logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.ParseLevel(s.Prefs.LogLevel)
	if s.Debug {
		cfg.Level = logger.DEBUG
	}
	if s.Prefs.LogFile != "" {
		cfg.FilePath = s.Prefs.LogFile
	}
	cfg.Console = s.Prefs.LogConsole
	return cfg
}
