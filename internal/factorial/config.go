package factorial

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the vendor's production API host.
	DefaultBaseURL = "https://api.factorialhr.com"

	// DefaultLocale selects the language segment of the login page path.
	DefaultLocale = "en"

	// DefaultUserAgent mimics a desktop browser; the login form rejects
	// obviously non-browser agents.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"

	// clockSource tags clock-in/clock-out events the way the web app does.
	clockSource = "desktop"

	defaultTimeout = 30 * time.Second
)

// Credentials identify one vendor account.
type Credentials struct {
	Email    string
	Password string
}

// Config is the resolved client configuration. Derive it once at startup;
// the client never mutates it.
type Config struct {
	BaseURL      string
	LoginURL     string
	SessionURL   string
	OpenShiftURL string
	ClockInURL   string
	ClockOutURL  string
	ShiftsURL    string
	PeriodsURL   string
	LeavesURL    string
	GraphQLURL   string

	UserAgent   string
	EmployeeID  int64
	LeaveGuard  bool // refuse to clock in on a day covered by a leave
	SessionsDir string
	Timeout     time.Duration
}

// NewConfig derives the endpoint map from a base URL and login-page locale.
// Empty arguments select the vendor defaults.
func NewConfig(baseURL, locale string) Config {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if locale == "" {
		locale = DefaultLocale
	}
	base := strings.TrimRight(baseURL, "/")

	home, _ := os.UserHomeDir()

	return Config{
		BaseURL:      base,
		LoginURL:     base + "/" + locale + "/users/sign_in",
		SessionURL:   base + "/sessions",
		OpenShiftURL: base + "/attendance/shifts/open_shift",
		ClockInURL:   base + "/attendance/shifts/clock_in",
		ClockOutURL:  base + "/attendance/shifts/clock_out",
		ShiftsURL:    base + "/attendance/shifts",
		PeriodsURL:   base + "/attendance/periods",
		LeavesURL:    base + "/leaves",
		GraphQLURL:   base + "/graphql",
		UserAgent:    DefaultUserAgent,
		SessionsDir:  filepath.Join(home, ".sucktorial", "sessions"),
		Timeout:      defaultTimeout,
	}
}

// shiftURL is the resource path of a single shift.
func (c Config) shiftURL(id int64) string {
	return fmt.Sprintf("%s/%d", c.ShiftsURL, id)
}
