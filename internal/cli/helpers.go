package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/deskhours/sucktorial/internal/config"
	"github.com/deskhours/sucktorial/internal/factorial"
	"github.com/deskhours/sucktorial/internal/logger"
)

// resolveSettings folds the persistent flags into the layered configuration.
func resolveSettings() (*config.Settings, error) {
	return config.Resolve(config.Overrides{
		Email:     flagEmail,
		Password:  flagPassword,
		UserAgent: flagUserAgent,
		BaseURL:   flagBaseURL,
		EnvFile:   flagEnvName,
		Debug:     flagDebug,
	})
}

// newClient builds the API client every command talks through.
func newClient() (*factorial.Client, error) {
	settings, err := resolveSettings()
	if err != nil {
		return nil, err
	}
	return factorial.New(settings.Client, settings.Credentials, logger.Default()), nil
}

// printJSON renders any value as indented JSON on stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// parseClockArg accepts RFC3339, a zone-less date-time, or a bare
// wall-clock time meaning today. An empty string means "now" and
// parses to the zero time.
func parseClockArg(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	layouts := []string{time.RFC3339, "2006-01-02T15:04", "15:04"}
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, raw, time.Local)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			now := time.Now()
			t = time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (use RFC3339, 2006-01-02T15:04 or 15:04)", raw)
}
