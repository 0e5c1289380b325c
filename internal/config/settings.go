package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Settings are the optional user settings loaded from settings.json.
// Pointer fields distinguish "not configured" from a configured zero
// value; precedence is CLI flag > env var > settings file > default.
type Settings struct {
	Debug            *bool       `json:"debug,omitempty"`
	DatabasePath     string      `json:"database_path,omitempty"`
	GeneratorCommand StringArray `json:"generator_command,omitempty"`
	GitBin           string      `json:"git_bin,omitempty"`
	MaxLogFiles      *int        `json:"max_log_files,omitempty"`
}

// StringArray supports both JSON arrays and comma-separated strings
type StringArray []string

// UnmarshalJSON implements custom unmarshaling for StringArray
func (sa *StringArray) UnmarshalJSON(data []byte) error {
	// Try array format first
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*sa = arr
		return nil
	}

	// Fall back to comma-separated string
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*sa = parseCommaSeparated(str)
	return nil
}

// parseCommaSeparated splits comma-separated string and trims whitespace
func parseCommaSeparated(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// GetSettingsPath returns the settings file location, honoring REVU_HOME.
func GetSettingsPath() string {
	if home := os.Getenv("REVU_HOME"); home != "" {
		return filepath.Join(home, "settings.json")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "~/.revu/settings.json" // fallback to unexpanded path
	}
	return filepath.Join(homeDir, ".revu", "settings.json")
}

// GetDefaultDatabasePath returns where review decisions are stored when
// not configured.
func GetDefaultDatabasePath() string {
	if home := os.Getenv("REVU_HOME"); home != "" {
		return filepath.Join(home, "revu.db")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "revu.db"
	}
	return filepath.Join(homeDir, ".revu", "revu.db")
}

// LoadSettings loads settings from the settings file. A missing file is
// not an error; defaults apply.
func LoadSettings() (*Settings, error) {
	path := GetSettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	return &settings, nil
}

// SaveSettings writes settings back to the settings file.
func SaveSettings(settings *Settings) error {
	path := GetSettingsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
