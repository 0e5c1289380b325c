package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("REVU_HOME", t.TempDir())

	settings, err := LoadSettings()
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Nil(t, settings.Debug)
	assert.Empty(t, settings.GitBin)
	assert.Empty(t, settings.GeneratorCommand)
}

func TestLoadSettingsReadsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("REVU_HOME", home)

	content := `{
		"debug": true,
		"git_bin": "/usr/local/bin/git",
		"generator_command": ["llm", "-s", "write a commit message"],
		"max_log_files": 5
	}`
	require.NoError(t, os.WriteFile(filepath.Join(home, "settings.json"), []byte(content), 0644))

	settings, err := LoadSettings()
	require.NoError(t, err)
	require.NotNil(t, settings.Debug)
	assert.True(t, *settings.Debug)
	assert.Equal(t, "/usr/local/bin/git", settings.GitBin)
	assert.Equal(t, StringArray{"llm", "-s", "write a commit message"}, settings.GeneratorCommand)
	require.NotNil(t, settings.MaxLogFiles)
	assert.Equal(t, 5, *settings.MaxLogFiles)
}

func TestLoadSettingsInvalidJSON(t *testing.T) {
	home := t.TempDir()
	t.Setenv("REVU_HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "settings.json"), []byte("{not json"), 0644))

	_, err := LoadSettings()
	assert.Error(t, err)
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	t.Setenv("REVU_HOME", filepath.Join(t.TempDir(), "nested"))

	debug := true
	in := &Settings{Debug: &debug, GitBin: "git"}
	require.NoError(t, SaveSettings(in))

	out, err := LoadSettings()
	require.NoError(t, err)
	require.NotNil(t, out.Debug)
	assert.True(t, *out.Debug)
	assert.Equal(t, "git", out.GitBin)
}

func TestStringArrayAcceptsCommaSeparated(t *testing.T) {
	var sa StringArray
	require.NoError(t, json.Unmarshal([]byte(`"llm, -s , summarize"`), &sa))
	assert.Equal(t, StringArray{"llm", "-s", "summarize"}, sa)
}

func TestStringArrayAcceptsArray(t *testing.T) {
	var sa StringArray
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &sa))
	assert.Equal(t, StringArray{"a", "b"}, sa)
}

func TestStringArrayEmptyString(t *testing.T) {
	var sa StringArray
	require.NoError(t, json.Unmarshal([]byte(`""`), &sa))
	assert.Empty(t, sa)
}
