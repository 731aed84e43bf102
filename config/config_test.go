package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/hostcall/hostcall/domain/entities"
	domainerrors "github.com/hostcall/hostcall/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "env", cfg.ModuleName)
	assert.Equal(t, "import_function", cfg.ImportName)
	assert.Equal(t, entities.Width32, cfg.ABIWidth())
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hostcall.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 64\nlog_format: json\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, entities.Width64, cfg.ABIWidth())
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "env", cfg.ModuleName, "unset keys keep defaults")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"bad width", "width: 16\n", "width"},
		{"bad format", "log_format: xml\n", "log_format"},
		{"empty module", "module_name: \"\"\n", "module_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "hostcall.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))

			_, err := Load(path)
			var cfgErr *domainerrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: [\n"), 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogFormat = "json"
	cfg.Logger(&buf).Info("hello", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	cfg.LogFormat = "text"
	cfg.LogLevel = "error"
	cfg.Logger(&buf).Info("filtered")
	assert.Empty(t, buf.String())
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "module_name", toSnake("ModuleName"))
	assert.Equal(t, "width", toSnake("Width"))
}
