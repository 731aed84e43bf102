// Package config loads and validates hostcall's runtime configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hostcall/hostcall/domain/entities"
	domainerrors "github.com/hostcall/hostcall/domain/errors"
)

// validate is a package-level singleton; building a validator is expensive.
var validate = validator.New()

// Config holds the settings shared by every command.
type Config struct {
	// ModuleName is the host module the guest imports from.
	ModuleName string `yaml:"module_name" json:"module_name" validate:"required"`

	// ImportName is the imported function name.
	ImportName string `yaml:"import_name" json:"import_name" validate:"required"`

	// Width is the ABI integer width in bits.
	Width int `yaml:"width" json:"width" validate:"oneof=32 64"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat is text or json.
	LogFormat string `yaml:"log_format" json:"log_format" validate:"oneof=text json"`
}

// Default returns the configuration matching the reference guest.
func Default() Config {
	return Config{
		ModuleName: entities.DefaultImportModule,
		ImportName: entities.ImportFunctionName,
		Width:      int(entities.Width32),
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the struct tags and reports the first failing field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &domainerrors.ConfigError{
			Field: toSnake(fe.Field()),
			Err:   fmt.Errorf("failed on '%s' rule (value %v)", fe.Tag(), fe.Value()),
		}
	}
	return &domainerrors.ConfigError{Err: err}
}

// ABIWidth returns Width as an entities.Width.
func (c Config) ABIWidth() entities.Width {
	return entities.Width(c.Width)
}

// Logger builds the slog logger described by LogLevel and LogFormat.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(c.LogLevel)}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
