package component

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-peyrard/component/config"
	"github.com/a-peyrard/component/option"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
)

// SettingsEnvPrefix prefixes the environment variables read by LoadSettings,
// e.g. COMPONENT_LOG_LEVEL.
const SettingsEnvPrefix = "COMPONENT"

// Settings is the externally configurable part of a Cache.
type Settings struct {
	LogLevel           string
	PreloadConcurrency int
	AccessPolicy       string
}

func (s *Settings) ApplyDefault() {
	if s.LogLevel == "" {
		s.LogLevel = zerolog.InfoLevel.String()
	}
	if s.PreloadConcurrency == 0 {
		s.PreloadConcurrency = defaultPreloadConcurrency
	}
	if s.AccessPolicy == "" {
		s.AccessPolicy = Elevated.String()
	}
}

func (s *Settings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.LogLevel, validation.Required, validation.In(
			zerolog.TraceLevel.String(),
			zerolog.DebugLevel.String(),
			zerolog.InfoLevel.String(),
			zerolog.WarnLevel.String(),
			zerolog.ErrorLevel.String(),
			zerolog.Disabled.String(),
		)),
		validation.Field(&s.PreloadConcurrency, validation.Min(1)),
		validation.Field(&s.AccessPolicy, validation.In(Elevated.String(), ExportedOnly.String())),
	)
}

// LoadSettings reads the settings from the environment (and optionally a config file),
// applies the defaults and validates them.
func LoadSettings(opts ...option.Option[config.Options]) (*Settings, error) {
	settings, err := config.Load[Settings](append([]option.Option[config.Options]{config.WithEnvPrefix(SettingsEnvPrefix)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to load settings:\n\t%w", err)
	}
	settings.LogLevel = strings.ToLower(strings.TrimSpace(settings.LogLevel))
	settings.AccessPolicy = strings.ToLower(strings.TrimSpace(settings.AccessPolicy))
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings:\n\t%w", err)
	}
	return settings, nil
}

// Logger builds a console logger writing to w at the configured level.
func (s *Settings) Logger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %s: %w", s.LogLevel, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// Options turns the settings into cache options, logging to w.
func (s *Settings) Options(w io.Writer) ([]option.Option[Options], error) {
	logger, err := s.Logger(w)
	if err != nil {
		return nil, err
	}
	policy, err := ParseAccessPolicy(s.AccessPolicy)
	if err != nil {
		return nil, err
	}
	return []option.Option[Options]{
		WithLogger(logger),
		WithAccessPolicy(policy),
		WithPreloadConcurrency(s.PreloadConcurrency),
	}, nil
}
