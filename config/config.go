// Package config reads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Port                   string
	MajorVersion           string
	OptionScale            float64
	DensityScale           float64
	CalibrationMaxIter     int
	CalibrationMaxAttempts int
	LogLevel               string
	SlackAppToken          string
	SlackBotToken          string
	ShutdownTimeout        time.Duration
}

var defaults = map[string]interface{}{
	"PORT":                     "8080",
	"MAJOR_VERSION":            "v2",
	"OPTION_SCALE":             10.0,
	"DENSITY_SCALE":            5.0,
	"CALIBRATION_MAX_ITER":     200,
	"CALIBRATION_MAX_ATTEMPTS": 100,
	"LOG_LEVEL":                "info",
	"SLACK_APP_TOKEN":          "",
	"SLACK_BOT_TOKEN":          "",
	"SHUTDOWN_TIMEOUT":         "10s",
}

// Load reads envFiles (".env" when none are given) into the process
// environment and resolves the configuration. Missing files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env files: %w", err)
	}

	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	cfg := &Config{
		Port:                   v.GetString("PORT"),
		MajorVersion:           v.GetString("MAJOR_VERSION"),
		OptionScale:            v.GetFloat64("OPTION_SCALE"),
		DensityScale:           v.GetFloat64("DENSITY_SCALE"),
		CalibrationMaxIter:     v.GetInt("CALIBRATION_MAX_ITER"),
		CalibrationMaxAttempts: v.GetInt("CALIBRATION_MAX_ATTEMPTS"),
		LogLevel:               strings.ToLower(v.GetString("LOG_LEVEL")),
		SlackAppToken:          v.GetString("SLACK_APP_TOKEN"),
		SlackBotToken:          v.GetString("SLACK_BOT_TOKEN"),
		ShutdownTimeout:        v.GetDuration("SHUTDOWN_TIMEOUT"),
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch {
	case c.Port == "":
		return errors.New("PORT must be set")
	case c.MajorVersion == "":
		return errors.New("MAJOR_VERSION must be set")
	case c.OptionScale <= 0:
		return fmt.Errorf("OPTION_SCALE must be positive, got %v", c.OptionScale)
	case c.DensityScale <= 0:
		return fmt.Errorf("DENSITY_SCALE must be positive, got %v", c.DensityScale)
	case c.CalibrationMaxIter <= 0 || c.CalibrationMaxAttempts <= 0:
		return errors.New("calibration limits must be positive")
	}
	return nil
}

// SlackEnabled reports whether both socket mode tokens are present.
func (c *Config) SlackEnabled() bool {
	return c.SlackAppToken != "" && c.SlackBotToken != ""
}

// NewLogger builds a development logger for LOG_LEVEL=debug and a
// production logger at the configured level otherwise.
func NewLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
