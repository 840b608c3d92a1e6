// Package config loads process configuration the way the teacher's service
// did: godotenv for a local .env file, viper for env-var binding and
// defaults, one Config value with no package-level state.
package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/classplan/timetable/internal/engine"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

// Config is the process-wide configuration: environment, logging, and the
// engine's own tunables (grid, weights, default capacity, solver time
// limit).
type Config struct {
	Env string
	Log LogConfig

	Engine engine.Config
}

// Load reads .env (if present) and the environment into a Config, applying
// defaults for anything unset.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	defaults := engine.DefaultConfig()
	setDefaults(v, defaults)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{
		Env: v.GetString("ENV"),
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	cfg.Engine = defaults
	cfg.Engine.DefaultRoomCapacity = v.GetInt("TIMETABLE_DEFAULT_CAPACITY")
	cfg.Engine.Weights.Size = v.GetFloat64("TIMETABLE_WEIGHT_SIZE")
	cfg.Engine.Weights.RoomPreference = v.GetFloat64("TIMETABLE_WEIGHT_ROOM_PREF")
	cfg.Engine.Weights.DayPreference = v.GetFloat64("TIMETABLE_WEIGHT_DAY_PREF")
	cfg.Engine.TimeLimit = parseDuration(v.GetString("TIMETABLE_TIME_LIMIT"), defaults.TimeLimit)

	return cfg, nil
}

func setDefaults(v *viper.Viper, defaults engine.Config) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TIMETABLE_DEFAULT_CAPACITY", defaults.DefaultRoomCapacity)
	v.SetDefault("TIMETABLE_WEIGHT_SIZE", defaults.Weights.Size)
	v.SetDefault("TIMETABLE_WEIGHT_ROOM_PREF", defaults.Weights.RoomPreference)
	v.SetDefault("TIMETABLE_WEIGHT_DAY_PREF", defaults.Weights.DayPreference)
	v.SetDefault("TIMETABLE_TIME_LIMIT", defaults.TimeLimit.String())
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
