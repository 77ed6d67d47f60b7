// pkg/config/env_config.go
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by LoadConfigFromEnv
const EnvPrefix = "CRAFT"

// EnvironmentConfig holds runtime settings taken from CRAFT_* environment variables
type EnvironmentConfig struct {
	ConfigPath   string
	LogLevel     string
	FrameRate    int
	Headless     bool
	AudioEnabled bool
	StartLevel   int
	VolumeScale  float64
	// set reports which keys were present in the environment so that
	// ApplyEnvironmentOverrides leaves file values alone otherwise
	set map[string]bool
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %s (value: %v): %s", e.Field, e.Value, e.Message)
}

var envDefaults = map[string]interface{}{
	"config_path":   "",
	"log_level":     "INFO",
	"frame_rate":    60,
	"headless":      false,
	"audio_enabled": true,
	"start_level":   0,
	"volume_scale":  0.8,
}

// newViper binds CRAFT_* variables without registering defaults, so IsSet
// reports only what the environment actually supplied
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func (e *EnvironmentConfig) value(v *viper.Viper, key string) interface{} {
	if v.IsSet(key) {
		e.set[key] = true
		return v.Get(key)
	}
	return envDefaults[key]
}

// LoadConfigFromEnv loads configuration from environment variables with defaults
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	v := newViper()
	config := &EnvironmentConfig{set: make(map[string]bool)}

	var err error
	parse := func(field string, raw interface{}, convert func(interface{}) error) {
		if err != nil {
			return
		}
		if convErr := convert(raw); convErr != nil {
			err = &ValidationError{Field: field, Value: raw, Message: convErr.Error()}
		}
	}

	parse("ConfigPath", config.value(v, "config_path"), func(raw interface{}) (e error) {
		config.ConfigPath, e = cast.ToStringE(raw)
		return
	})
	parse("LogLevel", config.value(v, "log_level"), func(raw interface{}) (e error) {
		config.LogLevel, e = cast.ToStringE(raw)
		config.LogLevel = strings.ToUpper(strings.TrimSpace(config.LogLevel))
		return
	})
	parse("FrameRate", config.value(v, "frame_rate"), func(raw interface{}) (e error) {
		config.FrameRate, e = cast.ToIntE(raw)
		return
	})
	parse("Headless", config.value(v, "headless"), func(raw interface{}) (e error) {
		config.Headless, e = cast.ToBoolE(raw)
		return
	})
	parse("AudioEnabled", config.value(v, "audio_enabled"), func(raw interface{}) (e error) {
		config.AudioEnabled, e = cast.ToBoolE(raw)
		return
	})
	parse("StartLevel", config.value(v, "start_level"), func(raw interface{}) (e error) {
		config.StartLevel, e = cast.ToIntE(raw)
		return
	})
	parse("VolumeScale", config.value(v, "volume_scale"), func(raw interface{}) (e error) {
		config.VolumeScale, e = cast.ToFloat64E(raw)
		return
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment configuration: %w", err)
	}

	if err := validateEnvironmentConfig(config); err != nil {
		return nil, fmt.Errorf("environment configuration validation failed: %w", err)
	}
	return config, nil
}

// validateEnvironmentConfig validates the environment configuration values
func validateEnvironmentConfig(config *EnvironmentConfig) error {
	if config.FrameRate <= 0 || config.FrameRate > 1000 {
		return &ValidationError{Field: "FrameRate", Value: config.FrameRate, Message: "must be between 1 and 1000"}
	}
	if config.StartLevel < 0 {
		return &ValidationError{Field: "StartLevel", Value: config.StartLevel, Message: "must not be negative"}
	}
	if config.VolumeScale < 0 || config.VolumeScale > 1 {
		return &ValidationError{Field: "VolumeScale", Value: config.VolumeScale, Message: "must be between 0 and 1"}
	}
	switch config.LogLevel {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return &ValidationError{Field: "LogLevel", Value: config.LogLevel, Message: "must be DEBUG, INFO, WARN or ERROR"}
	}
	return nil
}

// ApplyEnvironmentOverrides applies environment variable overrides to a game configuration.
// Only variables that are actually present in the environment override file values.
func ApplyEnvironmentOverrides(gameConfig *GameConfig) error {
	envConfig, err := LoadConfigFromEnv()
	if err != nil {
		return err
	}
	envConfig.Apply(gameConfig)
	return gameConfig.Validate()
}

// Apply copies the environment-supplied values onto gameConfig
func (e *EnvironmentConfig) Apply(gameConfig *GameConfig) {
	if e.set["audio_enabled"] {
		gameConfig.Audio.Enabled = e.AudioEnabled
	}
	if e.set["volume_scale"] {
		gameConfig.Audio.VolumeScale = e.VolumeScale
	}
}

// FrameInterval returns the render/update interval implied by FrameRate
func (e *EnvironmentConfig) FrameInterval() Seconds {
	return Seconds(1 / float64(e.FrameRate))
}
