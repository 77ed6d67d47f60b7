// pkg/craft/settings.go
package craft

import (
	"time"

	"github.com/opd-ai/go-craft/pkg/config"
)

// Settings are the tunables of one craft
type Settings struct {
	LevelLoadDelay    time.Duration
	InvincibilityTime time.Duration
	FreezeDuration    time.Duration
	ShieldBounceForce float64
	ThrustStrength    float64
	RotationStrength  float64 // degrees per second
	PressThreshold    float64
	ShakeDuration     time.Duration
	ShakeMagnitude    float64
	VolumeScale       float64
}

// DefaultSettings returns the settings derived from config.DefaultConfig
func DefaultSettings() Settings {
	return SettingsFromConfig(config.DefaultConfig())
}

// SettingsFromConfig extracts the craft tunables from a game configuration
func SettingsFromConfig(cfg *config.GameConfig) Settings {
	return Settings{
		LevelLoadDelay:    cfg.Craft.LevelLoadDelay.Duration(),
		InvincibilityTime: cfg.Craft.InvincibilityTime.Duration(),
		FreezeDuration:    cfg.Craft.FreezeDuration.Duration(),
		ShieldBounceForce: cfg.Craft.ShieldBounceForce,
		ThrustStrength:    cfg.Craft.ThrustStrength,
		RotationStrength:  cfg.Craft.RotationStrength,
		PressThreshold:    cfg.Craft.PressThreshold,
		ShakeDuration:     cfg.Camera.ShakeDuration.Duration(),
		ShakeMagnitude:    cfg.Camera.ShakeMagnitude,
		VolumeScale:       cfg.Audio.VolumeScale,
	}
}
