// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Seconds is a duration expressed as fractional seconds in config files
type Seconds float64

// Duration converts s to a time.Duration
func (s Seconds) Duration() time.Duration {
	return time.Duration(float64(s) * float64(time.Second))
}

// GameConfig contains the full configuration of a flight session
type GameConfig struct {
	Craft   CraftConfig   `json:"craft" yaml:"craft"`
	Camera  CameraConfig  `json:"camera" yaml:"camera"`
	Physics PhysicsConfig `json:"physics" yaml:"physics"`
	Audio   AudioConfig   `json:"audio" yaml:"audio"`
	Levels  []LevelConfig `json:"levels" yaml:"levels"`
}

// CraftConfig holds the control and collision-response tunables
type CraftConfig struct {
	LevelLoadDelay    Seconds `json:"levelLoadDelay" yaml:"levelLoadDelay"`
	InvincibilityTime Seconds `json:"invincibilityTime" yaml:"invincibilityTime"`
	ShieldBounceForce float64 `json:"shieldBounceForce" yaml:"shieldBounceForce"`
	FreezeDuration    Seconds `json:"freezeDuration" yaml:"freezeDuration"`
	ThrustStrength    float64 `json:"thrustStrength" yaml:"thrustStrength"`
	RotationStrength  float64 `json:"rotationStrength" yaml:"rotationStrength"` // degrees per second
	PressThreshold    float64 `json:"pressThreshold" yaml:"pressThreshold"`
	Radius            float64 `json:"radius" yaml:"radius"`
}

// CameraConfig configures the follow camera and its shake feedback
type CameraConfig struct {
	Offset         [3]float64 `json:"offset" yaml:"offset"`
	ShakeDuration  Seconds    `json:"shakeDuration" yaml:"shakeDuration"`
	ShakeMagnitude float64    `json:"shakeMagnitude" yaml:"shakeMagnitude"`
}

// PhysicsConfig contains physics-related configuration
type PhysicsConfig struct {
	Gravity       float64 `json:"gravity" yaml:"gravity"` // acceleration along world -Y
	Mass          float64 `json:"mass" yaml:"mass"`
	Drag          float64 `json:"drag" yaml:"drag"`
	FixedTimeStep Seconds `json:"fixedTimeStep" yaml:"fixedTimeStep"`
}

// AudioConfig contains audio cue configuration
type AudioConfig struct {
	Enabled     bool    `json:"enabled" yaml:"enabled"`
	SampleRate  int     `json:"sampleRate" yaml:"sampleRate"`
	VolumeScale float64 `json:"volumeScale" yaml:"volumeScale"`
}

// LevelConfig describes one level in build order
type LevelConfig struct {
	Name    string         `json:"name" yaml:"name"`
	Spawn   [3]float64     `json:"spawn" yaml:"spawn"`
	Objects []ObjectConfig `json:"objects" yaml:"objects"`
}

// ObjectConfig describes a box-shaped level object
type ObjectConfig struct {
	Name    string     `json:"name" yaml:"name"`
	Tag     string     `json:"tag" yaml:"tag"`
	Trigger bool       `json:"trigger" yaml:"trigger"`
	Center  [3]float64 `json:"center" yaml:"center"`
	Size    [3]float64 `json:"size" yaml:"size"`
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadConfig loads a configuration from a JSON or YAML file (chosen by extension)
// and validates it
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := ParseConfig(data, isYAML(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return config, nil
}

// ParseConfig decodes a configuration on top of DefaultConfig, so omitted fields keep
// their defaults, then validates the result
func ParseConfig(data []byte, asYAML bool) (*GameConfig, error) {
	config := DefaultConfig()

	var err error
	if asYAML {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves a configuration to a JSON or YAML file (chosen by extension)
func SaveConfig(config *GameConfig, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports every invalid field at once
func (c *GameConfig) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Craft.LevelLoadDelay >= 0, "craft.levelLoadDelay must not be negative, got %v", c.Craft.LevelLoadDelay)
	check(c.Craft.InvincibilityTime >= 0, "craft.invincibilityTime must not be negative, got %v", c.Craft.InvincibilityTime)
	check(c.Craft.FreezeDuration >= 0, "craft.freezeDuration must not be negative, got %v", c.Craft.FreezeDuration)
	check(c.Craft.ShieldBounceForce >= 0, "craft.shieldBounceForce must not be negative, got %v", c.Craft.ShieldBounceForce)
	check(c.Craft.PressThreshold >= 0 && c.Craft.PressThreshold < 1, "craft.pressThreshold must be in [0, 1), got %v", c.Craft.PressThreshold)
	check(c.Craft.Radius > 0, "craft.radius must be positive, got %v", c.Craft.Radius)
	check(c.Camera.ShakeDuration >= 0, "camera.shakeDuration must not be negative, got %v", c.Camera.ShakeDuration)
	check(c.Physics.Mass > 0, "physics.mass must be positive, got %v", c.Physics.Mass)
	check(c.Physics.Drag >= 0, "physics.drag must not be negative, got %v", c.Physics.Drag)
	check(c.Physics.FixedTimeStep > 0, "physics.fixedTimeStep must be positive, got %v", c.Physics.FixedTimeStep)
	check(c.Audio.SampleRate > 0, "audio.sampleRate must be positive, got %d", c.Audio.SampleRate)
	check(c.Audio.VolumeScale >= 0, "audio.volumeScale must not be negative, got %v", c.Audio.VolumeScale)
	check(len(c.Levels) > 0, "at least one level is required")

	for i, level := range c.Levels {
		for j, obj := range level.Objects {
			check(obj.Size[0] > 0 && obj.Size[1] > 0 && obj.Size[2] > 0,
				"levels[%d].objects[%d] (%s) must have a positive size", i, j, obj.Name)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// DefaultConfig returns a default game configuration with a three-level course
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Craft: CraftConfig{
			LevelLoadDelay:    1,
			InvincibilityTime: 1,
			ShieldBounceForce: 0.5,
			FreezeDuration:    0.5,
			ThrustStrength:    1000,
			RotationStrength:  100,
			PressThreshold:    0.5,
			Radius:            0.5,
		},
		Camera: CameraConfig{
			Offset:         [3]float64{0, 2, -10},
			ShakeDuration:  0.2,
			ShakeMagnitude: 0.1,
		},
		Physics: PhysicsConfig{
			Gravity:       9.81,
			Mass:          1,
			Drag:          0.1,
			FixedTimeStep: 0.02,
		},
		Audio: AudioConfig{
			Enabled:     true,
			SampleRate:  44100,
			VolumeScale: 0.8,
		},
		Levels: []LevelConfig{
			{
				Name:  "Hop",
				Spawn: [3]float64{0, 1, 0},
				Objects: []ObjectConfig{
					{Name: "launch pad", Tag: "Friendly", Center: [3]float64{0, 0, 0}, Size: [3]float64{3, 1, 3}},
					{Name: "landing pad", Tag: "Finish", Center: [3]float64{20, 0, 0}, Size: [3]float64{3, 1, 3}},
					{Name: "ground", Center: [3]float64{10, -2, 0}, Size: [3]float64{60, 2, 10}},
				},
			},
			{
				Name:  "Wall",
				Spawn: [3]float64{0, 1, 0},
				Objects: []ObjectConfig{
					{Name: "launch pad", Tag: "Friendly", Center: [3]float64{0, 0, 0}, Size: [3]float64{3, 1, 3}},
					{Name: "shield", Tag: "Shield", Trigger: true, Center: [3]float64{5, 6, 0}, Size: [3]float64{1, 1, 1}},
					{Name: "wall", Center: [3]float64{12, 5, 0}, Size: [3]float64{2, 10, 10}},
					{Name: "landing pad", Tag: "Finish", Center: [3]float64{24, 0, 0}, Size: [3]float64{3, 1, 3}},
					{Name: "ground", Center: [3]float64{12, -2, 0}, Size: [3]float64{60, 2, 10}},
				},
			},
			{
				Name:  "Cave",
				Spawn: [3]float64{0, 1, 0},
				Objects: []ObjectConfig{
					{Name: "launch pad", Tag: "Friendly", Center: [3]float64{0, 0, 0}, Size: [3]float64{3, 1, 3}},
					{Name: "ceiling", Center: [3]float64{15, 14, 0}, Size: [3]float64{40, 2, 10}},
					{Name: "stalagmite", Center: [3]float64{10, 3, 0}, Size: [3]float64{2, 6, 10}},
					{Name: "shield", Tag: "Shield", Trigger: true, Center: [3]float64{16, 9, 0}, Size: [3]float64{1, 1, 1}},
					{Name: "landing pad", Tag: "Finish", Center: [3]float64{28, 0, 0}, Size: [3]float64{3, 1, 3}},
					{Name: "ground", Center: [3]float64{15, -2, 0}, Size: [3]float64{60, 2, 10}},
				},
			},
		},
	}
}
