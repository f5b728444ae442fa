// Package config handles client configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/tileclient/internal/game/entity"
)

// Config holds all client settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Audio    AudioConfig    `yaml:"audio"`
	Network  NetworkConfig  `yaml:"network"`
	Game     GameConfig     `yaml:"game"`
	Data     DataConfig     `yaml:"data"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DataConfig holds game data paths.
type DataConfig struct {
	MapsDir  string `yaml:"maps_dir"`  // Directory holding .tmx maps
	StartMap string `yaml:"start_map"` // Map id the local player spawns on
	NPCFile  string `yaml:"npc_file"`  // Optional YAML list of extra NPCs
}

// GraphicsConfig holds the viewport size used by the camera.
type GraphicsConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	MasterVolume float32 `yaml:"master_volume"`
	MusicVolume  float32 `yaml:"music_volume"`
	SFXVolume    float32 `yaml:"sfx_volume"`
	Muted        bool    `yaml:"muted"`
	SoundDir     string  `yaml:"sound_dir"`
}

// NetworkConfig holds server connection settings.
type NetworkConfig struct {
	Server         string        `yaml:"server"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	SendQueue      int           `yaml:"send_queue"`
	PlayerName     string        `yaml:"player_name"`
}

// GameConfig holds gameplay settings.
type GameConfig struct {
	Dimension   int     `yaml:"dimension"`
	Gravity     float64 `yaml:"gravity"`
	JumpImpulse float64 `yaml:"jump_impulse"`
	MoveSpeed   float64 `yaml:"move_speed"`
	BumpTicks   int     `yaml:"bump_ticks"`
	FaceTicks   int     `yaml:"face_ticks"`
	FaceCadence int     `yaml:"face_cadence"`
	TickRate    int     `yaml:"tick_rate"`
	OfflineMode bool    `yaml:"offline_mode"`
	GodMode     bool    `yaml:"god_mode"`
	ShowDebug   bool    `yaml:"show_debug"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	ent := entity.DefaultConfig()
	return &Config{
		Graphics: GraphicsConfig{
			Width:  480,
			Height: 320,
			Scale:  2,
		},
		Audio: AudioConfig{
			MasterVolume: 0.8,
			MusicVolume:  0.7,
			SFXVolume:    0.8,
			Muted:        false,
			SoundDir:     "assets/sounds",
		},
		Network: NetworkConfig{
			Server:         "ws://127.0.0.1:8080/ws",
			ConnectTimeout: 10 * time.Second,
			SendQueue:      64,
			PlayerName:     "player",
		},
		Game: GameConfig{
			Dimension:   ent.Dimension,
			Gravity:     ent.Gravity,
			JumpImpulse: ent.JumpImpulse,
			MoveSpeed:   ent.MoveSpeed,
			BumpTicks:   ent.BumpTicks,
			FaceTicks:   ent.FaceTicks,
			FaceCadence: ent.FaceCadence,
			TickRate:    60,
			OfflineMode: false,
			GodMode:     false,
			ShowDebug:   false,
		},
		Data: DataConfig{
			MapsDir:  "assets/maps",
			StartMap: "town",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Entity returns the entity configuration derived from the game section.
func (c *Config) Entity() entity.Config {
	return entity.Config{
		Dimension:   c.Game.Dimension,
		Gravity:     c.Game.Gravity,
		JumpImpulse: c.Game.JumpImpulse,
		MoveSpeed:   c.Game.MoveSpeed,
		BumpTicks:   c.Game.BumpTicks,
		FaceTicks:   c.Game.FaceTicks,
		FaceCadence: c.Game.FaceCadence,
	}
}

// TickInterval returns the duration of one game tick.
func (c *Config) TickInterval() time.Duration {
	if c.Game.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Game.TickRate)
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Game.Dimension <= 0:
		return fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidConfig, c.Game.Dimension)
	case c.Game.Gravity <= 0:
		return fmt.Errorf("%w: gravity must be positive, got %v", ErrInvalidConfig, c.Game.Gravity)
	case c.Game.JumpImpulse <= 0:
		return fmt.Errorf("%w: jump impulse must be positive, got %v", ErrInvalidConfig, c.Game.JumpImpulse)
	case c.Game.MoveSpeed <= 0:
		return fmt.Errorf("%w: move speed must be positive, got %v", ErrInvalidConfig, c.Game.MoveSpeed)
	case c.Game.TickRate < 0:
		return fmt.Errorf("%w: negative tick rate %d", ErrInvalidConfig, c.Game.TickRate)
	case c.Game.FaceCadence <= 0:
		return fmt.Errorf("%w: face cadence must be positive, got %d", ErrInvalidConfig, c.Game.FaceCadence)
	case c.Graphics.Scale <= 0:
		return fmt.Errorf("%w: scale must be positive, got %v", ErrInvalidConfig, c.Graphics.Scale)
	case c.Data.StartMap == "":
		return fmt.Errorf("%w: no start map", ErrInvalidConfig)
	}
	return nil
}
