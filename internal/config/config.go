// Package config holds the settled server configuration struct. The
// struct, its defaults, and its validation live here so that whatever
// loads it (flags, file, env — out of scope per the core's purpose)
// and the core itself share one source of truth, grounded on the
// ChickenIQ-VibeShitCraft server's Config/DefaultConfig() pattern.
package config

import (
	"fmt"

	"github.com/stormcoast/voxelwar/internal/voxel"
)

// TeamDef names one of the two playable teams and its color.
type TeamDef struct {
	Name string
	R, G, B uint8
}

// Config is the full set of knobs the core server needs to start.
type Config struct {
	Name string
	Port int

	MaxPlayers int

	MapPath   string
	PackPaths []string

	GameMode string // "ctf", "tc", "bomb"

	Teams [2]TeamDef

	FogR, FogG, FogB uint8

	MaxRespawnTime float64 // seconds
	ScoreLimit     int     // 0 = unlimited

	MapWidth, MapLength, MapHeight int32
}

// Default returns a conservative, always-valid configuration, matching
// the teacher's DefaultConfig() shape: a complete zero-argument
// starting point a caller can selectively override.
func Default() Config {
	return Config{
		Name:           "voxelwar server",
		Port:           32887,
		MaxPlayers:     32,
		MapPath:        "",
		PackPaths:      nil,
		GameMode:       "ctf",
		Teams:          [2]TeamDef{{Name: "Blue", B: 255}, {Name: "Red", R: 255}},
		FogR:           128,
		FogG:           232,
		FogB:           255,
		MaxRespawnTime: 8,
		ScoreLimit:     0,
		MapWidth:       512,
		MapLength:      512,
		MapHeight:      64,
	}
}

// Validate reports a descriptive error for any setting the core cannot
// start with, instead of failing deep inside construction.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	if c.MaxPlayers <= 0 || c.MaxPlayers > 255 {
		return fmt.Errorf("config: max_players %d out of range (1-255)", c.MaxPlayers)
	}
	switch c.GameMode {
	case "ctf", "tc", "bomb":
	default:
		return fmt.Errorf("config: unknown game mode %q", c.GameMode)
	}
	if c.MapWidth <= 0 || c.MapLength <= 0 || c.MapHeight <= 0 {
		return fmt.Errorf("config: map dimensions must be positive, got %dx%dx%d", c.MapWidth, c.MapLength, c.MapHeight)
	}
	if c.MaxRespawnTime <= 0 {
		return fmt.Errorf("config: max_respawn_time must be positive, got %v", c.MaxRespawnTime)
	}
	return nil
}

// NewMap constructs the voxel map this configuration describes.
func (c Config) NewMap() *voxel.Map {
	return voxel.NewMap(c.MapWidth, c.MapLength, c.MapHeight)
}
