// Package conn implements the per-peer connection state machine:
// handshake, join, in-game input handling, hit/build/destroy authority
// checks, and disconnect cleanup (§4.3). It has no transport or
// protocol encoding of its own — internal/core wires a conn.Player to a
// transport.Peer and translates between protocol packets and the
// calls here, keeping this package testable without a live socket.
package conn

import (
	"github.com/stormcoast/voxelwar/internal/entity"
	"github.com/stormcoast/voxelwar/internal/mathutil"
	"github.com/stormcoast/voxelwar/internal/physics"
	"github.com/stormcoast/voxelwar/internal/weapon"
)

// State is one node of the connection state machine (§4.3):
// Connecting -> Loading -> Joined -> Spawned <-> Dead -> Disconnected.
type State int

const (
	StateConnecting State = iota
	StateLoading
	StateJoined
	StateSpawned
	StateDead
	StateDisconnected
)

// Tool enumerates the tool slots; its values are the raw tool byte the
// SetTool and UseOrientedItem packets carry, declared here without
// importing the wire package to keep this package protocol-agnostic
// like internal/entity.
type Tool uint8

const (
	ToolSpade Tool = iota
	ToolBlock
	ToolWeapon
	ToolGrenade
	ToolRPG
)

// Player is one connected client's authoritative game state: identity,
// physics body, equipped tools, and state-machine bookkeeping. It is
// intentionally not safe for concurrent use without the owning core's
// single tick-loop lock (§5: authoritative mutation is single-threaded).
type Player struct {
	ID    uint8
	Name  string
	Team  int8
	State State

	Body        physics.PlayerBody
	Orientation mathutil.Vec3
	HP          int

	Tool    Tool
	Weapon  *weapon.Weapon
	Block   *weapon.BlockTool
	Grenade *weapon.GrenadeTool
	RPG     *weapon.Weapon
	Spade   *weapon.SpadeTool

	Kills, Deaths int

	// RespawnAt is the simulation time this player should be revived;
	// valid only while State == StateDead.
	RespawnAt float64

	// MountedEntityID is the id of the machine gun or helicopter this
	// player currently occupies, or -1 if on foot (§4.7).
	MountedEntityID int32

	// Store is mode-specific scratch state (flag-carry flags, bomb
	// plant progress, territory assignments) per §4.8's player.store.
	Store map[string]any
}

// NewPlayer returns a freshly connected, not-yet-joined player.
func NewPlayer(id uint8) *Player {
	return &Player{
		ID:              id,
		Team:            entity.NeutralTeam,
		State:           StateConnecting,
		MountedEntityID: -1,
		Store:           make(map[string]any),
	}
}

// AttachWeapon equips spec as the player's gun and resets the other
// tools to a fresh stock, called once on join after the client's
// ExistingPlayer choice is validated (§4.3 Joined).
func (p *Player) AttachWeapon(spec weapon.Spec) {
	p.Weapon = weapon.NewWeapon(spec)
	p.Block = weapon.NewBlockTool()
	p.Grenade = weapon.NewGrenadeTool()
	p.Spade = &weapon.SpadeTool{}
	p.RPG = weapon.NewWeapon(weapon.Specs[weapon.KindRPG])
}

// Alive reports whether the player can currently take damage or act in
// the world (Spawned, not Dead or pre-join).
func (p *Player) Alive() bool {
	return p.State == StateSpawned
}

// Restock refills every equipped tool, e.g. from an ammo crate (§4.7)
// or on respawn.
func (p *Player) Restock() {
	if p.Weapon != nil {
		p.Weapon.Restock()
	}
	if p.RPG != nil {
		p.RPG.Restock()
	}
	if p.Block != nil {
		p.Block.Reset()
	}
	if p.Grenade != nil {
		p.Grenade.Restock()
	}
}
