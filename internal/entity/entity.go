// Package entity implements the server-owned collidable objects:
// flags, command posts, ammo/health crates, the mountable helicopter,
// and the mountable machine gun (§3, §4.7; helicopter and machine-gun
// are the expansion named in the component design).
package entity

import (
	"github.com/stormcoast/voxelwar/internal/mathutil"
)

// Kind enumerates entity types. Values line up with protocol.EntityKind
// but this package stays free of the wire-protocol dependency.
type Kind uint8

const (
	KindFlag Kind = iota
	KindBase
	KindHelicopter
	KindAmmoCrate
	KindHealthCrate
	KindMachineGun
)

// NeutralTeam is the sentinel team value for an unclaimed entity.
const NeutralTeam int8 = 2

// VoxelGround is the subset of the voxel map an entity needs for
// gravity-settle (§4.7: "gravity-settle ... periodic collision").
type VoxelGround interface {
	GetZ(x, y, floor int32) int32
}

// Entity is one server-owned collidable world object.
type Entity struct {
	ID        uint8
	Kind      Kind
	Position  mathutil.Vec3
	Team      int8 // NeutralTeam if unclaimed
	CarrierID int32 // -1 if uncarried
	Destroyed bool
	Mountable bool // true for KindMachineGun, KindHelicopter

	// Yaw is the facing angle for mountable entities, used to compute
	// the machine gun's fire direction (§4.4 RPG/MG expansion).
	Yaw float64

	// OnPositionChanged/OnTeamChanged/OnCarrierChanged/OnCollide are
	// set by the owning server to translate state changes into
	// ChangeEntity broadcasts and per-tick collision checks — this
	// package has no wire-protocol dependency of its own.
	OnPositionChanged func(e *Entity)
	OnTeamChanged     func(e *Entity)
	OnCarrierChanged  func(e *Entity)
	OnCollide         func(e *Entity, playerID uint8)
}

// New constructs an entity at rest, uncarried and unclaimed.
func New(id uint8, kind Kind, pos mathutil.Vec3) *Entity {
	return &Entity{
		ID:        id,
		Kind:      kind,
		Position:  pos,
		Team:      NeutralTeam,
		CarrierID: -1,
		Mountable: kind == KindMachineGun || kind == KindHelicopter,
	}
}

// SetTeam claims the entity for a team (or NeutralTeam to release it).
func (e *Entity) SetTeam(team int8) {
	if e.Destroyed {
		return
	}
	e.Team = team
	if e.OnTeamChanged != nil {
		e.OnTeamChanged(e)
	}
}

// SetPosition relocates the entity, e.g. when dropped by its carrier.
func (e *Entity) SetPosition(pos mathutil.Vec3) {
	if e.Destroyed {
		return
	}
	e.Position = pos
	if e.OnPositionChanged != nil {
		e.OnPositionChanged(e)
	}
}

// SetCarrier attaches or detaches a carrying player. Setting the same
// carrier again is a no-op (§8: "set_carrier(same) emits no packet").
func (e *Entity) SetCarrier(playerID int32) {
	if e.Destroyed || e.CarrierID == playerID {
		return
	}
	e.CarrierID = playerID
	if e.OnCarrierChanged != nil {
		e.OnCarrierChanged(e)
	}
}

// Destroy marks the entity gone. Idempotent (§8): destroying an
// already-destroyed entity is a no-op.
func (e *Entity) Destroy() {
	e.Destroyed = true
}

// Update settles the entity to ground level if it has drifted above
// it, and fires OnCollide for any uncarried player within 3 units
// (§4.7). It is a no-op once destroyed.
func (e *Entity) Update(ground VoxelGround, playerPositions map[uint8]mathutil.Vec3) {
	if e.Destroyed {
		return
	}
	x, y := int32(e.Position.X), int32(e.Position.Y)
	z := ground.GetZ(x, y, 0)
	if float64(z) != e.Position.Z {
		e.SetPosition(mathutil.Vec3{X: e.Position.X, Y: e.Position.Y, Z: float64(z)})
	}

	if e.CarrierID != -1 || e.OnCollide == nil {
		return
	}
	const collideRadiusSq = 3 * 3
	for playerID, pos := range playerPositions {
		if e.Position.DistanceSq(pos) <= collideRadiusSq {
			e.OnCollide(e, playerID)
		}
	}
}
