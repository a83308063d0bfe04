// Package physics implements the per-tick integrators for everything
// that moves under gravity or ballistic motion: players (walk/jump/fall
// damage), grenades (bouncing ballistic with a fuse), and the generic
// straight-line moving point used by rockets (§4.1 step 3, §4.5).
//
// Every integrator here is a plain function or method operating on a
// small state struct and a dt — there are no goroutines per object,
// matching the teacher's tick-driven per-player update functions in
// server/physics.go rather than the original source's per-object
// asyncio coroutines.
package physics

import (
	"math"

	"github.com/stormcoast/voxelwar/internal/mathutil"
)

// Movement constants. The original source's native world module (not
// present in original_source/) owns these; the values below are the
// well-known pyspades/Ace of Spades engine constants this server is
// API-compatible with.
const (
	Gravity          = 0.1    // units / tick^2 at 60 ticks/sec, matches client prediction
	MaxFallVelocity  = 4.0    // terminal velocity, units/tick
	WalkSpeed        = 4.0    // units/sec
	SprintMultiplier = 1.3
	CrouchMultiplier = 0.7
	SneakMultiplier  = 0.5
	JumpVelocity     = 0.36   // initial upward velocity imparted by a jump
	FallDamageFloor  = 0.58   // velocity below which a landing does no damage
	FallDamageScale  = 4096.0 // damage = (impactVelocity - floor) * scale / 100, capped at 100
	EyeHeight        = 1.1
)

// VoxelGround is the read-only ground query the player integrator
// needs: solidity tests for collision and get_z for landing detection.
type VoxelGround interface {
	Solid(x, y, z int32) bool
	GetZ(x, y, floor int32) int32
}

// PlayerBody is the physics state of one player: position, velocity
// and the stance flags the original source threads through
// player_animation (walk/crouch/sneak/sprint/jump).
type PlayerBody struct {
	Position mathutil.Vec3
	Velocity mathutil.Vec3
	OnGround bool

	Crouch bool
	Sneak  bool
	Sprint bool
}

// Reset places the body at spawn with zero velocity, standing.
func (b *PlayerBody) Reset(pos mathutil.Vec3) {
	b.Position = pos
	b.Velocity = mathutil.Vec3{}
	b.OnGround = false
	b.Crouch, b.Sneak, b.Sprint = false, false, false
}

// Jump imparts the fixed jump impulse if the body is currently
// grounded; a no-op mid-air (no double-jump). Z increases downward in
// this coordinate system (voxel z=0 is the sky), so a jump is a
// negative Z velocity.
func (b *PlayerBody) Jump() {
	if !b.OnGround {
		return
	}
	b.Velocity.Z = -JumpVelocity
	b.OnGround = false
}

// Step integrates gravity and vertical motion for one tick, returning
// the fall-damage amount (0 if the landing was gentle or the player
// wasn't falling) per §4.1/§4.7's gravity-settle shape, generalized
// from entity ground-snap to a velocity-aware player landing.
func (b *PlayerBody) Step(ground VoxelGround, dt float64) (fallDamage float64) {
	if b.OnGround {
		b.Velocity.Z = 0
	} else {
		b.Velocity.Z += Gravity
		if b.Velocity.Z > MaxFallVelocity {
			b.Velocity.Z = MaxFallVelocity
		}
	}

	impactVelocity := b.Velocity.Z

	b.Position = b.Position.Add(b.Velocity.Mul(dt))

	x, y := int32(math.Floor(b.Position.X)), int32(math.Floor(b.Position.Y))
	floorZ := float64(ground.GetZ(x, y, 0))

	wasAirborne := !b.OnGround
	if b.Position.Z >= floorZ {
		b.Position.Z = floorZ
		b.OnGround = true
		if wasAirborne && impactVelocity > FallDamageFloor {
			fallDamage = math.Min(100, (impactVelocity-FallDamageFloor)*FallDamageScale/100)
		}
	} else {
		b.OnGround = false
	}
	return fallDamage
}

// Speed returns the player's current horizontal movement speed given
// its stance flags: the base walk speed times at most one multiplier,
// with sprint taking precedence over sneak and sneak over crouch. The
// multipliers do not stack.
func (b *PlayerBody) Speed() float64 {
	speed := WalkSpeed
	switch {
	case b.Sprint:
		speed *= SprintMultiplier
	case b.Sneak:
		speed *= SneakMultiplier
	case b.Crouch:
		speed *= CrouchMultiplier
	}
	return speed
}

// EyePosition returns the position hit tests should originate from:
// EyeHeight units above the body's position (Z grows downward).
func (b *PlayerBody) EyePosition() mathutil.Vec3 {
	return mathutil.Vec3{X: b.Position.X, Y: b.Position.Y, Z: b.Position.Z - EyeHeight}
}
