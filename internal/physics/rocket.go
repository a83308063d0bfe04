package physics

import (
	"math"

	"github.com/stormcoast/voxelwar/internal/mathutil"
)

// RocketSpeed and RocketFalloff are transcribed from the original
// source's acelib/constants.py (ROCKET_SPEED, ROCKET_FALLOFF) verbatim.
const (
	RocketSpeed   = 45.0 // units/sec
	RocketFalloff = 25.0 // degrees/sec of downward pitch drift
)

// GenericMovement is the straight-line moving point the original
// source's world.GenericMovement wraps for anything that isn't
// gravity-ballistic: here, the rocket. It carries no velocity state of
// its own — Rocket recomputes its firing direction from yaw/pitch each
// tick and advances position directly, matching §4.5's "flies straight
// along fired orientation with a fixed fall-off pitch increment."
type GenericMovement struct {
	Position mathutil.Vec3
}

// Rocket is the RPG projectile: flies along its fired orientation at a
// fixed speed, its pitch drooping at RocketFalloff degrees/sec, and
// detonates on the first solid voxel its path crosses.
type Rocket struct {
	GenericMovement
	Yaw   float64
	Pitch float64
}

// NewRocket fires a rocket from pos along the unit orientation vector,
// deriving yaw/pitch the way the original source's set_orientation
// does (atan2 of the horizontal components, asin of the vertical one).
func NewRocket(pos, orientation mathutil.Vec3) *Rocket {
	orientation = orientation.Normalize()
	pitch := math.Asin(clamp(orientation.Z, -1, 1))
	yaw := math.Atan2(orientation.X, orientation.Y)
	return &Rocket{GenericMovement: GenericMovement{Position: pos}, Yaw: yaw, Pitch: pitch}
}

// Direction returns the rocket's current unit fire direction given its
// drooping pitch, matching get_orientation in the original source.
func (r *Rocket) Direction() mathutil.Vec3 {
	return mathutil.Vec3{
		X: math.Sin(r.Yaw) * math.Cos(r.Pitch),
		Y: math.Cos(r.Yaw) * math.Cos(r.Pitch),
		Z: math.Sin(r.Pitch),
	}
}

// Step advances the rocket by dt*RocketSpeed along its current
// direction, then droops its pitch for the next tick. Reports hit=true
// if the new position lands in a solid voxel, at which point the
// caller should explode and destroy the rocket (§4.5).
func (r *Rocket) Step(ground VoxelGround, dt float64) (hit bool) {
	next := r.Position.Add(r.Direction().Mul(dt * RocketSpeed))
	x, y, z := next.Floor()
	if ground.Solid(x, y, z) {
		return true
	}
	r.Position = next
	r.Pitch += radians(RocketFalloff) * dt
	return false
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
