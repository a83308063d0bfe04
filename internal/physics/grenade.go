package physics

import (
	"github.com/stormcoast/voxelwar/internal/mathutil"
)

// GrenadeGravity and GrenadeRestitution govern the bouncing-ballistic
// body the original source's world.Grenade wraps (§4.5: "integrates
// gravity and velocity ... reflect velocity with energy loss").
const (
	GrenadeGravity      = 0.1
	GrenadeRestitution  = 0.6 // fraction of speed kept after a bounce
	grenadeBounceEpsilon = 0.05
)

// GrenadeBody is the bouncing-ballistic physics state a thrown grenade
// owns. Stepping it forward in time may report a bounce. The caller
// (internal/core's object list) ignores that report: no hook fires
// when a grenade bounces.
type GrenadeBody struct {
	Position mathutil.Vec3
	Velocity mathutil.Vec3
}

// NewGrenadeBody starts a grenade at pos with the thrown velocity.
func NewGrenadeBody(pos, velocity mathutil.Vec3) *GrenadeBody {
	return &GrenadeBody{Position: pos, Velocity: velocity}
}

// Step integrates one tick of gravity and motion. If the resulting
// position would cross a solid voxel, the step is rejected, the
// offending velocity component is reflected and scaled down by
// GrenadeRestitution, and bounced reports true — the grenade keeps its
// pre-step position for this tick, matching the original's "if next
// position crosses a solid voxel, reflect velocity" rule (§4.5).
func (g *GrenadeBody) Step(ground VoxelGround, dt float64) (bounced bool) {
	g.Velocity.Z += GrenadeGravity
	next := g.Position.Add(g.Velocity.Mul(dt))

	nx, ny, nz := next.Floor()
	if !ground.Solid(nx, ny, nz) {
		g.Position = next
		return false
	}

	ox, oy, oz := g.Position.Floor()
	if nx != ox && ground.Solid(nx, oy, oz) {
		g.Velocity.X = -g.Velocity.X * GrenadeRestitution
		bounced = true
	}
	if ny != oy && ground.Solid(ox, ny, oz) {
		g.Velocity.Y = -g.Velocity.Y * GrenadeRestitution
		bounced = true
	}
	if nz != oz && ground.Solid(ox, oy, nz) {
		g.Velocity.Z = -g.Velocity.Z * GrenadeRestitution
		bounced = true
	}
	if !bounced {
		// Diagonal clip with none of the single-axis probes solid:
		// still blocked, still reflect everything so the grenade
		// doesn't embed itself in the corner.
		g.Velocity = g.Velocity.Mul(-GrenadeRestitution)
		bounced = true
	}

	if g.Velocity.Length() < grenadeBounceEpsilon {
		g.Velocity = mathutil.Vec3{}
	}
	return bounced
}
