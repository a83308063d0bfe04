package conn

import "github.com/stormcoast/voxelwar/internal/mathutil"

// throwClampRadius is how far a claimed throw position/velocity may
// diverge from the server-tracked player state before it's clamped
// (§4.4 "Grenade throw / rocket fire").
const throwClampRadius = 3.0

// ThrowCheck validates an inbound UseOrientedItem: both vectors must
// be finite, position is clamped to within throwClampRadius of the
// server-tracked player position, and velocity is clamped in magnitude
// to throwClampRadius*10 (relative to zero, since there is no
// server-tracked "true" velocity to compare against).
func ThrowCheck(p *Player, claimedPos, claimedVelocity mathutil.Vec3) (pos, velocity mathutil.Vec3, ok bool) {
	if !claimedPos.Finite() || !claimedVelocity.Finite() {
		return mathutil.Vec3{}, mathutil.Vec3{}, false
	}
	pos = clampToRadius(claimedPos, p.Body.Position, throwClampRadius)
	velocity = clampMagnitude(claimedVelocity, throwClampRadius*10)
	return pos, velocity, true
}

func clampToRadius(claimed, center mathutil.Vec3, radius float64) mathutil.Vec3 {
	delta := claimed.Sub(center)
	if delta.Length() <= radius {
		return claimed
	}
	return center.Add(delta.Normalize().Mul(radius))
}

func clampMagnitude(v mathutil.Vec3, max float64) mathutil.Vec3 {
	if v.Length() <= max {
		return v
	}
	return v.Normalize().Mul(max)
}
