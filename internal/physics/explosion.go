package physics

import (
	"math"

	"github.com/stormcoast/voxelwar/internal/mathutil"
)

// ExplosionBlastRadiusSq and ExplosionDamageScale come straight from
// §4.5: "if squared distance < 16^2 ... damage = min(100, 4096 / sq_distance)".
const (
	ExplosionBlastRadiusSq = 16 * 16
	ExplosionDamageScale   = 4096.0
)

// BlastDamage returns the damage an explosion centered at center deals
// to a player at playerPos with clear line of sight, or false if the
// player is out of blast radius (the caller still owes its own
// line-of-sight check via mathutil.LineOfSight before trusting a true
// result, since that check needs the voxel map and this package stays
// map-agnostic).
func BlastDamage(center, playerPos mathutil.Vec3) (damage float64, inRange bool) {
	distSq := center.DistanceSq(playerPos)
	if distSq >= ExplosionBlastRadiusSq {
		return 0, false
	}
	if distSq == 0 {
		return 100, true
	}
	return math.Min(100, ExplosionDamageScale/distSq), true
}
