package mathutil

import "math"

// VoxelQuery is the minimal read-only surface a raycast needs from a
// voxel map. internal/voxel.Map satisfies it; kept as an interface here
// so mathutil never imports voxel (it is the lower-level package).
type VoxelQuery interface {
	Solid(x, y, z int32) bool
}

// RayHit describes where a cast ray first struck a solid voxel.
type RayHit struct {
	X, Y, Z int32
	Hit     bool
}

// CastRay walks from origin along dir (need not be normalized) using a
// DDA voxel traversal, stopping at the first solid cell within maxDist
// units. Used for explosion line-of-sight tests (§4.5) and for melee /
// hitscan sanity checks that want to know what's between two points.
func CastRay(q VoxelQuery, origin, dir Vec3, maxDist float64) RayHit {
	dir = dir.Normalize()
	if dir == (Vec3{}) {
		return RayHit{}
	}

	x, y, z := origin.Floor()

	stepX, tDeltaX, tMaxX := ddaAxis(origin.X, dir.X)
	stepY, tDeltaY, tMaxY := ddaAxis(origin.Y, dir.Y)
	stepZ, tDeltaZ, tMaxZ := ddaAxis(origin.Z, dir.Z)

	traveled := 0.0
	for traveled <= maxDist {
		if q.Solid(x, y, z) {
			return RayHit{X: x, Y: y, Z: z, Hit: true}
		}

		if tMaxX < tMaxY && tMaxX < tMaxZ {
			x += stepX
			traveled = tMaxX
			tMaxX += tDeltaX
		} else if tMaxY < tMaxZ {
			y += stepY
			traveled = tMaxY
			tMaxY += tDeltaY
		} else {
			z += stepZ
			traveled = tMaxZ
			tMaxZ += tDeltaZ
		}
	}
	return RayHit{}
}

// ddaAxis computes the step direction, the per-axis distance between
// grid-line crossings, and the distance to the first crossing, for one
// axis of the DDA traversal.
func ddaAxis(origin, d float64) (step int32, tDelta, tMax float64) {
	if d > 0 {
		step = 1
		tDelta = 1 / d
		tMax = (math.Floor(origin) + 1 - origin) * tDelta
	} else if d < 0 {
		step = -1
		tDelta = -1 / d
		tMax = (origin - math.Floor(origin)) * tDelta
	} else {
		tDelta = math.Inf(1)
		tMax = math.Inf(1)
	}
	return
}

// LineOfSight reports whether no solid voxel lies on the segment from
// from toward to, used by the explosion damage falloff (§4.5 scenario
// 3). The cell containing from is tested; the walk stops 0.5 units
// short of to, so to's own cell is normally not.
func LineOfSight(q VoxelQuery, from, to Vec3) bool {
	dist := from.Distance(to)
	if dist == 0 {
		return true
	}
	hit := CastRay(q, from, to.Sub(from), dist-0.5)
	return !hit.Hit
}
