package mathutil

import "testing"

// wallQuery is solid on a single vertical column, used to exercise the
// "grenade blast through wall" scenario (spec §8 scenario 3).
type wallQuery struct {
	wallX int32
}

func (w wallQuery) Solid(x, y, z int32) bool {
	return x == w.wallX && z >= 39 && z <= 41
}

func TestCastRayHitsWall(t *testing.T) {
	hit := CastRay(wallQuery{wallX: 15}, Vec3{X: 10, Y: 10, Z: 40}, Vec3{X: 1}, 20)
	if !hit.Hit || hit.X != 15 {
		t.Fatalf("expected ray to stop at wall x=15, got %+v", hit)
	}
}

func TestLineOfSightBlockedByWall(t *testing.T) {
	from := Vec3{X: 25, Y: 10, Z: 40}
	to := Vec3{X: 20, Y: 10, Z: 40}
	if !LineOfSight(wallQuery{wallX: 15}, from, to) {
		t.Fatal("expected line of sight, wall is not between these points")
	}
	// Thrower at (10,10,40) is on the far side of the wall from A at (25,10,40).
	if LineOfSight(wallQuery{wallX: 15}, Vec3{X: 25, Y: 10, Z: 40}, Vec3{X: 10, Y: 10, Z: 40}) {
		t.Fatal("expected wall at x=15 to block line of sight")
	}
}

type emptyQuery struct{}

func (emptyQuery) Solid(x, y, z int32) bool { return false }

func TestLineOfSightOpen(t *testing.T) {
	if !LineOfSight(emptyQuery{}, Vec3{}, Vec3{X: 10}) {
		t.Fatal("expected clear line of sight over empty space")
	}
}
