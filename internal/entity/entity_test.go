package entity

import (
	"testing"

	"github.com/stormcoast/voxelwar/internal/mathutil"
)

type flatGround struct{ z int32 }

func (g flatGround) GetZ(x, y, floor int32) int32 { return g.z }

func TestSetCarrierSameIsNoOp(t *testing.T) {
	e := New(1, KindFlag, mathutil.Vec3{})
	calls := 0
	e.OnCarrierChanged = func(*Entity) { calls++ }

	e.SetCarrier(5)
	if calls != 1 {
		t.Fatalf("expected 1 call after first set, got %d", calls)
	}
	e.SetCarrier(5)
	if calls != 1 {
		t.Fatalf("expected set_carrier(same) to emit no change, got %d calls", calls)
	}
	e.SetCarrier(6)
	if calls != 2 {
		t.Fatalf("expected a change when the carrier actually differs, got %d", calls)
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	e := New(1, KindFlag, mathutil.Vec3{})
	e.Destroy()
	e.Destroy()
	if !e.Destroyed {
		t.Fatalf("expected entity to be destroyed")
	}
	// Mutators on a destroyed entity must not fire callbacks.
	called := false
	e.OnPositionChanged = func(*Entity) { called = true }
	e.SetPosition(mathutil.Vec3{X: 1})
	if called {
		t.Fatalf("expected mutators to no-op once destroyed")
	}
}

func TestUpdateSettlesToGround(t *testing.T) {
	e := New(1, KindAmmoCrate, mathutil.Vec3{X: 5, Y: 5, Z: 10})
	ground := flatGround{z: 3}
	e.Update(ground, nil)
	if e.Position.Z != 3 {
		t.Fatalf("expected entity to settle to z=3, got %v", e.Position.Z)
	}
}

func TestUpdateFiresOnCollideForNearbyPlayer(t *testing.T) {
	e := New(1, KindAmmoCrate, mathutil.Vec3{X: 0, Y: 0, Z: 3})
	ground := flatGround{z: 3}
	var collided []uint8
	e.OnCollide = func(_ *Entity, playerID uint8) { collided = append(collided, playerID) }

	players := map[uint8]mathutil.Vec3{
		7:  {X: 1, Y: 0, Z: 3},  // within 3 units
		9:  {X: 50, Y: 0, Z: 3}, // far away
	}
	e.Update(ground, players)

	if len(collided) != 1 || collided[0] != 7 {
		t.Fatalf("expected only player 7 to collide, got %v", collided)
	}
}

func TestMountedGunRejectsDoubleMount(t *testing.T) {
	g := NewMachineGun(1, mathutil.Vec3{}, 0)
	if !g.Mount(3) {
		t.Fatalf("expected first mount to succeed")
	}
	if g.Mount(4) {
		t.Fatalf("expected second mount to be rejected while occupied")
	}
	g.Dismount()
	if !g.Mount(4) {
		t.Fatalf("expected mount to succeed after dismount")
	}
}

func TestHelicopterHoldsCruiseAltitude(t *testing.T) {
	h := NewHelicopter(1, mathutil.Vec3{X: 0, Y: 0, Z: 20})
	ground := flatGround{z: 0}
	h.Update(ground, 1.0)
	if h.Position.Z != -helicopterCruiseAltitude {
		t.Fatalf("got z=%v, want %v", h.Position.Z, -helicopterCruiseAltitude)
	}
}
