package voxel

import (
	"math/rand"
	"testing"
)

func TestBuildPointRequiresSolidNeighbor(t *testing.T) {
	m := NewMap(8, 8, 8)
	// (2,2,5) floats with nothing solid adjacent (ground is at z=7).
	if m.BuildPoint(2, 2, 5, RGB{R: 1}) {
		t.Fatalf("expected build to fail without a solid neighbor")
	}
	// (2,2,6) sits directly above the ground plane at z=7.
	if !m.BuildPoint(2, 2, 6, RGB{R: 1}) {
		t.Fatalf("expected build to succeed next to ground")
	}
}

func TestBuildPointRejectsOccupiedCell(t *testing.T) {
	m := NewMap(8, 8, 8)
	if m.BuildPoint(2, 2, 7, RGB{}) {
		t.Fatalf("expected build on already-solid ground to fail")
	}
}

func TestDestroyPointCascadesFloatingRegion(t *testing.T) {
	m := NewMap(8, 8, 8)
	// Build a small 2-cell tower resting on the ground, then a floating
	// island balanced on top via a support block, then knock the
	// support out and confirm the island above it is cleared too.
	m.BuildPoint(2, 2, 6, RGB{R: 1})
	m.BuildPoint(2, 2, 5, RGB{R: 2}) // support column
	m.BuildPoint(2, 2, 4, RGB{R: 3}) // floating once support is gone
	m.BuildPoint(3, 2, 4, RGB{R: 4}) // attached to the floating cell

	cleared := m.DestroyPoint(2, 2, 5)

	clearedSet := map[BlockPos]bool{}
	for _, p := range cleared {
		clearedSet[p] = true
	}
	if !clearedSet[BlockPos{2, 2, 5}] {
		t.Fatalf("expected destroyed cell itself in cleared set")
	}
	if !clearedSet[BlockPos{2, 2, 4}] || !clearedSet[BlockPos{3, 2, 4}] {
		t.Fatalf("expected floating region to cascade-clear, got %v", cleared)
	}
	if solid, _ := m.Get(2, 2, 4); solid {
		t.Fatalf("floating cell should have been cleared")
	}
	// The base tower cell at z=6 is still grounded and must survive.
	if solid, _ := m.Get(2, 2, 6); !solid {
		t.Fatalf("grounded cell should not have been cleared")
	}
}

func TestDestroyPointNoCascadeWhenStillGrounded(t *testing.T) {
	m := NewMap(8, 8, 8)
	m.BuildPoint(2, 2, 6, RGB{R: 1})
	m.BuildPoint(1, 2, 6, RGB{R: 2})
	m.BuildPoint(1, 2, 5, RGB{R: 3})

	cleared := m.DestroyPoint(2, 2, 6)
	if len(cleared) != 1 {
		t.Fatalf("expected only the destroyed cell cleared, got %v", cleared)
	}
	if solid, _ := m.Get(1, 2, 5); !solid {
		t.Fatalf("cell still connected to ground via (1,2,6) should survive")
	}
}

func TestBlockLineCapsAtFifty(t *testing.T) {
	if line := BlockLine(BlockPos{0, 0, 0}, BlockPos{100, 0, 0}); line != nil {
		t.Fatalf("expected nil for a line exceeding the cap, got %d cells", len(line))
	}
	line := BlockLine(BlockPos{0, 0, 0}, BlockPos{5, 0, 0})
	if len(line) != 6 {
		t.Fatalf("expected 6 cells, got %d", len(line))
	}
	if line[0] != (BlockPos{0, 0, 0}) || line[len(line)-1] != (BlockPos{5, 0, 0}) {
		t.Fatalf("endpoints not preserved: %v", line)
	}
}

func TestGetZFindsGroundPlane(t *testing.T) {
	m := NewMap(8, 8, 8)
	if z := m.GetZ(3, 3, 0); z != 7 {
		t.Fatalf("GetZ = %d, want 7", z)
	}
	m.BuildPoint(3, 3, 6, RGB{R: 9})
	if z := m.GetZ(3, 3, 0); z != 6 {
		t.Fatalf("GetZ after build = %d, want 6", z)
	}
}

func TestDumpRoundTrip(t *testing.T) {
	m := NewMap(4, 4, 4)
	m.BuildPoint(1, 1, 2, RGB{R: 10, G: 20, B: 30})

	dumped, err := m.Dump()
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}

	loaded := NewMap(4, 4, 4)
	if err := loaded.LoadDump(dumped); err != nil {
		t.Fatalf("LoadDump: %v", err)
	}
	solid, rgb := loaded.Get(1, 1, 2)
	if !solid || rgb != (RGB{R: 10, G: 20, B: 30}) {
		t.Fatalf("round trip mismatch: solid=%v rgb=%+v", solid, rgb)
	}
}

func TestRandomPositionInDeterministic(t *testing.T) {
	m := NewMap(16, 16, 16)
	rng := rand.New(rand.NewSource(1))
	pos := m.RandomPositionIn(rng, 0, 0, 16, 16)
	if pos.X < 0 || pos.X >= 16 || pos.Y < 0 || pos.Y >= 16 {
		t.Fatalf("position out of rect: %+v", pos)
	}
}
