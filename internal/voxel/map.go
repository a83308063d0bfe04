// Package voxel implements the dense occupancy + color grid that is
// the single source of truth for block state (§3, §4.6): set/clear,
// ground-level query, random position in a rectangle, block-line
// computation, cascade removal of unsupported floating regions, and a
// deflate-compressed streaming dump.
package voxel

import (
	"math/rand"
	"sync"

	"github.com/stormcoast/voxelwar/internal/mathutil"
)

// RGB is a block color.
type RGB struct {
	R, G, B byte
}

// BlockPos is a discrete voxel coordinate.
type BlockPos struct {
	X, Y, Z int32
}

// cascadeBudget bounds the BFS used to detect unsupported floating
// regions after a destroy (§3: "MAY trigger cascade removal"). Real
// deployments size maps in the low hundreds of units per axis, so a
// few thousand nodes comfortably covers any realistic floating chunk
// without letting a pathological map shape stall a tick.
const cascadeBudget = 4096

// Map is a dense width x length x height voxel grid. Height is fixed;
// width and length are map-defined. z=0 is the sky, z=Height-1 is the
// ground plane, matching the "ground-level query" framing in §4.6.
type Map struct {
	mu sync.RWMutex

	Width, Length, Height int32

	solid []bool
	color []RGB
}

// NewMap allocates an empty map of the given dimensions, with a solid
// single-layer ground plane at z=Height-1 so get_z has something to
// find before any real terrain is loaded.
func NewMap(width, length, height int32) *Map {
	m := &Map{
		Width:  width,
		Length: length,
		Height: height,
		solid:  make([]bool, int64(width)*int64(length)*int64(height)),
		color:  make([]RGB, int64(width)*int64(length)*int64(height)),
	}
	for x := int32(0); x < width; x++ {
		for y := int32(0); y < length; y++ {
			m.setLocked(x, y, height-1, true, RGB{R: 112, G: 112, B: 112})
		}
	}
	return m
}

func (m *Map) inBounds(x, y, z int32) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Length && z >= 0 && z < m.Height
}

func (m *Map) index(x, y, z int32) int64 {
	return int64(z)*int64(m.Width)*int64(m.Length) + int64(y)*int64(m.Width) + int64(x)
}

// Solid reports whether (x,y,z) is occupied. Out-of-bounds cells below
// the grid read as solid (treated as infinite ground) and above as
// open sky, matching the original engine's boundary convention.
func (m *Map) Solid(x, y, z int32) bool {
	if !m.inBounds(x, y, z) {
		return z >= m.Height
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.solid[m.index(x, y, z)]
}

// Get returns the occupancy and color of (x,y,z).
func (m *Map) Get(x, y, z int32) (bool, RGB) {
	if !m.inBounds(x, y, z) {
		return false, RGB{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.index(x, y, z)
	return m.solid[i], m.color[i]
}

func (m *Map) setLocked(x, y, z int32, solid bool, rgb RGB) {
	if !m.inBounds(x, y, z) {
		return
	}
	i := m.index(x, y, z)
	m.solid[i] = solid
	if solid {
		m.color[i] = rgb
	} else {
		m.color[i] = RGB{}
	}
}

// Set forcibly writes a cell, bypassing the build/destroy authority
// checks below. Used by the map loader and by cascade removal.
func (m *Map) Set(x, y, z int32, solid bool, rgb RGB) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(x, y, z, solid, rgb)
}

// GetZ returns the height of the first solid block at or below floor,
// scanning toward the ground plane. Used for entity gravity-settle
// (§4.7) and teleport clamp.
func (m *Map) GetZ(x, y, floor int32) int32 {
	if floor >= m.Height {
		floor = m.Height - 1
	}
	for z := floor; z < m.Height; z++ {
		if m.Solid(x, y, z) {
			return z
		}
	}
	return m.Height - 1
}

// hasSolidNeighbor reports whether any of the six face-adjacent cells
// of (x,y,z) is solid.
func (m *Map) hasSolidNeighbor(x, y, z int32) bool {
	neighbors := [6]BlockPos{
		{x - 1, y, z}, {x + 1, y, z},
		{x, y - 1, z}, {x, y + 1, z},
		{x, y, z - 1}, {x, y, z + 1},
	}
	for _, n := range neighbors {
		if m.Solid(n.X, n.Y, n.Z) {
			return true
		}
	}
	return false
}

// BuildPoint places a block at (x,y,z) with the given color. It fails
// (returns false) if the target cell is already solid, out of bounds,
// or has no solid neighbor (§4.6).
func (m *Map) BuildPoint(x, y, z int32, rgb RGB) bool {
	if !m.inBounds(x, y, z) {
		return false
	}
	if m.Solid(x, y, z) {
		return false
	}
	if !m.hasSolidNeighbor(x, y, z) {
		return false
	}
	m.Set(x, y, z, true, rgb)
	return true
}

// DestroyPoint clears (x,y,z) and returns every cell actually cleared,
// including any floating region that lost its support and cascaded
// (§3, §4.6). The returned slice always contains (x,y,z) first when
// that cell was solid.
func (m *Map) DestroyPoint(x, y, z int32) []BlockPos {
	if !m.Solid(x, y, z) {
		return nil
	}
	m.Set(x, y, z, false, RGB{})
	cleared := []BlockPos{{x, y, z}}
	cleared = append(cleared, m.cascadeFrom(x, y, z)...)
	return cleared
}

// cascadeFrom checks the six neighbors of a just-cleared cell for
// unsupported floating regions and removes any it finds, bounded by
// cascadeBudget.
func (m *Map) cascadeFrom(x, y, z int32) []BlockPos {
	var removed []BlockPos
	neighbors := [6]BlockPos{
		{x - 1, y, z}, {x + 1, y, z},
		{x, y - 1, z}, {x, y + 1, z},
		{x, y, z - 1}, {x, y, z + 1},
	}
	seen := make(map[BlockPos]bool)
	for _, n := range neighbors {
		if !m.Solid(n.X, n.Y, n.Z) || seen[n] {
			continue
		}
		component, grounded := m.floodComponent(n, seen)
		if !grounded {
			for _, p := range component {
				m.Set(p.X, p.Y, p.Z, false, RGB{})
			}
			removed = append(removed, component...)
		}
	}
	return removed
}

// floodComponent walks the solid region connected to start (6-connectivity),
// up to cascadeBudget nodes, marking every visited cell in seen so the
// caller doesn't re-walk it from another neighbor. It reports the
// region as grounded if the walk reaches the ground plane (z=Height-1)
// or exhausts the budget (treated conservatively as grounded, since we
// cannot prove it is floating).
func (m *Map) floodComponent(start BlockPos, seen map[BlockPos]bool) ([]BlockPos, bool) {
	stack := []BlockPos{start}
	seen[start] = true
	var component []BlockPos
	grounded := false

	for len(stack) > 0 && len(component) < cascadeBudget && !grounded {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		component = append(component, p)

		if p.Z >= m.Height-1 {
			grounded = true
			break
		}

		for _, n := range [6]BlockPos{
			{p.X - 1, p.Y, p.Z}, {p.X + 1, p.Y, p.Z},
			{p.X, p.Y - 1, p.Z}, {p.X, p.Y + 1, p.Z},
			{p.X, p.Y, p.Z - 1}, {p.X, p.Y, p.Z + 1},
		} {
			if seen[n] || !m.Solid(n.X, n.Y, n.Z) {
				continue
			}
			seen[n] = true
			stack = append(stack, n)
		}
	}
	if len(component) >= cascadeBudget {
		grounded = true
	}
	return component, grounded
}

// maxBlockLine caps block_line output at the builder's ammo pool size
// (§4.6, §8): "never produces more than 50 blocks".
const maxBlockLine = 50

// BlockLine returns the ordered discrete cells on the line from a to b
// using a 3D Bresenham walk, or nil if it would exceed maxBlockLine
// cells.
func BlockLine(a, b BlockPos) []BlockPos {
	dx, dy, dz := abs32(b.X-a.X), abs32(b.Y-a.Y), abs32(b.Z-a.Z)
	steps := dx
	if dy > steps {
		steps = dy
	}
	if dz > steps {
		steps = dz
	}
	if steps+1 > maxBlockLine {
		return nil
	}

	sx := sign32(b.X - a.X)
	sy := sign32(b.Y - a.Y)
	sz := sign32(b.Z - a.Z)

	line := make([]BlockPos, 0, steps+1)
	x, y, z := a.X, a.Y, a.Z
	errX, errY, errZ := 0, 0, 0

	for i := int32(0); i <= steps; i++ {
		line = append(line, BlockPos{x, y, z})
		errX += int(dx)
		errY += int(dy)
		errZ += int(dz)
		if int32(2*errX) >= steps {
			x += sx
			errX -= int(steps)
		}
		if int32(2*errY) >= steps {
			y += sy
			errY -= int(steps)
		}
		if int32(2*errZ) >= steps {
			z += sz
			errZ -= int(steps)
		}
	}
	return line
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func sign32(v int32) int32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// RandomPositionIn returns a uniformly random (x,y) within
// [minX,maxX)x[minY,maxY) and the ground height there, using the supplied generator so callers
// (spawn point selection) stay deterministic under test (§9).
func (m *Map) RandomPositionIn(rng *rand.Rand, minX, minY, maxX, maxY int32) mathutil.Vec3 {
	if maxX <= minX {
		maxX = minX + 1
	}
	if maxY <= minY {
		maxY = minY + 1
	}
	x := minX + rng.Int31n(maxX-minX)
	y := minY + rng.Int31n(maxY-minY)
	z := m.GetZ(x, y, 0)
	return mathutil.Vec3{X: float64(x), Y: float64(y), Z: float64(z)}
}
