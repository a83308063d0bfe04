package weapon

// RGB is a block color, duplicated from internal/voxel to keep this
// package free of a voxel dependency.
type RGB struct {
	R, G, B uint8
}

// BlockTool is the build/destroy tool's ammo-pool state (§4.4, §4.6).
type BlockTool struct {
	PrimaryAmmo int
	Color       RGB

	lastPrimary float64
}

const blockMaxPrimary = 50
const blockPrimaryRate = 0.5

// NewBlockTool returns a full ammo pool with the default gray color.
func NewBlockTool() *BlockTool {
	return &BlockTool{
		PrimaryAmmo: blockMaxPrimary,
		Color:       RGB{R: 112, G: 112, B: 112},
	}
}

// CheckRapid applies the block tool's own fire rate.
func (b *BlockTool) CheckRapid(now float64, times int) bool {
	return CheckRapid(now, &b.lastPrimary, blockPrimaryRate, times)
}

// Build consumes one block from the pool if available.
func (b *BlockTool) Build() bool {
	if b.PrimaryAmmo <= 0 {
		return false
	}
	b.PrimaryAmmo--
	return true
}

// Destroy refunds one block to the pool, capped at the max.
func (b *BlockTool) Destroy() {
	refilled := b.PrimaryAmmo + 1
	if refilled > blockMaxPrimary {
		refilled = blockMaxPrimary
	}
	if refilled < 0 {
		refilled = 0
	}
	b.PrimaryAmmo = refilled
}

// Reset restores the default color, e.g. on respawn.
func (b *BlockTool) Reset() {
	b.Color = RGB{R: 112, G: 112, B: 112}
}
