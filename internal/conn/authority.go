package conn

import (
	"github.com/stormcoast/voxelwar/internal/hooks"
	"github.com/stormcoast/voxelwar/internal/mathutil"
	"github.com/stormcoast/voxelwar/internal/voxel"
	"github.com/stormcoast/voxelwar/internal/weapon"
)

// positionReconcileThresholdSq is the squared-distance tolerance
// beyond which the server overrides the client's claimed position
// (§4.3 "Position reconciliation").
const positionReconcileThresholdSq = 3 * 3

// ReconcilePosition checks an inbound PositionOrientationData against
// the server-tracked position. It returns ok=false (authoritative
// snap-back required) if the client drifted too far, or if either
// vector carries a non-finite float (§4.3: "any non-finite float in
// any inbound packet -> disconnect" is the caller's job; this just
// reports the condition).
func ReconcilePosition(p *Player, claimedPos, orientation mathutil.Vec3) (ok bool, finite bool) {
	if !claimedPos.Finite() || !orientation.Finite() {
		return false, false
	}
	p.Orientation = orientation

	if p.Body.Position.DistanceSq(claimedPos) >= positionReconcileThresholdSq {
		return false, true
	}
	p.Body.Position = claimedPos
	return true, true
}

// aimDotThreshold is the minimum alignment between a shooter's claimed
// orientation and the true aim vector to the victim for a hit to be
// accepted (§4.4 "Hit packet authority").
const aimDotThreshold = 0.9

// HitCheck is the outcome of authorizing an inbound HitPacket.
type HitCheck struct {
	Accepted bool
	Damage   float64
	Melee    bool
}

// CheckHit authorizes a ranged hit packet: the shooter must be alive,
// holding a weapon, past its rate limit, and aiming close enough to
// the true vector toward the victim; damage then comes from the
// weapon's own falloff table (§4.4).
func CheckHit(shooter, victim *Player, zone weapon.HitZone, now float64) HitCheck {
	if !shooter.Alive() || shooter.Tool != ToolWeapon || shooter.Weapon == nil {
		return HitCheck{}
	}
	if !shooter.Weapon.CheckPrimaryRapid(now, 1) {
		return HitCheck{}
	}

	expected := victim.Body.EyePosition().Sub(shooter.Body.EyePosition()).Normalize()
	if shooter.Orientation.Dot(expected) <= aimDotThreshold {
		return HitCheck{}
	}

	distance := shooter.Body.Position.Distance(victim.Body.Position)
	dmg, ok := shooter.Weapon.GetDamage(zone, distance)
	if !ok {
		return HitCheck{}
	}
	return HitCheck{Accepted: true, Damage: dmg}
}

// CheckMelee authorizes a spade-swing hit: shooter must hold the spade
// tool, pass its secondary rate limit, and be within MeleeDistance of
// the victim (§4.4).
func CheckMelee(shooter, victim *Player, now float64) HitCheck {
	if !shooter.Alive() || shooter.Tool != ToolSpade || shooter.Spade == nil {
		return HitCheck{}
	}
	if !shooter.Spade.CheckSecondaryRapid(now, 1) {
		return HitCheck{}
	}
	if shooter.Body.Position.Distance(victim.Body.Position) > weapon.MeleeDistance {
		return HitCheck{}
	}
	return HitCheck{Accepted: true, Damage: weapon.MeleeDamage, Melee: true}
}

// BuildCheck authorizes a client's BUILD block action (§4.6).
func BuildCheck(p *Player, m *voxel.Map, bus *hooks.Bus, now float64, x, y, z int32, rgb voxel.RGB) bool {
	if !p.Alive() || p.Tool != ToolBlock || p.Block == nil || p.Block.PrimaryAmmo <= 0 {
		return false
	}
	if !p.Block.CheckRapid(now, 1) {
		return false
	}
	if denied, overridden := bus.TryBuildBlock.Fire(hooks.BuildArgs{
		PlayerID: p.ID, X: x, Y: y, Z: z, R: rgb.R, G: rgb.G, B: rgb.B,
	}); overridden && denied {
		return false
	}
	if !m.BuildPoint(x, y, z, rgb) {
		return false
	}
	p.Block.Build()
	bus.OnBuildBlock.Fire(hooks.BuildArgs{PlayerID: p.ID, X: x, Y: y, Z: z, R: rgb.R, G: rgb.G, B: rgb.B})
	return true
}

// DestroyCheck authorizes a client's DESTROY block action. The rate
// limit is ×2 (two ticks of the block tool's own rate) unless the
// player is mounted on a machine gun, in which case the gun's own
// rate-limit governs instead (§4.6).
func DestroyCheck(p *Player, m *voxel.Map, bus *hooks.Bus, now float64, x, y, z int32, mountedGunRapid func() bool) []voxel.BlockPos {
	if !p.Alive() {
		return nil
	}
	rateOK := false
	if p.MountedEntityID >= 0 && mountedGunRapid != nil {
		rateOK = mountedGunRapid()
	} else if p.Block != nil {
		rateOK = p.Block.CheckRapid(now, 2)
	}
	if !rateOK {
		return nil
	}
	if denied, overridden := bus.TryDestroyBlock.Fire(hooks.DestroyArgs{PlayerID: p.ID, X: x, Y: y, Z: z}); overridden && denied {
		return nil
	}

	solid, _ := m.Get(x, y, z)
	if !solid {
		return nil
	}
	cascaded := m.DestroyPoint(x, y, z)
	if p.Block != nil {
		p.Block.Destroy()
	}
	bus.OnDestroyBlock.Fire(hooks.DestroyArgs{PlayerID: p.ID, X: x, Y: y, Z: z})
	return cascaded
}

// SpadeDestroy authorizes the secondary (spade) destroy action, which
// clears the targeted cell plus the one above and below it (§4.6).
func SpadeDestroy(p *Player, m *voxel.Map, bus *hooks.Bus, now float64, x, y, z int32) []voxel.BlockPos {
	if !p.Alive() || p.Tool != ToolSpade || p.Spade == nil {
		return nil
	}
	if !p.Spade.CheckSecondaryRapid(now, 1) {
		return nil
	}
	var all []voxel.BlockPos
	for _, dz := range [3]int32{0, -1, 1} {
		if denied, overridden := bus.TryDestroyBlock.Fire(hooks.DestroyArgs{PlayerID: p.ID, X: x, Y: y, Z: z + dz}); overridden && denied {
			continue
		}
		if solid, _ := m.Get(x, y, z+dz); !solid {
			continue
		}
		all = append(all, m.DestroyPoint(x, y, z+dz)...)
		bus.OnDestroyBlock.Fire(hooks.DestroyArgs{PlayerID: p.ID, X: x, Y: y, Z: z + dz})
	}
	return all
}

// BlockLineCheck authorizes a BlockLine build action: rate-limited at
// ×2 on the block tool's single rate window (the same window BUILD and
// DESTROY use; the block tool has no separate secondary window),
// requires ammo >= the line length (§4.6).
func BlockLineCheck(p *Player, m *voxel.Map, now float64, a, b voxel.BlockPos) []voxel.BlockPos {
	if !p.Alive() || p.Tool != ToolBlock || p.Block == nil {
		return nil
	}
	if !p.Block.CheckRapid(now, 2) {
		return nil
	}
	line := voxel.BlockLine(a, b)
	if len(line) == 0 || len(line) > p.Block.PrimaryAmmo {
		return nil
	}
	return line
}
