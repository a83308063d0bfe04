package conn

import (
	"math"

	"github.com/stormcoast/voxelwar/internal/hooks"
	"github.com/stormcoast/voxelwar/internal/mathutil"
)

// KillType mirrors the original source's KillType enumerator (§4.3,
// §6) so a kill's cause can be stamped on the eventual KillAction
// packet without this package depending on internal/protocol.
type KillType uint8

const (
	KillWeapon KillType = iota
	KillHeadshot
	KillMelee
	KillGrenade
	KillFall
	KillTeamChange
	KillClassChange
)

const (
	maxHP = 255

	// defaultMaxRespawnTime bounds the default respawn delay computation; the
	// core's config may override it per §2A, but lifecycle needs a
	// fallback when none is supplied.
	defaultMaxRespawnTime = 8.0
)

// SpawnOutcome is what Spawn decided, for the caller to broadcast.
type SpawnOutcome struct {
	Denied   bool
	Position mathutil.Vec3
}

// Spawn resets p's physics/ammo/HP and fires the spawn hooks (§4.3
// Spawn). spawnPoint is what the game mode's get_spawn_point returned
// before any hook override.
func Spawn(p *Player, bus *hooks.Bus, spawnPoint mathutil.Vec3) SpawnOutcome {
	result, overridden := bus.TryPlayerSpawn.Fire(hooks.SpawnArgs{PlayerID: p.ID, Team: p.Team})
	pos := spawnPoint
	if overridden {
		if result.Denied {
			return SpawnOutcome{Denied: true}
		}
		pos = result.Position
	}

	p.Body.Reset(pos)
	p.HP = 100
	p.State = StateSpawned
	p.Restock()
	p.MountedEntityID = -1

	bus.OnPlayerSpawn.Fire(hooks.SpawnArgs{PlayerID: p.ID, Team: p.Team})
	return SpawnOutcome{Position: pos}
}

// HurtOutcome tells the caller what to broadcast/unicast after Hurt.
type HurtOutcome struct {
	NewHP   int
	Died    bool
	Applied float64 // the (possibly hook-adjusted) damage actually applied
}

// Hurt applies damage to p from attackerID (-1 if none) with cause,
// running it through TryPlayerHurt first (§4.3 Hurt). Damage <= 0
// after the hook still clamps HP and fires OnPlayerHurt, matching the
// source's "hook may cancel ... by replacing damage with 0" behavior
// rather than skipping the call outright.
func Hurt(p *Player, bus *hooks.Bus, damage float64, attackerID int32, cause uint8) HurtOutcome {
	if adjusted, overridden := bus.TryPlayerHurt.Fire(hooks.HurtArgs{
		PlayerID: p.ID, AttackerID: attackerID, Damage: damage, Cause: cause,
	}); overridden {
		damage = adjusted
	}

	newHP := p.HP - int(math.Round(damage))
	if newHP < 0 {
		newHP = 0
	}
	if newHP > maxHP {
		newHP = maxHP
	}
	p.HP = newHP

	if newHP <= 0 {
		return HurtOutcome{NewHP: newHP, Died: true, Applied: damage}
	}
	bus.OnPlayerHurt.Fire(hooks.HurtArgs{PlayerID: p.ID, AttackerID: attackerID, Damage: damage, Cause: cause})
	return HurtOutcome{NewHP: newHP, Applied: damage}
}

// KillOutcome tells the caller the respawn delay to schedule and
// whether the kill was suppressed by a hook.
type KillOutcome struct {
	Suppressed  bool
	RespawnTime float64
}

// Kill transitions p to Dead and computes its respawn delay (§4.3
// Kill). It is idempotent: calling it on an already-dead or
// already-pending-respawn player is a no-op, since the source treats
// re-killing a dead player as harmless.
func Kill(p *Player, bus *hooks.Bus, now float64, maxRespawnTime float64, killType KillType, killerID int32) KillOutcome {
	if p.State == StateDead {
		return KillOutcome{Suppressed: true}
	}

	if suppress, overridden := bus.TryPlayerKill.Fire(hooks.KillArgs{
		PlayerID: p.ID, KillerID: killerID, KillType: uint8(killType),
	}); overridden && suppress {
		return KillOutcome{Suppressed: true}
	}

	if maxRespawnTime <= 0 {
		maxRespawnTime = defaultMaxRespawnTime
	}
	// Default respawn time: time remaining until the next whole
	// maxRespawnTime-second boundary (§4.3 Kill).
	respawn := maxRespawnTime - math.Mod(now, maxRespawnTime)

	p.State = StateDead
	p.RespawnAt = now + respawn
	p.Deaths++

	bus.OnPlayerKill.Fire(hooks.KillArgs{PlayerID: p.ID, KillerID: killerID, KillType: uint8(killType)})
	return KillOutcome{RespawnTime: respawn}
}

// DueRespawn reports whether a dead player's respawn timer has elapsed.
func DueRespawn(p *Player, now float64) bool {
	return p.State == StateDead && now >= p.RespawnAt
}

// Leave clears p's participation, firing OnPlayerLeave; the caller
// (internal/core) still owns clearing any entity carrier referencing
// p and returning its id to the transport pool (§4.3 Disconnected).
func Leave(p *Player, bus *hooks.Bus) {
	if p.State == StateJoined || p.State == StateSpawned || p.State == StateDead {
		bus.OnPlayerLeave.Fire(hooks.LeaveArgs{PlayerID: p.ID})
	}
	p.State = StateDisconnected
}
