package core

import (
	"math"
	"testing"

	"github.com/stormcoast/voxelwar/internal/clock"
	"github.com/stormcoast/voxelwar/internal/config"
	"github.com/stormcoast/voxelwar/internal/conn"
	"github.com/stormcoast/voxelwar/internal/mathutil"
	"github.com/stormcoast/voxelwar/internal/protocol"
	"github.com/stormcoast/voxelwar/internal/telemetry"
	"github.com/stormcoast/voxelwar/internal/transport"
	"github.com/stormcoast/voxelwar/internal/voxel"
	"github.com/stormcoast/voxelwar/internal/weapon"
)

// newTestServer builds a Server small enough for fast tests, without
// ever calling Listen: the transport host has no socket and no
// connected peers, so BroadcastReliable/BroadcastUnsequenced are safe
// no-ops and peerFor always reports no peer for a unicast.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.MapWidth, cfg.MapLength, cfg.MapHeight = 16, 16, 16
	cfg.GameMode = "ctf"

	s, err := New(cfg, clock.NewFake(), telemetry.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestTickRespawnsDuePlayers(t *testing.T) {
	s := newTestServer(t)

	p := conn.NewPlayer(1)
	p.State = conn.StateDead
	p.RespawnAt = 5
	s.Players.Add(p)

	s.Tick(5)

	if p.State != conn.StateSpawned {
		t.Fatalf("expected a due respawn to spawn the player, got state %v", p.State)
	}
}

func TestTickIgnoresNonPositiveDelta(t *testing.T) {
	s := newTestServer(t)
	s.time = 10

	s.Tick(10)
	if s.time != 10 {
		t.Fatalf("expected time to stay put on a zero delta")
	}

	s.Tick(4)
	if s.time != 4 {
		t.Fatalf("expected time to resync to a smaller now rather than advance")
	}
}

func TestApplyDamageKillsAtZeroHP(t *testing.T) {
	s := newTestServer(t)

	victim := conn.NewPlayer(2)
	victim.State = conn.StateSpawned
	victim.HP = 10

	s.Players.Add(victim)
	s.applyDamage(victim, 50, -1, conn.KillGrenade, mathutil.Vec3{})

	if victim.State != conn.StateDead {
		t.Fatalf("expected lethal damage to kill the victim, got state %v", victim.State)
	}
	if victim.Deaths != 1 {
		t.Fatalf("expected one recorded death, got %d", victim.Deaths)
	}
}

func TestKillCreditsAndDebitsScore(t *testing.T) {
	s := newTestServer(t)

	killer := conn.NewPlayer(1)
	killer.State = conn.StateSpawned
	victim := conn.NewPlayer(2)
	victim.State = conn.StateSpawned
	s.Players.Add(killer)
	s.Players.Add(victim)

	s.kill(victim, int32(killer.ID), conn.KillWeapon)
	if killer.Kills != 1 {
		t.Fatalf("expected a kill by another player to award one point, got %d", killer.Kills)
	}

	victim.State = conn.StateSpawned // respawn for the suicide case
	s.kill(victim, int32(victim.ID), conn.KillFall)
	if victim.Kills != -1 {
		t.Fatalf("expected a suicide to dock one point, got %d", victim.Kills)
	}
}

func TestExplodeDestroysVoxelsAndDamagesNearbyPlayers(t *testing.T) {
	s := newTestServer(t)

	for x := int32(3); x <= 5; x++ {
		for y := int32(3); y <= 5; y++ {
			s.Map.Set(x, y, 4, true, voxel.RGB{R: 1, G: 1, B: 1})
		}
	}

	victim := conn.NewPlayer(3)
	victim.State = conn.StateSpawned
	victim.HP = 100
	victim.Body.Position = mathutil.Vec3{X: 4, Y: 4, Z: 5}
	s.Players.Add(victim)

	s.explode(mathutil.Vec3{X: 4, Y: 4, Z: 4}, -1)

	if solid, _ := s.Map.Get(4, 4, 4); solid {
		t.Fatalf("expected the explosion center to be cleared")
	}
	if victim.HP >= 100 {
		t.Fatalf("expected a nearby player in the blast to take damage, HP=%d", victim.HP)
	}
}

func TestStepObjectsDetonatesGrenadeAtFuse(t *testing.T) {
	s := newTestServer(t)

	owner := conn.NewPlayer(1)
	owner.State = conn.StateSpawned
	owner.Body.Position = mathutil.Vec3{X: 4, Y: 4, Z: 4}
	s.Players.Add(owner)

	s.ThrowGrenade(owner, mathutil.Vec3{X: 4, Y: 4, Z: 4}, mathutil.Vec3{})
	if len(s.objects) != 1 {
		t.Fatalf("expected one live object after a throw, got %d", len(s.objects))
	}

	s.time = 3.1
	s.stepObjects(0.1)

	if len(s.objects) != 0 {
		t.Fatalf("expected the grenade to detonate and clear itself after its fuse, got %d live", len(s.objects))
	}
}

func TestDispatchRejectsNonFinitePosition(t *testing.T) {
	s := newTestServer(t)

	p := conn.NewPlayer(1)
	p.State = conn.StateSpawned
	s.Players.Add(p)

	peer := &transport.Peer{ID: 1}
	reason, disconnect := s.dispatch(peer, &protocol.PositionOrientationData{
		Position: mathutil.Vec3{X: math.NaN()},
	})
	if !disconnect {
		t.Fatalf("expected a non-finite position to trigger a disconnect decision")
	}
	if reason != protocol.DisconnectUndefined {
		t.Fatalf("expected DisconnectUndefined, got %v", reason)
	}
}

func TestDispatchExistingPlayerJoinsAndSpawns(t *testing.T) {
	s := newTestServer(t)

	p := conn.NewPlayer(5)
	p.State = conn.StateJoined
	s.Players.Add(p)

	peer := &transport.Peer{ID: 5}
	reason, disconnect := s.dispatch(peer, &protocol.ExistingPlayer{
		PlayerID: 5, Name: "Recruit", Team: 0, Weapon: uint8(weapon.KindSemi),
	})
	if disconnect {
		t.Fatalf("expected a valid join to be accepted, got disconnect reason %v", reason)
	}
	if p.State != conn.StateSpawned {
		t.Fatalf("expected a valid ExistingPlayer to spawn the player, got state %v", p.State)
	}
	if p.Weapon == nil || p.Weapon.Spec.Kind != weapon.KindSemi {
		t.Fatalf("expected the chosen weapon to be attached")
	}
}

func TestDispatchExistingPlayerRejectsUnknownWeapon(t *testing.T) {
	s := newTestServer(t)

	p := conn.NewPlayer(6)
	p.State = conn.StateJoined
	s.Players.Add(p)

	peer := &transport.Peer{ID: 6}
	_, disconnect := s.dispatch(peer, &protocol.ExistingPlayer{
		PlayerID: 6, Name: "Bad", Team: 0, Weapon: 0xFE,
	})
	if !disconnect {
		t.Fatalf("expected an invalid join weapon to be rejected")
	}
}

func TestOnDisconnectRemovesPlayerAndClearsCarrier(t *testing.T) {
	s := newTestServer(t)

	p := conn.NewPlayer(9)
	p.State = conn.StateSpawned
	s.Players.Add(p)

	s.onDisconnect(&transport.Peer{ID: 9}, protocol.DisconnectUndefined)

	if s.Players.Get(9) != nil {
		t.Fatalf("expected the disconnected player to be removed from the table")
	}
}
