package conn

import (
	"testing"

	"github.com/stormcoast/voxelwar/internal/hooks"
	"github.com/stormcoast/voxelwar/internal/mathutil"
	"github.com/stormcoast/voxelwar/internal/voxel"
	"github.com/stormcoast/voxelwar/internal/weapon"
)

func TestNormalizeNameTrimsAndReplacesBlank(t *testing.T) {
	if got := NormalizeName("   ", 7, nil); got != "Deuce7" {
		t.Fatalf("got %q, want Deuce7", got)
	}
	if got := NormalizeName("Deuce", 3, nil); got != "Deuce3" {
		t.Fatalf("got %q, want Deuce3", got)
	}
	if got := NormalizeName("  Alice ", 1, nil); got != "Alice" {
		t.Fatalf("got %q, want Alice", got)
	}
}

func TestNormalizeNameDedupes(t *testing.T) {
	taken := map[string]bool{"bob": true, "bob1": true}
	if got := NormalizeName("Bob", 9, taken); got != "Bob2" {
		t.Fatalf("got %q, want Bob2", got)
	}
}

func TestTableTakenNamesExcludesSelf(t *testing.T) {
	tbl := NewTable()
	a := NewPlayer(1)
	a.Name = "Alice"
	tbl.Add(a)

	taken := tbl.TakenNames(1)
	if taken["alice"] {
		t.Fatalf("expected the requesting player's own name to be excluded")
	}
}

func TestReconcilePositionAcceptsSmallDrift(t *testing.T) {
	p := NewPlayer(1)
	p.Body.Position = mathutil.Vec3{X: 10, Y: 10, Z: 10}

	ok, finite := ReconcilePosition(p, mathutil.Vec3{X: 11, Y: 10, Z: 10}, mathutil.Vec3{X: 1})
	if !ok || !finite {
		t.Fatalf("expected small drift to be accepted")
	}
	if p.Body.Position.X != 11 {
		t.Fatalf("expected accepted position to update server state")
	}
}

func TestReconcilePositionRejectsLargeDrift(t *testing.T) {
	p := NewPlayer(1)
	p.Body.Position = mathutil.Vec3{X: 0, Y: 0, Z: 0}

	ok, finite := ReconcilePosition(p, mathutil.Vec3{X: 100, Y: 0, Z: 0}, mathutil.Vec3{X: 1})
	if ok || !finite {
		t.Fatalf("expected large drift to be rejected")
	}
	if p.Body.Position.X != 0 {
		t.Fatalf("expected server position to stay authoritative after rejection")
	}
}

func TestReconcilePositionRejectsNonFinite(t *testing.T) {
	_, finite := ReconcilePosition(NewPlayer(1), mathutil.Vec3{X: mathutilInf()}, mathutil.Vec3{})
	if finite {
		t.Fatalf("expected a non-finite position to be reported")
	}
}

func mathutilInf() float64 {
	var zero float64
	return 1 / zero
}

func TestCheckHitRejectsOffAimShots(t *testing.T) {
	shooter := NewPlayer(1)
	shooter.State = StateSpawned
	shooter.Tool = ToolWeapon
	shooter.AttachWeapon(weapon.Specs[weapon.KindSemi])
	shooter.Orientation = mathutil.Vec3{X: 1, Y: 0, Z: 0} // aiming +X

	victim := NewPlayer(2)
	victim.Body.Position = mathutil.Vec3{X: 0, Y: 20, Z: 0} // directly +Y, not +X

	check := CheckHit(shooter, victim, weapon.ZoneTorso, 0)
	if check.Accepted {
		t.Fatalf("expected a hit aimed away from the victim to be rejected")
	}
}

func TestCheckHitAcceptsAlignedShot(t *testing.T) {
	shooter := NewPlayer(1)
	shooter.State = StateSpawned
	shooter.Tool = ToolWeapon
	shooter.AttachWeapon(weapon.Specs[weapon.KindSemi])
	shooter.Orientation = mathutil.Vec3{Y: 1}
	shooter.Weapon.Primary = true

	victim := NewPlayer(2)
	victim.Body.Position = mathutil.Vec3{Y: 10}

	check := CheckHit(shooter, victim, weapon.ZoneTorso, 0)
	if !check.Accepted || check.Damage <= 0 {
		t.Fatalf("expected an aligned shot to be accepted with damage, got %+v", check)
	}
}

func TestCheckMeleeRejectsBeyondRange(t *testing.T) {
	shooter := NewPlayer(1)
	shooter.State = StateSpawned
	shooter.Tool = ToolSpade
	shooter.Spade = &weapon.SpadeTool{}

	victim := NewPlayer(2)
	victim.Body.Position = mathutil.Vec3{X: 10}

	if CheckMelee(shooter, victim, 0).Accepted {
		t.Fatalf("expected a melee swing beyond range to be rejected")
	}
}

func TestBuildCheckConsumesAmmoAndMutatesMap(t *testing.T) {
	m := voxel.NewMap(8, 8, 8)
	bus := hooks.NewBus(nil)
	p := NewPlayer(1)
	p.State = StateSpawned
	p.Tool = ToolBlock
	p.Block = weapon.NewBlockTool()
	startAmmo := p.Block.PrimaryAmmo

	ok := BuildCheck(p, m, bus, 0, 4, 4, 6, voxel.RGB{R: 1, G: 2, B: 3})
	if !ok {
		t.Fatalf("expected build adjacent to the ground plane to succeed")
	}
	if p.Block.PrimaryAmmo != startAmmo-1 {
		t.Fatalf("expected one block consumed")
	}
	if solid, _ := m.Get(4, 4, 6); !solid {
		t.Fatalf("expected the target cell to become solid")
	}
}

func TestBuildCheckDeniedByHook(t *testing.T) {
	m := voxel.NewMap(8, 8, 8)
	bus := hooks.NewBus(nil)
	bus.TryBuildBlock.Subscribe(func(hooks.BuildArgs) (bool, bool) { return true, true })

	p := NewPlayer(1)
	p.State = StateSpawned
	p.Tool = ToolBlock
	p.Block = weapon.NewBlockTool()

	if BuildCheck(p, m, bus, 0, 4, 4, 6, voxel.RGB{}) {
		t.Fatalf("expected a TryBuildBlock veto to deny the build")
	}
}

func TestKillIsIdempotentWhileDead(t *testing.T) {
	bus := hooks.NewBus(nil)
	p := NewPlayer(1)
	p.State = StateSpawned

	first := Kill(p, bus, 10, 8, KillWeapon, 2)
	if first.Suppressed {
		t.Fatalf("expected the first kill to take effect")
	}
	second := Kill(p, bus, 10.5, 8, KillWeapon, 2)
	if !second.Suppressed {
		t.Fatalf("expected re-killing an already-dead player to be suppressed")
	}
}

func TestHurtKillsAtZeroHP(t *testing.T) {
	bus := hooks.NewBus(nil)
	p := NewPlayer(1)
	p.State = StateSpawned
	p.HP = 30

	outcome := Hurt(p, bus, 50, 2, 0)
	if !outcome.Died || outcome.NewHP != 0 {
		t.Fatalf("expected lethal damage to report Died with HP clamped to 0, got %+v", outcome)
	}
}

func TestSpawnDeniedByHook(t *testing.T) {
	bus := hooks.NewBus(nil)
	bus.TryPlayerSpawn.Subscribe(func(hooks.SpawnArgs) (hooks.SpawnResult, bool) {
		return hooks.SpawnResult{Denied: true}, true
	})
	p := NewPlayer(1)
	outcome := Spawn(p, bus, mathutil.Vec3{})
	if !outcome.Denied {
		t.Fatalf("expected a TryPlayerSpawn veto to deny the spawn")
	}
}

func TestThrowCheckClampsDistantPosition(t *testing.T) {
	p := NewPlayer(1)
	p.Body.Position = mathutil.Vec3{}

	pos, _, ok := ThrowCheck(p, mathutil.Vec3{X: 100}, mathutil.Vec3{X: 1})
	if !ok {
		t.Fatalf("expected a finite throw to be accepted")
	}
	if pos.Length() > throwClampRadius+0.01 {
		t.Fatalf("expected clamped throw position within radius, got %v", pos)
	}
}
