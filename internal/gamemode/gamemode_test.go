package gamemode

import (
	"testing"

	"github.com/stormcoast/voxelwar/internal/clock"
	"github.com/stormcoast/voxelwar/internal/conn"
	"github.com/stormcoast/voxelwar/internal/entity"
	"github.com/stormcoast/voxelwar/internal/hooks"
	"github.com/stormcoast/voxelwar/internal/mathutil"
)

func spawnAt(tbl *conn.Table, id uint8, team int8, pos mathutil.Vec3) *conn.Player {
	p := conn.NewPlayer(id)
	p.Team = team
	p.State = conn.StateSpawned
	p.Body.Position = pos
	tbl.Add(p)
	return p
}

func TestCTFCapturePicksUpAndScores(t *testing.T) {
	players := conn.NewTable()
	entities := entity.NewTable(16)
	bus := hooks.NewBus(nil)
	bases := [2]mathutil.Vec3{{X: 0}, {X: 100}}

	ctf, err := NewCTF(bus, entities, players, 3, bases)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	attacker := spawnAt(players, 1, 0, bases[1]) // team 0 player standing on team 1's base/flag
	entities.All()
	var enemyFlag *entity.Entity
	for _, e := range entities.All() {
		if e.Kind == entity.KindFlag && e.Team == 1 {
			enemyFlag = e
		}
	}
	if enemyFlag == nil {
		t.Fatalf("expected team 1's flag to exist")
	}

	enemyFlag.OnCollide(enemyFlag, attacker.ID)
	if enemyFlag.CarrierID != int32(attacker.ID) {
		t.Fatalf("expected attacker to pick up the enemy flag")
	}

	attacker.Body.Position = bases[0]
	var homeBase *entity.Entity
	for _, e := range entities.All() {
		if e.Kind == entity.KindBase && e.Team == 0 {
			homeBase = e
		}
	}
	homeBase.OnCollide(homeBase, attacker.ID)

	if ctf.Scores[0] != 1 {
		t.Fatalf("expected team 0 to score, got %+v", ctf.Scores)
	}
	if enemyFlag.CarrierID != -1 {
		t.Fatalf("expected the flag to return home after capture")
	}
}

func TestCTFOnPlayerLeaveDropsCarriedFlag(t *testing.T) {
	players := conn.NewTable()
	entities := entity.NewTable(16)
	bus := hooks.NewBus(nil)
	bases := [2]mathutil.Vec3{{X: 0}, {X: 100}}

	ctf, err := NewCTF(bus, entities, players, 3, bases)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	carrier := spawnAt(players, 2, 0, bases[1])

	var enemyFlag *entity.Entity
	for _, e := range entities.All() {
		if e.Kind == entity.KindFlag && e.Team == 1 {
			enemyFlag = e
		}
	}
	enemyFlag.SetCarrier(int32(carrier.ID))

	lastPos := mathutil.Vec3{X: 42, Y: 7}
	ctf.OnPlayerLeave(carrier.ID, lastPos)

	if enemyFlag.CarrierID != -1 {
		t.Fatalf("expected flag carrier cleared on disconnect")
	}
	if enemyFlag.Position != lastPos {
		t.Fatalf("expected flag dropped at last known position, got %v", enemyFlag.Position)
	}
}

func TestTCCapturesAfterSoleOccupation(t *testing.T) {
	players := conn.NewTable()
	entities := entity.NewTable(16)
	postPos := mathutil.Vec3{X: 50, Y: 50}

	tc, err := NewTC(entities, players, 1, []mathutil.Vec3{postPos})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	spawnAt(players, 1, 1, postPos)

	tc.Tick(0) // establishes the dt baseline, no progress yet
	tc.Tick(1.0 / defaultCaptureRate)

	if tc.Scores[1] != 1 {
		t.Fatalf("expected team 1 to capture the territory, got %+v", tc.Scores)
	}
	if tc.territories[0].Entity.Team != 1 {
		t.Fatalf("expected the post to change ownership")
	}
}

func TestTCResetsProgressWhenContested(t *testing.T) {
	players := conn.NewTable()
	entities := entity.NewTable(16)
	postPos := mathutil.Vec3{}

	tc, err := NewTC(entities, players, 1, []mathutil.Vec3{postPos})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	spawnAt(players, 1, 0, postPos)
	spawnAt(players, 2, 1, postPos)

	tc.Tick(0)
	tc.Tick(100)

	if tc.territories[0].Progress != 0 {
		t.Fatalf("expected contested occupation to hold at zero progress")
	}
}

func TestDEFullRoundPlantAndDetonate(t *testing.T) {
	players := conn.NewTable()
	entities := entity.NewTable(16)
	bus := hooks.NewBus(nil)
	fake := clock.NewFake()
	site := mathutil.Vec3{X: 10}
	home := mathutil.Vec3{}

	var detonatedAt mathutil.Vec3
	detonated := false
	de, err := NewDE(bus, entities, players, fake, func(center mathutil.Vec3) {
		detonated = true
		detonatedAt = center
	}, []mathutil.Vec3{site}, home, DEConfig{PlantDuration: 2, RoundDuration: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	attacker := spawnAt(players, 1, AttackTeam, home)
	de.bomb.OnCollide(de.bomb, attacker.ID)
	if de.bomb.CarrierID != int32(attacker.ID) {
		t.Fatalf("expected attacker to pick up the bomb")
	}

	attacker.Body.Position = site
	bus.OnUseCommand.Fire(hooks.CommandArgs{PlayerID: attacker.ID, Value: "plant"})
	if de.state != dePlanting {
		t.Fatalf("expected plant to begin")
	}

	fake.Advance(2)
	de.Tick(fake.Now())
	if de.state != dePlanted {
		t.Fatalf("expected bomb to be planted after the plant duration")
	}

	fake.Advance(5)
	de.Tick(fake.Now())

	winner, over := de.CheckWin()
	if !over || winner != AttackTeam {
		t.Fatalf("expected attackers to win on detonation, got winner=%d over=%v", winner, over)
	}
	if !detonated || detonatedAt != site {
		t.Fatalf("expected the shared explosion routine to fire at the site, got %v", detonatedAt)
	}
}

func TestDEDefuseCancelsDetonation(t *testing.T) {
	players := conn.NewTable()
	entities := entity.NewTable(16)
	bus := hooks.NewBus(nil)
	fake := clock.NewFake()
	site := mathutil.Vec3{X: 10}
	home := mathutil.Vec3{}

	de, err := NewDE(bus, entities, players, fake, func(mathutil.Vec3) { t.Fatalf("should not detonate") },
		[]mathutil.Vec3{site}, home, DEConfig{PlantDuration: 1, DefuseDuration: 2, RoundDuration: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	attacker := spawnAt(players, 1, AttackTeam, home)
	de.bomb.OnCollide(de.bomb, attacker.ID)
	attacker.Body.Position = site
	bus.OnUseCommand.Fire(hooks.CommandArgs{PlayerID: attacker.ID, Value: "plant"})
	fake.Advance(1)
	de.Tick(fake.Now())
	if de.state != dePlanted {
		t.Fatalf("expected bomb planted")
	}

	defender := spawnAt(players, 2, DefendTeam, site)
	bus.OnUseCommand.Fire(hooks.CommandArgs{PlayerID: defender.ID, Value: "defuse"})
	if de.state != deDefusing {
		t.Fatalf("expected defuse to begin")
	}

	fake.Advance(2)
	de.Tick(fake.Now())

	winner, over := de.CheckWin()
	if !over || winner != DefendTeam {
		t.Fatalf("expected defenders to win, got winner=%d over=%v", winner, over)
	}
	if !de.bomb.Destroyed {
		t.Fatalf("expected the bomb to be destroyed on defuse")
	}
}
