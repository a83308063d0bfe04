package gamemode

import (
	"github.com/stormcoast/voxelwar/internal/clock"
	"github.com/stormcoast/voxelwar/internal/conn"
	"github.com/stormcoast/voxelwar/internal/entity"
	"github.com/stormcoast/voxelwar/internal/hooks"
	"github.com/stormcoast/voxelwar/internal/mathutil"
)

// Default timings for Bomb Defusal, grounded on the original source's
// acemodes/de.py shape (§4.9 expansion). A deployment's config may
// override these through the DE constructor.
const (
	DefaultPlantRadius    = tcCaptureDistance
	DefaultPlantDuration  = 3.0
	DefaultDefuseDuration = 5.0
	DefaultRoundDuration  = 45.0
)

// deState is Bomb Defusal's per-round state machine (§4.9).
type deState uint8

const (
	deIdle deState = iota
	dePlanting
	dePlanted
	deDefusing
	deRoundOver
)

// AttackTeam/DefendTeam fix which §3 team index is which side; the
// original source always assigns team1 to attack, team2 to defense.
const (
	AttackTeam int8 = 0
	DefendTeam int8 = 1
)

// Detonate performs the shared explosion routine (§4.5) centered on
// the bomb's position when the round timer expires; internal/core
// wires this to the voxel/physics/damage pipeline so this package
// stays free of those dependencies.
type Detonate func(center mathutil.Vec3)

// DE implements Bomb Defusal: attackers carry a bomb entity to one of
// several sites, plant it, and defenders must defuse before the round
// timer expires or the shared explosion routine fires (§4.9).
type DE struct {
	players  *conn.Table
	clock    clock.Clock
	detonate Detonate

	sites []*entity.Entity
	bomb  *entity.Entity
	home  mathutil.Vec3

	plantRadius    float64
	plantDuration  float64
	defuseDuration float64
	roundDuration  float64

	state         deState
	actionDeadline float64
	detonateAt     float64
	activePlayer   uint8
	activeSite     int
	winner         int8
}

// DEConfig collects the tunable Bomb Defusal parameters; zero-valued
// fields fall back to the Default* constants.
type DEConfig struct {
	PlantRadius    float64
	PlantDuration  float64
	DefuseDuration float64
	RoundDuration  float64
}

// NewDE spawns one command-post entity per bomb site plus a single
// carriable bomb entity at home, and subscribes to OnUseCommand for
// the plant/defuse trigger (§4.9: issuing a "use action" — there is no
// dedicated wire packet for it, so this reuses the existing
// chat-command hook with the literal values "plant"/"defuse").
func NewDE(bus *hooks.Bus, entities *entity.Table, players *conn.Table, clk clock.Clock, detonate Detonate, sitePositions []mathutil.Vec3, home mathutil.Vec3, cfg DEConfig) (*DE, error) {
	d := &DE{
		players:        players,
		clock:          clk,
		detonate:       detonate,
		home:           home,
		plantRadius:    orDefault(cfg.PlantRadius, DefaultPlantRadius),
		plantDuration:  orDefault(cfg.PlantDuration, DefaultPlantDuration),
		defuseDuration: orDefault(cfg.DefuseDuration, DefaultDefuseDuration),
		roundDuration:  orDefault(cfg.RoundDuration, DefaultRoundDuration),
	}
	for _, pos := range sitePositions {
		e, err := entities.Spawn(entity.KindBase, pos)
		if err != nil {
			return nil, err
		}
		d.sites = append(d.sites, e)
	}
	bomb, err := entities.Spawn(entity.KindFlag, home)
	if err != nil {
		return nil, err
	}
	bomb.OnCollide = d.onTouchBomb
	d.bomb = bomb

	bus.OnUseCommand.Subscribe(d.onUseCommand)
	return d, nil
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

func (d *DE) Name() string { return "bomb" }

// onTouchBomb lets any living attacker pick up the uncarried bomb.
func (d *DE) onTouchBomb(e *entity.Entity, playerID uint8) {
	if d.state != deIdle {
		return
	}
	p := d.players.Get(playerID)
	if p == nil || !p.Alive() || p.Team != AttackTeam || e.CarrierID != -1 {
		return
	}
	e.SetCarrier(int32(playerID))
}

// onUseCommand dispatches the "plant"/"defuse" chat-command trigger.
func (d *DE) onUseCommand(args hooks.CommandArgs) {
	p := d.players.Get(args.PlayerID)
	if p == nil || !p.Alive() {
		return
	}
	now := d.clock.Now()
	switch args.Value {
	case "plant":
		d.tryBeginPlant(p, now)
	case "defuse":
		d.tryBeginDefuse(p, now)
	}
}

func (d *DE) tryBeginPlant(p *conn.Player, now float64) {
	if d.state != deIdle || p.Team != AttackTeam || d.bomb.CarrierID != int32(p.ID) {
		return
	}
	for i, site := range d.sites {
		if p.Body.Position.Distance(site.Position) <= d.plantRadius {
			d.state = dePlanting
			d.activePlayer = p.ID
			d.activeSite = i
			d.actionDeadline = now + d.plantDuration
			return
		}
	}
}

func (d *DE) tryBeginDefuse(p *conn.Player, now float64) {
	if d.state != dePlanted || p.Team != DefendTeam {
		return
	}
	if p.Body.Position.Distance(d.bomb.Position) > d.plantRadius {
		return
	}
	d.state = deDefusing
	d.activePlayer = p.ID
	d.actionDeadline = now + d.defuseDuration
}

// Tick drives the plant/defuse/detonate state machine (§4.9).
func (d *DE) Tick(now float64) {
	switch d.state {
	case dePlanting:
		if !d.planterStillValid() {
			d.state = deIdle
			return
		}
		if now >= d.actionDeadline {
			d.finalizePlant(now)
		}
	case dePlanted:
		if now >= d.detonateAt {
			if d.detonate != nil {
				d.detonate(d.bomb.Position)
			}
			d.winner = AttackTeam
			d.state = deRoundOver
		}
	case deDefusing:
		if !d.defuserStillValid() {
			d.state = dePlanted
			return
		}
		if now >= d.actionDeadline {
			d.finalizeDefuse()
		}
	}
}

func (d *DE) planterStillValid() bool {
	p := d.players.Get(d.activePlayer)
	if p == nil || !p.Alive() || d.bomb.CarrierID != int32(d.activePlayer) {
		return false
	}
	return p.Body.Position.Distance(d.sites[d.activeSite].Position) <= d.plantRadius
}

func (d *DE) defuserStillValid() bool {
	p := d.players.Get(d.activePlayer)
	if p == nil || !p.Alive() {
		return false
	}
	return p.Body.Position.Distance(d.bomb.Position) <= d.plantRadius
}

func (d *DE) finalizePlant(now float64) {
	d.bomb.SetCarrier(-1)
	d.bomb.SetPosition(d.sites[d.activeSite].Position)
	d.state = dePlanted
	d.detonateAt = now + d.roundDuration
}

func (d *DE) finalizeDefuse() {
	d.bomb.Destroy()
	d.winner = DefendTeam
	d.state = deRoundOver
}

func (d *DE) CheckWin() (int8, bool) {
	return d.winner, d.state == deRoundOver
}

// Reset re-homes the bomb, clears round state, and returns to Idle for
// the next round.
func (d *DE) Reset(winner int8) {
	d.bomb.Destroyed = false
	d.bomb.SetCarrier(-1)
	d.bomb.SetPosition(d.home)
	d.state = deIdle
	d.activePlayer = 0
	d.activeSite = 0
	d.actionDeadline = 0
	d.detonateAt = 0
}

// OnPlayerLeave drops the bomb if the departing player was carrying it
// and cancels any in-progress plant/defuse they were performing.
func (d *DE) OnPlayerLeave(playerID uint8, lastPosition mathutil.Vec3) {
	if d.bomb.CarrierID == int32(playerID) {
		d.bomb.SetCarrier(-1)
		d.bomb.SetPosition(lastPosition)
	}
	if d.activePlayer == playerID {
		switch d.state {
		case dePlanting:
			d.state = deIdle
		case deDefusing:
			d.state = dePlanted
		}
	}
}

var _ Mode = (*DE)(nil)
