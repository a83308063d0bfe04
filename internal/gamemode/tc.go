package gamemode

import (
	"github.com/stormcoast/voxelwar/internal/conn"
	"github.com/stormcoast/voxelwar/internal/entity"
	"github.com/stormcoast/voxelwar/internal/mathutil"
)

// tcCaptureDistance mirrors the original source's TC_CAPTURE_DISTANCE
// constant (acelib/constants.py) — deliberately larger than the
// generic 3-unit entity pickup radius in §4.7, so Territory Control
// drives its own proximity check each tick rather than relying on
// entity.Entity's fixed-radius OnCollide.
const tcCaptureDistance = 16.0

// defaultCaptureRate is progress gained per second of uncontested
// sole occupation; 1/capture_rate seconds to fully capture matches
// §8 scenario 6 ("within radius ... for 1/capture_rate seconds").
const defaultCaptureRate = 0.2

// Territory is one capturable command post: its owning team (or
// entity.NeutralTeam) plus in-progress capture state.
type Territory struct {
	Entity   *entity.Entity
	Progress float64
}

// TC implements Territory Control: N command-post entities, each
// captured by whichever team is the sole occupant within
// tcCaptureDistance for long enough (§4.8, §8 scenario 6).
type TC struct {
	Scoreboard

	players     *conn.Table
	territories []*Territory
	captureRate float64
	lastTick    float64
	haveTick    bool
}

// NewTC spawns one command-post entity per position in positions,
// starting neutral.
func NewTC(entities *entity.Table, players *conn.Table, scoreLimit int, positions []mathutil.Vec3) (*TC, error) {
	t := &TC{
		Scoreboard:  Scoreboard{ScoreLimit: scoreLimit},
		players:     players,
		captureRate: defaultCaptureRate,
	}
	for _, pos := range positions {
		e, err := entities.Spawn(entity.KindBase, pos)
		if err != nil {
			return nil, err
		}
		t.territories = append(t.territories, &Territory{Entity: e})
	}
	return t, nil
}

func (t *TC) Name() string { return "tc" }

// Tick advances (or resets) each territory's capture progress based on
// which team, if any, solely occupies it this tick. dt is derived from
// the gap since the previous call; the first call after construction
// or Reset contributes no progress since there is no prior sample.
func (t *TC) Tick(now float64) {
	if !t.haveTick {
		t.lastTick, t.haveTick = now, true
		return
	}
	dt := now - t.lastTick
	t.lastTick = now
	if dt <= 0 {
		return
	}
	t.step(dt)
}

func (t *TC) step(dt float64) {
	for _, territory := range t.territories {
		occupants := [2]int{}
		for _, p := range t.players.All() {
			if !p.Alive() || p.Team != 0 && p.Team != 1 {
				continue
			}
			if p.Body.Position.Distance(territory.Entity.Position) <= tcCaptureDistance {
				occupants[p.Team]++
			}
		}

		soleTeam := int8(-1)
		if occupants[0] > 0 && occupants[1] == 0 {
			soleTeam = 0
		} else if occupants[1] > 0 && occupants[0] == 0 {
			soleTeam = 1
		}

		if soleTeam < 0 || soleTeam == territory.Entity.Team {
			territory.Progress = 0
			continue
		}

		territory.Progress += dt * t.captureRate
		if territory.Progress >= 1.0 {
			territory.Entity.SetTeam(soleTeam)
			territory.Progress = 0
			t.Add(soleTeam, 1)
		}
	}
}

func (t *TC) CheckWin() (int8, bool) { return t.Scoreboard.CheckWin() }

// Reset releases every territory to neutral and clears scores.
func (t *TC) Reset(winner int8) {
	for _, territory := range t.territories {
		territory.Entity.SetTeam(entity.NeutralTeam)
		territory.Progress = 0
	}
	t.ResetScores()
	t.haveTick = false
}

var _ Mode = (*TC)(nil)
var _ Mode = (*CTF)(nil)
