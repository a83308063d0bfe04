package gamemode

import (
	"github.com/stormcoast/voxelwar/internal/conn"
	"github.com/stormcoast/voxelwar/internal/entity"
	"github.com/stormcoast/voxelwar/internal/hooks"
	"github.com/stormcoast/voxelwar/internal/mathutil"
)

// ctfStoreKey is the player.Store key CTF uses to remember which
// team's flag a player is currently carrying (§4.8: "maintain
// per-player ... scratch state in player.store").
const ctfStoreKey = "ctf_carrying_team"

// CTF implements Capture-the-Flag: each team defends a base entity
// and a flag entity; touching the enemy's uncarried flag picks it up,
// returning it to your own base while carrying scores a point (§4.8).
type CTF struct {
	Scoreboard

	bus     *hooks.Bus
	players *conn.Table

	bases [2]*entity.Entity
	flags [2]*entity.Entity // flags[team] is the flag team defends
}

// NewCTF spawns both teams' bases and flags via entities and wires
// pickup/capture collision handlers. basePositions[team] anchors both
// the base and that team's flag's home position.
func NewCTF(bus *hooks.Bus, entities *entity.Table, players *conn.Table, scoreLimit int, basePositions [2]mathutil.Vec3) (*CTF, error) {
	c := &CTF{
		Scoreboard: Scoreboard{ScoreLimit: scoreLimit},
		bus:        bus,
		players:    players,
	}

	for team := 0; team < 2; team++ {
		team := int8(team)
		base, err := entities.Spawn(entity.KindBase, basePositions[team])
		if err != nil {
			return nil, err
		}
		base.SetTeam(team)
		flag, err := entities.Spawn(entity.KindFlag, basePositions[team])
		if err != nil {
			return nil, err
		}
		flag.SetTeam(team)

		c.bases[team] = base
		c.flags[team] = flag
		flag.OnCollide = c.onTouchFlag(team)
		base.OnCollide = c.onTouchBase(team)
	}
	return c, nil
}

func (c *CTF) Name() string { return "ctf" }

// onTouchFlag returns the pickup handler for the flag defended by
// homeTeam: any living player from the opposing team picks it up if
// it isn't already carried.
func (c *CTF) onTouchFlag(homeTeam int8) func(e *entity.Entity, playerID uint8) {
	return func(e *entity.Entity, playerID uint8) {
		p := c.players.Get(playerID)
		if p == nil || !p.Alive() || p.Team == homeTeam || e.CarrierID != -1 {
			return
		}
		e.SetCarrier(int32(playerID))
		p.Store[ctfStoreKey] = homeTeam
	}
}

// onTouchBase returns the capture handler for homeTeam's base: a
// living homeTeam player carrying the enemy flag scores and the flag
// returns home.
func (c *CTF) onTouchBase(homeTeam int8) func(e *entity.Entity, playerID uint8) {
	return func(_ *entity.Entity, playerID uint8) {
		p := c.players.Get(playerID)
		if p == nil || !p.Alive() || p.Team != homeTeam {
			return
		}
		carried, ok := p.Store[ctfStoreKey].(int8)
		if !ok {
			return
		}
		enemyFlag := c.flags[carried]
		if enemyFlag.CarrierID != int32(playerID) {
			return
		}
		enemyFlag.SetCarrier(-1)
		enemyFlag.SetPosition(c.bases[carried].Position)
		delete(p.Store, ctfStoreKey)
		c.Add(homeTeam, 1)
	}
}

// Tick is a no-op for CTF: all state transitions are collision-driven
// via the entity callbacks wired in NewCTF.
func (c *CTF) Tick(now float64) {}

func (c *CTF) CheckWin() (int8, bool) { return c.Scoreboard.CheckWin() }

// Reset re-homes both flags and clears scores for a new round.
func (c *CTF) Reset(winner int8) {
	for team := 0; team < 2; team++ {
		flag := c.flags[team]
		flag.SetCarrier(-1)
		flag.SetPosition(c.bases[team].Position)
	}
	for _, p := range c.players.All() {
		delete(p.Store, ctfStoreKey)
	}
	c.ResetScores()
}

// OnPlayerLeave drops any flag the departing player was carrying at
// their last known position (§8 scenario 5).
func (c *CTF) OnPlayerLeave(playerID uint8, lastPosition mathutil.Vec3) {
	for _, flag := range c.flags {
		if flag.CarrierID == int32(playerID) {
			flag.SetCarrier(-1)
			flag.SetPosition(lastPosition)
		}
	}
}
