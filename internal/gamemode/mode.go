// Package gamemode implements the three shipped collaborators — CTF,
// Territory Control, and Bomb Defusal — as subscribers to the core
// hook bus (§4.8, §4.9). None of these types own a player or entity
// table of their own: they are handed the shared conn.Table,
// entity.Table, and hooks.Bus at construction and mutate through
// those, the same decoupling internal/conn uses for block/hit
// authority.
package gamemode

import "github.com/stormcoast/voxelwar/internal/mathutil"

// Mode is satisfied by every shipped game mode. Tick is called once
// per server tick with the current simulation time; CheckWin reports
// whether a team has met the win condition; Reset tears down and
// re-homes mode state for a new round (§4.8: "spawn mode-specific
// entities ... implement reset(winner)").
type Mode interface {
	Name() string
	Tick(now float64)
	CheckWin() (winner int8, over bool)
	Reset(winner int8)
}

// Leaver is an optional extension a mode implements when it needs to
// react to a disconnect, e.g. dropping a carried objective at the
// player's last known position (§8 scenario 5).
type Leaver interface {
	OnPlayerLeave(playerID uint8, lastPosition mathutil.Vec3)
}

// Scoreboard is the [2]-team score counter shared by all three modes;
// §3's score fields are bounded to [0,255] the same as player HP.
type Scoreboard struct {
	Scores     [2]int
	ScoreLimit int
}

// Add increments team's score by n, clamping to the §8 score bound.
func (s *Scoreboard) Add(team int8, n int) {
	if team != 0 && team != 1 {
		return
	}
	v := s.Scores[team] + n
	if v > 255 {
		v = 255
	}
	if v < 0 {
		v = 0
	}
	s.Scores[team] = v
}

// CheckWin reports the first team to reach ScoreLimit, or false if
// neither has (or ScoreLimit is unset).
func (s *Scoreboard) CheckWin() (int8, bool) {
	if s.ScoreLimit <= 0 {
		return 0, false
	}
	for team, score := range s.Scores {
		if score >= s.ScoreLimit {
			return int8(team), true
		}
	}
	return 0, false
}

// ResetScores zeroes both teams' scores, e.g. at round reset.
func (s *Scoreboard) ResetScores() {
	s.Scores = [2]int{}
}
