package conn

import "strings"

// Table is the set of currently-connected players, keyed by the
// transport-assigned id. It is owned by the core tick loop and is not
// safe for concurrent use, matching the single-writer model in §5.
type Table struct {
	players map[uint8]*Player
}

// NewTable returns an empty player table.
func NewTable() *Table {
	return &Table{players: make(map[uint8]*Player)}
}

// Add registers p, replacing any previous entry with the same id.
func (t *Table) Add(p *Player) {
	t.players[p.ID] = p
}

// Get returns the player with id, or nil if not connected.
func (t *Table) Get(id uint8) *Player {
	return t.players[id]
}

// Remove drops id from the table.
func (t *Table) Remove(id uint8) {
	delete(t.players, id)
}

// All returns every connected player in unspecified order.
func (t *Table) All() []*Player {
	out := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		out = append(out, p)
	}
	return out
}

// TakenNames returns the lowercased names of every joined player,
// except excludeID, for NormalizeName's dedupe check.
func (t *Table) TakenNames(excludeID uint8) map[string]bool {
	out := make(map[string]bool, len(t.players))
	for _, p := range t.players {
		if p.ID == excludeID || p.Name == "" {
			continue
		}
		out[strings.ToLower(p.Name)] = true
	}
	return out
}
