package transport

import "fmt"

// idPool hands out player ids in the range [0, capacity) and takes
// them back on disconnect, so a later peer can reuse a slot freed by
// an earlier one (§3: "assigned player id (0..max_players-1, from a
// pool)").
type idPool struct {
	free []uint8
}

func newIDPool(capacity int) *idPool {
	p := &idPool{free: make([]uint8, capacity)}
	for i := range p.free {
		p.free[i] = uint8(capacity - 1 - i)
	}
	return p
}

// Acquire returns the next free id, or an error if the pool is
// exhausted (caller should disconnect with DisconnectServerFull).
func (p *idPool) Acquire() (uint8, error) {
	if len(p.free) == 0 {
		return 0, fmt.Errorf("transport: id pool exhausted")
	}
	id := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	return id, nil
}

// Release returns id to the pool for reuse.
func (p *idPool) Release(id uint8) {
	p.free = append(p.free, id)
}
