package entity

import (
	"fmt"

	"github.com/stormcoast/voxelwar/internal/mathutil"
)

// idPool hands out entity ids in [0, capacity) and takes them back on
// Remove, mirroring internal/transport's player id pool (§5: "ID pools
// ... are single-producer/single-consumer, never concurrent").
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

func (p *idPool) acquire() (uint8, error) {
	if len(p.free) == 0 {
		return 0, fmt.Errorf("entity: id pool exhausted")
	}
	id := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	return id, nil
}

func (p *idPool) release(id uint8) {
	p.free = append(p.free, id)
}

// Table owns every server-side entity's id and lifetime. It is not
// safe for concurrent use, matching the tick loop's single-writer
// model (§5).
type Table struct {
	pool     *idPool
	entities map[uint8]*Entity
}

// NewTable returns an empty table able to hand out up to capacity
// simultaneous entity ids.
func NewTable(capacity int) *Table {
	return &Table{pool: newIDPool(capacity), entities: make(map[uint8]*Entity)}
}

// Spawn allocates a fresh id and registers a new entity at pos. It
// returns an error if the table is at capacity.
func (t *Table) Spawn(kind Kind, pos mathutil.Vec3) (*Entity, error) {
	id, err := t.pool.acquire()
	if err != nil {
		return nil, err
	}
	e := New(id, kind, pos)
	t.entities[id] = e
	return e, nil
}

// Get returns the entity with id, or nil if none is registered.
func (t *Table) Get(id uint8) *Entity {
	return t.entities[id]
}

// All returns every live entity in unspecified order.
func (t *Table) All() []*Entity {
	out := make([]*Entity, 0, len(t.entities))
	for _, e := range t.entities {
		out = append(out, e)
	}
	return out
}

// Remove destroys and unregisters id, returning its slot to the pool.
// A no-op if id is not registered (§8: "destroy_entity on an
// already-destroyed entity is a no-op").
func (t *Table) Remove(id uint8) {
	e, ok := t.entities[id]
	if !ok {
		return
	}
	e.Destroy()
	delete(t.entities, id)
	t.pool.release(id)
}

// ClearCarrier releases any entity carried by playerID, e.g. when that
// player disconnects (§4.7: "server MUST clear any entity carrier
// pointing at them before returning the id to the pool").
func (t *Table) ClearCarrier(playerID uint8) {
	for _, e := range t.entities {
		if e.CarrierID == int32(playerID) {
			e.SetCarrier(-1)
		}
	}
}
