package entity

import "github.com/stormcoast/voxelwar/internal/mathutil"

// helicopterCruiseAltitude is how far above the terrain a helicopter
// holds while unmounted and idle, so it stays an airborne transport
// rather than a grounded object.
const helicopterCruiseAltitude = 12.0

// Helicopter is a mountable, slowly-moving transport entity. Unlike
// the ground entities, it does not gravity-settle to the terrain: it
// holds a fixed altitude above whatever ground is beneath it until a
// pilot commands otherwise.
type Helicopter struct {
	*Entity
	Velocity mathutil.Vec3
}

// NewHelicopter places an idle helicopter hovering above pos.
func NewHelicopter(id uint8, pos mathutil.Vec3) *Helicopter {
	e := New(id, KindHelicopter, mathutil.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z - helicopterCruiseAltitude})
	return &Helicopter{Entity: e}
}

// Update overrides the base gravity-settle behavior: the helicopter
// holds cruise altitude above the ground directly beneath it and
// integrates its horizontal velocity, instead of snapping to the
// terrain like a ground entity.
func (h *Helicopter) Update(ground VoxelGround, dt float64) {
	if h.Destroyed {
		return
	}
	h.Position = h.Position.Add(h.Velocity.Mul(dt))
	x, y := int32(h.Position.X), int32(h.Position.Y)
	groundZ := float64(ground.GetZ(x, y, 0))
	target := groundZ - helicopterCruiseAltitude
	if h.Position.Z != target {
		h.SetPosition(mathutil.Vec3{X: h.Position.X, Y: h.Position.Y, Z: target})
	}
}

// Pilot seats playerID at the controls.
func (h *Helicopter) Pilot(playerID uint8) bool {
	if h.CarrierID != -1 {
		return false
	}
	h.SetCarrier(int32(playerID))
	return true
}

// Eject removes the current pilot, leaving the helicopter to hover in
// place (Velocity is left unchanged; the caller typically zeroes it).
func (h *Helicopter) Eject() {
	h.SetCarrier(-1)
}
