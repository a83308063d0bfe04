package entity

import "github.com/stormcoast/voxelwar/internal/mathutil"

// machineGunRate is the fixed fire rate of a mounted machine gun,
// matching the MG tool's own primary_rate so a gunner and a mounted
// gun behave identically (§4.4 RPG/MG expansion).
const machineGunRate = 1.0

// MountedGun tracks the occupant and aim of a KindMachineGun entity.
// It is a thin wrapper around Entity rather than a new struct, since
// the mountable behavior is just "who's riding it and which way is it
// pointed" layered on the base entity fields.
type MountedGun struct {
	*Entity
	lastFire float64
}

// NewMachineGun places an unmanned machine gun at pos facing yaw.
func NewMachineGun(id uint8, pos mathutil.Vec3, yaw float64) *MountedGun {
	e := New(id, KindMachineGun, pos)
	e.Yaw = yaw
	return &MountedGun{Entity: e}
}

// Mount seats playerID at the gun. Carrier semantics reuse
// SetCarrier/CarrierID — a mounted gunner is modeled the same as a
// flag carrier.
func (m *MountedGun) Mount(playerID uint8) bool {
	if m.CarrierID != -1 {
		return false
	}
	m.SetCarrier(int32(playerID))
	return true
}

// Dismount frees the gun for another player.
func (m *MountedGun) Dismount() {
	m.SetCarrier(-1)
}

// Aim returns the unit fire direction for the gun's current yaw.
func (m *MountedGun) Aim() mathutil.Vec3 {
	return mathutil.Forward(m.Yaw)
}

// CheckRapid rate-limits the gun's own trigger, independent of any
// per-player weapon state, since the gun itself is the rate-limited
// resource while mounted.
func (m *MountedGun) CheckRapid(now float64) bool {
	prev := m.lastFire
	m.lastFire = now
	return now-prev >= machineGunRate-0.025
}
