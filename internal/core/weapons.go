package core

import (
	"github.com/stormcoast/voxelwar/internal/conn"
	"github.com/stormcoast/voxelwar/internal/weapon"
)

// joinableWeapons are the guns a client may pick at join time; RPG and
// MG are tool/entity weapons, never a primary join selection (§4.3).
var joinableWeapons = map[uint8]weapon.Kind{
	uint8(weapon.KindSemi):    weapon.KindSemi,
	uint8(weapon.KindSMG):     weapon.KindSMG,
	uint8(weapon.KindShotgun): weapon.KindShotgun,
	uint8(weapon.KindSniper):  weapon.KindSniper,
}

// weaponSpecFromWire validates a client's chosen weapon byte against
// the joinable set.
func weaponSpecFromWire(wire uint8) (weapon.Spec, bool) {
	kind, ok := joinableWeapons[wire]
	if !ok {
		return weapon.Spec{}, false
	}
	return weapon.Specs[kind], true
}

// weaponWireKind reports a spawned player's currently equipped gun as
// the wire-protocol byte (§4.3 CreatePlayer/ExistingPlayer.Weapon).
func weaponWireKind(p *conn.Player) uint8 {
	if p.Weapon == nil {
		return uint8(weapon.KindSemi)
	}
	return uint8(p.Weapon.Spec.Kind)
}
