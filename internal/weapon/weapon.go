package weapon

// Weapon is the runtime state for one equipped gun (§4.4): ammo
// counts, trigger state, and the reload state machine. The reload
// itself was an asyncio task in the source; here it is driven by
// Update(now) from the authoritative tick loop instead, so it needs no
// goroutine of its own.
type Weapon struct {
	Spec Spec

	PrimaryAmmo   int
	SecondaryAmmo int

	Primary   bool
	Secondary bool

	Reloading      bool
	reloadDeadline float64

	lastPrimary   float64
	lastSecondary float64
}

// NewWeapon returns a fully-stocked weapon of the given spec.
func NewWeapon(spec Spec) *Weapon {
	return &Weapon{
		Spec:          spec,
		PrimaryAmmo:   spec.MaxPrimary,
		SecondaryAmmo: spec.MaxSecondary,
	}
}

// CheckPrimaryRapid applies the rate-limit formula to the primary
// trigger.
func (w *Weapon) CheckPrimaryRapid(now float64, times int) bool {
	return CheckRapid(now, &w.lastPrimary, w.Spec.PrimaryRate, times)
}

// SetPrimary updates trigger state, refusing to hold the trigger down
// with no ammo and cancelling an in-progress one-by-one reload if the
// player fires again (§4.4 weapon model).
func (w *Weapon) SetPrimary(primary bool) bool {
	if w.PrimaryAmmo <= 0 {
		w.Primary = false
		return false
	}
	if primary && w.Spec.OneByOne && w.Reloading {
		w.Reloading = false
	}
	w.Primary = primary
	return primary
}

// SetSecondary updates the secondary (aim/zoom) trigger state.
func (w *Weapon) SetSecondary(secondary bool) bool {
	w.Secondary = secondary
	return secondary
}

// Reload starts a reload if one isn't already running and there is
// something to gain from it.
func (w *Weapon) Reload(now float64) bool {
	if w.Reloading {
		return false
	}
	if w.SecondaryAmmo == 0 || w.PrimaryAmmo >= w.Spec.MaxPrimary {
		w.Reloading = false
		return false
	}
	w.Reloading = true
	w.reloadDeadline = now + w.Spec.ReloadTime
	return true
}

// Update advances the reload state machine; it must be called every
// tick for every equipped weapon. It returns true when ammo counts
// changed and a WeaponReload packet should be broadcast.
func (w *Weapon) Update(now float64) bool {
	if !w.Reloading || now < w.reloadDeadline {
		return false
	}

	if w.Spec.OneByOne {
		w.PrimaryAmmo++
		w.SecondaryAmmo--
		w.Reloading = false
		if w.SecondaryAmmo > 0 && w.PrimaryAmmo < w.Spec.MaxPrimary {
			w.Reload(now)
		}
		return true
	}

	reserve := max(0, w.SecondaryAmmo-(w.Spec.MaxPrimary-w.PrimaryAmmo))
	w.PrimaryAmmo += w.SecondaryAmmo - reserve
	w.SecondaryAmmo = reserve
	w.Reloading = false
	return true
}

// OnPrimary fires one shot, consuming a round. Call only after
// CheckPrimaryRapid passes.
func (w *Weapon) OnPrimary() bool {
	if w.Reloading || w.PrimaryAmmo <= 0 {
		return false
	}
	w.PrimaryAmmo--
	return true
}

// Restock refills both ammo pools, e.g. from an ammo crate (§4.7).
func (w *Weapon) Restock() {
	w.PrimaryAmmo = w.Spec.MaxPrimary
	w.SecondaryAmmo = w.Spec.MaxSecondary
}

// GetDamage returns the damage for a hit in zone at distance, applying
// the linear falloff and the clip-tolerance rule that refuses damage
// once the clip is nearly spent while reloading out-of-sync (§4.4).
func (w *Weapon) GetDamage(zone HitZone, distance float64) (float64, bool) {
	if !w.Primary || w.Reloading {
		return 0, false
	}
	clipTolerance := int(float64(w.Spec.MaxPrimary) * 0.3)
	if w.PrimaryAmmo+clipTolerance <= 0 {
		return 0, false
	}
	dmg, ok := w.Spec.Damage[zone]
	if !ok {
		return 0, false
	}
	dmg *= 1 - min(w.Spec.Falloff*distance/30, 1)
	return dmg, true
}
