package weapon

// CheckRapid implements the exact rate-limit formula from the source
// tool timing: rate = (fireRate * times) - rapidTolerance; accept iff
// now - lastUse >= rate. A zero lastUse counts as never used, so a
// tool's first call always passes. lastUse is stamped with now only
// when the check passes; a rejected call leaves it unchanged.
func CheckRapid(now float64, lastUse *float64, fireRate float64, times int) bool {
	rate := fireRate*float64(times) - rapidTolerance
	if *lastUse != 0 && now-*lastUse < rate {
		return false
	}
	*lastUse = now
	return true
}
