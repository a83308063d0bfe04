// Package weapon implements the tool/weapon model: rate limiting,
// reload state machines, and damage falloff (§4.4), grounded on the
// Tool/Weapon class hierarchy's check_rapid and get_damage formulas.
package weapon

// Kind identifies which tool/weapon slot a Spec describes.
type Kind uint8

const (
	KindSpade Kind = iota
	KindBlock
	KindSemi
	KindSMG
	KindShotgun
	KindRPG
	KindMG
	KindSniper
	KindGrenade
)

// rapidTolerance is subtracted from the nominal rate window so a
// client firing exactly on the tick boundary isn't punished for float
// jitter — the "TODO random constants" fudge factor from the source
// weapon timing, kept verbatim since §8 pins the rate-limit property
// to it.
const rapidTolerance = 0.025

// Damage gives the base damage for each hit zone; a nil entry means
// that zone cannot be the primary damage source for this tool (melee
// and explosive damage are computed separately).
type Damage map[HitZone]float64

// HitZone mirrors protocol.HitZone to keep this package decodable
// without importing the wire layer.
type HitZone uint8

const (
	ZoneTorso HitZone = 0
	ZoneHead  HitZone = 1
	ZoneArms  HitZone = 2
	ZoneLegs  HitZone = 3
)

// Spec is the immutable per-weapon-type configuration table (§4.4).
type Spec struct {
	Kind          Kind
	Name          string
	MaxPrimary    int
	MaxSecondary  int
	PrimaryRate   float64
	SecondaryRate float64
	ReloadTime    float64
	OneByOne      bool
	Damage        Damage
	Falloff       float64
}

// Specs is the canonical weapon catalog, transcribed from the
// original constants (§4.4, "damage tables with hit-zone + distance
// falloff").
var Specs = map[Kind]Spec{
	KindSemi: {
		Kind: KindSemi, Name: "Rifle",
		MaxPrimary: 10, MaxSecondary: 50,
		PrimaryRate: 0.5, ReloadTime: 2.5, OneByOne: false,
		Damage:  Damage{ZoneTorso: 50, ZoneHead: 150, ZoneArms: 35, ZoneLegs: 35},
		Falloff: 0.03,
	},
	KindSMG: {
		Kind: KindSMG, Name: "SMG",
		MaxPrimary: 30, MaxSecondary: 120,
		PrimaryRate: 0.11, ReloadTime: 2.5, OneByOne: false,
		Damage:  Damage{ZoneTorso: 30, ZoneHead: 80, ZoneArms: 20, ZoneLegs: 20},
		Falloff: 0.20,
	},
	KindShotgun: {
		Kind: KindShotgun, Name: "Shotgun",
		MaxPrimary: 6, MaxSecondary: 48,
		PrimaryRate: 1.0, ReloadTime: 0.5, OneByOne: true,
		Damage:  Damage{ZoneTorso: 25, ZoneHead: 30, ZoneArms: 20, ZoneLegs: 20},
		Falloff: 0.40,
	},
	KindRPG: {
		Kind: KindRPG, Name: "RPG",
		MaxPrimary: 1, MaxSecondary: 5,
		PrimaryRate: 1.0, ReloadTime: 4.0, OneByOne: false,
		Damage: Damage{}, Falloff: 0,
	},
	KindMG: {
		Kind: KindMG, Name: "MG",
		MaxPrimary: 1, MaxSecondary: 0,
		PrimaryRate: 1.0, ReloadTime: 0.0, OneByOne: false,
		Damage: Damage{}, Falloff: 0,
	},
	KindSniper: {
		Kind: KindSniper, Name: "Sniper",
		MaxPrimary: 5, MaxSecondary: 25,
		PrimaryRate: 1.0, ReloadTime: 2.5, OneByOne: false,
		Damage:  Damage{ZoneTorso: 50, ZoneHead: 150, ZoneArms: 35, ZoneLegs: 35},
		Falloff: 0.03,
	},
}

// MeleeDamage and MeleeDistance back the spade/melee hit path (§4.4).
const (
	MeleeDamage   = 50
	MeleeDistance = 3.0
)
