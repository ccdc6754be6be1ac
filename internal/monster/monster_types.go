package monster

import "strings"

type DamageType int

const (
	DamagePhysical DamageType = iota
	DamageFire
	DamageWater
	DamageAir
	DamageEarth
	DamageSpirit
	DamageMind
	DamageBody
	DamageLight
	DamageDark
)

var damageTypeNames = map[DamageType]string{
	DamagePhysical: "physical",
	DamageFire:     "fire",
	DamageWater:    "water",
	DamageAir:      "air",
	DamageEarth:    "earth",
	DamageSpirit:   "spirit",
	DamageMind:     "mind",
	DamageBody:     "body",
	DamageLight:    "light",
	DamageDark:     "dark",
}

func (d DamageType) String() string {
	if name, ok := damageTypeNames[d]; ok {
		return name
	}
	return "unknown"
}

// ParseDamageType converts a content-file damage type name.
func ParseDamageType(s string) (DamageType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range damageTypeNames {
		if name == s {
			return t, true
		}
	}
	return DamagePhysical, false
}
