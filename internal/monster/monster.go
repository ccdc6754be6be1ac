// Package monster holds the runtime stat block of a boss once its encounter
// has been materialized.
package monster

// Monster is a boss's materialized stats. HitPoints mirror the owning
// encounter; the encounter is the authority on HP changes.
type Monster struct {
	ID           string
	Name         string
	Level        int
	HitPoints    int
	MaxHitPoints int
	ArmorClass   int
	AttackBonus  int
	Experience   int

	// Percent reduction per damage type, 0-100
	Resistances map[DamageType]int
}

// New creates a monster at full health.
func New(id, name string, level, maxHP, armorClass, attack, experience int) *Monster {
	return &Monster{
		ID:           id,
		Name:         name,
		Level:        level,
		HitPoints:    maxHP,
		MaxHitPoints: maxHP,
		ArmorClass:   armorClass,
		AttackBonus:  attack,
		Experience:   experience,
		Resistances:  make(map[DamageType]int),
	}
}

// Resist returns the damage left after the monster's resistance to
// damageType. Immune monsters (100) take nothing.
func (m *Monster) Resist(damage int, damageType DamageType) int {
	if damage <= 0 {
		return 0
	}
	if resistance, exists := m.Resistances[damageType]; exists {
		damage = damage * (100 - resistance) / 100
		if damage < 0 {
			damage = 0
		}
	}
	return damage
}

func (m *Monster) IsAlive() bool {
	return m.HitPoints > 0
}

// HPFraction is current over max hit points.
func (m *Monster) HPFraction() float64 {
	if m.MaxHitPoints <= 0 {
		return 0
	}
	return float64(m.HitPoints) / float64(m.MaxHitPoints)
}
