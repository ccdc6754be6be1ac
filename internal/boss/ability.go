package boss

import "grimdelve/internal/rolls"

// Ability is a boss special move. The set of variants is closed; the
// encounter switches over all of them.
type Ability interface {
	isAbility()
}

// AreaDamage rolls damage separately against every living member.
type AreaDamage struct {
	DamageMin int
	DamageMax int
}

// SingleDamage hits one random living member.
type SingleDamage struct {
	DamageMin int
	DamageMax int
}

// StatusAbility applies a status to one member, or to all with Area.
// Each target gets a resistance roll.
type StatusAbility struct {
	Status   string
	Duration int
	Resist   rolls.ResistKind
	Area     bool
}

// HealSelf restores a fraction of the boss's max HP.
type HealSelf struct {
	Fraction float64
}

// Summon calls minions. Fighting them is the combat layer's business.
type Summon struct {
	Minion string
	Count  int
}

func (AreaDamage) isAbility()    {}
func (SingleDamage) isAbility()  {}
func (StatusAbility) isAbility() {}
func (HealSelf) isAbility()      {}
func (Summon) isAbility()        {}

// AbilityDef is an ability as listed in a boss's table.
type AbilityDef struct {
	ID     string
	Name   string
	Effect Ability
}

// AbilityOutcome reports one ability use.
type AbilityOutcome struct {
	Success     bool
	AbilityID   string
	AbilityName string
	Message     string
	Effects     []string
	Targets     []string
	DamageDealt int
	Healed      int
	Summoned    []string
	// NewPhase is set when the ability moved the fight into a new phase.
	NewPhase string
}
