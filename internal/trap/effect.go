package trap

import "grimdelve/internal/rolls"

// Effect is what a triggered trap does to its target. The set of variants
// is closed; the resolver switches over all of them.
type Effect interface {
	isEffect()
}

// DamageEffect deals the trap's scaled damage range.
type DamageEffect struct{}

// StatusEffect applies a named status unless the target resists.
type StatusEffect struct {
	Status   string
	Resist   rolls.ResistKind
	Duration int
}

// TeleportEffect moves the party; the dungeon layer performs the move.
type TeleportEffect struct{}

// StatDrainEffect applies a timed stat_drain_<stat> status.
type StatDrainEffect struct {
	Duration int
}

// GoldTheftEffect steals a uniform fraction of the party's gold.
type GoldTheftEffect struct {
	MinFrac float64
	MaxFrac float64
}

// ItemLossEffect destroys one unit of a random inventory stack.
type ItemLossEffect struct{}

func (DamageEffect) isEffect()    {}
func (StatusEffect) isEffect()    {}
func (TeleportEffect) isEffect()  {}
func (StatDrainEffect) isEffect() {}
func (GoldTheftEffect) isEffect() {}
func (ItemLossEffect) isEffect()  {}

// DrainableStats are the attributes a stat drain can hit.
var DrainableStats = []string{"strength", "agility", "intelligence"}
