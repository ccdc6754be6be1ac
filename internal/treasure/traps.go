package treasure

import (
	"fmt"

	"grimdelve/internal/dice"
	"grimdelve/internal/narrate"
	"grimdelve/internal/party"
	"grimdelve/internal/rolls"
)

// TrapFlavor is one of the built-in container traps. These are separate
// from the dungeon trap catalog.
type TrapFlavor string

const (
	TrapNeedle    TrapFlavor = "needle"
	TrapGas       TrapFlavor = "gas"
	TrapExplosion TrapFlavor = "explosion"
	TrapCurse     TrapFlavor = "curse"
)

// TrapFlavors lists every container trap.
var TrapFlavors = []TrapFlavor{TrapNeedle, TrapGas, TrapExplosion, TrapCurse}

const (
	needleMin, needleMax       = 2, 8
	explosionMin, explosionMax = 10, 30
	poisonTurns                = 5
	sleepTurns                 = 3
)

// TrapOutcome reports a container trap.
type TrapOutcome struct {
	Flavor  TrapFlavor
	Message string
	Effects []string
	Damage  int // total dealt across the party
}

func (r *Resolver) springTrap(p party.Party, level int) *TrapOutcome {
	flavor, _ := dice.Choice(r.src, TrapFlavors)
	out := &TrapOutcome{Flavor: flavor, Effects: []string{}}

	living := p.LivingMembers()
	if len(living) == 0 {
		out.Message = fmt.Sprintf("A %s trap goes off in an empty room.", flavor)
		return out
	}

	if flavor == TrapExplosion {
		lo, hi := rolls.ScaleByLevel(explosionMin, explosionMax, level, damagePerLevel)
		each := r.src.IntRange(lo, hi) / 2
		for _, m := range living {
			dealt := m.TakeDamage(each)
			out.Damage += dealt
			out.Effects = append(out.Effects, narrate.Damage(m.Name(), dealt))
		}
		out.Message = "The chest explodes!"
		return out
	}

	target, _ := dice.Choice(r.src, living)
	switch flavor {
	case TrapNeedle:
		lo, hi := rolls.ScaleByLevel(needleMin, needleMax, level, damagePerLevel)
		out.Damage = target.TakeDamage(r.src.IntRange(lo, hi))
		target.AddStatusEffect("poisoned", poisonTurns)
		out.Message = fmt.Sprintf("A poisoned needle pricks %s.", target.Name())
		out.Effects = append(out.Effects, narrate.Damage(target.Name(), out.Damage), target.Name()+" is poisoned")
	case TrapGas:
		target.AddStatusEffect("asleep", sleepTurns)
		out.Message = fmt.Sprintf("Sleeping gas billows over %s.", target.Name())
		out.Effects = append(out.Effects, target.Name()+" is asleep")
	case TrapCurse:
		target.AddStatusEffect("cursed", 0)
		out.Message = fmt.Sprintf("A dark curse settles on %s.", target.Name())
		out.Effects = append(out.Effects, target.Name()+" is cursed")
	}
	return out
}
