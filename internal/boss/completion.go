package boss

import (
	"fmt"
	"math"

	"grimdelve/internal/items"
	"grimdelve/internal/narrate"
	"grimdelve/internal/party"
	"grimdelve/internal/rolls"
)

const rewardPerLevel = 0.10

// CompletionOutcome is the result of an ended fight. Rewards and
// consequences are computed here; Apply hands them to the party.
type CompletionOutcome struct {
	BossID     string
	BossName   string
	InstanceID string
	Victory    bool
	Fled       bool
	TurnCount  int
	Message    string

	// Victory
	Gold       int
	Experience int
	Items      []items.Item

	// Defeat
	GoldLossFraction float64
	Statuses         []StatusPenalty
}

// Complete ends the fight. Victory rolls the boss's rewards; defeat
// returns its consequences.
func (e *Encounter) Complete(victory bool) (CompletionOutcome, error) {
	if err := e.guard("complete"); err != nil {
		return CompletionOutcome{}, err
	}
	out := e.baseOutcome()
	out.Victory = victory
	if victory {
		r := e.def.Rewards
		lo, hi := rolls.ScaleByLevel(r.GoldMin, r.GoldMax, e.level, rewardPerLevel)
		out.Gold = e.src.IntRange(lo, hi)
		out.Experience = rolls.ScaleValue(r.Experience, e.level, rewardPerLevel)
		for _, it := range r.Items {
			out.Items = append(out.Items, items.NewItem(it.Name, it.Type, it.Rarity, e.level))
		}
		out.Message = fmt.Sprintf("%s is defeated! The party claims %s and %d experience.",
			e.def.Name, narrate.Gold(out.Gold), out.Experience)
	} else {
		c := e.def.Consequences
		out.GoldLossFraction = c.GoldLossFraction
		out.Statuses = append(out.Statuses, c.Statuses...)
		out.Message = fmt.Sprintf("The party falls before %s.", e.def.Name)
	}
	e.finish(out)
	return out, nil
}

// Flee ends the fight with no rewards and no consequences.
func (e *Encounter) Flee() (CompletionOutcome, error) {
	if err := e.guard("flee"); err != nil {
		return CompletionOutcome{}, err
	}
	out := e.baseOutcome()
	out.Fled = true
	out.Message = fmt.Sprintf("The party escapes from %s.", e.def.Name)
	e.finish(out)
	return out, nil
}

func (e *Encounter) baseOutcome() CompletionOutcome {
	return CompletionOutcome{
		BossID:     e.def.ID,
		BossName:   e.def.Name,
		InstanceID: e.instanceID,
		TurnCount:  e.turns,
	}
}

func (e *Encounter) finish(out CompletionOutcome) {
	e.completed = true
	e.logger.Info("boss encounter completed",
		"victory", out.Victory,
		"fled", out.Fled,
		"turns", out.TurnCount,
		"gold", out.Gold,
	)
	if e.onComplete != nil {
		e.onComplete(e)
	}
}

// Apply pays rewards into, or takes consequences out of, the party.
// Experience is not applied: members level up outside the engine. Defeat
// statuses land on every member, downed ones included, since a defeat
// usually means nobody is left standing. It returns the change in party
// gold.
func (o CompletionOutcome) Apply(p party.Party) int {
	before := p.Gold()
	switch {
	case o.Fled:
		return 0
	case o.Victory:
		p.SetGold(before + o.Gold)
		for _, it := range o.Items {
			p.AddItem(it)
		}
	default:
		lost := int(math.Floor(float64(before) * o.GoldLossFraction))
		p.SetGold(before - lost)
		for _, m := range p.Members() {
			for _, s := range o.Statuses {
				m.AddStatusEffect(s.Status, s.Turns)
			}
		}
	}
	return p.Gold() - before
}
