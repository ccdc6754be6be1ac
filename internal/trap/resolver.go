package trap

import (
	"fmt"
	"log/slog"
	"math"

	"grimdelve/internal/dice"
	"grimdelve/internal/narrate"
	"grimdelve/internal/party"
	"grimdelve/internal/rolls"
)

const (
	damagePerLevel = 0.10
	// Nimble targets (agility above dodgeAgility) sometimes halve damage.
	dodgeAgility = 15
	dodgeChance  = 0.30
)

// Outcome reports what one activation did. Traps keep no state, so the
// same trap can fire again on the next visit.
type Outcome struct {
	Triggered    bool
	Kind         Kind
	TrapName     string
	Message      string
	Effects      []string
	Teleport     bool
	Target       string
	RolledDamage int // before the dodge reduction
	DamageDealt  int
	GoldStolen   int
	ItemLost     string
}

// DisarmOutcome reports a disarm attempt. A failed attempt sets off the
// trap; Trap then carries that activation.
type DisarmOutcome struct {
	Disarmed bool
	Chance   float64
	Member   string
	Message  string
	Trap     *Outcome
}

// Resolver applies trap effects to a party.
type Resolver struct {
	catalog *Catalog
	src     dice.Source
	logger  *slog.Logger
}

// NewResolver creates a resolver. A nil logger uses slog.Default().
func NewResolver(catalog *Catalog, src dice.Source, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{catalog: catalog, src: src, logger: logger}
}

// Catalog returns the catalog the resolver draws from.
func (r *Resolver) Catalog() *Catalog { return r.catalog }

// Random picks a trap kind suited to level.
func (r *Resolver) Random(level int) (Kind, bool) {
	return r.catalog.Random(r.src, level)
}

// Activate sets off a trap of the given kind against the party.
// An unknown kind returns a zero Outcome and ErrUnknownTrapKind.
func (r *Resolver) Activate(kind Kind, p party.Party, level int) (Outcome, error) {
	def, ok := r.catalog.Get(kind)
	if !ok {
		r.logger.Warn("unknown trap kind", "trap", string(kind), "level", level)
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownTrapKind, kind)
	}
	if level < 1 {
		level = 1
	}

	out := Outcome{Kind: kind, TrapName: def.Name, Effects: []string{}}
	if !rolls.Success(r.src, def.BaseSuccessRate) {
		out.Message = fmt.Sprintf("The %s fails to trigger.", def.Name)
		r.logger.Debug("trap did not trigger", "trap", string(kind), "level", level)
		return out, nil
	}
	out.Triggered = true

	target, ok := dice.Choice(r.src, p.LivingMembers())
	if !ok {
		out.Message = fmt.Sprintf("The %s triggers, but nobody is left standing.", def.Name)
		return out, nil
	}
	out.Target = target.Name()

	switch eff := def.Effect.(type) {
	case DamageEffect:
		r.applyDamage(&out, def, target, level)
	case StatusEffect:
		r.applyStatus(&out, def, eff, target)
	case TeleportEffect:
		out.Teleport = true
		out.Message = fmt.Sprintf("The %s flares and the party is whisked away!", def.Name)
		out.Effects = append(out.Effects, "party teleported")
	case StatDrainEffect:
		stat, _ := dice.Choice(r.src, DrainableStats)
		target.AddStatusEffect("stat_drain_"+stat, eff.Duration)
		out.Message = fmt.Sprintf("The %s saps %s's %s.", def.Name, target.Name(), stat)
		out.Effects = append(out.Effects, fmt.Sprintf("%s drained of %s", target.Name(), stat))
	case GoldTheftEffect:
		r.applyGoldTheft(&out, def, eff, p)
	case ItemLossEffect:
		r.applyItemLoss(&out, def, p)
	default:
		panic(fmt.Sprintf("trap: unhandled effect %T", eff))
	}

	r.logger.Info("trap triggered",
		"trap", string(kind),
		"level", level,
		"target", out.Target,
		"damage", out.DamageDealt,
		"gold_stolen", out.GoldStolen,
		"teleport", out.Teleport,
	)
	return out, nil
}

func (r *Resolver) applyDamage(out *Outcome, def Definition, target party.Member, level int) {
	lo, hi := rolls.ScaleByLevel(def.DamageMin, def.DamageMax, level, damagePerLevel)
	rolled := r.src.IntRange(lo, hi)
	out.RolledDamage = rolled

	damage := rolled
	if target.Stats().Agility > dodgeAgility && rolls.Success(r.src, dodgeChance) {
		damage = rolled / 2
		out.Effects = append(out.Effects, fmt.Sprintf("%s twists aside", target.Name()))
	}
	out.DamageDealt = target.TakeDamage(damage)
	out.Message = fmt.Sprintf("The %s strikes %s!", def.Name, target.Name())
	out.Effects = append(out.Effects, narrate.Damage(target.Name(), out.DamageDealt))
}

func (r *Resolver) applyStatus(out *Outcome, def Definition, eff StatusEffect, target party.Member) {
	if rolls.Success(r.src, rolls.ResistChance(target, eff.Resist)) {
		out.Message = fmt.Sprintf("%s resists the %s.", target.Name(), def.Name)
		out.Effects = append(out.Effects, fmt.Sprintf("%s resisted %s", target.Name(), eff.Status))
		return
	}
	target.AddStatusEffect(eff.Status, eff.Duration)
	out.Message = fmt.Sprintf("The %s leaves %s %s.", def.Name, target.Name(), eff.Status)
	out.Effects = append(out.Effects, fmt.Sprintf("%s is %s", target.Name(), eff.Status))
}

func (r *Resolver) applyGoldTheft(out *Outcome, def Definition, eff GoldTheftEffect, p party.Party) {
	gold := p.Gold()
	if gold <= 0 {
		out.Message = fmt.Sprintf("The %s finds nothing to steal.", def.Name)
		return
	}
	frac := dice.Uniform(r.src, eff.MinFrac, eff.MaxFrac)
	stolen := int(math.Floor(frac * float64(gold)))
	if stolen > gold {
		stolen = gold
	}
	p.SetGold(gold - stolen)
	out.GoldStolen = stolen
	out.Message = fmt.Sprintf("The %s makes off with %s!", def.Name, narrate.Gold(stolen))
	out.Effects = append(out.Effects, "lost "+narrate.Gold(stolen))
}

func (r *Resolver) applyItemLoss(out *Outcome, def Definition, p party.Party) {
	stack, ok := dice.Choice(r.src, p.Items())
	if !ok {
		out.Message = fmt.Sprintf("The %s finds nothing to ruin.", def.Name)
		return
	}
	if p.RemoveItem(stack.ID, 1) {
		out.ItemLost = stack.Name
		out.Message = fmt.Sprintf("The %s destroys a %s!", def.Name, stack.Name)
		out.Effects = append(out.Effects, "lost "+stack.Name)
	}
}

// Detect rolls whether m spots a hidden trap.
func (r *Resolver) Detect(m party.Member) bool {
	return rolls.Success(r.src, rolls.DetectionChance(m, rolls.DefaultDetectionBase))
}

// Disarm has m try to disarm a trap of the given kind. Failure sets the
// trap off against the party through the normal activation path.
func (r *Resolver) Disarm(kind Kind, m party.Member, p party.Party, level int) (DisarmOutcome, error) {
	def, ok := r.catalog.Get(kind)
	if !ok {
		r.logger.Warn("unknown trap kind", "trap", string(kind), "level", level)
		return DisarmOutcome{}, fmt.Errorf("%w: %s", ErrUnknownTrapKind, kind)
	}

	chance := rolls.DisarmChance(m, rolls.DefaultDisarmBase)
	out := DisarmOutcome{Chance: chance, Member: m.Name()}
	if rolls.Success(r.src, chance) {
		out.Disarmed = true
		out.Message = fmt.Sprintf("%s disarms the %s.", m.Name(), def.Name)
		r.logger.Info("trap disarmed", "trap", string(kind), "member", m.Name())
		return out, nil
	}

	activation, err := r.Activate(kind, p, level)
	if err != nil {
		return out, err
	}
	out.Trap = &activation
	out.Message = fmt.Sprintf("%s fumbles the %s.", m.Name(), def.Name)
	return out, nil
}
