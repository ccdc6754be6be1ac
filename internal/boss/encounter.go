package boss

import (
	"fmt"
	"log/slog"
	"math"

	"grimdelve/internal/dice"
	"grimdelve/internal/mathutil"
	"grimdelve/internal/monster"
	"grimdelve/internal/narrate"
	"grimdelve/internal/party"
	"grimdelve/internal/rolls"
)

// Encounter is one live boss fight. Phases only move forward: healing
// never returns the boss to an earlier phase. Once completed, every
// mutating call fails with ErrEncounterAlreadyCompleted.
type Encounter struct {
	def        *Definition
	level      int
	instanceID string

	phase     int
	currentHP int
	maxHP     int
	attack    int
	armor     int
	turns     int

	monster    *monster.Monster
	completed  bool
	onComplete func(*Encounter)

	src    dice.Source
	logger *slog.Logger
}

// Option configures an encounter.
type Option func(*Encounter)

// WithSource sets the dice the encounter rolls. Defaults to dice.New().
func WithSource(src dice.Source) Option {
	return func(e *Encounter) { e.src = src }
}

// WithLogger sets the encounter logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Encounter) { e.logger = logger }
}

// OnComplete registers fn to run once when the encounter ends. fn gets
// the finished encounter so holders can tell it apart from a newer fight
// on the same instance id.
func OnComplete(fn func(*Encounter)) Option {
	return func(e *Encounter) { e.onComplete = fn }
}

// NewEncounter creates an encounter with the boss id scaled to level.
func (c *Catalog) NewEncounter(id string, level int, instanceID string, opts ...Option) (*Encounter, error) {
	def, ok := c.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBossID, id)
	}
	if level < 1 {
		level = 1
	}
	e := &Encounter{
		def:        def,
		level:      level,
		instanceID: instanceID,
		maxHP:      def.MaxHP(level),
		attack:     def.Attack(level),
		armor:      def.ArmorClass(level),
	}
	e.currentHP = e.maxHP
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src = dice.New()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.logger = e.logger.With("boss", def.ID, "instance", instanceID)
	return e, nil
}

func (e *Encounter) BossID() string          { return e.def.ID }
func (e *Encounter) Name() string            { return e.def.Name }
func (e *Encounter) InstanceID() string      { return e.instanceID }
func (e *Encounter) Level() int              { return e.level }
func (e *Encounter) Definition() *Definition { return e.def }
func (e *Encounter) CurrentHP() int          { return e.currentHP }
func (e *Encounter) MaxHP() int              { return e.maxHP }
func (e *Encounter) Attack() int             { return e.attack }
func (e *Encounter) ArmorClass() int         { return e.armor }
func (e *Encounter) TurnCount() int          { return e.turns }
func (e *Encounter) PhaseIndex() int         { return e.phase }
func (e *Encounter) Phase() Phase            { return e.def.Phases[e.phase] }
func (e *Encounter) Completed() bool         { return e.completed }

// IsDefeated reports whether the boss is out of hit points.
func (e *Encounter) IsDefeated() bool { return e.currentHP <= 0 }

// HPFraction is current over max HP.
func (e *Encounter) HPFraction() float64 {
	return float64(e.currentHP) / float64(e.maxHP)
}

func (e *Encounter) guard(op string) error {
	if !e.completed {
		return nil
	}
	e.logger.Error("call on completed boss encounter", "op", op)
	return fmt.Errorf("%s %s: %w", op, e.instanceID, ErrEncounterAlreadyCompleted)
}

// InitializeMonster materializes the boss's stat block. Later calls return
// the same monster.
func (e *Encounter) InitializeMonster() (*monster.Monster, error) {
	if err := e.guard("initialize monster"); err != nil {
		return nil, err
	}
	if e.monster == nil {
		e.monster = monster.New(e.instanceID, e.def.Name, e.level, e.maxHP, e.armor, e.attack, e.def.Experience)
		for dt, pct := range e.def.Resistances {
			e.monster.Resistances[dt] = pct
		}
		e.monster.HitPoints = e.currentHP
	}
	return e.monster, nil
}

// Monster returns the materialized monster, or nil before InitializeMonster.
func (e *Encounter) Monster() *monster.Monster { return e.monster }

// CheckPhaseTransition moves to the deepest phase whose threshold the HP
// fraction has reached. It reports a phase only on the call that crosses.
func (e *Encounter) CheckPhaseTransition() (Phase, bool, error) {
	if err := e.guard("check phase transition"); err != nil {
		return Phase{}, false, err
	}
	frac := e.HPFraction()
	for i := len(e.def.Phases) - 1; i > e.phase; i-- {
		if frac <= e.def.Phases[i].Threshold {
			from := e.def.Phases[e.phase].Tag
			e.phase = i
			next := e.def.Phases[i]
			e.logger.Info("boss phase transition", "from", from, "to", next.Tag, "hp", e.currentHP, "max_hp", e.maxHP)
			return next, true, nil
		}
	}
	return Phase{}, false, nil
}

// ApplyDamage lowers HP (never below zero) and checks for a transition.
func (e *Encounter) ApplyDamage(amount int) (Phase, bool, error) {
	if err := e.guard("apply damage"); err != nil {
		return Phase{}, false, err
	}
	if amount < 0 {
		amount = 0
	}
	return e.setHP(e.currentHP - amount)
}

// Heal raises HP up to the maximum. The phase never regresses.
func (e *Encounter) Heal(amount int) (Phase, bool, error) {
	if err := e.guard("heal"); err != nil {
		return Phase{}, false, err
	}
	if amount < 0 {
		amount = 0
	}
	return e.setHP(e.currentHP + amount)
}

// SetHP sets HP directly, clamped to [0, max].
func (e *Encounter) SetHP(hp int) (Phase, bool, error) {
	if err := e.guard("set hp"); err != nil {
		return Phase{}, false, err
	}
	return e.setHP(hp)
}

func (e *Encounter) setHP(hp int) (Phase, bool, error) {
	e.currentHP = mathutil.IntClamp(hp, 0, e.maxHP)
	if e.monster != nil {
		e.monster.HitPoints = e.currentHP
	}
	return e.CheckPhaseTransition()
}

// TakeTurn advances the turn counter and uses an ability drawn from the
// current phase's weighted list.
func (e *Encounter) TakeTurn(p party.Party) (AbilityOutcome, error) {
	if err := e.guard("take turn"); err != nil {
		return AbilityOutcome{}, err
	}
	e.turns++
	phase := e.def.Phases[e.phase]
	ids := make([]string, len(phase.Abilities))
	weights := make([]float64, len(phase.Abilities))
	for i, a := range phase.Abilities {
		ids[i] = a.ID
		weights[i] = a.Weight
	}
	id, ok := dice.WeightedChoice(e.src, ids, weights)
	if !ok {
		return AbilityOutcome{Message: fmt.Sprintf("%s hesitates.", e.def.Name)}, nil
	}
	return e.ExecuteSpecialAbility(id, p)
}

// ExecuteSpecialAbility uses the ability id from the boss's table. An id
// the boss does not know returns a failed outcome and ErrUnknownAbility.
func (e *Encounter) ExecuteSpecialAbility(id string, p party.Party) (AbilityOutcome, error) {
	if err := e.guard("execute ability"); err != nil {
		return AbilityOutcome{}, err
	}
	def, ok := e.def.Abilities[id]
	if !ok {
		e.logger.Warn("unknown boss ability", "ability", id)
		return AbilityOutcome{
			AbilityID: id,
			Message:   fmt.Sprintf("%s falters.", e.def.Name),
		}, fmt.Errorf("%s: %w: %s", e.def.ID, ErrUnknownAbility, id)
	}

	out := AbilityOutcome{AbilityID: id, AbilityName: def.Name, Effects: []string{}}
	switch ab := def.Effect.(type) {
	case AreaDamage:
		e.areaDamage(&out, ab, p)
	case SingleDamage:
		e.singleDamage(&out, ab, p)
	case StatusAbility:
		e.status(&out, ab, p)
	case HealSelf:
		amount := int(math.Floor(float64(e.maxHP) * ab.Fraction))
		before := e.currentHP
		if phase, changed, _ := e.setHP(e.currentHP + amount); changed {
			out.NewPhase = phase.Tag
		}
		out.Healed = e.currentHP - before
		out.Success = true
		out.Message = fmt.Sprintf("%s uses %s and recovers %d HP.", e.def.Name, def.Name, out.Healed)
	case Summon:
		for i := 0; i < ab.Count; i++ {
			out.Summoned = append(out.Summoned, ab.Minion)
		}
		out.Success = true
		out.Message = fmt.Sprintf("%s uses %s: %d %s answer the call!", e.def.Name, def.Name, ab.Count, ab.Minion)
	default:
		panic(fmt.Sprintf("boss: unhandled ability %T", ab))
	}

	e.logger.Info("boss ability",
		"ability", id,
		"turn", e.turns,
		"phase", e.def.Phases[e.phase].Tag,
		"damage", out.DamageDealt,
		"healed", out.Healed,
	)
	return out, nil
}

func (e *Encounter) damageRange(lo, hi int) (int, int) {
	return rolls.ScaleByLevel(lo, hi, e.level, e.def.AttackPerLevel)
}

func (e *Encounter) areaDamage(out *AbilityOutcome, ab AreaDamage, p party.Party) {
	living := p.LivingMembers()
	if len(living) == 0 {
		out.Message = fmt.Sprintf("%s uses %s, but nobody is left standing.", e.def.Name, out.AbilityName)
		return
	}
	lo, hi := e.damageRange(ab.DamageMin, ab.DamageMax)
	for _, m := range living {
		dealt := m.TakeDamage(e.src.IntRange(lo, hi))
		out.DamageDealt += dealt
		out.Targets = append(out.Targets, m.Name())
		out.Effects = append(out.Effects, narrate.Damage(m.Name(), dealt))
	}
	out.Success = true
	out.Message = fmt.Sprintf("%s unleashes %s on the whole party!", e.def.Name, out.AbilityName)
}

func (e *Encounter) singleDamage(out *AbilityOutcome, ab SingleDamage, p party.Party) {
	target, ok := dice.Choice(e.src, p.LivingMembers())
	if !ok {
		out.Message = fmt.Sprintf("%s uses %s, but nobody is left standing.", e.def.Name, out.AbilityName)
		return
	}
	lo, hi := e.damageRange(ab.DamageMin, ab.DamageMax)
	out.DamageDealt = target.TakeDamage(e.src.IntRange(lo, hi))
	out.Targets = []string{target.Name()}
	out.Effects = append(out.Effects, narrate.Damage(target.Name(), out.DamageDealt))
	out.Success = true
	out.Message = fmt.Sprintf("%s hits %s with %s!", e.def.Name, target.Name(), out.AbilityName)
}

func (e *Encounter) status(out *AbilityOutcome, ab StatusAbility, p party.Party) {
	targets := p.LivingMembers()
	if !ab.Area {
		target, ok := dice.Choice(e.src, targets)
		if !ok {
			targets = nil
		} else {
			targets = []party.Member{target}
		}
	}
	if len(targets) == 0 {
		out.Message = fmt.Sprintf("%s uses %s, but nobody is left standing.", e.def.Name, out.AbilityName)
		return
	}
	for _, m := range targets {
		out.Targets = append(out.Targets, m.Name())
		if rolls.Success(e.src, rolls.ResistChance(m, ab.Resist)) {
			out.Effects = append(out.Effects, fmt.Sprintf("%s resisted %s", m.Name(), ab.Status))
			continue
		}
		m.AddStatusEffect(ab.Status, ab.Duration)
		out.Effects = append(out.Effects, fmt.Sprintf("%s is %s", m.Name(), ab.Status))
	}
	out.Success = true
	out.Message = fmt.Sprintf("%s uses %s!", e.def.Name, out.AbilityName)
}
