package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"grimdelve/internal/boss"
	"grimdelve/internal/bridge"
	"grimdelve/internal/character"
	"grimdelve/internal/config"
	"grimdelve/internal/dice"
	"grimdelve/internal/encounter"
	"grimdelve/internal/monster"
	"grimdelve/internal/party"
	"grimdelve/internal/rolls"
	"grimdelve/internal/storage"
)

const (
	lockAttempts      = 3
	partyDamagePerLvl = 0.10
	restFraction      = 10 // members recover MaxHP/restFraction between floors
)

// Result is the tally of one run.
type Result struct {
	RunID          string
	Seed           int64
	FloorsCleared  int
	PartySize      int
	Survivors      int
	Wiped          bool
	Gold           int
	Food           int
	HungryRests    int
	Items          int
	Experience     int
	AverageLevel   int
	TrapsSprung    int
	TrapsDisarmed  int
	ChestsOpened   int
	Mimics         int
	BossesDefeated int
	BossesFled     int
}

// Simulator runs dungeon crawls against shared content.
type Simulator struct {
	cfg     *config.Config
	content Content
	logger  *slog.Logger
	store   *storage.SnapshotStore
}

// New builds a simulator. store may be nil to skip persistence.
func New(cfg *config.Config, content Content, logger *slog.Logger, store *storage.SnapshotStore) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{cfg: cfg, content: content, logger: logger, store: store}
}

// Run walks one fresh party through the configured floors.
func (s *Simulator) Run(ctx context.Context, seed int64) (Result, error) {
	cp, err := character.NewParty(s.cfg)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build party: %w", err)
	}
	eng, err := encounter.NewEngine(
		encounter.WithTrapCatalog(s.content.Traps),
		encounter.WithTreasureCatalog(s.content.Treasures),
		encounter.WithBossCatalog(s.content.Bosses),
		encounter.WithSource(dice.NewSeeded(seed)),
		encounter.WithLogger(s.logger.With("seed", seed)),
	)
	if err != nil {
		return Result{}, err
	}

	r := &run{sim: s, eng: eng, cp: cp, bp: bridge.Party(cp), log: eng.Logger()}
	r.res = Result{RunID: eng.RunID(), Seed: seed, PartySize: len(cp.Members)}

	for level := 1; level <= s.cfg.Simulation.Floors; level++ {
		if err := ctx.Err(); err != nil {
			return r.res, err
		}
		if err := r.floor(level); err != nil {
			return r.res, fmt.Errorf("floor %d: %w", level, err)
		}
		if cp.IsWiped() {
			r.res.Wiped = true
			r.log.Info("party wiped", "floor", level)
			break
		}
		r.res.FloorsCleared = level
		r.rest()
	}
	r.finish()

	if s.store != nil {
		if err := s.store.Save(ctx, eng.Snapshot()); err != nil {
			return r.res, err
		}
	}
	r.log.Info("run finished",
		"floors", r.res.FloorsCleared,
		"survivors", r.res.Survivors,
		"gold", r.res.Gold,
		"score", r.res.Score(),
	)
	return r.res, nil
}

type run struct {
	sim *Simulator
	eng *encounter.Engine
	cp  *character.Party
	bp  party.Party
	log *slog.Logger
	res Result
}

func (r *run) floor(level int) error {
	if err := r.trap(level); err != nil {
		return err
	}
	if r.cp.IsWiped() {
		return nil
	}
	if err := r.treasure(level); err != nil {
		return err
	}
	if r.cp.IsWiped() {
		return nil
	}
	if id, ok := r.eng.BossForLevel(level); ok {
		return r.bossFight(id, level)
	}
	return nil
}

func (r *run) trap(level int) error {
	kind, ok := r.eng.RandomTrap(level)
	if !ok {
		return nil
	}
	scout := specialist(r.bp.LivingMembers())
	if scout == nil {
		return nil
	}
	if r.eng.DetectTrap(scout) {
		out, err := r.eng.DisarmTrap(kind, scout, r.bp, level)
		if err != nil {
			return err
		}
		if out.Disarmed {
			r.res.TrapsDisarmed++
		} else if out.Trap != nil && out.Trap.Triggered {
			r.res.TrapsSprung++
		}
		r.log.Debug("trap disarm attempt", "floor", level, "result", out.Message)
		return nil
	}
	out, err := r.eng.ActivateTrap(kind, r.bp, level)
	if err != nil {
		return err
	}
	if out.Triggered {
		r.res.TrapsSprung++
	}
	r.log.Debug("trap activated", "floor", level, "result", out.Message)
	return nil
}

func (r *run) treasure(level int) error {
	kind, ok := r.eng.RandomTreasure(level)
	if !ok {
		return nil
	}
	instanceID := fmt.Sprintf("floor-%d-%s", level, uuid.NewString())
	for attempt := 0; attempt < lockAttempts; attempt++ {
		opener := specialist(r.bp.LivingMembers())
		if opener == nil {
			return nil
		}
		out, err := r.eng.OpenTreasure(instanceID, kind, r.bp, level, opener)
		if err != nil {
			return err
		}
		r.log.Debug("treasure attempt", "floor", level, "attempt", attempt+1, "result", out.Message)
		switch {
		case out.Mimic:
			r.res.Mimics++
			return nil
		case out.Success:
			r.res.ChestsOpened++
			return nil
		case !out.Locked:
			return nil
		}
	}
	return nil
}

func (r *run) bossFight(id string, level int) error {
	enc, err := r.eng.EnterBossRoom(id, level, "boss-"+uuid.NewString())
	if err != nil {
		return err
	}
	mon, err := enc.InitializeMonster()
	if err != nil {
		return err
	}
	src := r.eng.Source()
	lo, hi := rolls.ScaleByLevel(r.sim.cfg.Simulation.PartyDamageMin, r.sim.cfg.Simulation.PartyDamageMax, level, partyDamagePerLvl)

	for enc.TurnCount() < r.sim.cfg.Simulation.MaxBossTurns {
		for _, c := range r.cp.LivingMembers() {
			if !canAct(c) {
				continue
			}
			dealt := mon.Resist(src.IntRange(lo, hi), damageTypeFor(c))
			phase, changed, err := enc.ApplyDamage(dealt)
			if err != nil {
				return err
			}
			if changed {
				r.log.Info("boss phase reached", "boss", enc.Name(), "phase", phase.Tag, "floor", level)
			}
			if enc.IsDefeated() {
				return r.completeBoss(enc, true)
			}
		}
		if _, err := enc.TakeTurn(r.bp); err != nil {
			return err
		}
		for _, c := range r.cp.Members {
			c.TickConditions()
		}
		if r.cp.IsWiped() {
			return r.completeBoss(enc, false)
		}
	}

	out, err := enc.Flee()
	if err != nil {
		return err
	}
	r.res.BossesFled++
	r.log.Info("boss fight abandoned", "boss", enc.Name(), "floor", level, "turns", out.TurnCount)
	return nil
}

func (r *run) completeBoss(enc *boss.Encounter, victory bool) error {
	out, err := enc.Complete(victory)
	if err != nil {
		return err
	}
	out.Apply(r.bp)
	if victory {
		r.res.BossesDefeated++
		living := r.cp.LivingMembers()
		for _, c := range living {
			c.Experience += out.Experience / len(living)
		}
	}
	r.log.Info("boss fight resolved", "result", out.Message, "turns", out.TurnCount)
	return nil
}

// rest ticks conditions and, when every survivor gets a ration, heals.
func (r *run) rest() {
	for _, c := range r.cp.Members {
		c.TickConditions()
	}
	living := r.cp.LivingMembers()
	if !r.cp.ConsumeFood(len(living)) {
		r.res.HungryRests++
		r.log.Debug("no rations to rest", "food", r.cp.Food, "living", len(living))
		return
	}
	for _, c := range living {
		c.Heal(c.MaxHitPoints / restFraction)
	}
}

func (r *run) finish() {
	r.res.Survivors = len(r.cp.LivingMembers())
	r.res.Gold = r.cp.Gold
	r.res.Food = r.cp.Food
	r.res.Items = r.cp.GetTotalItems()
	levels := 0
	for _, c := range r.cp.Members {
		r.res.Experience += c.Experience
		levels += c.Level
	}
	if len(r.cp.Members) > 0 {
		r.res.AverageLevel = levels / len(r.cp.Members)
	}
}

// specialist picks the nimblest living member for locks and traps.
func specialist(members []party.Member) party.Member {
	var best party.Member
	for _, m := range members {
		if best == nil || m.Stats().Agility > best.Stats().Agility {
			best = m
		}
	}
	return best
}

func canAct(c *character.MMCharacter) bool {
	return !c.HasCondition(character.ConditionAsleep) && !c.HasCondition(character.ConditionParalyzed)
}

func damageTypeFor(c *character.MMCharacter) monster.DamageType {
	if c.Class.Archetype() == party.ArchetypeCaster {
		return monster.DamageFire
	}
	return monster.DamagePhysical
}
