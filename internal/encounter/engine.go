// Package encounter is the entry point the dungeon layer calls: one Engine
// per run owns the catalogs, the registry and the dice.
package encounter

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"grimdelve/internal/boss"
	"grimdelve/internal/dice"
	"grimdelve/internal/party"
	"grimdelve/internal/trap"
	"grimdelve/internal/treasure"
)

// Engine resolves traps, treasure and boss fights for one run. It is not
// safe for concurrent use; run one engine per goroutine.
type Engine struct {
	runID     string
	traps     *trap.Catalog
	treasures *treasure.Catalog
	bosses    *boss.Catalog
	registry  *Registry
	src       dice.Source
	logger    *slog.Logger

	trapResolver     *trap.Resolver
	treasureResolver *treasure.Resolver
}

// Option configures an Engine.
type Option func(*Engine)

func WithTrapCatalog(c *trap.Catalog) Option {
	return func(e *Engine) { e.traps = c }
}

func WithTreasureCatalog(c *treasure.Catalog) Option {
	return func(e *Engine) { e.treasures = c }
}

func WithBossCatalog(c *boss.Catalog) Option {
	return func(e *Engine) { e.bosses = c }
}

// WithSource sets the dice. Defaults to a crypto-seeded source.
func WithSource(src dice.Source) Option {
	return func(e *Engine) { e.src = src }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithRunID sets the run id. Defaults to a random UUID.
func WithRunID(id string) Option {
	return func(e *Engine) { e.runID = id }
}

// NewEngine builds an engine. Catalogs not supplied are loaded from the
// embedded content.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{registry: NewRegistry()}
	for _, opt := range opts {
		opt(e)
	}
	if e.runID == "" {
		e.runID = uuid.NewString()
	}
	if e.src == nil {
		e.src = dice.New()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.logger = e.logger.With("run", e.runID)

	var err error
	if e.traps == nil {
		if e.traps, err = trap.DefaultCatalog(); err != nil {
			return nil, fmt.Errorf("failed to load trap catalog: %w", err)
		}
	}
	if e.treasures == nil {
		if e.treasures, err = treasure.DefaultCatalog(); err != nil {
			return nil, fmt.Errorf("failed to load treasure catalog: %w", err)
		}
	}
	if e.bosses == nil {
		if e.bosses, err = boss.DefaultCatalog(); err != nil {
			return nil, fmt.Errorf("failed to load boss catalog: %w", err)
		}
	}

	e.trapResolver = trap.NewResolver(e.traps, e.src, e.logger)
	e.treasureResolver = treasure.NewResolver(e.treasures, e.registry, e.src, e.logger)
	return e, nil
}

func (e *Engine) RunID() string                { return e.runID }
func (e *Engine) Registry() *Registry          { return e.registry }
func (e *Engine) Logger() *slog.Logger         { return e.logger }
func (e *Engine) Source() dice.Source          { return e.src }
func (e *Engine) Bosses() *boss.Catalog        { return e.bosses }
func (e *Engine) Traps() *trap.Catalog         { return e.traps }
func (e *Engine) Treasures() *treasure.Catalog { return e.treasures }

// ActivateTrap sets off a trap. Traps are never recorded; the same tile
// can fire again.
func (e *Engine) ActivateTrap(kind trap.Kind, p party.Party, level int) (trap.Outcome, error) {
	return e.trapResolver.Activate(kind, p, level)
}

// DetectTrap rolls whether m spots a hidden trap.
func (e *Engine) DetectTrap(m party.Member) bool {
	return e.trapResolver.Detect(m)
}

// DisarmTrap has m attempt to disarm a trap.
func (e *Engine) DisarmTrap(kind trap.Kind, m party.Member, p party.Party, level int) (trap.DisarmOutcome, error) {
	return e.trapResolver.Disarm(kind, m, p, level)
}

// RandomTrap picks a trap kind for level.
func (e *Engine) RandomTrap(level int) (trap.Kind, bool) {
	return e.trapResolver.Random(level)
}

// OpenTreasure resolves an attempt on a treasure instance. Each instance
// pays out at most once per run.
func (e *Engine) OpenTreasure(instanceID string, kind treasure.Kind, p party.Party, level int, opener party.Member) (treasure.Outcome, error) {
	return e.treasureResolver.Open(instanceID, kind, p, level, opener)
}

// RandomTreasure picks a container kind for level.
func (e *Engine) RandomTreasure(level int) (treasure.Kind, bool) {
	return e.treasureResolver.RandomKind(level)
}

// BossForLevel picks a boss id for level; false on non-boss floors.
func (e *Engine) BossForLevel(level int) (string, bool) {
	return e.bosses.ForLevel(e.src, level)
}

// EnterBossRoom returns the live encounter for instanceID, creating and
// registering one when none is active. Re-entry returns the existing
// fight unchanged, whatever bossID says.
func (e *Engine) EnterBossRoom(bossID string, level int, instanceID string) (*boss.Encounter, error) {
	if enc, ok := e.registry.ActiveBoss(instanceID); ok {
		e.logger.Debug("re-entering boss room", "instance", instanceID, "boss", enc.BossID())
		return enc, nil
	}
	enc, err := e.bosses.NewEncounter(bossID, level, instanceID, e.encounterOptions()...)
	if err != nil {
		e.logger.Warn("cannot create boss encounter", "boss", bossID, "level", level, "error", err)
		return nil, err
	}
	e.registry.AddBoss(enc)
	e.logger.Info("boss encounter started", "boss", bossID, "instance", instanceID, "level", level, "hp", enc.MaxHP())
	return enc, nil
}

// ActiveBoss returns the live encounter for instanceID.
func (e *Engine) ActiveBoss(instanceID string) (*boss.Encounter, bool) {
	return e.registry.ActiveBoss(instanceID)
}

// ResetInstance forgets an instance; meant for tests and debugging.
func (e *Engine) ResetInstance(instanceID string) {
	e.registry.ResetInstance(instanceID)
}

func (e *Engine) encounterOptions() []boss.Option {
	return []boss.Option{
		boss.WithSource(e.src),
		boss.WithLogger(e.logger),
		boss.OnComplete(e.registry.RemoveBoss),
	}
}

// Snapshot captures the registry as plain data.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		RunID:           e.runID,
		OpenedInstances: e.registry.OpenedInstances(),
		ActiveBosses:    []boss.Summary{},
	}
	for _, enc := range e.registry.ActiveBosses() {
		s.ActiveBosses = append(s.ActiveBosses, enc.Summary())
	}
	return s
}

// ErrRunMismatch is returned when restoring another run's snapshot.
var ErrRunMismatch = errors.New("snapshot belongs to a different run")

// Restore replaces the registry with the snapshot's contents. The engine
// must have been built WithRunID(s.RunID). On error the registry is left
// as it was.
func (e *Engine) Restore(s Snapshot) error {
	if s.RunID != "" && s.RunID != e.runID {
		return fmt.Errorf("restore %s into %s: %w", s.RunID, e.runID, ErrRunMismatch)
	}
	restored := make([]*boss.Encounter, 0, len(s.ActiveBosses))
	for _, summary := range s.ActiveBosses {
		enc, err := e.bosses.Restore(summary, e.encounterOptions()...)
		if err != nil {
			return fmt.Errorf("failed to restore snapshot %s: %w", s.RunID, err)
		}
		restored = append(restored, enc)
	}

	e.registry.Clear()
	for _, id := range s.OpenedInstances {
		e.registry.MarkOpened(id)
	}
	for _, enc := range restored {
		e.registry.AddBoss(enc)
	}
	e.logger.Info("registry restored", "opened", len(s.OpenedInstances), "bosses", len(restored))
	return nil
}
