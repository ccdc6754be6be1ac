package treasure

import (
	"fmt"
	"log/slog"
	"strings"

	"grimdelve/internal/dice"
	"grimdelve/internal/items"
	"grimdelve/internal/narrate"
	"grimdelve/internal/party"
	"grimdelve/internal/rolls"
)

const (
	goldPerLevel   = 0.20
	damagePerLevel = 0.10
)

// Ledger records which container instances have been looted.
type Ledger interface {
	IsOpened(instanceID string) bool
	MarkOpened(instanceID string)
}

// Outcome reports one open attempt. Only Success means the container was
// looted; Mimic and Locked leave it closed for another try.
type Outcome struct {
	Success       bool
	AlreadyOpened bool
	Mimic         bool
	Locked        bool
	InstanceID    string
	Kind          Kind
	Name          string
	Message       string
	Gold          int
	Items         []items.Item
	Trap          *TrapOutcome
	TotalValue    int
}

// Resolver opens containers and hands out loot.
type Resolver struct {
	catalog *Catalog
	ledger  Ledger
	src     dice.Source
	logger  *slog.Logger
}

// NewResolver creates a resolver backed by ledger. A nil logger uses
// slog.Default().
func NewResolver(catalog *Catalog, ledger Ledger, src dice.Source, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{catalog: catalog, ledger: ledger, src: src, logger: logger}
}

// Catalog returns the catalog the resolver draws from.
func (r *Resolver) Catalog() *Catalog { return r.catalog }

// RandomKind picks a container kind suited to level.
func (r *Resolver) RandomKind(level int) (Kind, bool) {
	return r.catalog.RandomKind(r.src, level)
}

// Open resolves one attempt at the container instanceID. opener, when
// non-nil, is the member working the lock.
//
// A container is marked opened once it gets past the mimic and lock
// checks, before its trap fires, so it can never be looted twice. An
// opened instance reports AlreadyOpened whatever kind is passed.
func (r *Resolver) Open(instanceID string, kind Kind, p party.Party, level int, opener party.Member) (Outcome, error) {
	def, known := r.catalog.Get(kind)
	out := Outcome{InstanceID: instanceID, Kind: kind, Name: def.Name}

	if r.ledger.IsOpened(instanceID) {
		name := def.Name
		if !known {
			name = "container"
		}
		out.AlreadyOpened = true
		out.Message = fmt.Sprintf("The %s has already been emptied.", name)
		r.logger.Debug("treasure already opened", "instance", instanceID)
		return out, nil
	}
	if !known {
		r.logger.Warn("unknown treasure kind", "treasure", string(kind), "instance", instanceID)
		return Outcome{InstanceID: instanceID, Kind: kind}, fmt.Errorf("%w: %s", ErrUnknownTreasureKind, kind)
	}
	if level < 1 {
		level = 1
	}

	if rolls.Success(r.src, def.MimicChance) {
		out.Mimic = true
		out.Message = fmt.Sprintf("The %s sprouts teeth. It's a mimic!", def.Name)
		r.logger.Info("mimic revealed", "treasure", string(kind), "instance", instanceID, "level", level)
		return out, nil
	}

	if def.LockDifficulty > 0 && !rolls.Success(r.src, rolls.LockpickChance(def.LockDifficulty, opener)) {
		out.Locked = true
		out.Message = fmt.Sprintf("The %s's lock holds.", def.Name)
		r.logger.Debug("lockpick failed", "treasure", string(kind), "instance", instanceID)
		return out, nil
	}

	r.ledger.MarkOpened(instanceID)
	out.Success = true

	if rolls.Success(r.src, def.TrapChance) {
		out.Trap = r.springTrap(p, level)
	}

	out.Gold = r.rollGold(def, level)
	if out.Gold > 0 {
		p.SetGold(p.Gold() + out.Gold)
	}
	out.Items = r.rollItems(def, level)
	for _, it := range out.Items {
		p.AddItem(it)
	}
	out.TotalValue = out.Gold
	for _, it := range out.Items {
		out.TotalValue += it.Value * it.Quantity
	}
	out.Message = describeLoot(def, out)

	r.logger.Info("treasure opened",
		"treasure", string(kind),
		"instance", instanceID,
		"level", level,
		"gold", out.Gold,
		"items", len(out.Items),
		"trapped", out.Trap != nil,
	)
	return out, nil
}

func (r *Resolver) rollGold(def Definition, level int) int {
	lo, hi := rolls.ScaleByLevel(def.GoldMin, def.GoldMax, level, goldPerLevel)
	return r.src.IntRange(lo, hi)
}

func (r *Resolver) rollItems(def Definition, level int) []items.Item {
	count := r.src.IntRange(def.ItemsMin, def.ItemsMax)
	if count == 0 {
		return nil
	}
	rarities, weights := def.rarityTable()
	loot := make([]items.Item, 0, count)
	for i := 0; i < count; i++ {
		rarity, ok := dice.WeightedChoice(r.src, rarities, weights)
		if !ok {
			rarity = items.RarityCommon
		}
		itemType := r.catalog.randomItemType(r.src)
		name, ok := dice.Choice(r.src, items.LootNames(itemType, rarity))
		if !ok {
			name = fmt.Sprintf("%s %s", rarity, itemType)
		}
		loot = append(loot, items.NewItem(name, itemType, rarity, level))
	}
	return loot
}

func describeLoot(def Definition, out Outcome) string {
	parts := make([]string, 0, 2)
	if out.Gold > 0 {
		parts = append(parts, narrate.Gold(out.Gold))
	}
	for _, it := range out.Items {
		parts = append(parts, it.Name)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("The %s is empty.", def.Name)
	}
	return fmt.Sprintf("Inside the %s: %s.", def.Name, strings.Join(parts, ", "))
}
