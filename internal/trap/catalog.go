package trap

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"grimdelve/assets"
	"grimdelve/internal/dice"
	"grimdelve/internal/rolls"
)

// Kind identifies a trap definition ("arrow", "poison").
type Kind string

const (
	KindArrow     Kind = "arrow"
	KindSpike     Kind = "spike"
	KindPoison    Kind = "poison"
	KindParalysis Kind = "paralysis"
	KindSleep     Kind = "sleep"
	KindConfusion Kind = "confusion"
	KindTeleport  Kind = "teleport"
	KindStatDrain Kind = "stat_drain"
	KindGoldTheft Kind = "gold_theft"
	KindItemLoss  Kind = "item_loss"
)

// ErrUnknownTrapKind is returned for kinds missing from the catalog.
var ErrUnknownTrapKind = errors.New("unknown trap kind")

// Definition is one trap kind. Damage bounds are level-1 values.
type Definition struct {
	Kind            Kind
	Name            string
	Description     string
	DamageMin       int
	DamageMax       int
	BaseSuccessRate float64
	Effect          Effect
}

// Pool lists the kinds that can spawn up to MaxLevel.
type Pool struct {
	MaxLevel int
	Kinds    []Kind
}

// Catalog holds every trap definition in content order. It is read-only
// after load.
type Catalog struct {
	defs  map[Kind]Definition
	order []Kind
	pools []Pool
}

type trapFile struct {
	Traps []trapEntry `yaml:"traps"`
	Pools []poolEntry `yaml:"pools"`
}

type trapEntry struct {
	Kind            string      `yaml:"kind"`
	Name            string      `yaml:"name"`
	Description     string      `yaml:"description"`
	DamageMin       int         `yaml:"damage_min"`
	DamageMax       int         `yaml:"damage_max"`
	BaseSuccessRate float64     `yaml:"base_success_rate"`
	Effect          effectEntry `yaml:"effect"`
}

type effectEntry struct {
	Type        string  `yaml:"type"`
	Status      string  `yaml:"status"`
	Resist      string  `yaml:"resist"`
	Duration    int     `yaml:"duration"`
	MinFraction float64 `yaml:"min_fraction"`
	MaxFraction float64 `yaml:"max_fraction"`
}

type poolEntry struct {
	MaxLevel int      `yaml:"max_level"`
	Kinds    []string `yaml:"kinds"`
}

// ParseCatalog decodes and validates a trap catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file trapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse trap catalog YAML: %w", err)
	}
	if len(file.Traps) == 0 {
		return nil, errors.New("trap catalog is empty")
	}

	c := &Catalog{defs: make(map[Kind]Definition, len(file.Traps))}
	for _, entry := range file.Traps {
		def, err := entry.definition()
		if err != nil {
			return nil, err
		}
		if _, dup := c.defs[def.Kind]; dup {
			return nil, fmt.Errorf("trap %q defined twice", def.Kind)
		}
		c.defs[def.Kind] = def
		c.order = append(c.order, def.Kind)
	}

	last := 0
	for _, p := range file.Pools {
		if p.MaxLevel <= last {
			return nil, fmt.Errorf("trap pools must have ascending max_level (got %d after %d)", p.MaxLevel, last)
		}
		if len(p.Kinds) == 0 {
			return nil, fmt.Errorf("trap pool up to level %d is empty", p.MaxLevel)
		}
		pool := Pool{MaxLevel: p.MaxLevel}
		for _, k := range p.Kinds {
			if _, ok := c.defs[Kind(k)]; !ok {
				return nil, fmt.Errorf("trap pool up to level %d: %w: %s", p.MaxLevel, ErrUnknownTrapKind, k)
			}
			pool.Kinds = append(pool.Kinds, Kind(k))
		}
		c.pools = append(c.pools, pool)
		last = p.MaxLevel
	}
	return c, nil
}

func (e trapEntry) definition() (Definition, error) {
	if e.Kind == "" {
		return Definition{}, errors.New("trap entry without kind")
	}
	if e.BaseSuccessRate < 0 || e.BaseSuccessRate > 1 {
		return Definition{}, fmt.Errorf("trap %q: base_success_rate %.2f outside [0,1]", e.Kind, e.BaseSuccessRate)
	}
	if e.DamageMin < 0 || e.DamageMax < e.DamageMin {
		return Definition{}, fmt.Errorf("trap %q: bad damage range %d-%d", e.Kind, e.DamageMin, e.DamageMax)
	}
	effect, err := e.Effect.effect()
	if err != nil {
		return Definition{}, fmt.Errorf("trap %q: %w", e.Kind, err)
	}
	return Definition{
		Kind:            Kind(e.Kind),
		Name:            e.Name,
		Description:     e.Description,
		DamageMin:       e.DamageMin,
		DamageMax:       e.DamageMax,
		BaseSuccessRate: e.BaseSuccessRate,
		Effect:          effect,
	}, nil
}

func (e effectEntry) effect() (Effect, error) {
	switch strings.ToLower(e.Type) {
	case "damage":
		return DamageEffect{}, nil
	case "status":
		if e.Status == "" {
			return nil, errors.New("status effect without status name")
		}
		resist := rolls.ResistPhysical
		switch strings.ToLower(e.Resist) {
		case "", "physical":
		case "mental":
			resist = rolls.ResistMental
		default:
			return nil, fmt.Errorf("unknown resist kind %q", e.Resist)
		}
		return StatusEffect{Status: e.Status, Resist: resist, Duration: e.Duration}, nil
	case "teleport":
		return TeleportEffect{}, nil
	case "stat_drain":
		return StatDrainEffect{Duration: e.Duration}, nil
	case "gold_theft":
		if e.MinFraction < 0 || e.MaxFraction > 1 || e.MaxFraction < e.MinFraction {
			return nil, fmt.Errorf("bad gold theft fractions %.2f-%.2f", e.MinFraction, e.MaxFraction)
		}
		return GoldTheftEffect{MinFrac: e.MinFraction, MaxFrac: e.MaxFraction}, nil
	case "item_loss":
		return ItemLossEffect{}, nil
	default:
		return nil, fmt.Errorf("unknown effect type %q", e.Type)
	}
}

// LoadCatalog loads a trap catalog from a YAML file.
func LoadCatalog(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read trap catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return c, nil
}

// MustLoadCatalog loads a trap catalog and panics on error.
func MustLoadCatalog(filename string) *Catalog {
	c, err := LoadCatalog(filename)
	if err != nil {
		panic("Failed to load trap catalog: " + err.Error())
	}
	return c
}

// DefaultCatalog parses the embedded trap content.
func DefaultCatalog() (*Catalog, error) {
	data, err := assets.Read(assets.TrapsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded trap catalog: %w", err)
	}
	return ParseCatalog(data)
}

// Get returns the definition for kind.
func (c *Catalog) Get(kind Kind) (Definition, bool) {
	def, ok := c.defs[kind]
	return def, ok
}

// Kinds returns every kind in content order.
func (c *Catalog) Kinds() []Kind {
	out := make([]Kind, len(c.order))
	copy(out, c.order)
	return out
}

// PoolFor returns the kinds that can spawn at level.
func (c *Catalog) PoolFor(level int) []Kind {
	for _, p := range c.pools {
		if level <= p.MaxLevel {
			return p.Kinds
		}
	}
	return c.order
}

// Random picks a trap kind for level, uniform within the depth pool.
func (c *Catalog) Random(src dice.Source, level int) (Kind, bool) {
	return dice.Choice(src, c.PoolFor(level))
}
