package treasure

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"grimdelve/assets"
	"grimdelve/internal/dice"
	"grimdelve/internal/items"
)

// Kind identifies a container definition ("wooden_chest").
type Kind string

const (
	KindBarrel      Kind = "barrel"
	KindWoodenChest Kind = "wooden_chest"
	KindIronChest   Kind = "iron_chest"
	KindSilverChest Kind = "silver_chest"
	KindGoldChest   Kind = "gold_chest"
	KindOrnateChest Kind = "ornate_chest"
)

// ErrUnknownTreasureKind is returned for kinds missing from the catalog.
var ErrUnknownTreasureKind = errors.New("unknown treasure kind")

// weightTolerance is how far rarity weights may stray from summing to 1.
const weightTolerance = 0.01

// Definition is one container kind. Gold bounds are level-1 values.
type Definition struct {
	Kind           Kind
	Name           string
	Description    string
	LockDifficulty int
	TrapChance     float64
	MimicChance    float64
	GoldMin        int
	GoldMax        int
	ItemsMin       int
	ItemsMax       int
	RarityWeights  map[items.Rarity]float64
}

// rarityTable returns the rarity weights in tier order.
func (d Definition) rarityTable() ([]items.Rarity, []float64) {
	rarities := make([]items.Rarity, 0, len(d.RarityWeights))
	weights := make([]float64, 0, len(d.RarityWeights))
	for _, r := range items.Rarities {
		if w, ok := d.RarityWeights[r]; ok {
			rarities = append(rarities, r)
			weights = append(weights, w)
		}
	}
	return rarities, weights
}

// Band weights container kinds up to MaxLevel.
type Band struct {
	MaxLevel int
	Kinds    []Kind
	Weights  []float64
}

// Catalog holds container definitions, loot-type weights and depth bands.
type Catalog struct {
	defs        map[Kind]Definition
	order       []Kind
	itemTypes   []items.ItemType
	typeWeights []float64
	bands       []Band
}

type treasureFile struct {
	Treasures       []treasureEntry    `yaml:"treasures"`
	ItemTypeWeights map[string]float64 `yaml:"item_type_weights"`
	DepthBands      []bandEntry        `yaml:"depth_bands"`
}

type treasureEntry struct {
	Kind           string             `yaml:"kind"`
	Name           string             `yaml:"name"`
	Description    string             `yaml:"description"`
	LockDifficulty int                `yaml:"lock_difficulty"`
	TrapChance     float64            `yaml:"trap_chance"`
	MimicChance    float64            `yaml:"mimic_chance"`
	GoldMin        int                `yaml:"gold_min"`
	GoldMax        int                `yaml:"gold_max"`
	ItemsMin       int                `yaml:"items_min"`
	ItemsMax       int                `yaml:"items_max"`
	RarityWeights  map[string]float64 `yaml:"rarity_weights"`
}

type bandEntry struct {
	MaxLevel int                `yaml:"max_level"`
	Weights  map[string]float64 `yaml:"weights"`
}

// ParseCatalog decodes and validates a treasure catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file treasureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse treasure catalog YAML: %w", err)
	}
	if len(file.Treasures) == 0 {
		return nil, errors.New("treasure catalog is empty")
	}

	c := &Catalog{defs: make(map[Kind]Definition, len(file.Treasures))}
	for _, entry := range file.Treasures {
		def, err := entry.definition()
		if err != nil {
			return nil, err
		}
		if _, dup := c.defs[def.Kind]; dup {
			return nil, fmt.Errorf("treasure %q defined twice", def.Kind)
		}
		c.defs[def.Kind] = def
		c.order = append(c.order, def.Kind)
	}

	if err := c.loadItemTypes(file.ItemTypeWeights); err != nil {
		return nil, err
	}
	if err := c.loadBands(file.DepthBands); err != nil {
		return nil, err
	}
	return c, nil
}

func (e treasureEntry) definition() (Definition, error) {
	if e.Kind == "" {
		return Definition{}, errors.New("treasure entry without kind")
	}
	fail := func(format string, a ...any) (Definition, error) {
		return Definition{}, fmt.Errorf("treasure %q: %s", e.Kind, fmt.Sprintf(format, a...))
	}
	if e.LockDifficulty < 0 || e.LockDifficulty > 100 {
		return fail("lock_difficulty %d outside [0,100]", e.LockDifficulty)
	}
	if !unit(e.TrapChance) || !unit(e.MimicChance) {
		return fail("chances must lie in [0,1]")
	}
	if e.GoldMin < 0 || e.GoldMax < e.GoldMin {
		return fail("bad gold range %d-%d", e.GoldMin, e.GoldMax)
	}
	if e.ItemsMin < 0 || e.ItemsMax < e.ItemsMin {
		return fail("bad item count range %d-%d", e.ItemsMin, e.ItemsMax)
	}

	weights := make(map[items.Rarity]float64, len(e.RarityWeights))
	sum := 0.0
	for name, w := range e.RarityWeights {
		r := items.Rarity(name)
		if !r.Valid() {
			return fail("unknown rarity %q", name)
		}
		if w < 0 {
			return fail("negative weight for %s", name)
		}
		weights[r] = w
		sum += w
	}
	if math.Abs(sum-1) > weightTolerance {
		return fail("rarity weights sum to %.3f, want 1", sum)
	}

	return Definition{
		Kind:           Kind(e.Kind),
		Name:           e.Name,
		Description:    e.Description,
		LockDifficulty: e.LockDifficulty,
		TrapChance:     e.TrapChance,
		MimicChance:    e.MimicChance,
		GoldMin:        e.GoldMin,
		GoldMax:        e.GoldMax,
		ItemsMin:       e.ItemsMin,
		ItemsMax:       e.ItemsMax,
		RarityWeights:  weights,
	}, nil
}

func (c *Catalog) loadItemTypes(raw map[string]float64) error {
	if len(raw) == 0 {
		return errors.New("item_type_weights is empty")
	}
	for _, name := range sortedKeys(raw) {
		t, ok := items.ParseItemType(name)
		if !ok {
			return fmt.Errorf("item_type_weights: unknown item type %q", name)
		}
		c.itemTypes = append(c.itemTypes, t)
		c.typeWeights = append(c.typeWeights, raw[name])
	}
	return nil
}

func (c *Catalog) loadBands(raw []bandEntry) error {
	if len(raw) == 0 {
		return errors.New("depth_bands is empty")
	}
	last := 0
	for _, b := range raw {
		if b.MaxLevel <= last {
			return fmt.Errorf("depth bands must have ascending max_level (got %d after %d)", b.MaxLevel, last)
		}
		band := Band{MaxLevel: b.MaxLevel}
		total := 0.0
		for _, name := range sortedKeys(b.Weights) {
			kind := Kind(name)
			if _, ok := c.defs[kind]; !ok {
				return fmt.Errorf("depth band up to level %d: %w: %s", b.MaxLevel, ErrUnknownTreasureKind, name)
			}
			band.Kinds = append(band.Kinds, kind)
			band.Weights = append(band.Weights, b.Weights[name])
			total += b.Weights[name]
		}
		if total <= 0 {
			return fmt.Errorf("depth band up to level %d has no positive weight", b.MaxLevel)
		}
		c.bands = append(c.bands, band)
		last = b.MaxLevel
	}
	return nil
}

func unit(p float64) bool { return p >= 0 && p <= 1 }

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadCatalog loads a treasure catalog from a YAML file.
func LoadCatalog(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read treasure catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return c, nil
}

// MustLoadCatalog loads a treasure catalog and panics on error.
func MustLoadCatalog(filename string) *Catalog {
	c, err := LoadCatalog(filename)
	if err != nil {
		panic("Failed to load treasure catalog: " + err.Error())
	}
	return c
}

// DefaultCatalog parses the embedded treasure content.
func DefaultCatalog() (*Catalog, error) {
	data, err := assets.Read(assets.TreasuresFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded treasure catalog: %w", err)
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

// BandFor returns the depth band covering level.
func (c *Catalog) BandFor(level int) Band {
	for _, b := range c.bands {
		if level <= b.MaxLevel {
			return b
		}
	}
	return c.bands[len(c.bands)-1]
}

// RandomKind draws a container kind from the depth band covering level.
func (c *Catalog) RandomKind(src dice.Source, level int) (Kind, bool) {
	band := c.BandFor(level)
	return dice.WeightedChoice(src, band.Kinds, band.Weights)
}

// randomItemType draws a loot item type.
func (c *Catalog) randomItemType(src dice.Source) items.ItemType {
	t, ok := dice.WeightedChoice(src, c.itemTypes, c.typeWeights)
	if !ok {
		return items.ItemConsumable
	}
	return t
}
