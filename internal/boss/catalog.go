// Package boss runs boss encounters: level-scaled stats, HP-driven phases,
// weighted special abilities and victory or defeat resolution.
package boss

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"grimdelve/assets"
	"grimdelve/internal/dice"
	"grimdelve/internal/items"
	"grimdelve/internal/monster"
	"grimdelve/internal/rolls"
)

// Category is the kind of floor a boss guards.
type Category string

const (
	CategoryFloor   Category = "floor"
	CategoryArea    Category = "area"
	CategoryDungeon Category = "dungeon"
)

var (
	ErrUnknownBossID             = errors.New("unknown boss id")
	ErrUnknownAbility            = errors.New("unknown boss ability")
	ErrEncounterAlreadyCompleted = errors.New("boss encounter already completed")
)

// Phase is one stage of a fight, entered once HP falls to Threshold.
type Phase struct {
	Tag       string
	Threshold float64
	Abilities []WeightedAbility
	Announce  string
}

// WeightedAbility is one entry of a phase's ability list.
type WeightedAbility struct {
	ID     string
	Weight float64
}

// RewardItem is a fixed drop, valued at the encounter level.
type RewardItem struct {
	Name   string
	Type   items.ItemType
	Rarity items.Rarity
}

// Rewards are paid out on victory. Gold and experience are level-1 values.
type Rewards struct {
	GoldMin    int
	GoldMax    int
	Experience int
	Items      []RewardItem
}

// StatusPenalty is a status applied to the party on defeat.
type StatusPenalty struct {
	Status string `json:"status" yaml:"status"`
	Turns  int    `json:"turns" yaml:"turns"`
}

// Consequences are what a defeat costs the party.
type Consequences struct {
	GoldLossFraction float64
	Statuses         []StatusPenalty
}

// Definition is one boss from the catalog.
type Definition struct {
	ID             string
	Name           string
	Category       Category
	BaseHP         int
	BaseAttack     int
	BaseArmorClass int
	HPPerLevel     float64
	AttackPerLevel float64
	ArmorPerLevel  float64
	Experience     int
	Resistances    map[monster.DamageType]int
	Phases         []Phase
	Abilities      map[string]AbilityDef
	Rewards        Rewards
	Consequences   Consequences
}

// MaxHP is the boss's hit points at level.
func (d *Definition) MaxHP(level int) int {
	return rolls.ScaleValue(d.BaseHP, level, d.HPPerLevel)
}

// Attack is the boss's attack bonus at level.
func (d *Definition) Attack(level int) int {
	return rolls.ScaleValue(d.BaseAttack, level, d.AttackPerLevel)
}

// ArmorClass is the boss's armor class at level.
func (d *Definition) ArmorClass(level int) int {
	if level < 1 {
		level = 1
	}
	return d.BaseArmorClass + int(math.Floor(float64(level-1)*d.ArmorPerLevel+1e-9))
}

// Catalog holds boss definitions in content order.
type Catalog struct {
	defs  map[string]*Definition
	order []string
}

type bossFile struct {
	Bosses []bossEntry `yaml:"bosses"`
}

type bossEntry struct {
	ID             string                  `yaml:"id"`
	Name           string                  `yaml:"name"`
	Category       string                  `yaml:"category"`
	BaseHP         int                     `yaml:"base_hp"`
	BaseAttack     int                     `yaml:"base_attack"`
	BaseArmorClass int                     `yaml:"base_armor_class"`
	HPPerLevel     float64                 `yaml:"hp_per_level"`
	AttackPerLevel float64                 `yaml:"attack_per_level"`
	ArmorPerLevel  float64                 `yaml:"armor_per_level"`
	Experience     int                     `yaml:"experience"`
	Resistances    map[string]int          `yaml:"resistances"`
	Abilities      map[string]abilityEntry `yaml:"abilities"`
	Phases         []phaseEntry            `yaml:"phases"`
	Rewards        rewardsEntry            `yaml:"rewards"`
	Consequences   consequencesEntry       `yaml:"consequences"`
}

type abilityEntry struct {
	Name      string  `yaml:"name"`
	Type      string  `yaml:"type"`
	DamageMin int     `yaml:"damage_min"`
	DamageMax int     `yaml:"damage_max"`
	Status    string  `yaml:"status"`
	Duration  int     `yaml:"duration"`
	Resist    string  `yaml:"resist"`
	Area      bool    `yaml:"area"`
	Fraction  float64 `yaml:"fraction"`
	Minion    string  `yaml:"minion"`
	Count     int     `yaml:"count"`
}

type phaseEntry struct {
	Tag       string  `yaml:"tag"`
	Threshold float64 `yaml:"threshold"`
	Announce  string  `yaml:"announce"`
	Abilities []struct {
		ID     string  `yaml:"id"`
		Weight float64 `yaml:"weight"`
	} `yaml:"abilities"`
}

type rewardsEntry struct {
	GoldMin    int `yaml:"gold_min"`
	GoldMax    int `yaml:"gold_max"`
	Experience int `yaml:"experience"`
	Items      []struct {
		Name   string `yaml:"name"`
		Type   string `yaml:"type"`
		Rarity string `yaml:"rarity"`
	} `yaml:"items"`
}

type consequencesEntry struct {
	GoldLossFraction float64         `yaml:"gold_loss_fraction"`
	Statuses         []StatusPenalty `yaml:"statuses"`
}

// ParseCatalog decodes and validates a boss catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file bossFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse boss catalog YAML: %w", err)
	}
	if len(file.Bosses) == 0 {
		return nil, errors.New("boss catalog is empty")
	}

	c := &Catalog{defs: make(map[string]*Definition, len(file.Bosses))}
	for _, entry := range file.Bosses {
		def, err := entry.definition()
		if err != nil {
			return nil, fmt.Errorf("boss %q: %w", entry.ID, err)
		}
		if _, dup := c.defs[def.ID]; dup {
			return nil, fmt.Errorf("boss %q defined twice", def.ID)
		}
		c.defs[def.ID] = def
		c.order = append(c.order, def.ID)
	}
	return c, nil
}

func (e bossEntry) definition() (*Definition, error) {
	if e.ID == "" {
		return nil, errors.New("missing id")
	}
	def := &Definition{
		ID:             e.ID,
		Name:           e.Name,
		Category:       Category(strings.ToLower(e.Category)),
		BaseHP:         e.BaseHP,
		BaseAttack:     e.BaseAttack,
		BaseArmorClass: e.BaseArmorClass,
		HPPerLevel:     e.HPPerLevel,
		AttackPerLevel: e.AttackPerLevel,
		ArmorPerLevel:  e.ArmorPerLevel,
		Experience:     e.Experience,
		Resistances:    make(map[monster.DamageType]int, len(e.Resistances)),
		Abilities:      make(map[string]AbilityDef, len(e.Abilities)),
	}
	switch def.Category {
	case CategoryFloor, CategoryArea, CategoryDungeon:
	default:
		return nil, fmt.Errorf("unknown category %q", e.Category)
	}
	if def.BaseHP < 1 {
		return nil, fmt.Errorf("base_hp must be positive, got %d", def.BaseHP)
	}
	if def.HPPerLevel < 0 || def.AttackPerLevel < 0 || def.ArmorPerLevel < 0 {
		return nil, fmt.Errorf("per-level growth must not be negative (hp %v, attack %v, armor %v)",
			def.HPPerLevel, def.AttackPerLevel, def.ArmorPerLevel)
	}

	for name, pct := range e.Resistances {
		dt, ok := monster.ParseDamageType(name)
		if !ok {
			return nil, fmt.Errorf("unknown damage type %q", name)
		}
		if pct < 0 || pct > 100 {
			return nil, fmt.Errorf("resistance %s=%d outside [0,100]", name, pct)
		}
		def.Resistances[dt] = pct
	}

	for id, a := range e.Abilities {
		effect, err := a.ability()
		if err != nil {
			return nil, fmt.Errorf("ability %q: %w", id, err)
		}
		name := a.Name
		if name == "" {
			name = id
		}
		def.Abilities[id] = AbilityDef{ID: id, Name: name, Effect: effect}
	}

	if err := def.loadPhases(e.Phases); err != nil {
		return nil, err
	}
	if err := def.loadRewards(e.Rewards, e.Consequences); err != nil {
		return nil, err
	}
	return def, nil
}

func (a abilityEntry) ability() (Ability, error) {
	kind := strings.ToLower(a.Type)
	switch kind {
	case "area_damage", "single_damage":
		if a.DamageMin < 0 || a.DamageMax < a.DamageMin {
			return nil, fmt.Errorf("bad damage range %d-%d", a.DamageMin, a.DamageMax)
		}
		if kind == "area_damage" {
			return AreaDamage{DamageMin: a.DamageMin, DamageMax: a.DamageMax}, nil
		}
		return SingleDamage{DamageMin: a.DamageMin, DamageMax: a.DamageMax}, nil
	case "status":
		if a.Status == "" {
			return nil, errors.New("status ability without status")
		}
		resist := rolls.ResistPhysical
		switch strings.ToLower(a.Resist) {
		case "", "physical":
		case "mental":
			resist = rolls.ResistMental
		default:
			return nil, fmt.Errorf("unknown resist kind %q", a.Resist)
		}
		return StatusAbility{Status: a.Status, Duration: a.Duration, Resist: resist, Area: a.Area}, nil
	case "heal_self":
		if a.Fraction <= 0 || a.Fraction > 1 {
			return nil, fmt.Errorf("heal fraction %.2f outside (0,1]", a.Fraction)
		}
		return HealSelf{Fraction: a.Fraction}, nil
	case "summon":
		if a.Minion == "" || a.Count < 1 {
			return nil, errors.New("summon needs a minion and a positive count")
		}
		return Summon{Minion: a.Minion, Count: a.Count}, nil
	default:
		return nil, fmt.Errorf("unknown ability type %q", a.Type)
	}
}

func (d *Definition) loadPhases(raw []phaseEntry) error {
	if len(raw) == 0 {
		return errors.New("no phases")
	}
	if raw[0].Threshold != 1.0 {
		return fmt.Errorf("first phase must have threshold 1.0, got %.2f", raw[0].Threshold)
	}
	for i, p := range raw {
		if p.Tag == "" {
			return fmt.Errorf("phase %d has no tag", i)
		}
		if i > 0 && (p.Threshold >= raw[i-1].Threshold || p.Threshold <= 0) {
			return fmt.Errorf("phase %s: thresholds must strictly descend and stay above 0", p.Tag)
		}
		if len(p.Abilities) == 0 {
			return fmt.Errorf("phase %s lists no abilities", p.Tag)
		}
		phase := Phase{Tag: p.Tag, Threshold: p.Threshold, Announce: p.Announce}
		for _, a := range p.Abilities {
			if _, ok := d.Abilities[a.ID]; !ok {
				return fmt.Errorf("phase %s: %w: %s", p.Tag, ErrUnknownAbility, a.ID)
			}
			if a.Weight <= 0 {
				return fmt.Errorf("phase %s: ability %s needs a positive weight", p.Tag, a.ID)
			}
			phase.Abilities = append(phase.Abilities, WeightedAbility{ID: a.ID, Weight: a.Weight})
		}
		d.Phases = append(d.Phases, phase)
	}
	return nil
}

func (d *Definition) loadRewards(r rewardsEntry, c consequencesEntry) error {
	if r.GoldMin < 0 || r.GoldMax < r.GoldMin {
		return fmt.Errorf("bad reward gold range %d-%d", r.GoldMin, r.GoldMax)
	}
	d.Rewards = Rewards{GoldMin: r.GoldMin, GoldMax: r.GoldMax, Experience: r.Experience}
	for _, it := range r.Items {
		t, ok := items.ParseItemType(it.Type)
		if !ok {
			return fmt.Errorf("reward %q: unknown item type %q", it.Name, it.Type)
		}
		rarity := items.Rarity(it.Rarity)
		if !rarity.Valid() {
			return fmt.Errorf("reward %q: unknown rarity %q", it.Name, it.Rarity)
		}
		d.Rewards.Items = append(d.Rewards.Items, RewardItem{Name: it.Name, Type: t, Rarity: rarity})
	}

	if c.GoldLossFraction < 0 || c.GoldLossFraction > 1 {
		return fmt.Errorf("gold_loss_fraction %.2f outside [0,1]", c.GoldLossFraction)
	}
	d.Consequences = Consequences{GoldLossFraction: c.GoldLossFraction, Statuses: c.Statuses}
	return nil
}

// LoadCatalog loads a boss catalog from a YAML file.
func LoadCatalog(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read boss catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return c, nil
}

// MustLoadCatalog loads a boss catalog and panics on error.
func MustLoadCatalog(filename string) *Catalog {
	c, err := LoadCatalog(filename)
	if err != nil {
		panic("Failed to load boss catalog: " + err.Error())
	}
	return c
}

// DefaultCatalog parses the embedded boss content.
func DefaultCatalog() (*Catalog, error) {
	data, err := assets.Read(assets.BossesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded boss catalog: %w", err)
	}
	return ParseCatalog(data)
}

// Get returns the definition for id.
func (c *Catalog) Get(id string) (*Definition, bool) {
	def, ok := c.defs[id]
	return def, ok
}

// IDs returns every boss id in content order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// InCategory returns the ids of bosses in cat, in content order.
func (c *Catalog) InCategory(cat Category) []string {
	var ids []string
	for _, id := range c.order {
		if c.defs[id].Category == cat {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsBossLevel reports whether level has a boss: every fifth floor and
// everything from 20 down.
func IsBossLevel(level int) bool {
	return level%5 == 0 || level >= 20
}

// CategoryFor returns the boss category guarding level.
func CategoryFor(level int) Category {
	switch {
	case level >= 20:
		return CategoryDungeon
	case level%10 == 0:
		return CategoryArea
	default:
		return CategoryFloor
	}
}

// ForLevel picks a boss for level, uniform within the floor's category.
// ok is false on non-boss floors or when the category has no bosses.
func (c *Catalog) ForLevel(src dice.Source, level int) (string, bool) {
	if !IsBossLevel(level) {
		return "", false
	}
	return dice.Choice(src, c.InCategory(CategoryFor(level)))
}
