package character

import (
	"fmt"
	"strings"

	"grimdelve/internal/config"
	"grimdelve/internal/mathutil"
	"grimdelve/internal/party"
)

type MMCharacter struct {
	Name  string
	Class CharacterClass

	// Core stats
	Level          int
	Experience     int
	HitPoints      int
	MaxHitPoints   int
	SpellPoints    int
	MaxSpellPoints int

	// Primary attributes
	Might       int // Physical strength, resists poison and paralysis
	Intellect   int // Spell points, trap detection, resists sleep and confusion
	Personality int // Spell points
	Endurance   int // Hit points
	Accuracy    int // Ranged attack accuracy
	Speed       int // Dodging, lockpicking and disarming
	Luck        int // Critical hits and various bonuses

	// Status effects
	Conditions []StatusEffect
}

type CharacterClass int

const (
	ClassKnight CharacterClass = iota
	ClassPaladin
	ClassArcher
	ClassThief
	ClassCleric
	ClassSorcerer
	ClassDruid
)

var classKeys = map[CharacterClass]string{
	ClassKnight:   "knight",
	ClassPaladin:  "paladin",
	ClassArcher:   "archer",
	ClassThief:    "thief",
	ClassCleric:   "cleric",
	ClassSorcerer: "sorcerer",
	ClassDruid:    "druid",
}

// ParseClass maps a config class key ("knight") to a CharacterClass.
func ParseClass(key string) (CharacterClass, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for class, k := range classKeys {
		if k == key {
			return class, nil
		}
	}
	return ClassKnight, fmt.Errorf("unknown character class: %s", key)
}

// Key returns the config key for the class.
func (c CharacterClass) Key() string {
	return classKeys[c]
}

// Archetype groups the class for encounter roll bonuses.
func (c CharacterClass) Archetype() party.Archetype {
	switch c {
	case ClassThief:
		return party.ArchetypeRogue
	case ClassArcher:
		return party.ArchetypeScout
	case ClassSorcerer, ClassDruid:
		return party.ArchetypeCaster
	case ClassCleric:
		return party.ArchetypeDevout
	default:
		return party.ArchetypeFighter
	}
}

func CreateCharacter(name string, class CharacterClass, cfg *config.Config) *MMCharacter {
	char := &MMCharacter{
		Name:       name,
		Class:      class,
		Level:      1,
		Conditions: make([]StatusEffect, 0),
	}

	stats, ok := cfg.GetClassStats(class.Key())
	if !ok {
		// Unconfigured classes get a neutral block
		stats = config.ClassStats{
			Might: party.DefaultAttribute, Intellect: party.DefaultAttribute, Personality: party.DefaultAttribute,
			Endurance: party.DefaultAttribute, Accuracy: party.DefaultAttribute, Speed: party.DefaultAttribute,
			Luck: party.DefaultAttribute,
		}
	}
	char.Might = stats.Might
	char.Intellect = stats.Intellect
	char.Personality = stats.Personality
	char.Endurance = stats.Endurance
	char.Accuracy = stats.Accuracy
	char.Speed = stats.Speed
	char.Luck = stats.Luck

	char.CalculateDerivedStats(cfg)
	return char
}

func (c *MMCharacter) CalculateDerivedStats(cfg *config.Config) {
	// Calculate hit points (Endurance based)
	c.MaxHitPoints = c.Endurance*cfg.Characters.HitPoints.EnduranceMultiplier + c.Level*cfg.Characters.HitPoints.LevelMultiplier
	c.MaxHitPoints = mathutil.IntMax(c.MaxHitPoints, 1)
	c.HitPoints = c.MaxHitPoints

	c.MaxSpellPoints = c.Intellect + c.Personality + c.Level*cfg.Characters.SpellPoints.LevelMultiplier
	c.SpellPoints = c.MaxSpellPoints
}

// SetLevel raises the character to level and recomputes derived stats.
func (c *MMCharacter) SetLevel(level int, cfg *config.Config) {
	if level < 1 {
		level = 1
	}
	c.Level = level
	c.CalculateDerivedStats(cfg)
}

func (c *MMCharacter) IsAlive() bool {
	return c.HitPoints > 0 && !c.HasCondition(ConditionDead)
}

// TakeDamage reduces hit points, never below zero, and returns the damage
// actually dealt. A character dropping to zero falls unconscious.
func (c *MMCharacter) TakeDamage(amount int) int {
	if amount <= 0 || c.HitPoints <= 0 {
		return 0
	}
	dealt := mathutil.IntMin(amount, c.HitPoints)
	c.HitPoints -= dealt
	if c.HitPoints == 0 {
		c.AddCondition(ConditionUnconscious, 0)
	}
	return dealt
}

// Heal restores hit points up to the maximum and returns the amount healed.
// Healing does not revive the unconscious.
func (c *MMCharacter) Heal(amount int) int {
	if amount <= 0 || c.HitPoints <= 0 {
		return 0
	}
	before := c.HitPoints
	c.HitPoints = mathutil.IntMin(c.HitPoints+amount, c.MaxHitPoints)
	return c.HitPoints - before
}
