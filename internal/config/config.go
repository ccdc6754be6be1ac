package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all simulator and engine configuration values
type Config struct {
	Content    ContentConfig    `yaml:"content"`
	Characters CharacterConfig  `yaml:"characters"`
	Party      []PartyMember    `yaml:"party"`
	Simulation SimulationConfig `yaml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging"`
	Storage    StorageConfig    `yaml:"storage"`
}

// ContentConfig points at catalog files. Empty paths use the embedded assets.
type ContentConfig struct {
	TrapsFile     string `yaml:"traps_file" env:"GRIMDELVE_TRAPS_FILE"`
	TreasuresFile string `yaml:"treasures_file" env:"GRIMDELVE_TREASURES_FILE"`
	BossesFile    string `yaml:"bosses_file" env:"GRIMDELVE_BOSSES_FILE"`
}

type CharacterConfig struct {
	StartingGold int                   `yaml:"starting_gold" env:"GRIMDELVE_STARTING_GOLD"`
	StartingFood int                   `yaml:"starting_food"`
	HitPoints    HitPointsConfig       `yaml:"hit_points"`
	SpellPoints  SpellPointsConfig     `yaml:"spell_points"`
	Classes      map[string]ClassStats `yaml:"classes"`
}

type HitPointsConfig struct {
	EnduranceMultiplier int `yaml:"endurance_multiplier"`
	LevelMultiplier     int `yaml:"level_multiplier"`
}

type SpellPointsConfig struct {
	LevelMultiplier int `yaml:"level_multiplier"`
}

type ClassStats struct {
	Might       int `yaml:"might"`
	Intellect   int `yaml:"intellect"`
	Personality int `yaml:"personality"`
	Endurance   int `yaml:"endurance"`
	Accuracy    int `yaml:"accuracy"`
	Speed       int `yaml:"speed"`
	Luck        int `yaml:"luck"`
}

// PartyMember is one roster entry of the simulated party.
type PartyMember struct {
	Name  string `yaml:"name"`
	Class string `yaml:"class"`
	Level int    `yaml:"level"`
}

type SimulationConfig struct {
	Floors int   `yaml:"floors" env:"GRIMDELVE_FLOORS"`
	Runs   int   `yaml:"runs" env:"GRIMDELVE_RUNS"`
	Seed   int64 `yaml:"seed" env:"GRIMDELVE_SEED"` // 0 = unseeded
	// Party damage dealt to a boss per turn, before level scaling
	PartyDamageMin int `yaml:"party_damage_min"`
	PartyDamageMax int `yaml:"party_damage_max"`
	MaxBossTurns   int `yaml:"max_boss_turns"`
}

type LoggingConfig struct {
	Level string `yaml:"level" env:"GRIMDELVE_LOG_LEVEL"`
}

type StorageConfig struct {
	// Empty disables snapshot persistence
	DatabasePath string `yaml:"database_path" env:"GRIMDELVE_DB"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Characters: CharacterConfig{
			StartingGold: 200,
			StartingFood: 20,
			HitPoints:    HitPointsConfig{EnduranceMultiplier: 3, LevelMultiplier: 5},
			SpellPoints:  SpellPointsConfig{LevelMultiplier: 2},
			Classes: map[string]ClassStats{
				"knight":   {Might: 16, Intellect: 8, Personality: 10, Endurance: 16, Accuracy: 12, Speed: 10, Luck: 10},
				"thief":    {Might: 10, Intellect: 12, Personality: 10, Endurance: 11, Accuracy: 14, Speed: 17, Luck: 14},
				"archer":   {Might: 12, Intellect: 11, Personality: 10, Endurance: 12, Accuracy: 17, Speed: 14, Luck: 11},
				"sorcerer": {Might: 7, Intellect: 17, Personality: 12, Endurance: 9, Accuracy: 10, Speed: 11, Luck: 12},
				"cleric":   {Might: 11, Intellect: 11, Personality: 16, Endurance: 13, Accuracy: 10, Speed: 10, Luck: 11},
			},
		},
		Party: []PartyMember{
			{Name: "Gareth", Class: "knight", Level: 1},
			{Name: "Vex", Class: "thief", Level: 1},
			{Name: "Lysander", Class: "sorcerer", Level: 1},
			{Name: "Celestine", Class: "cleric", Level: 1},
		},
		Simulation: SimulationConfig{
			Floors:         10,
			Runs:           1,
			PartyDamageMin: 8,
			PartyDamageMax: 20,
			MaxBossTurns:   60,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadConfig loads the configuration from a YAML file on top of Default,
// then applies GRIMDELVE_* environment overrides.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	cfg, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

// ParseEnv loads overrides from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects configurations the simulator cannot run.
func (c *Config) Validate() error {
	if c.Simulation.Floors < 1 {
		return fmt.Errorf("simulation.floors must be at least 1, got %d", c.Simulation.Floors)
	}
	if c.Simulation.Runs < 1 {
		return fmt.Errorf("simulation.runs must be at least 1, got %d", c.Simulation.Runs)
	}
	if c.Simulation.PartyDamageMax < c.Simulation.PartyDamageMin {
		return fmt.Errorf("simulation.party_damage_max (%d) below party_damage_min (%d)",
			c.Simulation.PartyDamageMax, c.Simulation.PartyDamageMin)
	}
	if c.Simulation.MaxBossTurns < 1 {
		return fmt.Errorf("simulation.max_boss_turns must be at least 1, got %d", c.Simulation.MaxBossTurns)
	}
	if len(c.Party) == 0 {
		return fmt.Errorf("party roster is empty")
	}
	if c.Characters.StartingGold < 0 {
		return fmt.Errorf("characters.starting_gold must not be negative")
	}
	return nil
}

// GetClassStats returns the stat block for a class key, if configured.
func (c *Config) GetClassStats(classKey string) (ClassStats, bool) {
	stats, ok := c.Characters.Classes[strings.ToLower(classKey)]
	return stats, ok
}

// LogLevel maps the configured level name onto slog.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
