package boss_test

import (
	"io"
	"log/slog"
	"testing"

	"grimdelve/internal/boss"
	"grimdelve/internal/bridge"
	"grimdelve/internal/character"
	"grimdelve/internal/config"
	"grimdelve/internal/dice"
	"grimdelve/internal/party"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newParty(t *testing.T, n int) (*character.Party, party.Party) {
	t.Helper()
	cfg := config.Default()
	cfg.Party = cfg.Party[:n]
	p, err := character.NewParty(cfg)
	if err != nil {
		t.Fatalf("NewParty: %v", err)
	}
	return p, bridge.Party(p)
}

func defaultCatalog(t *testing.T) *boss.Catalog {
	t.Helper()
	c, err := boss.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	return c
}

func newEncounter(t *testing.T, c *boss.Catalog, id string, level int, src dice.Source) *boss.Encounter {
	t.Helper()
	e, err := c.NewEncounter(id, level, "boss_room_"+id, boss.WithSource(src), boss.WithLogger(quiet))
	if err != nil {
		t.Fatalf("NewEncounter(%s): %v", id, err)
	}
	return e
}

// twoPhaseBoss has a single 50% threshold.
const twoPhaseBoss = `
bosses:
  - id: ogre
    name: Ogre
    category: floor
    base_hp: 100
    base_attack: 10
    base_armor_class: 10
    abilities:
      punch: {name: Punch, type: single_damage, damage_min: 1, damage_max: 3}
    phases:
      - tag: INITIAL
        threshold: 1.0
        abilities: [{id: punch, weight: 1}]
      - tag: ENRAGED
        threshold: 0.5
        abilities: [{id: punch, weight: 1}]
    rewards: {gold_min: 10, gold_max: 20, experience: 50}
`
