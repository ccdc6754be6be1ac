package boss_test

import (
	"errors"
	"testing"

	"grimdelve/internal/boss"
	"grimdelve/internal/dice"
	"grimdelve/internal/monster"
)

func TestDefaultCatalog(t *testing.T) {
	c := defaultCatalog(t)
	cases := map[boss.Category]int{
		boss.CategoryFloor:   3,
		boss.CategoryArea:    2,
		boss.CategoryDungeon: 2,
	}
	for cat, want := range cases {
		if got := len(c.InCategory(cat)); got != want {
			t.Errorf("%s bosses: got %d, want %d", cat, got, want)
		}
	}
	dragon, ok := c.Get("ancient_dragon")
	if !ok {
		t.Fatal("ancient_dragon missing")
	}
	if dragon.Resistances[monster.DamageFire] != 75 {
		t.Errorf("dragon fire resistance = %d", dragon.Resistances[monster.DamageFire])
	}
	if len(dragon.Phases) != 3 || dragon.Phases[0].Threshold != 1.0 {
		t.Errorf("unexpected dragon phases: %+v", dragon.Phases)
	}
}

func TestIsBossLevel(t *testing.T) {
	cases := []struct {
		level int
		want  bool
		cat   boss.Category
	}{
		{1, false, boss.CategoryFloor},
		{4, false, boss.CategoryFloor},
		{5, true, boss.CategoryFloor},
		{10, true, boss.CategoryArea},
		{15, true, boss.CategoryFloor},
		{19, false, boss.CategoryFloor},
		{20, true, boss.CategoryDungeon},
		{23, true, boss.CategoryDungeon},
		{30, true, boss.CategoryDungeon},
	}
	for _, c := range cases {
		if got := boss.IsBossLevel(c.level); got != c.want {
			t.Errorf("IsBossLevel(%d) = %v, want %v", c.level, got, c.want)
		}
		if got := boss.CategoryFor(c.level); got != c.cat {
			t.Errorf("CategoryFor(%d) = %s, want %s", c.level, got, c.cat)
		}
	}
}

func TestForLevel(t *testing.T) {
	c := defaultCatalog(t)
	src := dice.NewSeeded(9)
	if _, ok := c.ForLevel(src, 3); ok {
		t.Error("level 3 has no boss")
	}
	for i := 0; i < 50; i++ {
		id, ok := c.ForLevel(src, 10)
		if !ok {
			t.Fatal("level 10 should have a boss")
		}
		def, _ := c.Get(id)
		if def.Category != boss.CategoryArea {
			t.Fatalf("level 10 picked %s (%s)", id, def.Category)
		}
	}
}

func TestLevelScaling(t *testing.T) {
	c := defaultCatalog(t)
	e := newEncounter(t, c, "goblin_king", 5, dice.NewSeeded(1))
	if e.MaxHP() != 192 || e.CurrentHP() != 192 {
		t.Errorf("goblin king level 5 HP = %d/%d, want 192", e.CurrentHP(), e.MaxHP())
	}
	if e.Attack() != 16 || e.ArmorClass() != 14 {
		t.Errorf("goblin king level 5 attack/armor = %d/%d, want 16/14", e.Attack(), e.ArmorClass())
	}
}

func TestUnknownBossID(t *testing.T) {
	c := defaultCatalog(t)
	if _, err := c.NewEncounter("kraken", 5, "x"); !errors.Is(err, boss.ErrUnknownBossID) {
		t.Fatalf("expected ErrUnknownBossID, got %v", err)
	}
}

func TestParseCatalogRejectsBadContent(t *testing.T) {
	cases := map[string]string{
		"first phase below 1": `
bosses:
  - id: x
    category: floor
    base_hp: 10
    abilities: {a: {type: summon, minion: Rat, count: 1}}
    phases:
      - {tag: A, threshold: 0.9, abilities: [{id: a, weight: 1}]}
`,
		"thresholds rise": `
bosses:
  - id: x
    category: floor
    base_hp: 10
    abilities: {a: {type: summon, minion: Rat, count: 1}}
    phases:
      - {tag: A, threshold: 1.0, abilities: [{id: a, weight: 1}]}
      - {tag: B, threshold: 0.3, abilities: [{id: a, weight: 1}]}
      - {tag: C, threshold: 0.6, abilities: [{id: a, weight: 1}]}
`,
		"unknown category": `
bosses:
  - id: x
    category: world
    base_hp: 10
    abilities: {a: {type: summon, minion: Rat, count: 1}}
    phases:
      - {tag: A, threshold: 1.0, abilities: [{id: a, weight: 1}]}
`,
		"shrinking hp": `
bosses:
  - id: x
    category: floor
    base_hp: 10
    hp_per_level: -0.2
    abilities: {a: {type: summon, minion: Rat, count: 1}}
    phases:
      - {tag: A, threshold: 1.0, abilities: [{id: a, weight: 1}]}
`,
		"shrinking armor": `
bosses:
  - id: x
    category: floor
    base_hp: 10
    armor_per_level: -1
    abilities: {a: {type: summon, minion: Rat, count: 1}}
    phases:
      - {tag: A, threshold: 1.0, abilities: [{id: a, weight: 1}]}
`,
		"bad ability type": `
bosses:
  - id: x
    category: floor
    base_hp: 10
    abilities: {a: {type: teleport}}
    phases:
      - {tag: A, threshold: 1.0, abilities: [{id: a, weight: 1}]}
`,
	}
	for name, doc := range cases {
		if _, err := boss.ParseCatalog([]byte(doc)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}

	missing := `
bosses:
  - id: x
    category: floor
    base_hp: 10
    abilities: {a: {type: summon, minion: Rat, count: 1}}
    phases:
      - {tag: A, threshold: 1.0, abilities: [{id: b, weight: 1}]}
`
	if _, err := boss.ParseCatalog([]byte(missing)); !errors.Is(err, boss.ErrUnknownAbility) {
		t.Errorf("expected ErrUnknownAbility, got %v", err)
	}
}
