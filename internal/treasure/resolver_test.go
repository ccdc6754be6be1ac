package treasure_test

import (
	"errors"
	"fmt"
	"testing"

	"go.uber.org/mock/gomock"

	"grimdelve/internal/bridge"
	"grimdelve/internal/dice"
	"grimdelve/internal/dice/mocks"
	"grimdelve/internal/items"
	"grimdelve/internal/treasure"
)

func TestWoodenChestScenario(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Float64().Return(0.50),      // no mimic
		src.EXPECT().Float64().Return(0.50),      // no trap
		src.EXPECT().IntRange(10, 50).Return(33), // gold
		src.EXPECT().IntRange(0, 1).Return(0),    // no items
	)

	chars, p := newParty(t, 3)
	chars.Gold = 0
	r, ledger := newResolver(t, src)

	out, err := r.Open("chest_1", treasure.KindWoodenChest, p, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Success || out.Gold != 33 || chars.Gold != 33 {
		t.Fatalf("expected 33 gold looted, got %+v (party gold %d)", out, chars.Gold)
	}
	if !ledger["chest_1"] {
		t.Error("chest_1 should be marked opened")
	}

	// Second open: no rolls (the mock would fail on any), no side effects.
	again, err := r.Open("chest_1", treasure.KindWoodenChest, p, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if again.Success || !again.AlreadyOpened || again.Gold != 0 {
		t.Errorf("expected already-opened outcome, got %+v", again)
	}
	if chars.Gold != 33 {
		t.Errorf("gold changed on re-open: %d", chars.Gold)
	}
}

func TestWoodenChestGoldRange(t *testing.T) {
	r, _ := newResolver(t, dice.NewSeeded(31))
	looted := 0
	for i := 0; i < 400; i++ {
		chars, p := newParty(t, 3)
		chars.Gold = 0
		out, err := r.Open(fmt.Sprintf("chest_%d", i), treasure.KindWoodenChest, p, 1, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !out.Success {
			continue
		}
		looted++
		if out.Gold < 10 || out.Gold > 50 || chars.Gold != out.Gold {
			t.Fatalf("gold %d (party %d) outside [10,50]", out.Gold, chars.Gold)
		}
	}
	if looted == 0 {
		t.Fatal("no chest was looted")
	}
}

func TestMimicLeavesChestClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Float64().Return(0.01)

	chars, p := newParty(t, 3)
	r, ledger := newResolver(t, src)
	out, err := r.Open("chest_m", treasure.KindWoodenChest, p, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Mimic || out.Success || ledger["chest_m"] {
		t.Errorf("expected unopened mimic, got %+v", out)
	}
	if chars.Gold != 200 {
		t.Error("mimic must not pay out")
	}
}

func TestLockIsRetryable(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	chars, p := newParty(t, 3)
	vex := bridge.Member(chars.Members[1])
	r, ledger := newResolver(t, src)

	gomock.InOrder(
		src.EXPECT().Float64().Return(0.50), // no mimic
		src.EXPECT().Float64().Return(0.99), // lock holds
	)
	out, err := r.Open("iron_1", treasure.KindIronChest, p, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Locked || ledger["iron_1"] {
		t.Fatalf("expected locked chest left unopened, got %+v", out)
	}

	// Vex the thief tries again: 0.70 base + 0.30 rogue is capped at 0.95
	gomock.InOrder(
		src.EXPECT().Float64().Return(0.50),
		src.EXPECT().Float64().Return(0.90), // lock opens
		src.EXPECT().Float64().Return(0.90), // no trap
		src.EXPECT().IntRange(30, 100).Return(50),
		src.EXPECT().IntRange(1, 2).Return(1),
		src.EXPECT().Float64().Return(0.0), // rarity: common
		src.EXPECT().Float64().Return(0.0), // type: accessory
		src.EXPECT().IntRange(0, 1).Return(0),
	)
	out, err = r.Open("iron_1", treasure.KindIronChest, p, 1, vex)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Success || len(out.Items) != 1 {
		t.Fatalf("expected loot on retry, got %+v", out)
	}
	ring := out.Items[0]
	if ring.Name != "Copper Ring" || ring.Type != items.ItemAccessory || ring.Value != 10 {
		t.Errorf("unexpected item %+v", ring)
	}
	if out.TotalValue != 60 || chars.CountItem(ring.ID) != 1 {
		t.Errorf("total value %d, copper rings %d", out.TotalValue, chars.CountItem(ring.ID))
	}
}

func TestExplosionHitsEveryone(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Float64().Return(0.50),      // no mimic
		src.EXPECT().Float64().Return(0.0),       // trapped
		src.EXPECT().IntRange(0, 3).Return(2),    // explosion
		src.EXPECT().IntRange(10, 30).Return(20), // rolled once
		src.EXPECT().IntRange(10, 50).Return(10),
		src.EXPECT().IntRange(0, 1).Return(0),
	)

	chars, p := newParty(t, 3)
	r, ledger := newResolver(t, src)
	out, err := r.Open("boom", treasure.KindWoodenChest, p, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Trap == nil || out.Trap.Flavor != treasure.TrapExplosion {
		t.Fatalf("expected explosion, got %+v", out.Trap)
	}
	for _, m := range chars.Members {
		if m.MaxHitPoints-m.HitPoints != 10 {
			t.Errorf("%s took %d damage, want 10", m.Name, m.MaxHitPoints-m.HitPoints)
		}
	}
	if out.Trap.Damage != 30 || !ledger["boom"] || !out.Success {
		t.Errorf("unexpected outcome %+v", out)
	}
}

func TestNeedleTrapPoisons(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Float64().Return(0.50),
		src.EXPECT().Float64().Return(0.0),
		src.EXPECT().IntRange(0, 3).Return(0), // needle
		src.EXPECT().IntRange(0, 2).Return(2), // Lysander
		src.EXPECT().IntRange(2, 8).Return(5),
		src.EXPECT().IntRange(10, 50).Return(10),
		src.EXPECT().IntRange(0, 1).Return(0),
	)

	chars, p := newParty(t, 3)
	r, _ := newResolver(t, src)
	out, err := r.Open("needle", treasure.KindWoodenChest, p, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	lysander := chars.Members[2]
	if out.Trap.Damage != 5 || !lysander.HasCondition("poisoned") {
		t.Errorf("expected 5 damage and poison on Lysander, got %+v", out.Trap)
	}
}

func TestMeanTreasureValueGrowsWithLevel(t *testing.T) {
	r, _ := newResolver(t, dice.NewSeeded(4242))
	prev := -1.0
	for _, level := range []int{1, 5, 10, 15, 20} {
		total, looted := 0, 0
		for i := 0; i < 1000; i++ {
			_, p := newParty(t, 3)
			out, err := r.Open(fmt.Sprintf("L%d-%d", level, i), treasure.KindIronChest, p, level, nil)
			if err != nil {
				t.Fatal(err)
			}
			if out.Success {
				total += out.TotalValue
				looted++
			}
		}
		mean := float64(total) / float64(looted)
		if mean < prev {
			t.Errorf("level %d mean value %.1f below previous %.1f", level, mean, prev)
		}
		prev = mean
	}
}

func TestUnknownTreasureKind(t *testing.T) {
	chars, p := newParty(t, 3)
	r, ledger := newResolver(t, dice.NewSeeded(1))
	out, err := r.Open("x", "coffer", p, 1, nil)
	if !errors.Is(err, treasure.ErrUnknownTreasureKind) {
		t.Fatalf("expected ErrUnknownTreasureKind, got %v", err)
	}
	if out.Success || ledger["x"] || chars.Gold != 200 {
		t.Error("unknown kind must be a no-op")
	}
}

func TestOpenedInstanceIgnoresKind(t *testing.T) {
	chars, p := newParty(t, 3)
	r, ledger := newResolver(t, dice.NewSeeded(1))
	ledger["chest_9"] = true

	out, err := r.Open("chest_9", "coffer", p, 1, nil)
	if err != nil {
		t.Fatalf("opened instance should not error, got %v", err)
	}
	if !out.AlreadyOpened || out.Success || chars.Gold != 200 {
		t.Errorf("expected a no-op AlreadyOpened outcome, got %+v", out)
	}
}
