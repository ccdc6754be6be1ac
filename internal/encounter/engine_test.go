package encounter_test

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"grimdelve/internal/boss"
	"grimdelve/internal/bridge"
	"grimdelve/internal/character"
	"grimdelve/internal/config"
	"grimdelve/internal/dice"
	"grimdelve/internal/dice/mocks"
	"grimdelve/internal/encounter"
	"grimdelve/internal/party"
	"grimdelve/internal/trap"
	"grimdelve/internal/treasure"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newParty(t *testing.T) (*character.Party, party.Party) {
	t.Helper()
	p, err := character.NewParty(config.Default())
	if err != nil {
		t.Fatalf("NewParty: %v", err)
	}
	return p, bridge.Party(p)
}

func newEngine(t *testing.T, src dice.Source, opts ...encounter.Option) *encounter.Engine {
	t.Helper()
	opts = append([]encounter.Option{encounter.WithSource(src), encounter.WithLogger(quiet)}, opts...)
	e, err := encounter.NewEngine(opts...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestNewEngineDefaults(t *testing.T) {
	e := newEngine(t, dice.NewSeeded(1))
	if _, err := uuid.Parse(e.RunID()); err != nil {
		t.Errorf("run id %q is not a UUID: %v", e.RunID(), err)
	}
	if len(e.Traps().Kinds()) == 0 || len(e.Treasures().Kinds()) == 0 || len(e.Bosses().IDs()) == 0 {
		t.Error("embedded catalogs should be loaded")
	}
	if got := newEngine(t, dice.NewSeeded(1), encounter.WithRunID("run-7")).RunID(); got != "run-7" {
		t.Errorf("WithRunID ignored: %s", got)
	}
}

func TestTrapsAreNotTracked(t *testing.T) {
	e := newEngine(t, dice.NewSeeded(5))
	_, p := newParty(t)
	triggered := 0
	for i := 0; i < 20; i++ {
		out, err := e.ActivateTrap(trap.KindArrow, p, 1)
		if err != nil {
			t.Fatal(err)
		}
		if out.Triggered {
			triggered++
		}
	}
	if triggered < 2 {
		t.Errorf("the same trap should keep firing, fired %d times", triggered)
	}
	if len(e.Registry().OpenedInstances()) != 0 {
		t.Error("traps must not be recorded in the registry")
	}
}

func TestTreasureOpensOncePerInstance(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Float64().Return(0.5),
		src.EXPECT().Float64().Return(0.5),
		src.EXPECT().IntRange(10, 50).Return(25),
		src.EXPECT().IntRange(0, 1).Return(0),
	)
	e := newEngine(t, src)
	chars, p := newParty(t)

	first, err := e.OpenTreasure("chest_1", treasure.KindWoodenChest, p, 1, nil)
	if err != nil || !first.Success {
		t.Fatalf("first open: %+v, %v", first, err)
	}
	second, err := e.OpenTreasure("chest_1", treasure.KindWoodenChest, p, 1, nil)
	if err != nil || !second.AlreadyOpened {
		t.Fatalf("second open: %+v, %v", second, err)
	}
	if chars.Gold != 225 {
		t.Errorf("gold = %d, want 225", chars.Gold)
	}

	e.ResetInstance("chest_1")
	if e.Registry().IsOpened("chest_1") {
		t.Error("ResetInstance should forget chest_1")
	}
}

func TestEnterBossRoomReturnsActiveEncounter(t *testing.T) {
	e := newEngine(t, dice.NewSeeded(2))
	first, err := e.EnterBossRoom("goblin_king", 5, "room_5")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := first.ApplyDamage(50); err != nil {
		t.Fatal(err)
	}

	again, err := e.EnterBossRoom("cave_troll", 5, "room_5")
	if err != nil {
		t.Fatal(err)
	}
	if again != first || again.CurrentHP() != first.MaxHP()-50 {
		t.Error("re-entry should return the live encounter untouched")
	}

	if _, err := first.Complete(true); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.ActiveBoss("room_5"); ok {
		t.Error("completed encounter should leave the registry")
	}

	fresh, err := e.EnterBossRoom("goblin_king", 5, "room_5")
	if err != nil {
		t.Fatal(err)
	}
	if fresh == first || fresh.Completed() {
		t.Error("entering after completion should start a new fight")
	}
}

func TestEnterBossRoomUnknownBoss(t *testing.T) {
	e := newEngine(t, dice.NewSeeded(2))
	if _, err := e.EnterBossRoom("kraken", 5, "room"); !errors.Is(err, boss.ErrUnknownBossID) {
		t.Fatalf("expected ErrUnknownBossID, got %v", err)
	}
	if len(e.Registry().ActiveBosses()) != 0 {
		t.Error("failed entry must not register anything")
	}
}

func TestBossForLevel(t *testing.T) {
	e := newEngine(t, dice.NewSeeded(2))
	if _, ok := e.BossForLevel(7); ok {
		t.Error("level 7 has no boss")
	}
	id, ok := e.BossForLevel(20)
	if !ok {
		t.Fatal("level 20 should have a boss")
	}
	if def, _ := e.Bosses().Get(id); def.Category != boss.CategoryDungeon {
		t.Errorf("level 20 picked %s", id)
	}
}

func TestSnapshotRestore(t *testing.T) {
	src := dice.NewSeeded(11)
	e := newEngine(t, src, encounter.WithRunID("run-1"))
	_, p := newParty(t)

	e.Registry().MarkOpened("chest_b")
	e.Registry().MarkOpened("chest_a")
	enc, err := e.EnterBossRoom("bone_lich", 10, "lich_room")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := enc.ApplyDamage(enc.MaxHP() * 2 / 3); err != nil {
		t.Fatal(err)
	}
	if _, err := enc.TakeTurn(p); err != nil {
		t.Fatal(err)
	}

	snap := e.Snapshot()
	if !reflect.DeepEqual(snap.OpenedInstances, []string{"chest_a", "chest_b"}) {
		t.Errorf("opened = %v", snap.OpenedInstances)
	}
	if len(snap.ActiveBosses) != 1 || snap.ActiveBosses[0].Phase != "ENRAGED" {
		t.Fatalf("unexpected bosses %+v", snap.ActiveBosses)
	}

	data, err := snap.MarshalYAMLBytes()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := encounter.ParseSnapshotYAML(data)
	if err != nil {
		t.Fatal(err)
	}

	restored := newEngine(t, dice.NewSeeded(12), encounter.WithRunID("run-1"))
	if err := restored.Restore(decoded); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(restored.Snapshot(), snap) {
		t.Errorf("restored snapshot differs:\n got %+v\nwant %+v", restored.Snapshot(), snap)
	}

	lich, ok := restored.ActiveBoss("lich_room")
	if !ok {
		t.Fatal("lich not restored")
	}
	if _, err := lich.Complete(true); err != nil {
		t.Fatal(err)
	}
	if _, ok := restored.ActiveBoss("lich_room"); ok {
		t.Error("restored encounter should still deregister on completion")
	}
}

func TestRestoreRejectsBadSnapshots(t *testing.T) {
	e := newEngine(t, dice.NewSeeded(1), encounter.WithRunID("run-1"))
	e.Registry().MarkOpened("keep_me")

	err := e.Restore(encounter.Snapshot{RunID: "run-2"})
	if !errors.Is(err, encounter.ErrRunMismatch) {
		t.Errorf("expected ErrRunMismatch, got %v", err)
	}

	bad := encounter.Snapshot{
		RunID:        "run-1",
		ActiveBosses: []boss.Summary{{BossID: "kraken", InstanceID: "x", Level: 5}},
	}
	if err := e.Restore(bad); !errors.Is(err, boss.ErrUnknownBossID) {
		t.Errorf("expected ErrUnknownBossID, got %v", err)
	}
	if !e.Registry().IsOpened("keep_me") {
		t.Error("failed restore must leave the registry alone")
	}
}

func TestStaleEncounterAfterResetKeepsNewFight(t *testing.T) {
	e := newEngine(t, dice.NewSeeded(4))
	old, err := e.EnterBossRoom("goblin_king", 5, "room_5")
	if err != nil {
		t.Fatal(err)
	}
	e.ResetInstance("room_5")
	fresh, err := e.EnterBossRoom("goblin_king", 5, "room_5")
	if err != nil {
		t.Fatal(err)
	}
	if fresh == old {
		t.Fatal("reset should let a new fight start")
	}

	if _, err := old.Flee(); err != nil {
		t.Fatal(err)
	}
	if got, ok := e.ActiveBoss("room_5"); !ok || got != fresh {
		t.Fatal("fleeing the stale fight evicted the live one")
	}
	if len(e.Snapshot().ActiveBosses) != 1 {
		t.Error("snapshot should still carry the live fight")
	}
}

func TestPreRestoreHandleKeepsRestoredFight(t *testing.T) {
	e := newEngine(t, dice.NewSeeded(4), encounter.WithRunID("run-1"))
	before, err := e.EnterBossRoom("goblin_king", 5, "room_6")
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Restore(e.Snapshot()); err != nil {
		t.Fatal(err)
	}
	restored, ok := e.ActiveBoss("room_6")
	if !ok || restored == before {
		t.Fatal("restore should register a rebuilt encounter")
	}

	if _, err := before.Complete(true); err != nil {
		t.Fatal(err)
	}
	if got, ok := e.ActiveBoss("room_6"); !ok || got != restored {
		t.Fatal("completing the pre-restore handle evicted the restored fight")
	}
	if s := e.Snapshot(); len(s.ActiveBosses) != 1 || s.ActiveBosses[0].InstanceID != "room_6" {
		t.Errorf("unexpected snapshot %+v", s.ActiveBosses)
	}
}
