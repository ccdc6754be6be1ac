package treasure_test

import (
	"io"
	"log/slog"
	"testing"

	"grimdelve/internal/bridge"
	"grimdelve/internal/character"
	"grimdelve/internal/config"
	"grimdelve/internal/dice"
	"grimdelve/internal/party"
	"grimdelve/internal/treasure"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type memoryLedger map[string]bool

func (l memoryLedger) IsOpened(id string) bool { return l[id] }
func (l memoryLedger) MarkOpened(id string)    { l[id] = true }

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

func newResolver(t *testing.T, src dice.Source) (*treasure.Resolver, memoryLedger) {
	t.Helper()
	catalog, err := treasure.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	ledger := memoryLedger{}
	return treasure.NewResolver(catalog, ledger, src, quiet), ledger
}
