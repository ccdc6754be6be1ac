package trap_test

import (
	"io"
	"log/slog"
	"testing"

	"grimdelve/internal/bridge"
	"grimdelve/internal/character"
	"grimdelve/internal/config"
	"grimdelve/internal/dice"
	"grimdelve/internal/party"
	"grimdelve/internal/trap"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// newParty builds the first n members of the default roster
// (Gareth the knight, Vex the thief, Lysander the sorcerer, Celestine the cleric).
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

func newResolver(t *testing.T, src dice.Source) *trap.Resolver {
	t.Helper()
	catalog, err := trap.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	return trap.NewResolver(catalog, src, quiet)
}
