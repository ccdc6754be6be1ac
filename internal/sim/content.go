// Package sim drives the encounter engine through whole dungeon runs.
package sim

import (
	"grimdelve/internal/boss"
	"grimdelve/internal/config"
	"grimdelve/internal/trap"
	"grimdelve/internal/treasure"
)

// Content is the catalog set shared by every run. Catalogs are read-only
// once loaded.
type Content struct {
	Traps     *trap.Catalog
	Treasures *treasure.Catalog
	Bosses    *boss.Catalog
}

// MustLoadContent reads the configured catalog files, falling back to the
// embedded assets for empty paths. It panics on bad content.
func MustLoadContent(cfg config.ContentConfig) Content {
	var c Content
	if cfg.TrapsFile != "" {
		c.Traps = trap.MustLoadCatalog(cfg.TrapsFile)
	} else {
		c.Traps = must(trap.DefaultCatalog())
	}
	if cfg.TreasuresFile != "" {
		c.Treasures = treasure.MustLoadCatalog(cfg.TreasuresFile)
	} else {
		c.Treasures = must(treasure.DefaultCatalog())
	}
	if cfg.BossesFile != "" {
		c.Bosses = boss.MustLoadCatalog(cfg.BossesFile)
	} else {
		c.Bosses = must(boss.DefaultCatalog())
	}
	return c
}

func must[T any](v T, err error) T {
	if err != nil {
		panic("Failed to load embedded content: " + err.Error())
	}
	return v
}
