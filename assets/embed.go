// Package assets embeds the default encounter content so the engine runs
// without any files on disk. config.ContentConfig paths override these.
package assets

import "embed"

const (
	TrapsFile     = "traps.yaml"
	TreasuresFile = "treasures.yaml"
	BossesFile    = "bosses.yaml"
)

//go:embed traps.yaml treasures.yaml bosses.yaml
var content embed.FS

// Read returns the embedded file with the given name.
func Read(name string) ([]byte, error) {
	return content.ReadFile(name)
}
