package encounter

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"grimdelve/internal/boss"
)

// Snapshot is the persisted state of one run's registry.
type Snapshot struct {
	RunID           string         `json:"run_id" yaml:"run_id"`
	OpenedInstances []string       `json:"opened_instances" yaml:"opened_instances"`
	ActiveBosses    []boss.Summary `json:"active_bosses" yaml:"active_bosses"`
}

// MarshalYAMLBytes renders the snapshot as YAML.
func (s Snapshot) MarshalYAMLBytes() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// ParseSnapshotYAML decodes a snapshot written by MarshalYAMLBytes.
func ParseSnapshotYAML(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot YAML: %w", err)
	}
	return s, nil
}
