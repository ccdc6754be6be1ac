package boss

import (
	"fmt"

	"grimdelve/internal/mathutil"
)

// Summary is the persisted form of an active encounter.
type Summary struct {
	BossID     string `json:"boss_id" yaml:"boss_id"`
	InstanceID string `json:"instance_id" yaml:"instance_id"`
	Level      int    `json:"level" yaml:"level"`
	Phase      string `json:"phase" yaml:"phase"`
	PhaseIndex int    `json:"phase_index" yaml:"phase_index"`
	CurrentHP  int    `json:"current_hp" yaml:"current_hp"`
	MaxHP      int    `json:"max_hp" yaml:"max_hp"`
	TurnCount  int    `json:"turn_count" yaml:"turn_count"`
}

// Summary captures the encounter's resumable state.
func (e *Encounter) Summary() Summary {
	return Summary{
		BossID:     e.def.ID,
		InstanceID: e.instanceID,
		Level:      e.level,
		Phase:      e.def.Phases[e.phase].Tag,
		PhaseIndex: e.phase,
		CurrentHP:  e.currentHP,
		MaxHP:      e.maxHP,
		TurnCount:  e.turns,
	}
}

// Restore rebuilds an encounter from a summary. Max HP is recomputed from
// the catalog, so current HP is clamped to it. A phase behind what the HP
// implies is advanced, as if the damage had just landed.
func (c *Catalog) Restore(s Summary, opts ...Option) (*Encounter, error) {
	e, err := c.NewEncounter(s.BossID, s.Level, s.InstanceID, opts...)
	if err != nil {
		return nil, err
	}
	if s.PhaseIndex < 0 || s.PhaseIndex >= len(e.def.Phases) {
		return nil, fmt.Errorf("restore %s: phase index %d out of range", s.InstanceID, s.PhaseIndex)
	}
	if s.Phase != "" && e.def.Phases[s.PhaseIndex].Tag != s.Phase {
		return nil, fmt.Errorf("restore %s: phase %d is %s, not %s",
			s.InstanceID, s.PhaseIndex, e.def.Phases[s.PhaseIndex].Tag, s.Phase)
	}
	e.phase = s.PhaseIndex
	e.turns = s.TurnCount
	e.currentHP = mathutil.IntClamp(s.CurrentHP, 0, e.maxHP)
	if _, _, err := e.CheckPhaseTransition(); err != nil {
		return nil, err
	}
	return e, nil
}
