package encounter

import (
	"sort"

	"grimdelve/internal/boss"
)

// Registry is the per-run ledger of opened treasure and live boss fights.
// Traps are deliberately absent: they re-arm on every visit.
type Registry struct {
	opened map[string]struct{}
	active map[string]*boss.Encounter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		opened: make(map[string]struct{}),
		active: make(map[string]*boss.Encounter),
	}
}

// IsOpened reports whether the treasure instance has been looted.
func (r *Registry) IsOpened(instanceID string) bool {
	_, ok := r.opened[instanceID]
	return ok
}

// MarkOpened records a looted treasure instance.
func (r *Registry) MarkOpened(instanceID string) {
	r.opened[instanceID] = struct{}{}
}

// OpenedInstances returns the looted instance ids, sorted.
func (r *Registry) OpenedInstances() []string {
	ids := make([]string, 0, len(r.opened))
	for id := range r.opened {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ActiveBoss returns the live encounter for instanceID.
func (r *Registry) ActiveBoss(instanceID string) (*boss.Encounter, bool) {
	e, ok := r.active[instanceID]
	return e, ok
}

// AddBoss registers a live encounter under its instance id.
func (r *Registry) AddBoss(e *boss.Encounter) {
	r.active[e.InstanceID()] = e
}

// RemoveBoss drops e from the active map. A stale handle, left over from
// before a reset or restore, never evicts the fight registered in its place.
func (r *Registry) RemoveBoss(e *boss.Encounter) {
	if cur, ok := r.active[e.InstanceID()]; ok && cur == e {
		delete(r.active, e.InstanceID())
	}
}

// ActiveBosses returns live encounters sorted by instance id.
func (r *Registry) ActiveBosses() []*boss.Encounter {
	out := make([]*boss.Encounter, 0, len(r.active))
	for _, e := range r.active {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InstanceID() < out[j].InstanceID() })
	return out
}

// ResetInstance forgets everything recorded about instanceID.
func (r *Registry) ResetInstance(instanceID string) {
	delete(r.opened, instanceID)
	delete(r.active, instanceID)
}

// Clear empties the registry.
func (r *Registry) Clear() {
	clear(r.opened)
	clear(r.active)
}
