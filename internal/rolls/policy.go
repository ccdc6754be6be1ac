// Package rolls holds the stat-driven probability and scaling formulas used
// by every encounter resolver. All functions are pure; the only randomness
// comes from the Source passed to Success.
package rolls

import (
	"math"

	"grimdelve/internal/dice"
	"grimdelve/internal/mathutil"
	"grimdelve/internal/party"
)

const (
	DefaultDetectionBase = 0.10
	DefaultDisarmBase    = 0.05

	// floorEpsilon absorbs float error before truncation (5*1.1 must give 5, 15*1.1 must give 16).
	floorEpsilon = 1e-9
)

// ResistKind selects which attribute backs a resistance roll.
type ResistKind int

const (
	ResistPhysical ResistKind = iota // strength
	ResistMental                     // intelligence
)

func (k ResistKind) String() string {
	if k == ResistMental {
		return "mental"
	}
	return "physical"
}

// ScaleFactor is the per-level multiplier 1+(level-1)*pct.
func ScaleFactor(level int, perLevelPct float64) float64 {
	if level < 1 {
		level = 1
	}
	return 1 + float64(level-1)*perLevelPct
}

// ScaleByLevel multiplies both ends of a range by ScaleFactor and truncates.
func ScaleByLevel(lo, hi, level int, perLevelPct float64) (int, int) {
	f := ScaleFactor(level, perLevelPct)
	return truncate(float64(lo) * f), truncate(float64(hi) * f)
}

// ScaleValue scales a single base value the same way.
func ScaleValue(base, level int, perLevelPct float64) int {
	return truncate(float64(base) * ScaleFactor(level, perLevelPct))
}

func truncate(v float64) int {
	if v < 0 {
		return int(math.Ceil(v - floorEpsilon))
	}
	return int(math.Floor(v + floorEpsilon))
}

// Success makes one uniform draw and succeeds when it lands under p.
// Callers clamp p to [0, 1].
func Success(src dice.Source, p float64) bool {
	return src.Float64() < p
}

// DetectionChance is the chance a member spots a hidden trap.
func DetectionChance(m party.Member, base float64) float64 {
	chance := base
	switch m.Archetype() {
	case party.ArchetypeRogue:
		chance += 0.40
	case party.ArchetypeScout:
		chance += 0.20
	}
	chance += float64(m.Stats().Intelligence-party.DefaultAttribute) * 0.02
	chance += float64(m.Level()) * 0.01
	return mathutil.Clamp(chance, 0.05, 0.90)
}

// DisarmChance is the chance a member disarms a trap.
func DisarmChance(m party.Member, base float64) float64 {
	chance := base
	switch m.Archetype() {
	case party.ArchetypeRogue:
		chance += 0.50
	case party.ArchetypeScout:
		chance += 0.30
	case party.ArchetypeCaster:
		chance += 0.10
	}
	chance += float64(m.Stats().Agility-party.DefaultAttribute) * 0.02
	chance += float64(m.Level()) * 0.02
	return mathutil.Clamp(chance, 0.01, 0.80)
}

// LockpickChance is the chance to open a lock of the given difficulty
// (0-100). m may be nil when nobody in particular works the lock.
func LockpickChance(difficulty int, m party.Member) float64 {
	chance := math.Max(0.10, 1-float64(difficulty)/100)
	if m != nil {
		switch m.Archetype() {
		case party.ArchetypeRogue:
			chance += 0.30
		case party.ArchetypeScout:
			chance += 0.15
		}
		chance += float64(m.Stats().Agility-party.DefaultAttribute) * 0.01
		chance += float64(m.Level()) * 0.01
	}
	return mathutil.Clamp(chance, 0.05, 0.95)
}

// ResistChance is the chance a member shrugs off a status effect.
func ResistChance(m party.Member, kind ResistKind) float64 {
	stats := m.Stats()
	attr := stats.Strength
	if kind == ResistMental {
		attr = stats.Intelligence
	}
	return mathutil.Clamp(0.20+float64(attr)*0.01, 0, 0.95)
}
