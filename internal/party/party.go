// Package party defines the capability surface the encounter engine needs
// from the adventuring party. The engine reads and mutates characters only
// through these interfaces; the concrete party lives elsewhere.
package party

import "grimdelve/internal/items"

// Archetype groups character classes for roll bonuses.
type Archetype int

const (
	ArchetypeFighter Archetype = iota
	ArchetypeRogue
	ArchetypeScout
	ArchetypeCaster
	ArchetypeDevout
)

func (a Archetype) String() string {
	switch a {
	case ArchetypeFighter:
		return "fighter"
	case ArchetypeRogue:
		return "rogue"
	case ArchetypeScout:
		return "scout"
	case ArchetypeCaster:
		return "caster"
	case ArchetypeDevout:
		return "devout"
	default:
		return "unknown"
	}
}

// DefaultAttribute is the value every attribute takes when a member does
// not train it. It is also the pivot of every (attr-10) roll bonus.
const DefaultAttribute = 10

// Stats are the attributes encounter rolls read.
type Stats struct {
	Strength     int
	Agility      int
	Intelligence int
}

// DefaultStats returns a neutral stat block.
func DefaultStats() Stats {
	return Stats{Strength: DefaultAttribute, Agility: DefaultAttribute, Intelligence: DefaultAttribute}
}

// Member is one character as seen by the encounter engine.
type Member interface {
	Name() string
	Archetype() Archetype
	Level() int
	Stats() Stats
	IsAlive() bool
	// TakeDamage applies damage and returns what was actually dealt.
	// Clamping is the member's responsibility.
	TakeDamage(amount int) int
	// AddStatusEffect applies a named status for turns turns (0 = until cured).
	AddStatusEffect(name string, turns int)
}

// Party is the shared state trap, treasure and boss resolution mutate.
type Party interface {
	Members() []Member
	LivingMembers() []Member
	Gold() int
	// SetGold stores the new gold total. Implementations clamp at zero.
	SetGold(gold int)
	AddItem(item items.Item)
	// RemoveItem removes qty units of the stack with the given id and
	// reports whether anything was removed.
	RemoveItem(itemID string, qty int) bool
	Items() []items.Item
}
