// Package bridge adapts the concrete character types to the interfaces the
// encounter engine consumes, so neither package imports the other's
// internals.
package bridge

import (
	"grimdelve/internal/character"
	"grimdelve/internal/items"
	"grimdelve/internal/mathutil"
	"grimdelve/internal/party"
)

// Member wraps a character as a party.Member.
func Member(c *character.MMCharacter) party.Member {
	return memberView{c: c}
}

// Party wraps a character party as a party.Party.
func Party(p *character.Party) party.Party {
	return partyView{p: p}
}

type memberView struct {
	c *character.MMCharacter
}

func (m memberView) Name() string               { return m.c.Name }
func (m memberView) Archetype() party.Archetype { return m.c.Class.Archetype() }
func (m memberView) Level() int                 { return m.c.Level }
func (m memberView) IsAlive() bool              { return m.c.IsAlive() }
func (m memberView) TakeDamage(amount int) int  { return m.c.TakeDamage(amount) }

func (m memberView) AddStatusEffect(name string, turns int) {
	m.c.AddCondition(name, turns)
}

// Stats maps the character's attributes onto the encounter stat block.
func (m memberView) Stats() party.Stats {
	return party.Stats{
		Strength:     m.c.Might,
		Agility:      m.c.Speed,
		Intelligence: m.c.Intellect,
	}
}

type partyView struct {
	p *character.Party
}

func (v partyView) Members() []party.Member {
	return wrap(v.p.Members)
}

func (v partyView) LivingMembers() []party.Member {
	return wrap(v.p.LivingMembers())
}

func (v partyView) Gold() int { return v.p.Gold }

func (v partyView) SetGold(gold int) {
	v.p.Gold = mathutil.IntMax(gold, 0)
}

func (v partyView) AddItem(item items.Item) { v.p.AddItem(item) }

func (v partyView) RemoveItem(itemID string, qty int) bool {
	return v.p.RemoveItem(itemID, qty)
}

func (v partyView) Items() []items.Item {
	out := make([]items.Item, len(v.p.Inventory))
	copy(out, v.p.Inventory)
	return out
}

func wrap(chars []*character.MMCharacter) []party.Member {
	out := make([]party.Member, 0, len(chars))
	for _, c := range chars {
		out = append(out, memberView{c: c})
	}
	return out
}
