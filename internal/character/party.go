package character

import (
	"fmt"

	"grimdelve/internal/config"
	"grimdelve/internal/items"
)

const maxPartySize = 4

type Party struct {
	Members   []*MMCharacter
	Gold      int
	Food      int
	Inventory []items.Item
}

// NewParty builds the configured roster.
func NewParty(cfg *config.Config) (*Party, error) {
	p := &Party{
		Members:   make([]*MMCharacter, 0, maxPartySize),
		Gold:      cfg.Characters.StartingGold,
		Food:      cfg.Characters.StartingFood,
		Inventory: make([]items.Item, 0),
	}
	for _, entry := range cfg.Party {
		class, err := ParseClass(entry.Class)
		if err != nil {
			return nil, fmt.Errorf("party member %q: %w", entry.Name, err)
		}
		member := CreateCharacter(entry.Name, class, cfg)
		if entry.Level > 1 {
			member.SetLevel(entry.Level, cfg)
		}
		p.AddMember(member)
	}
	return p, nil
}

func (p *Party) AddMember(character *MMCharacter) {
	if len(p.Members) < maxPartySize {
		p.Members = append(p.Members, character)
	}
}

// LivingMembers returns members with hit points left.
func (p *Party) LivingMembers() []*MMCharacter {
	living := make([]*MMCharacter, 0, len(p.Members))
	for _, m := range p.Members {
		if m.IsAlive() {
			living = append(living, m)
		}
	}
	return living
}

// IsWiped reports whether nobody is left standing.
func (p *Party) IsWiped() bool {
	return len(p.LivingMembers()) == 0
}

// ConsumeFood eats n rations. With too little food nothing is eaten and it
// returns false.
func (p *Party) ConsumeFood(n int) bool {
	if n < 0 || p.Food < n {
		return false
	}
	p.Food -= n
	return true
}

// AddItem adds an item to the party inventory, merging stacks by ID
func (p *Party) AddItem(item items.Item) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if item.ID == "" {
		item.ID = items.StackID(item.Name, item.Value)
	}
	for i := range p.Inventory {
		if p.Inventory[i].ID == item.ID {
			p.Inventory[i].Quantity += item.Quantity
			return
		}
	}
	p.Inventory = append(p.Inventory, item)
}

// RemoveItem removes qty units of a stack; the stack disappears when empty
func (p *Party) RemoveItem(itemID string, qty int) bool {
	if qty <= 0 {
		return false
	}
	for i := range p.Inventory {
		if p.Inventory[i].ID != itemID {
			continue
		}
		if p.Inventory[i].Quantity <= qty {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
		} else {
			p.Inventory[i].Quantity -= qty
		}
		return true
	}
	return false
}

// CountItem returns how many units of an item the party carries
func (p *Party) CountItem(itemID string) int {
	for _, it := range p.Inventory {
		if it.ID == itemID {
			return it.Quantity
		}
	}
	return 0
}

// GetTotalItems returns the number of stacks in the party inventory
func (p *Party) GetTotalItems() int {
	return len(p.Inventory)
}
