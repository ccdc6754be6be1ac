package character

// Condition names shared with encounter content files.
const (
	ConditionPoisoned    = "poisoned"
	ConditionParalyzed   = "paralyzed"
	ConditionAsleep      = "asleep"
	ConditionConfused    = "confused"
	ConditionCursed      = "cursed"
	ConditionFrightened  = "frightened"
	ConditionUnconscious = "unconscious"
	ConditionDead        = "dead"
)

// StatusEffect is an active condition. Turns of 0 means it lasts until cured.
type StatusEffect struct {
	Name  string
	Turns int
}

// AddCondition applies a condition. Re-applying keeps the longer duration.
func (c *MMCharacter) AddCondition(name string, turns int) {
	for i := range c.Conditions {
		if c.Conditions[i].Name != name {
			continue
		}
		cur := c.Conditions[i].Turns
		if cur == 0 || (turns != 0 && turns <= cur) {
			return
		}
		c.Conditions[i].Turns = turns
		return
	}
	c.Conditions = append(c.Conditions, StatusEffect{Name: name, Turns: turns})
}

func (c *MMCharacter) HasCondition(name string) bool {
	for _, cond := range c.Conditions {
		if cond.Name == name {
			return true
		}
	}
	return false
}

// RemoveCondition cures a condition and reports whether it was present.
func (c *MMCharacter) RemoveCondition(name string) bool {
	for i, cond := range c.Conditions {
		if cond.Name == name {
			c.Conditions = append(c.Conditions[:i], c.Conditions[i+1:]...)
			return true
		}
	}
	return false
}

// TickConditions advances timed conditions by one turn and drops expired ones.
func (c *MMCharacter) TickConditions() {
	kept := c.Conditions[:0]
	for _, cond := range c.Conditions {
		if cond.Turns > 0 {
			cond.Turns--
			if cond.Turns == 0 {
				continue
			}
		}
		kept = append(kept, cond)
	}
	c.Conditions = kept
}
