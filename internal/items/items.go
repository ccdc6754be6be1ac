package items

import (
	"math"
	"strconv"
	"strings"
)

type ItemType int

const (
	ItemWeapon ItemType = iota
	ItemArmor
	ItemAccessory
	ItemConsumable
	ItemQuest
)

func (t ItemType) String() string {
	switch t {
	case ItemWeapon:
		return "weapon"
	case ItemArmor:
		return "armor"
	case ItemAccessory:
		return "accessory"
	case ItemConsumable:
		return "consumable"
	case ItemQuest:
		return "quest"
	default:
		return "unknown"
	}
}

// ParseItemType converts a content-file type name. Unknown names report false.
func ParseItemType(s string) (ItemType, bool) {
	switch strings.ToLower(s) {
	case "weapon":
		return ItemWeapon, true
	case "armor":
		return ItemArmor, true
	case "accessory":
		return ItemAccessory, true
	case "consumable":
		return ItemConsumable, true
	case "quest":
		return ItemQuest, true
	}
	return ItemWeapon, false
}

// Rarity is the loot tier. The string form is what content files use.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rarities lists every tier from most to least common.
var Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}

// Valid reports whether r is a known tier.
func (r Rarity) Valid() bool {
	_, ok := baseValues[r]
	return ok
}

// floorEpsilon absorbs float error so 50*1.4 floors to 70, not 69.
const floorEpsilon = 1e-9

var baseValues = map[Rarity]int{
	RarityCommon:    10,
	RarityUncommon:  50,
	RarityRare:      200,
	RarityEpic:      1000,
	RarityLegendary: 5000,
}

// BaseValue returns the level-1 gold value of an item of rarity r.
func BaseValue(r Rarity) int {
	return baseValues[r]
}

// ValueAt scales the base value by 10% per dungeon level past the first.
func ValueAt(r Rarity, level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(float64(BaseValue(r))*(1+float64(level-1)*0.10) + floorEpsilon))
}

// Item is one inventory stack.
type Item struct {
	ID          string
	Name        string
	Type        ItemType
	Rarity      Rarity
	Value       int
	Quantity    int
	Description string
	Attributes  map[string]int
}

// NewItem builds a single-unit stack valued for the given dungeon level.
func NewItem(name string, itemType ItemType, rarity Rarity, level int) Item {
	value := ValueAt(rarity, level)
	return Item{
		ID:         StackID(name, value),
		Name:       name,
		Type:       itemType,
		Rarity:     rarity,
		Value:      value,
		Quantity:   1,
		Attributes: make(map[string]int),
	}
}

// StackID is the inventory key for an item. Only items of equal name and
// value share a stack ("Elven Bow" worth 200 -> "elven_bow_200"); a
// valueless item keys on its slug alone.
func StackID(name string, value int) string {
	if value <= 0 {
		return Slug(name)
	}
	return Slug(name) + "_" + strconv.Itoa(value)
}

// Slug turns a display name into a stable stack id ("Elven Bow" -> "elven_bow").
func Slug(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			underscore = false
		default:
			if !underscore && b.Len() > 0 {
				b.WriteByte('_')
				underscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
