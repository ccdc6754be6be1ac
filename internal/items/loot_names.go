package items

// lootNames is the (type, rarity) name table treasure loot is drawn from.
var lootNames = map[ItemType]map[Rarity][]string{
	ItemWeapon: {
		RarityCommon:    {"Iron Sword", "Hunting Bow", "Oak Staff", "Iron Spear"},
		RarityUncommon:  {"Magic Dagger", "Holy Mace", "Steel Axe", "Battle Staff"},
		RarityRare:      {"Silver Sword", "Gold Sword", "Elven Bow"},
		RarityEpic:      {"Runeblade", "Stormcaller Spear"},
		RarityLegendary: {"Bow of Hellfire", "Dawnbreaker"},
	},
	ItemArmor: {
		RarityCommon:    {"Leather Armor", "Padded Cap", "Cloth Boots"},
		RarityUncommon:  {"Chain Mail", "Iron Helm", "Studded Gauntlets"},
		RarityRare:      {"Plate Armor", "Wizard Robes"},
		RarityEpic:      {"Dragonscale Mail"},
		RarityLegendary: {"Aegis of the Deep"},
	},
	ItemAccessory: {
		RarityCommon:    {"Copper Ring", "Bone Charm"},
		RarityUncommon:  {"Magic Ring", "Silver Amulet"},
		RarityRare:      {"Ring of Warding", "Amulet of Clarity"},
		RarityEpic:      {"Circlet of Stars"},
		RarityLegendary: {"Crown of the Lich"},
	},
	ItemConsumable: {
		RarityCommon:    {"Health Potion", "Torch", "Bandage"},
		RarityUncommon:  {"Mana Potion", "Antidote", "Smelling Salts"},
		RarityRare:      {"Greater Health Potion", "Scroll of Recall"},
		RarityEpic:      {"Elixir of Vigor"},
		RarityLegendary: {"Phoenix Feather"},
	},
}

// LootNames returns the candidate names for a (type, rarity) pair. The
// slice must not be modified.
func LootNames(itemType ItemType, rarity Rarity) []string {
	return lootNames[itemType][rarity]
}
