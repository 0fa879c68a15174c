// pkg/core/items.go
package core

// Inventory is a player's loadout at spawn time.
type Inventory struct {
	Kit             Kits             `json:"kit"`
	Weapons         []Weapon         `json:"weapons"`
	Specializations []Specialization `json:"specializations"`
}

// Weapon is a single item of an inventory.
type Weapon struct {
	Slot           WeaponSlots `json:"slot"`
	Name           string      `json:"name"`
	KitRestriction Kits        `json:"kitRestriction"`
	Damage         DamageTypes `json:"damage"`
}

// Specialization is a perk bound to an inventory slot.
type Specialization struct {
	Slot SpecializationSlots `json:"slot"`
	Name string              `json:"name"`
}
