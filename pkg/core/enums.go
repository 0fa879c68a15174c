// pkg/core/enums.go
package core

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kits is the soldier class a weapon or inventory belongs to.
type Kits int

const (
	KitNone Kits = iota
	KitAssault
	KitMedic
	KitEngineer
	KitSupport
	KitRecon
	KitDemolition
)

var kitNames = []string{"None", "Assault", "Medic", "Engineer", "Support", "Recon", "Demolition"}

// WeaponSlots is the inventory slot a weapon occupies.
type WeaponSlots int

const (
	WeaponSlotNone WeaponSlots = iota
	WeaponSlotPrimary
	WeaponSlotSecondary
	WeaponSlotAuxiliary
	WeaponSlotGadget
	WeaponSlotGrenade
	WeaponSlotKnife
)

var weaponSlotNames = []string{"None", "Primary", "Secondary", "Auxiliary", "Gadget", "Grenade", "Knife"}

// SpecializationSlots is the slot a specialization occupies.
type SpecializationSlots int

const (
	SpecializationSlotNone SpecializationSlots = iota
	SpecializationSlotKit
	SpecializationSlotSquad
)

var specializationSlotNames = []string{"None", "Kit", "Squad"}

// DamageTypes classifies what a weapon does.
type DamageTypes int

const (
	DamageNone DamageTypes = iota
	DamageSuicide
	DamageMelee
	DamageHandgun
	DamageSMG
	DamageAssaultRifle
	DamageCarbine
	DamageLMG
	DamageShotgun
	DamageSniperRifle
	DamageProjectileExplosive
	DamageExplosive
	DamageImpact
	DamageNonlethal
	DamageVehicleLight
	DamageVehicleHeavy
	DamageVehicleAir
	DamageVehicleWater
	DamageVehicleStationary
	DamageVehicleTransport
	DamageEquipmentExplosive
)

var damageTypeNames = []string{
	"None", "Suicide", "Melee", "Handgun", "SMG", "AssaultRifle", "Carbine", "LMG",
	"Shotgun", "SniperRifle", "ProjectileExplosive", "Explosive", "Impact", "Nonlethal",
	"VehicleLight", "VehicleHeavy", "VehicleAir", "VehicleWater", "VehicleStationary",
	"VehicleTransport", "EquipmentExplosive",
}

// TimeoutSubsetType is the unit of a ban length.
type TimeoutSubsetType int

const (
	TimeoutNone TimeoutSubsetType = iota
	TimeoutPermanent
	TimeoutRound
	TimeoutSeconds
)

var timeoutSubsetNames = []string{"None", "Permanent", "Round", "Seconds"}

// PlayerSubsetType is the audience of a message or player listing.
type PlayerSubsetType int

const (
	PlayerSubsetNone PlayerSubsetType = iota
	PlayerSubsetAll
	PlayerSubsetTeam
	PlayerSubsetSquad
	PlayerSubsetPlayer
)

var playerSubsetNames = []string{"None", "All", "Team", "Squad", "Player"}

func (k Kits) String() string {
	return enumName(kitNames, int(k), "Kits")
}

func (s WeaponSlots) String() string {
	return enumName(weaponSlotNames, int(s), "WeaponSlots")
}

func (s SpecializationSlots) String() string {
	return enumName(specializationSlotNames, int(s), "SpecializationSlots")
}

func (d DamageTypes) String() string {
	return enumName(damageTypeNames, int(d), "DamageTypes")
}

func (t TimeoutSubsetType) String() string {
	return enumName(timeoutSubsetNames, int(t), "TimeoutSubsetType")
}

func (t PlayerSubsetType) String() string {
	return enumName(playerSubsetNames, int(t), "PlayerSubsetType")
}

// Valid reports whether the value is a declared member of its enum.
func (k Kits) Valid() bool                { return validEnum(kitNames, int(k)) }
func (s WeaponSlots) Valid() bool         { return validEnum(weaponSlotNames, int(s)) }
func (s SpecializationSlots) Valid() bool { return validEnum(specializationSlotNames, int(s)) }
func (d DamageTypes) Valid() bool         { return validEnum(damageTypeNames, int(d)) }
func (t TimeoutSubsetType) Valid() bool   { return validEnum(timeoutSubsetNames, int(t)) }
func (t PlayerSubsetType) Valid() bool    { return validEnum(playerSubsetNames, int(t)) }

func (k Kits) MarshalText() ([]byte, error)                { return []byte(k.String()), nil }
func (s WeaponSlots) MarshalText() ([]byte, error)         { return []byte(s.String()), nil }
func (s SpecializationSlots) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (d DamageTypes) MarshalText() ([]byte, error)         { return []byte(d.String()), nil }
func (t TimeoutSubsetType) MarshalText() ([]byte, error)   { return []byte(t.String()), nil }
func (t PlayerSubsetType) MarshalText() ([]byte, error)    { return []byte(t.String()), nil }

// The host bridge may send enums either by name or by ordinal.

func (k *Kits) UnmarshalJSON(data []byte) error {
	v, err := parseEnum(kitNames, data, "Kits")
	*k = Kits(v)
	return err
}

func (s *WeaponSlots) UnmarshalJSON(data []byte) error {
	v, err := parseEnum(weaponSlotNames, data, "WeaponSlots")
	*s = WeaponSlots(v)
	return err
}

func (s *SpecializationSlots) UnmarshalJSON(data []byte) error {
	v, err := parseEnum(specializationSlotNames, data, "SpecializationSlots")
	*s = SpecializationSlots(v)
	return err
}

func (d *DamageTypes) UnmarshalJSON(data []byte) error {
	v, err := parseEnum(damageTypeNames, data, "DamageTypes")
	*d = DamageTypes(v)
	return err
}

func (t *TimeoutSubsetType) UnmarshalJSON(data []byte) error {
	v, err := parseEnum(timeoutSubsetNames, data, "TimeoutSubsetType")
	*t = TimeoutSubsetType(v)
	return err
}

func (t *PlayerSubsetType) UnmarshalJSON(data []byte) error {
	v, err := parseEnum(playerSubsetNames, data, "PlayerSubsetType")
	*t = PlayerSubsetType(v)
	return err
}

func enumName(names []string, v int, typ string) string {
	if validEnum(names, v) {
		return names[v]
	}
	return typ + "(" + strconv.Itoa(v) + ")"
}

func validEnum(names []string, v int) bool {
	return v >= 0 && v < len(names)
}

func parseEnum(names []string, data []byte, typ string) (int, error) {
	if string(data) == "null" {
		return 0, nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		for i, n := range names {
			if n == name {
				return i, nil
			}
		}
		return 0, fmt.Errorf("unknown %s %q", typ, name)
	}

	var ordinal int
	if err := json.Unmarshal(data, &ordinal); err != nil {
		return 0, fmt.Errorf("%s must be a name or ordinal: %w", typ, err)
	}
	return ordinal, nil
}
