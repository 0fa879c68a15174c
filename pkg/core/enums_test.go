package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumString(t *testing.T) {
	assert.Equal(t, "Recon", KitRecon.String())
	assert.Equal(t, "Primary", WeaponSlotPrimary.String())
	assert.Equal(t, "Kit", SpecializationSlotKit.String())
	assert.Equal(t, "SniperRifle", DamageSniperRifle.String())
	assert.Equal(t, "Permanent", TimeoutPermanent.String())
	assert.Equal(t, "Player", PlayerSubsetPlayer.String())
}

func TestEnumString_OutOfRange(t *testing.T) {
	assert.Equal(t, "Kits(42)", Kits(42).String())
	assert.Equal(t, "PlayerSubsetType(-1)", PlayerSubsetType(-1).String())
	assert.False(t, Kits(42).Valid())
	assert.True(t, KitNone.Valid())
}

func TestEnumUnmarshal_NameAndOrdinal(t *testing.T) {
	var w Weapon
	require.NoError(t, json.Unmarshal([]byte(`{"slot":"Primary","name":"M98B","kitRestriction":5,"damage":"SniperRifle"}`), &w))

	assert.Equal(t, WeaponSlotPrimary, w.Slot)
	assert.Equal(t, KitRecon, w.KitRestriction)
	assert.Equal(t, DamageSniperRifle, w.Damage)
}

func TestEnumUnmarshal_UnknownName(t *testing.T) {
	var ts TimeoutSubset
	err := json.Unmarshal([]byte(`{"subset":"Forever"}`), &ts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown TimeoutSubsetType")
}

func TestEnumMarshal_UsesName(t *testing.T) {
	data, err := json.Marshal(PlayerSubset{Subset: PlayerSubsetTeam, TeamID: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"subset":"Team","soldierName":"","teamId":2,"squadId":0}`, string(data))
}
