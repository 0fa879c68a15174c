// Package convert projects host entities into ordered payload mappings.
// Every function is total: it never fails and never returns nil lists.
package convert

import (
	"github.com/aledsz/pluginfield4/internal/payload"
	"github.com/aledsz/pluginfield4/pkg/core"
)

// TimeOfDeathLayout matches the host's long time format.
const TimeOfDeathLayout = "3:04:05 PM"

// PlayerInfo projects a player snapshot. The soldier name key is spelled
// "solder_name" on the wire; existing collectors depend on it.
func PlayerInfo(p core.PlayerInfo) payload.Mapping {
	return payload.Of(
		payload.F("guid", payload.String(p.GUID)),
		payload.F("rank", payload.Int(p.Rank)),
		payload.F("clan_tag", payload.String(p.ClanTag)),
		payload.F("solder_name", payload.String(p.SoldierName)),
		payload.F("team_id", payload.Int(p.TeamID)),
		payload.F("squad_id", payload.Int(p.SquadID)),
		payload.F("join_time", payload.Int64(p.JoinTime)),
		payload.F("score", payload.Int(p.Score)),
		payload.F("kills", payload.Int(p.Kills)),
		payload.F("deaths", payload.Int(p.Deaths)),
		payload.F("kdr", payload.Float32(p.Kdr)),
		payload.F("ping", payload.Int(p.Ping)),
		payload.F("session_time", payload.Int64(p.SessionTime)),
	)
}

func PlayerInfos(players []core.PlayerInfo) []payload.Mapping {
	out := make([]payload.Mapping, len(players))
	for i, p := range players {
		out[i] = PlayerInfo(p)
	}
	return out
}

func Inventory(inv core.Inventory) payload.Mapping {
	weapons := make([]payload.Mapping, len(inv.Weapons))
	for i, w := range inv.Weapons {
		weapons[i] = Weapon(w)
	}
	specializations := make([]payload.Mapping, len(inv.Specializations))
	for i, s := range inv.Specializations {
		specializations[i] = Specialization(s)
	}

	return payload.Of(
		payload.F("kit", payload.String(enumString(inv.Kit, inv.Kit.Valid()))),
		payload.F("weapons", payload.Maps(weapons)),
		payload.F("specializations", payload.Maps(specializations)),
	)
}

func Weapon(w core.Weapon) payload.Mapping {
	return payload.Of(
		payload.F("slot", payload.String(enumString(w.Slot, w.Slot.Valid()))),
		payload.F("name", payload.String(w.Name)),
		payload.F("kit_restriction", payload.String(enumString(w.KitRestriction, w.KitRestriction.Valid()))),
		payload.F("damage", payload.String(enumString(w.Damage, w.Damage.Valid()))),
	)
}

func Specialization(s core.Specialization) payload.Mapping {
	return payload.Of(
		payload.F("slot", payload.String(enumString(s.Slot, s.Slot.Valid()))),
		payload.F("name", payload.String(s.Name)),
	)
}

func BanInfo(b core.BanInfo) payload.Mapping {
	return payload.Of(
		payload.F("guid", payload.String(b.GUID)),
		payload.F("soldier_name", payload.String(b.SoldierName)),
		payload.F("id_type", payload.String(b.IDType)),
		payload.F("reason", payload.String(b.Reason)),
		payload.F("ban_length", payload.Map(TimeoutSubset(b.BanLength))),
		payload.F("ip_address", payload.String(b.IPAddress)),
		payload.F("offset", payload.Int(b.Offset)),
	)
}

func BanInfos(bans []core.BanInfo) []payload.Mapping {
	out := make([]payload.Mapping, len(bans))
	for i, b := range bans {
		out[i] = BanInfo(b)
	}
	return out
}

func TimeoutSubset(t core.TimeoutSubset) payload.Mapping {
	return payload.Of(
		payload.F("timeout", payload.Int(t.Timeout)),
		payload.F("subset", payload.String(enumString(t.Subset, t.Subset.Valid()))),
	)
}

func PlayerSubset(s core.PlayerSubset) payload.Mapping {
	return payload.Of(
		payload.F("soldier_name", payload.String(s.SoldierName)),
		payload.F("team_id", payload.Int(s.TeamID)),
		payload.F("squad_id", payload.Int(s.SquadID)),
		payload.F("subset", payload.String(enumString(s.Subset, s.Subset.Valid()))),
	)
}

// Kill projects a kill record. Only the clock time of death is kept.
func Kill(k core.Kill) payload.Mapping {
	return payload.Of(
		payload.F("killer", payload.Map(PlayerInfo(k.Killer))),
		payload.F("victim", payload.Map(PlayerInfo(k.Victim))),
		payload.F("distance", payload.Float(k.Distance)),
		payload.F("is_headshot", payload.Bool(k.Headshot)),
		payload.F("is_suicide", payload.Bool(k.IsSuicide)),
		payload.F("damage_type", payload.String(k.DamageType)),
		payload.F("killer_location", payload.Map(Point3D(k.KillerLocation))),
		payload.F("victim_location", payload.Map(Point3D(k.VictimLocation))),
		payload.F("time_to_death", payload.String(k.TimeOfDeath.Format(TimeOfDeathLayout))),
	)
}

func Point3D(p core.Point3D) payload.Mapping {
	return payload.Of(
		payload.F("x", payload.Float(p.X)),
		payload.F("y", payload.Float(p.Y)),
		payload.F("z", payload.Float(p.Z)),
	)
}

func TeamScore(s core.TeamScore) payload.Mapping {
	return payload.Of(
		payload.F("team_id", payload.Int(s.TeamID)),
		payload.F("score", payload.Int(s.Score)),
		payload.F("winning_score", payload.Int(s.WinningScore)),
	)
}

func TeamScores(scores []core.TeamScore) []payload.Mapping {
	out := make([]payload.Mapping, len(scores))
	for i, s := range scores {
		out[i] = TeamScore(s)
	}
	return out
}

type stringer interface {
	String() string
}

func enumString(v stringer, valid bool) string {
	if !valid {
		invalidEnum(v)
	}
	return v.String()
}
