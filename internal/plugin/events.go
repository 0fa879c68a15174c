package plugin

import (
	"github.com/aledsz/pluginfield4/internal/convert"
	"github.com/aledsz/pluginfield4/internal/payload"
	"github.com/aledsz/pluginfield4/pkg/core"
)

var (
	field = payload.F
	str   = payload.String
	num   = payload.Int
	flag  = payload.Bool
	obj   = payload.Map
)

// Chat

func (p *Plugin) OnGlobalChat(speaker, message string) {
	p.emit("OnGlobalChat", payload.Of(
		field("speaker", str(speaker)),
		field("message", str(message)),
	))
}

func (p *Plugin) OnTeamChat(speaker, message string, teamID int) {
	p.emit("OnTeamChat", payload.Of(
		field("speaker", str(speaker)),
		field("message", str(message)),
		field("team_id", num(teamID)),
	))
}

func (p *Plugin) OnSquadChat(speaker, message string, teamID, squadID int) {
	p.emit("OnSquadChat", payload.Of(
		field("speaker", str(speaker)),
		field("message", str(message)),
		field("team_id", num(teamID)),
		field("squad_id", num(squadID)),
	))
}

// Round over

func (p *Plugin) OnRoundOverPlayers(players []core.PlayerInfo) {
	p.emit("OnRoundOverPlayers", payload.Of(
		field("players", payload.Rows(convert.PlayerInfos(players))),
	))
}

func (p *Plugin) OnRoundOverTeamScores(scores []core.TeamScore) {
	p.emit("OnRoundOverTeamScores", payload.Of(
		field("team_scores", payload.Rows(convert.TeamScores(scores))),
	))
}

func (p *Plugin) OnRoundOver(winningTeamID int) {
	p.emit("OnRoundOver", payload.Of(field("team_id", num(winningTeamID))))
}

// Levels

func (p *Plugin) OnLoadingLevel(mapName string, roundsPlayed, roundsTotal int) {
	p.emit("OnLoadingLevel", payload.Of(
		field("map_name", str(mapName)),
		field("rounds_played", num(roundsPlayed)),
		field("total_rounds", num(roundsTotal)),
	))
}

func (p *Plugin) OnLevelStarted() {
	p.emit("OnLevelStarted", payload.Of())
}

// Admin actions

func (p *Plugin) OnPlayerKilledByAdmin(soldierName string) {
	p.emit("OnPlayerKilledByAdmin", payload.Of(field("soldier_name", str(soldierName))))
}

func (p *Plugin) OnPlayerKickedByAdmin(soldierName, reason string) {
	p.emit("OnPlayerKickedByAdmin", payload.Of(
		field("soldier_name", str(soldierName)),
		field("reason", str(reason)),
	))
}

func (p *Plugin) OnPlayerMovedByAdmin(soldierName string, destinationTeamID, destinationSquadID int, forceKilled bool) {
	p.emit("OnPlayerMovedByAdmin", payload.Of(
		field("soldier_name", str(soldierName)),
		field("destination_team_id", num(destinationTeamID)),
		field("destination_squad_id", num(destinationSquadID)),
		field("is_force_killed", flag(forceKilled)),
	))
}

// Players

func (p *Plugin) OnPlayerJoin(soldierName string) {
	p.emit("OnPlayerJoin", payload.Of(field("soldier_name", str(soldierName))))
}

func (p *Plugin) OnPlayerLeft(player core.PlayerInfo) {
	p.emit("OnPlayerLeft", convert.PlayerInfo(player))
}

func (p *Plugin) OnPlayerAuthenticated(soldierName, guid string) {
	p.emit("OnPlayerAuthenticated", payload.Of(
		field("guid", str(guid)),
		field("soldier_name", str(soldierName)),
	))
}

func (p *Plugin) OnPlayerKilled(kill core.Kill) {
	p.emit("OnPlayerKilled", convert.Kill(kill))
}

func (p *Plugin) OnPlayerKicked(soldierName, reason string) {
	p.emit("OnPlayerKicked", payload.Of(
		field("soldier_name", str(soldierName)),
		field("reason", str(reason)),
	))
}

func (p *Plugin) OnPlayerSpawned(soldierName string, inventory core.Inventory) {
	p.emit("OnPlayerSpawned", payload.Of(
		field("soldier_name", str(soldierName)),
		field("inventory", obj(convert.Inventory(inventory))),
	))
}

func (p *Plugin) OnPlayerTeamChange(soldierName string, teamID, squadID int) {
	p.emit("OnPlayerTeamChange", payload.Of(
		field("soldier_name", str(soldierName)),
		field("team_id", num(teamID)),
		field("squad_id", num(squadID)),
	))
}

func (p *Plugin) OnPlayerSquadChange(soldierName string, teamID, squadID int) {
	p.emit("OnPlayerSquadChange", payload.Of(
		field("soldier_name", str(soldierName)),
		field("team_id", num(teamID)),
		field("squad_id", num(squadID)),
	))
}

// Ban list

func (p *Plugin) OnBanAdded(ban core.BanInfo) {
	p.emit("OnBanAdded", convert.BanInfo(ban))
}

func (p *Plugin) OnBanRemoved(ban core.BanInfo) {
	p.emit("OnBanRemoved", convert.BanInfo(ban))
}

func (p *Plugin) OnBanListLoad() {
	p.emit("OnBanListLoad", payload.Of())
}

func (p *Plugin) OnBanList(bans []core.BanInfo) {
	p.emit("OnBanList", payload.Of(
		field("bans", payload.Rows(convert.BanInfos(bans))),
	))
}

// Map

func (p *Plugin) OnRestartLevel() {
	p.emit("OnRestartLevel", payload.Of())
}

// OnListPlayers sends players as a plain list; only round-over and ban
// lists get the legacy string rendering.
func (p *Plugin) OnListPlayers(players []core.PlayerInfo, subset core.PlayerSubset) {
	p.emit("OnListPlayers", payload.Of(
		field("players", payload.Maps(convert.PlayerInfos(players))),
		field("subset", obj(convert.PlayerSubset(subset))),
	))
}

func (p *Plugin) OnEndRound(winningTeamID int) {
	p.emit("OnEndRound", payload.Of(field("team_id", num(winningTeamID))))
}

func (p *Plugin) OnRunNextLevel() {
	p.emit("OnRunNextLevel", payload.Of())
}

func (p *Plugin) OnCurrentLevel(mapName string) {
	p.emit("OnCurrentLevel", payload.Of(field("map_name", str(mapName))))
}

// Messages

func (p *Plugin) OnYelling(message string, duration int, subset core.PlayerSubset) {
	p.emit("OnYelling", payload.Of(
		field("message", str(message)),
		field("duration", num(duration)),
		field("subset", obj(convert.PlayerSubset(subset))),
	))
}

func (p *Plugin) OnSaying(message string, subset core.PlayerSubset) {
	p.emit("OnSaying", payload.Of(
		field("message", str(message)),
		field("subset", obj(convert.PlayerSubset(subset))),
	))
}
