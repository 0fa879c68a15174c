// pkg/core/player.go
package core

// PlayerInfo is the host's scoreboard view of a connected player.
type PlayerInfo struct {
	GUID        string  `json:"guid"`
	Rank        int     `json:"rank"`
	ClanTag     string  `json:"clanTag"`
	SoldierName string  `json:"soldierName"`
	TeamID      int     `json:"teamId"`
	SquadID     int     `json:"squadId"`
	JoinTime    int64   `json:"joinTime"`
	Score       int     `json:"score"`
	Kills       int     `json:"kills"`
	Deaths      int     `json:"deaths"`
	Kdr         float32 `json:"kdr"`
	Ping        int     `json:"ping"`
	SessionTime int64   `json:"sessionTime"`
}

// PlayerSubset describes which players a listing or message applies to.
type PlayerSubset struct {
	Subset      PlayerSubsetType `json:"subset"`
	SoldierName string           `json:"soldierName"`
	TeamID      int              `json:"teamId"`
	SquadID     int              `json:"squadId"`
}

// TeamScore is a team's standing at the end of a round.
type TeamScore struct {
	TeamID       int `json:"teamId"`
	Score        int `json:"score"`
	WinningScore int `json:"winningScore"`
}

// Point3D is a position on the map.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}
