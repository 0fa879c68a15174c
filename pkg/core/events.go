// pkg/core/events.go
package core

import "time"

// BanInfo is one entry of the server ban list.
type BanInfo struct {
	GUID        string        `json:"guid"`
	SoldierName string        `json:"soldierName"`
	IDType      string        `json:"idType"`
	Reason      string        `json:"reason"`
	BanLength   TimeoutSubset `json:"banLength"`
	IPAddress   string        `json:"ipAddress"`
	Offset      int           `json:"offset"`
}

// TimeoutSubset is how long a ban lasts.
// Timeout is only meaningful for the Seconds and Round subsets.
type TimeoutSubset struct {
	Timeout int               `json:"timeout"`
	Subset  TimeoutSubsetType `json:"subset"`
}

// Kill represents one player killing another (or themselves).
type Kill struct {
	Killer         PlayerInfo `json:"killer"`
	Victim         PlayerInfo `json:"victim"`
	Distance       float64    `json:"distance"`
	Headshot       bool       `json:"headshot"`
	IsSuicide      bool       `json:"isSuicide"`
	DamageType     string     `json:"damageType"`
	KillerLocation Point3D    `json:"killerLocation"`
	VictimLocation Point3D    `json:"victimLocation"`
	TimeOfDeath    time.Time  `json:"timeOfDeath"`
}
