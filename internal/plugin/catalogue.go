package plugin

import (
	"encoding/json"
	"fmt"

	"github.com/aledsz/pluginfield4/pkg/procon"
)

// Invoker decodes JSON arguments and calls the matching handler.
type Invoker func(p *Plugin, args []json.RawMessage) error

// Entry binds a notification name to its handler.
type Entry struct {
	Name   string
	Invoke Invoker
}

// Catalogue lists every notification the plugin handles, in registration order.
var Catalogue = []Entry{
	{"OnGlobalChat", call2((*Plugin).OnGlobalChat)},
	{"OnTeamChat", call3((*Plugin).OnTeamChat)},
	{"OnSquadChat", call4((*Plugin).OnSquadChat)},
	{"OnRoundOverPlayers", call1((*Plugin).OnRoundOverPlayers)},
	{"OnRoundOverTeamScores", call1((*Plugin).OnRoundOverTeamScores)},
	{"OnRoundOver", call1((*Plugin).OnRoundOver)},
	{"OnLoadingLevel", call3((*Plugin).OnLoadingLevel)},
	{"OnLevelStarted", call0((*Plugin).OnLevelStarted)},
	{"OnPlayerKilledByAdmin", call1((*Plugin).OnPlayerKilledByAdmin)},
	{"OnPlayerKickedByAdmin", call2((*Plugin).OnPlayerKickedByAdmin)},
	{"OnPlayerMovedByAdmin", call4((*Plugin).OnPlayerMovedByAdmin)},
	{"OnPlayerJoin", call1((*Plugin).OnPlayerJoin)},
	{"OnPlayerLeft", call1((*Plugin).OnPlayerLeft)},
	{"OnPlayerAuthenticated", call2((*Plugin).OnPlayerAuthenticated)},
	{"OnPlayerKilled", call1((*Plugin).OnPlayerKilled)},
	{"OnPlayerKicked", call2((*Plugin).OnPlayerKicked)},
	{"OnPlayerSpawned", call2((*Plugin).OnPlayerSpawned)},
	{"OnPlayerTeamChange", call3((*Plugin).OnPlayerTeamChange)},
	{"OnPlayerSquadChange", call3((*Plugin).OnPlayerSquadChange)},
	{"OnBanAdded", call1((*Plugin).OnBanAdded)},
	{"OnBanRemoved", call1((*Plugin).OnBanRemoved)},
	{"OnBanListLoad", call0((*Plugin).OnBanListLoad)},
	{"OnBanList", call1((*Plugin).OnBanList)},
	{"OnRestartLevel", call0((*Plugin).OnRestartLevel)},
	{"OnListPlayers", call2((*Plugin).OnListPlayers)},
	{"OnEndRound", call1((*Plugin).OnEndRound)},
	{"OnRunNextLevel", call0((*Plugin).OnRunNextLevel)},
	{"OnCurrentLevel", call1((*Plugin).OnCurrentLevel)},
	{"OnYelling", call3((*Plugin).OnYelling)},
	{"OnSaying", call2((*Plugin).OnSaying)},
}

var catalogueIndex = func() map[string]Invoker {
	idx := make(map[string]Invoker, len(Catalogue))
	for _, e := range Catalogue {
		idx[e.Name] = e.Invoke
	}
	return idx
}()

// EventNames returns the handled notification names in catalogue order.
func EventNames() []string {
	names := make([]string, len(Catalogue))
	for i, e := range Catalogue {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the invoker for a notification name.
func Lookup(name string) (Invoker, bool) {
	inv, ok := catalogueIndex[name]
	return inv, ok
}

// Handle decodes a notification and runs its handler. Only decoding
// problems are reported; delivery happens later and never fails here.
func (p *Plugin) Handle(n procon.Notification) error {
	inv, ok := Lookup(n.Event)
	if !ok {
		return fmt.Errorf("%w: %s", procon.ErrUnknownEvent, n.Event)
	}
	if err := inv(p, n.Args); err != nil {
		return fmt.Errorf("%s: %w", n.Event, err)
	}
	return nil
}

func decodeArgs(args []json.RawMessage, dst ...any) error {
	if len(args) != len(dst) {
		return fmt.Errorf("want %d arguments, got %d", len(dst), len(args))
	}
	for i, raw := range args {
		if err := json.Unmarshal(raw, dst[i]); err != nil {
			return fmt.Errorf("argument %d: %w", i, err)
		}
	}
	return nil
}

func call0(f func(*Plugin)) Invoker {
	return func(p *Plugin, args []json.RawMessage) error {
		if err := decodeArgs(args); err != nil {
			return err
		}
		f(p)
		return nil
	}
}

func call1[A any](f func(*Plugin, A)) Invoker {
	return func(p *Plugin, args []json.RawMessage) error {
		var a A
		if err := decodeArgs(args, &a); err != nil {
			return err
		}
		f(p, a)
		return nil
	}
}

func call2[A, B any](f func(*Plugin, A, B)) Invoker {
	return func(p *Plugin, args []json.RawMessage) error {
		var (
			a A
			b B
		)
		if err := decodeArgs(args, &a, &b); err != nil {
			return err
		}
		f(p, a, b)
		return nil
	}
}

func call3[A, B, C any](f func(*Plugin, A, B, C)) Invoker {
	return func(p *Plugin, args []json.RawMessage) error {
		var (
			a A
			b B
			c C
		)
		if err := decodeArgs(args, &a, &b, &c); err != nil {
			return err
		}
		f(p, a, b, c)
		return nil
	}
}

func call4[A, B, C, D any](f func(*Plugin, A, B, C, D)) Invoker {
	return func(p *Plugin, args []json.RawMessage) error {
		var (
			a A
			b B
			c C
			d D
		)
		if err := decodeArgs(args, &a, &b, &c, &d); err != nil {
			return err
		}
		f(p, a, b, c, d)
		return nil
	}
}
