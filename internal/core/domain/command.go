package domain

import "fmt"

// PlayerCommand

type PlayerCommand interface {
	ActorRequest
	PlayerCommand() string
}

type PlayerCommandMixIn struct {
	ActorRequestMixIn
}

func (r PlayerCommandMixIn) PlayerCommand() string {
	return fmt.Sprintf("%T", r)
}

// Commands parsed from MQTT command topics. Each carries the player the
// entity belongs to.

type TVPowerCommand struct {
	PlayerCommandMixIn
	PlayerID string
	On       bool
}

type PlaylistSelectCommand struct {
	PlayerCommandMixIn
	PlayerID string
	Playlist string
}

type TransportCommand struct {
	PlayerCommandMixIn
	PlayerID string
	Action   string
}

// ensure interface compliance
var _ PlayerCommand = (*TVPowerCommand)(nil)
var _ PlayerCommand = (*PlaylistSelectCommand)(nil)
var _ PlayerCommand = (*TransportCommand)(nil)
