package domain

import "pisignage2mqtt/pkg/pisignage"

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_SIGNAGE      = "signage"
	ACTOR_ID_PLAYERFLOW   = "playerflow"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_AUTOMATION   = "automation"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

type GetPlayersRequest struct {
	ActorRequestMixIn
}

type GetPlayersResponse struct {
	ActorResponseMixIn
	Players []pisignage.Player
}

type GetPlaylistsRequest struct {
	ActorRequestMixIn
}

type GetPlaylistsResponse struct {
	ActorResponseMixIn
	Playlists []pisignage.Playlist
}

type GetGroupsRequest struct {
	ActorRequestMixIn
}

type GetGroupsResponse struct {
	ActorResponseMixIn
	Groups []pisignage.Group
}

type GetLabelsRequest struct {
	ActorRequestMixIn
}

type GetLabelsResponse struct {
	ActorResponseMixIn
	Labels []pisignage.Label
}

// GetCachedPlayersRequest reads the poller's last known snapshot without
// touching the server.
type GetCachedPlayersRequest struct {
	ActorRequestMixIn
}

type GetCachedPlayersResponse struct {
	ActorResponseMixIn
	Players   []PlayerSnapshot
	Available bool
}

type SetGroupPlaylistRequest struct {
	ActorRequestMixIn
	GroupID  string
	Playlist string
	Deploy   bool
}

type SetGroupPlaylistResponse struct {
	ActorResponseMixIn
}

type SetTVPowerRequest struct {
	ActorRequestMixIn
	PlayerID string
	On       bool
}

type SetTVPowerResponse struct {
	ActorResponseMixIn
}

type MediaControlRequest struct {
	ActorRequestMixIn
	PlayerID string
	Action   string
}

type MediaControlResponse struct {
	ActorResponseMixIn
}

type PlayOnceRequest struct {
	ActorRequestMixIn
	PlayerID string
	Playlist string
}

type PlayOnceResponse struct {
	ActorResponseMixIn
}

// SelectPlaylistRequest resolves a player's group and deploys the playlist
// to it: the entity-facing "switch playlist" operation.
type SelectPlaylistRequest struct {
	ActorRequestMixIn
	PlayerID string
	Playlist string
}

type SelectPlaylistResponse struct {
	ActorResponseMixIn
}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors  []GenericSensor
	Switches []GenericSwitch
	Selects  []GenericSelect
	Buttons  []GenericButton
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

// PlaylistAssignment pairs one player with the playlist an automation should
// deploy to it.
type PlaylistAssignment struct {
	PlayerID string
	Playlist string
}

// TriggerAutomationRequest fires a loaded automation by name, regardless of
// its schedule.
type TriggerAutomationRequest struct {
	ActorRequestMixIn
	Name string
}

type TriggerAutomationResponse struct {
	ActorResponseMixIn
}

type ListAutomationsRequest struct {
	ActorRequestMixIn
}

type ListAutomationsResponse struct {
	ActorResponseMixIn
	Names []string
}

// PlaylistsChangedEvent signals that the server's playlist set changed, so
// select options need a discovery refresh.
type PlaylistsChangedEvent struct {
	Playlists []string
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}

// PlayerSnapshot is the poller's cached view of one player plus the derived
// entity state.
type PlayerSnapshot struct {
	Player    pisignage.Player
	State     PlayerState
	Available bool
}

// PlayerState is the derived media-player state of a signage display.
type PlayerState string

const (
	PLAYER_STATE_OFF     PlayerState = "off"
	PLAYER_STATE_PLAYING PlayerState = "playing"
	PLAYER_STATE_STANDBY PlayerState = "standby"
	PLAYER_STATE_IDLE    PlayerState = "idle"
	PLAYER_STATE_UNKNOWN PlayerState = "unknown"
)

// DerivePlayerState maps raw player fields onto the entity state: a player
// with no server connection is off; content rolling with the TV powered is
// playing; TV powered down is standby; anything else idles.
func DerivePlayerState(p pisignage.Player) PlayerState {
	if p.ConnectionCount < 1 {
		return PLAYER_STATE_OFF
	}
	if p.PlaylistOn && p.TVStatus {
		return PLAYER_STATE_PLAYING
	}
	if !p.TVStatus {
		return PLAYER_STATE_STANDBY
	}
	return PLAYER_STATE_IDLE
}
