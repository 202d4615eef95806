package pisignage

import "encoding/json"

// apiEnvelope is the standard PiSignage response wrapper. Some deployments
// answer with bare payloads instead, so Data is kept raw and decoded by the
// caller.
type apiEnvelope struct {
	Success     *bool           `json:"success,omitempty"`
	StatMessage string          `json:"stat_message,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	Token       string          `json:"token,omitempty"`
	OTPRequired bool            `json:"otpRequired,omitempty"`
}

// Player is a signage playback device as reported by GET /players.
type Player struct {
	ID              string        `json:"_id"`
	Name            string        `json:"name"`
	CPUSerialNumber string        `json:"cpuSerialNumber,omitempty"`
	IP              string        `json:"ip,omitempty"`
	Version         string        `json:"version,omitempty"`
	ConfigLocation  string        `json:"configLocation,omitempty"`
	Group           *PlayerGroup  `json:"group,omitempty"`
	CurrentPlaylist string        `json:"currentPlaylist,omitempty"`
	PlaylistOn      bool          `json:"playlistOn,omitempty"`
	TVStatus        bool          `json:"tvStatus,omitempty"`
	ConnectionCount int           `json:"connectionCount,omitempty"`
	LastReported    string        `json:"lastReported,omitempty"`
	Uptime          string        `json:"uptime,omitempty"`
	Temperature     string        `json:"piTemperature,omitempty"`
	DiskSpaceFree   string        `json:"diskSpaceAvailable,omitempty"`
	DiskSpaceUsed   string        `json:"diskSpaceUsed,omitempty"`
	Labels          []string      `json:"labels,omitempty"`
	StatusData      *PlayerStatus `json:"statusData,omitempty"`
}

// PlayerGroup is the group reference embedded in a player record.
type PlayerGroup struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// PlayerStatus carries the live playback details nested under statusData.
type PlayerStatus struct {
	PlaylistPlaying string       `json:"playlistPlaying,omitempty"`
	CurrentPlay     *CurrentPlay `json:"currentPlay,omitempty"`
}

type CurrentPlay struct {
	Filename string `json:"filename,omitempty"`
	Duration int    `json:"duration,omitempty"`
}

// playersPage is the paged shape some server versions return for GET /players.
type playersPage struct {
	Objects []Player `json:"objects"`
}

// Group is a deployment unit: the ordered playlist list pushed to its member
// players on deploy.
type Group struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Playlists   []GroupPlaylist `json:"playlists,omitempty"`
	Assets      []string        `json:"assets,omitempty"`
	Orientation string          `json:"orientation,omitempty"`
	Resolution  string          `json:"resolution,omitempty"`
	Deploy      bool            `json:"deploy,omitempty"`
	Labels      []string        `json:"labels,omitempty"`
}

// GroupPlaylist is one slot of a group's playlist list. Slot 0 is the
// playlist the players fall back to.
type GroupPlaylist struct {
	Name     string           `json:"name"`
	Settings PlaylistSettings `json:"settings,omitempty"`
}

// Playlist is an ordered asset list with per-asset timing flags.
type Playlist struct {
	Name         string           `json:"name"`
	Settings     PlaylistSettings `json:"settings,omitempty"`
	Assets       []PlaylistAsset  `json:"assets,omitempty"`
	TemplateName string           `json:"templateName,omitempty"`
	Layout       string           `json:"layout,omitempty"`
	Labels       []string         `json:"labels,omitempty"`
}

type PlaylistSettings struct {
	Ticker *TickerSettings `json:"ticker,omitempty"`
	Ads    *AdSettings     `json:"ads,omitempty"`
}

type TickerSettings struct {
	Enable   bool   `json:"enable,omitempty"`
	Behavior string `json:"behavior,omitempty"`
	TextSpeed int   `json:"textSpeed,omitempty"`
	Messages string `json:"messages,omitempty"`
}

type AdSettings struct {
	AdPlaylist bool `json:"adPlaylist,omitempty"`
	AdCount    int  `json:"adCount,omitempty"`
	AdInterval int  `json:"adInterval,omitempty"`
}

type PlaylistAsset struct {
	Filename       string `json:"filename"`
	Duration       int    `json:"duration,omitempty"`
	Selected       bool   `json:"selected,omitempty"`
	IsVideo        bool   `json:"isVideo,omitempty"`
	FullScreen     bool   `json:"fullscreen,omitempty"`
	Side           string `json:"side,omitempty"`
	Bottom         string `json:"bottom,omitempty"`
}

// Label is a free-form category tag. Mode states what it applies to
// (players, groups, playlists or assets).
type Label struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
	Mode string `json:"mode,omitempty"`
}

// Screen is a row of GET /screens: a lightweight player/display listing.
type Screen struct {
	ID       string `json:"_id"`
	Name     string `json:"name,omitempty"`
	PlayerID string `json:"player,omitempty"`
}

// TVOffPlaylist is the reserved playlist the server assigns while a display
// is powered down. Group updates must never persist it, or power-on would
// resume a blank screen instead of the previous content.
const TVOffPlaylist = "TV_OFF"

// Media control actions accepted by POST /playlistmedia/{id}/{action}.
const (
	MediaActionPlay     = "play"
	MediaActionPause    = "pause"
	MediaActionForward  = "forward"
	MediaActionBackward = "backward"
)
