package pisignage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ListPlayers returns all registered players. Server versions differ on the
// response shape (bare array, {objects: [...]}, or both nested under data),
// so decoding is shape-tolerant.
func (c *Client) ListPlayers(ctx context.Context) ([]Player, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/players", nil, &raw); err != nil {
		return nil, err
	}
	return decodePlayers(raw)
}

func decodePlayers(raw json.RawMessage) ([]Player, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var players []Player
	if err := json.Unmarshal(raw, &players); err == nil {
		return players, nil
	}
	var page playersPage
	if err := json.Unmarshal(raw, &page); err == nil && page.Objects != nil {
		return page.Objects, nil
	}
	// one more level of nesting seen in the wild: {data: {objects: [...]}}
	var nested struct {
		Data playersPage `json:"data"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && nested.Data.Objects != nil {
		return nested.Data.Objects, nil
	}
	return nil, fmt.Errorf("pisignage: unrecognized players payload")
}

func (c *Client) GetPlayer(ctx context.Context, id string) (*Player, error) {
	var player Player
	if err := c.do(ctx, http.MethodGet, "/players/"+id, nil, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (c *Client) CreatePlayer(ctx context.Context, player Player) error {
	return c.do(ctx, http.MethodPost, "/players", player, nil)
}

func (c *Client) UpdatePlayer(ctx context.Context, player Player) error {
	return c.do(ctx, http.MethodPost, "/players/"+player.ID, player, nil)
}

func (c *Client) DeletePlayer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/players/"+id, nil, nil)
}

// ListScreens returns the lightweight display listing from GET /screens.
func (c *Client) ListScreens(ctx context.Context) ([]Screen, error) {
	var screens []Screen
	if err := c.do(ctx, http.MethodGet, "/screens", nil, &screens); err != nil {
		return nil, err
	}
	return screens, nil
}

// SetTVPower drives the display over CEC via POST /pitv/{id}. The wire field
// is inverted: status=true powers the TV off.
func (c *Client) SetTVPower(ctx context.Context, playerID string, on bool) error {
	return c.do(ctx, http.MethodPost, "/pitv/"+playerID, map[string]any{
		"status": !on,
	}, nil)
}

// MediaControl issues a transport action (play, pause, forward, backward)
// via POST /playlistmedia/{id}/{action}.
func (c *Client) MediaControl(ctx context.Context, playerID, action string) error {
	switch action {
	case MediaActionPlay, MediaActionPause, MediaActionForward, MediaActionBackward:
	default:
		return fmt.Errorf("pisignage: unsupported media action %q", action)
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/playlistmedia/%s/%s", playerID, action), struct{}{}, nil)
}

// PlayPlaylistOnce starts a named playlist on one player without touching
// its group configuration. The player reverts to the group playlist on the
// next deploy.
func (c *Client) PlayPlaylistOnce(ctx context.Context, playerID, playlist string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/setplaylist/%s/%s", playerID, playlist), struct{}{}, nil)
}
