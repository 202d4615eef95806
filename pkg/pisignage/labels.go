package pisignage

import (
	"context"
	"net/http"
)

// Label modes accepted by the server.
const (
	LabelModePlayers   = "players"
	LabelModeGroups    = "groups"
	LabelModePlaylists = "playlists"
	LabelModeAssets    = "assets"
)

func (c *Client) ListLabels(ctx context.Context) ([]Label, error) {
	var labels []Label
	if err := c.do(ctx, http.MethodGet, "/labels", nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

func (c *Client) CreateLabel(ctx context.Context, label Label) error {
	return c.do(ctx, http.MethodPost, "/labels", label, nil)
}

func (c *Client) DeleteLabel(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/labels/"+id, nil, nil)
}
