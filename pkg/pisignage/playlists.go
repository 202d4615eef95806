package pisignage

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListPlaylists(ctx context.Context) ([]Playlist, error) {
	var playlists []Playlist
	if err := c.do(ctx, http.MethodGet, "/playlists", nil, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

func (c *Client) GetPlaylist(ctx context.Context, name string) (*Playlist, error) {
	var playlist Playlist
	if err := c.do(ctx, http.MethodGet, "/playlists/"+url.PathEscape(name), nil, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// CreatePlaylist registers an empty playlist.
func (c *Client) CreatePlaylist(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/playlists", map[string]string{
		"file": name,
	}, nil)
}

// SavePlaylist rewrites the playlist's asset list and settings.
func (c *Client) SavePlaylist(ctx context.Context, playlist Playlist) error {
	return c.do(ctx, http.MethodPost, "/playlists/"+url.PathEscape(playlist.Name), playlist, nil)
}

// AddPlaylistFile appends a stored media file to a playlist via
// POST /playlistfiles.
func (c *Client) AddPlaylistFile(ctx context.Context, playlistName, filename string) error {
	return c.do(ctx, http.MethodPost, "/playlistfiles", map[string]string{
		"playlist": playlistName,
		"assets":   filename,
	}, nil)
}
