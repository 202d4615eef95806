package pisignage

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := c.do(ctx, http.MethodGet, "/groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) GetGroup(ctx context.Context, id string) (*Group, error) {
	var group Group
	if err := c.do(ctx, http.MethodGet, "/groups/"+id, nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// SaveGroup creates or updates a group. With Deploy set, the server pushes
// the configuration to every member player.
func (c *Client) SaveGroup(ctx context.Context, group Group) error {
	path := "/groups"
	if group.ID != "" {
		path = "/groups/" + group.ID
	}
	return c.do(ctx, http.MethodPost, path, group, nil)
}

func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/groups/"+id, nil, nil)
}

// SetGroupPlaylist replaces slot 0 of the group's playlist list with the
// named playlist, recomputes the group's asset manifest, and saves. With
// deploy set this is how a playlist change propagates to players.
func (c *Client) SetGroupPlaylist(ctx context.Context, groupID, playlistName string, deploy bool) error {
	// the reserved power-off playlist must never be persisted on a group,
	// or power-on would resume a blank screen
	if playlistName == TVOffPlaylist {
		return fmt.Errorf("pisignage: refusing to assign reserved playlist %q to a group", TVOffPlaylist)
	}

	group, err := c.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	playlists, err := c.ListPlaylists(ctx)
	if err != nil {
		return err
	}

	var target *Playlist
	for i := range playlists {
		if playlists[i].Name == playlistName {
			target = &playlists[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("pisignage: playlist %q not found", playlistName)
	}

	entry := GroupPlaylist{Name: target.Name, Settings: target.Settings}
	if len(group.Playlists) > 0 {
		group.Playlists[0] = entry
	} else {
		group.Playlists = []GroupPlaylist{entry}
	}

	group.Assets = collectGroupAssets(group.Playlists, playlists)
	group.Deploy = deploy
	return c.SaveGroup(ctx, *group)
}

// collectGroupAssets gathers every file the group's players need: the assets
// of each referenced playlist, the playlist manifest files, and templates.
func collectGroupAssets(groupPlaylists []GroupPlaylist, all []Playlist) []string {
	wanted := make(map[string]struct{}, len(groupPlaylists))
	for _, gp := range groupPlaylists {
		wanted[gp.Name] = struct{}{}
	}

	seen := make(map[string]struct{})
	var assets []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		assets = append(assets, name)
	}

	for _, pl := range all {
		if _, ok := wanted[pl.Name]; !ok {
			continue
		}
		for _, asset := range pl.Assets {
			add(asset.Filename)
		}
		add(fmt.Sprintf("__%s.json", pl.Name))
		add(pl.TemplateName)
	}
	return assets
}
