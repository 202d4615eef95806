package pisignage

import (
	"context"
	"fmt"
	"sync"
)

// TestAPI is an in-memory stand-in for a PiSignage server, used by actor and
// service tests.
type TestAPI struct {
	mu        sync.Mutex
	token     string
	players   []Player
	groups    []Group
	playlists []Playlist
	labels    []Label

	// FailReads simulates a transient network failure on read operations.
	FailReads bool
}

// SetFailReads toggles simulated read failures from another goroutine.
func (t *TestAPI) SetFailReads(fail bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.FailReads = fail
}

func NewTestAPI() *TestAPI {
	return &TestAPI{
		players: []Player{
			{
				ID:              "pl1",
				Name:            "Lobby Screen",
				CPUSerialNumber: "10000000abcdef01",
				IP:              "192.168.1.40",
				Version:         "5.1.2",
				Group:           &PlayerGroup{ID: "g1", Name: "Lobby"},
				CurrentPlaylist: "welcome",
				PlaylistOn:      true,
				TVStatus:        true,
				ConnectionCount: 1,
				DiskSpaceFree:   "12.4G",
			},
			{
				ID:              "pl2",
				Name:            "Cafeteria Screen",
				CPUSerialNumber: "10000000abcdef02",
				IP:              "192.168.1.41",
				Version:         "5.1.2",
				Group:           &PlayerGroup{ID: "g2", Name: "Cafeteria"},
				CurrentPlaylist: "menu",
				PlaylistOn:      false,
				TVStatus:        false,
				ConnectionCount: 1,
				DiskSpaceFree:   "8.1G",
			},
		},
		groups: []Group{
			{ID: "g1", Name: "Lobby", Playlists: []GroupPlaylist{{Name: "welcome"}}},
			{ID: "g2", Name: "Cafeteria", Playlists: []GroupPlaylist{{Name: "menu"}}},
		},
		playlists: []Playlist{
			{Name: "welcome", Assets: []PlaylistAsset{{Filename: "intro.mp4", Duration: 20}}},
			{Name: "menu", Assets: []PlaylistAsset{{Filename: "menu.jpg", Duration: 10}}},
			{Name: "promo", Assets: []PlaylistAsset{{Filename: "promo.mp4", Duration: 30}}},
		},
		labels: []Label{
			{ID: "l1", Name: "ground-floor", Mode: LabelModePlayers},
		},
	}
}

func (t *TestAPI) Login(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = "test-token"
	return nil
}

func (t *TestAPI) LoginWithOTP(context.Context, string) error {
	return t.Login(context.Background())
}

func (t *TestAPI) Logout(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
	return nil
}

func (t *TestAPI) ResumeSession(_ context.Context, token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = token
	return nil
}

func (t *TestAPI) Token() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

func (t *TestAPI) readErr() error {
	if t.FailReads {
		return &ConnectError{Err: fmt.Errorf("simulated network failure")}
	}
	return nil
}

func (t *TestAPI) ListPlayers(context.Context) ([]Player, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.readErr(); err != nil {
		return nil, err
	}
	players := make([]Player, len(t.players))
	copy(players, t.players)
	return players, nil
}

func (t *TestAPI) GetPlayer(_ context.Context, id string) (*Player, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.readErr(); err != nil {
		return nil, err
	}
	for i := range t.players {
		if t.players[i].ID == id {
			player := t.players[i]
			return &player, nil
		}
	}
	return nil, &APIError{StatusCode: 404, Message: "player not found"}
}

func (t *TestAPI) ListGroups(context.Context) ([]Group, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.readErr(); err != nil {
		return nil, err
	}
	groups := make([]Group, len(t.groups))
	copy(groups, t.groups)
	return groups, nil
}

func (t *TestAPI) GetGroup(_ context.Context, id string) (*Group, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.readErr(); err != nil {
		return nil, err
	}
	for i := range t.groups {
		if t.groups[i].ID == id {
			group := t.groups[i]
			return &group, nil
		}
	}
	return nil, &APIError{StatusCode: 404, Message: "group not found"}
}

func (t *TestAPI) ListPlaylists(context.Context) ([]Playlist, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.readErr(); err != nil {
		return nil, err
	}
	playlists := make([]Playlist, len(t.playlists))
	copy(playlists, t.playlists)
	return playlists, nil
}

func (t *TestAPI) GetPlaylist(_ context.Context, name string) (*Playlist, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.readErr(); err != nil {
		return nil, err
	}
	for i := range t.playlists {
		if t.playlists[i].Name == name {
			playlist := t.playlists[i]
			return &playlist, nil
		}
	}
	return nil, &APIError{StatusCode: 404, Message: "playlist not found"}
}

func (t *TestAPI) ListLabels(context.Context) ([]Label, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	labels := make([]Label, len(t.labels))
	copy(labels, t.labels)
	return labels, nil
}

func (t *TestAPI) ListScreens(context.Context) ([]Screen, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	screens := make([]Screen, 0, len(t.players))
	for _, player := range t.players {
		screens = append(screens, Screen{ID: "s_" + player.ID, Name: player.Name, PlayerID: player.ID})
	}
	return screens, nil
}

func (t *TestAPI) CreatePlaylist(_ context.Context, name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.playlists = append(t.playlists, Playlist{Name: name})
	return nil
}

func (t *TestAPI) SavePlaylist(_ context.Context, playlist Playlist) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.playlists {
		if t.playlists[i].Name == playlist.Name {
			t.playlists[i] = playlist
			return nil
		}
	}
	t.playlists = append(t.playlists, playlist)
	return nil
}

func (t *TestAPI) AddPlaylistFile(_ context.Context, playlistName, filename string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.playlists {
		if t.playlists[i].Name == playlistName {
			t.playlists[i].Assets = append(t.playlists[i].Assets, PlaylistAsset{Filename: filename})
			return nil
		}
	}
	return &APIError{StatusCode: 404, Message: "playlist not found"}
}

func (t *TestAPI) CreatePlayer(_ context.Context, player Player) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.players = append(t.players, player)
	return nil
}

func (t *TestAPI) UpdatePlayer(_ context.Context, player Player) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.players {
		if t.players[i].ID == player.ID {
			t.players[i] = player
			return nil
		}
	}
	return &APIError{StatusCode: 404, Message: "player not found"}
}

func (t *TestAPI) DeletePlayer(_ context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.players {
		if t.players[i].ID == id {
			t.players = append(t.players[:i], t.players[i+1:]...)
			return nil
		}
	}
	return &APIError{StatusCode: 404, Message: "player not found"}
}

func (t *TestAPI) SaveGroup(_ context.Context, group Group) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.groups {
		if t.groups[i].ID == group.ID {
			t.groups[i] = group
			return nil
		}
	}
	t.groups = append(t.groups, group)
	return nil
}

func (t *TestAPI) DeleteGroup(_ context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.groups {
		if t.groups[i].ID == id {
			t.groups = append(t.groups[:i], t.groups[i+1:]...)
			return nil
		}
	}
	return &APIError{StatusCode: 404, Message: "group not found"}
}

func (t *TestAPI) CreateLabel(_ context.Context, label Label) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.labels = append(t.labels, label)
	return nil
}

func (t *TestAPI) DeleteLabel(_ context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.labels {
		if t.labels[i].ID == id {
			t.labels = append(t.labels[:i], t.labels[i+1:]...)
			return nil
		}
	}
	return &APIError{StatusCode: 404, Message: "label not found"}
}

func (t *TestAPI) SetTVPower(_ context.Context, playerID string, on bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.players {
		if t.players[i].ID == playerID {
			t.players[i].TVStatus = on
			return nil
		}
	}
	return &APIError{StatusCode: 404, Message: "player not found"}
}

func (t *TestAPI) MediaControl(_ context.Context, playerID, action string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.players {
		if t.players[i].ID == playerID {
			switch action {
			case MediaActionPlay:
				t.players[i].PlaylistOn = true
			case MediaActionPause:
				t.players[i].PlaylistOn = false
			}
			return nil
		}
	}
	return &APIError{StatusCode: 404, Message: "player not found"}
}

func (t *TestAPI) PlayPlaylistOnce(_ context.Context, playerID, playlist string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.players {
		if t.players[i].ID == playerID {
			t.players[i].CurrentPlaylist = playlist
			t.players[i].PlaylistOn = true
			return nil
		}
	}
	return &APIError{StatusCode: 404, Message: "player not found"}
}

func (t *TestAPI) SetGroupPlaylist(_ context.Context, groupID, playlistName string, deploy bool) error {
	if playlistName == TVOffPlaylist {
		return fmt.Errorf("pisignage: refusing to assign reserved playlist %q to a group", TVOffPlaylist)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	found := false
	for _, pl := range t.playlists {
		if pl.Name == playlistName {
			found = true
			break
		}
	}
	if !found {
		return &APIError{StatusCode: 404, Message: "playlist not found"}
	}
	for i := range t.groups {
		if t.groups[i].ID == groupID {
			entry := GroupPlaylist{Name: playlistName}
			if len(t.groups[i].Playlists) > 0 {
				t.groups[i].Playlists[0] = entry
			} else {
				t.groups[i].Playlists = []GroupPlaylist{entry}
			}
			if deploy {
				for j := range t.players {
					if t.players[j].Group != nil && t.players[j].Group.ID == groupID {
						t.players[j].CurrentPlaylist = playlistName
					}
				}
			}
			return nil
		}
	}
	return &APIError{StatusCode: 404, Message: "group not found"}
}

// ensure interface compliance
var _ API = (*TestAPI)(nil)
