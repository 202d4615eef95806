package service

import (
	"os"
	"path/filepath"
	"testing"

	"pisignage2mqtt/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestResolveSingleFirstNonEmpty(t *testing.T) {

	assert := assert.New(t)

	logic := &DefaultPairingLogic{}

	playlist, ok := logic.ResolveSingle([]string{"", "", "menu", "promo"})
	assert.True(ok)
	assert.Equal("menu", playlist)

	_, ok = logic.ResolveSingle([]string{"", ""})
	assert.False(ok)

	_, ok = logic.ResolveSingle(nil)
	assert.False(ok)
}

func TestSingleModeOneAssignmentPerPlayer(t *testing.T) {

	assert := assert.New(t)

	bp := Blueprint{
		Name:      "morning",
		Action:    ACTION_PLAYLIST_CHANGE,
		Mode:      MODE_SINGLE,
		Players:   []string{"p1", "p2", "p3"},
		Playlists: []string{"", "menu"},
	}

	assignments := bp.Assignments(&DefaultPairingLogic{})
	assert.Len(assignments, 3)
	for i, player := range bp.Players {
		assert.Equal(player, assignments[i].PlayerID)
		assert.Equal("menu", assignments[i].Playlist)
	}
}

func TestPerPlayerPairing(t *testing.T) {

	tests := []struct {
		name      string
		players   []string
		playlists []string
		expect    []domain.PlaylistAssignment
	}{
		{
			name:      "exact pairing",
			players:   []string{"p1", "p2"},
			playlists: []string{"a", "b"},
			expect: []domain.PlaylistAssignment{
				{PlayerID: "p1", Playlist: "a"},
				{PlayerID: "p2", Playlist: "b"},
			},
		},
		{
			name:      "out of range skipped",
			players:   []string{"p1", "p2", "p3"},
			playlists: []string{"a"},
			expect: []domain.PlaylistAssignment{
				{PlayerID: "p1", Playlist: "a"},
			},
		},
		{
			name:      "empty entry skipped",
			players:   []string{"p1", "p2", "p3"},
			playlists: []string{"a", "", "c"},
			expect: []domain.PlaylistAssignment{
				{PlayerID: "p1", Playlist: "a"},
				{PlayerID: "p3", Playlist: "c"},
			},
		},
		{
			name:      "no playlists",
			players:   []string{"p1"},
			playlists: nil,
			expect:    nil,
		},
	}

	logic := &DefaultPairingLogic{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, logic.PairPerPlayer(tt.players, tt.playlists))
		})
	}
}

func TestPowerActionAssignments(t *testing.T) {

	assert := assert.New(t)

	bp := Blueprint{
		Name:    "shutdown",
		Action:  ACTION_POWER_OFF,
		Players: []string{"p1", "p2"},
	}
	assignments := bp.Assignments(&DefaultPairingLogic{})
	assert.Len(assignments, 2)
	assert.Equal("p1", assignments[0].PlayerID)
	assert.Empty(assignments[0].Playlist)
}

func TestCronExpression(t *testing.T) {

	assert := assert.New(t)

	bp := Blueprint{
		Name:    "morning",
		Action:  ACTION_POWER_ON,
		Players: []string{"p1"},
		Schedule: &Schedule{
			Time: "08:30",
			Days: []string{"monday", "friday"},
		},
	}
	expr, ok := bp.CronExpression()
	assert.True(ok)
	assert.Equal("0 30 8 ? * MON,FRI", expr)

	bp.Schedule.Days = nil
	expr, ok = bp.CronExpression()
	assert.True(ok)
	assert.Equal("0 30 8 ? * *", expr)

	bp.Schedule = nil
	_, ok = bp.CronExpression()
	assert.False(ok)
}

func TestValidate(t *testing.T) {

	assert := assert.New(t)

	bp := Blueprint{Name: "x", Action: "reboot", Players: []string{"p1"}}
	assert.Error(bp.Validate())

	bp = Blueprint{Name: "x", Action: ACTION_POWER_ON}
	assert.Error(bp.Validate())

	bp = Blueprint{Name: "x", Action: ACTION_PLAYLIST_CHANGE, Players: []string{"p1"}}
	assert.NoError(bp.Validate())
	assert.Equal(MODE_SINGLE, bp.Mode)

	bp = Blueprint{
		Name: "x", Action: ACTION_POWER_ON, Players: []string{"p1"},
		Schedule: &Schedule{Time: "25:00"},
	}
	assert.Error(bp.Validate())

	bp = Blueprint{
		Name: "x", Action: ACTION_POWER_ON, Players: []string{"p1"},
		Schedule: &Schedule{Time: "08:00", Days: []string{"someday"}},
	}
	assert.Error(bp.Validate())
}

func TestLoadBlueprints(t *testing.T) {

	assert := assert.New(t)

	dir := t.TempDir()
	yaml := `name: evening
action: playlist_change
mode: per_player
players: ["p1", "p2"]
playlists: ["a", "b"]
schedule:
  time: "21:15"
  days: [saturday, sunday]
`
	err := os.WriteFile(filepath.Join(dir, "evening.yaml"), []byte(yaml), 0644)
	assert.NoError(err)
	err = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644)
	assert.NoError(err)

	blueprints, err := LoadBlueprints(dir)
	assert.NoError(err)
	assert.Len(blueprints, 1)
	assert.Equal("evening", blueprints[0].Name)
	assert.Equal(MODE_PER_PLAYER, blueprints[0].Mode)
	expr, ok := blueprints[0].CronExpression()
	assert.True(ok)
	assert.Equal("0 15 21 ? * SAT,SUN", expr)
}

func TestLoadBlueprintsMissingDir(t *testing.T) {

	assert := assert.New(t)

	blueprints, err := LoadBlueprints(filepath.Join(t.TempDir(), "nope"))
	assert.NoError(err)
	assert.Empty(blueprints)
}

func TestLoadBlueprintNameFromFilename(t *testing.T) {

	assert := assert.New(t)

	dir := t.TempDir()
	yaml := `action: power_on
players: ["p1"]
`
	path := filepath.Join(dir, "open_shop.yaml")
	assert.NoError(os.WriteFile(path, []byte(yaml), 0644))

	bp, err := LoadBlueprint(path)
	assert.NoError(err)
	assert.Equal("open_shop", bp.Name)
}
