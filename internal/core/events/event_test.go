package events

import (
	"testing"

	. "pisignage2mqtt/internal/core/domain"
	"pisignage2mqtt/pkg/pisignage"

	"github.com/stretchr/testify/assert"
)

func TestDiskSpaceMB(t *testing.T) {

	assert := assert.New(t)

	mb, ok := DiskSpaceMB("12.5G")
	assert.True(ok)
	assert.InDelta(12800, mb, 0.01)

	mb, ok = DiskSpaceMB("730M")
	assert.True(ok)
	assert.InDelta(730, mb, 0.01)

	mb, ok = DiskSpaceMB("512K")
	assert.True(ok)
	assert.InDelta(0.5, mb, 0.01)

	_, ok = DiskSpaceMB("")
	assert.False(ok)

	_, ok = DiskSpaceMB("n/a")
	assert.False(ok)
}

func TestPlayerSnapshotToUpdateEvents(t *testing.T) {

	assert := assert.New(t)

	snapshot := PlayerSnapshot{
		Player: pisignage.Player{
			ID:              "pl1",
			Name:            "Lobby Screen",
			IP:              "10.0.0.10",
			CurrentPlaylist: "welcome",
			PlaylistOn:      true,
			TVStatus:        true,
			ConnectionCount: 1,
			DiskSpaceFree:   "2G",
		},
		State:     PLAYER_STATE_PLAYING,
		Available: true,
	}

	evs := PlayerSnapshotToUpdateEvents(snapshot)

	var statusValue string
	var selectValue string
	var switchValue, connected, available *bool
	var storage *float64
	for _, ev := range evs {
		switch e := ev.(type) {
		case TextSensorUpdateEvent:
			if e.Id == EntityId("pl1", SENSOR_SUFFIX_STATUS) {
				statusValue = e.Value
			}
		case SelectSensorUpdateEvent:
			selectValue = e.Value
		case SwitchSensorUpdateEvent:
			v := e.Value
			switchValue = &v
		case BinarySensorUpdateEvent:
			v := e.Value
			connected = &v
		case FloatSensorUpdateEvent:
			v := e.Value
			storage = &v
		case PlayerAvailabilityUpdateEvent:
			v := e.Available
			available = &v
		}
	}

	assert.Equal("playing", statusValue)
	assert.Equal("welcome", selectValue)
	if assert.NotNil(switchValue) {
		assert.True(*switchValue)
	}
	if assert.NotNil(connected) {
		assert.True(*connected)
	}
	if assert.NotNil(storage) {
		assert.InDelta(2048, *storage, 0.01)
	}
	if assert.NotNil(available) {
		assert.True(*available)
	}
}

func TestPlayersUnavailableEvents(t *testing.T) {

	assert := assert.New(t)

	evs := PlayersUnavailableEvents([]string{"pl1", "pl2"})
	assert.Len(evs, 2)
	for _, ev := range evs {
		av, ok := ev.(PlayerAvailabilityUpdateEvent)
		assert.True(ok)
		assert.False(av.Available)
	}
}

func TestPlayerSelectsExcludeReserved(t *testing.T) {

	assert := assert.New(t)

	player := pisignage.Player{ID: "pl1", Name: "Lobby Screen"}
	device := PlayerDevice(player)
	playlists := []pisignage.Playlist{
		{Name: "welcome"},
		{Name: pisignage.TVOffPlaylist},
		{Name: ""},
		{Name: "menu"},
	}

	selects := PlayerSelects(device, player, playlists)
	assert.Len(selects, 1)
	assert.Equal([]string{"welcome", "menu"}, selects[0].Options)
}
