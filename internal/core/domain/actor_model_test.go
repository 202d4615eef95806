package domain

import (
	"testing"

	"pisignage2mqtt/pkg/pisignage"

	"github.com/stretchr/testify/assert"
)

func TestActorIds(t *testing.T) {

	ids := []string{ACTOR_ID_MASTER, ACTOR_ID_SIGNAGE, ACTOR_ID_PLAYERFLOW, ACTOR_ID_MQTT, ACTOR_ID_AUTOMATION, ACTOR_ID_HA_DISCOVERY}
	seen := map[string]bool{}
	for _, id := range ids {
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate actor id %q", id)
		seen[id] = true
	}
	assert.Equal(t, "hadiscovery", ACTOR_ID_HA_DISCOVERY)
}

func TestDerivePlayerState(t *testing.T) {

	tests := []struct {
		name   string
		player pisignage.Player
		expect PlayerState
	}{
		{
			name:   "disconnected is off",
			player: pisignage.Player{ConnectionCount: 0, PlaylistOn: true, TVStatus: true},
			expect: PLAYER_STATE_OFF,
		},
		{
			name:   "content rolling with tv on is playing",
			player: pisignage.Player{ConnectionCount: 1, PlaylistOn: true, TVStatus: true},
			expect: PLAYER_STATE_PLAYING,
		},
		{
			name:   "tv powered down is standby",
			player: pisignage.Player{ConnectionCount: 1, PlaylistOn: true, TVStatus: false},
			expect: PLAYER_STATE_STANDBY,
		},
		{
			name:   "connected but nothing playing is idle",
			player: pisignage.Player{ConnectionCount: 2, PlaylistOn: false, TVStatus: true},
			expect: PLAYER_STATE_IDLE,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, DerivePlayerState(tt.player))
		})
	}
}
