package events

import (
	"strconv"
	"strings"

	. "pisignage2mqtt/internal/core/domain"
)

// PlayerSnapshotToUpdateEvents maps one cached player onto the entity state
// updates the MQTT actor publishes.
func PlayerSnapshotToUpdateEvents(snapshot PlayerSnapshot) []any {
	var events []any
	player := snapshot.Player

	// derived media-player status
	events = append(events, TextSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: EntityId(player.ID, SENSOR_SUFFIX_STATUS),
		},
		Value: string(snapshot.State),
	})
	// current playlist, both as sensor and select state
	events = append(events, TextSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: EntityId(player.ID, SENSOR_SUFFIX_CURRENT_PLAYLIST),
		},
		Value: player.CurrentPlaylist,
	})
	if player.CurrentPlaylist != "" {
		events = append(events, SelectSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: EntityId(player.ID, SELECT_SUFFIX_PLAYLIST),
			},
			Value: player.CurrentPlaylist,
		})
	}
	// TV power switch state
	events = append(events, SwitchSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: EntityId(player.ID, SWITCH_SUFFIX_TV_POWER),
		},
		Value: player.TVStatus,
	})
	// server connection
	events = append(events, BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: EntityId(player.ID, SENSOR_SUFFIX_CONNECTED),
		},
		Value: player.ConnectionCount > 0,
	})
	// diagnostics
	if player.IP != "" {
		events = append(events, TextSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: EntityId(player.ID, SENSOR_SUFFIX_IP),
			},
			Value: player.IP,
		})
	}
	if mb, ok := DiskSpaceMB(player.DiskSpaceFree); ok {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: EntityId(player.ID, SENSOR_SUFFIX_FREE_STORAGE),
			},
			Value:    mb,
			Decimals: 0,
		})
	}
	// availability
	events = append(events, PlayerAvailabilityUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: player.ID,
		},
		Available: snapshot.Available,
	})

	return events
}

// PlayersUnavailableEvents marks every cached player offline after a failed
// refresh, leaving their last state topics untouched.
func PlayersUnavailableEvents(playerIDs []string) []any {
	var events []any
	for _, id := range playerIDs {
		events = append(events, PlayerAvailabilityUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: id,
			},
			Available: false,
		})
	}
	return events
}

// DiskSpaceMB parses the server's human disk figures ("12.4G", "730M") into
// megabytes.
func DiskSpaceMB(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	unit := value[len(value)-1]
	number := value
	factor := 1.0
	switch unit {
	case 'G', 'g':
		number = value[:len(value)-1]
		factor = 1024
	case 'M', 'm':
		number = value[:len(value)-1]
	case 'K', 'k':
		number = value[:len(value)-1]
		factor = 1.0 / 1024
	}
	parsed, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, false
	}
	return parsed * factor, true
}
