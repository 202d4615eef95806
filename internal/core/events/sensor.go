package events

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"pisignage2mqtt/internal/core/domain"
	"pisignage2mqtt/pkg/pisignage"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE = "bridge"

	SENSOR_SUFFIX_STATUS           = "status"
	SENSOR_SUFFIX_CURRENT_PLAYLIST = "current_playlist"
	SENSOR_SUFFIX_FREE_STORAGE     = "free_storage"
	SENSOR_SUFFIX_IP               = "ip_address"
	SENSOR_SUFFIX_CONNECTED        = "connected"
	SWITCH_SUFFIX_TV_POWER         = "tv_power"
	SELECT_SUFFIX_PLAYLIST         = "playlist"
	BUTTON_SUFFIX_PLAY             = "play"
	BUTTON_SUFFIX_PAUSE            = "pause"
	BUTTON_SUFFIX_NEXT             = "next"
	BUTTON_SUFFIX_PREVIOUS         = "previous"

	STATE_CLASS_MEASUREMENT   = "measurement"
	DEVICE_CLASS_DATA_SIZE    = "data_size"
	DEVICE_CLASS_CONNECTIVITY = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC   = "diagnostic"
	SENSOR_TYPE_SENSOR        = "sensor"
	SENSOR_TYPE_BINARY        = "binary_sensor"
)

// EntityId builds the per-player entity id used in MQTT topics and unique
// ids. Player object ids are hex strings, so they satisfy the topic charset.
func EntityId(playerID, suffix string) string {
	return fmt.Sprintf("%s_%s", playerID, suffix)
}

func BridgeDevice(baseTopic string) domain.Device {
	return domain.Device{
		Id:           fmt.Sprintf("pisignage_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "PiSignage",
		Model:        "pisignage2mqtt",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("PiSignage Bridge %s", md5HashShort(baseTopic)),
	}
}

func PlayerDevice(player pisignage.Player) domain.Device {
	model := "PiSignage Player"
	if player.ConfigLocation != "" {
		model = fmt.Sprintf("PiSignage Player: %s", player.ConfigLocation)
	}
	return domain.Device{
		Id:           fmt.Sprintf("pisignage_player_%s", player.ID),
		Version:      player.Version,
		Manufacturer: "PiSignage",
		Model:        model,
		Name:         player.Name,
	}
}

// IdDevice strips a device down to its identifier. Only the first entity of
// a device carries the full registration.
func IdDevice(device domain.Device) domain.Device {
	return domain.Device{
		Id: device.Id,
	}
}

func BridgeSensors(device domain.Device) []domain.GenericSensor {
	return []domain.GenericSensor{
		{
			Device:      device,
			Id:          SENSOR_ID_BRIDGE_STATE,
			SensorType:  SENSOR_TYPE_BINARY,
			DeviceClass: DEVICE_CLASS_CONNECTIVITY,
			Name:        "Bridge state",
			UniqueId:    fmt.Sprintf("%s_state", device.Id),
		},
	}
}

func PlayerSensors(device domain.Device, player pisignage.Player) []domain.GenericSensor {
	diag := true
	return []domain.GenericSensor{
		{
			Device:     device,
			Id:         EntityId(player.ID, SENSOR_SUFFIX_STATUS),
			SensorType: SENSOR_TYPE_SENSOR,
			Name:       "Status",
			UniqueId:   fmt.Sprintf("%s_%s", device.Id, SENSOR_SUFFIX_STATUS),
			Icon:       "mdi:television-guide",
		},
		{
			Device:     device,
			Id:         EntityId(player.ID, SENSOR_SUFFIX_CURRENT_PLAYLIST),
			SensorType: SENSOR_TYPE_SENSOR,
			Name:       "Current playlist",
			UniqueId:   fmt.Sprintf("%s_%s", device.Id, SENSOR_SUFFIX_CURRENT_PLAYLIST),
			Icon:       "mdi:playlist-play",
		},
		{
			Device:            device,
			Id:                EntityId(player.ID, SENSOR_SUFFIX_FREE_STORAGE),
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              "Free storage",
			UniqueId:          fmt.Sprintf("%s_%s", device.Id, SENSOR_SUFFIX_FREE_STORAGE),
			UnitOfMeasurement: "MB",
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       DEVICE_CLASS_DATA_SIZE,
			EntityCategory:    ENTITY_CLASS_DIAGNOSTIC,
			EnabledByDefault:  &diag,
		},
		{
			Device:         device,
			Id:             EntityId(player.ID, SENSOR_SUFFIX_IP),
			SensorType:     SENSOR_TYPE_SENSOR,
			Name:           "IP address",
			UniqueId:       fmt.Sprintf("%s_%s", device.Id, SENSOR_SUFFIX_IP),
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			Icon:           "mdi:ip-network",
		},
		{
			Device:      device,
			Id:          EntityId(player.ID, SENSOR_SUFFIX_CONNECTED),
			SensorType:  SENSOR_TYPE_BINARY,
			Name:        "Connected",
			UniqueId:    fmt.Sprintf("%s_%s", device.Id, SENSOR_SUFFIX_CONNECTED),
			DeviceClass: DEVICE_CLASS_CONNECTIVITY,
		},
	}
}

func PlayerSwitches(device domain.Device, player pisignage.Player) []domain.GenericSwitch {
	return []domain.GenericSwitch{
		{
			Device:   device,
			Id:       EntityId(player.ID, SWITCH_SUFFIX_TV_POWER),
			Name:     "TV power",
			UniqueId: fmt.Sprintf("%s_%s", device.Id, SWITCH_SUFFIX_TV_POWER),
			Icon:     "mdi:television",
		},
	}
}

func PlayerSelects(device domain.Device, player pisignage.Player, playlists []pisignage.Playlist) []domain.GenericSelect {
	options := make([]string, 0, len(playlists))
	for _, pl := range playlists {
		if pl.Name == "" || pl.Name == pisignage.TVOffPlaylist {
			continue
		}
		options = append(options, pl.Name)
	}
	return []domain.GenericSelect{
		{
			Device:   device,
			Id:       EntityId(player.ID, SELECT_SUFFIX_PLAYLIST),
			Name:     "Playlist",
			UniqueId: fmt.Sprintf("%s_%s", device.Id, SELECT_SUFFIX_PLAYLIST),
			Icon:     "mdi:playlist-music",
			Options:  options,
		},
	}
}

func PlayerButtons(device domain.Device, player pisignage.Player) []domain.GenericButton {
	buttons := []struct {
		suffix string
		name   string
		icon   string
	}{
		{BUTTON_SUFFIX_PLAY, "Play", "mdi:play"},
		{BUTTON_SUFFIX_PAUSE, "Pause", "mdi:pause"},
		{BUTTON_SUFFIX_NEXT, "Next", "mdi:skip-next"},
		{BUTTON_SUFFIX_PREVIOUS, "Previous", "mdi:skip-previous"},
	}
	result := make([]domain.GenericButton, 0, len(buttons))
	for _, b := range buttons {
		result = append(result, domain.GenericButton{
			Device:   device,
			Id:       EntityId(player.ID, b.suffix),
			Name:     b.name,
			UniqueId: fmt.Sprintf("%s_%s", device.Id, b.suffix),
			Icon:     b.icon,
		})
	}
	return result
}

func md5HashShort(value string) string {
	hash := md5.Sum([]byte(value))
	return hex.EncodeToString(hash[:])[:8]
}
