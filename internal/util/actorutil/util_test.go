package actorutil

import (
	"testing"

	"pisignage2mqtt/internal/core/domain"
	"pisignage2mqtt/internal/mqtt"
	"pisignage2mqtt/pkg/pisignage"

	"github.com/stretchr/testify/assert"
)

func TestParsedMQTTCommandToCommand(t *testing.T) {

	assert := assert.New(t)

	cmd, err := ParsedMQTTCommandToCommand(mqtt.ParsedMQTTCommand{
		DeviceId: "5f2b8c1a_tv_power",
		Command:  "switch",
		Payload:  "on",
	})
	assert.NoError(err)
	tvCmd, ok := cmd.(domain.TVPowerCommand)
	assert.True(ok)
	assert.Equal("5f2b8c1a", tvCmd.PlayerID)
	assert.True(tvCmd.On)

	cmd, err = ParsedMQTTCommandToCommand(mqtt.ParsedMQTTCommand{
		DeviceId: "5f2b8c1a_tv_power",
		Command:  "switch",
		Payload:  "off",
	})
	assert.NoError(err)
	tvCmd, ok = cmd.(domain.TVPowerCommand)
	assert.True(ok)
	assert.False(tvCmd.On)

	cmd, err = ParsedMQTTCommandToCommand(mqtt.ParsedMQTTCommand{
		DeviceId: "5f2b8c1a_playlist",
		Command:  "select",
		Payload:  "menu",
	})
	assert.NoError(err)
	selCmd, ok := cmd.(domain.PlaylistSelectCommand)
	assert.True(ok)
	assert.Equal("5f2b8c1a", selCmd.PlayerID)
	assert.Equal("menu", selCmd.Playlist)

	cmd, err = ParsedMQTTCommandToCommand(mqtt.ParsedMQTTCommand{
		DeviceId: "5f2b8c1a_next",
		Command:  "button",
		Payload:  "press",
	})
	assert.NoError(err)
	btnCmd, ok := cmd.(domain.TransportCommand)
	assert.True(ok)
	assert.Equal(pisignage.MediaActionForward, btnCmd.Action)
}

func TestParsedMQTTCommandToCommandUnknown(t *testing.T) {

	assert := assert.New(t)

	// unknown suffix
	cmd, err := ParsedMQTTCommandToCommand(mqtt.ParsedMQTTCommand{
		DeviceId: "5f2b8c1a_volume",
		Command:  "switch",
		Payload:  "on",
	})
	assert.NoError(err)
	assert.Nil(cmd)

	// no player prefix
	cmd, err = ParsedMQTTCommandToCommand(mqtt.ParsedMQTTCommand{
		DeviceId: "bridge",
		Command:  "switch",
		Payload:  "on",
	})
	assert.NoError(err)
	assert.Nil(cmd)

	// empty select payload
	cmd, err = ParsedMQTTCommandToCommand(mqtt.ParsedMQTTCommand{
		DeviceId: "5f2b8c1a_playlist",
		Command:  "select",
		Payload:  "",
	})
	assert.NoError(err)
	assert.Nil(cmd)
}
