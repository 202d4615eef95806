package mqtt

import (
	"testing"

	"pisignage2mqtt/internal/config"
	"pisignage2mqtt/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestSwitchCommandParse(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	topic := "loremTopic/switch/5f2b8c1a_tv_power/command"
	r := switchCommandExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal(matches[0][1], "5f2b8c1a_tv_power", "device extract")
}

func TestSwitchCommandParseFail(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	topic := "loremTopic/switch/5f2b8c1a_tv_power/state"
	r := switchCommandExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal(len(matches), 0, "no matches")
}

func TestSelectCommandParse(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	topic := "loremTopic/select/5f2b8c1a_playlist/set"
	r := selectCommandExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal(matches[0][1], "5f2b8c1a_playlist", "select_id extract")
}

func TestSelectCommandParseFail(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	topic := "loremTopic/switch/5f2b8c1a_playlist/command"
	r := selectCommandExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal(len(matches), 0, "no matches")
}

func TestButtonCommandParse(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	topic := "loremTopic/button/5f2b8c1a_play/press"
	r := buttonCommandExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal(matches[0][1], "5f2b8c1a_play", "button_id extract")
}

func TestHADiscoveryTopicConfigurable(t *testing.T) {

	assert := assert.New(t)

	cfg := &config.Config{
		MQTT: config.MQTTConfig{
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        "loremTopic",
			HADiscoveryTopic: "custom_ha",
		},
	}
	client := CreateMQTTClient(cfg, OptsFromConfig(cfg), nil, nil)

	sensor := domain.GenericSensor{
		Device:     domain.Device{Id: "dev1"},
		Id:         "5f2b8c1a_status",
		SensorType: "sensor",
	}
	assert.Equal("custom_ha/sensor/dev1/5f2b8c1a_status/config", client.HADiscoverySensorTopic(sensor))

	sel := domain.GenericSelect{Device: domain.Device{Id: "dev1"}, Id: "5f2b8c1a_playlist"}
	assert.Equal("custom_ha/select/dev1/5f2b8c1a_playlist/config", client.HADiscoverySelectTopic(sel))

	cfg.MQTT.HADiscoveryTopic = ""
	client = CreateMQTTClient(cfg, OptsFromConfig(cfg), nil, nil)
	assert.Equal("homeassistant/sensor/dev1/5f2b8c1a_status/config", client.HADiscoverySensorTopic(sensor))
}

func TestButtonCommandParseFail(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	topic := "loremTopic/button/5f2b8c1a_play/state"
	r := buttonCommandExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal(len(matches), 0, "no matches")
}
