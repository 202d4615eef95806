package util

import (
	"pisignage2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Signage: config.SignageServerConfig{
			ServerType: "open_source",
			Host:       "-.-.-.-",
			Port:       3000,
			Username:   "test",
			Password:   "test",
		},
		MQTT: config.MQTTConfig{
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        "pisignage",
			HADiscoveryTopic: "homeassistant",
		},
		MonitorConfig: config.MonitorConfig{
			PollIntervalMillis:   5000,
			PlaylistRefreshTicks: 10,
		},
		AutomationConfig: config.AutomationConfig{
			BlueprintsDir: "configs/blueprints",
		},
		Port: 8080,
	}
}
