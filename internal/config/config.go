package config

import (
	"errors"
	"regexp"
	"strings"

	"pisignage2mqtt/pkg/pisignage"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel zapcore.Level
	Signage  SignageServerConfig `mapstructure:"signage"`
	MQTT     MQTTConfig          `mapstructure:"mqtt"`

	MonitorConfig    MonitorConfig    `mapstructure:"monitor"`
	AutomationConfig AutomationConfig `mapstructure:"automation"`
	Port             uint             `mapstructure:"port"`
	HttpLog          bool             `mapstructure:"http_log"`
}

// SignageServerConfig locates the PiSignage server. Hosted accounts use the
// account name as host (resolved to <host>.pisignage.com); open-source
// installs use host:port.
type SignageServerConfig struct {
	ServerType string `mapstructure:"server_type"`
	Host       string
	Port       uint
	UseSSL     bool `mapstructure:"use_ssl"`
	Username   string
	Password   string
	OTP        string `mapstructure:"otp"`
}

type MonitorConfig struct {
	PollIntervalMillis   uint32 `mapstructure:"poll_interval_millis"`
	PlaylistRefreshTicks uint   `mapstructure:"playlist_refresh_ticks"`
}

type AutomationConfig struct {
	BlueprintsDir string `mapstructure:"blueprints_dir"`
}

type MQTTConfig struct {
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

func (c SignageServerConfig) ClientConfig() pisignage.ClientConfig {
	return pisignage.ClientConfig{
		ServerType: c.ServerType,
		Host:       c.Host,
		Port:       c.Port,
		UseSSL:     c.UseSSL,
		Username:   c.Username,
		Password:   c.Password,
	}
}

func (c SignageServerConfig) Validate() error {
	switch c.ServerType {
	case pisignage.ServerTypeHosted, pisignage.ServerTypeOpenSource:
	default:
		return errors.New("config param signage.server_type must be hosted or open_source")
	}
	if c.Host == "" {
		return errors.New("config param signage.host is required")
	}
	if c.Username == "" || c.Password == "" {
		return errors.New("config params signage.username and signage.password are required")
	}
	return nil
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}
