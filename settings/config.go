package settings

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the static daemon configuration. Everything has a default so the
// daemon runs without a config file.
type Config struct {
	Network NetworkConfig `yaml:"network"`
	Timing  TimingConfig  `yaml:"timing"`
	Bus     BusConfig     `yaml:"bus"`
}

type NetworkConfig struct {
	Interface     string `yaml:"interface"`
	ReceivePort   int    `yaml:"receive_port"`
	FallbackPort  int    `yaml:"fallback_port"`
	BroadcastPort int    `yaml:"broadcast_port"`
	ReplyPort     int    `yaml:"reply_port"`
	LocationPort  int    `yaml:"location_port"`
}

type TimingConfig struct {
	PublishPeriod  time.Duration `yaml:"publish_period"`
	ReceiveTimeout time.Duration `yaml:"receive_timeout"`
	AnnouncePeriod time.Duration `yaml:"announce_period"`
	GpsPeriod      time.Duration `yaml:"gps_period"`
	StaleAfter     time.Duration `yaml:"stale_after"`
}

type BusConfig struct {
	AdvisoryTopic string `yaml:"advisory_topic"`
	VehicleTopic  string `yaml:"vehicle_topic"`
	LocationTopic string `yaml:"location_topic"`
}

func DefaultConfig() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads a yaml config file. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "could not read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "could not parse config file")
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Network.ReceivePort == 0 {
		c.Network.ReceivePort = RECEIVE_PORT
	}
	if c.Network.FallbackPort == 0 {
		c.Network.FallbackPort = FALLBACK_PORT
	}
	if c.Network.BroadcastPort == 0 {
		c.Network.BroadcastPort = BROADCAST_PORT
	}
	if c.Network.ReplyPort == 0 {
		c.Network.ReplyPort = REPLY_PORT
	}
	if c.Network.LocationPort == 0 {
		c.Network.LocationPort = LOCATION_PORT
	}
	if c.Timing.PublishPeriod == 0 {
		c.Timing.PublishPeriod = LOOP_DELAY
	}
	if c.Timing.ReceiveTimeout == 0 {
		c.Timing.ReceiveTimeout = RECEIVE_TIMEOUT
	}
	if c.Timing.AnnouncePeriod == 0 {
		c.Timing.AnnouncePeriod = ANNOUNCE_PERIOD
	}
	if c.Timing.GpsPeriod == 0 {
		c.Timing.GpsPeriod = GPS_PERIOD
	}
	if c.Timing.StaleAfter == 0 {
		c.Timing.StaleAfter = STALE_AFTER
	}
	if c.Bus.AdvisoryTopic == "" {
		c.Bus.AdvisoryTopic = ADVISORY_TOPIC
	}
	if c.Bus.VehicleTopic == "" {
		c.Bus.VehicleTopic = VEHICLE_TOPIC
	}
	if c.Bus.LocationTopic == "" {
		c.Bus.LocationTopic = LOCATION_TOPIC
	}
}

func (c Config) Validate() error {
	ports := map[string]int{
		"network.receive_port":   c.Network.ReceivePort,
		"network.fallback_port":  c.Network.FallbackPort,
		"network.broadcast_port": c.Network.BroadcastPort,
		"network.reply_port":     c.Network.ReplyPort,
		"network.location_port":  c.Network.LocationPort,
	}
	for name, port := range ports {
		if port < 1 || port > 65535 {
			return errors.Errorf("%s must be between 1 and 65535, got %d", name, port)
		}
	}

	periods := map[string]time.Duration{
		"timing.publish_period":  c.Timing.PublishPeriod,
		"timing.receive_timeout": c.Timing.ReceiveTimeout,
		"timing.announce_period": c.Timing.AnnouncePeriod,
		"timing.gps_period":      c.Timing.GpsPeriod,
		"timing.stale_after":     c.Timing.StaleAfter,
	}
	for name, period := range periods {
		if period < 0 {
			return errors.Errorf("%s must be > 0", name)
		}
	}
	return nil
}
