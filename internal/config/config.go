package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates all runtime settings.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Relay  RelayConfig  `mapstructure:"relay"`
}

// ServerConfig describes the HTTP listener and the optional static client
// mounts.
type ServerConfig struct {
	Addr           string `mapstructure:"addr"`
	UserClientDir  string `mapstructure:"user_client_dir"`
	AdminClientDir string `mapstructure:"admin_client_dir"`
}

// RelayConfig tunes the websocket transport.
type RelayConfig struct {
	SendBuffer   int           `mapstructure:"send_buffer"`
	PingInterval time.Duration `mapstructure:"ping_interval"`
	PongWait     time.Duration `mapstructure:"pong_wait"`
	WriteWait    time.Duration `mapstructure:"write_wait"`
}

// Load reads settings from an optional config.yaml and the environment.
// Environment keys use underscores, e.g. SERVER_ADDR, RELAY_SEND_BUFFER.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.user_client_dir", "")
	v.SetDefault("server.admin_client_dir", "")
	v.SetDefault("relay.send_buffer", 32)
	v.SetDefault("relay.ping_interval", "54s")
	v.SetDefault("relay.pong_wait", "60s")
	v.SetDefault("relay.write_wait", "10s")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.Server.Addr = normalizeAddr(cfg.Server.Addr)
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.Contains(c.Server.Addr, " ") {
		return fmt.Errorf("invalid server addr: %q", c.Server.Addr)
	}
	if c.Relay.SendBuffer < 1 {
		return fmt.Errorf("relay send_buffer must be at least 1, got %d", c.Relay.SendBuffer)
	}
	if c.Relay.PingInterval <= 0 || c.Relay.PongWait <= 0 || c.Relay.WriteWait <= 0 {
		return errors.New("relay intervals must be positive")
	}
	if c.Relay.PingInterval >= c.Relay.PongWait {
		return fmt.Errorf("relay ping_interval (%s) must be shorter than pong_wait (%s)",
			c.Relay.PingInterval, c.Relay.PongWait)
	}
	return nil
}

// normalizeAddr accepts a bare port, ":3000", or "127.0.0.1:3000".
func normalizeAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ":3000"
	}
	if strings.Contains(addr, ":") {
		return addr
	}
	return ":" + addr
}
