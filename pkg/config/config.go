// Package config binds the proxy's on-disk configuration: listener bind
// address, per-host routing, backend groups with fallback priority,
// online/offline mode, identity forwarding, compression, rate caps,
// connect-throttle, and PROXY protocol acceptance (spec §6). Structurally
// modeled on the teacher's pkg/config (referenced throughout
// pkg/proxy/connection.go and cmd/gate/gate.go but not itself present in
// the retrieved excerpt), bound with github.com/spf13/viper and
// gopkg.in/yaml.v2 struct tags per SPEC_FULL's ambient stack.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration document, unmarshaled by viper from
// config.yml (or env vars with the GATE_ prefix).
type Config struct {
	Debug bool `yaml:"debug" mapstructure:"debug"`

	Bind string `yaml:"bind" mapstructure:"bind"`

	OnlineMode        bool `yaml:"onlineMode" mapstructure:"onlineMode"`
	ForwardIdentity   bool `yaml:"forwardIdentity" mapstructure:"forwardIdentity"`
	AcceptProxyProtocol bool `yaml:"acceptProxyProtocol" mapstructure:"acceptProxyProtocol"`

	Compression CompressionConfig `yaml:"compression" mapstructure:"compression"`

	// Servers maps a backend's name to its dial address ("host:port").
	Servers map[string]string `yaml:"servers" mapstructure:"servers"`
	// Try is the default fallback priority list of backend names, used
	// when a virtual host has no more specific entry in ForcedHosts.
	Try []string `yaml:"try" mapstructure:"try"`
	// ForcedHosts maps a virtual host (the address the client handshook
	// with) to its own priority list, overriding Try.
	ForcedHosts map[string][]string `yaml:"forcedHosts" mapstructure:"forcedHosts"`

	Status StatusConfig `yaml:"status" mapstructure:"status"`

	Quota QuotaConfig `yaml:"quota" mapstructure:"quota"`

	RateLimit RateLimitConfig `yaml:"rateLimit" mapstructure:"rateLimit"`

	Timeouts TimeoutsConfig `yaml:"timeouts" mapstructure:"timeouts"`
}

type CompressionConfig struct {
	// Threshold is the minimum payload length (bytes) that triggers zlib
	// compression; -1 disables compression entirely (§4.4).
	Threshold int32 `yaml:"threshold" mapstructure:"threshold"`
	Level     int   `yaml:"level" mapstructure:"level"`
}

type StatusConfig struct {
	MOTD       string `yaml:"motd" mapstructure:"motd"`
	MaxPlayers int    `yaml:"maxPlayers" mapstructure:"maxPlayers"`
	Favicon    string `yaml:"favicon" mapstructure:"favicon"` // path to a PNG, see pkg/favicon
}

// QuotaConfig configures the per-IP connect throttle (§5, §7 RateError).
type QuotaConfig struct {
	ConnectionsPerSecond float64       `yaml:"connectionsPerSecond" mapstructure:"connectionsPerSecond"`
	Burst                int           `yaml:"burst" mapstructure:"burst"`
	PruneInterval        time.Duration `yaml:"pruneInterval" mapstructure:"pruneInterval"`
}

// RateLimitConfig configures the per-connection inbound packet/byte caps
// enforced by the frame layer (§4.4).
type RateLimitConfig struct {
	PacketsPerSecond int `yaml:"packetsPerSecond" mapstructure:"packetsPerSecond"`
	BytesPerSecond   int `yaml:"bytesPerSecond" mapstructure:"bytesPerSecond"`
}

type TimeoutsConfig struct {
	LoginSeconds         int `yaml:"loginSeconds" mapstructure:"loginSeconds"`
	KeepAliveSeconds     int `yaml:"keepAliveSeconds" mapstructure:"keepAliveSeconds"`
	ConnectTimeoutMillis int `yaml:"connectTimeoutMillis" mapstructure:"connectTimeoutMillis"`
}

// Default returns the configuration used when no config.yml is present,
// matching the values a fresh `gate` invocation would otherwise require
// the operator to spell out.
func Default() Config {
	return Config{
		Bind:        "0.0.0.0:25565",
		OnlineMode:  true,
		Compression: CompressionConfig{Threshold: 256, Level: -1},
		Try:         nil,
		ForcedHosts: map[string][]string{},
		Servers:     map[string]string{},
		Status: StatusConfig{
			MOTD:       "A Birchwood Gate Proxy",
			MaxPlayers: 100,
		},
		Quota: QuotaConfig{
			ConnectionsPerSecond: 1,
			Burst:                3,
			PruneInterval:        5 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			PacketsPerSecond: 500,
			BytesPerSecond:   2 * 1024 * 1024,
		},
		Timeouts: TimeoutsConfig{
			LoginSeconds:         30,
			KeepAliveSeconds:     15,
			ConnectTimeoutMillis: 5000,
		},
	}
}

// Validate is run eagerly at startup, before the listener binds (SPEC_FULL
// ambient stack), rejecting configuration that would otherwise surface as
// a confusing runtime failure later.
func Validate(cfg *Config) error {
	if cfg.Bind == "" {
		return fmt.Errorf("config: bind address must not be empty")
	}
	if len(cfg.Servers) == 0 {
		return fmt.Errorf("config: at least one server must be declared under servers")
	}
	for _, name := range cfg.Try {
		if _, ok := cfg.Servers[name]; !ok {
			return fmt.Errorf("config: try references unknown server %q", name)
		}
	}
	for host, list := range cfg.ForcedHosts {
		for _, name := range list {
			if _, ok := cfg.Servers[name]; !ok {
				return fmt.Errorf("config: forcedHosts[%q] references unknown server %q", host, name)
			}
		}
	}
	if cfg.Quota.ConnectionsPerSecond <= 0 {
		return fmt.Errorf("config: quota.connectionsPerSecond must be positive")
	}
	if cfg.Quota.Burst <= 0 {
		return fmt.Errorf("config: quota.burst must be positive")
	}
	return nil
}

// AttemptOrder returns the fallback priority list of backend names for a
// client that connected to virtualHost, falling back to Try when no more
// specific entry exists (§4.6 "priority-ordered list of backends").
func (c *Config) AttemptOrder(virtualHost string) []string {
	host := strings.ToLower(virtualHost)
	if idx := strings.IndexByte(host, ':'); idx >= 0 {
		host = host[:idx]
	}
	if list, ok := c.ForcedHosts[host]; ok && len(list) > 0 {
		return list
	}
	return c.Try
}
