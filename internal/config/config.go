// Package config loads gateway configuration from config.yaml, WOOMCP_
// environment overrides, and the legacy CLIENTS environment variable. Any
// parse or validation failure is fatal at startup: the gateway must never
// serve traffic with a partially loaded tenant directory.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server  ServerConfig   `koanf:"server"`
	Storage StorageConfig  `koanf:"storage"`
	Clients []ClientConfig `koanf:"clients"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

type StorageConfig struct {
	Type   string       `koanf:"type"` // none, memory, sqlite
	SQLite SQLiteConfig `koanf:"sqlite"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// ClientConfig is one tenant entry: a store and its REST API credentials.
type ClientConfig struct {
	ClientID       string `koanf:"client_id" json:"clientId"`
	StoreURL       string `koanf:"store_url" json:"storeUrl"`
	ConsumerKey    string `koanf:"consumer_key" json:"consumerKey"`
	ConsumerSecret string `koanf:"consumer_secret" json:"consumerSecret"`
}

// Load reads config.yaml (when present), applies WOOMCP_ environment
// overrides, and finally the CLIENTS environment variable: a serialized JSON
// array of client entries, kept for compatibility with existing deployments.
// CLIENTS, when set, replaces any client list from the file.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider("config.yaml"), yaml.Parser()); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load config.yaml: %w", err)
		}
	}

	if err := k.Load(env.Provider("WOOMCP_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "WOOMCP_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	// Defaults
	if !k.Exists("server.port") {
		k.Set("server.port", 8080)
	}
	if !k.Exists("storage.type") {
		k.Set("storage.type", "none")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if blob := os.Getenv("CLIENTS"); blob != "" {
		clients, err := ParseClients(blob)
		if err != nil {
			return nil, err
		}
		cfg.Clients = clients
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ParseClients decodes the serialized client list carried by the CLIENTS
// environment variable.
func ParseClients(blob string) ([]ClientConfig, error) {
	var clients []ClientConfig
	if err := json.Unmarshal([]byte(blob), &clients); err != nil {
		return nil, fmt.Errorf("parse CLIENTS: %w", err)
	}
	return clients, nil
}

// Validate checks structural invariants. Client IDs must be unique and every
// entry must carry a store URL and both credentials.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "", "none", "memory":
	case "sqlite":
		if c.Storage.SQLite.Path == "" {
			return fmt.Errorf("storage type sqlite requires storage.sqlite.path")
		}
	default:
		return fmt.Errorf("unsupported storage type %q", c.Storage.Type)
	}

	seen := make(map[string]struct{}, len(c.Clients))
	for _, cl := range c.Clients {
		if cl.ClientID == "" {
			return fmt.Errorf("client entry missing client_id")
		}
		if _, dup := seen[cl.ClientID]; dup {
			return fmt.Errorf("duplicate client_id %q", cl.ClientID)
		}
		seen[cl.ClientID] = struct{}{}
		if cl.StoreURL == "" {
			return fmt.Errorf("client %q missing store_url", cl.ClientID)
		}
		if cl.ConsumerKey == "" || cl.ConsumerSecret == "" {
			return fmt.Errorf("client %q missing consumer credentials", cl.ClientID)
		}
	}
	return nil
}
