// Package config loads the harness configuration with viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	odbc "github.com/cn-pmlabs/gosai/lib/ovsdb_client"
)

// driver backends
const (
	DriverRPC     = "rpc"
	DriverKVStore = "kvstore"
)

// MemAddr selects the in-process table of the kvstore driver.
const MemAddr = "mem"

// wire styles of the rpc driver
const (
	StyleWhole        = "whole"
	StylePerAttribute = "attribute"
)

// Config is the harness configuration.
type Config struct {
	Metadata  string       `mapstructure:"metadata"`
	Constants string       `mapstructure:"constants"`
	Driver    DriverConfig `mapstructure:"driver"`
}

// DriverConfig selects and configures the driver backend.
type DriverConfig struct {
	Type    string        `mapstructure:"type"`
	RPC     RPCConfig     `mapstructure:"rpc"`
	KVStore KVStoreConfig `mapstructure:"kvstore"`
}

// RPCConfig configures the binary RPC driver.
type RPCConfig struct {
	Addr        string        `mapstructure:"addr"`
	Style       string        `mapstructure:"style"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	CallTimeout time.Duration `mapstructure:"call_timeout"`
	Retries     int           `mapstructure:"retries"`
}

// KVStoreConfig configures the key-value driver.
type KVStoreConfig struct {
	Addr string `mapstructure:"addr"`
	Db   string `mapstructure:"db"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("metadata", "sai.json")
	v.SetDefault("constants", "")
	v.SetDefault("driver.type", DriverKVStore)
	v.SetDefault("driver.rpc.addr", "127.0.0.1:9092")
	v.SetDefault("driver.rpc.style", StylePerAttribute)
	v.SetDefault("driver.rpc.dial_timeout", 5*time.Second)
	v.SetDefault("driver.rpc.call_timeout", 30*time.Second)
	v.SetDefault("driver.rpc.retries", 3)
	v.SetDefault("driver.kvstore.addr", MemAddr)
	v.SetDefault("driver.kvstore.db", odbc.SAISTATE)
}

// Load reads path, when set, over the defaults and the values already
// bound on v, then validates the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the selected driver is fully configured.
func (c *Config) Validate() error {
	if c.Metadata == "" {
		return errors.New("config: metadata is required")
	}
	switch c.Driver.Type {
	case DriverRPC:
		if c.Driver.RPC.Addr == "" {
			return errors.New("config: driver.rpc.addr is required")
		}
		switch c.Driver.RPC.Style {
		case StyleWhole, StylePerAttribute:
		default:
			return fmt.Errorf("config: unknown driver.rpc.style %q", c.Driver.RPC.Style)
		}
		if c.Driver.RPC.Retries < 0 {
			return fmt.Errorf("config: driver.rpc.retries %d is negative", c.Driver.RPC.Retries)
		}
	case DriverKVStore:
		if c.Driver.KVStore.Addr == "" {
			return errors.New("config: driver.kvstore.addr is required")
		}
	default:
		return fmt.Errorf("config: unknown driver.type %q", c.Driver.Type)
	}
	return nil
}
