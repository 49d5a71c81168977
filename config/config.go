//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

// Package config loads the key/value configuration the engine and its
// command-line driver need: party addresses, transport timing, and
// the share/triple sampling parameters.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/markkurossi/rtas/transport"
)

// Config is the unified configuration for one party's engine instance.
type Config struct {
	Self  string            `mapstructure:"self"`
	Addrs map[string]string `mapstructure:"addrs"`

	Peer struct {
		InitTime time.Duration `mapstructure:"init_time"`
		Timeout  time.Duration `mapstructure:"timeout"`
	} `mapstructure:"peer"`

	RTAS struct {
		ShareStd      float64 `mapstructure:"share_std"`
		CachedTriples int     `mapstructure:"cached_triples"`
	} `mapstructure:"rtas"`
}

// Load reads configuration from path (YAML, JSON or TOML, inferred
// from its extension) if non-empty, applies environment overrides
// (RTAS_PEER_TIMEOUT and friends), and fills in the defaults from §6:
// peer.init_time=1s, peer.timeout=3s, rtas.share_std=5,
// rtas.cached_triples=128.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("peer.init_time", "1s")
	v.SetDefault("peer.timeout", "3s")
	v.SetDefault("rtas.share_std", 5.0)
	v.SetDefault("rtas.cached_triples", 128)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("rtas")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// SelfAddr returns the configured "host:port" for the local party.
func (c *Config) SelfAddr() string {
	return c.Addrs[c.Self]
}

// PeerAddrs returns the address map of every party other than Self,
// in the shape transport.Bind expects.
func (c *Config) PeerAddrs() transport.AddrMap {
	peers := make(transport.AddrMap, len(c.Addrs)-1)
	for name, addr := range c.Addrs {
		if name == c.Self {
			continue
		}
		peers[transport.PartyID(name)] = addr
	}
	return peers
}
