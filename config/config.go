// bera-proofs: SSZ Merkle proofs for Berachain's beacon state
// Copyright 2025 bera-proofs Authors
// SPDX-License-Identifier: MIT

// Package config loads the service configuration from an optional YAML file,
// applies environment overrides on top, and picks the beacon API endpoint for
// the selected network.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Supported network names.
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

// Config is the full service configuration.
type Config struct {
	Network string       `yaml:"network"`
	Beacon  BeaconConfig `yaml:"beacon"`
	Server  ServerConfig `yaml:"server"`
}

// BeaconConfig holds the upstream beacon API endpoints per network.
type BeaconConfig struct {
	MainnetURL     string `yaml:"mainnet_url"`
	TestnetURL     string `yaml:"testnet_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ServerConfig holds the REST server's listen settings.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Default returns the built-in configuration: mainnet against the public
// node endpoints, serving on the conventional local port.
func Default() *Config {
	return &Config{
		Network: NetworkMainnet,
		Beacon: BeaconConfig{
			MainnetURL:     "http://localhost:3500",
			TestnetURL:     "http://localhost:3500",
			TimeoutSeconds: 30,
		},
		Server: ServerConfig{
			ListenAddr: ":8000",
		},
	}
}

// Load reads the configuration file at path (skipped when empty), merges it
// over the defaults and applies the BEACON_* environment overrides last.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		blob, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(blob, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays the environment variables the deployment sets:
// BEACON_NETWORK, BEACON_RPC_URL_MAINNET and BEACON_RPC_URL_TESTNET.
func (c *Config) applyEnv() {
	if v := os.Getenv("BEACON_NETWORK"); v != "" {
		c.Network = v
	}
	if v := os.Getenv("BEACON_RPC_URL_MAINNET"); v != "" {
		c.Beacon.MainnetURL = v
	}
	if v := os.Getenv("BEACON_RPC_URL_TESTNET"); v != "" {
		c.Beacon.TestnetURL = v
	}
}

func (c *Config) validate() error {
	switch c.Network {
	case NetworkMainnet, NetworkTestnet:
		return nil
	default:
		return fmt.Errorf("unknown network %q", c.Network)
	}
}

// BeaconURL returns the beacon API base URL of the configured network.
func (c *Config) BeaconURL() string {
	if c.Network == NetworkTestnet {
		return c.Beacon.TestnetURL
	}
	return c.Beacon.MainnetURL
}
