// Package config loads the static cluster configuration spec §6
// requires ("a static list of (node-id, host, port) triples known at
// startup") plus the named timing constants, from a YAML file —
// grounded on node.NodeConfig/NewNodeConfig, generalized from
// flag-built config to a file the whole cluster can share.
package config

import (
	"fmt"
	"io/ioutil"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is the full static configuration for one replica process.
type Config struct {
	NodeID      string            `yaml:"node_id"`
	ListenAddr  string            `yaml:"listen_addr"`
	ClientAddr  string            `yaml:"client_addr"`
	DataDir     string            `yaml:"data_dir"`
	Peers       map[string]string `yaml:"peers"`
	Timing      Timing            `yaml:"timing"`
}

// Timing holds the configuration constants named in spec §6.
type Timing struct {
	MinElectionTimeoutMs   int `yaml:"min_election_timeout_ms"`
	ElectionTimeoutJitterMs int `yaml:"election_timeout_jitter_ms"`
	HeartbeatIntervalMs    int `yaml:"heartbeat_interval_ms"`
}

// defaultTiming mirrors raft.DefaultConfig's reference values.
func defaultTiming() Timing {
	return Timing{
		MinElectionTimeoutMs:   150,
		ElectionTimeoutJitterMs: 150,
		HeartbeatIntervalMs:    50,
	}
}

// Load reads and parses a cluster config file.
func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := &Config{Timing: defaultTiming()}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.NodeID == "" {
		return fmt.Errorf("config: node_id is required")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("config: listen_addr is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir is required")
	}
	if c.Timing.HeartbeatIntervalMs*2 >= c.Timing.MinElectionTimeoutMs {
		return fmt.Errorf("config: heartbeat_interval_ms must be < min_election_timeout_ms / 2")
	}
	return nil
}

// MinElectionTimeout returns the configured minimum election timeout as
// a time.Duration.
func (t Timing) MinElectionTimeout() time.Duration {
	return time.Duration(t.MinElectionTimeoutMs) * time.Millisecond
}

// ElectionTimeoutJitter returns the configured jitter bound.
func (t Timing) ElectionTimeoutJitter() time.Duration {
	return time.Duration(t.ElectionTimeoutJitterMs) * time.Millisecond
}

// HeartbeatInterval returns the configured heartbeat interval.
func (t Timing) HeartbeatInterval() time.Duration {
	return time.Duration(t.HeartbeatIntervalMs) * time.Millisecond
}
