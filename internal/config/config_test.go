package config

import (
	"io/ioutil"
	"os"
	"testing"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	f, err := ioutil.TempFile("", "quorumkv-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(f.Name()) })
	if _, err := f.WriteString(body); err != nil {
		t.Fatal(err)
	}
	f.Close()
	return f.Name()
}

func TestLoadAppliesDefaultTiming(t *testing.T) {
	path := writeTempConfig(t, `
node_id: S1
listen_addr: ":7001"
client_addr: ":8001"
data_dir: /tmp/quorumkv-s1
peers:
  S2: "localhost:7002"
  S3: "localhost:7003"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timing.MinElectionTimeoutMs != 150 {
		t.Fatalf("expected default min election timeout, got %d", cfg.Timing.MinElectionTimeoutMs)
	}
	if len(cfg.Peers) != 2 {
		t.Fatalf("expected 2 peers, got %d", len(cfg.Peers))
	}
}

func TestLoadRejectsMissingNodeID(t *testing.T) {
	path := writeTempConfig(t, `
listen_addr: ":7001"
data_dir: /tmp/quorumkv-s1
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a missing node_id")
	}
}

func TestLoadRejectsBadHeartbeatRatio(t *testing.T) {
	path := writeTempConfig(t, `
node_id: S1
listen_addr: ":7001"
data_dir: /tmp/quorumkv-s1
timing:
  min_election_timeout_ms: 100
  heartbeat_interval_ms: 60
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error when heartbeat_interval_ms >= min_election_timeout_ms/2")
	}
}
