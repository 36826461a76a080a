package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abstract-horizon/pyrosd/log"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.config"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MQTT.Host != "localhost" || cfg.MQTT.Port != 1883 {
		t.Errorf("expected defaults, got %+v", cfg.MQTT)
	}

	if cfg.Cluster() != "master" {
		t.Errorf("Cluster() = %q, want master", cfg.Cluster())
	}
}

func TestReadKV(t *testing.T) {
	body := `
# comment
mqtt.host=broker.local
mqtt.port=1884
mqtt.timeout=2.5
cluster_id=alpha
agents.kill.timeout=10
thread.kill.timeout=1.5
debug.level=debug
unknown.key=ignored
malformed line
`
	cfg := Default()

	if err := cfg.readKV(strings.NewReader(body)); err != nil {
		t.Fatalf("readKV: %v", err)
	}

	if cfg.MQTT.Host != "broker.local" || cfg.MQTT.Port != 1884 {
		t.Errorf("mqtt host/port not applied: %+v", cfg.MQTT)
	}

	if cfg.MQTT.Timeout != 2500*time.Millisecond {
		t.Errorf("mqtt.timeout = %s, want 2.5s", cfg.MQTT.Timeout)
	}

	if cfg.ClusterID != "alpha" {
		t.Errorf("cluster_id = %q, want alpha", cfg.ClusterID)
	}

	if cfg.Agents.KillTimeout != 10*time.Second {
		t.Errorf("agents.kill.timeout = %s, want 10s", cfg.Agents.KillTimeout)
	}

	if cfg.Thread.KillTimeout != 1500*time.Millisecond {
		t.Errorf("thread.kill.timeout = %s, want 1.5s", cfg.Thread.KillTimeout)
	}

	if cfg.Log.Level != log.LevelDebug {
		t.Errorf("debug.level = %v, want LevelDebug", cfg.Log.Level)
	}
}

func TestApplyEnvMQTT(t *testing.T) {
	t.Setenv("PYROS_MQTT", "otherhost:9999")
	t.Setenv("PYROS_CLUSTER_ID", "beta")

	cfg := Default()
	cfg.applyEnv()

	if cfg.MQTT.Host != "otherhost" || cfg.MQTT.Port != 9999 {
		t.Errorf("env override not applied: %+v", cfg.MQTT)
	}

	if cfg.ClusterID != "beta" {
		t.Errorf("cluster id env override not applied: %q", cfg.ClusterID)
	}
}

func TestHostPortHasNoScheme(t *testing.T) {
	cfg := Default()

	if got, want := cfg.MQTT.HostPort(), "localhost:1883"; got != want {
		t.Errorf("HostPort() = %q, want %q", got, want)
	}

	if got := cfg.MQTT.Broker(); got != "tcp://localhost:1883" {
		t.Errorf("Broker() = %q, want tcp:// prefix", got)
	}
}
