// Package config provides the structures used for configuring pyrosd.
//
// Configuration is loaded from a key=value file, conventionally
// <home>/pyros.config (see [Load]), then overridden by environment
// variables (PYROS_MQTT, PYROS_CLUSTER_ID) and finally by CLI flags,
// in that order, matching the daemon's documented precedence.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abstract-horizon/pyrosd/log"
)

// Config is the fully resolved configuration for a running pyrosd.
type Config struct {
	// ClusterID identifies this daemon instance so that broker traffic
	// can be sharded across co-resident daemons. The empty string means
	// the implicit cluster "master".
	ClusterID string

	// Home is the working directory root; code lives under
	// Home/code/<process_id>/.
	Home string

	MQTT   MQTTConfig
	Agents AgentsConfig
	Thread ThreadConfig
	Log    LogConfig
}

// AgentsConfig holds the agent watchdog timings.
type AgentsConfig struct {
	// CheckTimeout is how often the watchdog sweeps the registry.
	CheckTimeout time.Duration
	// KillTimeout is how long an agent may go without a ping before
	// the watchdog cooperatively stops it.
	KillTimeout time.Duration
}

// ThreadConfig holds the cooperative stop/kill timings shared by every
// process stop, whether requested by a client or the agent watchdog.
type ThreadConfig struct {
	// KillTimeout is how long to wait for stop_acknowledged, and then
	// again for the OS process to exit, before force-killing.
	KillTimeout time.Duration
}

// Default returns the configuration used when no pyros.config file is
// present: a local broker, cluster "master", and the timeouts the
// original daemon shipped with.
func Default() *Config {
	return &Config{
		Home: ".",
		MQTT: MQTTConfig{
			Host:                "localhost",
			Port:                1883,
			Timeout:             5 * time.Second,
			MaxReconnectRetries: 10,
		},
		Agents: AgentsConfig{
			CheckTimeout: 30 * time.Second,
			KillTimeout:  5 * time.Minute,
		},
		Thread: ThreadConfig{
			KillTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level: log.LevelInfo,
		},
	}
}

// Load reads the key=value config file at path into a copy of [Default],
// then applies the PYROS_MQTT and PYROS_CLUSTER_ID environment overrides.
// A missing file is not an error: the defaults (plus any environment
// overrides) are returned as-is, matching the daemon's tolerance of a
// bare broker address with no config file at all.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}

		return nil, err
	}
	defer f.Close()

	log.Debug("loading config", "path", path)

	if err := cfg.readKV(f); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	return cfg, nil
}

// readKV parses r as lines of key=value, fanning recognized keys into
// cfg's fields. Unrecognized keys are logged and ignored, not fatal:
// a typo in pyros.config should not prevent the daemon from starting.
func (cfg *Config) readKV(r io.Reader) error {
	sc := bufio.NewScanner(r)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			log.Warn("malformed config line, skipping", "line", line)
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if err := cfg.setKV(key, value); err != nil {
			log.Warn("ignoring config key", "key", key, "error", err)
		}
	}

	return sc.Err()
}

func (cfg *Config) setKV(key, value string) error {
	switch key {
	case "debug.level":
		lvl, err := parseLevel(value)
		if err != nil {
			return err
		}

		cfg.Log.Level = lvl
	case "mqtt.timeout":
		d, err := parseSeconds(value)
		if err != nil {
			return err
		}

		cfg.MQTT.Timeout = d
	case "mqtt.host":
		cfg.MQTT.Host = value
	case "mqtt.port":
		p, err := strconv.Atoi(value)
		if err != nil {
			return err
		}

		cfg.MQTT.Port = p
	case "mqtt.max_reconnect_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}

		cfg.MQTT.MaxReconnectRetries = n
	case "cluster_id":
		cfg.ClusterID = value
	case "agents.kill.timeout":
		d, err := parseSeconds(value)
		if err != nil {
			return err
		}

		cfg.Agents.KillTimeout = d
	case "agents.check.timeout":
		d, err := parseSeconds(value)
		if err != nil {
			return err
		}

		cfg.Agents.CheckTimeout = d
	case "thread.kill.timeout":
		d, err := parseSeconds(value)
		if err != nil {
			return err
		}

		cfg.Thread.KillTimeout = d
	default:
		return fmt.Errorf("unknown key %q", key)
	}

	return nil
}

func parseSeconds(s string) (time.Duration, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	return time.Duration(f * float64(time.Second)), nil
}

func parseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	case "disabled", "none", "off":
		return log.LevelDisabled, nil
	default:
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid debug.level %q", s)
		}

		return log.Level(n), nil
	}
}

// applyEnv layers PYROS_MQTT and PYROS_CLUSTER_ID over the already
// loaded config, matching the precedence config file < environment < flags.
func (cfg *Config) applyEnv() {
	if mqtt, ok := os.LookupEnv("PYROS_MQTT"); ok && mqtt != "" {
		host, port, ok := strings.Cut(mqtt, ":")
		cfg.MQTT.Host = host

		if ok {
			if p, err := strconv.Atoi(port); err == nil {
				cfg.MQTT.Port = p
			} else {
				log.Warn("ignoring malformed PYROS_MQTT port", "value", mqtt)
			}
		}
	}

	if cid, ok := os.LookupEnv("PYROS_CLUSTER_ID"); ok && cid != "" {
		cfg.ClusterID = cid
	}
}

// Cluster returns the effective cluster id, defaulting to "master" when
// unset.
func (cfg *Config) Cluster() string {
	if cfg.ClusterID == "" {
		return "master"
	}

	return cfg.ClusterID
}
