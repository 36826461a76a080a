package config

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig is the configuration for the single broker connection.
type MQTTConfig struct {
	Host                string
	Port                int
	Timeout             time.Duration
	MaxReconnectRetries int
}

// Broker returns the "tcp://host:port" broker URL derived from cfg.
func (cfg MQTTConfig) Broker() string {
	return fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)
}

// HostPort returns the bare "host:port" form used for the PYROS_MQTT
// environment variable passed to children, as distinct from the
// "tcp://host:port" broker URL paho expects.
func (cfg MQTTConfig) HostPort() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// ClientOptions builds the paho client options for cfg. Reconnection is
// handled by the transport layer's own retry loop (capped at
// MaxReconnectRetries), not by paho's built-in AutoReconnect, so that the
// daemon can exit with failure once the cap is reached rather than retry
// forever.
func (cfg MQTTConfig) ClientOptions(clientID string) *mqtt.ClientOptions {
	o := mqtt.NewClientOptions()
	o.AddBroker(cfg.Broker())
	o.SetClientID(clientID)
	o.SetConnectTimeout(cfg.Timeout)
	o.SetAutoReconnect(false)
	o.SetCleanSession(true)

	return o
}
