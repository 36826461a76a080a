// Package transport owns the single broker connection: connect with a
// capped, spaced retry loop, fire-and-forget QoS 0 publish from any
// goroutine, and subscription only from the connect callback.
package transport

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/abstract-horizon/pyrosd/config"
	"github.com/abstract-horizon/pyrosd/log"
)

// Subscriptions are the topic filters the daemon establishes on every
// successful connect, per the external interface contract.
var Subscriptions = []string{
	"system/+",
	"exec/+",
	"exec/+/process",
	"exec/+/process/#",
	"exec/+/system/stop",
}

// Handler is called for every inbound message on any of [Subscriptions].
type Handler func(topic string, payload []byte)

// Publisher is the narrow interface the rest of the daemon needs to send
// output back over the broker; it lets the supervisor and router be
// tested against [github.com/abstract-horizon/pyrosd/mock] without
// depending on the concrete [Transport].
type Publisher interface {
	Publish(topic, payload string)
}

// Transport is the daemon's single MQTT connection.
type Transport struct {
	cfg     config.MQTTConfig
	client  mqtt.Client
	handler Handler
}

// New constructs a Transport from cfg and clientID, wiring the paho
// ERROR/WARN/DEBUG loggers to the daemon's structured logger the way the
// rest of the ecosystem does.
func New(cfg config.MQTTConfig, clientID string, handler Handler) *Transport {
	mqtt.ERROR = log.ErrorLogger()
	mqtt.WARN = log.WarnLogger()
	mqtt.DEBUG = log.DebugLogger()

	t := &Transport{cfg: cfg, handler: handler}

	opts := cfg.ClientOptions(clientID)
	opts.SetOnConnectHandler(t.onConnect)
	opts.SetConnectionLostHandler(t.onConnectionLost)

	t.client = mqtt.NewClient(opts)

	return t
}

// NewWithClient wraps an already-constructed [mqtt.Client] (for instance
// a [github.com/abstract-horizon/pyrosd/mock.MockClient]), subscribing
// the same way Connect would.
func NewWithClient(client mqtt.Client, handler Handler) *Transport {
	t := &Transport{client: client, handler: handler}
	t.subscribe()

	return t
}

func (t *Transport) onConnect(mqtt.Client) {
	log.Info("connected to broker")
	t.subscribe()
}

func (t *Transport) onConnectionLost(_ mqtt.Client, err error) {
	log.WarnError("lost connection to broker", err)

	if err := t.Connect(context.Background()); err != nil {
		log.Fatal("giving up on broker", err)
	}
}

// subscribe registers the handler on every filter in [Subscriptions]. It
// is called from the connect callback, and once by [NewWithClient] for a
// client constructed outside this package.
func (t *Transport) subscribe() {
	filters := make(map[string]byte, len(Subscriptions))
	for _, f := range Subscriptions {
		filters[f] = 0
	}

	token := t.client.SubscribeMultiple(filters, func(_ mqtt.Client, m mqtt.Message) {
		t.handler(m.Topic(), m.Payload())
	})

	token.Wait()

	if err := token.Error(); err != nil {
		log.Error("subscribe failed", err)
	}
}

// Connect dials the broker, retrying up to cfg.MaxReconnectRetries times
// with at least 1 second of spacing between attempts. It returns an error
// once the cap is reached, on which the caller must exit the process with
// failure per the daemon's error-handling design.
func (t *Transport) Connect(ctx context.Context) error {
	retries := t.cfg.MaxReconnectRetries
	if retries <= 0 {
		retries = 1
	}

	var lastErr error

	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
		}

		token := t.client.Connect()
		if !token.WaitTimeout(t.cfg.Timeout) {
			lastErr = fmt.Errorf("connect timed out after %s", t.cfg.Timeout)
			log.Warn("broker connect timed out, retrying", "attempt", attempt+1)

			continue
		}

		if err := token.Error(); err != nil {
			lastErr = err
			log.Warn("broker connect failed, retrying", "attempt", attempt+1, "error", err)

			continue
		}

		return nil
	}

	return fmt.Errorf("pyrosd: exhausted %d broker connect retries: %w", retries, lastErr)
}

// Publish fires payload to topic at QoS 0, fire-and-forget. Safe to call
// concurrently from any goroutine.
func (t *Transport) Publish(topic, payload string) {
	t.client.Publish(topic, 0, false, payload)
}

// Disconnect closes the connection, waiting up to quiesce for in-flight
// work to complete.
func (t *Transport) Disconnect(quiesce uint) {
	t.client.Disconnect(quiesce)
}
