package mock

import (
	"encoding/json"
	"io"
	"strings"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/abstract-horizon/pyrosd/log"
)

// Published records one call to [MockClient.Publish], in call order.
type Published struct {
	Topic   string
	Payload []byte
}

type MockClient struct {
	connected bool

	onConnect mqtt.OnConnectHandler
	msg       []byte
	opts      *mqtt.ClientOptions
	w         io.Writer
	mu        sync.Mutex

	published []Published
	routes    map[string]mqtt.MessageHandler
}

func NewMockClient(o *mqtt.ClientOptions, w io.Writer) mqtt.Client {
	c := &MockClient{
		onConnect: o.OnConnect,
		opts:      o,
		w:         w,
		routes:    make(map[string]mqtt.MessageHandler),
	}
	return c
}

// Published returns every payload published so far, in call order. Tests
// use this instead of parsing the JSON written to the mock's io.Writer.
func (c *MockClient) Published() []Published {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Published, len(c.published))
	copy(out, c.published)

	return out
}

// Deliver simulates an inbound broker message on topic, routing it to
// every registered subscription filter that matches, in the order they
// were subscribed, mirroring how a real broker fans a publish out to
// every matching subscriber.
func (c *MockClient) Deliver(topic string, payload []byte) {
	c.mu.Lock()
	var handlers []mqtt.MessageHandler
	for filter, h := range c.routes {
		if topicMatches(filter, topic) {
			handlers = append(handlers, h)
		}
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(c, &message{topic: topic, payload: payload})
	}
}

// topicMatches reports whether topic matches the MQTT subscription
// filter, honoring the single-level "+" and multi-level "#" wildcards.
func topicMatches(filter, topic string) bool {
	fp := strings.Split(filter, "/")
	tp := strings.Split(topic, "/")

	for i, f := range fp {
		if f == "#" {
			return true
		}
		if i >= len(tp) {
			return false
		}
		if f != "+" && f != tp[i] {
			return false
		}
	}

	return len(fp) == len(tp)
}

func (c *MockClient) SetCallbackMessage(msg []byte) {
	c.msg = msg
}

func (c *MockClient) IsConnected() bool {
	return c.connected
}

func (c *MockClient) IsConnectionOpen() bool {
	return c.connected
}

func (c *MockClient) Connect() mqtt.Token {
	c.connected = true
	if c.onConnect != nil {
		c.onConnect(c)
	}
	return &mqtt.DummyToken{}
}

func (c *MockClient) Disconnect(_ uint) {
	c.connected = false
}

func (c *MockClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	var p []byte
	switch v := payload.(type) {
	case []byte:
		p = v
	case string:
		p = []byte(v)
	}

	c.published = append(c.published, Published{Topic: topic, Payload: p})

	if c.w != nil {
		e := json.NewEncoder(c.w)
		e.SetIndent("", "  ")

		if err := e.Encode(map[string]json.RawMessage{topic: json.RawMessage(p)}); err != nil {
			log.Error("error encoding "+topic, err)
		}

		if s, ok := c.w.(interface{ Sync() error }); ok {
			s.Sync()
		}
	}

	return &mqtt.DummyToken{}
}

func (c *MockClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	c.routes[topic] = callback
	c.mu.Unlock()

	if c.msg != nil {
		callback(c, &message{topic: topic, payload: c.msg})
	}

	return &mqtt.DummyToken{}
}

func (c *MockClient) SubscribeMultiple(filters map[string]byte, callback mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	for topic := range filters {
		c.routes[topic] = callback
	}
	c.mu.Unlock()

	if c.msg != nil {
		for topic := range filters {
			callback(c, &message{topic: topic, payload: c.msg})
		}
	}

	return &mqtt.DummyToken{}
}

func (c *MockClient) Unsubscribe(topics ...string) mqtt.Token {
	c.mu.Lock()
	for _, t := range topics {
		delete(c.routes, t)
	}
	c.mu.Unlock()

	return &mqtt.DummyToken{}
}

func (c *MockClient) AddRoute(topic string, callback mqtt.MessageHandler) {
	c.mu.Lock()
	c.routes[topic] = callback
	c.mu.Unlock()
}

func (c *MockClient) OptionsReader() mqtt.ClientOptionsReader {
	return mqtt.NewOptionsReader(c.opts)
}

type message struct {
	topic   string
	payload []byte
}

func (m *message) Duplicate() bool   { return false }
func (m *message) Qos() byte         { return 0 }
func (m *message) Retained() bool    { return false }
func (m *message) MessageID() uint16 { return 0 }
func (m *message) Ack()              {}

func (m *message) Topic() string {
	return m.topic
}

func (m *message) Payload() []byte {
	return m.payload
}
