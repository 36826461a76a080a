// Package router parses inbound MQTT topics, extracts {cluster_id,
// process_id, sub-topic}, filters by this daemon's cluster id, and
// dispatches to the code store, per-process command handler, the
// child stop-acknowledgement back-channel, or the system command
// handler.
package router

import (
	"strings"
	"time"

	"github.com/abstract-horizon/pyrosd/log"
	"github.com/abstract-horizon/pyrosd/process"
	"github.com/abstract-horizon/pyrosd/registry"
	"github.com/abstract-horizon/pyrosd/topic"
	"github.com/abstract-horizon/pyrosd/transport"
)

// Router dispatches every message delivered on [transport.Subscriptions].
type Router struct {
	Registry   *registry.Registry
	Supervisor *process.Supervisor
	Publisher  transport.Publisher
	ClusterID  string

	// ThreadKillTimeout is used to bound the `stop` system command's
	// fan-out, per spec's 2×thread_kill_timeout shutdown budget.
	ThreadKillTimeout time.Duration

	// Shutdown is invoked once the `stop` system command has finished
	// draining every process; nil is a valid no-op for tests that only
	// exercise message dispatch.
	Shutdown func()
}

// Handle is the single entry point invoked by the transport for every
// inbound message. It must not block the network thread: all waits are
// offloaded to goroutines by the callees.
func (rt *Router) Handle(t string, payload []byte) {
	segs := strings.Split(t, "/")

	switch {
	case len(segs) == 2 && segs[0] == "system":
		rt.handleSystem(segs[1], string(payload))

	case len(segs) >= 2 && segs[0] == "exec":
		rt.handleExec(segs[1], segs[2:], payload)

	default:
		log.Warn("unknown topic", "topic", t)
	}
}

// handleExec dispatches everything under exec/<cid>/..., filtering by
// cluster id first.
func (rt *Router) handleExec(cidSeg string, rest []string, payload []byte) {
	cluster, id := topic.Split(cidSeg)
	if cluster != rt.cluster() {
		return
	}

	switch {
	case len(rest) == 0:
		rt.handleCommand(id, string(payload))

	case len(rest) == 1 && rest[0] == "process":
		rt.storeMain(id, payload)

	case len(rest) >= 2 && rest[0] == "process":
		rt.storeExtra(id, strings.Join(rest[1:], "/"), payload)

	case len(rest) == 2 && rest[0] == "system" && rest[1] == "stop":
		rt.handleStopAck(id, payload)

	default:
		log.Warn("unknown exec sub-topic", "id", id, "rest", rest)
	}
}

func (rt *Router) cluster() string {
	if rt.ClusterID == "" {
		return "master"
	}

	return rt.ClusterID
}

// handleStopAck records the child's cooperative stop acknowledgement.
// Per the design notes, only the literal payload "stopped" is
// recognized; anything else is ignored rather than given richer meaning.
func (rt *Router) handleStopAck(id string, payload []byte) {
	if string(payload) != "stopped" {
		return
	}

	rec, ok := rt.Registry.Get(id)
	if !ok {
		return
	}

	rec.StopAcknowledged.Store(true)
}

func (rt *Router) outTopic(id string) string {
	return topic.Out(rt.ClusterID, id, "out")
}

func (rt *Router) statusTopic(id string) string {
	return topic.Out(rt.ClusterID, id, "status")
}
