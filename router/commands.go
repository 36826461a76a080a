package router

import (
	"fmt"
	"strings"
	"time"

	"github.com/abstract-horizon/pyrosd/registry"
)

// commandFunc handles one per-process verb. arg is whatever follows the
// verb on the same line (e.g. the executable name for set-executable),
// empty for verbs that take none.
type commandFunc func(rt *Router, id, arg string)

// commands is the per-process verb table from the external interface
// contract, verbatim.
var commands = map[string]commandFunc{
	"start":           (*Router).cmdStart,
	"stop":            (*Router).cmdStop,
	"restart":         (*Router).cmdRestart,
	"remove":          (*Router).cmdRemove,
	"logs":            (*Router).cmdLogs,
	"make-service":    (*Router).cmdMakeService,
	"unmake-service":  (*Router).cmdUnmakeService,
	"enable-service":  (*Router).cmdEnableService,
	"disable-service": (*Router).cmdDisableService,
	"make-agent":      (*Router).cmdMakeAgent,
	"set-executable":  (*Router).cmdSetExecutable,
	"ping":            (*Router).cmdPing,
}

// handleCommand parses and dispatches a single per-process verb line.
func (rt *Router) handleCommand(id, line string) {
	verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")

	fn, ok := commands[verb]
	if !ok {
		rt.Publisher.Publish(rt.outTopic(id), "PyROS ERROR: Unknown command "+verb)
		return
	}

	fn(rt, id, arg)
}

func (rt *Router) cmdStart(id, _ string) {
	rt.Supervisor.Start(id)
}

func (rt *Router) cmdStop(id, _ string) {
	go rt.Supervisor.Stop(id, false)
}

func (rt *Router) cmdRestart(id, _ string) {
	go rt.Supervisor.Stop(id, true)
}

func (rt *Router) cmdRemove(id, _ string) {
	go rt.Supervisor.Remove(id)
}

func (rt *Router) cmdLogs(id, _ string) {
	rec, ok := rt.Registry.Get(id)
	if !ok {
		rt.missingProcess(id)
		return
	}

	for _, line := range rec.Logs.Lines() {
		rt.Publisher.Publish(rt.outTopic(id), line)
	}
}

func (rt *Router) cmdMakeService(id, _ string) {
	rec, ok := rt.Registry.Get(id)
	if !ok {
		rt.missingProcess(id)
		return
	}

	rec.SetType(registry.Service)
	rt.persist(id)
}

func (rt *Router) cmdUnmakeService(id, _ string) {
	rec, ok := rt.Registry.Get(id)
	if !ok {
		rt.missingProcess(id)
		return
	}

	rec.SetType(registry.Process)
	rt.persist(id)
}

func (rt *Router) cmdEnableService(id, _ string) {
	rec, ok := rt.Registry.Get(id)
	if !ok {
		rt.missingProcess(id)
		return
	}

	rec.SetEnabled(true)
	rt.persist(id)
}

func (rt *Router) cmdDisableService(id, _ string) {
	rec, ok := rt.Registry.Get(id)
	if !ok {
		rt.missingProcess(id)
		return
	}

	rec.SetEnabled(false)
	rt.persist(id)
}

func (rt *Router) cmdMakeAgent(id, _ string) {
	rec, ok := rt.Registry.Get(id)
	if !ok {
		rt.missingProcess(id)
		return
	}

	rec.SetType(registry.Agent)
	rec.Ping(time.Now())
	rt.persist(id)
}

func (rt *Router) cmdSetExecutable(id, arg string) {
	if arg == "" {
		rt.Publisher.Publish(rt.outTopic(id), "PyROS ERROR: Unknown command set-executable")
		return
	}

	rec, ok := rt.Registry.Get(id)
	if !ok {
		rt.missingProcess(id)
		return
	}

	rec.SetExecutable(arg)
	rt.persist(id)
}

func (rt *Router) cmdPing(id, _ string) {
	// Process ping has no payload schema; it is a contentless heartbeat.
	rec, ok := rt.Registry.Get(id)
	if !ok {
		rt.missingProcess(id)
		return
	}

	rec.Ping(time.Now())
}

// missingProcess reports the per-command-misuse case of a verb addressed
// to a process_id the registry has never heard of.
func (rt *Router) missingProcess(id string) {
	rt.Publisher.Publish(rt.outTopic(id), fmt.Sprintf("PyROS ERROR: process %s does not exist.", id))
}

func (rt *Router) persist(id string) {
	_ = rt.Registry.Save(id)
}
