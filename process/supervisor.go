// Package process implements the per-child lifecycle: spawn, concurrent
// stdout/stderr draining, cooperative stop with forced-kill fallback, and
// restart.
package process

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/abstract-horizon/pyrosd/internal/syncutil"
	"github.com/abstract-horizon/pyrosd/log"
	"github.com/abstract-horizon/pyrosd/registry"
	"github.com/abstract-horizon/pyrosd/topic"
	"github.com/abstract-horizon/pyrosd/transport"
)

// idlePoll is how long the output consumer sleeps when both the stdout
// and stderr queues are momentarily empty but the child has not exited.
const idlePoll = 250 * time.Millisecond

// run tracks the live OS process for one child, independent of the
// registry Record, so Stop can wait for exit without reaching back into
// spawn's own goroutine.
type run struct {
	cmd  *exec.Cmd
	done chan struct{}
}

// Supervisor spawns and supervises children for the processes known to a
// [registry.Registry].
type Supervisor struct {
	Registry        *registry.Registry
	Publisher       transport.Publisher
	ClusterID       string
	MQTTHostPort    string
	ThreadKillTimeout time.Duration

	running syncutil.Map[string, *run]
}

// New returns a Supervisor for the given registry and publisher.
func New(reg *registry.Registry, pub transport.Publisher, clusterID, mqttHostPort string, threadKillTimeout time.Duration) *Supervisor {
	s := &Supervisor{
		Registry:          reg,
		Publisher:         pub,
		ClusterID:         clusterID,
		MQTTHostPort:      mqttHostPort,
		ThreadKillTimeout: threadKillTimeout,
	}
	s.running.Make()

	return s
}

func (s *Supervisor) outTopic(id, sub string) string {
	return topic.Out(s.ClusterID, id, sub)
}

// missingProcess reports the per-command-misuse case of a lifecycle call
// addressed to a process_id the registry has never heard of.
func (s *Supervisor) missingProcess(id string) {
	s.Publisher.Publish(s.outTopic(id, "out"), fmt.Sprintf("PyROS ERROR: process %s does not exist.", id))
}

// Start spawns id if it is not already running. Calling Start on an
// already-running process is a no-op that emits a warning line, per the
// per-process command handler's tie-break rule.
func (s *Supervisor) Start(id string) {
	rec, ok := s.Registry.Get(id)
	if !ok {
		s.missingProcess(id)
		return
	}

	if rec.IsRunning() {
		s.Publisher.Publish(s.outTopic(id, "out"), "PyROS ERROR: already running")
		return
	}

	s.spawn(rec, id)
}

// spawn launches id's child and, on success, starts its drain goroutine
// in the background.
func (s *Supervisor) spawn(rec *registry.Record, id string) {
	dir := s.Registry.ProcessDir(id)
	exe := rec.Executable()
	args := registry.LaunchArgs(id, exe)

	cmd := exec.Command(exe, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"PYTHONPATH="+s.Registry.CodeDir(),
		"PYROS_MQTT="+s.MQTTHostPort,
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.spawnFailed(id, err)
		return
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		s.spawnFailed(id, err)
		return
	}

	if err := cmd.Start(); err != nil {
		s.spawnFailed(id, err)
		return
	}

	rec.SetRunning(cmd)
	rec.SetStaleCode(false)

	r := &run{cmd: cmd, done: make(chan struct{})}
	s.running.Store(id, r)

	s.Publisher.Publish(s.outTopic(id, "out"), "PyROS: started process.")

	go s.supervise(rec, id, r, stdout, stderr)
}

func (s *Supervisor) spawnFailed(id string, err error) {
	log.Error("spawn failed", err, "process", id)
	s.Publisher.Publish(s.outTopic(id, "out"), "PyROS: exit.")
}

// supervise drains stdout/stderr until both streams close and the child
// exits, publishing every line and the final exit status, then clears the
// running state.
func (s *Supervisor) supervise(rec *registry.Record, id string, r *run, stdout, stderr io.Reader) {
	defer close(r.done)
	defer s.running.Delete(id)
	defer rec.SetRunning(nil)

	outCh := scanLines(stdout)
	errCh := scanLines(stderr)

	exited := make(chan struct{})

	go func() {
		r.cmd.Wait()
		close(exited)
	}()

	for outCh != nil || errCh != nil {
		select {
		case line, ok := <-outCh:
			if !ok {
				outCh = nil
				continue
			}

			s.emit(rec, id, line)

			continue
		case line, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}

			s.emit(rec, id, line)

			continue
		default:
		}

		select {
		case <-exited:
		default:
			time.Sleep(idlePoll)
		}
	}

	<-exited

	rc := 0
	if r.cmd.ProcessState != nil {
		rc = r.cmd.ProcessState.ExitCode()
	}

	rec.SetExitCode(rc)
	s.Publisher.Publish(s.outTopic(id, "out"), fmt.Sprintf("PyROS: exit %d", rc))
}

func (s *Supervisor) emit(rec *registry.Record, id, line string) {
	rec.Logs.Append(line)
	s.Publisher.Publish(s.outTopic(id, "out"), line)
}

// scanLines starts a goroutine reading newline-delimited lines from r,
// publishing each (with its trailing newline stripped, which
// [bufio.Scanner]'s default split function already does) onto the
// returned channel, closed when r reaches EOF.
func scanLines(r io.Reader) <-chan string {
	ch := make(chan string, 256)

	go func() {
		defer close(ch)

		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

		for sc.Scan() {
			ch <- sc.Text()
		}
	}()

	return ch
}

// Stop cooperatively stops id: publish "stop", wait for acknowledgement,
// wait for exit, then force-kill and pattern-kill regardless. If restart
// is true, a new child is spawned once the previous one is confirmed
// gone.
func (s *Supervisor) Stop(id string, restart bool) {
	rec, ok := s.Registry.Get(id)
	if !ok {
		s.missingProcess(id)
		return
	}

	r, running := s.running.Load(id)

	if running {
		s.Publisher.Publish(topic.System(id), "stop")

		acked := s.waitFlag(&rec.StopAcknowledged, s.ThreadKillTimeout)

		if acked {
			s.waitDone(r.done, s.ThreadKillTimeout)
		}

		if !s.isDone(r.done) {
			if r.cmd.Process != nil {
				_ = r.cmd.Process.Kill()
			}

			s.waitDone(r.done, s.ThreadKillTimeout)
		}
	}

	s.patternKill(rec.Executable(), id)

	if restart {
		s.spawn(rec, id)
		s.Publisher.Publish(s.outTopic(id, "out"), fmt.Sprintf("PyROS: Restarted %s %s", rec.Type(), id))
	}
}

func (s *Supervisor) isDone(done chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}

func (s *Supervisor) waitFlag(flag interface{ Load() bool }, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if flag.Load() {
			return true
		}

		time.Sleep(50 * time.Millisecond)
	}

	return flag.Load()
}

func (s *Supervisor) waitDone(done chan struct{}, timeout time.Duration) {
	select {
	case <-done:
	case <-time.After(timeout):
	}
}

// patternKill issues a best-effort "pkill -9 -f" matching the launch
// command line, as a belt-and-braces guarantee regardless of whether the
// cooperative stop was acknowledged. Failure (no matching process, or no
// pkill binary) is not an error.
func (s *Supervisor) patternKill(executable, id string) {
	pattern := strings.Join(append([]string{executable}, registry.LaunchArgs(id, executable)...), " ")

	cmd := exec.CommandContext(context.Background(), "pkill", "-9", "-f", pattern)
	if err := cmd.Run(); err != nil {
		log.Debug("pattern kill found nothing to do", "process", id, "error", err)
	}
}

// Remove stops id (if running) and deletes its directory, then drops the
// registry entry. Failures to unlink files are logged and do not abort
// the removal.
func (s *Supervisor) Remove(id string) {
	s.Stop(id, false)

	dir := s.Registry.ProcessDir(id)
	if err := os.RemoveAll(dir); err != nil {
		s.Publisher.Publish(s.outTopic(id, "out"), "PyROS ERROR: "+err.Error())
	}

	s.Registry.Delete(id)
}
