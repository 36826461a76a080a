package registry

import (
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"
)

// Record is the in-memory state for one known process id. Fields other
// than the log ring and StopAcknowledged are guarded by mu: the registry
// itself only guards the map of ids to *Record, so concurrent mutation of
// a single process's fields (by the network thread, a supervisor
// goroutine, or the watchdog) goes through the record's own lock.
type Record struct {
	ID string

	mu         sync.Mutex
	typ        Type
	enabled    bool
	executable string
	cmd        *exec.Cmd
	lastPing   time.Time
	staleCode  bool
	pid        int
	everRan    bool
	lastRC     int

	// StopAcknowledged is set by the router's back-channel handler when
	// the child publishes "stopped" on its stop-ack topic, and polled by
	// the stop watcher goroutine. It is kept off mu, per the "no
	// unnecessary contention under the lock" extension of the
	// snapshot/release/do-I/O/commit rule: it is only ever cooperatively
	// polled, never read as part of a larger compound operation.
	StopAcknowledged atomic.Bool

	Logs LogRing
}

// NewRecord returns a Record for id with the given type and executable,
// not yet running.
func NewRecord(id string, typ Type, executable string) *Record {
	if executable == "" {
		executable = "python3"
	}

	return &Record{ID: id, typ: typ, executable: executable}
}

// Snapshot is a value-typed, lock-free copy of a Record's fields, safe to
// hold onto or pass to another goroutine after the registry lock (and the
// record's own lock) have been released.
type Snapshot struct {
	ID         string
	Type       Type
	Enabled    bool
	Executable string
	Running    bool
	PID        int
	LastPing   time.Time
	StaleCode  bool
	LogLen     int
	EverRan    bool
	LastRC     int
}

// Snapshot copies r's current state without holding any lock afterward.
func (r *Record) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		ID:         r.ID,
		Type:       r.typ,
		Enabled:    r.enabled,
		Executable: r.executable,
		Running:    r.cmd != nil,
		PID:        r.pid,
		LastPing:   r.lastPing,
		StaleCode:  r.staleCode,
		LogLen:     r.Logs.Len(),
		EverRan:    r.everRan,
		LastRC:     r.lastRC,
	}
}

// SetExitCode records the exit code of the most recently finished child,
// for display by `ps`.
func (r *Record) SetExitCode(rc int) {
	r.mu.Lock()
	r.everRan = true
	r.lastRC = rc
	r.mu.Unlock()
}

// Type returns the process's current type.
func (r *Record) Type() Type {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.typ
}

// SetType sets the process's type.
func (r *Record) SetType(t Type) {
	r.mu.Lock()
	r.typ = t
	r.mu.Unlock()
}

// Enabled reports whether the process auto-starts as a service.
func (r *Record) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.enabled
}

// SetEnabled sets the auto-start flag.
func (r *Record) SetEnabled(v bool) {
	r.mu.Lock()
	r.enabled = v
	r.mu.Unlock()
}

// Executable returns the launch command name.
func (r *Record) Executable() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.executable
}

// SetExecutable records a non-default executable.
func (r *Record) SetExecutable(exe string) {
	r.mu.Lock()
	r.executable = exe
	r.mu.Unlock()
}

// IsRunning reports whether a child process is currently recorded as live.
func (r *Record) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.cmd != nil
}

// SetRunning records cmd as the live child, or clears it when cmd is nil.
// It also resets StopAcknowledged when a new child starts.
func (r *Record) SetRunning(cmd *exec.Cmd) {
	r.mu.Lock()
	r.cmd = cmd
	if cmd != nil && cmd.Process != nil {
		r.pid = cmd.Process.Pid
	} else {
		r.pid = 0
	}
	r.mu.Unlock()

	if cmd != nil {
		r.StopAcknowledged.Store(false)
	}
}

// Cmd returns the currently recorded live child, or nil.
func (r *Record) Cmd() *exec.Cmd {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.cmd
}

// StaleCode reports whether newer code exists on disk than the code the
// running child was started from.
func (r *Record) StaleCode() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.staleCode
}

// SetStaleCode sets the presentation-only stale-code flag.
func (r *Record) SetStaleCode(v bool) {
	r.mu.Lock()
	r.staleCode = v
	r.mu.Unlock()
}

// LastPing returns the last recorded ping time for an agent.
func (r *Record) LastPing() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lastPing
}

// Ping refreshes last_ping to now, enforcing that it is monotonically
// non-decreasing.
func (r *Record) Ping(now time.Time) {
	r.mu.Lock()
	if now.After(r.lastPing) {
		r.lastPing = now
	}
	r.mu.Unlock()
}

// persisted is the .process on-disk representation.
type persisted struct {
	Type       string
	Enabled    bool
	Executable string
}

func (r *Record) persisted() persisted {
	r.mu.Lock()
	defer r.mu.Unlock()

	return persisted{
		Type:       r.typ.String(),
		Enabled:    r.enabled,
		Executable: r.executable,
	}
}

func (p persisted) String() string {
	return fmt.Sprintf("type=%s\nenabled=%t\nexec=%s\n", p.Type, p.Enabled, p.Executable)
}
