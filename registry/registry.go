// Package registry implements the in-memory process_id → Record mapping
// described by the daemon's data model, mirrored on disk one directory
// per process under <home>/code.
package registry

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abstract-horizon/pyrosd/internal/syncutil"
	"github.com/abstract-horizon/pyrosd/log"
)

// Registry is the concurrency-safe process_id → *Record map, mirrored on
// disk. The backing [syncutil.Map] supplies the single-mutex-per-op
// discipline the daemon's concurrency model requires for membership
// changes; each Record additionally guards its own fields so the registry
// lock is never held across spawn/kill/file I/O.
type Registry struct {
	home string
	m    syncutil.Map[string, *Record]
}

// New returns an empty Registry rooted at home. home/code holds one
// directory per known process id.
func New(home string) *Registry {
	r := &Registry{home: home}
	r.m.Make()

	return r
}

// CodeDir returns the root directory under which process directories
// live.
func (r *Registry) CodeDir() string {
	return filepath.Join(r.home, "code")
}

// ProcessDir returns the directory for the given process id.
func (r *Registry) ProcessDir(id string) string {
	return filepath.Join(r.CodeDir(), id)
}

// MainFile returns the path of id's uploaded main source file.
func (r *Registry) MainFile(id string) string {
	return filepath.Join(r.ProcessDir(id), id+"_main.py")
}

// Get returns the record for id, if known.
func (r *Registry) Get(id string) (*Record, bool) {
	return r.m.Load(id)
}

// GetOrCreate returns the existing record for id, or creates, stores, and
// returns a new one of the given type/executable.
func (r *Registry) GetOrCreate(id string, typ Type, executable string) (*Record, bool) {
	return r.m.LoadOrStore(id, NewRecord(id, typ, executable))
}

// Delete removes id from the registry. It does not touch the filesystem;
// callers that want `remove` semantics must also delete the directory.
func (r *Registry) Delete(id string) {
	r.m.Delete(id)
}

// Len returns the number of known processes.
func (r *Registry) Len() int {
	return r.m.Len()
}

// Range calls fn for every known record. fn must not call back into the
// registry at all, since Range holds the map lock for its duration and
// that lock is not reentrant; long work should operate on a
// [Record.Snapshot] instead.
func (r *Registry) Range(fn func(*Record) bool) {
	for _, rec := range r.m.Iter() {
		if !fn(rec) {
			return
		}
	}
}

// Snapshots returns a point-in-time copy of every record, sorted is left
// to the caller.
func (r *Registry) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, r.Len())

	r.Range(func(rec *Record) bool {
		out = append(out, rec.Snapshot())
		return true
	})

	return out
}

// LaunchArgs returns the argv (excluding argv[0], the executable) used to
// start id, per the executable-naming rule: an executable beginning with
// "python" launches "-u <id>_main.py <id>"; anything else launches "-u
// <id> <id>".
func LaunchArgs(id, executable string) []string {
	if strings.HasPrefix(executable, "python") {
		return []string{"-u", id + "_main.py", id}
	}

	return []string{"-u", id, id}
}

// savePersisted writes id's .process marker to disk.
func (r *Registry) savePersisted(id string) error {
	rec, ok := r.Get(id)
	if !ok {
		return ErrNotFound(id)
	}

	path := filepath.Join(r.ProcessDir(id), ".process")

	return os.WriteFile(path, []byte(rec.persisted().String()), 0o644)
}

// Save persists id's .process file, matching the invariant that the
// on-disk file and in-memory fields agree after any state-changing verb.
func (r *Registry) Save(id string) error {
	return r.savePersisted(id)
}

// Discover scans CodeDir for process directories containing a main file,
// renames any legacy .service marker to .process, parses .process as
// key=value (defaulting missing fields to type=process, exec=python3),
// and registers each as a Record. It returns the ids discovered, in the
// order read from the directory.
func (r *Registry) Discover() ([]string, error) {
	entries, err := os.ReadDir(r.CodeDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}

	var ids []string

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		id := e.Name()
		dir := filepath.Join(r.CodeDir(), id)

		if _, err := os.Stat(filepath.Join(dir, id+"_main.py")); err != nil {
			continue
		}

		renameLegacyMarker(dir)

		typ, enabled, exe := readMarker(filepath.Join(dir, ".process"))

		rec := NewRecord(id, typ, exe)
		rec.SetEnabled(enabled)
		r.m.Store(id, rec)
		ids = append(ids, id)
	}

	return ids, nil
}

func renameLegacyMarker(dir string) {
	legacy := filepath.Join(dir, ".service")
	if _, err := os.Stat(legacy); err != nil {
		return
	}

	if err := os.Rename(legacy, filepath.Join(dir, ".process")); err != nil {
		log.Warn("failed to rename legacy .service marker", "dir", dir, "error", err)
	}
}

func readMarker(path string) (typ Type, enabled bool, exe string) {
	typ, exe = Process, "python3"

	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), "=")
		if !ok {
			continue
		}

		switch strings.TrimSpace(key) {
		case "type":
			typ = ParseType(strings.TrimSpace(value))
		case "enabled":
			enabled, _ = strconv.ParseBool(strings.TrimSpace(value))
		case "exec":
			exe = strings.TrimSpace(value)
		}
	}

	return
}
