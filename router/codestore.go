package router

import (
	"os"
	"path/filepath"

	"github.com/abstract-horizon/pyrosd/log"
	"github.com/abstract-horizon/pyrosd/registry"
)

// storeMain handles an upload to exec/<cid>/process: the process's main
// source file. A pre-existing, still-running record is marked stale_code
// rather than replaced outright, since the running child keeps using the
// code it was launched with until it next exits.
func (rt *Router) storeMain(id string, payload []byte) {
	dir := rt.Registry.ProcessDir(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		rt.storeError(id, err)
		return
	}

	path := rt.Registry.MainFile(id)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		rt.storeError(id, err)
		return
	}

	if rec, ok := rt.Registry.Get(id); ok {
		if rec.IsRunning() {
			rec.SetStaleCode(true)
		}
	} else {
		rec, _ := rt.Registry.GetOrCreate(id, registry.Process, "python3")
		_ = rec
	}

	if err := rt.Registry.Save(id); err != nil {
		log.WarnError("failed to persist .process marker", err, "process", id)
	}

	rt.Publisher.Publish(rt.statusTopic(id), "stored "+id+"_main.py")
}

// storeExtra handles an upload to exec/<cid>/process/<rel...>: an
// additional file, path-preserved, written verbatim.
func (rt *Router) storeExtra(id, rel string, payload []byte) {
	dir := rt.Registry.ProcessDir(id)
	full := filepath.Join(dir, rel)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		rt.storeError(id, err)
		return
	}

	if err := os.WriteFile(full, payload, 0o644); err != nil {
		rt.storeError(id, err)
		return
	}

	rt.Publisher.Publish(rt.statusTopic(id), "stored "+rel)
}

func (rt *Router) storeError(id string, err error) {
	log.WarnError("store failed", err, "process", id)
	rt.Publisher.Publish(rt.statusTopic(id), "store error")
}
