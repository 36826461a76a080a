package router

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/abstract-horizon/pyrosd/log"
	"github.com/abstract-horizon/pyrosd/registry"
)

// WatchCodeDir watches the registry's code directory, and every existing
// (and subsequently created) per-process subdirectory beneath it, for
// externally created <id>_main.py files (e.g. copied in by a provisioning
// script rather than uploaded over MQTT) and registers any id not yet
// known as a process launched by python3, the defaults a main-file upload
// gives a new id. It does not read or write a .process marker and
// publishes nothing; the startup scan ([registry.Registry.Discover]) is a
// separate path. fsnotify does not recurse on its own, so each
// subdirectory needs its own explicit Add, both up front and as new ones
// appear. It blocks until ctx is cancelled.
func (rt *Router) WatchCodeDir(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	codeDir := rt.Registry.CodeDir()

	if err := w.Add(codeDir); err != nil {
		return err
	}

	entries, err := os.ReadDir(codeDir)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		if err := w.Add(filepath.Join(codeDir, e.Name())); err != nil {
			log.WarnError("could not watch process directory", err, "dir", e.Name())
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			log.WarnError("code directory watch error", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			rt.handleFSEvent(w, ev)
		}
	}
}

func (rt *Router) handleFSEvent(w *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.Add(ev.Name); err != nil {
				log.WarnError("could not watch newly created directory", err, "dir", ev.Name)
			}

			return
		}
	}

	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}

	base := filepath.Base(ev.Name)

	id, ok := strings.CutSuffix(base, "_main.py")
	if !ok {
		return
	}

	if _, ok := rt.Registry.Get(id); ok {
		return
	}

	rt.Registry.GetOrCreate(id, registry.Process, "python3")
	log.Info("discovered externally-dropped code", "process", id)
}
