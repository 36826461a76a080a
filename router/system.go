package router

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abstract-horizon/pyrosd/registry"
	"github.com/abstract-horizon/pyrosd/topic"
)

// handleSystem dispatches the three admin verbs posted to
// system/<command_id>.
func (rt *Router) handleSystem(cmdID, verb string) {
	out := "system/" + cmdID + "/out"

	switch strings.TrimSpace(verb) {
	case "ps":
		rt.emitLines(out, rt.Registry.Snapshots())
	case "services":
		snaps := rt.Registry.Snapshots()
		var services []registry.Snapshot
		for _, s := range snaps {
			if s.Type == registry.Service {
				services = append(services, s)
			}
		}
		rt.emitLines(out, services)
	case "stop":
		go rt.stopDaemon(cmdID, out)
	default:
		rt.Publisher.Publish(out, "")
	}
}

func (rt *Router) emitLines(out string, snaps []registry.Snapshot) {
	for _, s := range snaps {
		rt.Publisher.Publish(out, rt.psLine(s))
	}

	rt.Publisher.Publish(out, "")
}

// psLine renders one `ps`/`services` record as
// "<cid-qualified id> <type> <status> <rc> <size> <mtime> <last_ping>",
// with "-" standing in for anything unknown or not applicable.
func (rt *Router) psLine(s registry.Snapshot) string {
	status := statusOf(s)

	rc := "-"
	if !s.Running && s.EverRan {
		rc = strconv.Itoa(s.LastRC)
	}

	size, mtime := "-", "-"
	if info, err := os.Stat(rt.Registry.MainFile(s.ID)); err == nil {
		size = strconv.FormatInt(info.Size(), 10)
		mtime = info.ModTime().UTC().Format(time.RFC3339)
	}

	lastPing := "-"
	if s.Type == registry.Agent && !s.LastPing.IsZero() {
		lastPing = s.LastPing.UTC().Format(time.RFC3339)
	}

	return fmt.Sprintf("%s %s %s %s %s %s %s",
		topic.CID(rt.ClusterID, s.ID), s.Type, status, rc, size, mtime, lastPing)
}

func statusOf(s registry.Snapshot) registry.Status {
	switch {
	case s.Running && s.StaleCode:
		return registry.StatusRunningOld
	case s.Running:
		return registry.StatusRunning
	case s.EverRan:
		return registry.StatusStopped
	default:
		return registry.StatusNew
	}
}

// stopDaemon fans out a cooperative stop to every known process,
// capped by 2×ThreadKillTimeout, then acknowledges and signals shutdown.
func (rt *Router) stopDaemon(cmdID, out string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*rt.ThreadKillTimeout)
	defer cancel()

	g, _ := errgroup.WithContext(ctx)

	for _, s := range rt.Registry.Snapshots() {
		id := s.ID

		g.Go(func() error {
			done := make(chan struct{})

			go func() {
				rt.Supervisor.Stop(id, false)
				close(done)
			}()

			select {
			case <-done:
			case <-ctx.Done():
			}

			return nil
		})
	}

	g.Wait()

	rt.Publisher.Publish(out, "stopped")
	rt.Publisher.Publish(out, "")

	if rt.Shutdown != nil {
		rt.Shutdown()
	}
}
