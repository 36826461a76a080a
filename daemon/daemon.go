// Package daemon wires the transport, router, registry, and supervisor
// together and owns the top-level lifecycle: service auto-start at boot,
// the agent watchdog ticker, and graceful shutdown.
package daemon

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abstract-horizon/pyrosd/config"
	"github.com/abstract-horizon/pyrosd/internal/syncutil"
	"github.com/abstract-horizon/pyrosd/log"
	"github.com/abstract-horizon/pyrosd/process"
	"github.com/abstract-horizon/pyrosd/registry"
	"github.com/abstract-horizon/pyrosd/router"
	"github.com/abstract-horizon/pyrosd/transport"
)

// Daemon is one running pyrosd instance.
type Daemon struct {
	cfg        *config.Config
	Registry   *registry.Registry
	Supervisor *process.Supervisor
	Router     *router.Router
	Transport  *transport.Transport

	stopOnce syncutil.Once
	stopped  chan struct{}
}

// New builds a Daemon from cfg, wiring transport → router → supervisor →
// registry, but does not yet connect to the broker or start anything.
func New(cfg *config.Config) *Daemon {
	reg := registry.New(cfg.Home)

	d := &Daemon{
		cfg:      cfg,
		Registry: reg,
		stopped:  make(chan struct{}),
	}

	rt := &router.Router{
		Registry:          reg,
		ClusterID:         cfg.ClusterID,
		ThreadKillTimeout: cfg.Thread.KillTimeout,
		Shutdown:          d.requestShutdown,
	}

	d.Transport = transport.New(cfg.MQTT, clientID(cfg), rt.Handle)

	d.Supervisor = process.New(reg, d.Transport, cfg.ClusterID, cfg.MQTT.HostPort(), cfg.Thread.KillTimeout)
	rt.Supervisor = d.Supervisor
	rt.Publisher = d.Transport

	d.Router = rt

	return d
}

func clientID(cfg *config.Config) string {
	return "pyrosd-" + cfg.Cluster()
}

// Run connects to the broker, auto-starts enabled services, starts the
// agent watchdog, and blocks until ctx is cancelled or a `stop` system
// command (or [Daemon.Stop]) requests shutdown.
func (d *Daemon) Run(ctx context.Context) error {
	if err := os.MkdirAll(d.Registry.CodeDir(), 0o755); err != nil {
		return fmt.Errorf("pyrosd: %w", err)
	}

	if err := d.Transport.Connect(ctx); err != nil {
		return fmt.Errorf("pyrosd: %w", err)
	}

	if err := d.autostart(); err != nil {
		log.WarnError("service auto-start scan failed", err)
	}

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()

	go d.watchdog(watchCtx)

	go func() {
		if err := d.Router.WatchCodeDir(watchCtx); err != nil {
			log.WarnError("code directory watch stopped", err)
		}
	}()

	select {
	case <-ctx.Done():
	case <-d.stopped:
	}

	return d.shutdown()
}

// autostart implements Service Auto-start: scan code/, rebuild the
// registry, start every enabled service.
func (d *Daemon) autostart() error {
	ids, err := d.Registry.Discover()
	if err != nil {
		return err
	}

	for _, id := range ids {
		rec, ok := d.Registry.Get(id)
		if !ok {
			continue
		}

		if rec.Type() == registry.Service && rec.Enabled() {
			d.Supervisor.Start(id)
		}
	}

	return nil
}

// watchdog implements the Agent Watchdog: every Agents.CheckTimeout,
// cooperatively stop any agent whose last ping is older than
// Agents.KillTimeout. The watchdog never restarts.
func (d *Daemon) watchdog(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.Agents.CheckTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.sweepAgents()
		}
	}
}

func (d *Daemon) sweepAgents() {
	now := time.Now()

	for _, s := range d.Registry.Snapshots() {
		if s.Type != registry.Agent || !s.Running {
			continue
		}

		if now.Sub(s.LastPing) < d.cfg.Agents.KillTimeout {
			continue
		}

		id := s.ID

		go d.Supervisor.Stop(id, false)
	}
}

// requestShutdown is passed to the router as its Shutdown hook, invoked
// once the `stop` system command has finished draining every process.
func (d *Daemon) requestShutdown() {
	d.stopOnce.Do(func() { close(d.stopped) })
}

// Stop requests graceful shutdown from outside the broker (e.g. an OS
// signal), equivalent to the `stop` system command's effect on the local
// daemon without the broker round-trip.
func (d *Daemon) Stop() {
	d.requestShutdown()
}

// shutdown stops every known process concurrently, capped by
// 2×thread_kill_timeout, then disconnects from the broker.
func (d *Daemon) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*d.cfg.Thread.KillTimeout)
	defer cancel()

	g, _ := errgroup.WithContext(ctx)

	for _, s := range d.Registry.Snapshots() {
		if !s.Running {
			continue
		}

		id := s.ID

		g.Go(func() error {
			done := make(chan struct{})

			go func() {
				d.Supervisor.Stop(id, false)
				close(done)
			}()

			select {
			case <-done:
			case <-ctx.Done():
			}

			return nil
		})
	}

	done := make(chan struct{})

	go func() {
		g.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		log.Warn("shutdown budget exceeded, exiting regardless")
	}

	d.Transport.Disconnect(250)

	return nil
}
