package router_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/abstract-horizon/pyrosd/mock"
	"github.com/abstract-horizon/pyrosd/process"
	"github.com/abstract-horizon/pyrosd/registry"
	"github.com/abstract-horizon/pyrosd/router"
	"github.com/abstract-horizon/pyrosd/transport"
)

func newRouter(t *testing.T) (*router.Router, *registry.Registry, *mock.MockClient) {
	t.Helper()

	reg := registry.New(t.TempDir())
	client := mock.NewMockClient(mqtt.NewClientOptions(), nil).(*mock.MockClient)
	tr := transport.NewWithClient(client, nil)

	sup := process.New(reg, tr, "", "localhost:1883", time.Second)

	rt := &router.Router{
		Registry:  reg,
		ClusterID: "",
		Publisher: tr,
	}
	rt.Supervisor = sup

	return rt, reg, client
}

func TestHandleCommandUnknownVerb(t *testing.T) {
	rt, _, client := newRouter(t)

	rt.Handle("exec/worker1", []byte("frobnicate"))

	pubs := client.Published()
	if len(pubs) != 1 {
		t.Fatalf("published = %v, want 1 message", pubs)
	}

	if pubs[0].Topic != "exec/worker1/out" {
		t.Errorf("topic = %q, want exec/worker1/out", pubs[0].Topic)
	}

	if string(pubs[0].Payload) != "PyROS ERROR: Unknown command frobnicate" {
		t.Errorf("payload = %q", pubs[0].Payload)
	}
}

func TestHandleCommandPing(t *testing.T) {
	rt, reg, _ := newRouter(t)

	reg.GetOrCreate("agent1", registry.Agent, "python3")

	rt.Handle("exec/agent1", []byte("ping"))

	rec, ok := reg.Get("agent1")
	if !ok {
		t.Fatal("agent1 missing")
	}

	if rec.LastPing().IsZero() {
		t.Errorf("ping did not update last_ping")
	}
}

func TestHandleStopAckOnlyAcceptsLiteralStopped(t *testing.T) {
	rt, reg, _ := newRouter(t)

	reg.GetOrCreate("p1", registry.Process, "python3")

	rt.Handle("exec/p1/system/stop", []byte("something-else"))

	rec, _ := reg.Get("p1")
	if rec.StopAcknowledged.Load() {
		t.Fatal("non-literal payload acknowledged stop")
	}

	rt.Handle("exec/p1/system/stop", []byte("stopped"))

	if !rec.StopAcknowledged.Load() {
		t.Fatal("literal 'stopped' payload did not acknowledge stop")
	}
}

func TestHandleExecFiltersByCluster(t *testing.T) {
	rt, reg, _ := newRouter(t)
	rt.ClusterID = "west"

	reg.GetOrCreate("agent1", registry.Agent, "python3")

	rt.Handle("exec/agent1", []byte("ping"))

	rec, _ := reg.Get("agent1")
	if !rec.LastPing().IsZero() {
		t.Fatal("bare (unqualified) topic should be filtered out for a non-default cluster")
	}

	rt.Handle("exec/west:agent1", []byte("ping"))

	if rec.LastPing().IsZero() {
		t.Fatal("cid-qualified topic for matching cluster should dispatch")
	}
}

func TestStoreMainMarksRunningRecordStale(t *testing.T) {
	rt, reg, client := newRouter(t)

	rec, _ := reg.GetOrCreate("p1", registry.Process, "python3")
	rec.SetRunning(&exec.Cmd{})

	dir := reg.ProcessDir("p1")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	rt.Handle("exec/p1/process", []byte("print(1)"))

	if !rec.StaleCode() {
		t.Error("running record not marked stale after code upload")
	}

	b, err := os.ReadFile(filepath.Join(dir, "p1_main.py"))
	if err != nil || string(b) != "print(1)" {
		t.Errorf("main file not written correctly: %v %q", err, b)
	}

	pubs := client.Published()
	if len(pubs) == 0 || pubs[len(pubs)-1].Topic != "exec/p1/status" {
		t.Errorf("expected a status publish, got %v", pubs)
	}
}

func TestHandleCommandMissingProcess(t *testing.T) {
	cases := []string{"start", "stop", "ping", "logs", "make-service"}

	for _, verb := range cases {
		rt, _, client := newRouter(t)

		rt.Handle("exec/ghost", []byte(verb))

		want := "PyROS ERROR: process ghost does not exist."

		deadline := time.Now().Add(2 * time.Second)

		var pubs []mock.Published

		for time.Now().Before(deadline) {
			pubs = client.Published()
			if len(pubs) > 0 {
				break
			}

			time.Sleep(10 * time.Millisecond)
		}

		if len(pubs) != 1 {
			t.Fatalf("verb %q: published = %v, want 1 message", verb, pubs)
		}

		if pubs[0].Topic != "exec/ghost/out" {
			t.Errorf("verb %q: topic = %q, want exec/ghost/out", verb, pubs[0].Topic)
		}

		if string(pubs[0].Payload) != want {
			t.Errorf("verb %q: payload = %q, want %q", verb, pubs[0].Payload, want)
		}
	}
}

func TestHandleSystemPSIncludesEOFSentinel(t *testing.T) {
	rt, reg, client := newRouter(t)

	reg.GetOrCreate("p1", registry.Process, "python3")

	rt.Handle("system/cmd1", []byte("ps"))

	pubs := client.Published()
	if len(pubs) != 2 {
		t.Fatalf("published = %v, want 2 (one line + EOF)", pubs)
	}

	if len(pubs[1].Payload) != 0 {
		t.Errorf("last publish not an empty EOF sentinel: %q", pubs[1].Payload)
	}
}
