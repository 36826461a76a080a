package process

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/abstract-horizon/pyrosd/mock"
	"github.com/abstract-horizon/pyrosd/registry"
	"github.com/abstract-horizon/pyrosd/transport"
)

// writeScript drops an executable shell script at dir/name that, ignoring
// whatever argv LaunchArgs appends, runs body.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	content := "#!/bin/sh\n" + body + "\n"

	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatal(err)
	}

	return path
}

func newTestSupervisor(t *testing.T) (*Supervisor, *registry.Registry, *mock.MockClient) {
	t.Helper()

	home := t.TempDir()
	reg := registry.New(home)
	client := mock.NewMockClient(mqtt.NewClientOptions(), nil).(*mock.MockClient)
	tr := transport.NewWithClient(client, nil)

	return New(reg, tr, "", "localhost:1883", 200*time.Millisecond), reg, client
}

func waitForPublish(t *testing.T, client *mock.MockClient, want string) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)

	for time.Now().Before(deadline) {
		for _, p := range client.Published() {
			if string(p.Payload) == want {
				return
			}
		}

		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("never saw publish %q, got %v", want, client.Published())
}

func TestStartRunsToCompletionAndReportsExit(t *testing.T) {
	sup, reg, client := newTestSupervisor(t)

	id := "quickexit"
	dir := reg.ProcessDir(id)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	exe := writeScript(t, dir, "quickexit.sh", "exit 7")

	rec, _ := reg.GetOrCreate(id, registry.Process, exe)

	sup.Start(id)

	waitForPublish(t, client, "PyROS: started process.")
	waitForPublish(t, client, "PyROS: exit 7")

	if rec.IsRunning() {
		t.Error("record still marked running after exit")
	}
}

func TestStartIsNoOpWhenAlreadyRunning(t *testing.T) {
	sup, reg, client := newTestSupervisor(t)

	id := "sleeper"
	dir := reg.ProcessDir(id)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	exe := writeScript(t, dir, "sleeper.sh", "sleep 5")

	reg.GetOrCreate(id, registry.Process, exe)

	sup.Start(id)
	waitForPublish(t, client, "PyROS: started process.")

	sup.Start(id)
	waitForPublish(t, client, "PyROS ERROR: already running")

	sup.Stop(id, false)
}

func TestStopForceKillsWithoutAcknowledgement(t *testing.T) {
	sup, reg, client := newTestSupervisor(t)

	id := "stubborn"
	dir := reg.ProcessDir(id)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	exe := writeScript(t, dir, "stubborn.sh", "trap '' TERM; sleep 30")

	reg.GetOrCreate(id, registry.Process, exe)

	sup.Start(id)
	waitForPublish(t, client, "PyROS: started process.")

	done := make(chan struct{})

	go func() {
		sup.Stop(id, false)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return within the force-kill budget")
	}

	if _, running := sup.running.Load(id); running {
		t.Error("supervisor still tracking process after forced kill")
	}
}

func TestRemoveDeletesDirectoryAndRegistration(t *testing.T) {
	sup, reg, _ := newTestSupervisor(t)

	id := "gone"
	dir := reg.ProcessDir(id)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	reg.GetOrCreate(id, registry.Process, "/bin/true")

	sup.Remove(id)

	if _, ok := reg.Get(id); ok {
		t.Error("record still present after Remove")
	}

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("process directory still present after Remove")
	}
}
