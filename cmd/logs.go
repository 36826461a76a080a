package cmd

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"
)

// NewCmdLogs returns the [cobra.Command] that replays a process's
// retained log ring. Unlike the system admin verbs, exec/<cid>/out has
// no end-of-output sentinel, so this command listens for a fixed window
// and then exits.
//
// Usage:
//
//	pyros logs <process_id> [flags]
func NewCmdLogs() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "logs <process_id>",
		Short:   "Replay a process's retained output",
		GroupID: "commands",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return replayLogs(cmd, args[0])
		},
	}

	addAdminFlags(cmd)

	return cmd
}

func replayLogs(cmd *cobra.Command, id string) error {
	cfg, err := loadAdminConfig()
	if err != nil {
		return &ExitError{Err: err, Code: 1}
	}

	client := mqtt.NewClient(cfg.MQTT.ClientOptions("pyros-admin-" + randCommandID()))

	t := client.Connect()
	if !t.WaitTimeout(cfg.MQTT.Timeout) || t.Error() != nil {
		return &ExitError{Err: fmt.Errorf("connect failed: %w", t.Error()), Code: 1}
	}
	defer client.Disconnect(250)

	outTopic := "exec/" + id + "/out"

	st := client.Subscribe(outTopic, 0, func(_ mqtt.Client, m mqtt.Message) {
		if len(m.Payload()) == 0 {
			return
		}

		cmd.Println(string(m.Payload()))
	})
	st.Wait()

	if err := st.Error(); err != nil {
		return err
	}

	pt := client.Publish("exec/"+id, 0, false, "logs")
	pt.Wait()

	if err := pt.Error(); err != nil {
		return err
	}

	time.Sleep(2 * time.Second)

	return nil
}
