package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/abstract-horizon/pyrosd/config"
	"github.com/abstract-horizon/pyrosd/internal/byteutil"
	"github.com/abstract-horizon/pyrosd/log"
)

// adminFlags are shared by the thin MQTT-client admin commands (ps,
// services, stop, logs): they are external collaborators of the daemon,
// just MQTT clients publishing to the same topics any other client
// could.
var (
	AdminHome string
)

func addAdminFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&AdminHome, "home", "d", "", "Working directory root, for locating pyros.config")
}

func loadAdminConfig() (*config.Config, error) {
	home := findHome(AdminHome)
	return config.Load(homeConfigPath(home))
}

func randCommandID() string {
	var b [8]byte

	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}

	return hex.EncodeToString(b[:])
}

var titleCaser = cases.Title(language.Und)

// humanizeLine rewrites one ps/services output line's size field (the
// 5th column) from a raw byte count to a human-readable scale, and
// title-cases the type and status columns, purely for local display:
// the wire format stays the raw "<cid> <type> <status> <rc> <size>
// <mtime> <last_ping>" line.
func humanizeLine(line string) string {
	fields := strings.Fields(line)
	if len(fields) != 7 {
		return line
	}

	fields[1] = titleCaser.String(fields[1])
	fields[2] = titleCaser.String(fields[2])

	if n, err := strconv.ParseUint(fields[4], 10, 64); err == nil {
		fields[4] = fmt.Sprintf("%s %s", byteutil.AppendSize(nil, n, byteutil.UnknownSize), byteutil.SizeOf(n))
	}

	return strings.Join(fields, " ")
}

// systemQuery publishes verb to system/<command_id> and prints every
// line received on system/<command_id>/out until the empty-payload
// end-of-output sentinel, or timeout elapses. When human is true, ps
// and services lines are reformatted for readability before printing.
func systemQuery(cmd *cobra.Command, verb string, timeout time.Duration, human bool) error {
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

	cmdID := randCommandID()
	out := "system/" + cmdID + "/out"

	done := make(chan struct{})

	st := client.Subscribe(out, 0, func(_ mqtt.Client, m mqtt.Message) {
		if len(m.Payload()) == 0 {
			close(done)
			return
		}

		line := string(m.Payload())
		if human {
			line = humanizeLine(line)
		}

		cmd.Println(line)
	})
	st.Wait()

	if err := st.Error(); err != nil {
		return err
	}

	pt := client.Publish("system/"+cmdID, 0, false, verb)
	pt.Wait()

	if err := pt.Error(); err != nil {
		return err
	}

	select {
	case <-done:
	case <-time.After(timeout):
		log.Warn("timed out waiting for daemon response")
	}

	return nil
}
