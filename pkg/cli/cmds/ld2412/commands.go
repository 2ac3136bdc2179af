// Package ld2412 provides shell commands for driving an LD2412 module.
// Command frames are sent as opaque byte strings; replies are dumped
// as hex without decoding.
package ld2412

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/moneytom/LD2412-Tools/pkg/cli/sh"
)

// Canned command frames from the LD2412 serial protocol.
var cannedFrames = map[string]string{
	"enter-config":  "FD FC FB FA 04 00 FF 00 01 00 04 03 02 01",
	"exit-config":   "FD FC FB FA 02 00 FE 00 04 03 02 01",
	"version":       "FD FC FB FA 02 00 A0 00 04 03 02 01",
	"start-data":    "FD FC FB FA 02 00 12 00 04 03 02 01",
	"params":        "FD FC FB FA 02 00 61 00 04 03 02 01",
	"restart":       "FD FC FB FA 02 00 A3 00 04 03 02 01",
	"factory-reset": "FD FC FB FA 02 00 A2 00 04 03 02 01",
}

// ParseHex parses hex byte tokens like "FD FC" or "fdfc".
func ParseHex(args []string) ([]byte, error) {
	str := strings.ToLower(strings.Join(args, ""))
	str = strings.ReplaceAll(str, "0x", "")
	data, err := hex.DecodeString(str)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %v", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("hex bytes expected")
	}
	return data, nil
}

func sendAndDump(c *ishell.Context, data []byte) {
	s := sh.ShellFrom(c)
	if err := s.Send(data); err != nil {
		c.Err(err)
		return
	}
	c.Printf("sent: % X\n", data)
	if err := s.Monitor(500*time.Millisecond, func(line string) { c.Println(line) }); err != nil {
		c.Err(err)
	}
}

var (
	// SendCmd sends raw hex bytes to the module.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "HEX...",
		Func: sh.MustBeOpen(func(c *ishell.Context) {
			data, err := ParseHex(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			sendAndDump(c, data)
		}),
	}

	// CommandCmd sends a canned command frame.
	CommandCmd = ishell.Cmd{
		Name:    "cmd",
		Aliases: []string{"c"},
		Help:    "NAME",
		Func: sh.MustBeOpen(func(c *ishell.Context) {
			if len(c.Args) != 1 {
				names := make([]string, 0, len(cannedFrames))
				for name := range cannedFrames {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					c.Printf("%-14s %s\n", name, cannedFrames[name])
				}
				return
			}
			frame, ok := cannedFrames[c.Args[0]]
			if !ok {
				c.Err(fmt.Errorf("unknown command %q", c.Args[0]))
				return
			}
			data, err := ParseHex(strings.Fields(frame))
			if err != nil {
				c.Err(err)
				return
			}
			sendAndDump(c, data)
		}),
	}

	// MonitorCmd dumps incoming bytes for a bounded period.
	MonitorCmd = ishell.Cmd{
		Name:    "monitor",
		Aliases: []string{"m"},
		Help:    "[SECONDS]",
		Func: sh.MustBeOpen(func(c *ishell.Context) {
			seconds := 5
			if len(c.Args) > 0 {
				var err error
				if seconds, err = strconv.Atoi(c.Args[0]); err != nil || seconds <= 0 {
					c.Err(fmt.Errorf("invalid duration %q", c.Args[0]))
					return
				}
			}
			s := sh.ShellFrom(c)
			err := s.Monitor(time.Duration(seconds)*time.Second,
				func(line string) { c.Println(line) })
			if err != nil {
				c.Err(err)
			}
		}),
	}
)

func init() {
	sh.AddCmds(
		&SendCmd,
		&CommandCmd,
		&MonitorCmd,
	)
}
