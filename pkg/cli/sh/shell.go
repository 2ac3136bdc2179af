// Package sh provides the ishell backed interactive shell for talking
// to an LD2412 module through its serial device.
package sh

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/moneytom/LD2412-Tools/pkg/serial"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	BaudRate    int

	Shell *ishell.Shell
	Port  *serial.Port
}

const (
	shellKey       = "$shell"
	detachedPrompt = "[none] > "
)

var (
	// flags

	evalOnly bool
	device   string
	baudRate = serial.DefaultBaudRate

	// commands
	commands = []*ishell.Cmd{
		&PortsCmd,
		&OpenCmd,
		&CloseCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.StringVar(&device, "port", device, "Serial device to open at startup.")
	flag.IntVar(&baudRate, "baud", baudRate, "Baud rate of the serial device.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New() *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		BaudRate:    baudRate,

		Shell: ishell.New(),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(detachedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeOpen wraps command func requires an open port.
func MustBeOpen(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Port == nil {
			c.Err(fmt.Errorf("no port open"))
			return
		}
		fn(c)
	}
}

// Open opens the serial device and binds the shell to it.
func (s *Shell) Open(device string) error {
	port, err := serial.Open(device, s.BaudRate)
	if err != nil {
		return err
	}
	if s.Port != nil {
		s.Port.Close()
	}
	s.Port = port
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", device))
	return nil
}

// Close detaches the shell from the serial device.
func (s *Shell) Close() {
	if s.Port != nil {
		s.Port.Close()
		s.Port = nil
		s.Shell.SetPrompt(detachedPrompt)
	}
}

// Send writes raw bytes to the port and waits for transmission.
func (s *Shell) Send(data []byte) error {
	if _, err := s.Port.Write(data); err != nil {
		return err
	}
	return s.Port.Flush()
}

// Monitor dumps incoming bytes as hex for the given duration.
func (s *Shell) Monitor(dur time.Duration, out func(string)) error {
	if err := s.Port.SetReadTimeout(200 * time.Millisecond); err != nil {
		return err
	}
	defer s.Port.SetReadTimeout(-1)
	buf := make([]byte, 256)
	deadline := time.Now().Add(dur)
	for time.Now().Before(deadline) {
		n, err := s.Port.Read(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		out(fmt.Sprintf("[%s] recv: % X",
			time.Now().Format("15:04:05.000"), buf[:n]))
	}
	return nil
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if device != "" {
		if s.Interactive {
			s.Shell.Printf("Opening %s ...\n", device)
		}
		if err := s.Open(device); err != nil {
			log.Fatalf("open %q failed: %v", device, err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// PortsCmd enumerates serial devices.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			devices, err := serial.List()
			if err != nil {
				c.Err(err)
				return
			}
			if len(devices) == 0 {
				c.Println("No serial devices found")
				return
			}
			for _, dev := range devices {
				c.Println(dev)
			}
		},
	}

	// OpenCmd opens a serial device.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "DEVICE",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("device expected"))
				return
			}
			if err := ShellFrom(c).Open(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd closes the current serial device.
	CloseCmd = ishell.Cmd{
		Name:    "close",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Close()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New().Run(flag.Args()...)
}
