// Package serialport opens the serial connection to a radio. Two drivers are
// available: go.bug.st/serial ("bugst", the default) and github.com/tarm/serial
// ("tarm").
package serialport

import (
	"fmt"
	"io"
	"strings"
	"time"

	tarm "github.com/tarm/serial"
	bugst "go.bug.st/serial"
)

// Port is the byte pipe to the radio.
type Port interface {
	io.ReadWriter
	io.Closer
}

const (
	DriverBugst = "bugst"
	DriverTarm  = "tarm"
)

// Options describes the serial line settings.
type Options struct {
	Driver      string
	BaudRate    int
	DataBits    int
	StopBits    int
	Parity      string
	ReadTimeout time.Duration
}

// Normalize validates o and fills in defaults for unset values.
func (o Options) Normalize() (Options, error) {
	opts := o

	driver := strings.ToLower(strings.TrimSpace(opts.Driver))

	switch driver {
	case "":
		driver = DriverBugst
	case DriverBugst, DriverTarm:
	default:
		return opts, fmt.Errorf("unsupported driver %q: expected %s or %s", opts.Driver, DriverBugst, DriverTarm)
	}

	opts.Driver = driver

	if opts.BaudRate <= 0 {
		opts.BaudRate = 9600
	}

	if opts.DataBits == 0 {
		opts.DataBits = 8
	}

	if opts.DataBits < 5 || opts.DataBits > 8 {
		return opts, fmt.Errorf("invalid data bits %d: must be between 5 and 8", opts.DataBits)
	}

	if opts.StopBits == 0 {
		opts.StopBits = 1
	}

	if opts.StopBits != 1 && opts.StopBits != 2 {
		return opts, fmt.Errorf("invalid stop bits %d: supported values are 1 or 2", opts.StopBits)
	}

	parity := strings.TrimSpace(strings.ToUpper(opts.Parity))

	switch parity {
	case "", "N", "NONE":
		parity = "N"
	case "E", "EVEN":
		parity = "E"
	case "O", "ODD":
		parity = "O"
	default:
		return opts, fmt.Errorf("unsupported parity %q: expected N, E, or O", opts.Parity)
	}

	opts.Parity = parity

	if opts.ReadTimeout < 0 {
		return opts, fmt.Errorf("invalid read timeout %s", opts.ReadTimeout)
	}

	return opts, nil
}

// BugstMode converts the options to a go.bug.st/serial mode.
func (o Options) BugstMode() (*bugst.Mode, error) {
	opts, err := o.Normalize()

	if err != nil {
		return nil, err
	}

	mode := &bugst.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
		StopBits: bugst.OneStopBit,
	}

	if opts.StopBits == 2 {
		mode.StopBits = bugst.TwoStopBits
	}

	switch opts.Parity {
	case "N":
		mode.Parity = bugst.NoParity
	case "E":
		mode.Parity = bugst.EvenParity
	case "O":
		mode.Parity = bugst.OddParity
	}

	return mode, nil
}

// TarmConfig converts the options to a github.com/tarm/serial config.
func (o Options) TarmConfig(path string) (*tarm.Config, error) {
	opts, err := o.Normalize()

	if err != nil {
		return nil, err
	}

	cfg := &tarm.Config{
		Name:        path,
		Baud:        opts.BaudRate,
		Size:        byte(opts.DataBits),
		StopBits:    tarm.Stop1,
		ReadTimeout: opts.ReadTimeout,
	}

	if opts.StopBits == 2 {
		cfg.StopBits = tarm.Stop2
	}

	switch opts.Parity {
	case "N":
		cfg.Parity = tarm.ParityNone
	case "E":
		cfg.Parity = tarm.ParityEven
	case "O":
		cfg.Parity = tarm.ParityOdd
	}

	return cfg, nil
}

// Opener opens a port; tests replace it.
type Opener func(path string, opts Options) (Port, error)

// Open opens the serial port at path with the configured driver.
func Open(path string, opts Options) (Port, error) {
	opts, err := opts.Normalize()

	if err != nil {
		return nil, err
	}

	if opts.Driver == DriverTarm {
		cfg, err := opts.TarmConfig(path)

		if err != nil {
			return nil, err
		}

		p, err := tarm.OpenPort(cfg)

		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}

		if opts.ReadTimeout > 0 {
			return &timeoutPort{Port: p}, nil
		}

		return p, nil
	}

	mode, err := opts.BugstMode()

	if err != nil {
		return nil, err
	}

	p, err := bugst.Open(path, mode)

	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if opts.ReadTimeout > 0 {
		if err := p.SetReadTimeout(opts.ReadTimeout); err != nil {
			p.Close()
			return nil, fmt.Errorf("set read timeout on %s: %w", path, err)
		}
	}

	return p, nil
}

// timeoutPort reports an expired tarm read timeout as an empty read. tarm
// returns io.EOF when a timed read gets no bytes, which would otherwise look
// like the port going away.
type timeoutPort struct {
	Port
}

func (p *timeoutPort) Read(b []byte) (int, error) {
	n, err := p.Port.Read(b)

	if n == 0 && err == io.EOF {
		return 0, nil
	}

	return n, err
}

// List returns the names of the serial ports on this machine.
func List() ([]string, error) {
	return bugst.GetPortsList()
}
