package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ebusto/xbeeapi"
	"github.com/ebusto/xbeeapi/internal/config"
	"github.com/ebusto/xbeeapi/internal/logging"
	"github.com/ebusto/xbeeapi/internal/serialport"
)

// openPort is replaced in tests.
var openPort serialport.Opener = serialport.Open

// app holds the state shared by subcommands once the root has run.
type app struct {
	cfgFile string
	port    string
	driver  string
	baud    int
	timeout time.Duration

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "xbeectl",
		Short: "Query and control XBee radios in API mode",
		Long: `xbeectl sends API frames to an XBee radio attached to a serial port
and waits for the matching responses. The radio must be configured for
API mode without escaping (AP=1).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./xbee.yaml)")
	f.StringVarP(&a.port, "port", "p", "", "serial port")
	f.StringVar(&a.driver, "driver", "", "serial driver: bugst or tarm")
	f.IntVarP(&a.baud, "baud", "b", 0, "baud rate")
	f.DurationVarP(&a.timeout, "timeout", "t", 0, "response timeout")

	root.AddCommand(
		newAtCmd(a),
		newRemoteAtCmd(a),
		newSendCmd(a),
		newInfoCmd(a),
		newListenCmd(a),
		newPortsCmd(a),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)

	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()

	if flags.Changed("port") {
		cfg.Serial.Port = a.port
	}

	if flags.Changed("driver") {
		cfg.Serial.Driver = a.driver
	}

	if flags.Changed("baud") {
		cfg.Serial.BaudRate = a.baud
	}

	if flags.Changed("timeout") {
		cfg.Radio.Timeout = a.timeout
		cfg.Radio.AtTimeout = 0
		cfg.Radio.RemoteAtTimeout = 0
	}

	a.cfg = cfg
	a.log = logging.New(cfg.Logging)

	return nil
}

// connect opens the serial port and starts a radio on it. The returned
// function closes both.
func (a *app) connect(opts ...xbeeapi.Option) (*xbeeapi.Radio, func(), error) {
	s := a.cfg.Serial

	port, err := openPort(s.Port, serialport.Options{
		Driver:      s.Driver,
		BaudRate:    s.BaudRate,
		DataBits:    s.DataBits,
		StopBits:    s.StopBits,
		Parity:      s.Parity,
		ReadTimeout: s.ReadTimeout,
	})

	if err != nil {
		return nil, nil, err
	}

	a.log.Debug("opened serial port", zap.String("port", s.Port), zap.Int("baud", s.BaudRate))

	opts = append([]xbeeapi.Option{
		xbeeapi.WithLogger(a.log.Named("radio")),
		xbeeapi.WithTimeout(a.cfg.Radio.Timeout),
		xbeeapi.WithFrameTimeout(xbeeapi.FrameTypeAtCommand, a.cfg.Radio.AtTimeout),
		xbeeapi.WithFrameTimeout(xbeeapi.FrameTypeRemoteAtCommand, a.cfg.Radio.RemoteAtTimeout),
		xbeeapi.WithInboundBuffer(a.cfg.Radio.InboundBuffer),
	}, opts...)

	r := xbeeapi.NewRadio(port, opts...)

	return r, func() {
		r.Close()
		port.Close()
	}, nil
}

// run connects, calls fn and disconnects.
func (a *app) run(ctx context.Context, fn func(ctx context.Context, r *xbeeapi.Radio) error) error {
	r, done, err := a.connect()

	if err != nil {
		return err
	}

	defer done()

	return fn(ctx, r)
}
