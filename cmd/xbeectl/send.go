package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ebusto/xbeeapi"
)

var modes = map[string]xbeeapi.MessagingMode{
	"default":  xbeeapi.ModeDefault,
	"p2p":      xbeeapi.ModePointToPoint,
	"repeater": xbeeapi.ModeRepeater,
	"digimesh": xbeeapi.ModeDigiMesh,
}

func newSendCmd(a *app) *cobra.Command {
	var (
		mode      string
		noAck     bool
		noRoute   bool
		chunkSize int
	)

	cmd := &cobra.Command{
		Use:   "send <address64|broadcast> <message>",
		Short: "Transmit a message to a remote radio",
		Example: `  xbeectl send broadcast "HELLO FROM GO"
  xbeectl send 0013A200400A0127 "Hello individual device!" --mode digimesh`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := parseAddress(args[0])

			if err != nil {
				return err
			}

			m, ok := modes[strings.ToLower(mode)]

			if !ok {
				return fmt.Errorf("unknown mode %q", mode)
			}

			opts := xbeeapi.TransmitOptions(0).WithMode(m)

			if noAck {
				opts |= xbeeapi.TransmitDisableAck
			}

			if noRoute {
				opts |= xbeeapi.TransmitDisableRouteDiscovery
			}

			return a.run(cmd.Context(), func(ctx context.Context, r *xbeeapi.Radio) error {
				w := xbeeapi.NewWriter(r, dest)
				w.Context = ctx
				w.Options = opts
				w.ChunkSize = chunkSize

				n, err := w.Write([]byte(args[1]))

				if err != nil {
					return fmt.Errorf("sent %d of %d bytes: %w", n, len(args[1]), err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "sent %d bytes to %016X\n", n, dest)

				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&mode, "mode", "default", "delivery method: default, p2p, repeater or digimesh")
	f.BoolVar(&noAck, "no-ack", false, "disable acknowledgement")
	f.BoolVar(&noRoute, "no-route-discovery", false, "disable route discovery")
	f.IntVar(&chunkSize, "chunk", xbeeapi.DefaultChunkSize, "bytes per transmit request")

	return cmd
}

// parseAddress parses a 64 bit address in hex, or the word broadcast.
func parseAddress(s string) (uint64, error) {
	if strings.EqualFold(s, "broadcast") {
		return xbeeapi.BroadcastAddress64, nil
	}

	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 64)

	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}

	return v, nil
}
