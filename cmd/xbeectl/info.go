package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ebusto/xbeeapi"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the address, node identifier and versions of the local radio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(ctx context.Context, r *xbeeapi.Radio) error {
				d, err := r.Identify(ctx)

				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "address:  %016X\n", d.Address64)
				fmt.Fprintf(out, "node id:  %s\n", d.NodeID)
				fmt.Fprintf(out, "hardware: %04X\n", d.HardwareVersion)
				fmt.Fprintf(out, "firmware: %04X\n", d.FirmwareVersion)

				return nil
			})
		},
	}
}
