package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ebusto/xbeeapi/internal/serialport"
)

// listPorts is replaced in tests.
var listPorts = serialport.List

func newPortsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := listPorts()

			if err != nil {
				return fmt.Errorf("failed to list ports: %w", err)
			}

			if len(ports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no serial ports found")
				return nil
			}

			for _, p := range ports {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}

			return nil
		},
	}
}
