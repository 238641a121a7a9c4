package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ebusto/xbeeapi"
)

func newAtCmd(a *app) *cobra.Command {
	var text bool

	cmd := &cobra.Command{
		Use:   "at <command> [parameter]",
		Short: "Query or set a parameter of the local radio",
		Example: `  xbeectl at NI
  xbeectl at ID 7FFF
  xbeectl at NI GATEWAY --text`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, param, err := parseCommand(args, text)

			if err != nil {
				return err
			}

			return a.run(cmd.Context(), func(ctx context.Context, r *xbeeapi.Radio) error {
				v, err := r.AtCommand(ctx, name, param)

				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), formatValue(name, v))

				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&text, "text", false, "send the parameter as ASCII instead of hex")

	return cmd
}

func newRemoteAtCmd(a *app) *cobra.Command {
	var (
		text  bool
		apply bool
	)

	cmd := &cobra.Command{
		Use:   "remote-at <address64|broadcast> <command> [parameter]",
		Short: "Query or set a parameter of a remote radio",
		Example: `  xbeectl remote-at 0013A20040522BAA NI
  xbeectl remote-at broadcast ID 7FFF`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := parseAddress(args[0])

			if err != nil {
				return err
			}

			name, param, err := parseCommand(args[1:], text)

			if err != nil {
				return err
			}

			var opts xbeeapi.RemoteOptions

			if apply {
				opts |= xbeeapi.RemoteApplyChanges
			}

			return a.run(cmd.Context(), func(ctx context.Context, r *xbeeapi.Radio) error {
				v, err := r.RemoteAtCommand(ctx, dest, name, param, opts)

				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), formatValue(name, v))

				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&text, "text", false, "send the parameter as ASCII instead of hex")
	cmd.Flags().BoolVar(&apply, "apply", true, "apply changes on the remote radio immediately")

	return cmd
}

// parseCommand splits args into a two letter AT command and its parameter.
func parseCommand(args []string, text bool) (string, []byte, error) {
	name := strings.ToUpper(args[0])

	if len(name) != 2 {
		return "", nil, fmt.Errorf("invalid AT command %q: must be two characters", args[0])
	}

	if len(args) < 2 {
		return name, nil, nil
	}

	if text {
		return name, []byte(args[1]), nil
	}

	param, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(args[1]), "0x"))

	if err != nil {
		return "", nil, fmt.Errorf("invalid parameter %q: %w", args[1], err)
	}

	return name, param, nil
}
