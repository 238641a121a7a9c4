package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ebusto/xbeeapi"
)

func newListenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Print unsolicited frames from the radio until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var opts []xbeeapi.Option

			if a.cfg.Metrics.Enable {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)

				opts = append(opts, xbeeapi.WithMetrics(xbeeapi.NewMetrics(reg)))

				srv := a.serveMetrics(reg)
				defer srv.Close()
			}

			r, done, err := a.connect(opts...)

			if err != nil {
				return err
			}

			defer done()

			return listen(ctx, r, cmd.OutOrStdout())
		},
	}
}

func (a *app) serveMetrics(reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(a.cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server stopped", zap.Error(err))
		}
	}()

	a.log.Info("serving metrics", zap.String("addr", srv.Addr), zap.String("path", a.cfg.Metrics.Path))

	return srv
}

// listen prints inbound frames until ctx ends or the radio shuts down. The
// port reaching end of file is not an error.
func listen(ctx context.Context, r *xbeeapi.Radio, out io.Writer) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case f, ok := <-r.Inbound():
			if !ok {
				err := r.Err()

				if err == xbeeapi.ErrClosed || errors.Is(err, io.EOF) {
					return nil
				}

				return err
			}

			fmt.Fprintln(out, formatFrame(f))
		}
	}
}
