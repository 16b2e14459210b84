package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/moffa90/go-as5048a/as5048a"
	"github.com/moffa90/go-as5048a/internal/metrics"
)

// sampler is the part of *as5048a.Dev the polling loop needs.
type sampler interface {
	Sample() (as5048a.Sample, error)
}

func newWatchCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the sensor periodically until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, f)
			if err != nil {
				return err
			}
			defer s.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if addr := s.cfg.Metrics.Addr; addr != "" {
				gin.SetMode(gin.ReleaseMode)
				srv := &http.Server{Addr: addr, Handler: metrics.Router(s.log, s.name)}
				go func() {
					s.log.Info().Str("addr", addr).Msg("serving metrics")
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						s.log.Error().Err(err).Msg("metrics server stopped")
					}
				}()
				defer srv.Close()
			}

			return watch(ctx, s.log, s.dev, s.name, s.cfg.Poll.Interval.Duration)
		},
	}

	cmd.Flags().StringVar(&f.interval, "interval", "", "polling interval, e.g. 250ms (default 1s)")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "serve /metrics and /health on this address, e.g. :9108")
	return cmd
}

// watch takes one sample per interval until ctx is done. Failed samples are
// logged and counted; polling continues.
func watch(ctx context.Context, log zerolog.Logger, dev sampler, name string, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for ctx.Err() == nil {
		poll(log, dev, name)

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}

	log.Info().Msg("stopping")
	return nil
}

func poll(log zerolog.Logger, dev sampler, name string) {
	s, err := dev.Sample()
	if err != nil {
		metrics.RecordError(name, err)
		log.Error().Err(err).Str("device", name).Msg("sample failed")
		return
	}

	metrics.RecordSample(name, s)
	log.Info().
		Str("device", name).
		Str("diag", s.Diagnostics.String()).
		Uint8("gain", s.Gain).
		Uint16("magnitude", s.Magnitude).
		Uint16("angle", s.Angle).
		Float64("degrees", s.Degrees()).
		Msg("sample")
}
