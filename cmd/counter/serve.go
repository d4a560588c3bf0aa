package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/weegigs/wee-counter-go/connectors/wehttp"
	"github.com/weegigs/wee-counter-go/counter"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve counters over http",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdown, err := installTracing(ctx, cfg.Trace)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn().Err(err).Msg("failed to flush traces")
			}
		}()

		service, cleanup, err := counterService(ctx, cfg, prometheus.DefaultRegisterer)
		if err != nil {
			return err
		}
		defer cleanup()

		server := &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           withLogging(router(service)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errs := make(chan error, 1)
		go func() {
			log.Info().Str("address", cfg.HTTPAddress).Str("store", string(cfg.Store)).Msg("listening")
			errs <- server.ListenAndServe()
		}()

		select {
		case err := <-errs:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	},
}

func router(service counter.CounterService) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", wehttp.NewHandler(service))

	return r
}
