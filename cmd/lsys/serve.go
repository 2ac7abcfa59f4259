package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"lindenmayer.dev/cache"
	"lindenmayer.dev/server"
)

func (a *app) newCache() (cache.Cache, func() error, error) {
	sc := a.cfg.Server
	switch {
	case sc.RedisURL != "":
		r, err := cache.NewRedis(sc.RedisURL, cache.WithTTL(sc.CacheTTL))
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	case sc.CacheSize > 0:
		return cache.NewMemory(sc.CacheSize), func() error { return nil }, nil
	default:
		return cache.Nop{}, func() error { return nil }, nil
	}
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP fractal gallery",
		Long:  `Serve lists, describes and renders fractals over HTTP and exposes Prometheus metrics.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			c, closeCache, err := a.newCache()
			if err != nil {
				return err
			}
			defer closeCache()
			sc := a.cfg.Server
			s := server.New(server.Options{
				Catalog:  a.catalog,
				Cache:    c,
				Logger:   a.log,
				MaxDepth: sc.MaxDepth,
				MaxSteps: sc.MaxSteps,
				MaxWidth: sc.MaxWidth,
				Width:    a.cfg.Render.Width,
				Fit:      a.cfg.Render.Fit,
				Margin:   a.cfg.Render.Margin,
			})
			srv := &http.Server{
				Addr:              sc.Addr,
				Handler:           s.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				a.log.Info("starting server", "addr", srv.Addr)
				serverErrors <- srv.ListenAndServe()
			}()

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(shutdown)

			select {
			case err := <-serverErrors:
				return err
			case sig := <-shutdown:
				a.log.Info("shutting down", "signal", sig)
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					a.log.Warn("graceful shutdown did not complete", "error", err)
					if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return err
					}
				}
				a.log.Info("server stopped")
				return nil
			}
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Address to listen on")
	return cmd
}
