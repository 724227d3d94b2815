package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/quadworld/internal/core/events/bus"
	"github.com/zeusync/quadworld/internal/core/observability/log"
	"github.com/zeusync/quadworld/internal/core/system"
	"github.com/zeusync/quadworld/internal/injector"
	"github.com/zeusync/quadworld/internal/server"
)

func serveCmd() *cobra.Command {
	var (
		listen string
		rate   int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept remote touch feeds and step a world with them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if rate < 1 {
				return fmt.Errorf("rate must be at least 1, got %d", rate)
			}
			if listen != "" {
				cfg.Server.ListenAddr = listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt := injector.InitializeRuntime(cfg)
			return runServe(ctx, rt.World, rt.Server, rt.Log, time.Second/time.Duration(rate))
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "override server.listen_addr")
	cmd.Flags().IntVarP(&rate, "rate", "r", 60, "simulation frames per second")
	return cmd
}

func runServe(ctx context.Context, w *system.World, srv *server.Server, logger log.Log, frame time.Duration) error {
	logger = log.OrNop(logger).With(log.String("component", "serve"))
	for _, typ := range []string{system.EventGestureCircle, system.EventGestureUnrecognized} {
		if _, err := w.Bus().Subscribe(typ, func(e bus.Event) error {
			g := e.Data().(system.GestureEvent)
			logger.Info("gesture",
				log.Stringer("kind", g.Kind),
				log.Int64("touch", g.TouchID),
				log.Float32("x", g.Center.X),
				log.Float32("y", g.Center.Y),
			)
			return nil
		}); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		defer w.Close()
		ticker := time.NewTicker(frame)
		defer ticker.Stop()
		dt := float32(frame.Seconds())
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				stats, err := w.Step(dt, srv.Drain())
				if err != nil {
					logger.WithContext(log.ContextWithFrame(ctx, stats.Frame)).
						Warn("frame reported errors", log.Error(err))
				}
			}
		}
	})
	return g.Wait()
}
