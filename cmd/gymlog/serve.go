package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"tailscale.com/tsnet"

	"github.com/claude/gymlog/internal/backup"
	"github.com/claude/gymlog/internal/ingest/alpha"
	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/server"
	"github.com/claude/gymlog/internal/storage"
	"github.com/claude/gymlog/internal/timer"
	"github.com/claude/gymlog/internal/workout"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (on the tailnet when tailscale is enabled)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, log := a.cfg, a.log
	log.Info("gymlog starting", "version", Version, "data", cfg.Data.Path)

	store, err := a.openStore(cfg.Data.AutoSave)
	if err != nil {
		return fmt.Errorf("opening data file: %w", err)
	}
	defer func() {
		if err := store.Flush(); err != nil {
			log.Error("final save failed", "error", err)
		}
	}()

	tracker := workout.New(store, log,
		workout.WithWindow(cfg.Stats.Window),
		workout.WithDefaultRest(cfg.Workout.DefaultRestSeconds),
	)
	defer tracker.Cancel()

	unsubscribe := store.Subscribe(func(ev storage.Event) {
		log.Debug("document changed", "event", ev.Kind, "plan", ev.PlanID, "id", ev.ID)
	})
	defer unsubscribe()
	tracker.Rest().OnChange(func(snap timer.Snapshot) {
		if snap.State == timer.Stopped {
			log.Debug("rest timer stopped")
		}
	})

	muscle, err := models.ParseMuscleGroup(cfg.Import.DefaultMuscle)
	if err != nil {
		return fmt.Errorf("import.default_muscle: %w", err)
	}
	alphaProvider := alpha.NewProvider(store, log, muscle)

	srv := server.New(store, tracker, alphaProvider, cfg.Auth.APIKey, log)

	if cfg.Backup.Dir != "" {
		sched := backup.New(store, cfg.Backup.Dir, cfg.Backup.Keep, log)
		if err := sched.Start(cfg.Backup.Schedule); err != nil {
			return err
		}
		defer sched.Stop()
	}

	// Listen on the tailnet or plain TCP.
	var listener net.Listener
	if cfg.Tailscale.Enabled {
		ts := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := ts.Start(); err != nil {
			return fmt.Errorf("tsnet start: %w", err)
		}
		defer ts.Close()

		listener, err = ts.Listen("tcp", ":80")
		if err != nil {
			return fmt.Errorf("tsnet listen: %w", err)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
	return nil
}
