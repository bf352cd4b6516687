package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/tactile-board-backend/internal/config"
	"github.com/DoyleJ11/tactile-board-backend/internal/httpapi"
	"github.com/DoyleJ11/tactile-board-backend/internal/hub"
	"github.com/DoyleJ11/tactile-board-backend/internal/logging"
	"github.com/DoyleJ11/tactile-board-backend/internal/ws"
)

func main() {
	addr := flag.String("addr", "", "listen address, overrides PORT")
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	if err := run(*addr, *envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(addr, envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, MaxSizeMB: cfg.LogMaxSizeMB})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(context.Background(), log)

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, ws.Options{
		OriginPatterns: cfg.OriginPatterns,
		OutboxSize:     cfg.OutboxSize,
	}, log)
	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(sctx)
		// Closing the rooms ends every open socket's write pump.
		h.Shutdown()
		return err
	})
	return g.Wait()
}
