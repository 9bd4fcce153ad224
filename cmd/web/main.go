package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/ap-prep/internal/app"
	"github.com/aliskhannn/ap-prep/internal/config"
	"github.com/aliskhannn/ap-prep/internal/delivery/web"
	"github.com/aliskhannn/ap-prep/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to build app", zap.Error(err))
	}
	defer a.Close()

	if cfg.HTTP.BasicAuthUser == "" || cfg.HTTP.BasicAuthPass == "" {
		lg.Warn("basic auth is disabled")
	}

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: web.NewRouter(web.RouterConfig{
			Handler:       web.NewHandler(a.Quiz, a.Progress, a.Circuit, lg),
			Logger:        lg,
			BasicAuthUser: cfg.HTTP.BasicAuthUser,
			BasicAuthPass: cfg.HTTP.BasicAuthPass,
		}),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("http server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return a.Janitor.Start(gctx)
	})

	if err = g.Wait(); err != nil {
		lg.Error("server stopped with error", zap.Error(err))
	}

	lg.Info("server stopped")
}
