package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"plantcare/config"
	"plantcare/pkg/app"
	"plantcare/pkg/logging"
	"plantcare/router"

	assistantCtrlImp "plantcare/pkg/assistant/controllerImp"
	healthCtrlImp "plantcare/pkg/health/controllerImp"
	plantCtrlImp "plantcare/pkg/plant/controllerImp"
	schedCtrlImp "plantcare/pkg/schedule/controllerImp"
)

func main() {
	// 1) Config + logger
	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// 2) DB + services
	a, err := app.New(cfg, logger, app.Options{})
	if err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
	defer a.Close()

	// 3) Controllers
	var pollerStatus healthCtrlImp.PollerStatus
	if a.Poller != nil {
		pollerStatus = a.Poller
	}
	e := echo.New()
	e.HideBanner = true
	router.New(
		e,
		logger,
		plantCtrlImp.New(a.Plants),
		schedCtrlImp.New(a.Schedule, a.Transcript),
		assistantCtrlImp.New(a.Facade),
		healthCtrlImp.NewHealthCtrl(a.DB, pollerStatus),
	)

	// 4) Run HTTP + reminder poller until a signal arrives
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", zap.String("port", cfg.Port), zap.String("db", cfg.DBPath))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if a.Poller != nil {
		g.Go(func() error { return a.Poller.Run(gctx) })
	} else {
		logger.Info("reminder poller disabled")
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited", zap.Error(err))
	}
}
