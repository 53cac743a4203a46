package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/matcert/internal/config"
	"github.com/mamadbah2/matcert/internal/export"
	"github.com/mamadbah2/matcert/internal/render"
	"github.com/mamadbah2/matcert/internal/scheduler"
	"github.com/mamadbah2/matcert/internal/server/handlers"
	"github.com/mamadbah2/matcert/internal/server/router"
	certificatesvc "github.com/mamadbah2/matcert/internal/service/certificate"
	"github.com/mamadbah2/matcert/pkg/clients/converter"
	"github.com/mamadbah2/matcert/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.NewForEnv(cfg.IsDevelopment()))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	numbers := certificatesvc.NewNumberGenerator(cfg.Certificate.NumberPrefix)
	sessions := certificatesvc.NewSessionManager(numbers)
	formSvc := certificatesvc.NewService(sessions, logger.Named(baseLogger, "svc.certificate"))

	var exporter export.Exporter
	switch cfg.Export.Engine {
	case config.EngineRemote:
		exporter = export.NewRemoteExporter(converter.NewClient(cfg.Export), logger.Named(baseLogger, "export.remote"))
		baseLogger.Info("remote pdf converter enabled", zap.String("url", cfg.Export.ConverterURL))
	default:
		chrome := export.NewChromeExporter(export.ChromeConfig{
			Bin:         cfg.Export.ChromeBin,
			DebuggerURL: cfg.Export.ChromeDebuggerURL,
			Headless:    cfg.Export.ChromeHeadless,
		}, logger.Named(baseLogger, "export.chrome"))
		defer func() {
			if err := chrome.Close(); err != nil {
				baseLogger.Error("failed to close chrome", zap.Error(err))
			}
		}()
		exporter = chrome
	}

	exportSvc := export.NewService(exporter, export.Options{
		Issuer: render.Issuer{
			Name:    cfg.Certificate.IssuerName,
			Tagline: cfg.Certificate.IssuerTagline,
			Address: cfg.Certificate.IssuerAddress,
		},
		OutputDir: cfg.Export.OutputDir,
		Timeout:   cfg.Export.Timeout,
	}, logger.Named(baseLogger, "svc.export"))

	certHandler := handlers.NewCertificateHandler(formSvc, exportSvc, logger.Named(baseLogger, "handlers.certificate"))
	engine := router.New(certHandler, logger.Named(baseLogger, "router"))

	sched := scheduler.NewScheduler(cfg.Sessions, formSvc, logger.Named(baseLogger, "scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Export.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("export_engine", cfg.Export.Engine))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
