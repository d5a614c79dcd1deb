package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-tripform"
	"github.com/goliatone/go-tripform/internal/config"
	"github.com/goliatone/go-tripform/internal/logging"
	"github.com/goliatone/go-tripform/pkg/controller"
	"github.com/goliatone/go-tripform/pkg/orchestrator"
	"github.com/goliatone/go-tripform/pkg/render"
	"github.com/goliatone/go-tripform/pkg/renderers/vanilla"
	"github.com/goliatone/go-tripform/pkg/server"
	"github.com/goliatone/go-tripform/pkg/sheets"
)

func main() {
	configFile := flag.String("config", "", "config file (defaults to ./config.yaml or ./config/config.yaml)")
	flag.Parse()

	cfg, err := config.Load(config.WithConfigFile(*configFile))
	if err != nil {
		log.Fatalf("main: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := buildServer(cfg, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	srv.StartJanitor(ctx, cfg.SessionTTL/2)

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", httpServer.Addr)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
		os.Exit(1)
	}
	logger.Sugar().Info("main: server stopped gracefully")
}

func buildServer(cfg config.Config, logger *zap.Logger) (*server.Server, error) {
	page, err := vanilla.New(
		vanilla.WithLabelVariant(vanilla.ParseLabelVariant(cfg.LabelVariant)),
		vanilla.WithInlineAssets(false),
	)
	if err != nil {
		return nil, err
	}
	registry, err := render.NewRegistry(page)
	if err != nil {
		return nil, err
	}

	selector, err := vanilla.NewManifestSelector(cfg.ThemeVariant, vanilla.DefaultManifest(cfg.ThemeBrand))
	if err != nil {
		return nil, err
	}

	orch := tripform.NewOrchestrator(
		orchestrator.WithRegistry(registry),
		tripform.WithThemeSelector(selector, cfg.ThemeName, cfg.ThemeVariant),
	)
	form, err := orch.Form(context.Background(), "")
	if err != nil {
		return nil, err
	}
	renderer, err := tripform.NewPageRenderer(orch, "")
	if err != nil {
		return nil, err
	}

	client, err := tripform.NewSheetsClient(cfg.SheetsEndpoint,
		sheets.WithAction(cfg.SheetsAction),
		sheets.WithPath(cfg.SheetsPath),
		sheets.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return nil, err
	}
	logger.Info("forwarding bookings", zap.String("endpoint", client.Endpoint()))

	factory, err := tripform.ControllerFactory(form, client,
		controller.WithStatusTTL(cfg.StatusTTL),
		controller.WithLogger(logger.Named("controller")),
	)
	if err != nil {
		return nil, err
	}

	return server.New(form, renderer, factory,
		server.WithLogger(logger),
		server.WithSessionTTL(cfg.SessionTTL),
		server.WithAssets(vanilla.AssetsPath, vanilla.AssetsFS()),
		server.WithSecureCookies(cfg.IsProduction()),
	)
}
