package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/fieldproof/internal/adapters/http"
	natsadapter "github.com/samirrijal/fieldproof/internal/adapters/nats"
	"github.com/samirrijal/fieldproof/internal/adapters/store"
	"github.com/samirrijal/fieldproof/internal/core/ports"
	"github.com/samirrijal/fieldproof/internal/core/usecases"
	"github.com/samirrijal/fieldproof/internal/pkg/config"
	"github.com/samirrijal/fieldproof/internal/pkg/logging"
	"github.com/samirrijal/fieldproof/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("fieldproof-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer st.Close()
	slog.Info("campaign storage ready", "driver", st.Name)

	// NATS is optional; without it events are not published and the
	// WebSocket relay reports that the stream is not configured.
	var (
		publisher ports.EventPublisher
		natsConn  *nats.Conn
	)
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
			natsConn = pub.Conn()
		}
	}

	locator, err := newLocator(cfg, natsConn)
	if err != nil {
		log.Fatalf("location: %v", err)
	}

	mode, err := usecases.ParseLocationMode(cfg.Capture.DefaultMode)
	if err != nil {
		log.Fatalf("capture.default_mode: %v", err)
	}

	deps := &http.Dependencies{
		Campaigns:    usecases.NewCampaignService(st.Repo, publisher),
		Capture:      usecases.NewCaptureService(st.Repo, locator, publisher, mode),
		Maps:         usecases.NewMapService(st.Repo, cfg.Map.EmbedBase),
		Location:     locator,
		LocationName: cfg.Location.Provider,
		NATS:         natsConn,
		Storage:      st,
		StorageName:  st.Name,
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		AppName:      "FieldProof API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:3000, http://localhost:5173",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "location_provider", cfg.Location.Provider, "default_mode", mode)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// newLocator builds the configured location provider.
func newLocator(cfg *config.Config, nc *nats.Conn) (http.Locator, error) {
	switch cfg.Location.Provider {
	case config.ProviderSynthetic:
		return usecases.NewSyntheticLocationProvider(cfg.Location.Seed, nil), nil
	case config.ProviderNATS:
		if nc == nil {
			return nil, fmt.Errorf("provider %q needs a NATS connection", cfg.Location.Provider)
		}
		src := natsadapter.NewPositionSource(nc, cfg.Location.DeviceSubject)
		return usecases.NewLocationService(src, config.ProviderNATS, usecases.AcquireOptions{
			Precise: ports.PositionOptions{HighAccuracy: true, Timeout: cfg.Location.PreciseTimeout},
			Relaxed: ports.PositionOptions{Timeout: cfg.Location.RelaxedTimeout, MaximumAge: cfg.Location.RelaxedMaxAge},
		}), nil
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Location.Provider)
}
