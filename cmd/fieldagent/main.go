// Command fieldagent answers position requests over NATS on behalf of a
// device, so the API can run with location.provider=nats. Fixes come from
// the synthetic provider; -fail makes every request fail with the given kind.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/samirrijal/fieldproof/internal/adapters/nats"
	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/core/ports"
	"github.com/samirrijal/fieldproof/internal/core/usecases"
	"github.com/samirrijal/fieldproof/internal/pkg/config"
	"github.com/samirrijal/fieldproof/internal/pkg/logging"
)

func main() {
	device := flag.String("device", "", "device id; overrides location.device_subject")
	fail := flag.String("fail", "", "answer every request with this error kind (permission_denied, timeout, ...)")
	flag.Parse()

	cfg, err := config.Load("fieldproof-fieldagent")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	subject := cfg.Location.DeviceSubject
	if *device != "" {
		subject = natsadapter.DeviceSubject(*device)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nc, err := natsadapter.Connect(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer nc.Drain()

	provider := usecases.NewSyntheticLocationProvider(cfg.Location.Seed, nil)
	handler := func(ctx context.Context, opts ports.PositionOptions) (ports.Fix, error) {
		if *fail != "" {
			return ports.Fix{}, domain.NewLocationError(domain.ParseLocationErrorKind(*fail), "simulated by fieldagent")
		}
		c, name := provider.AcquireLabeled(ctx)
		slog.InfoContext(ctx, "position served",
			"near", name, "high_accuracy", opts.HighAccuracy, "accuracy", c.Accuracy)
		return ports.Fix{Latitude: c.Latitude, Longitude: c.Longitude, Accuracy: c.Accuracy, Timestamp: c.Timestamp}, nil
	}

	responder := natsadapter.NewResponder(nc)
	defer responder.Close()
	if err := responder.RespondPositions(ctx, subject, handler); err != nil {
		log.Fatalf("subscribe %s: %v", subject, err)
	}
	slog.Info("field agent answering position requests", "subject", subject, "fail", *fail)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutting down field agent", "signal", sig.String())
}
