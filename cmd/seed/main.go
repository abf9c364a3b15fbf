// Command seed loads campaigns from a JSON manifest into the configured
// store, replacing whatever is there.
package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/samirrijal/fieldproof/internal/adapters/store"
	"github.com/samirrijal/fieldproof/internal/core/domain"
	"github.com/samirrijal/fieldproof/internal/pkg/config"
	"github.com/samirrijal/fieldproof/internal/pkg/logging"
)

// Manifest is the seed file layout.
type Manifest struct {
	Source    string            `json:"source"`
	Campaigns []domain.Campaign `json:"campaigns"`
}

func main() {
	cfg, err := config.Load("fieldproof-seed")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	manifestPath := "seed.json"
	if len(os.Args) > 1 {
		manifestPath = os.Args[1]
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		log.Fatalf("read manifest: %v", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		log.Fatalf("parse manifest: %v", err)
	}
	if err := normalize(m.Campaigns, time.Now()); err != nil {
		log.Fatalf("manifest %s: %v", manifestPath, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer st.Close()

	if err := st.Repo.Replace(ctx, m.Campaigns); err != nil {
		log.Fatalf("replace: %v", err)
	}

	activities := 0
	for _, c := range m.Campaigns {
		activities += len(c.Activities)
	}
	slog.Info("seed complete", "source", m.Source, "driver", st.Name,
		"campaigns", len(m.Campaigns), "activities", activities)
}
