package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"zone-matrix-service/internal/adapters/artifacts"
	"zone-matrix-service/internal/adapters/googlemaps"
	"zone-matrix-service/internal/adapters/ledger"
	"zone-matrix-service/internal/adapters/osrm"
	"zone-matrix-service/internal/config"
	"zone-matrix-service/internal/domain"
	"zone-matrix-service/internal/platform/db"
	"zone-matrix-service/internal/ports"
	"zone-matrix-service/internal/services"
)

var (
	zonesPath  = flag.String("zones", "data/zones.geojson", "GeoJSON FeatureCollection with one polygon per zone")
	outPath    = flag.String("out", "data/matrix.json", "artifact output path")
	source     = flag.String("source", "osrm", "matrix source: osrm (free bulk table) or google (paid batches)")
	mode       = flag.String("mode", "now", "departure variant for -source google: now, morning or evening")
	dryRun     = flag.Bool("dry-run", false, "print the batch plan and cost estimate, issue zero calls, write nothing")
	confirm    = flag.Bool("confirm", false, "required before any paid call is issued")
	configPath = flag.String("config", "", "optional TOML config overriding the built-in defaults")
)

// main is the matrix pipeline composition root. It wires the zone resolver,
// the selected matrix source, the congestion deriver, and the artifact store,
// then runs them once. Any fatal error exits non-zero.
func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	// SIGINT/SIGTERM stop the run between snap calls and between paid
	// batches; an interrupted run writes neither artifact nor ledger entry.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	raw, err := os.ReadFile(*zonesPath)
	if err != nil {
		log.Fatalf("read zones: %v", err)
	}

	osrmBase := config.Get("OSRM_BASE_URL", "https://router.project-osrm.org")
	osrmClient, err := osrm.NewClient(osrmBase, cfg.OSRM.Profile, time.Duration(cfg.OSRM.TimeoutS)*time.Second)
	if err != nil {
		log.Fatal(err)
	}

	resolver := services.NewZoneResolver(osrmClient, cfg.Zones.NameProperty, cfg.SnapDelay())

	// Input problems surface here, before any network call or spend check.
	names, err := resolver.Preview(raw)
	if err != nil {
		log.Fatal(err)
	}

	var src ports.MatrixSource
	switch *source {
	case "osrm":
		if *mode != "now" {
			log.Fatal("-mode applies to -source google only")
		}
		if *dryRun {
			fmt.Printf("dry run: source=osrm zones=%d\n", len(names))
			fmt.Printf("would issue one bulk table call with %d points (%d elements), cost 0 USD\n",
				len(names), len(names)*len(names))
			fmt.Println("no calls were issued, nothing was written")
			return
		}
		src = osrmClient

	case "google":
		ledgerStore, closeLedger, err := openLedger(ctx)
		if err != nil {
			log.Fatal(err)
		}
		defer closeLedger()

		// Credential and config checks happen at construction, before
		// any planning step.
		provider, err := googlemaps.NewProvider(googlemaps.Config{
			APIKey:              os.Getenv("GOOGLE_MAPS_API_KEY"),
			Language:            cfg.Google.Language,
			ElementCeiling:      cfg.Google.ElementCeiling,
			PricePerThousandUSD: cfg.Google.PricePerThousandUSD,
			MonthlyLimitUSD:     cfg.Google.MonthlyLimitUSD,
			PacingDelay:         cfg.PacingDelay(),
			Mode:                googlemaps.DepartureMode(*mode),
			MorningHour:         cfg.Google.MorningHour,
			EveningHour:         cfg.Google.EveningHour,
			OutputName:          filepath.Base(*outPath),
			Ledger:              ledgerStore,
			Timeout:             time.Duration(cfg.Google.TimeoutS) * time.Second,
		})
		if err != nil {
			log.Fatal(err)
		}

		if *dryRun {
			printGooglePlan(ctx, provider, ledgerStore, cfg, len(names))
			return
		}
		if !*confirm {
			log.Fatalf("refusing to issue paid calls for %d zones without -confirm (use -dry-run to preview the plan)", len(names))
		}
		src = provider

	default:
		log.Fatalf("unknown -source %q (want osrm or google)", *source)
	}

	deriver, err := services.NewCongestionDeriver(cfg.Derive.SpeedCapKmh, cfg.ProfileSpecs())
	if err != nil {
		log.Fatal(err)
	}

	store, err := artifacts.NewFileStore(*outPath)
	if err != nil {
		log.Fatal(err)
	}

	pipeline := services.NewPipeline(resolver, src, deriver, store,
		domain.ProfileKey(cfg.Derive.DefaultProfile), cfg.Penalties())

	art, err := pipeline.Run(ctx, raw)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("artifact written to %s: %d zones, %d profiles, source %s\n",
		*outPath, art.Size(), len(art.Profiles), art.Metadata.Source)
}

// printGooglePlan emits the per-rectangle batch plan, the projected cost,
// and the current ledger position. Reading the ledger is the only I/O.
func printGooglePlan(ctx context.Context, provider *googlemaps.Provider, store ports.LedgerStore, cfg *config.AppConfig, n int) {
	plan, est, err := provider.Plan(n)
	if err != nil {
		log.Fatal(err)
	}
	led, err := store.Load(ctx)
	if err != nil {
		log.Fatal(err)
	}
	spent := led.MonthlySpend(time.Now())

	fmt.Printf("dry run: source=google zones=%d mode=%s\n", n, *mode)
	fmt.Printf("batch plan: %d rectangles, chunk %d, ceiling %d elements/call\n",
		len(plan.Rects), plan.Chunk, plan.ElementCeiling)
	for i, rect := range plan.Rects {
		fmt.Printf("  batch %2d: origins [%d,%d) x destinations [%d,%d) = %d elements\n",
			i+1, rect.Origins.Start, rect.Origins.End,
			rect.Destinations.Start, rect.Destinations.End, rect.Elements())
	}
	fmt.Printf("total: %d elements, projected cost %.2f USD\n", plan.TotalElements(), est.CostUSD)
	fmt.Printf("ledger: %.2f USD spent this month, limit %.2f USD\n", spent, cfg.Google.MonthlyLimitUSD)
	if spent+est.CostUSD > cfg.Google.MonthlyLimitUSD {
		fmt.Println("warning: this run would exceed the monthly limit and will be refused")
	}
	fmt.Println("no calls were issued, nothing was written")
}

// openLedger picks the shared Postgres ledger when DATABASE_URL is set,
// otherwise the local JSON file ledger.
func openLedger(ctx context.Context) (ports.LedgerStore, func(), error) {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		sqlDB, err := db.Open(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}
		return ledger.NewSQLStore(sqlDB), func() { sqlDB.Close() }, nil
	}

	store, err := ledger.NewFileStore(config.Get("LEDGER_PATH", "data/ledger.json"))
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}
