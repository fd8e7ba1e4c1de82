package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/talgya/terminalnet/internal/api"
	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/engine"
	"github.com/talgya/terminalnet/internal/entropy"
	"github.com/talgya/terminalnet/internal/market"
	"github.com/talgya/terminalnet/internal/network"
	"github.com/talgya/terminalnet/internal/persistence"
	"github.com/talgya/terminalnet/internal/resource"
	"github.com/talgya/terminalnet/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Terminal Network balancer",
		RunE:  runNetwork,
	}

	cmd.Flags().String("db", "data/terminalnet.db", "SQLite database path")
	cmd.Flags().Int("port", 8080, "HTTP API port")
	cmd.Flags().Int64("seed", 42, "Deterministic shuffle/roster seed")
	cmd.Flags().String("roster", "", "Colony roster YAML file (omit to generate a synthetic roster)")
	cmd.Flags().Int("colonies", 6, "Number of synthetic colonies when --roster is omitted")
	cmd.Flags().String("catalog", "", "Threshold catalog YAML file (omit to use static defaults)")
	cmd.Flags().Float64("speed", 1.0, "Tick speed multiplier (0 pauses)")
	cmd.Flags().Duration("interval", time.Second, "Base tick interval at speed=1")
	cmd.Flags().String("admin-key", "", "Bearer token required for admin POST endpoints")
	cmd.Flags().String("random-org-key", "", "random.org API key for true-random tier shuffling (optional)")
	cmd.Flags().Int64("credits", 100_000, "Starting market credits for the reference simulated market")

	return cmd
}

func runNetwork(cmd *cobra.Command, args []string) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	dbPath := flagOrViperString(cmd, "db", "db")
	port := flagOrViperInt(cmd, "port", "port")
	seed := flagOrViperInt64(cmd, "seed", "seed")
	rosterPath := flagOrViperString(cmd, "roster", "roster")
	colonyCount := flagOrViperInt(cmd, "colonies", "colonies")
	catalogPath := flagOrViperString(cmd, "catalog", "catalog")
	speed := flagOrViperFloat64(cmd, "speed", "speed")
	interval, _ := cmd.Flags().GetDuration("interval")
	if !cmd.Flags().Changed("interval") && viper.IsSet("interval") {
		interval = viper.GetDuration("interval")
	}
	adminKey := flagOrViperString(cmd, "admin-key", "admin_key")
	randomOrgKey := flagOrViperString(cmd, "random-org-key", "random_org_key")
	credits := flagOrViperInt64(cmd, "credits", "credits")

	if adminKey == "" {
		slog.Warn("admin-key not set — admin POST endpoints will be disabled")
	}

	if err := os.MkdirAll("data", 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	db, err := persistence.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	catalog, err := resource.LoadCatalog(catalogPath)
	if err != nil {
		return fmt.Errorf("load threshold catalog: %w", err)
	}

	registry := colony.NewRegistry()
	var colonies []*colony.Colony
	if rosterPath != "" {
		colonies, err = colony.LoadRoster(rosterPath, registry)
		if err != nil {
			return fmt.Errorf("load colony roster: %w", err)
		}
		slog.Info("colony roster loaded", "path", rosterPath, "colonies", len(colonies))
	} else {
		colonies = colony.GenerateRoster(seed, colonyCount, registry)
		slog.Info("synthetic colony roster generated", "seed", seed, "colonies", len(colonies))
	}

	adapter := market.NewSimAdapter(credits)

	var entropySource *entropy.Client
	if randomOrgKey != "" {
		entropySource = entropy.NewClient(randomOrgKey)
		slog.Info("true-random tier shuffling enabled (random.org)")
	}

	net := network.New(network.Config{
		Seed:          seed,
		CreditGates:   market.DefaultCreditGates(),
		Catalog:       catalog,
		EntropySource: entropySource,
	}, adapter)

	for _, c := range colonies {
		net.AddColony(c)
	}

	if state, err := db.LoadPersistentState(); err == nil {
		net.LoadPersistent(state)
		slog.Info("persistent network state restored")
	} else {
		slog.Info("no persistent network state found, starting fresh")
	}

	registerer := prometheus.NewRegistry()
	metrics := telemetry.New(registerer)

	sim := engine.NewSimulation(net, registry, db, metrics)
	if tickStr, err := db.GetMeta("last_tick"); err == nil {
		fmt.Sscanf(tickStr, "%d", &sim.LastTick)
	}

	eng := engine.NewEngine()
	eng.Tick = sim.LastTick
	eng.Speed = speed
	eng.Interval = interval
	eng.OnTick = sim.Tick
	eng.OnHour = func(uint64) {
		if err := sim.Persist(); err != nil {
			slog.Error("persist failed", "error", err)
		}
	}
	eng.OnDay = func(tick uint64) {
		sim.Network().Summarize(os.Stdout, network.TTYWriter(os.Stdout.Fd()))
	}

	server := &api.Server{
		Sim:      sim,
		Eng:      eng,
		Registry: registry,
		Port:     port,
		AdminKey: adminKey,
	}
	server.Start()
	go serveMetrics(registerer, port+1)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("Terminal Network running: %d colonies, seed %d\n", len(colonies), seed)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", port)
	fmt.Printf("Metrics: http://localhost:%d/metrics\n", port+1)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	slog.Info("final persist...")
	if err := sim.Persist(); err != nil {
		slog.Error("final persist failed", "error", err)
	}
	fmt.Println("Simulation stopped. Network state saved.")
	return nil
}

func serveMetrics(reg *prometheus.Registry, port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	addr := fmt.Sprintf(":%d", port)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("metrics server error", "error", err)
	}
}
