package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"grimdelve/internal/config"
	"grimdelve/internal/sim"
	"grimdelve/internal/storage"
)

func main() {
	var cfgPath, exportRun, importFile string
	var runs, floors int
	var seed int64
	var list bool
	flag.StringVar(&cfgPath, "config", "config.yaml", "config file")
	flag.IntVar(&runs, "runs", 0, "number of runs (overrides config)")
	flag.IntVar(&floors, "floors", 0, "floors per run (overrides config)")
	flag.Int64Var(&seed, "seed", 0, "base seed (overrides config; 0 = random)")
	flag.BoolVar(&list, "list", false, "list stored runs and exit")
	flag.StringVar(&exportRun, "export", "", "print the stored snapshot of a run as YAML and exit")
	flag.StringVar(&importFile, "import", "", "store a YAML snapshot (as written by -export) and exit")
	flag.Parse()

	if err := run(cfgPath, runs, floors, seed, list, exportRun, importFile); err != nil {
		fmt.Fprintln(os.Stderr, "grimdelve:", err)
		os.Exit(1)
	}
}

func run(cfgPath string, runs, floors int, seed int64, list bool, exportRun, importFile string) error {
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		cfgPath = ""
	}
	cfg := config.MustLoadConfig(cfgPath)
	if runs > 0 {
		cfg.Simulation.Runs = runs
	}
	if floors > 0 {
		cfg.Simulation.Floors = floors
	}
	if seed != 0 {
		cfg.Simulation.Seed = seed
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var store *storage.SnapshotStore
	if cfg.Storage.DatabasePath != "" {
		db, err := storage.InitSQLite(cfg.Storage.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()
		store = storage.NewSnapshotStore(db)
	}

	if list || exportRun != "" || importFile != "" {
		if store == nil {
			return fmt.Errorf("storage.database_path is not configured")
		}
		switch {
		case list:
			return listRuns(ctx, store)
		case importFile != "":
			return importSnapshot(ctx, store, importFile)
		default:
			return exportSnapshot(ctx, store, exportRun)
		}
	}

	simulator := sim.New(cfg, sim.MustLoadContent(cfg.Content), logger, store)

	results, err := simulator.RunBatch(ctx, cfg.Simulation.Runs, cfg.Simulation.Seed)
	if err != nil {
		return err
	}
	for _, r := range results {
		status := "survived"
		if r.Wiped {
			status = "wiped"
		}
		fmt.Printf("%s seed=%d floors=%d survivors=%d/%d gold=%d items=%d bosses=%d score=%d %s\n",
			r.RunID, r.Seed, r.FloorsCleared, r.Survivors, r.PartySize, r.Gold, r.Items, r.BossesDefeated, r.Score(), status)
	}
	if len(results) > 1 {
		fmt.Println(sim.Summarize(results))
	}
	return nil
}

func listRuns(ctx context.Context, store *storage.SnapshotStore) error {
	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  opened=%d active_bosses=%d\n",
			r.SavedAt.Format("2006-01-02 15:04:05"), r.RunID, r.OpenedCount, r.ActiveBosses)
	}
	return nil
}

func exportSnapshot(ctx context.Context, store *storage.SnapshotStore, runID string) error {
	snap, err := store.Load(ctx, runID)
	if err != nil {
		return err
	}
	data, err := snap.MarshalYAMLBytes()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func importSnapshot(ctx context.Context, store *storage.SnapshotStore, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	snap, err := store.ImportYAML(ctx, data)
	if err != nil {
		return err
	}
	fmt.Printf("imported %s: opened=%d active_bosses=%d\n", snap.RunID, len(snap.OpenedInstances), len(snap.ActiveBosses))
	return nil
}
