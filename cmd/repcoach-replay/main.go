package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/repcoach/internal/analysis"
	"github.com/claude/repcoach/internal/config"
	"github.com/claude/repcoach/internal/replay"
	"github.com/claude/repcoach/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dir := flag.String("dir", "", "directory of JSONL recordings")
	file := flag.String("file", "", "single JSONL recording")
	exercise := flag.String("exercise", "", "exercise to analyze (e.g. push_ups)")
	dryRun := flag.Bool("dry-run", false, "analyze but don't persist or mark processed")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("repcoach-replay", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *exercise == "" || (*dir == "" && *file == "") {
		fmt.Fprintf(os.Stderr, "Usage: repcoach-replay -exercise <name> (-dir <recordings dir> | -file <recording>) [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Database (skipped in dry-run)
	var db *storage.DB
	if !*dryRun {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		db, err = storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	} else {
		log.Info("DRY RUN mode — recordings will be analyzed but not persisted")
	}

	// State database tracks processed recordings
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	state, err := replay.OpenStateDB(filepath.Join(homeDir, ".repcoach-replay"))
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	processor := replay.NewProcessor(
		analysis.NewEngine(analysis.NewSessionStore(), analysis.NewRegistry(), log),
		log,
	)

	paths, err := collectRecordings(*dir, *file)
	if err != nil {
		log.Error("collecting recordings", "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		log.Info("no recordings found")
		return
	}

	processed, skipped, failed := 0, 0, 0
	for _, path := range paths {
		if err := processOne(processor, state, db, path, *exercise, *dryRun, log); err != nil {
			if err == errAlreadyProcessed {
				skipped++
				continue
			}
			log.Error("replay failed", "path", path, "error", err)
			failed++
			continue
		}
		processed++
	}

	log.Info("replay complete", "processed", processed, "skipped", skipped, "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

var errAlreadyProcessed = fmt.Errorf("already processed")

func processOne(p *replay.Processor, state *replay.StateDB, db *storage.DB, path, exercise string, dryRun bool, log *slog.Logger) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hash, err := replay.HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", path, err)
	}

	done, err := state.IsProcessed(path, info.Size(), hash)
	if err != nil {
		return fmt.Errorf("checking state: %w", err)
	}
	if done {
		log.Info("skipping processed recording", "path", path)
		return errAlreadyProcessed
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := p.Run(f, exercise, "replay:"+filepath.Base(path))
	if err != nil {
		return err
	}

	log.Info("recording analyzed",
		"path", path,
		"reps", result.TotalReps,
		"correct", result.CorrectReps,
		"accuracy", fmt.Sprintf("%.2f", result.AvgAccuracy),
		"calories", fmt.Sprintf("%.1f", result.Calories),
	)

	if dryRun {
		return nil
	}

	_, inserted, err := db.InsertWorkoutSession(context.Background(), result)
	if err != nil {
		return fmt.Errorf("persisting workout: %w", err)
	}
	if !inserted {
		log.Warn("duplicate workout skipped", "path", path)
	}
	return state.MarkProcessed(path, info.Size(), hash, exercise)
}

func collectRecordings(dir, file string) ([]string, error) {
	if file != "" {
		return []string{file}, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".jsonl") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}
