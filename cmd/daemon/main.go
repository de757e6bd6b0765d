package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kotd-tracker/internal/config"
	"kotd-tracker/internal/database"
	"kotd-tracker/internal/services"
	"kotd-tracker/internal/snapshot"
	"kotd-tracker/internal/storage"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	interval   = flag.Duration("interval", 0, "ingestion check interval (default: FETCH_INTERVAL env or 24h)")
	runOnStart = flag.Bool("run-on-start", true, "attempt one ingestion immediately on startup")
)

// The daemon triggers ingestion on a fixed interval. It never retries
// within a tick: a failed attempt is logged and the next tick
// re-evaluates from scratch, and the store skips days that are already
// recorded.
func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found")
	}
	cfg := config.Load()
	if *interval <= 0 {
		*interval = cfg.FetchInterval
	}

	log := logrus.WithField("component", "daemon")

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}

	store := snapshot.NewStore(storage.NewGormStore(db))
	ingest := services.NewIngestService(services.NewRedditFetcher(cfg.SourcePostURL), store)

	log.WithField("interval", interval.String()).Info("daemon started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	if *runOnStart {
		runOnce(ingest, log)
	}
	for {
		select {
		case <-sigChan:
			log.Info("shutting down")
			return
		case <-ticker.C:
			runOnce(ingest, log)
		}
	}
}

func runOnce(ingest *services.IngestService, log *logrus.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := ingest.Run(ctx)
	if err != nil {
		log.WithError(err).Error("ingestion attempt failed")
		return
	}
	if result.AlreadyRecorded {
		log.WithField("date", result.Date).Info("shop already recorded for today")
		return
	}
	log.WithFields(logrus.Fields{
		"date":    result.Date,
		"items":   result.Items,
		"skipped": result.SkippedRows,
	}).Info("shop ingested")
}
