package main

import (
	"context"
	"flag"
	"os"

	"kotd-tracker/internal/config"
	"kotd-tracker/internal/database"
	"kotd-tracker/internal/services"
	"kotd-tracker/internal/snapshot"
	"kotd-tracker/internal/storage"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var exportFile = flag.String("file", "", "path to the legacy export JSON")

// One-time migration of the legacy per-day export into the
// two-collection layout. Idempotent: days already recorded are
// skipped, so a partial run can simply be restarted.
func main() {
	flag.Parse()
	if *exportFile == "" {
		logrus.Fatal("usage: import-legacy -file <export.json>")
	}

	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found")
	}
	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	store := snapshot.NewStore(storage.NewGormStore(db))

	f, err := os.Open(*exportFile)
	if err != nil {
		logrus.WithError(err).Fatal("cannot open export file")
	}
	defer f.Close()

	result, err := services.ImportLegacyExport(context.Background(), store, f)
	if err != nil {
		logrus.WithError(err).Fatal("import failed")
	}
	logrus.WithFields(logrus.Fields{
		"snapshots": result.Snapshots,
		"imported":  result.Imported,
		"skipped":   result.Skipped,
		"items":     result.Items,
	}).Info("legacy import finished")
}
