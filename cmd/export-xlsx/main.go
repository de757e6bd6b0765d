package main

import (
	"context"
	"flag"
	"fmt"

	"kotd-tracker/internal/config"
	"kotd-tracker/internal/database"
	"kotd-tracker/internal/metrics"
	"kotd-tracker/internal/snapshot"
	"kotd-tracker/internal/storage"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

var (
	date    = flag.String("date", "", "snapshot date to export (default: latest recorded)")
	outFile = flag.String("out", "shop.xlsx", "output workbook path")
)

var header = []string{
	"ID", "Name", "Category", "Element", "Req Lv.",
	"Price", "Durability", "Base Damage",
	"Price/Durability", "Price/(Dmg*Dur)", "Damage/Price", "Combat Efficiency",
}

// Exports one day's shop snapshot, including the derived metrics, to
// an Excel workbook. Unknown values stay as empty cells rather than
// zeroes.
func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found")
	}
	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	store := snapshot.NewStore(storage.NewGormStore(db))

	ctx := context.Background()
	exportDate := *date
	if exportDate == "" {
		exportDate, err = store.GetLatestDate(ctx)
		if err != nil {
			logrus.WithError(err).Fatal("cannot resolve latest date")
		}
		if exportDate == "" {
			logrus.Fatal("no data recorded yet")
		}
	}

	records, err := store.GetByDate(ctx, exportDate)
	if err != nil {
		logrus.WithError(err).Fatal("cannot load snapshot")
	}
	if len(records) == 0 {
		logrus.WithField("date", exportDate).Fatal("no data found for that date")
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for col, title := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for i, rec := range records {
		values := []any{
			rec.Item.ID,
			rec.Item.Name,
			string(rec.Item.Category),
			rec.Item.Element,
			int64Cell(rec.Item.ReqLevel),
			floatCell(rec.Observation.Price),
			floatCell(rec.Observation.Durability),
			floatCell(rec.Item.BaseDamage),
			floatCell(metrics.PricePerDurability(rec)),
			floatCell(metrics.PricePerDamageDurability(rec)),
			floatCell(metrics.DamagePerPrice(rec)),
			floatCell(metrics.CombatEfficiency(rec)),
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	if err := f.SaveAs(*outFile); err != nil {
		logrus.WithError(err).Fatal("cannot write workbook")
	}
	fmt.Printf("exported %d items for %s to %s\n", len(records), exportDate, *outFile)
}

func floatCell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func int64Cell(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
