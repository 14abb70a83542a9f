// billgen runs one bill-generation batch and exits.
//
//	billgen --month 2 --year 2026
//
// Without flags the target is next calendar month. Exit status is 0 on
// success (including "nothing to do"), nonzero on any persistence error.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"dojoku_backend/internals/configs"
	database "dojoku_backend/internals/databases"
	"dojoku_backend/internals/features/finance/billings/service"
	"dojoku_backend/internals/observability"
)

func main() {
	month := flag.Int("month", 0, "target month (1..12), default next month")
	year := flag.Int("year", 0, "target year (YYYY), default next month's year")
	flag.Parse()

	observability.SetupLogging()
	configs.LoadEnv()
	database.ConnectDB()

	m, y := *month, *year
	if m == 0 || y == 0 {
		m, y = service.NextTarget(time.Now())
	}

	svc := service.NewBillGeneratorService(database.DB)
	res, err := svc.GenerateForMonth(context.Background(), m, y)
	if err != nil {
		slog.Error("billgen failed", "month", m, "year", y, "err", err)
		os.Exit(1)
	}
	slog.Info("billgen done",
		"month", m, "year", y, "created", res.Created, "skipped", res.Skipped)
}
