package scheduler

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"dojoku_backend/internals/configs"
	"dojoku_backend/internals/features/finance/billings/service"
)

// StartBillGenScheduler keeps next month's bills pre-generated. The batch
// is idempotent, so running it daily is safe and also self-heals after an
// interrupted run.
func StartBillGenScheduler(db *gorm.DB) {
	go func() {
		interval := time.Duration(configs.GetEnvInt("BILLGEN_INTERVAL_HOURS", 24)) * time.Hour
		svc := service.NewBillGeneratorService(db)

		for {
			month, year := service.NextTarget(time.Now())
			res, err := svc.GenerateForMonth(context.Background(), month, year)
			if err != nil {
				slog.Error("[BILLGEN] batch failed, retrying next cycle",
					"month", month, "year", year, "err", err)
			} else {
				slog.Info("[BILLGEN] batch complete",
					"month", month, "year", year,
					"created", res.Created, "skipped", res.Skipped)
			}
			time.Sleep(interval)
		}
	}()
}
