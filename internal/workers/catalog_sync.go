package workers

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/adchat/internal/services"
)

const DefaultCatalogSyncSchedule = "*/30 * * * *"

// CatalogSyncWorker runs the catalog sync on a cron schedule.
type CatalogSyncWorker struct {
	Catalog  services.CatalogService
	Schedule string
	Timeout  time.Duration
	Logger   logrus.FieldLogger

	cron *cron.Cron
}

func (w *CatalogSyncWorker) Start(ctx context.Context) error {
	if w.Catalog == nil {
		return errors.New("CatalogSyncWorker missing dependency: Catalog must be set")
	}
	if w.Schedule == "" {
		w.Schedule = DefaultCatalogSyncSchedule
	}
	if w.Timeout <= 0 {
		w.Timeout = 2 * time.Minute
	}
	if w.Logger == nil {
		w.Logger = logrus.New()
	}

	w.cron = cron.New(cron.WithLocation(time.UTC))
	if _, err := w.cron.AddFunc(w.Schedule, func() { w.runOnce(ctx) }); err != nil {
		return err
	}
	w.cron.Start()
	w.Logger.WithField("schedule", w.Schedule).Info("catalog sync scheduled")
	return nil
}

func (w *CatalogSyncWorker) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
}

func (w *CatalogSyncWorker) runOnce(parent context.Context) {
	if parent.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(parent, w.Timeout)
	defer cancel()

	n, err := w.Catalog.Sync(ctx)
	if err != nil {
		w.Logger.WithError(err).Error("scheduled catalog sync failed")
		return
	}
	w.Logger.WithField("products", n).Debug("scheduled catalog sync done")
}
