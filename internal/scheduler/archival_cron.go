// Package scheduler wires the archival engine to its periodic trigger.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/NKavindya/device-mgt-core-sub000/internal/config"
	"github.com/NKavindya/device-mgt-core-sub000/internal/service/archival"
)

// StartArchivalJobs schedules the per-tenant archival run and the archive
// retention cleanup. Each tenant runs on its own goroutine; one tenant's
// failure never blocks another's run.
func StartArchivalJobs(cfg *config.Config, engine *archival.Engine) (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc(cfg.ArchivalSchedule, func() {
		for _, tenantID := range cfg.TenantIDs {
			go func(tenantID int) {
				if err := engine.Run(context.Background(), tenantID); err != nil {
					logrus.WithError(err).WithField("tenant", tenantID).Error("archival run failed")
				}
			}(tenantID)
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(cfg.CleanupSchedule, func() {
		for _, tenantID := range cfg.TenantIDs {
			go func(tenantID int) {
				if err := engine.DeleteExpiredArchived(context.Background(), tenantID); err != nil {
					logrus.WithError(err).WithField("tenant", tenantID).Error("archive cleanup failed")
				}
			}(tenantID)
		}
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
