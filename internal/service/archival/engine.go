// Package archival moves aged notifications from the live store to the
// independently-connected archive store.
package archival

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NKavindya/device-mgt-core-sub000/internal/configstore"
	"github.com/NKavindya/device-mgt-core-sub000/internal/domain"
	"github.com/NKavindya/device-mgt-core-sub000/internal/repository"
)

// Engine runs the per-tenant move-then-delete pipeline. The two stores
// cannot share one atomic commit, so a run is a saga: archive inserts are
// idempotent (existence-checked) and the destination commits before the
// source delete does — a partial failure leaves duplicates, never lost rows,
// and the whole tenant run is retried as a unit.
type Engine struct {
	source            repository.NotificationStore
	archive           repository.ArchiveStore
	configs           configstore.Store
	fallbackRetention time.Duration
	archiveRetention  time.Duration
}

func NewEngine(
	source repository.NotificationStore,
	archive repository.ArchiveStore,
	configs configstore.Store,
	archiveRetention time.Duration,
) *Engine {
	return &Engine{
		source:            source,
		archive:           archive,
		configs:           configs,
		fallbackRetention: domain.DefaultRetention,
		archiveRetention:  archiveRetention,
	}
}

// Run executes one archival run for one tenant. Any failure rolls back both
// sides and surfaces a single ArchivalError.
func (e *Engine) Run(ctx context.Context, tenantID int) error {
	log := logrus.WithField("tenant", tenantID)

	doc, err := e.configs.GetConfigList(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, domain.ErrConfigNotFound) {
			return &domain.ArchivalError{TenantID: tenantID, Err: err}
		}
		log.Info("no routing configuration, running default sweep only")
		doc = nil
	}

	srcTx, err := e.source.Begin(ctx)
	if err != nil {
		return &domain.ArchivalError{TenantID: tenantID, Err: err}
	}
	dstTx, err := e.archive.Begin(ctx)
	if err != nil {
		rollbackSource(srcTx, log)
		return &domain.ArchivalError{TenantID: tenantID, Err: err}
	}

	if err := e.run(ctx, tenantID, doc, srcTx, dstTx, log); err != nil {
		rollbackSource(srcTx, log)
		rollbackArchive(dstTx, log)
		return &domain.ArchivalError{TenantID: tenantID, Err: err}
	}

	// The destination commits first: under partial failure a row may exist
	// in both stores, and the next run's existence check skips it.
	if err := dstTx.Commit(); err != nil {
		rollbackSource(srcTx, log)
		return &domain.ArchivalError{TenantID: tenantID, Err: fmt.Errorf("commit archive store: %w", err)}
	}
	if err := srcTx.Commit(); err != nil {
		return &domain.ArchivalError{TenantID: tenantID, Err: fmt.Errorf("commit live store: %w", err)}
	}
	return nil
}

func (e *Engine) run(ctx context.Context, tenantID int, doc *domain.NotificationConfigDocument, srcTx repository.NotificationTx, dstTx repository.ArchiveTx, log *logrus.Entry) error {
	now := time.Now().UTC()

	// Config ids with an archive policy of their own never reach the default
	// sweep: "time" rules are moved here, "delete" rules belong to a separate
	// deletion-only policy and are not moved at all.
	var excluded []int

	if doc != nil {
		for i := range doc.Configurations {
			cfg := &doc.Configurations[i]
			switch strings.ToLower(cfg.Settings.ArchiveType) {
			case domain.ArchiveTypeTime:
				cutoff := now.Add(-e.retention(cfg.Settings.ArchiveAfter, log))
				rows, err := srcTx.GetArchivableByConfig(ctx, tenantID, cfg.ID, cutoff)
				if err != nil {
					return err
				}
				if err := e.move(ctx, tenantID, rows, srcTx, dstTx); err != nil {
					return err
				}
				if len(rows) > 0 {
					log.WithFields(logrus.Fields{"config": cfg.ID, "moved": len(rows)}).Info("archived notifications for config")
				}
				excluded = append(excluded, cfg.ID)
			case domain.ArchiveTypeDelete:
				excluded = append(excluded, cfg.ID)
			}
		}
	}

	defaultType := domain.ArchiveTypeTime
	defaultAfter := ""
	if doc != nil {
		if doc.DefaultArchiveType != "" {
			defaultType = doc.DefaultArchiveType
		}
		defaultAfter = doc.DefaultArchiveAfter
	}
	if !strings.EqualFold(defaultType, domain.ArchiveTypeTime) {
		log.WithField("default_archive_type", defaultType).Info("default policy is not time-based, skipping sweep")
		return nil
	}

	cutoff := now.Add(-e.retention(defaultAfter, log))
	rows, err := srcTx.GetArchivableExcluding(ctx, tenantID, excluded, cutoff)
	if err != nil {
		return err
	}
	if err := e.move(ctx, tenantID, rows, srcTx, dstTx); err != nil {
		return err
	}
	if len(rows) > 0 {
		log.WithField("moved", len(rows)).Info("archived notifications by default policy")
	}
	return nil
}

// move archives one batch: insert bodies and action rows into the
// destination, then delete them from the source. The source delete only
// becomes durable when the run commits, after the destination has.
func (e *Engine) move(ctx context.Context, tenantID int, rows []domain.Notification, srcTx repository.NotificationTx, dstTx repository.ArchiveTx) error {
	if len(rows) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(rows))
	for _, n := range rows {
		ids = append(ids, n.ID)
	}

	if _, err := dstTx.InsertArchivedNotifications(ctx, rows); err != nil {
		return err
	}

	actions, err := srcTx.GetActionsByNotificationIDs(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	if _, err := dstTx.InsertArchivedActions(ctx, actions); err != nil {
		return err
	}

	return srcTx.DeleteNotificationsByIDs(ctx, tenantID, ids)
}

// DeleteExpiredArchived hard-deletes archive rows past the long retention
// cutoff. It runs in its own destination-only transaction and fails
// independently of the move pipeline.
func (e *Engine) DeleteExpiredArchived(ctx context.Context, tenantID int) error {
	log := logrus.WithField("tenant", tenantID)

	tx, err := e.archive.Begin(ctx)
	if err != nil {
		return fmt.Errorf("archive cleanup for tenant %d: %w", tenantID, err)
	}

	cutoff := time.Now().UTC().Add(-e.archiveRetention)
	deleted, err := tx.DeleteExpired(ctx, tenantID, cutoff)
	if err != nil {
		rollbackArchive(tx, log)
		return fmt.Errorf("archive cleanup for tenant %d: %w", tenantID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("archive cleanup for tenant %d: %w", tenantID, err)
	}

	if deleted > 0 {
		log.WithField("deleted", deleted).Info("purged expired archived notifications")
	}
	return nil
}

// retention resolves an "<N> <unit>" duration. An unset value silently uses
// the fallback; an unparsable one is logged and falls back rather than
// aborting the run.
func (e *Engine) retention(s string, log *logrus.Entry) time.Duration {
	if s == "" {
		return e.fallbackRetention
	}
	d, err := domain.ParseRetention(s)
	if err != nil {
		log.WithError(err).WithField("archive_after", s).Warn("unparsable archive duration, using fallback")
		return e.fallbackRetention
	}
	return d
}

func rollbackSource(tx repository.NotificationTx, log *logrus.Entry) {
	if err := tx.Rollback(); err != nil {
		log.WithError(err).Warn("live store rollback failed")
	}
}

func rollbackArchive(tx repository.ArchiveTx, log *logrus.Entry) {
	if err := tx.Rollback(); err != nil {
		log.WithError(err).Warn("archive store rollback failed")
	}
}
