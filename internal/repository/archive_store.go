package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/NKavindya/device-mgt-core-sub000/internal/domain"
)

type archiveStore struct {
	db *sqlx.DB
}

func (s *archiveStore) Begin(ctx context.Context) (ArchiveTx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin archive transaction", 0, err)
	}
	return &archiveTx{tx: tx}, nil
}

func (s *archiveStore) Close() error {
	return s.db.Close()
}

type archiveTx struct {
	tx *sqlx.Tx
}

func (t *archiveTx) InsertArchivedNotifications(ctx context.Context, rows []domain.Notification) (int, error) {
	existsQuery := t.tx.Rebind(`SELECT COUNT(*) FROM notifications_arch WHERE notification_id = ?`)
	insertQuery := t.tx.Rebind(`
		INSERT INTO notifications_arch (notification_id, config_id, tenant_id, description, type, priority, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	inserted := 0
	for _, n := range rows {
		// Existence check first: a re-run after a partial failure must skip
		// rows the previous attempt already archived.
		var count int
		if err := t.tx.GetContext(ctx, &count, existsQuery, n.ID); err != nil {
			return inserted, storeErr("check archived notification", n.TenantID, err)
		}
		if count > 0 {
			continue
		}

		if _, err := t.tx.ExecContext(ctx, insertQuery,
			n.ID, n.ConfigID, n.TenantID, n.Description, n.Type, n.Priority, n.CreatedAt,
		); err != nil {
			return inserted, storeErr("insert archived notification", n.TenantID, err)
		}
		inserted++
	}
	return inserted, nil
}

func (t *archiveTx) InsertArchivedActions(ctx context.Context, rows []domain.UserNotificationAction) (int, error) {
	existsQuery := t.tx.Rebind(`SELECT COUNT(*) FROM user_notification_actions_arch WHERE action_id = ?`)
	insertQuery := t.tx.Rebind(`
		INSERT INTO user_notification_actions_arch (action_id, notification_id, tenant_id, username, action, action_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	inserted := 0
	for _, a := range rows {
		var count int
		if err := t.tx.GetContext(ctx, &count, existsQuery, a.ID.String()); err != nil {
			return inserted, storeErr("check archived action", a.TenantID, err)
		}
		if count > 0 {
			continue
		}

		if _, err := t.tx.ExecContext(ctx, insertQuery,
			a.ID.String(), a.NotificationID, a.TenantID, a.Username, a.Action, a.ActionAt,
		); err != nil {
			return inserted, storeErr("insert archived action", a.TenantID, err)
		}
		inserted++
	}
	return inserted, nil
}

func (t *archiveTx) DeleteExpired(ctx context.Context, tenantID int, cutoff time.Time) (int64, error) {
	actionQuery := t.tx.Rebind(`
		DELETE FROM user_notification_actions_arch
		WHERE notification_id IN (
			SELECT notification_id FROM notifications_arch
			WHERE tenant_id = ? AND created_at < ?
		)`)
	if _, err := t.tx.ExecContext(ctx, actionQuery, tenantID, cutoff); err != nil {
		return 0, storeErr("delete expired archived actions", tenantID, err)
	}

	query := t.tx.Rebind(`
		DELETE FROM notifications_arch
		WHERE tenant_id = ? AND created_at < ?`)
	res, err := t.tx.ExecContext(ctx, query, tenantID, cutoff)
	if err != nil {
		return 0, storeErr("delete expired archived notifications", tenantID, err)
	}

	deleted, err := res.RowsAffected()
	return deleted, storeErr("delete expired archived notifications", tenantID, err)
}

func (t *archiveTx) Commit() error {
	return t.tx.Commit()
}

func (t *archiveTx) Rollback() error {
	return t.tx.Rollback()
}
