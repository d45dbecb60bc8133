package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/NKavindya/device-mgt-core-sub000/internal/domain"
)

// notificationTx carries every live-store operation whose SQL is identical
// across engines. Queries are written with ? placeholders and rebound for the
// active driver. The engine-specific stores add InsertNotification, where
// id-returning mechanics differ.
type notificationTx struct {
	tx *sqlx.Tx
}

func (t *notificationTx) InsertUserActions(ctx context.Context, actions []domain.UserNotificationAction) error {
	if len(actions) == 0 {
		return nil
	}

	query := t.tx.Rebind(`
		INSERT INTO user_notification_actions (action_id, notification_id, tenant_id, username, action, action_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	for _, a := range actions {
		if _, err := t.tx.ExecContext(ctx, query,
			a.ID.String(), a.NotificationID, a.TenantID, a.Username, a.Action, a.ActionAt,
		); err != nil {
			return storeErr("insert user actions", a.TenantID, err)
		}
	}
	return nil
}

func (t *notificationTx) GetLatestNotifications(ctx context.Context, tenantID, limit, offset int) ([]domain.Notification, error) {
	var notifications []domain.Notification
	query := t.tx.Rebind(`
		SELECT * FROM notifications
		WHERE tenant_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`)

	err := t.tx.SelectContext(ctx, &notifications, query, tenantID, limit, offset)
	return notifications, storeErr("get latest notifications", tenantID, err)
}

func (t *notificationTx) GetNotificationsByIDs(ctx context.Context, tenantID int, ids []int64) ([]domain.Notification, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT * FROM notifications
		WHERE tenant_id = ? AND notification_id IN (?)`, tenantID, ids)
	if err != nil {
		return nil, storeErr("get notifications by ids", tenantID, err)
	}

	var notifications []domain.Notification
	err = t.tx.SelectContext(ctx, &notifications, t.tx.Rebind(query), args...)
	return notifications, storeErr("get notifications by ids", tenantID, err)
}

func (t *notificationTx) GetUserActions(ctx context.Context, tenantID int, username string, limit, offset int, status *domain.ActionType) ([]domain.UserNotificationAction, error) {
	query := `
		SELECT * FROM user_notification_actions
		WHERE tenant_id = ? AND username = ?`
	args := []interface{}{tenantID, username}

	if status != nil {
		query += ` AND action = ?`
		args = append(args, *status)
	}

	query += ` ORDER BY action_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var actions []domain.UserNotificationAction
	err := t.tx.SelectContext(ctx, &actions, t.tx.Rebind(query), args...)
	return actions, storeErr("get user actions", tenantID, err)
}

func (t *notificationTx) UpdateActionStatus(ctx context.Context, tenantID int, ids []int64, username string, status domain.ActionType) error {
	if len(ids) == 0 {
		return nil
	}

	// Rows already in the target status are excluded, so repeating the call
	// changes nothing.
	query, args, err := sqlx.In(`
		UPDATE user_notification_actions
		SET action = ?, action_at = ?
		WHERE tenant_id = ? AND username = ? AND notification_id IN (?) AND action <> ?`,
		status, time.Now().UTC(), tenantID, username, ids, status)
	if err != nil {
		return storeErr("update action status", tenantID, err)
	}

	_, err = t.tx.ExecContext(ctx, t.tx.Rebind(query), args...)
	return storeErr("update action status", tenantID, err)
}

func (t *notificationTx) CountUnread(ctx context.Context, tenantID int, username string) (int64, error) {
	var count int64
	query := t.tx.Rebind(`
		SELECT COUNT(*) FROM user_notification_actions
		WHERE tenant_id = ? AND username = ? AND action = ?`)

	err := t.tx.GetContext(ctx, &count, query, tenantID, username, domain.ActionUnread)
	return count, storeErr("count unread", tenantID, err)
}

func (t *notificationTx) DeleteUserNotifications(ctx context.Context, tenantID int, ids []int64, username string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`
		DELETE FROM user_notification_actions
		WHERE tenant_id = ? AND username = ? AND notification_id IN (?)`,
		tenantID, username, ids)
	if err != nil {
		return storeErr("delete user notifications", tenantID, err)
	}
	if _, err := t.tx.ExecContext(ctx, t.tx.Rebind(query), args...); err != nil {
		return storeErr("delete user notifications", tenantID, err)
	}

	return t.deleteOrphanBodies(ctx, tenantID, ids)
}

func (t *notificationTx) DeleteAllUserNotifications(ctx context.Context, tenantID int, username string) error {
	var ids []int64
	query := t.tx.Rebind(`
		SELECT notification_id FROM user_notification_actions
		WHERE tenant_id = ? AND username = ?`)
	if err := t.tx.SelectContext(ctx, &ids, query, tenantID, username); err != nil {
		return storeErr("delete all user notifications", tenantID, err)
	}
	if len(ids) == 0 {
		return nil
	}

	return t.DeleteUserNotifications(ctx, tenantID, ids, username)
}

// deleteOrphanBodies removes notification bodies no recipient still holds an
// action row for. Bodies are otherwise immutable and owned by archival.
func (t *notificationTx) deleteOrphanBodies(ctx context.Context, tenantID int, ids []int64) error {
	query, args, err := sqlx.In(`
		DELETE FROM notifications
		WHERE tenant_id = ? AND notification_id IN (?)
		  AND NOT EXISTS (
			SELECT 1 FROM user_notification_actions a
			WHERE a.notification_id = notifications.notification_id
		  )`, tenantID, ids)
	if err != nil {
		return storeErr("delete orphan notifications", tenantID, err)
	}

	_, err = t.tx.ExecContext(ctx, t.tx.Rebind(query), args...)
	return storeErr("delete orphan notifications", tenantID, err)
}

func (t *notificationTx) GetArchivableByConfig(ctx context.Context, tenantID, configID int, cutoff time.Time) ([]domain.Notification, error) {
	var notifications []domain.Notification
	query := t.tx.Rebind(`
		SELECT * FROM notifications
		WHERE tenant_id = ? AND config_id = ? AND created_at < ?
		ORDER BY notification_id`)

	err := t.tx.SelectContext(ctx, &notifications, query, tenantID, configID, cutoff)
	return notifications, storeErr("get archivable by config", tenantID, err)
}

func (t *notificationTx) GetArchivableExcluding(ctx context.Context, tenantID int, excludedConfigIDs []int, cutoff time.Time) ([]domain.Notification, error) {
	var notifications []domain.Notification

	if len(excludedConfigIDs) == 0 {
		query := t.tx.Rebind(`
			SELECT * FROM notifications
			WHERE tenant_id = ? AND created_at < ?
			ORDER BY notification_id`)
		err := t.tx.SelectContext(ctx, &notifications, query, tenantID, cutoff)
		return notifications, storeErr("get archivable excluding configs", tenantID, err)
	}

	query, args, err := sqlx.In(`
		SELECT * FROM notifications
		WHERE tenant_id = ? AND created_at < ?
		  AND (config_id IS NULL OR config_id NOT IN (?))
		ORDER BY notification_id`, tenantID, cutoff, excludedConfigIDs)
	if err != nil {
		return nil, storeErr("get archivable excluding configs", tenantID, err)
	}

	err = t.tx.SelectContext(ctx, &notifications, t.tx.Rebind(query), args...)
	return notifications, storeErr("get archivable excluding configs", tenantID, err)
}

func (t *notificationTx) GetActionsByNotificationIDs(ctx context.Context, tenantID int, ids []int64) ([]domain.UserNotificationAction, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT * FROM user_notification_actions
		WHERE tenant_id = ? AND notification_id IN (?)`, tenantID, ids)
	if err != nil {
		return nil, storeErr("get actions by notification ids", tenantID, err)
	}

	var actions []domain.UserNotificationAction
	err = t.tx.SelectContext(ctx, &actions, t.tx.Rebind(query), args...)
	return actions, storeErr("get actions by notification ids", tenantID, err)
}

func (t *notificationTx) DeleteNotificationsByIDs(ctx context.Context, tenantID int, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`
		DELETE FROM user_notification_actions
		WHERE tenant_id = ? AND notification_id IN (?)`, tenantID, ids)
	if err != nil {
		return storeErr("delete notifications", tenantID, err)
	}
	if _, err := t.tx.ExecContext(ctx, t.tx.Rebind(query), args...); err != nil {
		return storeErr("delete notifications", tenantID, err)
	}

	query, args, err = sqlx.In(`
		DELETE FROM notifications
		WHERE tenant_id = ? AND notification_id IN (?)`, tenantID, ids)
	if err != nil {
		return storeErr("delete notifications", tenantID, err)
	}
	_, err = t.tx.ExecContext(ctx, t.tx.Rebind(query), args...)
	return storeErr("delete notifications", tenantID, err)
}

func (t *notificationTx) Commit() error {
	return t.tx.Commit()
}

func (t *notificationTx) Rollback() error {
	return t.tx.Rollback()
}
