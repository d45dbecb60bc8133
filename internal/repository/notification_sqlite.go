package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/NKavindya/device-mgt-core-sub000/internal/domain"
)

type sqliteNotificationStore struct {
	db *sqlx.DB
}

func (s *sqliteNotificationStore) Begin(ctx context.Context) (NotificationTx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin transaction", 0, err)
	}
	return &sqliteNotificationTx{notificationTx{tx: tx}}, nil
}

func (s *sqliteNotificationStore) Close() error {
	return s.db.Close()
}

type sqliteNotificationTx struct {
	notificationTx
}

func (t *sqliteNotificationTx) InsertNotification(ctx context.Context, n *domain.Notification) (int64, error) {
	query := `
		INSERT INTO notifications (config_id, tenant_id, description, type, priority, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	res, err := t.tx.ExecContext(ctx, query,
		n.ConfigID, n.TenantID, n.Description, n.Type, n.Priority, n.CreatedAt,
	)
	if err != nil {
		return 0, storeErr("insert notification", n.TenantID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeErr("insert notification", n.TenantID, err)
	}

	n.ID = id
	return id, nil
}
