package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/NKavindya/device-mgt-core-sub000/internal/domain"
)

type postgresNotificationStore struct {
	db *sqlx.DB
}

func (s *postgresNotificationStore) Begin(ctx context.Context) (NotificationTx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin transaction", 0, err)
	}
	return &postgresNotificationTx{notificationTx{tx: tx}}, nil
}

func (s *postgresNotificationStore) Close() error {
	return s.db.Close()
}

type postgresNotificationTx struct {
	notificationTx
}

func (t *postgresNotificationTx) InsertNotification(ctx context.Context, n *domain.Notification) (int64, error) {
	query := `
		INSERT INTO notifications (config_id, tenant_id, description, type, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING notification_id`

	var id int64
	err := t.tx.QueryRowxContext(ctx, query,
		n.ConfigID, n.TenantID, n.Description, n.Type, n.Priority, n.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, storeErr("insert notification", n.TenantID, err)
	}

	n.ID = id
	return id, nil
}
