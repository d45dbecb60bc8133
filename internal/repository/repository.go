package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/NKavindya/device-mgt-core-sub000/internal/domain"
)

// NotificationStore is the live-store DAO. Every operation runs inside an
// explicitly opened transaction; callers own the begin/commit/rollback
// sequence and hold at most one open transaction per connection at a time.
type NotificationStore interface {
	Begin(ctx context.Context) (NotificationTx, error)
	Close() error
}

// NotificationTx is one open transaction against the live store.
type NotificationTx interface {
	// InsertNotification stores one notification and returns its store-assigned id.
	InsertNotification(ctx context.Context, n *domain.Notification) (int64, error)
	// InsertUserActions stores one action row per recipient. An empty batch is
	// a no-op, not an error.
	InsertUserActions(ctx context.Context, actions []domain.UserNotificationAction) error

	GetLatestNotifications(ctx context.Context, tenantID, limit, offset int) ([]domain.Notification, error)
	GetNotificationsByIDs(ctx context.Context, tenantID int, ids []int64) ([]domain.Notification, error)
	GetUserActions(ctx context.Context, tenantID int, username string, limit, offset int, status *domain.ActionType) ([]domain.UserNotificationAction, error)
	// UpdateActionStatus sets the user's action rows for the given notification
	// ids to status. Rows already in that status are left untouched, so the
	// UNREAD -> READ transition is once-effective.
	UpdateActionStatus(ctx context.Context, tenantID int, ids []int64, username string, status domain.ActionType) error
	CountUnread(ctx context.Context, tenantID int, username string) (int64, error)
	// DeleteUserNotifications removes the user's action rows for the given
	// notifications and cascades away bodies no recipient still holds.
	DeleteUserNotifications(ctx context.Context, tenantID int, ids []int64, username string) error
	DeleteAllUserNotifications(ctx context.Context, tenantID int, username string) error

	// Archival source side.
	GetArchivableByConfig(ctx context.Context, tenantID, configID int, cutoff time.Time) ([]domain.Notification, error)
	GetArchivableExcluding(ctx context.Context, tenantID int, excludedConfigIDs []int, cutoff time.Time) ([]domain.Notification, error)
	GetActionsByNotificationIDs(ctx context.Context, tenantID int, ids []int64) ([]domain.UserNotificationAction, error)
	DeleteNotificationsByIDs(ctx context.Context, tenantID int, ids []int64) error

	Commit() error
	Rollback() error
}

// ArchiveStore is the DAO bound to the independently-connected archive store.
type ArchiveStore interface {
	Begin(ctx context.Context) (ArchiveTx, error)
	Close() error
}

// ArchiveTx is one open transaction against the archive store.
type ArchiveTx interface {
	// InsertArchivedNotifications inserts rows that are not already archived
	// and returns how many were written. Existing ids are skipped so a partial
	// run can be retried safely.
	InsertArchivedNotifications(ctx context.Context, rows []domain.Notification) (int, error)
	// InsertArchivedActions behaves like InsertArchivedNotifications, keyed on
	// the action id.
	InsertArchivedActions(ctx context.Context, rows []domain.UserNotificationAction) (int, error)
	// DeleteExpired hard-deletes archive rows older than cutoff and returns the
	// number of notifications removed.
	DeleteExpired(ctx context.Context, tenantID int, cutoff time.Time) (int64, error)

	Commit() error
	Rollback() error
}

// NewNotificationStore selects the concrete live-store implementation by the
// connection's driver name.
func NewNotificationStore(db *sqlx.DB) (NotificationStore, error) {
	switch db.DriverName() {
	case "postgres":
		return &postgresNotificationStore{db: db}, nil
	case "sqlite":
		return &sqliteNotificationStore{db: db}, nil
	default:
		return nil, fmt.Errorf("unsupported notification store engine %q", db.DriverName())
	}
}

// NewArchiveStore selects the archive-store implementation by driver name.
// Archived rows keep their source-assigned ids, so both engines share one
// implementation; the factory still guards against unknown drivers.
func NewArchiveStore(db *sqlx.DB) (ArchiveStore, error) {
	switch db.DriverName() {
	case "postgres", "sqlite":
		return &archiveStore{db: db}, nil
	default:
		return nil, fmt.Errorf("unsupported archive store engine %q", db.DriverName())
	}
}

func storeErr(op string, tenantID int, err error) error {
	if err == nil {
		return nil
	}
	return &domain.StoreError{Op: op, TenantID: tenantID, Err: err}
}
