package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/NKavindya/device-mgt-core-sub000/internal/domain"
	"github.com/NKavindya/device-mgt-core-sub000/internal/repository"
)

const tenantID = 1

// newStore opens a live store on an in-memory database. Each sqlite connection
// gets its own in-memory database, so the pool is pinned to one connection.
func newStore(t *testing.T) repository.NotificationStore {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	require.NoError(t, repository.InitSchema(db))

	store, err := repository.NewNotificationStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// insert stores one notification with one UNREAD action per username, in its
// own committed transaction.
func insert(t *testing.T, store repository.NotificationStore, description string, createdAt time.Time, usernames ...string) int64 {
	t.Helper()
	ctx := context.Background()

	tx, err := store.Begin(ctx)
	require.NoError(t, err)

	id, err := tx.InsertNotification(ctx, &domain.Notification{
		TenantID:    tenantID,
		Description: description,
		Type:        "OPERATION",
		Priority:    "NORMAL",
		CreatedAt:   createdAt,
	})
	require.NoError(t, err)

	actions := make([]domain.UserNotificationAction, 0, len(usernames))
	for _, username := range usernames {
		actions = append(actions, domain.UserNotificationAction{
			ID:             uuid.New(),
			NotificationID: id,
			TenantID:       tenantID,
			Username:       username,
			Action:         domain.ActionUnread,
			ActionAt:       createdAt,
		})
	}
	require.NoError(t, tx.InsertUserActions(ctx, actions))
	require.NoError(t, tx.Commit())
	return id
}

func inTx(t *testing.T, store repository.NotificationStore, fn func(tx repository.NotificationTx)) {
	t.Helper()
	tx, err := store.Begin(context.Background())
	require.NoError(t, err)
	fn(tx)
	require.NoError(t, tx.Commit())
}

func TestNotificationTx_InsertAndList(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	base := time.Now().UTC().Truncate(time.Second)
	first := insert(t, store, "first", base.Add(-2*time.Hour), "alice")
	second := insert(t, store, "second", base.Add(-time.Hour), "alice", "bob")
	third := insert(t, store, "third", base, "bob")

	t.Run("LatestOrdersByCreationDescending", func(t *testing.T) {
		inTx(t, store, func(tx repository.NotificationTx) {
			rows, err := tx.GetLatestNotifications(ctx, tenantID, 10, 0)
			require.NoError(t, err)
			require.Len(t, rows, 3)
			assert.Equal(t, []int64{third, second, first}, []int64{rows[0].ID, rows[1].ID, rows[2].ID})
		})
	})

	t.Run("LatestHonorsLimitAndOffset", func(t *testing.T) {
		inTx(t, store, func(tx repository.NotificationTx) {
			rows, err := tx.GetLatestNotifications(ctx, tenantID, 1, 1)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, second, rows[0].ID)
		})
	})

	t.Run("ByIDsScopedToTenant", func(t *testing.T) {
		inTx(t, store, func(tx repository.NotificationTx) {
			rows, err := tx.GetNotificationsByIDs(ctx, tenantID, []int64{first, third})
			require.NoError(t, err)
			assert.Len(t, rows, 2)

			rows, err = tx.GetNotificationsByIDs(ctx, 99, []int64{first})
			require.NoError(t, err)
			assert.Empty(t, rows)
		})
	})

	t.Run("EmptyIDListIsNoOp", func(t *testing.T) {
		inTx(t, store, func(tx repository.NotificationTx) {
			rows, err := tx.GetNotificationsByIDs(ctx, tenantID, nil)
			require.NoError(t, err)
			assert.Empty(t, rows)
			require.NoError(t, tx.InsertUserActions(ctx, nil))
		})
	})
}

func TestNotificationTx_ReadState(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	first := insert(t, store, "first", now.Add(-2*time.Hour), "alice")
	second := insert(t, store, "second", now.Add(-time.Hour), "alice")
	insert(t, store, "third", now, "bob")

	t.Run("CountsOnlyOwnUnread", func(t *testing.T) {
		inTx(t, store, func(tx repository.NotificationTx) {
			count, err := tx.CountUnread(ctx, tenantID, "alice")
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
		})
	})

	t.Run("MarkReadIsOnceEffective", func(t *testing.T) {
		inTx(t, store, func(tx repository.NotificationTx) {
			require.NoError(t, tx.UpdateActionStatus(ctx, tenantID, []int64{first}, "alice", domain.ActionRead))
		})

		var firstReadAt time.Time
		inTx(t, store, func(tx repository.NotificationTx) {
			actions, err := tx.GetUserActions(ctx, tenantID, "alice", 10, 0, nil)
			require.NoError(t, err)
			for _, a := range actions {
				if a.NotificationID == first {
					assert.Equal(t, domain.ActionRead, a.Action)
					firstReadAt = a.ActionAt
				}
			}
		})

		// Repeating the call leaves the already-read row untouched.
		inTx(t, store, func(tx repository.NotificationTx) {
			require.NoError(t, tx.UpdateActionStatus(ctx, tenantID, []int64{first}, "alice", domain.ActionRead))
		})
		inTx(t, store, func(tx repository.NotificationTx) {
			actions, err := tx.GetUserActions(ctx, tenantID, "alice", 10, 0, nil)
			require.NoError(t, err)
			for _, a := range actions {
				if a.NotificationID == first {
					assert.Equal(t, firstReadAt, a.ActionAt)
				}
			}
			count, err := tx.CountUnread(ctx, tenantID, "alice")
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})
	})

	t.Run("StatusFilter", func(t *testing.T) {
		unread := domain.ActionUnread
		inTx(t, store, func(tx repository.NotificationTx) {
			actions, err := tx.GetUserActions(ctx, tenantID, "alice", 10, 0, &unread)
			require.NoError(t, err)
			require.Len(t, actions, 1)
			assert.Equal(t, second, actions[0].NotificationID)
		})
	})

	t.Run("EmptyIDListIsNoOp", func(t *testing.T) {
		inTx(t, store, func(tx repository.NotificationTx) {
			require.NoError(t, tx.UpdateActionStatus(ctx, tenantID, nil, "alice", domain.ActionRead))
		})
	})
}

func TestNotificationTx_DeleteUserNotifications(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	shared := insert(t, store, "shared", now.Add(-time.Hour), "alice", "bob")
	own := insert(t, store, "own", now, "alice")

	inTx(t, store, func(tx repository.NotificationTx) {
		require.NoError(t, tx.DeleteUserNotifications(ctx, tenantID, []int64{shared, own}, "alice"))
	})

	inTx(t, store, func(tx repository.NotificationTx) {
		// Alice's action rows are gone.
		actions, err := tx.GetUserActions(ctx, tenantID, "alice", 10, 0, nil)
		require.NoError(t, err)
		assert.Empty(t, actions)

		// The shared body survives because bob still holds it; the sole-owner
		// body is cascaded away.
		rows, err := tx.GetNotificationsByIDs(ctx, tenantID, []int64{shared, own})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, shared, rows[0].ID)

		count, err := tx.CountUnread(ctx, tenantID, "bob")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestNotificationTx_DeleteAllUserNotifications(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	insert(t, store, "first", now.Add(-time.Hour), "alice")
	shared := insert(t, store, "second", now, "alice", "bob")

	inTx(t, store, func(tx repository.NotificationTx) {
		require.NoError(t, tx.DeleteAllUserNotifications(ctx, tenantID, "alice"))
	})

	inTx(t, store, func(tx repository.NotificationTx) {
		count, err := tx.CountUnread(ctx, tenantID, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		rows, err := tx.GetLatestNotifications(ctx, tenantID, 10, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, shared, rows[0].ID)
	})

	t.Run("NoRowsIsNoOp", func(t *testing.T) {
		inTx(t, store, func(tx repository.NotificationTx) {
			require.NoError(t, tx.DeleteAllUserNotifications(ctx, tenantID, "alice"))
		})
	})
}

func TestNotificationTx_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.InsertNotification(ctx, &domain.Notification{
		TenantID:    tenantID,
		Description: "discarded",
		CreatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	inTx(t, store, func(tx repository.NotificationTx) {
		rows, err := tx.GetLatestNotifications(ctx, tenantID, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
