package archival_test

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
	"github.com/NKavindya/device-mgt-core-sub000/internal/mocks"
	"github.com/NKavindya/device-mgt-core-sub000/internal/repository"
	"github.com/NKavindya/device-mgt-core-sub000/internal/service/archival"
)

const tenantID = 1

// newDB opens an in-memory store. Each sqlite connection gets its own
// in-memory database, so the pool is pinned to a single connection.
func newDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	require.NoError(t, repository.InitSchema(db))
	t.Cleanup(func() { db.Close() })
	return db
}

type engineFixture struct {
	liveDB  *sqlx.DB
	archDB  *sqlx.DB
	live    repository.NotificationStore
	archive repository.ArchiveStore
	configs *mocks.ConfigStore
	engine  *archival.Engine
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	f := &engineFixture{
		liveDB:  newDB(t),
		archDB:  newDB(t),
		configs: new(mocks.ConfigStore),
	}

	var err error
	f.live, err = repository.NewNotificationStore(f.liveDB)
	require.NoError(t, err)
	f.archive, err = repository.NewArchiveStore(f.archDB)
	require.NoError(t, err)

	f.engine = archival.NewEngine(f.live, f.archive, f.configs, 365*24*time.Hour)
	return f
}

// seed inserts one notification with one UNREAD action per username and
// returns the stored row and its actions.
func (f *engineFixture) seed(t *testing.T, configID *int, age time.Duration, usernames ...string) (domain.Notification, []domain.UserNotificationAction) {
	t.Helper()
	ctx := context.Background()

	tx, err := f.live.Begin(ctx)
	require.NoError(t, err)

	createdAt := time.Now().UTC().Add(-age)
	n := domain.Notification{
		ConfigID:    configID,
		TenantID:    tenantID,
		Description: "device rebooted",
		Type:        "OPERATION",
		Priority:    "NORMAL",
		CreatedAt:   createdAt,
	}
	id, err := tx.InsertNotification(ctx, &n)
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
	return n, actions
}

func (f *engineFixture) liveIDs(t *testing.T) []int64 {
	t.Helper()
	var ids []int64
	require.NoError(t, f.liveDB.Select(&ids, `SELECT notification_id FROM notifications ORDER BY notification_id`))
	return ids
}

func (f *engineFixture) archivedRows(t *testing.T) []domain.Notification {
	t.Helper()
	var rows []domain.Notification
	require.NoError(t, f.archDB.Select(&rows, `SELECT * FROM notifications_arch ORDER BY notification_id`))
	return rows
}

func (f *engineFixture) archivedActionCount(t *testing.T) int {
	t.Helper()
	var count int
	require.NoError(t, f.archDB.Get(&count, `SELECT COUNT(*) FROM user_notification_actions_arch`))
	return count
}

func intPtr(v int) *int { return &v }

func TestEngine_Run_MovesAgedNotifications(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)

	f.configs.On("GetConfigList", ctx, tenantID).Return(&domain.NotificationConfigDocument{
		Configurations: []domain.NotificationConfig{{
			ID:   1,
			Code: "REBOOT",
			Settings: domain.NotificationSettings{
				ArchiveType:  domain.ArchiveTypeTime,
				ArchiveAfter: "7 days",
			},
		}},
	}, nil)

	aged, agedActions := f.seed(t, intPtr(1), 10*24*time.Hour, "alice", "bob")
	fresh, _ := f.seed(t, intPtr(1), 24*time.Hour, "alice")
	// Rows without a config fall to the default sweep and its 30-day fallback.
	loose, _ := f.seed(t, nil, 40*24*time.Hour, "alice")
	looseFresh, _ := f.seed(t, nil, 10*24*time.Hour, "alice")

	require.NoError(t, f.engine.Run(ctx, tenantID))

	assert.Equal(t, []int64{fresh.ID, looseFresh.ID}, f.liveIDs(t))

	archived := f.archivedRows(t)
	require.Len(t, archived, 2)
	assert.Equal(t, aged.ID, archived[0].ID)
	assert.Equal(t, loose.ID, archived[1].ID)
	assert.Equal(t, 3, f.archivedActionCount(t))

	// The moved row keeps its identity and content.
	got := archived[0]
	require.NotNil(t, got.ConfigID)
	assert.Equal(t, 1, *got.ConfigID)
	assert.Equal(t, tenantID, got.TenantID)
	assert.Equal(t, aged.Description, got.Description)
	assert.Equal(t, aged.Type, got.Type)
	assert.Equal(t, aged.Priority, got.Priority)
	assert.WithinDuration(t, aged.CreatedAt, got.CreatedAt, time.Second)

	var archivedActions []domain.UserNotificationAction
	require.NoError(t, f.archDB.Select(&archivedActions,
		`SELECT * FROM user_notification_actions_arch WHERE notification_id = ? ORDER BY username`, aged.ID))
	require.Len(t, archivedActions, 2)
	assert.Equal(t, agedActions[0].ID, archivedActions[0].ID)
	assert.Equal(t, "alice", archivedActions[0].Username)
	assert.Equal(t, domain.ActionUnread, archivedActions[0].Action)
}

func TestEngine_Run_ReRunAfterPartialFailureSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)

	f.configs.On("GetConfigList", ctx, tenantID).Return(nil, domain.ErrConfigNotFound)

	aged, actions := f.seed(t, nil, 40*24*time.Hour, "alice")

	// Simulate a previous run that committed the archive side but not the
	// source delete.
	tx, err := f.archive.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.InsertArchivedNotifications(ctx, []domain.Notification{aged})
	require.NoError(t, err)
	_, err = tx.InsertArchivedActions(ctx, actions)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	require.NoError(t, f.engine.Run(ctx, tenantID))

	assert.Empty(t, f.liveIDs(t))
	assert.Len(t, f.archivedRows(t), 1)
	assert.Equal(t, 1, f.archivedActionCount(t))
}

func TestEngine_Run_DeleteTypeConfigsAreNotMoved(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)

	f.configs.On("GetConfigList", ctx, tenantID).Return(&domain.NotificationConfigDocument{
		Configurations: []domain.NotificationConfig{{
			ID:       2,
			Code:     "WIPE",
			Settings: domain.NotificationSettings{ArchiveType: domain.ArchiveTypeDelete},
		}},
	}, nil)

	kept, _ := f.seed(t, intPtr(2), 90*24*time.Hour, "alice")
	loose, _ := f.seed(t, nil, 40*24*time.Hour, "alice")

	require.NoError(t, f.engine.Run(ctx, tenantID))

	// The delete-policy row is excluded from the sweep no matter its age.
	assert.Equal(t, []int64{kept.ID}, f.liveIDs(t))
	archived := f.archivedRows(t)
	require.Len(t, archived, 1)
	assert.Equal(t, loose.ID, archived[0].ID)
}

func TestEngine_Run_NonTimeDefaultSkipsSweep(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)

	f.configs.On("GetConfigList", ctx, tenantID).Return(&domain.NotificationConfigDocument{
		DefaultArchiveType: "none",
	}, nil)

	aged, _ := f.seed(t, nil, 400*24*time.Hour, "alice")

	require.NoError(t, f.engine.Run(ctx, tenantID))

	assert.Equal(t, []int64{aged.ID}, f.liveIDs(t))
	assert.Empty(t, f.archivedRows(t))
}

func TestEngine_Run_MissingConfigDocRunsDefaultSweep(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)

	f.configs.On("GetConfigList", ctx, tenantID).Return(nil, domain.ErrConfigNotFound)

	aged, _ := f.seed(t, nil, 40*24*time.Hour, "alice")
	fresh, _ := f.seed(t, nil, 24*time.Hour, "alice")

	require.NoError(t, f.engine.Run(ctx, tenantID))

	assert.Equal(t, []int64{fresh.ID}, f.liveIDs(t))
	archived := f.archivedRows(t)
	require.Len(t, archived, 1)
	assert.Equal(t, aged.ID, archived[0].ID)
}

func TestEngine_Run_UnparsableRetentionFallsBack(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)

	f.configs.On("GetConfigList", ctx, tenantID).Return(&domain.NotificationConfigDocument{
		Configurations: []domain.NotificationConfig{
			{ID: 1, Code: "REBOOT", Settings: domain.NotificationSettings{ArchiveType: domain.ArchiveTypeTime, ArchiveAfter: "7 days"}},
			{ID: 2, Code: "ENROLL", Settings: domain.NotificationSettings{ArchiveType: domain.ArchiveTypeTime, ArchiveAfter: "soonish"}},
		},
	}, nil)

	moved, _ := f.seed(t, intPtr(1), 10*24*time.Hour, "alice")
	// Ten days is inside the 30-day fallback the broken value resolves to.
	kept, _ := f.seed(t, intPtr(2), 10*24*time.Hour, "alice")

	require.NoError(t, f.engine.Run(ctx, tenantID))

	assert.Equal(t, []int64{kept.ID}, f.liveIDs(t))
	archived := f.archivedRows(t)
	require.Len(t, archived, 1)
	assert.Equal(t, moved.ID, archived[0].ID)
}

func TestEngine_DeleteExpiredArchived(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)

	f.configs.On("GetConfigList", ctx, tenantID).Return(nil, domain.ErrConfigNotFound)

	// Move everything into the archive, then age-gate the purge.
	expired, _ := f.seed(t, nil, 400*24*time.Hour, "alice")
	recent, _ := f.seed(t, nil, 40*24*time.Hour, "alice")
	require.NoError(t, f.engine.Run(ctx, tenantID))
	require.Len(t, f.archivedRows(t), 2)

	require.NoError(t, f.engine.DeleteExpiredArchived(ctx, tenantID))

	archived := f.archivedRows(t)
	require.Len(t, archived, 1)
	assert.Equal(t, recent.ID, archived[0].ID)
	assert.NotEqual(t, expired.ID, archived[0].ID)
	assert.Equal(t, 1, f.archivedActionCount(t))
}
