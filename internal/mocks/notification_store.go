package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/NKavindya/device-mgt-core-sub000/internal/domain"
	"github.com/NKavindya/device-mgt-core-sub000/internal/repository"
)

type NotificationStore struct {
	mock.Mock
}

func (m *NotificationStore) Begin(ctx context.Context) (repository.NotificationTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.NotificationTx), args.Error(1)
}

func (m *NotificationStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

type NotificationTx struct {
	mock.Mock
}

func (m *NotificationTx) InsertNotification(ctx context.Context, n *domain.Notification) (int64, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationTx) InsertUserActions(ctx context.Context, actions []domain.UserNotificationAction) error {
	args := m.Called(ctx, actions)
	return args.Error(0)
}

func (m *NotificationTx) GetLatestNotifications(ctx context.Context, tenantID, limit, offset int) ([]domain.Notification, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *NotificationTx) GetNotificationsByIDs(ctx context.Context, tenantID int, ids []int64) ([]domain.Notification, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *NotificationTx) GetUserActions(ctx context.Context, tenantID int, username string, limit, offset int, status *domain.ActionType) ([]domain.UserNotificationAction, error) {
	args := m.Called(ctx, tenantID, username, limit, offset, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserNotificationAction), args.Error(1)
}

func (m *NotificationTx) UpdateActionStatus(ctx context.Context, tenantID int, ids []int64, username string, status domain.ActionType) error {
	args := m.Called(ctx, tenantID, ids, username, status)
	return args.Error(0)
}

func (m *NotificationTx) CountUnread(ctx context.Context, tenantID int, username string) (int64, error) {
	args := m.Called(ctx, tenantID, username)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationTx) DeleteUserNotifications(ctx context.Context, tenantID int, ids []int64, username string) error {
	args := m.Called(ctx, tenantID, ids, username)
	return args.Error(0)
}

func (m *NotificationTx) DeleteAllUserNotifications(ctx context.Context, tenantID int, username string) error {
	args := m.Called(ctx, tenantID, username)
	return args.Error(0)
}

func (m *NotificationTx) GetArchivableByConfig(ctx context.Context, tenantID, configID int, cutoff time.Time) ([]domain.Notification, error) {
	args := m.Called(ctx, tenantID, configID, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *NotificationTx) GetArchivableExcluding(ctx context.Context, tenantID int, excludedConfigIDs []int, cutoff time.Time) ([]domain.Notification, error) {
	args := m.Called(ctx, tenantID, excludedConfigIDs, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *NotificationTx) GetActionsByNotificationIDs(ctx context.Context, tenantID int, ids []int64) ([]domain.UserNotificationAction, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserNotificationAction), args.Error(1)
}

func (m *NotificationTx) DeleteNotificationsByIDs(ctx context.Context, tenantID int, ids []int64) error {
	args := m.Called(ctx, tenantID, ids)
	return args.Error(0)
}

func (m *NotificationTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *NotificationTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}
