package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/NKavindya/device-mgt-core-sub000/internal/domain"
)

type ConfigStore struct {
	mock.Mock
}

func (m *ConfigStore) GetConfigList(ctx context.Context, tenantID int) (*domain.NotificationConfigDocument, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationConfigDocument), args.Error(1)
}

func (m *ConfigStore) GetConfigByCode(ctx context.Context, tenantID int, code string) (*domain.NotificationConfig, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationConfig), args.Error(1)
}

func (m *ConfigStore) UpsertConfig(ctx context.Context, tenantID int, cfg domain.NotificationConfig) error {
	args := m.Called(ctx, tenantID, cfg)
	return args.Error(0)
}

func (m *ConfigStore) UpdateDefaults(ctx context.Context, tenantID int, archiveType, archiveAfter string) error {
	args := m.Called(ctx, tenantID, archiveType, archiveAfter)
	return args.Error(0)
}

func (m *ConfigStore) DeleteConfig(ctx context.Context, tenantID, configID int) error {
	args := m.Called(ctx, tenantID, configID)
	return args.Error(0)
}

func (m *ConfigStore) DeleteAll(ctx context.Context, tenantID int) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}
