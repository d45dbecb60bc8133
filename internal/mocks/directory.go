package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type UserDirectory struct {
	mock.Mock
}

func (m *UserDirectory) ListUsersWithRole(ctx context.Context, tenantID int, role string) ([]string, error) {
	args := m.Called(ctx, tenantID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
