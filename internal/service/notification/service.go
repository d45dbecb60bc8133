package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/NKavindya/device-mgt-core-sub000/internal/broker"
	"github.com/NKavindya/device-mgt-core-sub000/internal/configstore"
	"github.com/NKavindya/device-mgt-core-sub000/internal/domain"
	"github.com/NKavindya/device-mgt-core-sub000/internal/repository"
	"github.com/NKavindya/device-mgt-core-sub000/internal/service/recipient"
)

type Service interface {
	// HandleEvent translates one device event into notifications per the
	// tenant's routing rules. Events no rule matches are dropped silently.
	HandleEvent(ctx context.Context, ev domain.DeviceEvent) error
	// MarkRead flips the user's action rows to READ and pushes the refreshed
	// unread count. Repeating the call is a no-op.
	MarkRead(ctx context.Context, tenantID int, username string, ids []int64) error
	GetUserNotifications(ctx context.Context, tenantID int, username string, params domain.ListParams, status *domain.ActionType) ([]domain.UserNotification, error)
	GetLatestNotifications(ctx context.Context, tenantID int, params domain.ListParams) ([]domain.Notification, error)
	GetUnreadCount(ctx context.Context, tenantID int, username string) (int64, error)
	DeleteNotifications(ctx context.Context, tenantID int, username string, ids []int64) error
	DeleteAllNotifications(ctx context.Context, tenantID int, username string) error
}

type service struct {
	store    repository.NotificationStore
	configs  configstore.Store
	resolver *recipient.Resolver
	broker   *broker.Broker
}

func NewService(
	store repository.NotificationStore,
	configs configstore.Store,
	resolver *recipient.Resolver,
	eventBroker *broker.Broker,
) Service {
	return &service{
		store:    store,
		configs:  configs,
		resolver: resolver,
		broker:   eventBroker,
	}
}

func (s *service) HandleEvent(ctx context.Context, ev domain.DeviceEvent) error {
	cfg, err := s.configs.GetConfigByCode(ctx, ev.TenantID, ev.Code)
	if err != nil {
		return fmt.Errorf("resolve routing rule for %q: %w", ev.Code, err)
	}
	if cfg == nil {
		return nil
	}
	if !cfg.AllowsDeviceType(ev.DeviceType) || !cfg.AllowsTriggerPoint(ev.TriggerPoint) {
		return nil
	}

	status := ev.Status
	if status == "" {
		status = domain.DefaultEventStatus
	}
	if !cfg.IsCritical(status) {
		return nil
	}

	recipients, err := s.resolver.Resolve(ctx, ev.TenantID, cfg.Recipients)
	if err != nil {
		return err
	}

	if cfg.BatchEnabled() {
		description := renderBatchDescription(cfg, ev)
		return s.createAndPush(ctx, cfg, ev.TenantID, description, recipients)
	}

	// Non-batch: one notification per device, each in its own transaction.
	// The first failing device aborts the remaining ones in this call.
	for _, deviceID := range ev.DeviceIDs {
		description := renderDescription(cfg, deviceID, status)
		if err := s.createAndPush(ctx, cfg, ev.TenantID, description, recipients); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) createAndPush(ctx context.Context, cfg *domain.NotificationConfig, tenantID int, description string, recipients []string) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}

	configID := cfg.ID
	now := time.Now().UTC()
	n := &domain.Notification{
		ConfigID:    &configID,
		TenantID:    tenantID,
		Description: description,
		Type:        cfg.Type,
		Priority:    priorityFor(cfg),
		CreatedAt:   now,
	}

	id, err := tx.InsertNotification(ctx, n)
	if err != nil {
		rollback(tx, tenantID)
		return err
	}

	actions := make([]domain.UserNotificationAction, 0, len(recipients))
	for _, username := range recipients {
		actions = append(actions, domain.UserNotificationAction{
			ID:             uuid.New(),
			NotificationID: id,
			TenantID:       tenantID,
			Username:       username,
			Action:         domain.ActionUnread,
			ActionAt:       now,
		})
	}
	if err := tx.InsertUserActions(ctx, actions); err != nil {
		rollback(tx, tenantID)
		return err
	}

	if err := tx.Commit(); err != nil {
		return &domain.StoreError{Op: "commit notification", TenantID: tenantID, Err: err}
	}

	// Push only after commit so a slow listener can never hold the
	// transaction open.
	for _, username := range recipients {
		s.pushTo(ctx, tenantID, username, description)
	}
	return nil
}

func (s *service) pushTo(ctx context.Context, tenantID int, username, message string) {
	count, err := s.GetUnreadCount(ctx, tenantID, username)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"tenant":   tenantID,
			"username": username,
		}).Warn("skipping push, unread count unavailable")
		return
	}
	s.broker.Publish(broker.Payload{Message: message, UnreadCount: count}, []string{username})
}

func (s *service) MarkRead(ctx context.Context, tenantID int, username string, ids []int64) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	if err := tx.UpdateActionStatus(ctx, tenantID, ids, username, domain.ActionRead); err != nil {
		rollback(tx, tenantID)
		return err
	}
	if err := tx.Commit(); err != nil {
		return &domain.StoreError{Op: "commit mark read", TenantID: tenantID, Err: err}
	}

	count, err := s.GetUnreadCount(ctx, tenantID, username)
	if err != nil {
		logrus.WithError(err).WithField("username", username).Warn("skipping read-state push")
		return nil
	}
	s.broker.Publish(broker.Payload{UnreadCount: count}, []string{username})
	return nil
}

// GetUserNotifications fetches the user's action rows and then the matching
// bodies as two separate calls, joining them here. Actions and bodies stay
// joinable even if they later live in different stores.
func (s *service) GetUserNotifications(ctx context.Context, tenantID int, username string, params domain.ListParams, status *domain.ActionType) ([]domain.UserNotification, error) {
	params.Validate()

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}

	actions, err := tx.GetUserActions(ctx, tenantID, username, params.Limit, params.Offset, status)
	if err != nil {
		rollback(tx, tenantID)
		return nil, err
	}

	ids := make([]int64, 0, len(actions))
	for _, a := range actions {
		ids = append(ids, a.NotificationID)
	}

	bodies, err := tx.GetNotificationsByIDs(ctx, tenantID, ids)
	if err != nil {
		rollback(tx, tenantID)
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, &domain.StoreError{Op: "commit user notification read", TenantID: tenantID, Err: err}
	}

	byID := make(map[int64]domain.Notification, len(bodies))
	for _, n := range bodies {
		byID[n.ID] = n
	}

	result := make([]domain.UserNotification, 0, len(actions))
	for _, a := range actions {
		body, ok := byID[a.NotificationID]
		if !ok {
			// Body already archived or deleted; the stale action row is not
			// worth surfacing.
			continue
		}
		result = append(result, domain.UserNotification{
			Notification: body,
			ActionID:     a.ID,
			Status:       a.Action,
			ActionAt:     a.ActionAt,
		})
	}
	return result, nil
}

func (s *service) GetLatestNotifications(ctx context.Context, tenantID int, params domain.ListParams) ([]domain.Notification, error) {
	params.Validate()

	var notifications []domain.Notification
	err := s.withTx(ctx, tenantID, func(tx repository.NotificationTx) error {
		var err error
		notifications, err = tx.GetLatestNotifications(ctx, tenantID, params.Limit, params.Offset)
		return err
	})
	return notifications, err
}

func (s *service) GetUnreadCount(ctx context.Context, tenantID int, username string) (int64, error) {
	var count int64
	err := s.withTx(ctx, tenantID, func(tx repository.NotificationTx) error {
		var err error
		count, err = tx.CountUnread(ctx, tenantID, username)
		return err
	})
	return count, err
}

func (s *service) DeleteNotifications(ctx context.Context, tenantID int, username string, ids []int64) error {
	return s.withTx(ctx, tenantID, func(tx repository.NotificationTx) error {
		return tx.DeleteUserNotifications(ctx, tenantID, ids, username)
	})
}

func (s *service) DeleteAllNotifications(ctx context.Context, tenantID int, username string) error {
	return s.withTx(ctx, tenantID, func(tx repository.NotificationTx) error {
		return tx.DeleteAllUserNotifications(ctx, tenantID, username)
	})
}

func (s *service) withTx(ctx context.Context, tenantID int, fn func(tx repository.NotificationTx) error) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		rollback(tx, tenantID)
		return err
	}
	if err := tx.Commit(); err != nil {
		return &domain.StoreError{Op: "commit", TenantID: tenantID, Err: err}
	}
	return nil
}

func rollback(tx repository.NotificationTx, tenantID int) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, context.Canceled) {
		logrus.WithError(err).WithField("tenant", tenantID).Warn("transaction rollback failed")
	}
}

func priorityFor(cfg *domain.NotificationConfig) string {
	if cc := cfg.Settings.CriticalOnly; cc != nil && cc.Enabled {
		return "CRITICAL"
	}
	return "NORMAL"
}

func renderDescription(cfg *domain.NotificationConfig, deviceID, status string) string {
	return fmt.Sprintf("%s: device %s reported %s", cfg.Description, deviceID, status)
}

func renderBatchDescription(cfg *domain.NotificationConfig, ev domain.DeviceEvent) string {
	if cfg.Settings.Batch != nil && cfg.Settings.Batch.IncludeDeviceList && len(ev.DeviceIDs) > 0 {
		return fmt.Sprintf("%s: %d device(s) affected [%s]",
			cfg.Description, len(ev.DeviceIDs), strings.Join(ev.DeviceIDs, ", "))
	}
	return fmt.Sprintf("%s: %d device(s) affected", cfg.Description, len(ev.DeviceIDs))
}
