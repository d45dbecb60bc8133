package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActionType is the per-recipient read state of a notification.
type ActionType string

const (
	ActionUnread ActionType = "UNREAD"
	ActionRead   ActionType = "READ"
)

// Notification is one rendered notification body. Rows are immutable after
// creation; only the archival engine may remove them from the live store.
type Notification struct {
	ID          int64     `json:"notification_id" db:"notification_id"`
	ConfigID    *int      `json:"config_id,omitempty" db:"config_id"`
	TenantID    int       `json:"tenant_id" db:"tenant_id"`
	Description string    `json:"description" db:"description"`
	Type        string    `json:"type" db:"type"`
	Priority    string    `json:"priority" db:"priority"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// UserNotificationAction is the read/unread row for one (notification,
// recipient) pair. It is created together with its notification and moves to
// the archive store together with it. The archive mirror tables carry the
// same shape, so the structs double as the archive row types.
type UserNotificationAction struct {
	ID             uuid.UUID  `json:"action_id" db:"action_id"`
	NotificationID int64      `json:"notification_id" db:"notification_id"`
	TenantID       int        `json:"tenant_id" db:"tenant_id"`
	Username       string     `json:"username" db:"username"`
	Action         ActionType `json:"action" db:"action"`
	ActionAt       time.Time  `json:"action_at" db:"action_at"`
}

// UserNotification is the service-side join of an action row with its
// notification body, as returned to one user.
type UserNotification struct {
	Notification
	ActionID uuid.UUID  `json:"action_id"`
	Status   ActionType `json:"status"`
	ActionAt time.Time  `json:"action_at"`
}

// DeviceEvent is one device/task/operation event handed to the notification
// service by the surrounding platform.
type DeviceEvent struct {
	Code         string   `json:"code"`
	Status       string   `json:"status,omitempty"`
	DeviceType   string   `json:"device_type"`
	DeviceIDs    []string `json:"device_ids"`
	TenantID     int      `json:"tenant_id"`
	TriggerPoint string   `json:"trigger_point"`
}

// DefaultEventStatus is assumed when an event carries no status.
const DefaultEventStatus = "PENDING"
