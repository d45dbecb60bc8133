package domain

import "strings"

// Archive policies carried by a routing config or by the tenant default.
const (
	ArchiveTypeTime   = "time"
	ArchiveTypeDelete = "delete"
)

// Recipients names who a routing rule notifies: explicit users plus every
// member of the listed roles.
type Recipients struct {
	Users []string `json:"users,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// CriticalCriteria restricts a rule to events whose status is in Statuses.
type CriticalCriteria struct {
	Enabled  bool     `json:"status"`
	Statuses []string `json:"criticalCriteria,omitempty"`
}

// BatchSettings collapses multi-device events into one notification.
type BatchSettings struct {
	Enabled           bool `json:"enabled"`
	IncludeDeviceList bool `json:"includeDeviceListInBatch"`
}

type NotificationSettings struct {
	DeviceTypes   []string          `json:"deviceTypes,omitempty"`
	TriggerPoints []string          `json:"notificationTriggerPoints,omitempty"`
	CriticalOnly  *CriticalCriteria `json:"criticalCriteriaOnly,omitempty"`
	Batch         *BatchSettings    `json:"batchNotifications,omitempty"`
	ArchiveType   string            `json:"archiveType,omitempty"`
	ArchiveAfter  string            `json:"archiveAfter,omitempty"`
}

// NotificationConfig is one routing rule mapping an event code to recipients
// and an archive policy. Rules live in a single JSON document per tenant;
// last write wins, there is no per-rule versioning.
type NotificationConfig struct {
	ID          int                  `json:"id"`
	Code        string               `json:"code"`
	Description string               `json:"description"`
	Type        string               `json:"type"`
	Recipients  *Recipients          `json:"recipients,omitempty"`
	Settings    NotificationSettings `json:"notificationSettings"`
}

// NotificationConfigDocument is the tenant's full routing document as stored
// in the metadata store.
type NotificationConfigDocument struct {
	Configurations      []NotificationConfig `json:"notificationConfigurations"`
	DefaultArchiveType  string               `json:"defaultArchiveType,omitempty"`
	DefaultArchiveAfter string               `json:"defaultArchiveAfter,omitempty"`
}

// FindByCode returns the first rule whose code matches, ignoring case, or nil.
func (d *NotificationConfigDocument) FindByCode(code string) *NotificationConfig {
	if d == nil {
		return nil
	}
	for i := range d.Configurations {
		if strings.EqualFold(d.Configurations[i].Code, code) {
			return &d.Configurations[i]
		}
	}
	return nil
}

// AllowsDeviceType reports whether the rule applies to the given device type.
func (c *NotificationConfig) AllowsDeviceType(deviceType string) bool {
	return containsFold(c.Settings.DeviceTypes, deviceType)
}

// AllowsTriggerPoint reports whether the rule applies to the given trigger point.
func (c *NotificationConfig) AllowsTriggerPoint(triggerPoint string) bool {
	return containsFold(c.Settings.TriggerPoints, triggerPoint)
}

// IsCritical reports whether the event status passes the rule's critical
// filter. Rules without an enabled filter accept every status.
func (c *NotificationConfig) IsCritical(status string) bool {
	cc := c.Settings.CriticalOnly
	if cc == nil || !cc.Enabled {
		return true
	}
	return containsFold(cc.Statuses, status)
}

// BatchEnabled reports whether the rule collapses events into one notification.
func (c *NotificationConfig) BatchEnabled() bool {
	return c.Settings.Batch != nil && c.Settings.Batch.Enabled
}

func containsFold(values []string, v string) bool {
	for _, s := range values {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
