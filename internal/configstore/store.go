// Package configstore reads and writes the per-tenant notification routing
// document kept in the metadata store as one opaque JSON blob.
package configstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NKavindya/device-mgt-core-sub000/internal/domain"
)

// ErrNotFound is returned by a MetadataStore when the key does not exist.
var ErrNotFound = errors.New("metadata key not found")

// MetadataStore is the key-value collaborator holding tenant metadata blobs.
type MetadataStore interface {
	Get(ctx context.Context, tenantID int, key string) ([]byte, error)
	Put(ctx context.Context, tenantID int, key string, value []byte) error
	Delete(ctx context.Context, tenantID int, key string) error
}

const configKey = "notification-configuration"

type Store interface {
	GetConfigList(ctx context.Context, tenantID int) (*domain.NotificationConfigDocument, error)
	// GetConfigByCode matches the rule code case-insensitively and returns
	// (nil, nil) when no rule matches or the tenant has no document.
	GetConfigByCode(ctx context.Context, tenantID int, code string) (*domain.NotificationConfig, error)
	UpsertConfig(ctx context.Context, tenantID int, cfg domain.NotificationConfig) error
	UpdateDefaults(ctx context.Context, tenantID int, archiveType, archiveAfter string) error
	DeleteConfig(ctx context.Context, tenantID, configID int) error
	DeleteAll(ctx context.Context, tenantID int) error
}

type store struct {
	meta MetadataStore
}

func NewStore(meta MetadataStore) Store {
	return &store{meta: meta}
}

func (s *store) GetConfigList(ctx context.Context, tenantID int) (*domain.NotificationConfigDocument, error) {
	blob, err := s.meta.Get(ctx, tenantID, configKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("read notification configuration: %w", err)
	}

	var doc domain.NotificationConfigDocument
	if err := json.Unmarshal(blob, &doc); err != nil {
		return nil, &domain.ConfigCorruptError{TenantID: tenantID, Err: err}
	}
	return &doc, nil
}

func (s *store) GetConfigByCode(ctx context.Context, tenantID int, code string) (*domain.NotificationConfig, error) {
	doc, err := s.GetConfigList(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return doc.FindByCode(code), nil
}

func (s *store) UpsertConfig(ctx context.Context, tenantID int, cfg domain.NotificationConfig) error {
	doc, err := s.GetConfigList(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, domain.ErrConfigNotFound) {
			return err
		}
		doc = &domain.NotificationConfigDocument{}
	}

	replaced := false
	for i := range doc.Configurations {
		if doc.Configurations[i].ID == cfg.ID {
			doc.Configurations[i] = cfg
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Configurations = append(doc.Configurations, cfg)
	}

	return s.write(ctx, tenantID, doc)
}

func (s *store) UpdateDefaults(ctx context.Context, tenantID int, archiveType, archiveAfter string) error {
	doc, err := s.GetConfigList(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, domain.ErrConfigNotFound) {
			return err
		}
		doc = &domain.NotificationConfigDocument{}
	}

	doc.DefaultArchiveType = archiveType
	doc.DefaultArchiveAfter = archiveAfter

	return s.write(ctx, tenantID, doc)
}

func (s *store) DeleteConfig(ctx context.Context, tenantID, configID int) error {
	doc, err := s.GetConfigList(ctx, tenantID)
	if err != nil {
		return err
	}

	kept := doc.Configurations[:0]
	for _, c := range doc.Configurations {
		if c.ID != configID {
			kept = append(kept, c)
		}
	}
	doc.Configurations = kept

	return s.write(ctx, tenantID, doc)
}

func (s *store) DeleteAll(ctx context.Context, tenantID int) error {
	if err := s.meta.Delete(ctx, tenantID, configKey); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete notification configuration: %w", err)
	}
	return nil
}

func (s *store) write(ctx context.Context, tenantID int, doc *domain.NotificationConfigDocument) error {
	blob, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode notification configuration: %w", err)
	}
	if err := s.meta.Put(ctx, tenantID, configKey, blob); err != nil {
		return fmt.Errorf("write notification configuration: %w", err)
	}
	return nil
}
