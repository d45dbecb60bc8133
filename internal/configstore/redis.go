package configstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// redisMetadataStore keeps tenant metadata blobs under tenant-scoped keys.
type redisMetadataStore struct {
	client *redis.Client
}

func NewRedisMetadataStore(client *redis.Client) MetadataStore {
	return &redisMetadataStore{client: client}
}

func metaKey(tenantID int, key string) string {
	return fmt.Sprintf("tenant:%d:meta:%s", tenantID, key)
}

func (s *redisMetadataStore) Get(ctx context.Context, tenantID int, key string) ([]byte, error) {
	blob, err := s.client.Get(ctx, metaKey(tenantID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return blob, nil
}

func (s *redisMetadataStore) Put(ctx context.Context, tenantID int, key string, value []byte) error {
	return s.client.Set(ctx, metaKey(tenantID, key), value, 0).Err()
}

func (s *redisMetadataStore) Delete(ctx context.Context, tenantID int, key string) error {
	return s.client.Del(ctx, metaKey(tenantID, key)).Err()
}
