package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jwd-portfolio/portfolio-backend/internal/projects/domain"
)

const (
	projectKeyPrefix = "portfolio:project:" // Key prefix for project data: portfolio:project:{id}
	projectOrderKey  = "portfolio:projects" // List of project IDs in insertion order
	maxTxRetries     = 50
)

// RedisStore handles Redis operations for projects.
// Records never expire.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new RedisStore
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// List returns every project in insertion order.
func (r *RedisStore) List(ctx context.Context) ([]domain.Project, error) {
	ids, err := r.client.LRange(ctx, projectOrderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list project ids: %w", err)
	}

	out := make([]domain.Project, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.projectKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	for _, v := range values {
		// deleted between LRANGE and MGET
		s, ok := v.(string)
		if !ok {
			continue
		}
		p, err := decodeProject(s)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

// Get retrieves a project by its ID
func (r *RedisStore) Get(ctx context.Context, id string) (*domain.Project, error) {
	data, err := r.client.Get(ctx, r.projectKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return decodeProject(data)
}

// Insert stores a new project and appends it to the ordering list.
func (r *RedisStore) Insert(ctx context.Context, p *domain.Project) error {
	data, err := encodeProject(p)
	if err != nil {
		return err
	}

	key := r.projectKey(p.ID)
	return r.watch(ctx, key, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrDuplicateID
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.RPush(ctx, projectOrderKey, p.ID)
			return nil
		})
		return err
	})
}

// UpdateByID applies the patch under WATCH so a concurrent write to the same id forces a retry.
func (r *RedisStore) UpdateByID(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	key := r.projectKey(id)

	var updated *domain.Project
	err := r.watch(ctx, key, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		p, err := decodeProject(data)
		if err != nil {
			return err
		}
		p.Apply(patch)

		encoded, err := encodeProject(p)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			return nil
		})
		if err == nil {
			updated = p
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteByID removes the project and its position in the ordering list.
func (r *RedisStore) DeleteByID(ctx context.Context, id string) (*domain.Project, error) {
	key := r.projectKey(id)

	var removed *domain.Project
	err := r.watch(ctx, key, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		p, err := decodeProject(data)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.LRem(ctx, projectOrderKey, 1, id)
			return nil
		})
		if err == nil {
			removed = p
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := r.client.LLen(ctx, projectOrderKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return int(n), nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// watch runs fn in an optimistic transaction on key, retrying when another client touched it.
func (r *RedisStore) watch(ctx context.Context, key string, fn func(tx *redis.Tx) error) error {
	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, fn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrDuplicateID) {
			return fmt.Errorf("redis transaction on %s: %w", key, err)
		}
		return err
	}
	return fmt.Errorf("redis transaction on %s: too much contention", key)
}

func (r *RedisStore) projectKey(id string) string {
	return fmt.Sprintf("%s%s", projectKeyPrefix, id)
}

func encodeProject(p *domain.Project) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project data: %w", err)
	}
	return data, nil
}

func decodeProject(data string) (*domain.Project, error) {
	var p domain.Project
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project data: %w", err)
	}
	out := p.Clone()
	return &out, nil
}
