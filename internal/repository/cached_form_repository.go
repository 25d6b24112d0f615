package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Saravana-31/Form-Builder/internal/model"
	"github.com/Saravana-31/Form-Builder/pkg/logger"
	"github.com/Saravana-31/Form-Builder/pkg/monitoring"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "form-builder:form:"

// CachedFormRepository is a read-through Redis cache in front of another
// FormRepository. Redis failures are logged and the call falls through to
// the wrapped repository.
type CachedFormRepository struct {
	next FormRepository
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedFormRepository(next FormRepository, rdb *redis.Client, ttl time.Duration) *CachedFormRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedFormRepository{next: next, rdb: rdb, ttl: ttl}
}

func cacheKey(ref model.FormRef) string {
	return cacheKeyPrefix + ref.Kind.String() + ":" + ref.Value
}

// formKeys lists every key under which f may be cached.
func formKeys(f *model.Form) []string {
	keys := []string{cacheKey(model.SystemRef(f.ID))}
	if f.Slug != nil && *f.Slug != "" {
		keys = append(keys, cacheKey(model.SlugRef(*f.Slug)))
	}
	return keys
}

func (r *CachedFormRepository) Create(ctx context.Context, form *model.Form) error {
	return r.next.Create(ctx, form)
}

func (r *CachedFormRepository) Find(ctx context.Context, ref model.FormRef) (*model.Form, error) {
	key := cacheKey(ref)
	data, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var f model.Form
		if jsonErr := json.Unmarshal(data, &f); jsonErr == nil {
			monitoring.CacheLookups.WithLabelValues("hit").Inc()
			return &f, nil
		}
		r.invalidate(ctx, key)
	case !errors.Is(err, redis.Nil):
		logger.Log.Warn("Form cache read failed", zap.String("key", key), zap.Error(err))
	}
	monitoring.CacheLookups.WithLabelValues("miss").Inc()

	f, err := r.next.Find(ctx, ref)
	if err != nil {
		return nil, err
	}
	r.store(ctx, f)
	return f, nil
}

func (r *CachedFormRepository) Update(ctx context.Context, ref model.FormRef, content model.FormContent, at time.Time) (*model.Form, error) {
	f, err := r.next.Update(ctx, ref, content, at)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, append(formKeys(f), cacheKey(ref))...)
	return f, nil
}

func (r *CachedFormRepository) Delete(ctx context.Context, ref model.FormRef) error {
	keys := []string{cacheKey(ref)}
	if f, err := r.next.Find(ctx, ref); err == nil {
		keys = append(keys, formKeys(f)...)
	}
	if err := r.next.Delete(ctx, ref); err != nil {
		return err
	}
	r.invalidate(ctx, keys...)
	return nil
}

func (r *CachedFormRepository) List(ctx context.Context) ([]model.Form, error) {
	return r.next.List(ctx)
}

func (r *CachedFormRepository) store(ctx context.Context, f *model.Form) {
	data, err := json.Marshal(f)
	if err != nil {
		return
	}
	pipe := r.rdb.Pipeline()
	for _, key := range formKeys(f) {
		pipe.Set(ctx, key, data, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Log.Warn("Form cache write failed", zap.String("form_id", f.ID), zap.Error(err))
	}
}

func (r *CachedFormRepository) invalidate(ctx context.Context, keys ...string) {
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("Form cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
