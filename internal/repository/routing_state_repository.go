package repository

import (
	"co_attainment_backend/internal/attainment"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RoutingStateRepository 在 Redis 中按会话保存各测试选出的最弱 CO
// key: {prefix}:routing:{session}:{slot}
type RoutingStateRepository struct {
	Redis  *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRoutingStateRepository(rdb *redis.Client, prefix string, ttl time.Duration) *RoutingStateRepository {
	return &RoutingStateRepository{Redis: rdb, prefix: prefix, ttl: ttl}
}

func (r *RoutingStateRepository) key(session string, slot attainment.Slot) string {
	return fmt.Sprintf("%s:routing:%s:%s", r.prefix, session, slot)
}

// ForSession 返回绑定到会话的 RoutingStore
func (r *RoutingStateRepository) ForSession(session string) attainment.RoutingStore {
	return &sessionRouting{repo: r, session: session}
}

// Reset 删除会话的全部路由槽位
func (r *RoutingStateRepository) Reset(ctx context.Context, session string) error {
	keys := make([]string, 0, len(attainment.Slots))
	for _, s := range attainment.Slots {
		keys = append(keys, r.key(session, s))
	}
	return r.Redis.Del(ctx, keys...).Err()
}

type sessionRouting struct {
	repo    *RoutingStateRepository
	session string
}

func (s *sessionRouting) Get(ctx context.Context, slot attainment.Slot) (attainment.CO, bool, error) {
	v, err := s.repo.Redis.Get(ctx, s.repo.key(s.session, slot)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get routing slot: %w", err)
	}
	co, err := attainment.ParseCO(v)
	if err != nil {
		return 0, false, fmt.Errorf("routing slot %s holds %q: %w", slot, v, err)
	}
	return co, true, nil
}

func (s *sessionRouting) Set(ctx context.Context, slot attainment.Slot, co attainment.CO) error {
	return s.repo.Redis.Set(ctx, s.repo.key(s.session, slot), co.String(), s.repo.ttl).Err()
}

func (s *sessionRouting) Clear(ctx context.Context, slot attainment.Slot) error {
	return s.repo.Redis.Del(ctx, s.repo.key(s.session, slot)).Err()
}
