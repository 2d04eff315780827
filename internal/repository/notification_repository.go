package repository

import (
	"co_attainment_backend/internal/model"
	"co_attainment_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// NotificationRepository 保存推送任务的状态，只保留最终结果
type NotificationRepository struct {
	Redis  *redis.Client
	prefix string
	ttl    time.Duration
}

func NewNotificationRepository(rdb *redis.Client, prefix string, ttl time.Duration) *NotificationRepository {
	return &NotificationRepository{Redis: rdb, prefix: prefix, ttl: ttl}
}

func (r *NotificationRepository) key(id string) string {
	return fmt.Sprintf("%s:submission:%s", r.prefix, id)
}

func (r *NotificationRepository) Save(ctx context.Context, n *model.SubmissionNotification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return r.Redis.Set(ctx, r.key(n.ID), data, r.ttl).Err()
}

func (r *NotificationRepository) Get(ctx context.Context, id string) (*model.SubmissionNotification, error) {
	data, err := r.Redis.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, util.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	var n model.SubmissionNotification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}
