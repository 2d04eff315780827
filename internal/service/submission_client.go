package service

import (
	"bytes"
	"co_attainment_backend/internal/attainment"
	"co_attainment_backend/internal/config"
	"co_attainment_backend/internal/model"
	"co_attainment_backend/internal/util"
	"co_attainment_backend/pkg/logger"
	"co_attainment_backend/pkg/monitoring"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// NotificationStore 推送状态存储
type NotificationStore interface {
	Save(ctx context.Context, n *model.SubmissionNotification) error
	Get(ctx context.Context, id string) (*model.SubmissionNotification, error)
}

// SubmissionClient 将计算结果推送到后端，后台执行，不重试不去重
type SubmissionClient struct {
	mu            sync.RWMutex
	backend       config.BackendConfig
	http          *http.Client
	notifications NotificationStore
	inflight      sync.WaitGroup
}

func NewSubmissionClient(backend config.BackendConfig, notifications NotificationStore) *SubmissionClient {
	return &SubmissionClient{
		backend:       backend,
		http:          &http.Client{},
		notifications: notifications,
	}
}

// UpdateConfig 配置热更新时替换后端地址
func (c *SubmissionClient) UpdateConfig(backend config.BackendConfig) {
	c.mu.Lock()
	c.backend = backend
	c.mu.Unlock()
}

func (c *SubmissionClient) currentBackend() config.BackendConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.backend
}

// TargetPath 各报表类型对应的后端接口
func TargetPath(key attainment.Key, courseCode string) (string, error) {
	switch key {
	case attainment.KeyTest1, attainment.KeyTest2:
		return "/api/course/" + url.PathEscape(courseCode) + "/" + string(key), nil
	case attainment.KeyIP:
		return "/api/uploadIP", nil
	case attainment.KeyIP1:
		return "/api/uploadIP1COAttainment", nil
	case attainment.KeyIP2:
		return "/api/uploadIP2COAttainment", nil
	}
	return "", errors.Wrapf(util.ErrUnknownAssessment, "no backend route for %q", key)
}

// Submit 记录 pending 通知后立即返回，推送在后台完成
func (c *SubmissionClient) Submit(ctx context.Context, session, key string, rows []attainment.OutputRow) (*model.SubmissionNotification, error) {
	def, err := lookupDefinition(key)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, util.ErrNoRows
	}
	backend := c.currentBackend()
	if backend.BaseURL == "" {
		return nil, util.ErrBackendDisabled
	}
	target, err := TargetPath(def.Key, backend.CourseCode)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(rows)
	if err != nil {
		return nil, errors.Wrap(err, "encode rows")
	}

	n := &model.SubmissionNotification{
		ID:         model.GenerateUUID(),
		Session:    session,
		Assessment: string(def.Key),
		Target:     strings.TrimRight(backend.BaseURL, "/") + target,
		RowCount:   len(rows),
		Status:     model.SubmissionPending,
		CreatedAt:  time.Now(),
	}
	if err := c.notifications.Save(ctx, n); err != nil {
		return nil, errors.Wrap(err, "save notification")
	}

	pending := *n
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.deliver(&pending, body, backend.Timeout())
	}()
	return n, nil
}

func (c *SubmissionClient) deliver(n *model.SubmissionNotification, body []byte, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	message, err := c.post(ctx, n.Target, body)
	now := time.Now()
	n.FinishedAt = &now
	if err != nil {
		n.Status = model.SubmissionFailed
		n.Error = err.Error()
		logger.Log.Warn("backend submission failed",
			zap.String("id", n.ID),
			zap.String("target", n.Target),
			zap.Error(err),
		)
	} else {
		n.Status = model.SubmissionSucceeded
		n.Message = message
		logger.Log.Info("backend submission succeeded",
			zap.String("id", n.ID),
			zap.String("target", n.Target),
			zap.Int("rows", n.RowCount),
		)
	}
	monitoring.SubmissionCounter.WithLabelValues(n.Assessment, string(n.Status)).Inc()

	saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer saveCancel()
	if err := c.notifications.Save(saveCtx, n); err != nil {
		logger.Log.Error("save submission notification", zap.String("id", n.ID), zap.Error(err))
	}
}

func (c *SubmissionClient) post(ctx context.Context, target string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "post to backend")
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return "", errors.Wrap(err, "cannot read backend response")
	}

	message := gjson.GetBytes(payload, "message").String()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		if message == "" {
			message = http.StatusText(res.StatusCode)
		}
		return "", errors.Errorf("backend responded %d: %s", res.StatusCode, message)
	}
	if id := gjson.GetBytes(payload, "data.id"); id.Exists() {
		message = strings.TrimSpace(message + " (" + id.String() + ")")
	}
	return message, nil
}

func (c *SubmissionClient) Status(ctx context.Context, id string) (*model.SubmissionNotification, error) {
	return c.notifications.Get(ctx, id)
}

// Wait 等待进行中的推送结束，用于优雅退出
func (c *SubmissionClient) Wait() {
	c.inflight.Wait()
}
