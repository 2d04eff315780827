package service

import (
	"co_attainment_backend/internal/attainment"
	"co_attainment_backend/internal/util"
	"co_attainment_backend/pkg/logger"
	"co_attainment_backend/pkg/monitoring"
	"co_attainment_backend/pkg/tracing"
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RoutingStates 按会话提供共享路由状态
type RoutingStates interface {
	ForSession(session string) attainment.RoutingStore
	Reset(ctx context.Context, session string) error
}

type AttainmentService struct {
	routing RoutingStates
}

func NewAttainmentService(routing RoutingStates) *AttainmentService {
	return &AttainmentService{routing: routing}
}

// AssessmentInfo 对外展示的评估定义
type AssessmentInfo struct {
	Key              attainment.Key      `json:"key"`
	Title            string              `json:"title"`
	ScoreField       string              `json:"scoreField"`
	OutputScoreField string              `json:"outputScoreField"`
	Total            int                 `json:"total"`
	Buckets          []attainment.Bucket `json:"buckets,omitempty"`
	PublishesTo      attainment.Slot     `json:"publishesTo,omitempty"`
	ReadsFrom        attainment.Slot     `json:"readsFrom,omitempty"`
	Split            bool                `json:"split,omitempty"`
	TargetPercent    float64             `json:"targetPercent"`
}

// RoutingSlot 会话中一个路由槽位的当前值
type RoutingSlot struct {
	Slot    attainment.Slot `json:"slot"`
	CO      attainment.CO   `json:"co"`
	Default bool            `json:"default"`
}

func lookupDefinition(key string) (*attainment.Definition, error) {
	def, ok := attainment.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", util.ErrUnknownAssessment, key)
	}
	return def, nil
}

func parseFilter(s string) (attainment.COFilter, error) {
	f, err := attainment.ParseCOFilter(s)
	if err != nil {
		return f, fmt.Errorf("%w: %v", util.ErrInvalidCOFilter, err)
	}
	return f, nil
}

func (s *AttainmentService) Assessments() []AssessmentInfo {
	defs := attainment.Definitions()
	out := make([]AssessmentInfo, 0, len(defs))
	for _, d := range defs {
		info := AssessmentInfo{
			Key:              d.Key,
			Title:            d.Title,
			ScoreField:       d.ScoreField,
			OutputScoreField: d.OutputScoreField,
			Total:            d.Total(),
			Buckets:          d.Buckets,
			Split:            d.Split,
			TargetPercent:    d.Target(),
		}
		if d.Routing != nil {
			info.PublishesTo = d.Routing.Slot
		}
		if d.Override != nil {
			info.ReadsFrom = d.Override.Slot
		}
		out = append(out, info)
	}
	return out
}

// Compute 计算一个评估并在会话中发布/读取路由，附带按 filterCO 筛选的补课名单
func (s *AttainmentService) Compute(ctx context.Context, session, key string, rows []attainment.StudentRow, filterCO string) (*attainment.Report, error) {
	def, err := lookupDefinition(key)
	if err != nil {
		return nil, err
	}
	filter, err := parseFilter(filterCO)
	if err != nil {
		return nil, err
	}
	return s.compute(ctx, s.routing.ForSession(session), def, rows, filter)
}

func (s *AttainmentService) compute(ctx context.Context, store attainment.RoutingStore, def *attainment.Definition, rows []attainment.StudentRow, filter attainment.COFilter) (_ *attainment.Report, err error) {
	ctx, span := tracing.Start(ctx, "attainment.compute",
		attribute.String("assessment", string(def.Key)),
		attribute.Int("rows", len(rows)),
	)
	defer func() { tracing.End(span, err) }()

	report, results, err := attainment.Compute(ctx, def, rows, store)
	if err != nil {
		return nil, err
	}
	report.Remedial = def.Remedial(results, filter)

	label := string(def.Key)
	monitoring.ComputationCounter.WithLabelValues(label).Inc()
	monitoring.StudentsProcessed.WithLabelValues(label).Add(float64(len(rows)))
	monitoring.RemedialStudents.WithLabelValues(label).Add(float64(len(report.Remedial)))
	if def.Routing != nil && report.Summary != nil && report.Summary.SelectedCO != nil {
		co := *report.Summary.SelectedCO
		monitoring.RoutedCOCounter.WithLabelValues(string(def.Routing.Slot), co.String()).Inc()
		span.SetAttributes(attribute.String("selected_co", co.String()))
	}

	logger.Log.Debug("assessment computed",
		zap.String("assessment", label),
		zap.Int("rows", len(rows)),
		zap.Int("remedial", len(report.Remedial)),
	)
	return &report, nil
}

// Remedial 只返回补课名单
func (s *AttainmentService) Remedial(ctx context.Context, session, key string, rows []attainment.StudentRow, filterCO string) ([]attainment.RemedialEntry, error) {
	report, err := s.Compute(ctx, session, key, rows, filterCO)
	if err != nil {
		return nil, err
	}
	return report.Remedial, nil
}

// ComputeAll 按依赖顺序计算全部评估，测试先发布路由，IP1/IP2 随后读取
func (s *AttainmentService) ComputeAll(ctx context.Context, store attainment.RoutingStore, rows []attainment.StudentRow) ([]attainment.Report, error) {
	reports := make([]attainment.Report, 0, len(attainment.Order))
	for _, def := range attainment.Definitions() {
		report, err := s.compute(ctx, store, def, rows, attainment.AllFilter)
		if err != nil {
			return nil, fmt.Errorf("compute %s: %w", def.Key, err)
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

// ComputeAllForSession 使用会话的路由状态
func (s *AttainmentService) ComputeAllForSession(ctx context.Context, session string, rows []attainment.StudentRow) ([]attainment.Report, error) {
	return s.ComputeAll(ctx, s.routing.ForSession(session), rows)
}

func (s *AttainmentService) Routing(ctx context.Context, session string) ([]RoutingSlot, error) {
	store := s.routing.ForSession(session)
	out := make([]RoutingSlot, 0, len(attainment.Slots))
	for _, slot := range attainment.Slots {
		co, ok, err := store.Get(ctx, slot)
		if err != nil {
			return nil, err
		}
		if !ok {
			co = slot.Default()
		}
		out = append(out, RoutingSlot{Slot: slot, CO: co, Default: !ok})
	}
	return out, nil
}

func (s *AttainmentService) ResetRouting(ctx context.Context, session string) error {
	return s.routing.Reset(ctx, session)
}
