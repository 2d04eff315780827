package repository

import (
	"co_attainment_backend/internal/model"
	"co_attainment_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, record *model.SubmissionRecord) error {
	return r.DB.WithContext(ctx).Create(record).Error
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*model.SubmissionRecord, error) {
	var record model.SubmissionRecord
	if err := r.DB.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &record, nil
}

// LatestByCourse 课程某类报表最近一次提交
func (r *SubmissionRepository) LatestByCourse(ctx context.Context, courseCode, reportType string) (*model.SubmissionRecord, error) {
	var record model.SubmissionRecord
	err := r.DB.WithContext(ctx).
		Where("course_code = ? AND report_type = ?", courseCode, reportType).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &record, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrSubmissionNotFound
	}
	return err
}
