package controller

import (
	"co_attainment_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

// respondError 将服务层错误映射为 HTTP 响应
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUnknownAssessment),
		errors.Is(err, util.ErrInvalidCOFilter),
		errors.Is(err, util.ErrNoRows),
		errors.Is(err, util.ErrInvalidWorkbook):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrSubmissionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrBackendDisabled):
		util.ServiceUnavailable(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
