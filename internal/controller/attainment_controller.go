package controller

import (
	"co_attainment_backend/internal/attainment"
	"co_attainment_backend/internal/middleware"
	"co_attainment_backend/internal/service"
	"co_attainment_backend/internal/util"
	"co_attainment_backend/pkg/logger"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AttainmentController struct {
	attainment *service.AttainmentService
	workbook   *service.WorkbookService
	storage    *service.StorageService
	submission *service.SubmissionClient
}

func NewAttainmentController(a *service.AttainmentService, w *service.WorkbookService, s *service.StorageService, sub *service.SubmissionClient) *AttainmentController {
	return &AttainmentController{attainment: a, workbook: w, storage: s, submission: sub}
}

// ComputeRequest 原始成绩行与可选的 CO 筛选
type ComputeRequest struct {
	Rows     []attainment.StudentRow `json:"rows"`
	FilterCO string                  `json:"filterCO" example:"All"`
}

// ImportResult 导入结果
type ImportResult struct {
	Report     *attainment.Report `json:"report"`
	ArchiveURL string             `json:"archiveUrl,omitempty"`
}

// ListAssessments godoc
// @Summary 评估定义列表
// @Description 内置评估的分数字段、CO 分配与路由关系
// @Tags 达成度
// @Produce json
// @Success 200 {object} util.Response{data=[]service.AssessmentInfo}
// @Router /attainment/assessments [get]
func (c *AttainmentController) ListAssessments(ctx *gin.Context) {
	util.Success(ctx, c.attainment.Assessments())
}

// Compute godoc
// @Summary 计算 CO 达成度
// @Description 分配分数、计算个人与班级达成度；测试评估会更新会话的路由 CO
// @Tags 达成度
// @Accept json
// @Produce json
// @Param assessment path string true "test1 | test2 | ip | ip1 | ip2"
// @Param X-Session-ID header string false "会话 ID"
// @Param body body ComputeRequest true "成绩行"
// @Success 200 {object} util.Response{data=attainment.Report}
// @Failure 400 {object} util.Response
// @Router /attainment/{assessment}/compute [post]
func (c *AttainmentController) Compute(ctx *gin.Context) {
	var req ComputeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	report, err := c.attainment.Compute(ctx.Request.Context(), middleware.GetSession(ctx), ctx.Param("assessment"), req.Rows, req.FilterCO)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// Remedial godoc
// @Summary 补课名单
// @Description 低于 60% 的 CO 明细，filterCO 为 All 或 CO1..CO5
// @Tags 达成度
// @Accept json
// @Produce json
// @Param assessment path string true "评估"
// @Param body body ComputeRequest true "成绩行"
// @Success 200 {object} util.Response{data=[]attainment.RemedialEntry}
// @Failure 400 {object} util.Response
// @Router /attainment/{assessment}/remedial [post]
func (c *AttainmentController) Remedial(ctx *gin.Context) {
	var req ComputeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	entries, err := c.attainment.Remedial(ctx.Request.Context(), middleware.GetSession(ctx), ctx.Param("assessment"), req.Rows, req.FilterCO)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// Import godoc
// @Summary 上传工作簿计算
// @Description 读取第一个工作表，归档原文件后返回计算结果
// @Tags 达成度
// @Accept multipart/form-data
// @Produce json
// @Param assessment path string true "评估"
// @Param file formData file true "xlsx 工作簿"
// @Param filterCO formData string false "CO 筛选"
// @Success 200 {object} util.Response{data=ImportResult}
// @Failure 400 {object} util.Response
// @Router /attainment/{assessment}/import [post]
func (c *AttainmentController) Import(ctx *gin.Context) {
	file, header, err := c.openWorkbook(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	defer file.Close()

	assessment := ctx.Param("assessment")
	result := ImportResult{}
	if c.storage != nil {
		url, err := c.storage.Archive(ctx.Request.Context(), assessment, header.Filename, file, header.Size)
		if err != nil {
			logger.Log.Warn("archive workbook failed", zap.String("file", header.Filename), zap.Error(err))
		}
		result.ArchiveURL = url
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
	}

	rows, err := c.workbook.ReadRows(file)
	if err != nil {
		respondError(ctx, err)
		return
	}

	result.Report, err = c.attainment.Compute(ctx.Request.Context(), middleware.GetSession(ctx), assessment, rows, ctx.PostForm("filterCO"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Export godoc
// @Summary 导出报表工作簿
// @Tags 达成度
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param assessment path string true "评估"
// @Param body body ComputeRequest true "成绩行"
// @Success 200 {file} file
// @Failure 400 {object} util.Response
// @Router /attainment/{assessment}/export [post]
func (c *AttainmentController) Export(ctx *gin.Context) {
	var req ComputeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	report, err := c.attainment.Compute(ctx.Request.Context(), middleware.GetSession(ctx), ctx.Param("assessment"), req.Rows, req.FilterCO)
	if err != nil {
		respondError(ctx, err)
		return
	}
	data, err := c.workbook.Export(report)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	sendWorkbook(ctx, fmt.Sprintf("%s_co_attainment.xlsx", report.Assessment), data)
}

// Workbook godoc
// @Summary 全部评估工作簿
// @Description 按 Test1、Test2、IP、IP1、IP2 的顺序计算并导出
// @Tags 达成度
// @Accept multipart/form-data
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param file formData file true "包含全部成绩列的工作簿"
// @Success 200 {file} file
// @Failure 400 {object} util.Response
// @Router /attainment/workbook [post]
func (c *AttainmentController) Workbook(ctx *gin.Context) {
	file, _, err := c.openWorkbook(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	defer file.Close()

	rows, err := c.workbook.ReadRows(file)
	if err != nil {
		respondError(ctx, err)
		return
	}
	reports, err := c.attainment.ComputeAllForSession(ctx.Request.Context(), middleware.GetSession(ctx), rows)
	if err != nil {
		respondError(ctx, err)
		return
	}
	data, err := c.workbook.Workbook(reports)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	sendWorkbook(ctx, "co_attainment_all.xlsx", data)
}

// GetRouting godoc
// @Summary 会话路由状态
// @Tags 达成度
// @Produce json
// @Param X-Session-ID header string false "会话 ID"
// @Success 200 {object} util.Response{data=[]service.RoutingSlot}
// @Router /attainment/routing [get]
func (c *AttainmentController) GetRouting(ctx *gin.Context) {
	slots, err := c.attainment.Routing(ctx.Request.Context(), middleware.GetSession(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, slots)
}

// ResetRouting godoc
// @Summary 重置会话路由状态
// @Tags 达成度
// @Produce json
// @Success 200 {object} util.Response
// @Router /attainment/routing [delete]
func (c *AttainmentController) ResetRouting(ctx *gin.Context) {
	if err := c.attainment.ResetRouting(ctx.Request.Context(), middleware.GetSession(ctx)); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Submit godoc
// @Summary 推送结果到后端
// @Description 计算后在后台推送输出行，立即返回通知 ID
// @Tags 达成度
// @Accept json
// @Produce json
// @Param assessment path string true "评估"
// @Param body body ComputeRequest true "成绩行"
// @Success 202 {object} util.Response{data=model.SubmissionNotification}
// @Failure 400 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /attainment/{assessment}/submit [post]
func (c *AttainmentController) Submit(ctx *gin.Context) {
	var req ComputeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session := middleware.GetSession(ctx)
	report, err := c.attainment.Compute(ctx.Request.Context(), session, ctx.Param("assessment"), req.Rows, req.FilterCO)
	if err != nil {
		respondError(ctx, err)
		return
	}
	n, err := c.submission.Submit(ctx.Request.Context(), session, string(report.Assessment), report.Rows)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Accepted(ctx, n)
}

// GetSubmission godoc
// @Summary 推送结果
// @Tags 达成度
// @Produce json
// @Param id path string true "通知 ID"
// @Success 200 {object} util.Response{data=model.SubmissionNotification}
// @Failure 404 {object} util.Response
// @Router /attainment/submissions/{id} [get]
func (c *AttainmentController) GetSubmission(ctx *gin.Context) {
	n, err := c.submission.Status(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, n)
}

func (c *AttainmentController) openWorkbook(ctx *gin.Context) (multipart.File, *multipart.FileHeader, error) {
	header, err := ctx.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("missing workbook: %w", err)
	}
	if !util.IsWorkbookName(header.Filename) {
		return nil, nil, fmt.Errorf("unsupported file %q", header.Filename)
	}
	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	if _, err := util.ValidateMimeType(file, []string{util.MimeZip, util.MimeOLE}); err != nil {
		file.Close()
		return nil, nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, nil, err
	}
	return file, header, nil
}

func sendWorkbook(ctx *gin.Context, filename string, data []byte) {
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(http.StatusOK, util.MimeXLSX, data)
}
