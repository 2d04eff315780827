package controller

import (
	"co_attainment_backend/internal/attainment"
	"co_attainment_backend/internal/service"
	"co_attainment_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// BackendController 接收前端推送的报表行，请求体为输出行 JSON 数组
type BackendController struct {
	service *service.SubmissionService
}

func NewBackendController(s *service.SubmissionService) *BackendController {
	return &BackendController{service: s}
}

func (c *BackendController) accept(ctx *gin.Context, courseCode string, key attainment.Key) {
	var rows []attainment.OutputRow
	if err := ctx.ShouldBindJSON(&rows); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	receipt, err := c.service.Accept(ctx.Request.Context(), courseCode, string(key), rows)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, receipt)
}

// UploadTest1 godoc
// @Summary 接收 Test1 报表
// @Tags 后端
// @Accept json
// @Produce json
// @Param courseCode path string true "课程代码"
// @Param body body []attainment.OutputRow true "输出行"
// @Success 200 {object} util.Response{data=service.SubmissionReceipt}
// @Failure 400 {object} util.Response
// @Router /course/{courseCode}/test1 [post]
func (c *BackendController) UploadTest1(ctx *gin.Context) {
	c.accept(ctx, ctx.Param("courseCode"), attainment.KeyTest1)
}

// UploadTest2 godoc
// @Summary 接收 Test2 报表
// @Tags 后端
// @Accept json
// @Produce json
// @Param courseCode path string true "课程代码"
// @Param body body []attainment.OutputRow true "输出行"
// @Success 200 {object} util.Response{data=service.SubmissionReceipt}
// @Failure 400 {object} util.Response
// @Router /course/{courseCode}/test2 [post]
func (c *BackendController) UploadTest2(ctx *gin.Context) {
	c.accept(ctx, ctx.Param("courseCode"), attainment.KeyTest2)
}

// UploadIP godoc
// @Summary 接收 IP 拆分表
// @Tags 后端
// @Accept json
// @Produce json
// @Param courseCode query string false "课程代码"
// @Param body body []attainment.OutputRow true "输出行"
// @Success 200 {object} util.Response{data=service.SubmissionReceipt}
// @Router /uploadIP [post]
func (c *BackendController) UploadIP(ctx *gin.Context) {
	c.accept(ctx, ctx.Query("courseCode"), attainment.KeyIP)
}

// UploadIP1 godoc
// @Summary 接收 IP1 达成度报表
// @Tags 后端
// @Accept json
// @Produce json
// @Param courseCode query string false "课程代码"
// @Param body body []attainment.OutputRow true "输出行"
// @Success 200 {object} util.Response{data=service.SubmissionReceipt}
// @Router /uploadIP1COAttainment [post]
func (c *BackendController) UploadIP1(ctx *gin.Context) {
	c.accept(ctx, ctx.Query("courseCode"), attainment.KeyIP1)
}

// UploadIP2 godoc
// @Summary 接收 IP2 达成度报表
// @Tags 后端
// @Accept json
// @Produce json
// @Param courseCode query string false "课程代码"
// @Param body body []attainment.OutputRow true "输出行"
// @Success 200 {object} util.Response{data=service.SubmissionReceipt}
// @Router /uploadIP2COAttainment [post]
func (c *BackendController) UploadIP2(ctx *gin.Context) {
	c.accept(ctx, ctx.Query("courseCode"), attainment.KeyIP2)
}

// GetSubmission godoc
// @Summary 查询已保存的提交
// @Tags 后端
// @Produce json
// @Param id path string true "提交 ID"
// @Success 200 {object} util.Response{data=service.StoredSubmission}
// @Failure 404 {object} util.Response
// @Router /submissions/{id} [get]
func (c *BackendController) GetSubmission(ctx *gin.Context) {
	stored, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stored)
}

// Latest godoc
// @Summary 课程某类报表最近一次提交
// @Tags 后端
// @Produce json
// @Param courseCode path string true "课程代码"
// @Param reportType path string true "test1 | test2 | ip | ip1 | ip2"
// @Success 200 {object} util.Response{data=service.StoredSubmission}
// @Failure 404 {object} util.Response
// @Router /course/{courseCode}/{reportType}/latest [get]
func (c *BackendController) Latest(ctx *gin.Context) {
	stored, err := c.service.Latest(ctx.Request.Context(), ctx.Param("courseCode"), ctx.Param("reportType"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stored)
}
