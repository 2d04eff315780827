package app

import (
	"co_attainment_backend/docs"
	"co_attainment_backend/internal/middleware"
	"co_attainment_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.GET("/health", c.health.HealthCheck)

	// 1. 达成度计算，路由状态按会话隔离
	a.registerAttainmentRoutes(api, c)

	// 2. 接收计算结果的后端接口
	a.registerBackendRoutes(api, c)
}

func (a *App) registerAttainmentRoutes(api *gin.RouterGroup, c *controllers) {
	attainment := api.Group("/attainment")
	attainment.Use(middleware.SessionMiddleware())
	{
		attainment.GET("/assessments", c.attainment.ListAssessments)
		attainment.GET("/routing", c.attainment.GetRouting)
		attainment.DELETE("/routing", c.attainment.ResetRouting)
		attainment.POST("/workbook", c.attainment.Workbook)
		attainment.GET("/submissions/:id", c.attainment.GetSubmission)

		attainment.POST("/:assessment/compute", c.attainment.Compute)
		attainment.POST("/:assessment/remedial", c.attainment.Remedial)
		attainment.POST("/:assessment/import", c.attainment.Import)
		attainment.POST("/:assessment/export", c.attainment.Export)
		attainment.POST("/:assessment/submit", c.attainment.Submit)
	}
}

func (a *App) registerBackendRoutes(api *gin.RouterGroup, c *controllers) {
	course := api.Group("/course/:courseCode")
	{
		course.POST("/test1", c.backend.UploadTest1)
		course.POST("/test2", c.backend.UploadTest2)
		course.GET("/:reportType/latest", c.backend.Latest)
	}

	api.POST("/uploadIP", c.backend.UploadIP)
	api.POST("/uploadIP1COAttainment", c.backend.UploadIP1)
	api.POST("/uploadIP2COAttainment", c.backend.UploadIP2)
	api.GET("/submissions/:id", c.backend.GetSubmission)
}
