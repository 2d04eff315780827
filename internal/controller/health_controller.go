package controller

import (
	"co_attainment_backend/internal/util"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// @Summary 健康检查
// @Description 检查数据库与 Redis 连接
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	components := gin.H{}
	healthy := true

	if c.DB != nil {
		components["database"] = "up"
		sqlDB, err := c.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(pingCtx)
		}
		if err != nil {
			components["database"] = "down"
			healthy = false
		}
	}

	if c.Redis != nil {
		components["redis"] = "up"
		if err := c.Redis.Ping(pingCtx).Err(); err != nil {
			components["redis"] = "down"
			healthy = false
		}
	}

	if !healthy {
		ctx.JSON(http.StatusServiceUnavailable, util.Response{
			Code:    http.StatusServiceUnavailable,
			Message: "Service unavailable",
			Data:    gin.H{"status": "degraded", "components": components},
		})
		return
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
