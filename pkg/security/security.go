package security

import (
	"co_attainment_backend/internal/util"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// OriginPolicy 可热更新的 Origin 白名单
type OriginPolicy struct {
	origins atomic.Pointer[map[string]bool]
}

func NewOriginPolicy(allowedOrigins []string) *OriginPolicy {
	p := &OriginPolicy{}
	p.Update(allowedOrigins)
	return p
}

func (p *OriginPolicy) Update(allowedOrigins []string) {
	set := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		set[o] = true
	}
	p.origins.Store(&set)
}

func (p *OriginPolicy) Allowed(origin string) bool {
	set := *p.origins.Load()
	return set["*"] || set[origin]
}

// CORS 中间件 仅允许白名单中的Origin，支持Credentials，暴露会话头
func CORS(policy *OriginPolicy) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc:  policy.Allowed,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", util.SessionHeader},
		ExposeHeaders:    []string{util.SessionHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// Secure 中间件
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 防止MIME嗅探
		c.Header("X-Content-Type-Options", "nosniff")
		// 防止点击劫持
		c.Header("X-Frame-Options", "DENY")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// visitor 包装限流器和最后活跃时间，用于定期清理
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 限流中间件 按IP限流，自动清理过期条目
func RateLimiter(maxRequests int, window time.Duration) gin.HandlerFunc {
	if maxRequests <= 0 {
		maxRequests = 1
	}
	store := make(map[string]*visitor)
	var mu sync.Mutex

	go func() {
		expiry := max(window*3, time.Minute)
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			for ip, v := range store {
				if time.Since(v.lastSeen) > expiry {
					delete(store, ip)
				}
			}
			mu.Unlock()
		}
	}()

	r := rate.Every(window / time.Duration(maxRequests))

	return func(c *gin.Context) {
		key := c.ClientIP()

		mu.Lock()
		v, exists := store[key]
		if !exists {
			v = &visitor{
				limiter: rate.NewLimiter(r, maxRequests),
			}
			store[key] = v
		}
		v.lastSeen = time.Now()
		mu.Unlock()

		if !v.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, util.Response{
				Code:    http.StatusTooManyRequests,
				Message: "too many requests",
			})
			return
		}

		c.Next()
	}
}
