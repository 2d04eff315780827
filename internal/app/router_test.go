package app

import (
	"co_attainment_backend/internal/config"
	"co_attainment_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{
		Redis:     config.RedisConfig{KeyPrefix: "t"},
		Storage:   config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: config.RateLimitConfig{MaxRequests: 100, WindowMinutes: 1},
	}
	a := &App{Config: cfg, Redis: rdb}
	s := a.initServices(a.initRepositories(nil, rdb, cfg), cfg)
	a.services = s
	t.Cleanup(s.client.Wait)

	a.Router = gin.New()
	a.setupMiddlewares(a.Router, cfg)
	a.registerRoutes(a.Router, a.initControllers(s))
	return a
}

func TestRoutesRegistered(t *testing.T) {
	a := newTestApp(t)

	got := map[string]bool{}
	for _, r := range a.Router.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /api/health",
		"GET /metrics",
		"GET /swagger/*any",
		"GET /api/attainment/assessments",
		"POST /api/attainment/:assessment/compute",
		"POST /api/attainment/:assessment/remedial",
		"POST /api/attainment/:assessment/import",
		"POST /api/attainment/:assessment/export",
		"POST /api/attainment/workbook",
		"GET /api/attainment/routing",
		"DELETE /api/attainment/routing",
		"POST /api/attainment/:assessment/submit",
		"GET /api/attainment/submissions/:id",
		"POST /api/course/:courseCode/test1",
		"POST /api/course/:courseCode/test2",
		"GET /api/course/:courseCode/:reportType/latest",
		"POST /api/uploadIP",
		"POST /api/uploadIP1COAttainment",
		"POST /api/uploadIP2COAttainment",
		"GET /api/submissions/:id",
	} {
		assert.True(t, got[want], want)
	}
}

func TestConfigCallbacksReachOriginPolicyAndClient(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/attainment/assessments", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get(util.SessionHeader))

	newCfg := *a.Config
	newCfg.CORS.AllowedOrigins = []string{"https://grades.example.edu"}
	newCfg.Backend = config.BackendConfig{BaseURL: "http://backend.invalid", CourseCode: "MA201"}
	for _, cb := range a.configCallbacks {
		cb(&newCfg)
	}

	assert.False(t, a.origins.Allowed("http://localhost:3000"))
	assert.True(t, a.origins.Allowed("https://grades.example.edu"))

	// 推送地址已生效，返回 202 而不是 503
	body := `{"rows":[{"S.No":1,"Reg.No":"R1","Name":"A","PT1 (50)":30}]}`
	req = httptest.NewRequest(http.MethodPost, "/api/attainment/test1/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
}
