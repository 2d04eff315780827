package middleware

import (
	"co_attainment_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func serve(header string) (*httptest.ResponseRecorder, string) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionMiddleware())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = GetSession(c)
		c.Status(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(util.SessionHeader, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, seen
}

func TestSessionKeepsValidHeader(t *testing.T) {
	w, seen := serve("class-3b")
	assert.Equal(t, "class-3b", seen)
	assert.Equal(t, "class-3b", w.Header().Get(util.SessionHeader))
}

func TestSessionGeneratedWhenMissingOrInvalid(t *testing.T) {
	for _, h := range []string{"", "a:b:*"} {
		w, seen := serve(h)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
		assert.Equal(t, seen, w.Header().Get(util.SessionHeader))
	}
}
