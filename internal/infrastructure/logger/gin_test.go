package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupGinTest() (*gin.Engine, *zap.Logger, func() []string) {
	gin.SetMode(gin.TestMode)
	log, logs := newObservedLogger()
	router := gin.New()
	router.Use(GinMiddleware(log))
	messages := func() []string {
		var out []string
		for _, entry := range logs.All() {
			out = append(out, entry.Message)
		}
		return out
	}
	return router, log, messages
}

func TestGinMiddleware_LogsRequest(t *testing.T) {
	router, _, messages := setupGinTest()
	router.GET("/records", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/records?kind=branch", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, messages(), "HTTP Request")
}

func TestGinMiddleware_StoresRequestLogger(t *testing.T) {
	router, _, _ := setupGinTest()

	var handlerLogger *zap.Logger
	router.GET("/records", func(c *gin.Context) {
		handlerLogger = GetGinLogger(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/records", nil))

	require.NotNil(t, handlerLogger)
}

func TestGetGinLogger_MissingReturnsNop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))
}

func TestRecovery_RecoversFromPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, logs := newObservedLogger()

	router := gin.New()
	router.Use(Recovery(log))
	router.GET("/boom", func(c *gin.Context) {
		panic("unexpected failure")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Panic recovered", logs.All()[0].Message)
}
