package wire

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mining-chatbot/internal/adaptor"
	"mining-chatbot/internal/usecase"
	"mining-chatbot/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestRouter() http.Handler {
	config := &utils.Config{CORS: utils.CORSConfig{AllowedOrigins: []string{"*"}}}
	handler := adaptor.NewHandler(&usecase.Service{}, 0, zap.NewNop())
	return setupRouter(handler, config, zap.NewNop())
}

func TestRouterHealthAndMetrics(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":true,"message":"OK"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mining_chatbot_http_requests_total")
}

func TestRouterFallbacks(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/register", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
