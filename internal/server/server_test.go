package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/valdisdev1/mortgageProt/internal/chain"
	"github.com/valdisdev1/mortgageProt/internal/config"
	"github.com/valdisdev1/mortgageProt/internal/handler"
	"github.com/valdisdev1/mortgageProt/internal/repository"
	"github.com/valdisdev1/mortgageProt/internal/service"
	"github.com/valdisdev1/mortgageProt/pkg/utils"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	cfg := &config.Config{Mode: config.ModeDevelopment}

	registry := chain.NewMemoryRegistry()
	gateway := utils.NewGateway("ipfs.io")
	h := handler.NewHandler(
		service.NewMintService(repository.NewMockStore(log), registry, config.SchemaImage, log),
		service.NewListingService(registry, time.Minute, time.Second, log),
		service.NewImageService(gateway, nil, log),
		gateway,
		1<<20,
		log,
	)
	return NewRouter(cfg, h, log)
}

func TestRouterHealth(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterCORSPreflight(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/properties", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterListEmpty(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/properties", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `"0"`, w.Header().Get("ETag"))
	assert.Contains(t, w.Body.String(), `"total_supply":"0"`)
}
