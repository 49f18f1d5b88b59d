package bootstrap

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jwd-portfolio/portfolio-backend/internal/projects/repository"
	"github.com/jwd-portfolio/portfolio-backend/internal/projects/service"
	"github.com/jwd-portfolio/portfolio-backend/internal/projects/upload"
)

func testRouter(t *testing.T, origins []string, ratePerS float64) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	public := t.TempDir()
	images := filepath.Join(public, "images")
	require.NoError(t, os.MkdirAll(images, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(public, "index.html"), []byte("<h1>portfolio</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(public, "script.js"), []byte("console.log(1)"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(images, "logo.png"), []byte("png"), 0o644))

	svc := service.NewProjectService(repository.NewMemoryStore(), upload.New(images, 1<<20), zap.NewNop())
	r := BuildRouter(RouterDeps{
		ServiceName:    "portfolio-backend",
		Version:        "test",
		Projects:       svc,
		CORSOrigins:    origins,
		WriteRatePerS:  ratePerS,
		WriteRateBurst: 1,
		MaxBodyBytes:   2 << 20,
		PublicDir:      public,
		ImageDir:       images,
		CacheSeconds:   3600,
	})
	return r, public
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func createRequest(t *testing.T, name string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"name": name, "desc": "d", "skills": `["Go"]`, "contributions": `[]`,
	} {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/projects", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestBuildRouter_Routes(t *testing.T) {
	r, _ := testRouter(t, []string{"*"}, 0)

	rec := do(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "portfolio")

	rec = do(r, httptest.NewRequest(http.MethodGet, "/images/logo.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = do(r, httptest.NewRequest(http.MethodGet, "/images/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(r, httptest.NewRequest(http.MethodGet, "/static/script.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = do(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store":"up"`)

	rec = do(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "portfolio_http_requests_total")
}

func TestBuildRouter_CORS(t *testing.T) {
	r, _ := testRouter(t, []string{"https://me.example"}, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Origin", "https://me.example")
	rec := do(r, req)
	assert.Equal(t, "https://me.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = do(r, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBuildRouter_WriteRateLimit(t *testing.T) {
	r, _ := testRouter(t, nil, 0.001)

	assert.Equal(t, http.StatusOK, do(r, createRequest(t, "First")).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, createRequest(t, "Second")).Code)
	assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodGet, "/api/projects", nil)).Code)
}

func TestBuildRouter_HealthWithoutProjects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := BuildRouter(RouterDeps{ServiceName: "portfolio-backend", Version: "test"})

	rec := do(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store":"disabled"`)
}
