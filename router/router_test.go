package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TechHelpSeniors/techhelp-proxy/config"
	"github.com/TechHelpSeniors/techhelp-proxy/handlers"
	"github.com/TechHelpSeniors/techhelp-proxy/internal/store/file"
	"github.com/TechHelpSeniors/techhelp-proxy/internal/upstream"
	"github.com/TechHelpSeniors/techhelp-proxy/logger"
	"github.com/TechHelpSeniors/techhelp-proxy/services"
	"github.com/TechHelpSeniors/techhelp-proxy/types"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.IsTest = true
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testEnv struct {
	router        *gin.Engine
	root          string
	apiKeyFile    string
	upstreamCalls *atomic.Int32
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	var calls atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("X-API-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":"invalid api key"}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":true,"id":"req-42"}`)
	}))
	t.Cleanup(api.Close)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>Home</h1>"), 0o644))
	apiKeyFile := filepath.Join(root, "apikey.txt")
	require.NoError(t, os.WriteFile(apiKeyFile, []byte("test-key\n"), 0o600))
	reviewsFile := filepath.Join(root, "data", "reviews.json")

	cfg := &config.Config{
		Server: config.ServerConfig{
			Environment:    config.EnvDevelopment,
			Port:           "3000",
			AllowedOrigins: []string{"*"},
			Version:        "test",
			StaticDir:      root,
		},
	}

	reg := prometheus.NewRegistry()
	metrics := services.NewProxyMetrics(reg)
	secrets := config.NewSecretLoader(apiKeyFile)
	client := upstream.NewClient(api.URL, upstream.WithHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	reviewStore := file.NewReviewStore(reviewsFile)

	static, err := handlers.NewStaticHandler(root, apiKeyFile, reviewsFile)
	require.NoError(t, err)

	r := SetupRouter(Dependencies{
		Config:            cfg,
		SubmissionHandler: handlers.NewSubmissionHandler(services.NewSubmissionService(secrets, client, metrics)),
		ReviewHandler:     handlers.NewReviewHandler(services.NewReviewService(reviewStore, metrics)),
		HealthHandler:     handlers.NewHealthHandler(services.NewHealthService(nil, secrets, "test")),
		StaticHandler:     static,
		MetricsGatherer:   reg,
	})

	return &testEnv{router: r, root: root, apiKeyFile: apiKeyFile, upstreamCalls: &calls}
}

func (e *testEnv) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestReviewRoundTrip(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodPost, "/api/review", url.Values{
		"name":   {"Ana"},
		"text":   {"Great help"},
		"rating": {"5"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Thank you for your review!"}`, w.Body.String())

	w = env.do(http.MethodPost, "/api/review", url.Values{
		"reviewerName": {"Bo"},
		"reviewText":   {"Fixed my email"},
		"rating":       {"7"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/reviews", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reviews []types.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviews))
	require.Len(t, reviews, 2)
	assert.Equal(t, "Ana", reviews[0].Name)
	assert.Equal(t, 5, reviews[0].Rating)
	_, err := time.Parse(types.ReviewDateLayout, reviews[0].Date)
	assert.NoError(t, err)
	assert.Equal(t, "Bo", reviews[1].Name)
	assert.Equal(t, 5, reviews[1].Rating)
}

func TestReviewValidation(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodPost, "/api/review", url.Values{"name": {"Ana"}, "text": {"  "}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Please enter your review."}`, w.Body.String())
}

func TestSubmitInvalidEmailSkipsUpstream(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodPost, "/api/submit", url.Values{
		"email": {"bad"},
		"phone": {"(555) 123-4567"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Please enter a valid email address."}`, w.Body.String())
	assert.Equal(t, int32(0), env.upstreamCalls.Load())
}

func TestSubmitRelaysUpstream(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodPost, "/api/submit", url.Values{
		"firstName": {"Ana"},
		"email":     {"ana@example.com"},
		"phone":     {"(555) 123-4567"},
		"message":   {"My tablet will not connect to wifi"},
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"id":"req-42"}`, w.Body.String())
	assert.Equal(t, int32(1), env.upstreamCalls.Load())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSubmitMissingAPIKey(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, os.Remove(env.apiKeyFile))

	w := env.do(http.MethodPost, "/api/submit", url.Values{
		"email": {"ana@example.com"},
		"phone": {"5551234567"},
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"`+config.MissingAPIKeyMessage+`"}`, w.Body.String())
	assert.Equal(t, int32(0), env.upstreamCalls.Load())
}

func TestMethodNotAllowed(t *testing.T) {
	env := setupTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/submit"},
		{http.MethodGet, "/api/review"},
		{http.MethodPost, "/api/reviews"},
		{http.MethodPost, "/index.html"},
	} {
		w := env.do(tc.method, tc.path, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, tc.method+" "+tc.path)
		assert.JSONEq(t, `{"error":"Method not allowed"}`, w.Body.String())
	}
}

func TestStaticRoutes(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<h1>Home</h1>", w.Body.String())
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	w = env.do(http.MethodGet, "/apikey.txt", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "test-key")

	w = env.do(http.MethodGet, "/missing.css", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"UP"`)

	env.do(http.MethodPost, "/api/review", url.Values{"name": {"Ana"}, "text": {"Great help"}})

	w = env.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `techhelp_reviews_total{outcome="saved"} 1`)
}
