package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func setupStaticRouter(t *testing.T) *gin.Engine {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), "<h1>TechHelpSeniors</h1>")
	writeFile(t, filepath.Join(root, "css", "site.css"), "body{}")
	writeFile(t, filepath.Join(root, "apikey.txt"), "secret")
	writeFile(t, filepath.Join(root, "data", "reviews.json"), "[]")
	writeFile(t, filepath.Join(root, ".env"), "API_BASE=x")
	writeFile(t, filepath.Join(filepath.Dir(root), "outside.txt"), "outside")

	h, err := NewStaticHandler(root, filepath.Join(root, "apikey.txt"), filepath.Join(root, "data", "reviews.json"))
	require.NoError(t, err)

	r := newTestRouter()
	r.GET("/", h.ServeIndex)
	r.NoRoute(h.ServeAsset)
	return r
}

func TestStaticHandler(t *testing.T) {
	r := setupStaticRouter(t)

	tests := []struct {
		name         string
		method       string
		path         string
		expectedCode int
		expectedBody string
	}{
		{"index", http.MethodGet, "/", http.StatusOK, "<h1>TechHelpSeniors</h1>"},
		{"index by name", http.MethodGet, "/index.html", http.StatusOK, "<h1>TechHelpSeniors</h1>"},
		{"nested asset", http.MethodGet, "/css/site.css", http.StatusOK, "body{}"},
		{"missing asset", http.MethodGet, "/js/app.js", http.StatusNotFound, `{"error":"Not found"}`},
		{"directory", http.MethodGet, "/css", http.StatusNotFound, `{"error":"Not found"}`},
		{"api key file", http.MethodGet, "/apikey.txt", http.StatusNotFound, `{"error":"Not found"}`},
		{"reviews file", http.MethodGet, "/data/reviews.json", http.StatusNotFound, `{"error":"Not found"}`},
		{"dotfile", http.MethodGet, "/.env", http.StatusNotFound, `{"error":"Not found"}`},
		{"traversal", http.MethodGet, "/../outside.txt", http.StatusNotFound, `{"error":"Not found"}`},
		{"wrong method", http.MethodPost, "/css/site.css", http.StatusMethodNotAllowed, `{"error":"Method not allowed"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.expectedCode, w.Code)
			if w.Code == http.StatusOK {
				assert.Equal(t, tt.expectedBody, w.Body.String())
				return
			}
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestStaticHandler_ContentType(t *testing.T) {
	r := setupStaticRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/css/site.css", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
}

func TestNewStaticHandler_InvalidRoot(t *testing.T) {
	_, err := NewStaticHandler(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "index.html")
	writeFile(t, file, "x")
	_, err = NewStaticHandler(file)
	assert.Error(t, err)
}
