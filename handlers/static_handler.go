package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/TechHelpSeniors/techhelp-proxy/errors"
	"github.com/TechHelpSeniors/techhelp-proxy/logger"
	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const indexFile = "index.html"

// StaticHandler serves the site's pages and assets from a root directory.
// Paths are resolved inside the root, symlinks included. Dotfiles and the
// hidden files (the API key and the reviews file) answer 404.
type StaticHandler struct {
	root   string
	hidden []string
	log    *zap.SugaredLogger
}

// NewStaticHandler serves files under root. hidden lists files that must
// never be served even when they live under root; they need not exist yet.
func NewStaticHandler(root string, hidden ...string) (*StaticHandler, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static root %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("static root %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static root %s is not a directory", absRoot)
	}

	h := &StaticHandler{
		root: absRoot,
		log:  logger.GetLogger().Named("static"),
	}
	for _, p := range hidden {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve hidden file %s: %w", p, err)
		}
		h.hidden = append(h.hidden, abs)
	}
	return h, nil
}

// ServeIndex serves the entry page.
func (h *StaticHandler) ServeIndex(c *gin.Context) {
	h.serve(c, indexFile)
}

// ServeAsset serves the file named by the request path. It is installed as
// the router's NoRoute handler, so it also sees unknown API paths.
func (h *StaticHandler) ServeAsset(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		_ = c.Error(errors.MethodNotAllowed())
		return
	}
	h.serve(c, strings.TrimPrefix(c.Request.URL.Path, "/"))
}

func (h *StaticHandler) serve(c *gin.Context, rel string) {
	if rel == "" {
		rel = indexFile
	}

	for _, segment := range strings.Split(rel, "/") {
		if strings.HasPrefix(segment, ".") {
			h.notFound(c, rel)
			return
		}
	}

	full, err := securejoin.SecureJoin(h.root, rel)
	if err != nil {
		h.log.Warnw("Rejected static path", "path", rel, "error", err)
		h.notFound(c, rel)
		return
	}

	f, err := os.Open(full)
	if err != nil {
		h.notFound(c, rel)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() || h.isHidden(info) {
		h.notFound(c, rel)
		return
	}

	// ServeContent rather than c.File: http.ServeFile redirects /index.html.
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}

func (h *StaticHandler) isHidden(info os.FileInfo) bool {
	for _, p := range h.hidden {
		hiddenInfo, err := os.Stat(p)
		if err == nil && os.SameFile(info, hiddenInfo) {
			return true
		}
	}
	return false
}

func (h *StaticHandler) notFound(c *gin.Context, rel string) {
	h.log.Debugw("Static file not found", "path", rel)
	_ = c.Error(errors.NotFound("Not found"))
}
