// Package server provides the ragdeck Gin-based HTTP surface.
// Routes are split into two groups:
//   - Pages: the rendered deck, its page modules and their images.
//   - API:   health and page listing (public), render stats (JWT).
package server

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vesaa/ragdeck/internal/deck"
	"github.com/vesaa/ragdeck/internal/models"
	"github.com/vesaa/ragdeck/internal/render"
)

func (s *Server) registerPageRoutes(rg *gin.RouterGroup) {
	rg.GET("/", s.handlePage)
	rg.GET("/pages/:slug", s.handlePage)
	rg.GET("/assets/*filepath", s.handleAsset)
}

// registerAPIRoutes wires up the JSON API.
//
//	Public:          POST /api/login, GET /api/health, GET /api/pages
//	Protected (JWT): GET /api/stats
func (s *Server) registerAPIRoutes(rg *gin.RouterGroup) {
	api := rg.Group("/api")

	api.POST("/login", s.handleLogin)
	api.GET("/health", s.handleHealth)
	api.GET("/pages", handlePages)

	auth := api.Group("/", s.auth.JWTMiddleware())
	{
		auth.GET("/stats", s.handleStats)
	}
}

// ── Handlers ──────────────────────────────────────────────────────────────────

// handlePage renders a page. A render that stops on a missing asset still
// returns everything emitted before it, followed by the error, with 500.
func (s *Server) handlePage(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		slug = deck.DefaultSlug
	}
	page, ok := deck.Lookup(slug)
	if !ok {
		c.String(http.StatusNotFound, "page not found")
		return
	}

	start := time.Now()
	res, renderErr := s.renderer.Render(page)
	s.record(page.Slug(), res, renderErr, time.Since(start))

	status := http.StatusOK
	if renderErr != nil {
		status = http.StatusInternalServerError
		s.log.Error("render failed", zap.String("page", page.Slug()), zap.Error(renderErr))
	}

	var buf bytes.Buffer
	opts := render.DocumentOptions{BaseURL: s.cfg.BaseURL, Failure: renderErr}
	if err := render.WriteDocument(&buf, res, opts); err != nil {
		s.log.Error("writing document", zap.String("page", page.Slug()), zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to write page")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) record(slug string, res *render.Result, renderErr error, took time.Duration) {
	if s.store == nil {
		return
	}
	ev := &models.RenderEvent{
		Page:           slug,
		OK:             renderErr == nil,
		DurationMicros: took.Microseconds(),
	}
	if res != nil {
		ev.Blocks = len(res.Elements)
	}
	if renderErr != nil {
		ev.Error = renderErr.Error()
	}
	if err := s.store.Record(ev); err != nil {
		s.log.Warn("recording render", zap.Error(err))
	}
}

// handleAsset serves an image from the asset dir. Only names the resolver
// accepts are served; directories are never listed.
func (s *Server) handleAsset(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filepath"), "/")
	located, err := s.assets.Locate(name)
	if err != nil {
		c.String(http.StatusNotFound, "asset not found")
		return
	}
	c.FileFromFS(located, s.assets.FileSystem())
}

// handleLogin accepts username + password and returns a signed JWT.
//
//	POST /api/login
//	Body: { "username": "admin", "password": "admin" }
func (s *Server) handleLogin(c *gin.Context) {
	var body struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}

	if !s.auth.Verify(body.Username, body.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := s.auth.GenerateJWT(body.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_in": int(tokenTTL.Seconds()),
		"type":       "Bearer",
	})
}

// handleHealth reports host status and every image that does not resolve.
// It answers 503 while any asset is missing.
func (s *Server) handleHealth(c *gin.Context) {
	missing := s.missingAssets()

	status, code := "ok", http.StatusOK
	if len(missing) > 0 {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":         status,
		"time":           time.Now().UTC(),
		"asset_dir":      s.assets.BaseDir(),
		"missing_assets": missing,
		"host":           collectHost(),
	})
}

func (s *Server) missingAssets() []string {
	missing := []string{}
	seen := make(map[string]bool)
	for _, p := range deck.Pages() {
		for _, img := range p.Images() {
			if seen[img.Path] {
				continue
			}
			seen[img.Path] = true
			if _, err := s.assets.Resolve(img.Path); err != nil {
				missing = append(missing, img.Path)
			}
		}
	}
	return missing
}

type pageInfo struct {
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Blocks int    `json:"blocks"`
	Images int    `json:"images"`
}

// handlePages lists every page module.
func handlePages(c *gin.Context) {
	pages := deck.Pages()
	out := make([]pageInfo, 0, len(pages))
	for _, p := range pages {
		out = append(out, pageInfo{
			Slug:   p.Slug(),
			Title:  p.Title(),
			Blocks: p.Len(),
			Images: len(p.Images()),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// handleStats returns per-page render counts from the render log.
func (s *Server) handleStats(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "render log disabled"})
		return
	}
	stats, err := s.store.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}
