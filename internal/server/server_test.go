package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vesaa/ragdeck/internal/assets"
	"github.com/vesaa/ragdeck/internal/config"
	"github.com/vesaa/ragdeck/internal/deck"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	srv    *Server
	engine *gin.Engine
	store  *Store
	fs     afero.Fs
}

func newFixture(t *testing.T, baseURL string, images ...string) *fixture {
	t.Helper()

	mem := afero.NewMemMapFs()
	for _, img := range images {
		require.NoError(t, afero.WriteFile(mem, "/deck/"+img, []byte("jpeg:"+img), 0o644))
	}
	resolver := assets.New(mem, "/deck", baseURL+"/assets")

	store, err := OpenStore(filepath.Join(t.TempDir(), "ragdeck.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{
		BaseURL:   baseURL,
		AssetDir:  "/deck",
		JWTSecret: "test-secret",
		AdminUser: "admin",
		AdminPass: "hunter2",
	}
	srv, err := New(cfg, zap.NewNop(), resolver, store)
	require.NoError(t, err)
	return &fixture{srv: srv, engine: srv.Engine(), store: store, fs: mem}
}

func allImages() []string {
	return []string{deck.ImageModels, deck.ImageChatGPT, deck.ImageLangChain}
}

func (f *fixture) do(method, target string, body []byte, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) get(target string) *httptest.ResponseRecorder {
	return f.do(http.MethodGet, target, nil, nil)
}

func TestServeDeck(t *testing.T) {
	f := newFixture(t, "", allImages()...)

	rec := f.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `<h1 class="title">How to Build a RAG System</h1>`)
	assert.Contains(t, body, "<h3>프로젝트 개요</h3>")
	assert.Contains(t, body, "<h3>만드는 방법</h3>")
	assert.Contains(t, body, `src="/assets/`+url.PathEscape(deck.ImageLangChain)+`"`)
	assert.NotContains(t, body, "render-error")
}

func TestServeDeckIsIdempotent(t *testing.T) {
	f := newFixture(t, "", allImages()...)

	first := f.get("/").Body.String()
	second := f.get("/").Body.String()
	assert.Equal(t, first, second)
}

func TestServePageModule(t *testing.T) {
	f := newFixture(t, "")

	rec := f.get("/pages/overview")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "|프로젝트 개요")
	assert.NotContains(t, rec.Body.String(), "<img")

	assert.Equal(t, http.StatusNotFound, f.get("/pages/nope").Code)
}

func TestServeMissingAsset(t *testing.T) {
	f := newFixture(t, "", deck.ImageModels, deck.ImageChatGPT)

	rec := f.get("/")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `class="render-error"`)
	assert.Contains(t, body, deck.ImageLangChain)
	assert.Contains(t, body, "<h3>만드는 방법</h3>")
	assert.NotContains(t, body, "block-figure")

	stats, err := f.store.Stats()
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "rag", stats[0].Page)
	assert.Equal(t, int64(1), stats[0].Failures)
	assert.Contains(t, stats[0].LastError, deck.ImageLangChain)
}

func TestServeAssets(t *testing.T) {
	f := newFixture(t, "", allImages()...)

	rec := f.get("/assets/" + url.PathEscape(deck.ImageChatGPT))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg:"+deck.ImageChatGPT, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, f.get("/assets/missing.jpg").Code)
	assert.Equal(t, http.StatusNotFound, f.get("/assets/").Code)
}

func TestServeStylesheet(t *testing.T) {
	f := newFixture(t, "")

	rec := f.get("/static/page.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/css"))
	assert.Contains(t, rec.Body.String(), ".sidebar")
}

func TestServeUnderBaseURL(t *testing.T) {
	f := newFixture(t, "/deck", allImages()...)

	rec := f.get("/deck/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/deck/static/page.css"`)
	assert.Contains(t, rec.Body.String(), `src="/deck/assets/`)

	assert.Equal(t, http.StatusOK, f.get("/deck/assets/"+url.PathEscape(deck.ImageModels)).Code)
	assert.Equal(t, http.StatusNotFound, f.get("/elsewhere").Code)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, "", allImages()...)

	rec := f.get("/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string     `json:"status"`
		Missing []string   `json:"missing_assets"`
		Host    HostStatus `json:"host"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Empty(t, body.Missing)
	assert.NotEmpty(t, body.Host.OS)
}

func TestHealthDegraded(t *testing.T) {
	f := newFixture(t, "", deck.ImageChatGPT)

	rec := f.get("/api/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status  string   `json:"status"`
		Missing []string `json:"missing_assets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.ElementsMatch(t, []string{deck.ImageModels, deck.ImageLangChain}, body.Missing)
}

func TestPagesList(t *testing.T) {
	f := newFixture(t, "")

	rec := f.get("/api/pages")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []pageInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 4)
	assert.Equal(t, pageInfo{Slug: "rag", Title: deck.DeckTitle, Blocks: 10, Images: 3}, body.Data[0])
}

func login(t *testing.T, f *fixture, user, pass string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"username": user, "password": pass})
	require.NoError(t, err)
	return f.do(http.MethodPost, "/api/login", payload, map[string]string{"Content-Type": "application/json"})
}

func TestLoginAndStats(t *testing.T) {
	f := newFixture(t, "", allImages()...)

	assert.Equal(t, http.StatusUnauthorized, login(t, f, "admin", "wrong").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/login", []byte("{}"), nil).Code)

	rec := login(t, f, "admin", "hunter2")
	require.Equal(t, http.StatusOK, rec.Code)
	var tok struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.Token)

	assert.Equal(t, http.StatusUnauthorized, f.get("/api/stats").Code)
	assert.Equal(t, http.StatusUnauthorized,
		f.do(http.MethodGet, "/api/stats", nil, map[string]string{"Authorization": "Bearer nope"}).Code)

	f.get("/")
	f.get("/")
	f.get("/pages/howto")

	rec = f.do(http.MethodGet, "/api/stats", nil, map[string]string{"Authorization": "Bearer " + tok.Token})
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		Data []struct {
			Page     string `json:"page"`
			Renders  int64  `json:"renders"`
			Failures int64  `json:"failures"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Len(t, stats.Data, 2)
	assert.Equal(t, "howto", stats.Data[0].Page)
	assert.Equal(t, int64(1), stats.Data[0].Renders)
	assert.Equal(t, "rag", stats.Data[1].Page)
	assert.Equal(t, int64(2), stats.Data[1].Renders)
	assert.Zero(t, stats.Data[1].Failures)
}

func TestStatsWithoutStore(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s", AdminUser: "admin", AdminPass: "pw"}
	srv, err := New(cfg, zap.NewNop(), assets.New(afero.NewMemMapFs(), "/deck", "/assets"), nil)
	require.NoError(t, err)

	token, err := srv.auth.GenerateJWT("admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
