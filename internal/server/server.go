package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vesaa/ragdeck/internal/assets"
	"github.com/vesaa/ragdeck/internal/config"
	"github.com/vesaa/ragdeck/internal/render"
)

// Server serves the deck pages, their assets and the admin API.
type Server struct {
	cfg      *config.Config
	log      *zap.Logger
	assets   *assets.Resolver
	renderer *render.Renderer
	auth     *Auth
	// store is nil when the render log is disabled.
	store *Store
}

// New wires a server. store may be nil.
func New(cfg *config.Config, log *zap.Logger, resolver *assets.Resolver, store *Store) (*Server, error) {
	auth, err := NewAuth(cfg.JWTSecret, cfg.AdminUser, cfg.AdminPass)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:      cfg,
		log:      log,
		assets:   resolver,
		renderer: render.New(resolver),
		auth:     auth,
		store:    store,
	}, nil
}

// Engine builds the gin engine with every route mounted under BaseURL.
func (s *Server) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	base := r.Group(s.cfg.BaseURL)
	s.registerPageRoutes(base)
	s.registerAPIRoutes(base)
	registerStatic(base)

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "page not found")
	})
	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("serving deck", zap.String("addr", "http://"+s.cfg.Addr()+s.cfg.BaseURL+"/"))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr(), err)
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
