// Package server exposes the workstation over HTTP with a gin API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	clog "github.com/itsrayland/pwx/pkg/log"
	"github.com/itsrayland/pwx/pkg/workstation"
)

// Server wraps the gin engine and the workstation it serves.
type Server struct {
	ws     *workstation.Workstation
	engine *gin.Engine
}

// New builds the API router. Every response uses the
// {"success": bool, ...} envelope.
func New(ws *workstation.Workstation) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	s := &Server{ws: ws, engine: engine}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/api/health", s.health)

	projects := s.engine.Group("/api/projects")
	projects.GET("", s.listProjects)
	projects.POST("", s.createProject)
	projects.GET("/:id", s.getProject)
	projects.DELETE("/:id", s.deleteProject)
	projects.POST("/:id/archive", s.archiveProject)
	projects.GET("/:id/history", s.projectHistory)
	projects.GET("/:id/metrics", s.projectMetrics)
	projects.GET("/:id/spec", s.projectSpec)
	projects.GET("/:id/validation", s.projectValidation)
	projects.GET("/:id/export", s.exportProject)
	projects.POST("/:id/media/analyze", s.analyzeMedia)

	templates := s.engine.Group("/api/templates")
	templates.GET("", s.listTemplates)
	templates.POST("/:id/render", s.renderTemplate)

	s.engine.POST("/api/workflows", s.executeWorkflow)
	s.engine.GET("/api/workflows/types", s.workflowTypes)
	s.engine.GET("/api/workflows/history", s.allHistory)
	s.engine.GET("/api/metrics", s.allMetrics)
}

// Handler returns the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		clog.Info("api server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		clog.Info("shutting down api server")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func ok(c *gin.Context, code int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(code, body)
}

func fail(c *gin.Context, code int, err error) {
	c.JSON(code, gin.H{"success": false, "error": err.Error()})
}
