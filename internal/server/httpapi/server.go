// Package httpapi exposes the JSON surface of the delivery platform: the
// admin upload pipeline and the client gallery.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumeshot/lumeshot/internal/logging"
	"github.com/lumeshot/lumeshot/internal/server/admins"
	"github.com/lumeshot/lumeshot/internal/server/auth"
	"github.com/lumeshot/lumeshot/internal/server/clients"
	"github.com/lumeshot/lumeshot/internal/server/config"
	"github.com/lumeshot/lumeshot/internal/server/gallery"
	"github.com/lumeshot/lumeshot/internal/server/projects"
	"github.com/lumeshot/lumeshot/internal/server/upload"
)

const shutdownTimeout = 10 * time.Second

// Services bundles the domain services the HTTP layer dispatches into.
type Services struct {
	Admins     *admins.Service
	Clients    *clients.Service
	Projects   *projects.Service
	Upload     *upload.Service
	Reconciler *upload.Reconciler
	Gallery    *gallery.Service
}

type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	logger     logging.Logger
	jwtSecret  []byte
	svc        Services
}

func NewServer(cfg *config.Config, svc Services, logger logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())

	s := &Server{
		engine:    engine,
		logger:    logger,
		jwtSecret: []byte(cfg.SecretKey),
		svc:       svc,
	}
	s.httpServer = &http.Server{
		Addr:    cfg.EndpointAddrHTTP,
		Handler: engine,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.engine.Group("/api")

	api.GET("/health", s.handleHealth)

	admin := api.Group("/admin")
	admin.POST("/signin", s.handleAdminSignin)
	admin.POST("/register", s.handleAdminRegister)
	authed := admin.Group("", s.requireRole(auth.RoleAdmin))
	{
		authed.POST("/projects", s.handleCreateProject)
		authed.POST("/clients", s.handleCreateClient)
		authed.POST("/uploads/generate", s.handleGenerateUploads)
		authed.POST("/uploads/complete", s.handleCompleteUploads)
		authed.GET("/uploads/:sessionId", s.handleUploadStatus)
	}

	client := api.Group("/client")
	client.POST("/signin", s.handleClientSignin)
	viewer := client.Group("", s.requireRole(auth.RoleClient))
	{
		viewer.GET("/gallery", s.handleGallery)
		viewer.POST("/interactions", s.handleInteractions)
		viewer.POST("/access", s.handleGrantAccess)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
