// Package http provides the HTTP server adapter for the application
// layer. It is a thin layer that translates requests to application
// service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/intersul/copimanager/internal/application/service"
	"github.com/intersul/copimanager/internal/auth"
	"github.com/intersul/copimanager/internal/domain/entity"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host          string
	Port          int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	MaxUploadSize int64
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:          "0.0.0.0",
		Port:          8080,
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  30 * time.Second,
		MaxUploadSize: 10 << 20,
	}
}

// Services bundles the application services the server exposes
type Services struct {
	Auth     service.AuthService
	Client   service.ClientService
	Catalog  service.CatalogService
	Machine  service.MachineService
	Workflow service.WorkflowService
	Annex    service.AnnexService
	Supply   service.SupplyService
	Category service.CategoryService
	Report   service.ReportService
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	tokens     *auth.TokenManager
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, tokens *auth.TokenManager, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.MaxMultipartMemory = config.MaxUploadSize

	server := &Server{
		config:   config,
		router:   router,
		services: services,
		tokens:   tokens,
		logger:   logger,
	}

	registerValidators()
	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.services, s.logger)

	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api")

	// Public endpoints
	api.POST("/auth/login", handlers.Login)
	api.POST("/auth/register", handlers.Register)

	// Everything else requires a valid token
	authd := api.Group("", auth.Middleware(s.tokens))
	{
		authd.GET("/users", handlers.ListUsers)
		authd.GET("/users/:id", handlers.GetUser)
		authd.PATCH("/users/:id", auth.RequireRole(entity.RoleAdmin, entity.RoleManager), handlers.UpdateUser)
		authd.PATCH("/users/:id/active", auth.RequireRole(entity.RoleAdmin, entity.RoleManager), handlers.SetUserActive)

		authd.POST("/clients", handlers.CreateClient)
		authd.GET("/clients", handlers.ListClients)
		authd.GET("/clients/:id", handlers.GetClient)
		authd.PUT("/clients/:id", handlers.UpdateClient)
		authd.DELETE("/clients/:id", handlers.DeleteClient)

		authd.POST("/catalog", handlers.CreateCatalogMachine)
		authd.GET("/catalog", handlers.ListCatalogMachines)
		authd.GET("/catalog/:id", handlers.GetCatalogMachine)
		authd.PUT("/catalog/:id", handlers.UpdateCatalogMachine)
		authd.DELETE("/catalog/:id", handlers.DeleteCatalogMachine)
		authd.POST("/catalog/:id/datasheet", handlers.UploadDatasheet)
		authd.GET("/catalog/:id/datasheet", handlers.DownloadDatasheet)

		authd.POST("/machines", handlers.CreateClientMachine)
		authd.GET("/machines", handlers.ListClientMachines)
		authd.GET("/machines/:id", handlers.GetClientMachine)
		authd.PUT("/machines/:id", handlers.UpdateClientMachine)
		authd.DELETE("/machines/:id", handlers.DeleteClientMachine)

		authd.POST("/services/maintenance", handlers.CreateMaintenance)
		authd.GET("/services", handlers.ListServices)
		authd.GET("/services/:id", handlers.GetService)
		authd.DELETE("/services/:id", handlers.DeleteService)
		authd.GET("/services/:id/steps", handlers.ListSteps)
		authd.GET("/reports/services", handlers.ServicesReport)

		authd.GET("/steps/:id", handlers.GetStep)
		authd.PATCH("/steps/:id/status", handlers.UpdateStepStatus)
		authd.PATCH("/steps/:id/assign", handlers.AssignEmployee)
		authd.PATCH("/steps/:id/notes", handlers.UpdateStepNotes)
		authd.POST("/steps/:id/approval", handlers.CreateApproval)
		authd.GET("/steps/:id/approval", handlers.GetApproval)
		authd.POST("/steps/:id/images", handlers.AttachStepImage)
		authd.GET("/steps/:id/images", handlers.ListStepImages)
		authd.GET("/steps/:id/images/:imageID", handlers.DownloadStepImage)

		authd.POST("/supplies", handlers.CreateSupply)
		authd.GET("/supplies", handlers.ListSupplies)
		authd.GET("/supplies/:id", handlers.GetSupply)
		authd.PUT("/supplies/:id", handlers.UpdateSupply)
		authd.PATCH("/supplies/:id/stock", handlers.AdjustStock)
		authd.DELETE("/supplies/:id", handlers.DeleteSupply)

		authd.POST("/categories", handlers.CreateCategory)
		authd.GET("/categories", handlers.ListCategories)
		authd.GET("/categories/:id", handlers.GetCategory)
		authd.PUT("/categories/:id", handlers.UpdateCategory)
		authd.DELETE("/categories/:id", handlers.DeleteCategory)
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
