// Package httpapi exposes the user and profile services as a JSON REST API
// built on gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/services"
	"github.com/gin-gonic/gin"
)

type Server struct {
	address         string
	users           *services.UserService
	profiles        *services.ProfileService
	logger          logging.Logger
	shutdownTimeout time.Duration
	engine          *gin.Engine
}

func NewServer(a string, l logging.Logger, us *services.UserService, ps *services.ProfileService, shutdownTimeout time.Duration) *Server {
	s := &Server{
		address:         a,
		users:           us,
		profiles:        ps,
		logger:          l.With("module", "http_server"),
		shutdownTimeout: shutdownTimeout,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.requestLogger(), s.recovery())

	r.GET("/", s.welcome)

	u := r.Group("/users")
	u.POST("", s.createUser)
	u.GET("", s.listUsers)
	u.GET("/:id", s.getUser)
	u.PATCH("/:id", s.updateUser)
	u.DELETE("/:id", s.deleteUser)
	u.GET("/:id/profile", s.getUserProfile)

	p := r.Group("/profiles")
	p.POST("", s.createProfile)
	p.GET("", s.listProfiles)
	p.GET("/:id", s.getProfile)
	p.PATCH("/:id", s.updateProfile)
	p.DELETE("/:id", s.deleteProfile)

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}

func (s *Server) welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the accounts service"})
}
