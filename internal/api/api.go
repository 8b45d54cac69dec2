package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"codeberg.org/arlest/sensorpub/internal/errors"
	"codeberg.org/arlest/sensorpub/internal/logger"
	"codeberg.org/arlest/sensorpub/internal/metrics"
	"codeberg.org/arlest/sensorpub/internal/schedule"
)

const readHeaderTimeout = 5 * time.Second

type Config struct {
	Listen string
}

func (c Config) Validate() error {
	errFactory := errors.New()
	if c.Listen == "" {
		return errFactory.New(ErrInvalidListen)
	}
	return nil
}

// Server exposes the sampling status over HTTP: health, prometheus metrics,
// per-sensor timing and pause/resume control.
type Server struct {
	cfg     Config
	ctrl    Controller
	runCtx  context.Context
	httpSrv *http.Server
}

func NewServer(cfg Config, ctrl Controller) (*Server, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidListen, err)
	}

	return &Server{
		cfg:  cfg,
		ctrl: ctrl,
	}, nil
}

// Handler builds the router. Exposed so tests can drive it without a listener.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/sensors", s.handleGetSensors)

		sched := v1.Group("/schedule")
		{
			sched.GET("", s.handleGetSchedule)
			sched.POST("/pause", s.handlePause)
			sched.POST("/resume", s.handleResume)
		}
	}

	return r
}

// Start binds the listen address and serves in the background. The context
// is kept as the lifetime for sampling resumed through the API.
func (s *Server) Start(ctx context.Context) error {
	errFactory := errors.New()

	s.runCtx = ctx
	s.httpSrv = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return errFactory.Wrap(ErrListenFailed, err)
	}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Status API server failed")
		}
	}()

	logger.Info().
		Str("listen", s.cfg.Listen).
		Msg("Status API listening")

	return nil
}

// Shutdown stops the server, waiting for in-flight requests up to the
// context deadline
func (s *Server) Shutdown(ctx context.Context) error {
	errFactory := errors.New()

	if s.httpSrv == nil {
		return nil
	}

	if err := s.httpSrv.Shutdown(ctx); err != nil {
		return errFactory.Wrap(ErrShutdownFailed, err)
	}

	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data: HealthResponse{
			Status:    "healthy",
			Sampling:  s.ctrl.Running(),
			Timestamp: time.Now().UTC(),
		},
	})
}

func (s *Server) handleGetSensors(c *gin.Context) {
	status := s.ctrl.Status()

	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data: SensorsResponse{
			Sensors: status.Items,
			Total:   len(status.Items),
		},
	})
}

func (s *Server) handleGetSchedule(c *gin.Context) {
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data:   s.ctrl.Status(),
	})
}

func (s *Server) handlePause(c *gin.Context) {
	s.ctrl.Stop()

	c.JSON(http.StatusOK, ApiResponse{
		Status:  "success",
		Message: "sampling paused",
		Data:    ScheduleStateResponse{Running: s.ctrl.Running()},
	})
}

func (s *Server) handleResume(c *gin.Context) {
	ctx := s.runCtx
	if ctx == nil {
		ctx = context.Background()
	}
	s.ctrl.Start(ctx)

	c.JSON(http.StatusOK, ApiResponse{
		Status:  "success",
		Message: "sampling resumed",
		Data:    ScheduleStateResponse{Running: s.ctrl.Running()},
	})
}

var _ Controller = (*schedule.Scheduler)(nil)
