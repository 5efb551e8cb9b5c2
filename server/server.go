// Package server exposes the api.Service over HTTP with gin.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bcdannyboy/optionpricer/api"
)

const jsonContentType = "application/json"

type Server struct {
	svc     *api.Service
	logger  *zap.Logger
	metrics *Metrics
	engine  *gin.Engine
}

// New builds the router. Operation routes live under /<majorVersion>;
// /metrics and /healthz are at the root.
func New(svc *api.Service, majorVersion string, logger *zap.Logger, metrics *Metrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	svc.OnCalibrationAttempt(metrics.ObserveAttempt)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(recovery(logger), requestLogger(logger, metrics))

	s := &Server{svc: svc, logger: logger, metrics: metrics, engine: r}

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v := r.Group("/" + majorVersion)
	{
		v.GET("/:model/parameters/parameter_ranges", s.parameterRanges)
		v.POST("/:model/calculator/:option_type/:sensitivity", s.calculator)
		v.POST("/:model/density", s.density)
		v.POST("/:model/riskmetric", s.riskMetric)
		v.POST("/:model/calibrator/call", s.calibrator)
	}
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is done, then drains in-flight requests for at
// most shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

func (s *Server) respond(c *gin.Context, body []byte, err error) {
	if err != nil {
		status, envelope := api.ErrorResponse(err)
		_ = c.Error(err)
		c.Data(status, jsonContentType, envelope)
		return
	}
	c.Data(http.StatusOK, jsonContentType, body)
}

func (s *Server) parameterRanges(c *gin.Context) {
	body, err := s.svc.ParameterRanges(c.Param("model"))
	s.respond(c, body, err)
}

func (s *Server) calculator(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		s.respond(c, nil, err)
		return
	}
	includeIV, err := api.ParseIncludeIV(c.Query(api.IncludeIVQuery))
	if err != nil {
		s.respond(c, nil, err)
		return
	}
	body, err := s.svc.Calculator(c.Param("model"), c.Param("option_type"), c.Param("sensitivity"), includeIV, raw)
	s.respond(c, body, err)
}

func (s *Server) density(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		s.respond(c, nil, err)
		return
	}
	body, err := s.svc.Density(c.Param("model"), raw)
	s.respond(c, body, err)
}

func (s *Server) riskMetric(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		s.respond(c, nil, err)
		return
	}
	body, err := s.svc.RiskMetric(c.Param("model"), raw)
	s.respond(c, body, err)
}

func (s *Server) calibrator(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		s.respond(c, nil, err)
		return
	}
	body, err := s.svc.Calibrator(c.Request.Context(), c.Param("model"), raw)
	s.respond(c, body, err)
}
