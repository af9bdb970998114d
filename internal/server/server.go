// Package server exposes the HTTP API: uploads, review, invoice lifecycle,
// export and analytics.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/clarkhq/clark/internal/blob"
	"github.com/clarkhq/clark/internal/config"
	"github.com/clarkhq/clark/internal/export"
	invoicedomain "github.com/clarkhq/clark/internal/invoice/domain"
	"github.com/clarkhq/clark/internal/observability"
	"github.com/clarkhq/clark/internal/pipeline"
	"github.com/clarkhq/clark/internal/review"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return r
}

func registerGin(cfg config.Config, log *zap.Logger) *gin.Engine {
	return NewEngine(cfg, log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", srv.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	genID      *snowflake.Node
	store      blob.Store
	pipeline   *pipeline.Processor
	invoiceSvc invoicedomain.Service
	sessions   *review.Manager
	exporter   *export.Exporter
	metrics    *observability.Metrics
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	GenID      *snowflake.Node
	Store      blob.Store
	Pipeline   *pipeline.Processor
	InvoiceSvc invoicedomain.Service
	Sessions   *review.Manager
	Exporter   *export.Exporter
	Metrics    *observability.Metrics
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		genID:      p.GenID,
		store:      p.Store,
		pipeline:   p.Pipeline,
		invoiceSvc: p.InvoiceSvc,
		sessions:   p.Sessions,
		exporter:   p.Exporter,
		metrics:    p.Metrics,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")

	api.POST("/process-invoice", s.processInvoice)
	api.POST("/batch-upload", s.batchUpload)

	api.GET("/invoices", s.listInvoices)
	api.GET("/invoices/:id", s.getInvoice)
	api.POST("/invoices/:id/submit", s.submitInvoice)
	api.POST("/invoices/:id/verify", s.verifyInvoice)
	api.DELETE("/invoices/:id", s.deleteInvoice)

	api.GET("/invoices/:id/review", s.getReviewSession)
	api.PUT("/invoices/:id/review/fields/:key", s.setReviewField)
	api.PUT("/invoices/:id/review/page", s.setReviewPage)
	api.PUT("/invoices/:id/review/highlight", s.setReviewHighlight)

	api.GET("/file/:name", s.serveDocument)
	api.GET("/ai-responses/:name", s.serveAIResponse)

	api.POST("/export", s.exportInvoices)
	api.GET("/analytics/summary", s.analyticsSummary)
}
