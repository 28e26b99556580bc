package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/beacon/internal/advisingnote"
	advisingnotedomain "github.com/opencampus/beacon/internal/advisingnote/domain"
	"github.com/opencampus/beacon/internal/config"
	obsmetrics "github.com/opencampus/beacon/internal/observability/metrics"
	"github.com/opencampus/beacon/internal/providers/ai"
	"github.com/opencampus/beacon/internal/risk"
	riskdomain "github.com/opencampus/beacon/internal/risk/domain"
	"github.com/opencampus/beacon/internal/student"
	studentdomain "github.com/opencampus/beacon/internal/student/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	ai.Module,
	student.Module,
	risk.Module,
	advisingnote.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, m *obsmetrics.Metrics, reg *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	return r
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	db         *gorm.DB
	log        *zap.Logger
	studentSvc studentdomain.Service
	riskSvc    riskdomain.Service
	noteSvc    advisingnotedomain.Service
}

type ServerParams struct {
	fx.In

	Engine     *gin.Engine
	Cfg        config.Config
	DB         *gorm.DB
	Log        *zap.Logger
	StudentSvc studentdomain.Service
	RiskSvc    riskdomain.Service
	NoteSvc    advisingnotedomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:     p.Engine,
		cfg:        p.Cfg,
		db:         p.DB,
		log:        p.Log.Named("http.server"),
		studentSvc: p.StudentSvc,
		riskSvc:    p.RiskSvc,
		noteSvc:    p.NoteSvc,
	}
}

func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/students", s.ListStudents)
	api.GET("/students/:id", s.GetStudent)
	api.GET("/students/:id/risk", s.GetStudentRisk)
	api.GET("/students/:id/notes", s.ListNotes)
	api.POST("/students/:id/notes", s.CreateNote)

	api.POST("/predictions", s.PredictRisk)
}

func registerRoutes(s *Server) {
	s.RegisterAPIRoutes()
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
