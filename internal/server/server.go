package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/genesispos/contable/internal/account"
	accountdomain "github.com/genesispos/contable/internal/account/domain"
	"github.com/genesispos/contable/internal/config"
	"github.com/genesispos/contable/internal/costcenter"
	costdomain "github.com/genesispos/contable/internal/costcenter/domain"
	"github.com/genesispos/contable/internal/investment"
	investmentdomain "github.com/genesispos/contable/internal/investment/domain"
	"github.com/genesispos/contable/internal/journal"
	journaldomain "github.com/genesispos/contable/internal/journal/domain"
	obsmetrics "github.com/genesispos/contable/internal/observability/metrics"
	"github.com/genesispos/contable/internal/posdata"
	posdomain "github.com/genesispos/contable/internal/posdata/domain"
	"github.com/genesispos/contable/internal/reporting"
	reportingdomain "github.com/genesispos/contable/internal/reporting/domain"
	"github.com/genesispos/contable/internal/settings"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	fx.Provide(registerGin),
	settings.Module,
	account.Module,
	journal.Module,
	investment.Module,
	costcenter.Module,
	posdata.Module,
	reporting.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, metrics *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(obsmetrics.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, metrics *obsmetrics.Metrics) *gin.Engine {
	return NewEngine(log, metrics)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	accountSvc    accountdomain.Service
	journalSvc    journaldomain.Service
	investmentSvc investmentdomain.Service
	costSvc       costdomain.Service
	posSvc        posdomain.Service
	reportingSvc  reportingdomain.Service
	settingsSvc   settings.Service
	metrics       *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	AccountSvc    accountdomain.Service
	JournalSvc    journaldomain.Service
	InvestmentSvc investmentdomain.Service
	CostSvc       costdomain.Service
	PosSvc        posdomain.Service
	ReportingSvc  reportingdomain.Service
	SettingsSvc   settings.Service
	Metrics       *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		accountSvc:    p.AccountSvc,
		journalSvc:    p.JournalSvc,
		investmentSvc: p.InvestmentSvc,
		costSvc:       p.CostSvc,
		posSvc:        p.PosSvc,
		reportingSvc:  p.ReportingSvc,
		settingsSvc:   p.SettingsSvc,
		metrics:       p.Metrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Chart of accounts --------
	api.GET("/accounts", s.ListAccounts)
	api.POST("/accounts", s.CreateAccount)
	api.GET("/accounts/:id", s.GetAccountByID)
	api.PUT("/accounts/:id", s.UpdateAccount)
	api.DELETE("/accounts/:id", s.DeleteAccount)

	// -------- Journal --------
	api.GET("/journal-entries", s.ListJournalEntries)
	api.POST("/journal-entries", s.PostJournalEntry)
	api.GET("/journal-entries/:id", s.GetJournalEntryByID)
	api.POST("/journal-entries/:id/reverse", s.ReverseJournalEntry)
	api.POST("/accounting-period/close", s.ClosePeriod)
	api.POST("/accounting-period/open", s.OpenPeriod)

	// -------- Investment --------
	api.GET("/investment", s.GetInvestment)
	api.POST("/investment", s.SaveInvestment)
	api.PUT("/investment", s.SaveInvestment)
	api.POST("/investment/amortizations", s.RecordAmortization)
	api.GET("/investment/progress", s.GetInvestmentProgress)

	// -------- Cost centers and plans --------
	api.GET("/cost-centers", s.ListCostCenters)
	api.POST("/cost-centers", s.CreateCostCenter)
	api.GET("/cost-centers/totals", s.GetCenterTotals)
	api.PUT("/cost-centers/:id", s.UpdateCostCenter)
	api.DELETE("/cost-centers/:id", s.DeleteCostCenter)
	api.GET("/cost-allocations", s.ListCostAllocations)
	api.POST("/cost-allocations", s.CreateCostAllocation)
	api.DELETE("/cost-allocations/:id", s.DeleteCostAllocation)
	api.GET("/cost-plans", s.ListCostPlans)
	api.POST("/cost-plans", s.CreateCostPlan)
	api.PUT("/cost-plans/:id", s.UpdateCostPlan)
	api.DELETE("/cost-plans/:id", s.DeleteCostPlan)
	api.GET("/cost-plans/:id/actuals", s.GetCostPlanActuals)

	// -------- Reports --------
	api.GET("/reports/balance-sheet", s.GetBalanceSheet)
	api.GET("/reports/income-statement", s.GetIncomeStatement)
	api.GET("/reports/series", s.GetSeries)
	api.GET("/reports/cost-by-product", s.GetCostByProduct)
	api.GET("/reports/projections", s.GetProjections)

	// -------- POS ingest --------
	api.POST("/sales", s.IngestSale)
	api.POST("/expenses", s.IngestExpense)
	api.GET("/products", s.ListPOSProducts)
	api.POST("/products", s.CreatePOSProduct)
	api.POST("/production-movements", s.IngestProductionMovement)
}
