package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/cloudslip/internal/additionalcharge"
	chargedomain "github.com/smallbiznis/cloudslip/internal/additionalcharge/domain"
	"github.com/smallbiznis/cloudslip/internal/billingprofile"
	profiledomain "github.com/smallbiznis/cloudslip/internal/billingprofile/domain"
	"github.com/smallbiznis/cloudslip/internal/company"
	companydomain "github.com/smallbiznis/cloudslip/internal/company/domain"
	"github.com/smallbiznis/cloudslip/internal/config"
	"github.com/smallbiznis/cloudslip/internal/deposit"
	depositdomain "github.com/smallbiznis/cloudslip/internal/deposit/domain"
	"github.com/smallbiznis/cloudslip/internal/exchangerate"
	ratedomain "github.com/smallbiznis/cloudslip/internal/exchangerate/domain"
	obstracing "github.com/smallbiznis/cloudslip/internal/observability/tracing"
	"github.com/smallbiznis/cloudslip/internal/partner"
	partnerdomain "github.com/smallbiznis/cloudslip/internal/partner/domain"
	"github.com/smallbiznis/cloudslip/internal/prorata"
	proratadomain "github.com/smallbiznis/cloudslip/internal/prorata/domain"
	"github.com/smallbiznis/cloudslip/internal/slip"
	slipdomain "github.com/smallbiznis/cloudslip/internal/slip/domain"
	"github.com/smallbiznis/cloudslip/internal/splitbilling"
	splitdomain "github.com/smallbiznis/cloudslip/internal/splitbilling/domain"
	"github.com/smallbiznis/cloudslip/internal/usage"
	usagedomain "github.com/smallbiznis/cloudslip/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	company.Module,
	partner.Module,
	billingprofile.Module,
	exchangerate.Module,
	deposit.Module,
	prorata.Module,
	splitbilling.Module,
	additionalcharge.Module,
	usage.Module,
	slip.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
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
	engine     *gin.Engine
	cfg        config.Config
	companySvc companydomain.Service
	partnerSvc partnerdomain.Service
	profileSvc profiledomain.Service
	rateSvc    ratedomain.Service
	depositSvc depositdomain.Service
	prorataSvc proratadomain.Service
	splitSvc   splitdomain.Service
	chargeSvc  chargedomain.Service
	usageSvc   usagedomain.Service
	slipSvc    slipdomain.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	CompanySvc companydomain.Service
	PartnerSvc partnerdomain.Service
	ProfileSvc profiledomain.Service
	RateSvc    ratedomain.Service
	DepositSvc depositdomain.Service
	ProrataSvc proratadomain.Service
	SplitSvc   splitdomain.Service
	ChargeSvc  chargedomain.Service
	UsageSvc   usagedomain.Service
	SlipSvc    slipdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		companySvc: p.CompanySvc,
		partnerSvc: p.PartnerSvc,
		profileSvc: p.ProfileSvc,
		rateSvc:    p.RateSvc,
		depositSvc: p.DepositSvc,
		prorataSvc: p.ProrataSvc,
		splitSvc:   p.SplitSvc,
		chargeSvc:  p.ChargeSvc,
		usageSvc:   p.UsageSvc,
		slipSvc:    p.SlipSvc,
	}

	svc.registerRoutes()
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1")

	// -------- Exchange rates --------
	v1.GET("/exchange-rates", s.ListExchangeRates)
	v1.POST("/exchange-rates", s.UpsertExchangeRates)
	v1.GET("/exchange-rates/latest", s.LatestExchangeRate)
	v1.POST("/exchange-rates/sync", s.SyncExchangeRates)

	// -------- Slip config --------
	v1.GET("/slip-config", s.GetSlipConfig)
	v1.PUT("/slip-config", s.PutSlipConfig)

	// -------- Slips --------
	v1.POST("/slips/generate", s.GenerateSlips)
	v1.GET("/slips", s.ListSlips)
	v1.GET("/slips/batches", s.ListSlipBatches)
	v1.PATCH("/slips/:id", s.UpdateSlipRecord)
	v1.POST("/slips/batches/:batchId/confirm", s.ConfirmSlipBatch)
	v1.GET("/slips/batches/:batchId/export", s.ExportSlipBatch)
	v1.DELETE("/slips/batches/:batchId", s.DeleteSlipBatch)

	// -------- Companies / contracts / accounts --------
	v1.GET("/companies", s.ListCompanies)
	v1.POST("/companies", s.CreateCompany)
	v1.GET("/companies/:id", s.GetCompany)
	v1.PATCH("/companies/:id", s.UpdateCompany)
	v1.GET("/contracts", s.ListContracts)
	v1.POST("/contracts", s.CreateContract)
	v1.GET("/contracts/:id", s.GetContract)
	v1.PATCH("/contracts/:id", s.UpdateContract)
	v1.GET("/accounts", s.ListAccounts)
	v1.PUT("/accounts", s.UpsertAccount)
	v1.GET("/mappings", s.ListMappings)
	v1.POST("/mappings", s.CreateMapping)
	v1.DELETE("/mappings/:id", s.DeleteMapping)

	// -------- Partner masters --------
	v1.GET("/partners", s.ListPartners)
	v1.POST("/partners", s.CreatePartner)
	v1.PATCH("/partners/:id", s.UpdatePartner)

	// -------- Billing profiles --------
	v1.GET("/billing-profiles/companies", s.ListCompanyProfiles)
	v1.POST("/billing-profiles/companies", s.CreateCompanyProfile)
	v1.PATCH("/billing-profiles/companies/:id", s.UpdateCompanyProfile)
	v1.GET("/billing-profiles/contracts", s.ListContractProfiles)
	v1.POST("/billing-profiles/contracts", s.CreateContractProfile)
	v1.PATCH("/billing-profiles/contracts/:id", s.UpdateContractProfile)

	// -------- Deposits --------
	v1.GET("/deposits", s.ListDeposits)
	v1.POST("/deposits", s.CreateDeposit)
	v1.PATCH("/deposits/:id", s.UpdateDeposit)
	v1.GET("/deposits/:id/usages", s.ListDepositUsages)
	v1.POST("/deposits/consume", s.ConsumeDeposits)
	v1.GET("/deposits/balance", s.DepositBalance)

	// -------- Split billing --------
	v1.GET("/split-rules", s.ListSplitRules)
	v1.POST("/split-rules", s.CreateSplitRule)
	v1.PATCH("/split-rules/:id", s.UpdateSplitRule)
	v1.DELETE("/split-rules/:id", s.DeleteSplitRule)
	v1.POST("/split-rules/:id/simulate", s.SimulateSplitRule)

	// -------- Pro-rata --------
	v1.GET("/pro-rata", s.ListProRataPeriods)
	v1.POST("/pro-rata", s.CreateProRataPeriod)
	v1.PATCH("/pro-rata/:id", s.UpdateProRataPeriod)
	v1.DELETE("/pro-rata/:id", s.DeleteProRataPeriod)
	v1.GET("/pro-rata/calculate", s.CalculateProRata)

	// -------- Additional charges --------
	v1.GET("/additional-charges", s.ListAdditionalCharges)
	v1.POST("/additional-charges", s.CreateAdditionalCharge)
	v1.PATCH("/additional-charges/:id", s.UpdateAdditionalCharge)
	v1.DELETE("/additional-charges/:id", s.DeleteAdditionalCharge)

	// -------- Usage --------
	v1.POST("/usage/import", s.ImportUsage)
	v1.GET("/usage", s.ListUsage)
}
