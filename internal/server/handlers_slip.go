package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/cloudslip/internal/billingcycle"
	slipdomain "github.com/smallbiznis/cloudslip/internal/slip/domain"
	usagedomain "github.com/smallbiznis/cloudslip/internal/usage/domain"
)

func (s *Server) GetSlipConfig(c *gin.Context) {
	vendor := c.Query("vendor")
	if vendor == "" {
		vendor = s.cfg.DefaultVendor
	}
	cfg, err := s.slipSvc.GetConfig(c.Request.Context(), vendor)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (s *Server) PutSlipConfig(c *gin.Context) {
	var cfg slipdomain.SlipConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if cfg.Vendor == "" {
		cfg.Vendor = s.cfg.DefaultVendor
	}
	if err := s.slipSvc.PutConfig(c.Request.Context(), &cfg); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

type generateSlipsRequest struct {
	Vendor       string  `json:"vendor"`
	BillingCycle string  `json:"billing_cycle" binding:"required"`
	SlipType     string  `json:"slip_type" binding:"required"`
	BillingType  string  `json:"billing_type"`
	DocumentDate string  `json:"document_date" binding:"required"`
	PostingDate  string  `json:"posting_date"`
	ManualRate   *string `json:"manual_rate"`
	InvoiceNo    string  `json:"invoice_no"`
}

func (s *Server) GenerateSlips(c *gin.Context) {
	var req generateSlipsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if req.Vendor == "" {
		req.Vendor = s.cfg.DefaultVendor
	}
	if !billingcycle.Valid(req.BillingCycle) {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	docDate, err := time.Parse(dateOnlyLayout, req.DocumentDate)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	var posting *time.Time
	if req.PostingDate != "" {
		parsed, err := time.Parse(dateOnlyLayout, req.PostingDate)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		posting = &parsed
	}
	var manualRate *decimal.Decimal
	if req.ManualRate != nil && *req.ManualRate != "" {
		parsed, err := decimal.NewFromString(*req.ManualRate)
		if err != nil || !parsed.IsPositive() {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		manualRate = &parsed
	}

	summary, err := s.slipSvc.Generate(c.Request.Context(), slipdomain.GenerateRequest{
		Vendor:       req.Vendor,
		BillingCycle: req.BillingCycle,
		SlipType:     slipdomain.SlipType(req.SlipType),
		BillingType:  usagedomain.BillingType(req.BillingType),
		DocumentDate: docDate,
		PostingDate:  posting,
		ManualRate:   manualRate,
		InvoiceNo:    req.InvoiceNo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

func (s *Server) ListSlips(c *gin.Context) {
	limit, offset := parsePage(c)
	rows, err := s.slipSvc.List(c.Request.Context(), slipdomain.Filter{
		Vendor:       c.Query("vendor"),
		BillingCycle: c.Query("billing_cycle"),
		BatchID:      c.Query("batch_id"),
		SlipType:     slipdomain.SlipType(c.Query("slip_type")),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": rows})
}

func (s *Server) ListSlipBatches(c *gin.Context) {
	batches, err := s.slipSvc.ListBatches(c.Request.Context(), c.Query("vendor"), c.Query("billing_cycle"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"batches": batches})
}

type updateSlipRequest struct {
	PartnerCode       *string `json:"partner_code"`
	Description       *string `json:"description"`
	ARAccount         *string `json:"ar_account"`
	RevenueAccount    *string `json:"revenue_account"`
	TaxCode           *string `json:"tax_code"`
	SalesContractCode *string `json:"sales_contract_code"`
	InvoiceNo         *string `json:"invoice_no"`
}

func (s *Server) UpdateSlipRecord(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	var req updateSlipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	row, err := s.slipSvc.UpdateRecord(c.Request.Context(), id, slipdomain.RecordUpdate{
		PartnerCode:       req.PartnerCode,
		Description:       req.Description,
		ARAccount:         req.ARAccount,
		RevenueAccount:    req.RevenueAccount,
		TaxCode:           req.TaxCode,
		SalesContractCode: req.SalesContractCode,
		InvoiceNo:         req.InvoiceNo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (s *Server) ConfirmSlipBatch(c *gin.Context) {
	confirmed, err := s.slipSvc.Confirm(c.Request.Context(), c.Param("batchId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"confirmed": confirmed})
}

func (s *Server) ExportSlipBatch(c *gin.Context) {
	data, err := s.slipSvc.ExportCSV(c.Request.Context(), c.Param("batchId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	filename := "slips_" + c.Param("batchId") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (s *Server) DeleteSlipBatch(c *gin.Context) {
	deleted, err := s.slipSvc.DeleteBatch(c.Request.Context(), c.Param("batchId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
