package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	usagedomain "github.com/smallbiznis/cloudslip/internal/usage/domain"
)

type importUsageRequest struct {
	Vendor       string `json:"vendor"`
	BillingCycle string `json:"billing_cycle" binding:"required"`
	BillingType  string `json:"billing_type" binding:"required"`
	Replace      bool   `json:"replace"`
	Records      []struct {
		AccountUID       string `json:"account_uid" binding:"required"`
		LinkedAccountUID string `json:"linked_account_uid"`
		ProductCode      string `json:"product_code"`
		Amount           string `json:"amount" binding:"required"`
		Currency         string `json:"currency"`
	} `json:"records" binding:"required"`
}

func (s *Server) ImportUsage(c *gin.Context) {
	var req importUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if req.Vendor == "" {
		req.Vendor = s.cfg.DefaultVendor
	}

	records := make([]usagedomain.ImportRecord, 0, len(req.Records))
	for _, in := range req.Records {
		amount, err := decimal.NewFromString(in.Amount)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		records = append(records, usagedomain.ImportRecord{
			AccountUID:       in.AccountUID,
			LinkedAccountUID: in.LinkedAccountUID,
			ProductCode:      in.ProductCode,
			Amount:           amount,
			Currency:         in.Currency,
		})
	}

	count, err := s.usageSvc.Import(c.Request.Context(), usagedomain.ImportRequest{
		Vendor:       req.Vendor,
		BillingCycle: req.BillingCycle,
		BillingType:  usagedomain.BillingType(req.BillingType),
		Replace:      req.Replace,
		Records:      records,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": count})
}

func (s *Server) ListUsage(c *gin.Context) {
	records, err := s.usageSvc.List(c.Request.Context(), c.Query("vendor"), c.Query("billing_cycle"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}
