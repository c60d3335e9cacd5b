package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	proratadomain "github.com/smallbiznis/cloudslip/internal/prorata/domain"
)

func (s *Server) ListProRataPeriods(c *gin.Context) {
	contractID, err := parseOptionalSnowflakeID(c.Query("contract_id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	limit, offset := parsePage(c)

	periods, err := s.prorataSvc.ListPeriods(c.Request.Context(), proratadomain.Filter{
		ContractID:   contractID,
		BillingCycle: c.Query("billing_cycle"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"periods": periods})
}

type createProRataRequest struct {
	ContractID   string `json:"contract_id" binding:"required"`
	BillingCycle string `json:"billing_cycle" binding:"required"`
	StartDay     int    `json:"start_day" binding:"required"`
	EndDay       int    `json:"end_day" binding:"required"`
	Note         string `json:"note"`
}

func (s *Server) CreateProRataPeriod(c *gin.Context) {
	var req createProRataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	contractID, err := parseOptionalSnowflakeID(req.ContractID)
	if err != nil || contractID == nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	period, err := s.prorataSvc.CreatePeriod(c.Request.Context(), proratadomain.CreateRequest{
		ContractID:   *contractID,
		BillingCycle: req.BillingCycle,
		StartDay:     req.StartDay,
		EndDay:       req.EndDay,
		Note:         req.Note,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, period)
}

type updateProRataRequest struct {
	StartDay *int    `json:"start_day"`
	EndDay   *int    `json:"end_day"`
	Note     *string `json:"note"`
}

func (s *Server) UpdateProRataPeriod(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	var req updateProRataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	period, err := s.prorataSvc.UpdatePeriod(c.Request.Context(), id, proratadomain.UpdateRequest{
		StartDay: req.StartDay,
		EndDay:   req.EndDay,
		Note:     req.Note,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, period)
}

func (s *Server) DeleteProRataPeriod(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if err := s.prorataSvc.DeletePeriod(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) CalculateProRata(c *gin.Context) {
	contractID, err := parseOptionalSnowflakeID(c.Query("contract_id"))
	if err != nil || contractID == nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	cycle := c.Query("billing_cycle")
	if cycle == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var dates proratadomain.ContractDates
	contract, err := s.companySvc.GetContract(c.Request.Context(), *contractID)
	if err == nil {
		dates.Start = contract.ContractStartDate
		dates.End = contract.ContractEndDate
	}
	if raw := c.Query("contract_start"); raw != "" {
		parsed, err := time.Parse(dateOnlyLayout, raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		dates.Start = &parsed
	}

	result, err := s.prorataSvc.Calculate(c.Request.Context(), *contractID, cycle, dates)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
