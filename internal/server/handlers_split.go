package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	splitdomain "github.com/smallbiznis/cloudslip/internal/splitbilling/domain"
)

func (s *Server) ListSplitRules(c *gin.Context) {
	active, err := parseOptionalBool(c.Query("is_active"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	limit, offset := parsePage(c)

	rules, err := s.splitSvc.ListRules(c.Request.Context(), splitdomain.Filter{
		SourceAccountUID: c.Query("account_uid"),
		IsActive:         active,
		Limit:            limit,
		Offset:           offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

type allocationInput struct {
	TargetCompanyID string `json:"target_company_id" binding:"required"`
	SplitType       string `json:"split_type" binding:"required"`
	SplitValue      string `json:"split_value" binding:"required"`
	Priority        int    `json:"priority"`
	Note            string `json:"note"`
}

func parseAllocations(in []allocationInput) ([]splitdomain.AllocationInput, error) {
	out := make([]splitdomain.AllocationInput, 0, len(in))
	for _, a := range in {
		targetID, err := parseOptionalSnowflakeID(a.TargetCompanyID)
		if err != nil || targetID == nil {
			return nil, ErrInvalidRequest
		}
		value, err := decimal.NewFromString(a.SplitValue)
		if err != nil {
			return nil, ErrInvalidRequest
		}
		out = append(out, splitdomain.AllocationInput{
			TargetCompanyID: *targetID,
			SplitType:       splitdomain.SplitType(a.SplitType),
			SplitValue:      value,
			Priority:        a.Priority,
			Note:            a.Note,
		})
	}
	return out, nil
}

type createSplitRuleRequest struct {
	Name             string            `json:"name"`
	SourceAccountUID string            `json:"source_account_uid" binding:"required"`
	SourceContractID string            `json:"source_contract_id"`
	EffectiveFrom    string            `json:"effective_from"`
	EffectiveTo      string            `json:"effective_to"`
	Note             string            `json:"note"`
	Allocations      []allocationInput `json:"allocations" binding:"required"`
}

func (s *Server) CreateSplitRule(c *gin.Context) {
	var req createSplitRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	allocations, err := parseAllocations(req.Allocations)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	effectiveFrom, err := parseOptionalTime(req.EffectiveFrom, false)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	effectiveTo, err := parseOptionalTime(req.EffectiveTo, true)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	contractID, err := parseOptionalSnowflakeID(req.SourceContractID)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	create := splitdomain.CreateRequest{
		Name:             req.Name,
		SourceAccountUID: req.SourceAccountUID,
		EffectiveFrom:    effectiveFrom,
		EffectiveTo:      effectiveTo,
		Note:             req.Note,
		Allocations:      allocations,
	}
	if contractID != nil {
		create.SourceContractID = *contractID
	}
	rule, err := s.splitSvc.CreateRule(c.Request.Context(), create)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

type updateSplitRuleRequest struct {
	Name          *string           `json:"name"`
	EffectiveFrom *string           `json:"effective_from"`
	EffectiveTo   *string           `json:"effective_to"`
	IsActive      *bool             `json:"is_active"`
	Note          *string           `json:"note"`
	Allocations   []allocationInput `json:"allocations"`
}

func (s *Server) UpdateSplitRule(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	var req updateSplitRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	patch := splitdomain.UpdateRequest{
		Name:     req.Name,
		IsActive: req.IsActive,
		Note:     req.Note,
	}
	if req.EffectiveFrom != nil {
		parsed, err := parseOptionalTime(*req.EffectiveFrom, false)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		patch.EffectiveFrom = parsed
	}
	if req.EffectiveTo != nil {
		parsed, err := parseOptionalTime(*req.EffectiveTo, true)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		patch.EffectiveTo = parsed
	}
	if req.Allocations != nil {
		allocations, err := parseAllocations(req.Allocations)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		patch.Allocations = allocations
	}

	rule, err := s.splitSvc.UpdateRule(c.Request.Context(), id, patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (s *Server) DeleteSplitRule(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if err := s.splitSvc.DeleteRule(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type simulateSplitRequest struct {
	Amount string `json:"amount" binding:"required"`
}

func (s *Server) SimulateSplitRule(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	var req simulateSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	result, err := s.splitSvc.Simulate(c.Request.Context(), id, amount)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
