package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	depositdomain "github.com/smallbiznis/cloudslip/internal/deposit/domain"
	"github.com/smallbiznis/cloudslip/pkg/rounding"
)

func ownerFromQuery(c *gin.Context) (*depositdomain.ProfileRef, error) {
	companyProfileID, err := parseOptionalSnowflakeID(c.Query("company_profile_id"))
	if err != nil {
		return nil, err
	}
	contractProfileID, err := parseOptionalSnowflakeID(c.Query("contract_profile_id"))
	if err != nil {
		return nil, err
	}
	if companyProfileID == nil && contractProfileID == nil {
		return nil, nil
	}
	return &depositdomain.ProfileRef{
		CompanyProfileID:  companyProfileID,
		ContractProfileID: contractProfileID,
	}, nil
}

func (s *Server) ListDeposits(c *gin.Context) {
	owner, err := ownerFromQuery(c)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	include, err := parseOptionalBool(c.Query("include_exhausted"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	limit, offset := parsePage(c)

	filter := depositdomain.Filter{
		Owner:    owner,
		Currency: c.Query("currency"),
		Limit:    limit,
		Offset:   offset,
	}
	if include != nil {
		filter.IncludeExhausted = *include
	}
	deposits, err := s.depositSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deposits": deposits})
}

type createDepositRequest struct {
	CompanyProfileID  string  `json:"company_profile_id"`
	ContractProfileID string  `json:"contract_profile_id"`
	DepositDate       string  `json:"deposit_date" binding:"required"`
	Amount            string  `json:"amount" binding:"required"`
	Currency          string  `json:"currency" binding:"required"`
	ExchangeRate      *string `json:"exchange_rate"`
	Reference         string  `json:"reference"`
	Description       string  `json:"description"`
}

func (s *Server) CreateDeposit(c *gin.Context) {
	var req createDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	companyProfileID, err := parseOptionalSnowflakeID(req.CompanyProfileID)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	contractProfileID, err := parseOptionalSnowflakeID(req.ContractProfileID)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	depositDate, err := time.Parse(dateOnlyLayout, req.DepositDate)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	var rate *decimal.Decimal
	if req.ExchangeRate != nil && *req.ExchangeRate != "" {
		parsed, err := decimal.NewFromString(*req.ExchangeRate)
		if err != nil || !parsed.IsPositive() {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		rate = &parsed
	}

	deposit, err := s.depositSvc.Create(c.Request.Context(), depositdomain.CreateRequest{
		Owner: depositdomain.ProfileRef{
			CompanyProfileID:  companyProfileID,
			ContractProfileID: contractProfileID,
		},
		DepositDate:  depositDate,
		Amount:       amount,
		Currency:     req.Currency,
		ExchangeRate: rate,
		Reference:    req.Reference,
		Description:  req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deposit)
}

type updateDepositRequest struct {
	DepositDate  *string `json:"deposit_date"`
	Amount       *string `json:"amount"`
	ExchangeRate *string `json:"exchange_rate"`
	Reference    *string `json:"reference"`
	Description  *string `json:"description"`
}

func (s *Server) UpdateDeposit(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	var req updateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var patch depositdomain.UpdateRequest
	if req.DepositDate != nil {
		parsed, err := time.Parse(dateOnlyLayout, *req.DepositDate)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		patch.DepositDate = &parsed
	}
	if req.Amount != nil {
		parsed, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		patch.Amount = &parsed
	}
	if req.ExchangeRate != nil {
		parsed, err := decimal.NewFromString(*req.ExchangeRate)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		patch.ExchangeRate = &parsed
	}
	patch.Reference = req.Reference
	patch.Description = req.Description

	deposit, err := s.depositSvc.Update(c.Request.Context(), id, patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, deposit)
}

func (s *Server) ListDepositUsages(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	usages, err := s.depositSvc.Usages(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usages": usages})
}

type consumeDepositsRequest struct {
	CompanyProfileID  string `json:"company_profile_id"`
	ContractProfileID string `json:"contract_profile_id"`
	Amount            string `json:"amount" binding:"required"`
	Currency          string `json:"currency" binding:"required"`
	UsageDate         string `json:"usage_date" binding:"required"`
	BillingCycle      string `json:"billing_cycle"`
	SlipBatchID       string `json:"slip_batch_id"`
	AccountUID        string `json:"account_uid"`
	Description       string `json:"description"`
	FallbackRate      string `json:"fallback_rate"`
	RoundingRule      string `json:"rounding_rule"`
}

func (s *Server) ConsumeDeposits(c *gin.Context) {
	var req consumeDepositsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	companyProfileID, err := parseOptionalSnowflakeID(req.CompanyProfileID)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	contractProfileID, err := parseOptionalSnowflakeID(req.ContractProfileID)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	usageDate, err := time.Parse(dateOnlyLayout, req.UsageDate)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	fallbackRate := decimal.NewFromInt(1)
	if req.FallbackRate != "" {
		if fallbackRate, err = decimal.NewFromString(req.FallbackRate); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
	}
	rule := rounding.RuleFloor
	if req.RoundingRule != "" {
		if rule, err = rounding.Parse(req.RoundingRule); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
	}

	result, err := s.depositSvc.ConsumeFIFO(c.Request.Context(), depositdomain.ConsumeRequest{
		Owner: depositdomain.ProfileRef{
			CompanyProfileID:  companyProfileID,
			ContractProfileID: contractProfileID,
		},
		Amount:       amount,
		Currency:     req.Currency,
		UsageDate:    usageDate,
		BillingCycle: req.BillingCycle,
		SlipBatchID:  req.SlipBatchID,
		AccountUID:   req.AccountUID,
		Description:  req.Description,
		FallbackRate: fallbackRate,
		RoundingRule: rule,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) DepositBalance(c *gin.Context) {
	owner, err := ownerFromQuery(c)
	if err != nil || owner == nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	balances, err := s.depositSvc.Balance(c.Request.Context(), *owner)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": balances})
}
