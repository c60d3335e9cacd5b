package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	companydomain "github.com/smallbiznis/cloudslip/internal/company/domain"
)

func (s *Server) ListCompanies(c *gin.Context) {
	companies, err := s.companySvc.ListCompanies(c.Request.Context(), c.Query("vendor"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (s *Server) CreateCompany(c *gin.Context) {
	var company companydomain.Company
	if err := c.ShouldBindJSON(&company); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if company.Vendor == "" {
		company.Vendor = s.cfg.DefaultVendor
	}
	if err := s.companySvc.CreateCompany(c.Request.Context(), &company); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (s *Server) GetCompany(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	company, err := s.companySvc.GetCompany(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

type updateCompanyRequest struct {
	Name            *string `json:"name"`
	LicenseNo       *string `json:"license_no"`
	PartnerCode     *string `json:"partner_code"`
	IsInternalCost  *bool   `json:"is_internal_cost"`
	IsOverseas      *bool   `json:"is_overseas"`
	DefaultCurrency *string `json:"default_currency"`
	ContactName     *string `json:"contact_name"`
	ContactEmail    *string `json:"contact_email"`
	IsActive        *bool   `json:"is_active"`
}

func (s *Server) UpdateCompany(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	var req updateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	company, err := s.companySvc.UpdateCompany(c.Request.Context(), id, companydomain.CompanyUpdate{
		Name:            req.Name,
		LicenseNo:       req.LicenseNo,
		PartnerCode:     req.PartnerCode,
		IsInternalCost:  req.IsInternalCost,
		IsOverseas:      req.IsOverseas,
		DefaultCurrency: req.DefaultCurrency,
		ContactName:     req.ContactName,
		ContactEmail:    req.ContactEmail,
		IsActive:        req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (s *Server) ListContracts(c *gin.Context) {
	contracts, err := s.companySvc.ListContracts(c.Request.Context(), c.Query("vendor"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}

func (s *Server) CreateContract(c *gin.Context) {
	var contract companydomain.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if contract.Vendor == "" {
		contract.Vendor = s.cfg.DefaultVendor
	}
	if err := s.companySvc.CreateContract(c.Request.Context(), &contract); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (s *Server) GetContract(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	contract, err := s.companySvc.GetContract(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (s *Server) UpdateContract(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	var patch companydomain.ContractUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	contract, err := s.companySvc.UpdateContract(c.Request.Context(), id, patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (s *Server) ListAccounts(c *gin.Context) {
	accounts, err := s.companySvc.ListAccounts(c.Request.Context(), c.Query("vendor"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (s *Server) UpsertAccount(c *gin.Context) {
	var account companydomain.VendorAccount
	if err := c.ShouldBindJSON(&account); err != nil || account.UID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if account.Vendor == "" {
		account.Vendor = s.cfg.DefaultVendor
	}
	if err := s.companySvc.UpsertAccount(c.Request.Context(), &account); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (s *Server) ListMappings(c *gin.Context) {
	mappings, err := s.companySvc.ListMappings(c.Request.Context(), c.Query("account_uid"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mappings": mappings})
}

func (s *Server) CreateMapping(c *gin.Context) {
	var mapping companydomain.AccountContractMapping
	if err := c.ShouldBindJSON(&mapping); err != nil || mapping.AccountUID == "" || mapping.ContractID == 0 {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if err := s.companySvc.CreateMapping(c.Request.Context(), &mapping); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapping)
}

func (s *Server) DeleteMapping(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if err := s.companySvc.DeleteMapping(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
