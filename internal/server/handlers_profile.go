package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	profiledomain "github.com/smallbiznis/cloudslip/internal/billingprofile/domain"
)

func (s *Server) ListCompanyProfiles(c *gin.Context) {
	profiles, err := s.profileSvc.ListCompanyProfiles(c.Request.Context(), c.Query("vendor"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

func (s *Server) CreateCompanyProfile(c *gin.Context) {
	var profile profiledomain.CompanyBillingProfile
	if err := c.ShouldBindJSON(&profile); err != nil || profile.CompanyID == 0 {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if profile.Vendor == "" {
		profile.Vendor = s.cfg.DefaultVendor
	}
	if err := s.profileSvc.CreateCompanyProfile(c.Request.Context(), &profile); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (s *Server) UpdateCompanyProfile(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	var patch profiledomain.CompanyProfileUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	profile, err := s.profileSvc.UpdateCompanyProfile(c.Request.Context(), id, patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) ListContractProfiles(c *gin.Context) {
	profiles, err := s.profileSvc.ListContractProfiles(c.Request.Context(), c.Query("vendor"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

func (s *Server) CreateContractProfile(c *gin.Context) {
	var profile profiledomain.ContractBillingProfile
	if err := c.ShouldBindJSON(&profile); err != nil || profile.ContractID == 0 {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if profile.Vendor == "" {
		profile.Vendor = s.cfg.DefaultVendor
	}
	if err := s.profileSvc.CreateContractProfile(c.Request.Context(), &profile); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (s *Server) UpdateContractProfile(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	var patch profiledomain.ContractProfileUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	profile, err := s.profileSvc.UpdateContractProfile(c.Request.Context(), id, patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
