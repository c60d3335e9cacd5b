package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	partnerdomain "github.com/smallbiznis/cloudslip/internal/partner/domain"
)

func (s *Server) ListPartners(c *gin.Context) {
	partners, err := s.partnerSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"partners": partners})
}

func (s *Server) CreatePartner(c *gin.Context) {
	var partner partnerdomain.Partner
	if err := c.ShouldBindJSON(&partner); err != nil || partner.BPNumber == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if err := s.partnerSvc.Create(c.Request.Context(), &partner); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, partner)
}

type updatePartnerRequest struct {
	Name         *string `json:"name"`
	LicenseNo    *string `json:"license_no"`
	ARAccount    *string `json:"ar_account"`
	APAccount    *string `json:"ap_account"`
	ContactName  *string `json:"contact_name"`
	ContactEmail *string `json:"contact_email"`
	IsActive     *bool   `json:"is_active"`
}

func (s *Server) UpdatePartner(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	var req updatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	partner, err := s.partnerSvc.Update(c.Request.Context(), id, partnerdomain.Update{
		Name:         req.Name,
		LicenseNo:    req.LicenseNo,
		ARAccount:    req.ARAccount,
		APAccount:    req.APAccount,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		IsActive:     req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, partner)
}
