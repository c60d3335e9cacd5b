package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	chargedomain "github.com/smallbiznis/cloudslip/internal/additionalcharge/domain"
)

func (s *Server) ListAdditionalCharges(c *gin.Context) {
	contractID, err := parseOptionalSnowflakeID(c.Query("contract_id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	active, err := parseOptionalBool(c.Query("is_active"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	filter := chargedomain.Filter{
		ContractID: contractID,
		ChargeType: chargedomain.ChargeType(c.Query("charge_type")),
	}
	if active != nil {
		filter.ActiveOnly = *active
	}
	charges, err := s.chargeSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"charges": charges})
}

func (s *Server) CreateAdditionalCharge(c *gin.Context) {
	var charge chargedomain.AdditionalCharge
	if err := c.ShouldBindJSON(&charge); err != nil || charge.ContractID == 0 {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if err := s.chargeSvc.Create(c.Request.Context(), &charge); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, charge)
}

func (s *Server) UpdateAdditionalCharge(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	var patch chargedomain.Update
	if err := c.ShouldBindJSON(&patch); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	charge, err := s.chargeSvc.Update(c.Request.Context(), id, patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, charge)
}

func (s *Server) DeleteAdditionalCharge(c *gin.Context) {
	id, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if err := s.chargeSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
