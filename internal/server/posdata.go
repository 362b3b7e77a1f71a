package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	posdomain "github.com/genesispos/contable/internal/posdata/domain"
)

func (s *Server) IngestSale(c *gin.Context) {
	var req posdomain.SaleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.posSvc.RecordSale(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.IncSaleIngested()
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) IngestExpense(c *gin.Context) {
	var req posdomain.ExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.posSvc.RecordExpense(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreatePOSProduct(c *gin.Context) {
	var req posdomain.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.posSvc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPOSProducts(c *gin.Context) {
	resp, err := s.posSvc.ListProducts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) IngestProductionMovement(c *gin.Context) {
	var req posdomain.ProductionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.posSvc.RecordProduction(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
