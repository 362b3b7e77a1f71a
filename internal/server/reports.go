package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	reportingdomain "github.com/genesispos/contable/internal/reporting/domain"
)

func (s *Server) GetBalanceSheet(c *gin.Context) {
	resp, err := s.reportingSvc.BalanceSheet(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetIncomeStatement(c *gin.Context) {
	resp, err := s.reportingSvc.IncomeStatement(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSeries(c *gin.Context) {
	granularity := reportingdomain.Granularity(strings.TrimSpace(c.Query("granularity")))
	if granularity == "" {
		granularity = reportingdomain.GranularityDay
	}

	resp, err := s.reportingSvc.Series(c.Request.Context(), granularity)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCostByProduct(c *gin.Context) {
	resp, err := s.reportingSvc.CostByProduct(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProjections(c *gin.Context) {
	resp, err := s.reportingSvc.Projections(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
