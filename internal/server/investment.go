package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	investmentdomain "github.com/genesispos/contable/internal/investment/domain"
)

type saveInvestmentRequest struct {
	TotalAmount      decimal.Decimal  `json:"total_amount"`
	ReturnPercentage decimal.Decimal  `json:"return_percentage"`
	ProfitPercentage *decimal.Decimal `json:"profit_percentage"`
	RecoveredAmount  *decimal.Decimal `json:"recovered_amount"`
	Description      string           `json:"description"`
	StartDate        string           `json:"start_date"`
	TargetDate       string           `json:"target_date"`
}

func (s *Server) SaveInvestment(c *gin.Context) {
	var req saveInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	save := investmentdomain.SaveConfigRequest{
		TotalAmount:      req.TotalAmount,
		ReturnPercentage: req.ReturnPercentage,
		ProfitPercentage: req.ProfitPercentage,
		RecoveredAmount:  req.RecoveredAmount,
		Description:      req.Description,
	}
	if req.StartDate != "" {
		t, err := time.Parse("2006-01-02", strings.TrimSpace(req.StartDate))
		if err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		save.StartDate = &t
	}
	if req.TargetDate != "" {
		t, err := time.Parse("2006-01-02", strings.TrimSpace(req.TargetDate))
		if err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		save.TargetDate = &t
	}

	resp, err := s.investmentSvc.SaveConfig(c.Request.Context(), save)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvestment(c *gin.Context) {
	resp, err := s.investmentSvc.GetConfig(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type recordAmortizationRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Source    string          `json:"source"`
	Reference string          `json:"reference"`
}

func (s *Server) RecordAmortization(c *gin.Context) {
	var req recordAmortizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.investmentSvc.RecordAmortization(c.Request.Context(),
		req.Amount, strings.TrimSpace(req.Source), strings.TrimSpace(req.Reference))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.IncAmortization(resp.Source)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvestmentProgress(c *gin.Context) {
	resp, err := s.investmentSvc.Progress(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp == nil {
		AbortWithError(c, investmentdomain.ErrNoConfig)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
