package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	journaldomain "github.com/genesispos/contable/internal/journal/domain"
)

type postEntryLineRequest struct {
	AccountID   string          `json:"account_id"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

type postEntryRequest struct {
	Date        string                 `json:"date"`
	Description string                 `json:"description"`
	Reference   string                 `json:"reference"`
	Lines       []postEntryLineRequest `json:"lines"`
}

func (s *Server) PostJournalEntry(c *gin.Context) {
	var req postEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
	if err != nil {
		AbortWithError(c, journaldomain.ErrInvalidDate)
		return
	}

	post := journaldomain.PostRequest{
		Date:        date,
		Description: req.Description,
		Reference:   strings.TrimSpace(req.Reference),
	}
	for _, line := range req.Lines {
		post.Lines = append(post.Lines, journaldomain.LineRequest{
			AccountID:   strings.TrimSpace(line.AccountID),
			Description: line.Description,
			Debit:       line.Debit,
			Credit:      line.Credit,
		})
	}

	resp, err := s.journalSvc.Post(c.Request.Context(), post)
	if err != nil {
		s.metrics.IncEntryRejected(rejectionReason(err))
		AbortWithError(c, err)
		return
	}

	s.metrics.IncEntryPosted("posted")
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListJournalEntries(c *gin.Context) {
	var req journaldomain.ListRequest
	if from := strings.TrimSpace(c.Query("from")); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			AbortWithError(c, journaldomain.ErrInvalidDate)
			return
		}
		req.From = &t
	}
	if to := strings.TrimSpace(c.Query("to")); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			AbortWithError(c, journaldomain.ErrInvalidDate)
			return
		}
		req.To = &t
	}
	if limit := strings.TrimSpace(c.Query("limit")); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			AbortWithError(c, invalidRequestError())
			return
		}
		req.Limit = n
	}

	resp, err := s.journalSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetJournalEntryByID(c *gin.Context) {
	resp, err := s.journalSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ReverseJournalEntry(c *gin.Context) {
	resp, err := s.journalSvc.Reverse(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.IncEntryPosted("reversal")
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type closePeriodRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (s *Server) ClosePeriod(c *gin.Context) {
	var req closePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.journalSvc.ClosePeriod(c.Request.Context(),
		strings.TrimSpace(req.StartDate), strings.TrimSpace(req.EndDate)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"closed": true}})
}

func (s *Server) OpenPeriod(c *gin.Context) {
	if err := s.journalSvc.OpenPeriod(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"closed": false}})
}

func rejectionReason(err error) string {
	var unbalanced *journaldomain.UnbalancedEntryError
	switch {
	case errors.As(err, &unbalanced):
		return "unbalanced"
	case errors.Is(err, journaldomain.ErrPeriodClosed):
		return "period_closed"
	case errors.Is(err, journaldomain.ErrTooFewLines),
		errors.Is(err, journaldomain.ErrInvalidLine),
		errors.Is(err, journaldomain.ErrInvalidDate),
		errors.Is(err, journaldomain.ErrAccountNotFound):
		return "validation"
	default:
		return "other"
	}
}
