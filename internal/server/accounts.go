package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	accountdomain "github.com/genesispos/contable/internal/account/domain"
)

type createAccountRequest struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Nature string `json:"nature"`
}

func (s *Server) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.accountSvc.Create(c.Request.Context(), accountdomain.CreateRequest{
		Code:   strings.TrimSpace(req.Code),
		Name:   req.Name,
		Type:   strings.TrimSpace(req.Type),
		Nature: strings.TrimSpace(req.Nature),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListAccounts(c *gin.Context) {
	req := accountdomain.ListRequest{
		Type: strings.TrimSpace(c.Query("type")),
	}
	switch c.Query("active") {
	case "true":
		active := true
		req.Active = &active
	case "false":
		active := false
		req.Active = &active
	}

	resp, err := s.accountSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetAccountByID(c *gin.Context) {
	resp, err := s.accountSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateAccountRequest struct {
	Code   *string `json:"code"`
	Name   *string `json:"name"`
	Type   *string `json:"type"`
	Active *bool   `json:"active"`
}

func (s *Server) UpdateAccount(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.accountSvc.Update(c.Request.Context(), accountdomain.UpdateRequest{
		ID:     c.Param("id"),
		Code:   req.Code,
		Name:   req.Name,
		Type:   req.Type,
		Active: req.Active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteAccount(c *gin.Context) {
	if err := s.accountSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
