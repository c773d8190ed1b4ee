package server

import (
	"net/http"

	membershipdomain "github.com/alumnihq/alumnihq/internal/membership/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateMembership(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req membershipdomain.CreateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.CallerEmail = email

	resp, err := s.membershipSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, "membership created", resp)
}

func (s *Server) MembershipStatus(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.membershipSvc.Status(c.Request.Context(), email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "membership status", resp)
}
