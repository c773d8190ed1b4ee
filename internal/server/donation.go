package server

import (
	"net/http"
	"strings"

	donationdomain "github.com/alumnihq/alumnihq/internal/donation/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateDonation(c *gin.Context) {
	var req donationdomain.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	// The verified header is the only source of the caller identity; an
	// absent one records a guest donation.
	req.CallerEmail, _ = callerEmail(c)

	resp, err := s.donationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, "donation recorded", resp)
}

func (s *Server) CompleteDonation(c *gin.Context) {
	resp, err := s.donationSvc.Complete(c.Request.Context(), strings.TrimSpace(c.Param("reference")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "donation completed", resp)
}

func (s *Server) DonationStats(c *gin.Context) {
	resp, err := s.donationSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "donation statistics", resp)
}

func (s *Server) ListMyDonations(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.donationSvc.ListByAlumni(c.Request.Context(), email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "donations retrieved", resp)
}
