package server

import (
	"net/http"
	"strings"

	alumnidomain "github.com/alumnihq/alumnihq/internal/alumni/domain"
	"github.com/alumnihq/alumnihq/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

func (s *Server) RegisterAlumni(c *gin.Context) {
	var req alumnidomain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.alumniSvc.Register(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, "registration successful", resp)
}

func (s *Server) GetMyProfile(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.alumniSvc.GetByEmail(c.Request.Context(), email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "profile retrieved", resp)
}

func (s *Server) UpdateMyProfile(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req alumnidomain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.alumniSvc.UpdateProfile(c.Request.Context(), email, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "profile updated", resp)
}

func (s *Server) DeactivateMyProfile(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.alumniSvc.Deactivate(c.Request.Context(), email); err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "profile deactivated", nil)
}

func (s *Server) SearchAlumni(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Query     string `form:"q"`
		BatchYear int    `form:"batch_year"`
		Course    string `form:"course"`
		Company   string `form:"company"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.alumniSvc.Search(c.Request.Context(), alumnidomain.SearchRequest{
		Query:     strings.TrimSpace(query.Query),
		BatchYear: query.BatchYear,
		Course:    strings.TrimSpace(query.Course),
		Company:   strings.TrimSpace(query.Company),
		Page:      query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "search results", resp)
}
