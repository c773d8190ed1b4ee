package server

import (
	"net/http"
	"strings"

	wallpostdomain "github.com/alumnihq/alumnihq/internal/wallpost/domain"
	"github.com/alumnihq/alumnihq/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateWallPost(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req wallpostdomain.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.CallerEmail = email

	resp, err := s.wallPostSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, "post created", resp)
}

func (s *Server) UpdateWallPost(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req wallpostdomain.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.CallerEmail = email

	resp, err := s.wallPostSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "post updated", resp)
}

func (s *Server) PublishWallPost(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.wallPostSvc.Publish(c.Request.Context(), strings.TrimSpace(c.Param("id")), email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "post published", resp)
}

func (s *Server) ArchiveWallPost(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.wallPostSvc.Archive(c.Request.Context(), strings.TrimSpace(c.Param("id")), email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "post archived", resp)
}

func (s *Server) DeleteWallPost(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.wallPostSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id")), email); err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "post deleted", nil)
}

func (s *Server) WallFeed(c *gin.Context) {
	var query struct {
		pagination.Pagination
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.wallPostSvc.Feed(c.Request.Context(), wallpostdomain.FeedRequest{
		Page: query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "wall feed", resp)
}

func (s *Server) LikeWallPost(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.wallPostSvc.Like(c.Request.Context(), strings.TrimSpace(c.Param("id")), email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "post liked", resp)
}

func (s *Server) UnlikeWallPost(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.wallPostSvc.Unlike(c.Request.Context(), strings.TrimSpace(c.Param("id")), email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "post unliked", resp)
}
