package server

import (
	"net/http"
	"strings"

	eventdomain "github.com/alumnihq/alumnihq/internal/event/domain"
	"github.com/alumnihq/alumnihq/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateEvent(c *gin.Context) {
	var req eventdomain.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.eventSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, "event created", resp)
}

func (s *Server) UpdateEvent(c *gin.Context) {
	var req eventdomain.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.eventSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "event updated", resp)
}

func (s *Server) GetEvent(c *gin.Context) {
	resp, err := s.eventSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "event retrieved", resp)
}

func (s *Server) ListUpcomingEvents(c *gin.Context) {
	var query struct {
		pagination.Pagination
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.eventSvc.ListUpcoming(c.Request.Context(), eventdomain.ListUpcomingRequest{
		Page: query.Pagination,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "upcoming events", resp)
}

func (s *Server) RSVPEvent(c *gin.Context) {
	email, ok := callerEmail(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req eventdomain.RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.CallerEmail = email
	req.EventID = strings.TrimSpace(c.Param("id"))

	resp, err := s.eventSvc.RSVP(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	status := http.StatusOK
	message := "rsvp updated"
	if resp.Created {
		status = http.StatusCreated
		message = "rsvp recorded"
	}
	respond(c, status, message, resp)
}

func (s *Server) CancelEvent(c *gin.Context) {
	if err := s.eventSvc.Cancel(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "event cancelled", nil)
}
