package server

import (
	"errors"
	"net/http"

	alumnidomain "github.com/alumnihq/alumnihq/internal/alumni/domain"
	donationdomain "github.com/alumnihq/alumnihq/internal/donation/domain"
	eventdomain "github.com/alumnihq/alumnihq/internal/event/domain"
	membershipdomain "github.com/alumnihq/alumnihq/internal/membership/domain"
	wallpostdomain "github.com/alumnihq/alumnihq/internal/wallpost/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Envelope is the response shape for every API endpoint.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message, code := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, Envelope{
			Success:   false,
			Message:   message,
			ErrorCode: code,
		})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "authentication required", "UNAUTHORIZED"
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "invalid request", "INVALID_REQUEST"

	case errors.Is(err, alumnidomain.ErrAlumniExists):
		return http.StatusConflict, "an account with this email already exists", "ALUMNI_EXISTS"
	case errors.Is(err, alumnidomain.ErrInvalidEmail):
		return http.StatusBadRequest, "invalid email address", "INVALID_EMAIL"
	case errors.Is(err, alumnidomain.ErrInvalidName):
		return http.StatusBadRequest, "first and last name are required", "INVALID_NAME"
	case errors.Is(err, alumnidomain.ErrProfileNotFound):
		return http.StatusNotFound, "profile not found", "PROFILE_NOT_FOUND"

	case errors.Is(err, membershipdomain.ErrInvalidType):
		return http.StatusBadRequest, "invalid membership type", "INVALID_MEMBERSHIP_TYPE"
	case errors.Is(err, membershipdomain.ErrMembershipNotFound):
		return http.StatusNotFound, "membership not found", "MEMBERSHIP_NOT_FOUND"

	case errors.Is(err, eventdomain.ErrEventNotFound):
		return http.StatusNotFound, "event not found", "EVENT_NOT_FOUND"
	case errors.Is(err, eventdomain.ErrEventDateInPast):
		return http.StatusBadRequest, "event date must be in the future", "EVENT_DATE_IN_PAST"
	case errors.Is(err, eventdomain.ErrEventFull):
		return http.StatusConflict, "event is at capacity", "EVENT_FULL"
	case errors.Is(err, eventdomain.ErrEventCancelled):
		return http.StatusConflict, "event has been cancelled", "EVENT_CANCELLED"
	case errors.Is(err, eventdomain.ErrInvalidName):
		return http.StatusBadRequest, "event name is required", "INVALID_EVENT_NAME"
	case errors.Is(err, eventdomain.ErrInvalidResponseStatus):
		return http.StatusBadRequest, "invalid response status", "INVALID_RESPONSE_STATUS"
	case errors.Is(err, eventdomain.ErrInvalidGuests):
		return http.StatusBadRequest, "guest count cannot be negative", "INVALID_GUESTS"

	case errors.Is(err, donationdomain.ErrInvalidAmount):
		return http.StatusBadRequest, "donation amount must be positive", "INVALID_AMOUNT"
	case errors.Is(err, donationdomain.ErrDonationNotFound):
		return http.StatusNotFound, "donation not found", "DONATION_NOT_FOUND"

	case errors.Is(err, wallpostdomain.ErrPostNotFound):
		return http.StatusNotFound, "post not found", "POST_NOT_FOUND"
	case errors.Is(err, wallpostdomain.ErrInvalidTitle):
		return http.StatusBadRequest, "post title is required", "INVALID_TITLE"
	case errors.Is(err, wallpostdomain.ErrPostLocked):
		return http.StatusConflict, "only draft posts can be edited", "POST_LOCKED"
	case errors.Is(err, wallpostdomain.ErrAlreadyLiked):
		return http.StatusConflict, "post already liked", "ALREADY_LIKED"
	case errors.Is(err, wallpostdomain.ErrNotOwner):
		return http.StatusForbidden, "only the author can modify this post", "NOT_POST_OWNER"

	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "not found", "NOT_FOUND"
	default:
		return http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR"
	}
}
