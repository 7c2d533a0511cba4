package cancellation

import (
	"errors"
	"net/http"

	"cinebook/internal/bookings"
	"cinebook/internal/shared/middleware"
	"cinebook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{service: service, validator: validator.New()}
}

// CancelBooking handles POST /bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	id, userID, ok := c.target(ctx)
	if !ok {
		return
	}

	var req CancelRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RespondJSON(ctx, http.StatusBadRequest, "Invalid request body", nil, err.Error())
			return
		}
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Validation failed", nil, response.FieldErrors(err))
		return
	}

	result, err := c.service.Cancel(ctx.Request.Context(), id, userID, middleware.IsAdmin(ctx), req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Booking cancelled successfully", result, nil)
}

// GetRefundQuote handles GET /bookings/:id/refund-quote
func (c *Controller) GetRefundQuote(ctx *gin.Context) {
	id, userID, ok := c.target(ctx)
	if !ok {
		return
	}

	quote, err := c.service.Quote(ctx.Request.Context(), id, userID, middleware.IsAdmin(ctx))
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Refund quote calculated", quote, nil)
}

// GetCancellation handles GET /bookings/:id/cancellation
func (c *Controller) GetCancellation(ctx *gin.Context) {
	id, userID, ok := c.target(ctx)
	if !ok {
		return
	}

	record, err := c.service.GetCancellation(ctx.Request.Context(), id, userID, middleware.IsAdmin(ctx))
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Cancellation retrieved successfully", record, nil)
}

func (c *Controller) target(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid booking ID")
		return uuid.Nil, uuid.Nil, false
	}
	return id, userID, true
}

func (c *Controller) handleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		response.RespondError(ctx, http.StatusNotFound, "Booking not found")
	case errors.Is(err, ErrCancellationNotFound):
		response.RespondError(ctx, http.StatusNotFound, "Booking has not been cancelled")
	case errors.Is(err, bookings.ErrBookingForbidden):
		response.RespondError(ctx, http.StatusForbidden, "You do not have access to this booking")
	case errors.Is(err, ErrNotCancellable):
		response.RespondError(ctx, http.StatusConflict, err.Error())
	default:
		response.RespondError(ctx, http.StatusInternalServerError, "Failed to process cancellation")
	}
}
