package bookings

import (
	"errors"
	"net/http"

	"cinebook/internal/selection"
	"cinebook/internal/shared/middleware"
	"cinebook/internal/shared/utils/response"
	"cinebook/internal/showtimes"

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

// CreateBooking handles POST /bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Validation failed", nil, response.FieldErrors(err))
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), userID, req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusCreated, "Booking confirmed successfully", booking, nil)
}

// GetBooking handles GET /bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	id, userID, ok := c.target(ctx)
	if !ok {
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), id, userID, middleware.IsAdmin(ctx))
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// GetTicketQR handles GET /bookings/:id/qr
func (c *Controller) GetTicketQR(ctx *gin.Context) {
	id, userID, ok := c.target(ctx)
	if !ok {
		return
	}

	png, err := c.service.TicketQR(ctx.Request.Context(), id, userID, middleware.IsAdmin(ctx))
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "image/png", png)
}

// ListMyBookings handles GET /bookings
func (c *Controller) ListMyBookings(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}
	query, ok := c.listQuery(ctx)
	if !ok {
		return
	}

	page, err := c.service.ListMyBookings(ctx.Request.Context(), userID, query)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Bookings retrieved successfully", page, nil)
}

// ListBookings handles GET /admin/bookings
func (c *Controller) ListBookings(ctx *gin.Context) {
	query, ok := c.listQuery(ctx)
	if !ok {
		return
	}

	page, err := c.service.ListBookings(ctx.Request.Context(), query)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Bookings retrieved successfully", page, nil)
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

func (c *Controller) listQuery(ctx *gin.Context) (BookingListQuery, bool) {
	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return query, false
	}
	if err := c.validator.Struct(&query); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Validation failed", nil, response.FieldErrors(err))
		return query, false
	}
	query.Page, query.Limit = response.PageParams(ctx)
	return query, true
}

func (c *Controller) handleError(ctx *gin.Context, err error) {
	var paymentErr *PaymentError
	switch {
	case errors.As(err, &paymentErr):
		response.RespondJSON(ctx, http.StatusPaymentRequired, paymentErr.Error(), paymentErr.Booking, nil)
	case errors.Is(err, selection.ErrEmpty),
		errors.Is(err, selection.ErrTooManySeats),
		errors.Is(err, selection.ErrDuplicateSeat),
		errors.Is(err, ErrUnknownSeats):
		response.RespondError(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, showtimes.ErrShowtimeNotFound):
		response.RespondError(ctx, http.StatusNotFound, "Showtime not found")
	case errors.Is(err, ErrBookingNotFound):
		response.RespondError(ctx, http.StatusNotFound, "Booking not found")
	case errors.Is(err, ErrBookingForbidden):
		response.RespondError(ctx, http.StatusForbidden, "You do not have access to this booking")
	case errors.Is(err, ErrSeatTaken),
		errors.Is(err, ErrShowtimeNotBookable),
		errors.Is(err, ErrTicketUnavailable),
		errors.Is(err, ErrInvalidTransition):
		response.RespondError(ctx, http.StatusConflict, err.Error())
	default:
		response.RespondError(ctx, http.StatusInternalServerError, "Failed to process booking request")
	}
}
