package seats

import (
	"errors"
	"net/http"

	"cinebook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrShowtimeNotFound is returned by resolvers for unknown showtimes
var ErrShowtimeNotFound = errors.New("showtime not found")

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{service: service, validator: validator.New()}
}

// GetShowtimeSeats handles GET /showtimes/:id/seats
func (c *Controller) GetShowtimeSeats(ctx *gin.Context) {
	showtimeID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid showtime ID")
		return
	}

	catalog, err := c.service.GetCatalog(ctx.Request.Context(), showtimeID)
	if err != nil {
		if errors.Is(err, ErrShowtimeNotFound) {
			response.RespondError(ctx, http.StatusNotFound, "Showtime not found")
			return
		}
		response.RespondError(ctx, http.StatusInternalServerError, "Failed to load seats")
		return
	}

	response.RespondJSON(ctx, http.StatusOK, "Seats retrieved successfully", catalog, nil)
}

// GetHallSeats handles GET /admin/halls/:id/seats
func (c *Controller) GetHallSeats(ctx *gin.Context) {
	hallID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid hall ID")
		return
	}

	list, err := c.service.GetSeatsByHall(ctx.Request.Context(), hallID)
	if err != nil {
		response.RespondError(ctx, http.StatusInternalServerError, "Failed to load seats")
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Seats retrieved successfully", list, nil)
}

// UpdateSeatType handles PUT /admin/seats/:id
func (c *Controller) UpdateSeatType(ctx *gin.Context) {
	seatID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid seat ID")
		return
	}

	var req UpdateSeatTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Validation failed", nil, response.FieldErrors(err))
		return
	}
	seatType, _ := ParseSeatType(req.SeatType)

	seat, err := c.service.UpdateSeatType(ctx.Request.Context(), seatID, seatType)
	if err != nil {
		if errors.Is(err, ErrSeatNotFound) {
			response.RespondError(ctx, http.StatusNotFound, "Seat not found")
			return
		}
		response.RespondError(ctx, http.StatusInternalServerError, "Failed to update seat")
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Seat updated successfully", seat, nil)
}
