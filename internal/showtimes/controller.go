package showtimes

import (
	"errors"
	"net/http"

	"cinebook/internal/halls"
	"cinebook/internal/movies"
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

// ListShowtimes handles GET /showtimes?movie_id=&date=
func (c *Controller) ListShowtimes(ctx *gin.Context) {
	var query ShowtimeListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&query); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Validation failed", nil, response.FieldErrors(err))
		return
	}
	// the public listing only shows what can still be booked
	if !middleware.IsAdmin(ctx) {
		query.Status = string(StatusScheduled)
	}
	query.Page, query.Limit = response.PageParams(ctx)

	page, err := c.service.ListShowtimes(ctx.Request.Context(), query)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Showtimes retrieved successfully", page, nil)
}

// GetShowtime handles GET /showtimes/:id
func (c *Controller) GetShowtime(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid showtime ID")
		return
	}

	showtime, err := c.service.GetShowtime(ctx.Request.Context(), id)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Showtime retrieved successfully", showtime, nil)
}

// CreateShowtime handles POST /admin/showtimes
func (c *Controller) CreateShowtime(ctx *gin.Context) {
	var req CreateShowtimeRequest
	if !c.bind(ctx, &req) {
		return
	}

	showtime, err := c.service.CreateShowtime(ctx.Request.Context(), req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusCreated, "Showtime created successfully", showtime, nil)
}

// UpdateShowtime handles PUT /admin/showtimes/:id
func (c *Controller) UpdateShowtime(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid showtime ID")
		return
	}

	var req UpdateShowtimeRequest
	if !c.bind(ctx, &req) {
		return
	}

	showtime, err := c.service.UpdateShowtime(ctx.Request.Context(), id, req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Showtime updated successfully", showtime, nil)
}

// DeleteShowtime handles DELETE /admin/showtimes/:id
func (c *Controller) DeleteShowtime(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid showtime ID")
		return
	}

	if err := c.service.DeleteShowtime(ctx.Request.Context(), id); err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Showtime deleted successfully", nil, nil)
}

func (c *Controller) bind(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return false
	}
	if err := c.validator.Struct(req); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Validation failed", nil, response.FieldErrors(err))
		return false
	}
	return true
}

func (c *Controller) handleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrShowtimeNotFound):
		response.RespondError(ctx, http.StatusNotFound, "Showtime not found")
	case errors.Is(err, movies.ErrMovieNotFound):
		response.RespondError(ctx, http.StatusNotFound, "Movie not found")
	case errors.Is(err, halls.ErrHallNotFound):
		response.RespondError(ctx, http.StatusNotFound, "Hall not found")
	case errors.Is(err, ErrHallBusy), errors.Is(err, ErrHasBookings):
		response.RespondError(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, ErrShowtimeInPast), errors.Is(err, ErrMovieNotBookable):
		response.RespondError(ctx, http.StatusBadRequest, err.Error())
	default:
		response.RespondError(ctx, http.StatusInternalServerError, "Failed to process showtime request")
	}
}
