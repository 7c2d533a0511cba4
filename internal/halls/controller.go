package halls

import (
	"errors"
	"net/http"

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

// CreateHall handles POST /admin/halls
func (c *Controller) CreateHall(ctx *gin.Context) {
	var req CreateHallRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Validation failed", nil, response.FieldErrors(err))
		return
	}

	hall, err := c.service.CreateHall(ctx.Request.Context(), req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusCreated, "Hall created successfully", hall, nil)
}

// GetHall handles GET /admin/halls/:id
func (c *Controller) GetHall(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid hall ID")
		return
	}

	hall, err := c.service.GetHall(ctx.Request.Context(), id)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Hall retrieved successfully", hall, nil)
}

// ListHalls handles GET /admin/halls
func (c *Controller) ListHalls(ctx *gin.Context) {
	page, limit := response.PageParams(ctx)
	list, err := c.service.ListHalls(ctx.Request.Context(), page, limit)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Halls retrieved successfully", list, nil)
}

// DeleteHall handles DELETE /admin/halls/:id
func (c *Controller) DeleteHall(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid hall ID")
		return
	}

	if err := c.service.DeleteHall(ctx.Request.Context(), id); err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Hall deleted successfully", nil, nil)
}

func (c *Controller) handleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrHallNotFound):
		response.RespondError(ctx, http.StatusNotFound, "Hall not found")
	case errors.Is(err, ErrHallExists), errors.Is(err, ErrHallInUse):
		response.RespondError(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidLayout):
		response.RespondError(ctx, http.StatusBadRequest, err.Error())
	default:
		response.RespondError(ctx, http.StatusInternalServerError, "Failed to process hall request")
	}
}
