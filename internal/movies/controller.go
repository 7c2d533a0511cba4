package movies

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

// ListMovies handles GET /movies
func (c *Controller) ListMovies(ctx *gin.Context) {
	var query MovieListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&query); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Validation failed", nil, response.FieldErrors(err))
		return
	}
	query.Page, query.Limit = response.PageParams(ctx)

	page, err := c.service.ListMovies(ctx.Request.Context(), query)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Movies retrieved successfully", page, nil)
}

// GetMovie handles GET /movies/:id, accepting an id or a slug
func (c *Controller) GetMovie(ctx *gin.Context) {
	param := ctx.Param("id")

	var (
		movie *Movie
		err   error
	)
	if id, parseErr := uuid.Parse(param); parseErr == nil {
		movie, err = c.service.GetMovie(ctx.Request.Context(), id)
	} else {
		movie, err = c.service.GetMovieBySlug(ctx.Request.Context(), param)
	}
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Movie retrieved successfully", movie, nil)
}

// CreateMovie handles POST /admin/movies
func (c *Controller) CreateMovie(ctx *gin.Context) {
	var req CreateMovieRequest
	if !c.bind(ctx, &req) {
		return
	}

	movie, err := c.service.CreateMovie(ctx.Request.Context(), req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusCreated, "Movie created successfully", movie, nil)
}

// UpdateMovie handles PUT /admin/movies/:id
func (c *Controller) UpdateMovie(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	var req UpdateMovieRequest
	if !c.bind(ctx, &req) {
		return
	}

	movie, err := c.service.UpdateMovie(ctx.Request.Context(), id, req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Movie updated successfully", movie, nil)
}

// DeleteMovie handles DELETE /admin/movies/:id
func (c *Controller) DeleteMovie(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	if err := c.service.DeleteMovie(ctx.Request.Context(), id); err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Movie deleted successfully", nil, nil)
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
	case errors.Is(err, ErrMovieNotFound):
		response.RespondError(ctx, http.StatusNotFound, "Movie not found")
	case errors.Is(err, ErrMovieInUse):
		response.RespondError(ctx, http.StatusConflict, "Movie still has showtimes")
	default:
		response.RespondError(ctx, http.StatusInternalServerError, "Failed to process movie request")
	}
}
