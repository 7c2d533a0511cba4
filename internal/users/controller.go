package users

import (
	"errors"
	"net/http"

	"cinebook/internal/shared/middleware"
	"cinebook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{service: service, validator: validator.New()}
}

// GetMe handles GET /users/me
func (c *Controller) GetMe(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	profile, err := c.service.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Profile retrieved successfully", profile, nil)
}

// UpdateMe handles PUT /users/me
func (c *Controller) UpdateMe(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Validation failed", nil, response.FieldErrors(err))
		return
	}

	profile, err := c.service.UpdateProfile(ctx.Request.Context(), userID, req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Profile updated successfully", profile, nil)
}

// ListUsers handles GET /admin/users
func (c *Controller) ListUsers(ctx *gin.Context) {
	page, limit := response.PageParams(ctx)
	list, total, err := c.service.ListUsers(ctx.Request.Context(), page, limit)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Users retrieved successfully",
		response.NewPaginatedData(list, page, limit, total), nil)
}

func (c *Controller) handleError(ctx *gin.Context, err error) {
	if errors.Is(err, ErrUserNotFound) {
		response.RespondError(ctx, http.StatusNotFound, "User not found")
		return
	}
	response.RespondError(ctx, http.StatusInternalServerError, "Failed to process user request")
}
