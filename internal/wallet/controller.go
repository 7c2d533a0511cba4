package wallet

import (
	"errors"
	"net/http"

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

// GetWallet handles GET /wallet
func (c *Controller) GetWallet(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	page, limit := response.PageParams(ctx)
	summary, err := c.service.GetSummary(ctx.Request.Context(), userID, page, limit)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Wallet retrieved successfully", summary, nil)
}

// TopUp handles POST /admin/users/:id/wallet/top-up
func (c *Controller) TopUp(ctx *gin.Context) {
	userID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req TopUpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, http.StatusBadRequest, "Validation failed", nil, response.FieldErrors(err))
		return
	}

	txn, err := c.service.TopUp(ctx.Request.Context(), userID, req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	response.RespondJSON(ctx, http.StatusCreated, "Wallet credited successfully", txn, nil)
}

func (c *Controller) handleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrWalletNotFound):
		response.RespondError(ctx, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrInvalidAmount):
		response.RespondError(ctx, http.StatusBadRequest, err.Error())
	default:
		response.RespondError(ctx, http.StatusInternalServerError, "Failed to process wallet request")
	}
}
