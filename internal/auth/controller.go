package auth

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
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
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

// RequestOTP handles POST /auth/otp/request
func (c *Controller) RequestOTP(ctx *gin.Context) {
	var req OTPRequest
	if !c.bind(ctx, &req) {
		return
	}

	resp, err := c.service.RequestOTP(ctx.Request.Context(), &req)
	if err != nil {
		c.handleError(ctx, err, "Failed to send verification code")
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Verification code sent", resp, nil)
}

// VerifyOTP handles POST /auth/otp/verify
func (c *Controller) VerifyOTP(ctx *gin.Context) {
	var req OTPVerifyRequest
	if !c.bind(ctx, &req) {
		return
	}

	resp, err := c.service.VerifyOTP(ctx.Request.Context(), &req)
	if err != nil {
		c.handleError(ctx, err, "Failed to verify code")
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Code verified", resp, nil)
}

// CompleteRegistration handles POST /auth/register/complete
func (c *Controller) CompleteRegistration(ctx *gin.Context) {
	var req CompleteRegistrationRequest
	if !c.bind(ctx, &req) {
		return
	}

	user, err := c.service.CompleteRegistration(ctx.Request.Context(), &req)
	if err != nil {
		c.handleError(ctx, err, "Failed to register user")
		return
	}
	response.RespondJSON(ctx, http.StatusCreated, "User registered successfully", user, nil)
}

// ResetPassword handles POST /auth/password/reset
func (c *Controller) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest
	if !c.bind(ctx, &req) {
		return
	}

	if err := c.service.ResetPassword(ctx.Request.Context(), &req); err != nil {
		c.handleError(ctx, err, "Failed to reset password")
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Password reset successfully", nil, nil)
}

func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if !c.bind(ctx, &req) {
		return
	}

	resp, err := c.service.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.handleError(ctx, err, "Failed to login")
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Login successful", resp, nil)
}

func (c *Controller) RefreshToken(ctx *gin.Context) {
	var req RefreshTokenRequest
	if !c.bind(ctx, &req) {
		return
	}

	tokenPair, err := c.service.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		c.handleError(ctx, err, "Failed to refresh token")
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Token refreshed successfully", tokenPair, nil)
}

// Logout is stateless; the client drops its tokens.
func (c *Controller) Logout(ctx *gin.Context) {
	response.RespondJSON(ctx, http.StatusOK, "Logged out successfully", nil, nil)
}

func (c *Controller) ChangePassword(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondError(ctx, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req ChangePasswordRequest
	if !c.bind(ctx, &req) {
		return
	}

	if err := c.service.ChangePassword(ctx.Request.Context(), userID.String(), &req); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.RespondError(ctx, http.StatusUnauthorized, "Current password is incorrect")
			return
		}
		c.handleError(ctx, err, "Failed to change password")
		return
	}
	response.RespondJSON(ctx, http.StatusOK, "Password changed successfully", nil, nil)
}

func (c *Controller) handleError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUserAlreadyExists):
		response.RespondError(ctx, http.StatusConflict, "User with this email already exists")
	case errors.Is(err, ErrUserNotFound):
		response.RespondError(ctx, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrInvalidCredentials):
		response.RespondError(ctx, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired):
		response.RespondError(ctx, http.StatusUnauthorized, "Invalid or expired refresh token")
	case errors.Is(err, ErrInvalidOTP):
		response.RespondError(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrOTPExpired), errors.Is(err, ErrVerificationInvalid):
		response.RespondError(ctx, http.StatusGone, err.Error())
	case errors.Is(err, ErrOTPAttemptsExceeded):
		response.RespondError(ctx, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, ErrInvalidPurpose):
		response.RespondError(ctx, http.StatusBadRequest, err.Error())
	default:
		response.RespondError(ctx, http.StatusInternalServerError, fallback)
	}
}
