package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/usecase/auth"
)

var validate = validator.New()

type AuthHandler struct {
	authUseCase *auth.AuthUseCase
}

func NewAuthHandler(authUseCase *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

// PhoneRequest carries a bare phone number payload
type PhoneRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
}

// VerifyOTPRequest carries the code submitted for a phone number
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
}

// RequestOTP handles POST /auth/request-otp
// @Summary Request OTP
// @Description Issue a one-time code for the phone number
// @Tags auth
// @Accept json
// @Produce json
// @Param request body PhoneRequest true "Phone number"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/request-otp [post]
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid phone number",
		})
		return
	}

	if err := h.authUseCase.RequestOTP(c.Request.Context(), req.PhoneNumber); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to send OTP",
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "OTP sent",
	})
}

// VerifyOTP handles POST /auth/verify-otp
// @Summary Verify OTP
// @Description Exchange a valid code for a token, or learn registration is needed
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Phone number and code"
// @Success 200 {object} auth.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid phone number or code",
		})
		return
	}

	result, err := h.authUseCase.VerifyOTP(c.Request.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOTP) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error: "invalid or expired OTP",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "verification failed",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Register handles POST /auth/register
// @Summary Register
// @Description Create a profile and return an auth token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.RegisterRequest true "Registration data"
// @Success 201 {object} auth.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	result, err := h.authUseCase.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error: "user already exists",
			})
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "invalid registration data",
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "registration failed",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// CheckUser handles POST /auth/check-user
// @Summary Check user
// @Description Report whether a profile exists for the phone number
// @Tags auth
// @Accept json
// @Produce json
// @Param request body PhoneRequest true "Phone number"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/check-user [post]
func (h *AuthHandler) CheckUser(c *gin.Context) {
	var req PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}
	if err := validate.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid phone number",
		})
		return
	}

	exists, err := h.authUseCase.CheckUser(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to check user",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exists": exists,
	})
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents success response
type SuccessResponse struct {
	Message string `json:"message"`
}
