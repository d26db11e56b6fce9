package account

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FitnessGH/fitness-gh-backend/internal/api"
	"github.com/FitnessGH/fitness-gh-backend/internal/auth"
	"github.com/FitnessGH/fitness-gh-backend/internal/logger"
	"github.com/FitnessGH/fitness-gh-backend/internal/otp"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Register godoc
// @Summary      Register account
// @Description  Creates an account with its profile and returns access & refresh tokens. A verification code is emailed.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Registration data"
// @Success      201      {object}  api.Envelope
// @Failure      400      {object}  api.ErrorEnvelope
// @Failure      409      {object}  api.ErrorEnvelope
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailExists):
			api.Fail(c, http.StatusConflict, ErrEmailExists.Error())
		case errors.Is(err, ErrUsernameTaken):
			api.Fail(c, http.StatusConflict, ErrUsernameTaken.Error())
		default:
			logger.Error("register failed", "error", err)
			api.Fail(c, http.StatusInternalServerError, "Failed to register")
		}
		return
	}

	api.OK(c, http.StatusCreated, "Account created", resp)
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  api.Envelope
// @Failure      401      {object}  api.ErrorEnvelope
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			api.Fail(c, http.StatusUnauthorized, ErrInvalidCredentials.Error())
		case errors.Is(err, ErrAccountDisabled):
			api.Fail(c, http.StatusForbidden, ErrAccountDisabled.Error())
		default:
			logger.Error("login failed", "error", err)
			api.Fail(c, http.StatusInternalServerError, "Failed to login")
		}
		return
	}

	api.OK(c, http.StatusOK, "Logged in", resp)
}

// Refresh godoc
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshRequest  true  "Refresh token"
// @Success      200      {object}  api.Envelope
// @Failure      401      {object}  api.ErrorEnvelope
// @Router       /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	accessToken, me, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			api.Fail(c, http.StatusNotFound, ErrAccountNotFound.Error())
			return
		}
		api.Fail(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	api.OK(c, http.StatusOK, "", gin.H{
		"access_token": accessToken,
		"account":      me.Account,
		"profile":      me.Profile,
	})
}

// Logout godoc
// @Summary      Logout
// @Description  Revokes the given refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshRequest  true  "Refresh token"
// @Success      200      {object}  api.Envelope
// @Router       /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		logger.Error("logout failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to logout")
		return
	}

	api.OK(c, http.StatusOK, "Logged out", nil)
}

// RequestVerification godoc
// @Summary      Resend verification code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      map[string]string  true  "Account email"
// @Success      200      {object}  api.Envelope
// @Failure      404      {object}  api.ErrorEnvelope
// @Router       /auth/verify-email/request [post]
func (h *Handler) RequestVerification(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.RequestVerification(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			api.Fail(c, http.StatusNotFound, ErrAccountNotFound.Error())
			return
		}
		logger.Error("request verification failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to send verification code")
		return
	}

	api.OK(c, http.StatusOK, "Verification code sent", nil)
}

// VerifyEmail godoc
// @Summary      Verify email
// @Description  Consumes the emailed 6-digit code and marks the account verified.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      VerifyEmailRequest  true  "Email and code"
// @Success      200      {object}  api.Envelope
// @Failure      400      {object}  api.ErrorEnvelope
// @Failure      404      {object}  api.ErrorEnvelope
// @Router       /auth/verify-email [post]
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, ErrAccountNotFound):
			api.Fail(c, http.StatusNotFound, ErrAccountNotFound.Error())
		case errors.Is(err, otp.ErrCodeMismatch):
			api.Fail(c, http.StatusBadRequest, otp.ErrCodeMismatch.Error())
		default:
			logger.Error("verify email failed", "error", err)
			api.Fail(c, http.StatusInternalServerError, "Failed to verify email")
		}
		return
	}

	api.OK(c, http.StatusOK, "Email verified", nil)
}

// GetMe godoc
// @Summary      Get current account and profile
// @Tags         account
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Failure      404  {object}  api.ErrorEnvelope
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	accountID, ok := auth.GetAccountID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	me, err := h.svc.GetMe(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			api.Fail(c, http.StatusNotFound, ErrAccountNotFound.Error())
			return
		}
		logger.Error("get me failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch account")
		return
	}

	api.OK(c, http.StatusOK, "", me)
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Tags         account
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      UpdateProfileRequest  true  "Fields to update"
// @Success      200      {object}  api.Envelope
// @Failure      409      {object}  api.ErrorEnvelope
// @Router       /me/profile [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.svc.UpdateProfile(c.Request.Context(), profileID, req)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			api.Fail(c, http.StatusConflict, ErrUsernameTaken.Error())
			return
		}
		logger.Error("update profile failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	api.OK(c, http.StatusOK, "Profile updated", profile)
}
