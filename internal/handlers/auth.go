package handlers

import (
	"net/http"

	"github.com/anonto42/eventpulse/backend/internal/apperr"
	"github.com/anonto42/eventpulse/backend/internal/middleware"
	"github.com/anonto42/eventpulse/backend/internal/models"
	"github.com/anonto42/eventpulse/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth     *services.AuthService
	uploader PictureUploader
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *services.AuthService, uploader PictureUploader) *AuthHandler {
	return &AuthHandler{auth: auth, uploader: uploader}
}

// RegisterAuthRoutes registers the public authentication routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/google", h.GoogleLogin)
	g.POST("/forgot-password", h.ForgotPassword)
	g.POST("/reset-password/:token", h.ResetPassword)
}

// RegisterProtectedRoutes registers routes that need a logged-in user
func (h *AuthHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.PATCH("/change-password", h.ChangePassword)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	picture, err := savePicture(c, h.uploader, "profiles")
	if err != nil {
		return err
	}
	if picture != "" {
		req.PicturePath = picture
	}

	user, err := h.auth.Register(c.Request().Context(), req)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	resp, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req models.GoogleLoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	resp, err := h.auth.GoogleLogin(c.Request().Context(), req.Credential)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Email sent"})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated successfully"})
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req models.ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	userID := actingUser(c, req.UserID)
	if userID != middleware.CurrentUserID(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You can only change your own password")
	}
	if err := h.auth.ChangePassword(c.Request().Context(), userID, req.Current, req.New); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated successfully"})
}
