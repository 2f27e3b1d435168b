package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"devconnect/internal/delivery/http/middleware"
	"devconnect/internal/domain/user"
	"devconnect/internal/pkg/response"
	ucauth "devconnect/internal/usecase/auth"
)

// AuthHandler owns /api/auth: login and the caller's user record.
type AuthHandler struct {
	uc     ucauth.Usecase
	authMw *middleware.AuthMiddleware
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewAuthHandler(uc ucauth.Usecase, authMw *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{uc: uc, authMw: authMw}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Login)
	r.Get("/", h.Me, h.authMw.Middleware())
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid request payload", err)
	}

	var fields []response.FieldError
	if !isEmail(req.Email) {
		fields = append(fields, response.FieldError{Msg: "Email must be provided"})
	}
	if strings.TrimSpace(req.Password) == "" {
		fields = append(fields, response.FieldError{Msg: "password is required"})
	}
	if len(fields) > 0 {
		return middleware.NewValidationError(fields)
	}

	token, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, ucauth.ErrInvalidCredentials) {
			return middleware.NewValidationError([]response.FieldError{{Msg: "Invalid credentials"}})
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageServerError, err)
	}

	return response.JSON(c, fiber.StatusOK, tokenResponse{Token: token})
}

func (h *AuthHandler) Me(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "no token, authorization denied", nil)
	}

	usr, err := h.uc.Me(c.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "user not found", err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageServerError, err)
	}

	return response.JSON(c, fiber.StatusOK, usr)
}
