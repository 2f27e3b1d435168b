package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"devconnect/internal/delivery/http/middleware"
	"devconnect/internal/pkg/response"
	ucauth "devconnect/internal/usecase/auth"
)

// UserHandler owns POST /api/user, the registration endpoint.
type UserHandler struct {
	uc ucauth.Usecase
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func NewUserHandler(uc ucauth.Usecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Register)
}

func (h *UserHandler) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid request payload", err)
	}

	var fields []response.FieldError
	if strings.TrimSpace(req.Name) == "" {
		fields = append(fields, response.FieldError{Msg: "Name must be provided for registration.."})
	}
	if !isEmail(req.Email) {
		fields = append(fields, response.FieldError{Msg: "Email must be provided"})
	}
	if len(req.Password) < 6 {
		fields = append(fields, response.FieldError{Msg: "password must be strong.."})
	}
	if len(fields) > 0 {
		return middleware.NewValidationError(fields)
	}

	token, err := h.uc.Register(c.Context(), ucauth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, ucauth.ErrUserExists) {
			return middleware.NewValidationError([]response.FieldError{{Msg: "user already exist"}})
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageServerError, err)
	}

	return response.JSON(c, fiber.StatusOK, tokenResponse{Token: token})
}

func isEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return strings.Contains(s[at+1:], ".")
}
