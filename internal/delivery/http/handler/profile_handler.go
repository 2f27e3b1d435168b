package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"devconnect/internal/delivery/http/middleware"
	"devconnect/internal/domain/user"
	"devconnect/internal/pkg/response"
	ucprofile "devconnect/internal/usecase/profile"
)

type ProfileHandler struct {
	uc     ucprofile.Usecase
	authMw *middleware.AuthMiddleware
}

type upsertProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Status         string `json:"status"`
	Skills         string `json:"skills"`
	Bio            string `json:"bio"`
	Location       string `json:"location"`
	GithubUsername string `json:"githubusername"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

type experienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type educationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      *bool  `json:"current"`
	Description  string `json:"description"`
}

func NewProfileHandler(uc ucprofile.Usecase, authMw *middleware.AuthMiddleware) *ProfileHandler {
	return &ProfileHandler{uc: uc, authMw: authMw}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	auth := h.authMw.Middleware()

	r.Get("/me", h.GetMe, auth)
	r.Post("/", h.Upsert, auth)
	r.Get("/", h.List)
	r.Get("/user/:user_id", h.GetByUserID)
	r.Delete("/", h.DeleteAccount, auth)

	r.Put("/experience", h.AddExperience, auth)
	r.Delete("/experience/:exp_id", h.RemoveExperience, auth)
	r.Put("/education", h.AddEducation, auth)
	r.Delete("/education/:edu_id", h.RemoveEducation, auth)

	r.Get("/github/:username", h.GithubRepos)
}

func (h *ProfileHandler) GetMe(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "no token, authorization denied", nil)
	}

	p, err := h.uc.GetMe(c.Context(), userID)
	if err != nil {
		return mapProfileError(err)
	}
	return response.JSON(c, fiber.StatusOK, p)
}

func (h *ProfileHandler) Upsert(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "no token, authorization denied", nil)
	}

	var req upsertProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid request payload", err)
	}

	var fields []response.FieldError
	if strings.TrimSpace(req.Status) == "" {
		fields = append(fields, response.FieldError{Msg: "status is required"})
	}
	if strings.TrimSpace(req.Skills) == "" {
		fields = append(fields, response.FieldError{Msg: "skills is required"})
	}
	if len(fields) > 0 {
		return middleware.NewValidationError(fields)
	}

	p, err := h.uc.Upsert(c.Context(), userID, ucprofile.UpsertInput{
		Company:        req.Company,
		Website:        req.Website,
		Status:         req.Status,
		Skills:         req.Skills,
		Bio:            req.Bio,
		Location:       req.Location,
		GithubUsername: req.GithubUsername,
		Youtube:        req.Youtube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		Linkedin:       req.Linkedin,
		Instagram:      req.Instagram,
	})
	if err != nil {
		return mapProfileError(err)
	}
	return response.JSON(c, fiber.StatusOK, p)
}

func (h *ProfileHandler) List(c fiber.Ctx) error {
	profiles, err := h.uc.List(c.Context())
	if err != nil {
		return mapProfileError(err)
	}
	return response.JSON(c, fiber.StatusOK, profiles)
}

func (h *ProfileHandler) GetByUserID(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		// Malformed ids behave like unknown users.
		return middleware.NewAppError(fiber.StatusBadRequest, "there is no profile for this user", err)
	}

	p, err := h.uc.GetByUserID(c.Context(), userID)
	if err != nil {
		return mapProfileError(err)
	}
	return response.JSON(c, fiber.StatusOK, p)
}

func (h *ProfileHandler) DeleteAccount(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "no token, authorization denied", nil)
	}

	if err := h.uc.DeleteAccount(c.Context(), userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "user not found", err)
		}
		return mapProfileError(err)
	}
	return response.Msg(c, fiber.StatusOK, "user removed")
}

func (h *ProfileHandler) AddExperience(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "no token, authorization denied", nil)
	}

	var req experienceRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid request payload", err)
	}

	var fields []response.FieldError
	if strings.TrimSpace(req.Title) == "" {
		fields = append(fields, response.FieldError{Msg: "title is required"})
	}
	if strings.TrimSpace(req.Company) == "" {
		fields = append(fields, response.FieldError{Msg: "company is required"})
	}
	if strings.TrimSpace(req.From) == "" {
		fields = append(fields, response.FieldError{Msg: "from date is required"})
	}
	if len(fields) > 0 {
		return middleware.NewValidationError(fields)
	}

	p, err := h.uc.AddExperience(c.Context(), userID, ucprofile.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		return mapProfileError(err)
	}
	return response.JSON(c, fiber.StatusOK, p)
}

func (h *ProfileHandler) RemoveExperience(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "no token, authorization denied", nil)
	}

	entryID, err := uuid.Parse(c.Params("exp_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "experience entry not found", err)
	}

	p, err := h.uc.RemoveExperience(c.Context(), userID, entryID)
	if err != nil {
		if errors.Is(err, ucprofile.ErrEntryNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "experience entry not found", err)
		}
		return mapProfileError(err)
	}
	return response.JSON(c, fiber.StatusOK, p)
}

func (h *ProfileHandler) AddEducation(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "no token, authorization denied", nil)
	}

	var req educationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid request payload", err)
	}

	var fields []response.FieldError
	if strings.TrimSpace(req.School) == "" {
		fields = append(fields, response.FieldError{Msg: "school is required"})
	}
	if strings.TrimSpace(req.Degree) == "" {
		fields = append(fields, response.FieldError{Msg: "degree is required"})
	}
	if strings.TrimSpace(req.FieldOfStudy) == "" {
		fields = append(fields, response.FieldError{Msg: "fieldofstudy is required"})
	}
	if strings.TrimSpace(req.From) == "" {
		fields = append(fields, response.FieldError{Msg: "from date is required"})
	}
	if req.Current == nil {
		fields = append(fields, response.FieldError{Msg: "current educational status is required"})
	}
	if len(fields) > 0 {
		return middleware.NewValidationError(fields)
	}

	p, err := h.uc.AddEducation(c.Context(), userID, ucprofile.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      *req.Current,
		Description:  req.Description,
	})
	if err != nil {
		return mapProfileError(err)
	}
	return response.JSON(c, fiber.StatusOK, p)
}

func (h *ProfileHandler) RemoveEducation(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "no token, authorization denied", nil)
	}

	entryID, err := uuid.Parse(c.Params("edu_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "education entry not found", err)
	}

	p, err := h.uc.RemoveEducation(c.Context(), userID, entryID)
	if err != nil {
		if errors.Is(err, ucprofile.ErrEntryNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "education entry not found", err)
		}
		return mapProfileError(err)
	}
	return response.JSON(c, fiber.StatusOK, p)
}

func (h *ProfileHandler) GithubRepos(c fiber.Ctx) error {
	repos, err := h.uc.GithubRepos(c.Context(), c.Params("username"))
	if err != nil {
		if errors.Is(err, ucprofile.ErrNoGithubUser) {
			return middleware.NewAppError(fiber.StatusNotFound, "no github profile found!!", err)
		}
		return mapProfileError(err)
	}
	return response.JSON(c, fiber.StatusOK, repos)
}

func mapProfileError(err error) error {
	switch {
	case errors.Is(err, ucprofile.ErrNoProfile):
		return middleware.NewAppError(fiber.StatusBadRequest, "there is no profile for this user", err)
	case errors.Is(err, ucprofile.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, "profile was modified concurrently, please retry", err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageServerError, err)
	}
}
