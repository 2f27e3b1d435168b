package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"devconnect/internal/delivery/http/middleware"
	"devconnect/internal/pkg/response"
	ucpost "devconnect/internal/usecase/post"
)

type PostHandler struct {
	uc     ucpost.Usecase
	authMw *middleware.AuthMiddleware
	feed   fiber.Handler
}

type createPostRequest struct {
	Text string `json:"text"`
}

type commentRequest struct {
	Text string `json:"text"`
}

// NewPostHandler wires the posts surface. feed is the websocket upgrade
// handler for the live activity feed; nil disables the route.
func NewPostHandler(uc ucpost.Usecase, authMw *middleware.AuthMiddleware, feed fiber.Handler) *PostHandler {
	return &PostHandler{uc: uc, authMw: authMw, feed: feed}
}

func (h *PostHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	auth := h.authMw.Middleware()

	if h.feed != nil {
		r.Get("/feed", h.feed)
	}

	r.Post("/", h.Create, auth)
	r.Get("/", h.List, auth)
	r.Get("/:id", h.Get, auth)
	r.Delete("/:id", h.Delete, auth)

	r.Put("/like/:id", h.Like, auth)
	r.Put("/unlike/:id", h.Unlike, auth)

	r.Post("/comment/:id", h.AddComment, auth)
	r.Delete("/comment/:id/:comment_id", h.RemoveComment, auth)
}

func (h *PostHandler) Create(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "no token, authorization denied", nil)
	}

	var req createPostRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid request payload", err)
	}
	if strings.TrimSpace(req.Text) == "" {
		return middleware.NewValidationError([]response.FieldError{{Msg: "text is required"}})
	}

	p, err := h.uc.Create(c.Context(), userID, req.Text)
	if err != nil {
		return mapPostError(err)
	}
	return response.JSON(c, fiber.StatusOK, p)
}

func (h *PostHandler) List(c fiber.Ctx) error {
	posts, err := h.uc.List(c.Context())
	if err != nil {
		return mapPostError(err)
	}
	return response.JSON(c, fiber.StatusOK, posts)
}

func (h *PostHandler) Get(c fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	p, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapPostError(err)
	}
	return response.JSON(c, fiber.StatusOK, p)
}

func (h *PostHandler) Delete(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "no token, authorization denied", nil)
	}

	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), userID, id); err != nil {
		return mapPostError(err)
	}
	return response.Msg(c, fiber.StatusOK, "post removed")
}

func (h *PostHandler) Like(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "no token, authorization denied", nil)
	}

	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	likes, err := h.uc.Like(c.Context(), userID, id)
	if err != nil {
		return mapPostError(err)
	}
	return response.JSON(c, fiber.StatusOK, likes)
}

func (h *PostHandler) Unlike(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "no token, authorization denied", nil)
	}

	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	likes, err := h.uc.Unlike(c.Context(), userID, id)
	if err != nil {
		return mapPostError(err)
	}
	return response.JSON(c, fiber.StatusOK, likes)
}

func (h *PostHandler) AddComment(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "no token, authorization denied", nil)
	}

	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid request payload", err)
	}
	if strings.TrimSpace(req.Text) == "" {
		return middleware.NewValidationError([]response.FieldError{{Msg: "text is required"}})
	}

	comments, err := h.uc.AddComment(c.Context(), userID, id, req.Text)
	if err != nil {
		return mapPostError(err)
	}
	return response.JSON(c, fiber.StatusOK, comments)
}

func (h *PostHandler) RemoveComment(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "no token, authorization denied", nil)
	}

	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	commentID, perr := uuid.Parse(c.Params("comment_id"))
	if perr != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "comment does not exist", perr)
	}

	comments, err := h.uc.RemoveComment(c.Context(), userID, id, commentID)
	if err != nil {
		return mapPostError(err)
	}
	return response.JSON(c, fiber.StatusOK, comments)
}

func parsePostID(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		// Malformed ids behave like unknown posts.
		return uuid.Nil, middleware.NewAppError(fiber.StatusNotFound, "post not found..", err)
	}
	return id, nil
}

func mapPostError(err error) error {
	switch {
	case errors.Is(err, ucpost.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "post not found..", err)
	case errors.Is(err, ucpost.ErrCommentNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "comment does not exist", err)
	case errors.Is(err, ucpost.ErrNotAuthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "user not authorized..", err)
	case errors.Is(err, ucpost.ErrAlreadyLiked):
		return middleware.NewAppError(fiber.StatusBadRequest, "post already liked.", err)
	case errors.Is(err, ucpost.ErrNotLiked):
		return middleware.NewAppError(fiber.StatusBadRequest, "post has not been liked yet!!", err)
	case errors.Is(err, ucpost.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, "post was modified concurrently, please retry", err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageServerError, err)
	}
}
