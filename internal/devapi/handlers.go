package devapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bekizod/Blog-Post/internal/api"
	"github.com/bekizod/Blog-Post/internal/form"

	"github.com/gin-gonic/gin"
)

const defaultPageLimit = 10

// Handler handles HTTP requests for the development API
type Handler struct {
	service *Service
}

// NewHandler creates a new handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login handles POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req form.Login
	if !bindEnvelope(c, &req) {
		return
	}

	token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidLogin) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Status:  api.StatusError,
				Message: "Invalid email or password",
			})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Status:  api.StatusError,
			Message: "Login failed",
		})
		return
	}

	c.JSON(http.StatusOK, EnvelopeResponse{
		Status:  api.StatusSuccess,
		Message: "Login successful",
		Data:    api.AccessToken{AccessToken: token},
	})
}

// Register handles POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	var req form.Register
	if !bindEnvelope(c, &req) {
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			c.JSON(http.StatusConflict, ErrorResponse{
				StatusCode: http.StatusConflict,
				Message:    "Email already registered",
				Error:      "Conflict",
			})
		case errors.Is(err, ErrUserNameTaken):
			c.JSON(http.StatusConflict, ErrorResponse{
				Status:  api.StatusError,
				Message: "Validation failed",
				Errors:  map[string]string{"userName": "is already taken"},
			})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Status:  api.StatusError,
				Message: "Registration failed",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, EnvelopeResponse{
		Status:  api.StatusSuccess,
		Message: "User registered successfully",
		Data:    u,
	})
}

// GetProfile handles GET /user/profile
func (h *Handler) GetProfile(c *gin.Context) {
	userID, _ := GetUserID(c)

	profile, err := h.service.Profile(userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /user/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, _ := GetUserID(c)

	var req form.Profile
	if !bindForm(c, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(userID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListPosts handles GET /posts?page&limit&search
func (h *Handler) ListPosts(c *gin.Context) {
	viewerID, _ := GetUserID(c)
	page, limit := pageParams(c)

	c.JSON(http.StatusOK, h.service.ListPosts(viewerID, c.Query("search"), page, limit))
}

// GetPost handles GET /posts/:id
func (h *Handler) GetPost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	viewerID, _ := GetUserID(c)

	p, err := h.service.GetPost(viewerID, postID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreatePost handles POST /posts/createPost
func (h *Handler) CreatePost(c *gin.Context) {
	userID, _ := GetUserID(c)

	var req form.Post
	if !bindForm(c, &req) {
		return
	}

	c.JSON(http.StatusCreated, h.service.CreatePost(c.Request.Context(), userID, req))
}

// UpdatePost handles PATCH /posts/:id
func (h *Handler) UpdatePost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	userID, _ := GetUserID(c)

	var req form.Post
	if !bindForm(c, &req) {
		return
	}

	p, err := h.service.UpdatePost(c.Request.Context(), userID, postID, req)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			c.JSON(http.StatusForbidden, ErrorResponse{Message: "You are not authorized to update this post"})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeletePost handles DELETE /posts/:id
func (h *Handler) DeletePost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	userID, _ := GetUserID(c)

	if err := h.service.DeletePost(c.Request.Context(), userID, postID); err != nil {
		if errors.Is(err, ErrForbidden) {
			c.JSON(http.StatusForbidden, ErrorResponse{Message: "You are not authorized to delete this post"})
			return
		}
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListComments handles GET /posts/:id/comments?page&limit
func (h *Handler) ListComments(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)

	comments, err := h.service.ListComments(postID, page, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// AddComment handles POST /posts/:id/comments
func (h *Handler) AddComment(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	userID, _ := GetUserID(c)

	var req form.Comment
	if !bindForm(c, &req) {
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), userID, postID, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ToggleLike handles POST /posts/:id/likes. The response carries no like state.
func (h *Handler) ToggleLike(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	userID, _ := GetUserID(c)

	if err := h.service.ToggleLike(c.Request.Context(), userID, postID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Like toggled"})
}

// CheckLike handles GET /posts/:id/likes/check
func (h *Handler) CheckLike(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	userID, _ := GetUserID(c)

	liked, err := h.service.IsLiked(userID, postID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, api.LikeStatus{IsLiked: liked})
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Health())
}

// fail maps service errors onto HTTP statuses
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrPostNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Post not found"})
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "User not found"})
	case errors.Is(err, ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Validation failed",
			Errors:  map[string]string{"email": "is already registered"},
		})
	case errors.Is(err, ErrUserNameTaken):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Validation failed",
			Errors:  map[string]string{"userName": "is already taken"},
		})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Forbidden"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}

// bindForm decodes and validates a JSON body, answering 400 on failure
func bindForm(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return false
	}
	if fields := form.Validate(dst); fields != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Errors: fields})
		return false
	}
	return true
}

// bindEnvelope is bindForm for the auth endpoints, whose errors carry a status
func bindEnvelope(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Status: api.StatusError, Message: "Invalid request body"})
		return false
	}
	if fields := form.Validate(dst); fields != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  api.StatusError,
			Message: "Validation failed",
			Errors:  fields,
		})
		return false
	}
	return true
}

func postIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid post ID"})
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	return page, min(limit, MaxPageLimit)
}
