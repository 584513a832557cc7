package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"inkpost/internal/auth"
	"inkpost/internal/errors"
	"inkpost/internal/model"
	"inkpost/internal/service"
)

// PostHandler handles post and comment endpoints.
type PostHandler struct {
	contentService service.ContentService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(contentService service.ContentService) *PostHandler {
	return &PostHandler{contentService: contentService}
}

// CreatePostRequest represents a new post submitted by its author.
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
	Summary string `json:"summary" validate:"max=2000"`
}

// AddCommentRequest represents a new comment.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

// PostDetailResponse is a post with its full comment thread. Comments is
// always present, empty when the thread could not be loaded.
type PostDetailResponse struct {
	model.Post
	Comments []model.Comment `json:"comments"`
}

// ListPosts godoc
// @Summary List posts
// @Description Every post, newest first, with its author.
// @Tags posts
// @Produce json
// @Success 200 {array} model.Post
// @Router /posts [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.contentService.ListPosts(c.Request().Context()))
}

// GetPost godoc
// @Summary Get a post with its comments
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} PostDetailResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.contentService.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, PostDetailResponse{Post: *post, Comments: post.Comments})
}

// ListAuthorPosts godoc
// @Summary List an author's posts
// @Description Empty when the author's profile cannot be loaded.
// @Tags posts
// @Produce json
// @Param id path string true "Author ID"
// @Success 200 {array} model.Post
// @Router /authors/{id}/posts [get]
func (h *PostHandler) ListAuthorPosts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.contentService.ListPostsByAuthor(c.Request().Context(), c.Param("id")))
}

// SearchPosts godoc
// @Summary Full-text search over titles and contents
// @Description Any term may match. Results are unranked.
// @Tags posts
// @Produce json
// @Param q query string false "Search query"
// @Success 200 {array} model.Post
// @Router /search [get]
func (h *PostHandler) SearchPosts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.contentService.SearchPosts(c.Request().Context(), c.QueryParam("q")))
}

// CreatePost godoc
// @Summary Publish a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePostRequest true "Post data"
// @Success 201 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	authorID, err := auth.UserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Summary = strings.TrimSpace(req.Summary)

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	post, err := h.contentService.CreatePost(c.Request().Context(), service.CreatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		Summary:  req.Summary,
		AuthorID: authorID,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, post)
}

// AddComment godoc
// @Summary Comment on a post
// @Description Returns the stored comment; re-fetch the post for the hydrated thread.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body AddCommentRequest true "Comment data"
// @Success 201 {object} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id}/comments [post]
func (h *PostHandler) AddComment(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	req.Text = strings.TrimSpace(req.Text)

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	comment, err := h.contentService.AddComment(c.Request().Context(), service.AddCommentInput{
		PostID: c.Param("id"),
		UserID: userID,
		Text:   req.Text,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, comment)
}
