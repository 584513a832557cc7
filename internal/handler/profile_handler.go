package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"inkpost/internal/auth"
	"inkpost/internal/errors"
	"inkpost/internal/model"
	"inkpost/internal/service"
)

// ProfileHandler handles profile endpoints.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// SyncProfileRequest carries the identity provider's view of the caller.
type SyncProfileRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"omitempty,email"`
	Image string `json:"image" validate:"omitempty,url"`
}

// GetProfile godoc
// @Summary Get a public profile
// @Tags profiles
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.Profile
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /profiles/{id} [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	profile, err := h.profileService.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, profile)
}

// SyncMyProfile godoc
// @Summary Record the caller's profile
// @Description Called after sign-in so posts and comments can show the author.
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SyncProfileRequest true "Profile data"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /me/profile [put]
func (h *ProfileHandler) SyncMyProfile(c echo.Context) error {
	userID, err := auth.UserID(c)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req SyncProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	profile, err := h.profileService.SyncProfile(c.Request().Context(), &model.Profile{
		ID:    userID,
		Name:  req.Name,
		Email: req.Email,
		Image: req.Image,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, profile)
}
