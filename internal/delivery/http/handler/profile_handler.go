package handler

import (
	"net/http"

	"github.com/gdugdh24/heartmatch-backend/internal/usecase/profile"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	profileUseCase *profile.ProfileUseCase
}

func NewProfileHandler(profileUseCase *profile.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

// GetMyProfile handles GET /profile/me
// @Summary Get my profile
// @Description Get current user's full profile, email included
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.UserProfile
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	p, err := h.profileUseCase.GetMyProfile(c.Request.Context(), userID)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// UpdateMyProfile handles PUT /profile/me
// @Summary Update my profile
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.UpdateProfileRequest true "Profile update data"
// @Success 200 {object} domain.UserProfile
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/me [put]
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req profile.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	updated, err := h.profileUseCase.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// CreateMyProfile handles POST /profile/me
// @Summary Create my profile
// @Description Create the caller's profile (onboarding)
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.CreateProfileRequest true "Profile creation data"
// @Success 201 {object} domain.UserProfile
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/me [post]
func (h *ProfileHandler) CreateMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req profile.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	created, err := h.profileUseCase.CreateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetProfileByUserID handles GET /profile/:user_id
// @Summary Get user profile
// @Description Get another user's public profile by user ID
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} candidate.CandidateProfile
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/{user_id} [get]
func (h *ProfileHandler) GetProfileByUserID(c *gin.Context) {
	viewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		badRequest(c, "invalid user_id")
		return
	}

	p, err := h.profileUseCase.GetProfile(c.Request.Context(), viewerID, targetID)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
