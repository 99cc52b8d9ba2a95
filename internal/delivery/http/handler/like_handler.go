package handler

import (
	"net/http"

	"github.com/gdugdh24/heartmatch-backend/internal/usecase/like"
	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likeUseCase *like.LikeUseCase
}

func NewLikeHandler(likeUseCase *like.LikeUseCase) *LikeHandler {
	return &LikeHandler{likeUseCase: likeUseCase}
}

// CreateLike handles POST /likes
// @Summary Like a user
// @Description Records a like and reports whether it completed a mutual match
// @Tags likes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body like.LikeRequest true "Like target"
// @Success 200 {object} like.LikeResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /likes [post]
func (h *LikeHandler) CreateLike(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req like.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	result, err := h.likeUseCase.RecordLike(c.Request.Context(), userID, req.TargetUserID)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
