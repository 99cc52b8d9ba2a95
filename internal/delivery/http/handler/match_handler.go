package handler

import (
	"net/http"
	"strconv"

	"github.com/gdugdh24/heartmatch-backend/internal/usecase/match"
	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchUseCase *match.MatchUseCase
}

func NewMatchHandler(matchUseCase *match.MatchUseCase) *MatchHandler {
	return &MatchHandler{matchUseCase: matchUseCase}
}

// MatchesResponse is the GET /matches body.
type MatchesResponse struct {
	Matches []*match.MatchedUser `json:"matches"`
	Count   int                  `json:"count"`
}

// ListMatches handles GET /matches
// @Summary My matches
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} MatchesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches [get]
func (h *MatchHandler) ListMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, err := queryInt(c, "limit", match.DefaultLimit)
	if err != nil {
		badRequest(c, "invalid limit")
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		badRequest(c, "invalid offset")
		return
	}

	matches, err := h.matchUseCase.ListMatches(c.Request.Context(), userID, limit, offset)
	if err != nil {
		WriteError(c, err)
		return
	}
	if matches == nil {
		matches = []*match.MatchedUser{}
	}

	c.JSON(http.StatusOK, MatchesResponse{
		Matches: matches,
		Count:   len(matches),
	})
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
