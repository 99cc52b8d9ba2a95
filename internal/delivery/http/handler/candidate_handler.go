package handler

import (
	"net/http"

	"github.com/gdugdh24/heartmatch-backend/internal/usecase/candidate"
	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidateUseCase *candidate.CandidateUseCase
}

func NewCandidateHandler(candidateUseCase *candidate.CandidateUseCase) *CandidateHandler {
	return &CandidateHandler{candidateUseCase: candidateUseCase}
}

// CandidatesResponse is the GET /candidates body.
type CandidatesResponse struct {
	Candidates []*candidate.CandidateProfile `json:"candidates"`
	Count      int                           `json:"count"`
}

// GetCandidates handles GET /candidates
// @Summary Potential matches
// @Description Profiles that satisfy the caller's preferences and whose preferences the caller satisfies
// @Tags candidates
// @Security BearerAuth
// @Produce json
// @Success 200 {object} CandidatesResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /candidates [get]
func (h *CandidateHandler) GetCandidates(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	candidates, err := h.candidateUseCase.SelectCandidates(c.Request.Context(), userID)
	if err != nil {
		WriteError(c, err)
		return
	}
	if candidates == nil {
		candidates = []*candidate.CandidateProfile{}
	}

	c.JSON(http.StatusOK, CandidatesResponse{
		Candidates: candidates,
		Count:      len(candidates),
	})
}
