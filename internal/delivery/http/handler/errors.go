package handler

import (
	"errors"
	"net/http"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextUserIDKey holds the authenticated user's uuid.UUID in the gin
// context.
const ContextUserIDKey = "user_id"

// ErrorResponse represents error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// SuccessResponse represents success response
type SuccessResponse struct {
	Message string `json:"message"`
}

type errorKind struct {
	err    error
	status int
	code   string
}

// Ordered: the first matching kind wins, so specific kinds come before
// ErrDataStore.
var errorKinds = []errorKind{
	{domain.ErrNotAuthenticated, http.StatusUnauthorized, "not_authenticated"},
	{domain.ErrProfileNotFound, http.StatusNotFound, "profile_not_found"},
	{domain.ErrMatchNotFound, http.StatusNotFound, "match_not_found"},
	{domain.ErrCannotLikeSelf, http.StatusBadRequest, "cannot_like_self"},
	{domain.ErrInvalidPreferences, http.StatusBadRequest, "invalid_preferences"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{domain.ErrProfileAlreadyExists, http.StatusConflict, "profile_exists"},
	{domain.ErrUsernameTaken, http.StatusConflict, "username_taken"},
	{domain.ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
	{domain.ErrLikeWrite, http.StatusInternalServerError, "like_write_error"},
	{domain.ErrMatchCheck, http.StatusInternalServerError, "match_check_error"},
	{domain.ErrDataStore, http.StatusInternalServerError, "data_store_error"},
}

// StatusFor maps an error to its HTTP status and stable code. Unknown errors
// are reported as data_store_error.
func StatusFor(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.code
		}
	}
	return http.StatusInternalServerError, "data_store_error"
}

// WriteError aborts the request with the mapped status. Internal details
// of 5xx errors are not sent to the client.
func WriteError(c *gin.Context, err error) {
	status, code := StatusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg, Code: code})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: "invalid_input"})
}

// currentUserID returns the authenticated user or writes a 401.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextUserIDKey)
	if !exists {
		WriteError(c, domain.ErrNotAuthenticated)
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok || id == uuid.Nil {
		WriteError(c, domain.ErrNotAuthenticated)
		return uuid.Nil, false
	}
	return id, true
}
