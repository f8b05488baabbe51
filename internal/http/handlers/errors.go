package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homeservice/internal/domain"
)

// RespondDomainError maps domain errors to HTTP responses. Internal
// details never leak; everything else keeps its message.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
	case domain.IsNotFound(err):
		RespondError(c, http.StatusNotFound, err.Error(), nil)
	case domain.IsForbidden(err):
		RespondError(c, http.StatusForbidden, err.Error(), nil)
	case domain.IsNotApproved(err), domain.IsNotQualified(err):
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
	case domain.IsInvalidOtp(err):
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
	case domain.IsInvalidState(err):
		RespondError(c, http.StatusConflict, err.Error(), nil)
	case domain.IsAlreadyPaid(err):
		RespondError(c, http.StatusConflict, err.Error(), nil)
	case domain.IsNoSuggestion(err):
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
	default:
		RespondError(c, http.StatusInternalServerError, "internal error", nil)
	}
}
