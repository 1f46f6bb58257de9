package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	redisclient "github.com/weighbuddy/weighbuddy-backend/internal/clients/redis"
	"github.com/weighbuddy/weighbuddy-backend/internal/domain/weigh"
	"github.com/weighbuddy/weighbuddy-backend/internal/http/response"
	"github.com/weighbuddy/weighbuddy-backend/internal/platform/apierr"
	"github.com/weighbuddy/weighbuddy-backend/internal/services"
)

// respondServiceError maps domain and service errors onto the HTTP
// error envelope. Unrecognized errors are treated as bad requests;
// validation messages out of the services read fine to a client.
func respondServiceError(c *gin.Context, err error) {
	if ae := apierr.From(err); ae != nil {
		response.RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}
	switch {
	case errors.Is(err, redisclient.ErrSessionNotFound):
		response.RespondError(c, http.StatusNotFound, "session_not_found", err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrNoMatch):
		response.RespondError(c, http.StatusNotFound, "no_registry_match", err)
	case errors.Is(err, services.ErrNotFinalized):
		response.RespondError(c, http.StatusConflict, "not_finalized", err)
	case errors.Is(err, weigh.ErrInvalidTransition):
		response.RespondError(c, http.StatusConflict, "invalid_transition", err)
	case errors.Is(err, weigh.ErrNoApplicableStep):
		response.RespondError(c, http.StatusUnprocessableEntity, "no_applicable_step", err)
	default:
		response.RespondError(c, http.StatusBadRequest, "request_failed", err)
	}
}
