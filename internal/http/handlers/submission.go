package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/weighbuddy/weighbuddy-backend/internal/http/response"
	"github.com/weighbuddy/weighbuddy-backend/internal/services"
)

type SubmissionHandler struct {
	submissionService services.SubmissionService
}

func NewSubmissionHandler(submissionService services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// GET /api/submissions?overloaded=true&limit=50&offset=0
func (sh *SubmissionHandler) List(c *gin.Context) {
	overloaded := c.Query("overloaded") == "true"
	rows, err := sh.submissionService.List(c.Request.Context(),
		overloaded, intQuery(c, "limit"), intQuery(c, "offset"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"submissions": rows})
}

// GET /api/submissions/:id
func (sh *SubmissionHandler) Get(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	sub, err := sh.submissionService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"submission": sub})
}

func intQuery(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}
