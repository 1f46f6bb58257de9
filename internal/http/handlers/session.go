package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/weighbuddy/weighbuddy-backend/internal/domain/weigh"
	"github.com/weighbuddy/weighbuddy-backend/internal/http/response"
	"github.com/weighbuddy/weighbuddy-backend/internal/report"
	"github.com/weighbuddy/weighbuddy-backend/internal/services"
)

type SessionHandler struct {
	weighService services.WeighSessionService
	renderer     *report.Renderer
}

func NewSessionHandler(weighService services.WeighSessionService, renderer *report.Renderer) *SessionHandler {
	return &SessionHandler{
		weighService: weighService,
		renderer:     renderer,
	}
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_session_id", err)
		return uuid.Nil, false
	}
	return id, true
}

// POST /api/sessions
// body: { "target_type": "tow_vehicle_and_caravan" }
func (sh *SessionHandler) Create(c *gin.Context) {
	var req struct {
		TargetType weigh.TargetType `json:"target_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	v, err := sh.weighService.Create(c.Request.Context(), req.TargetType)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, v)
}

// GET /api/sessions/:id
func (sh *SessionHandler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	v, err := sh.weighService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, v)
}

// PATCH /api/sessions/:id
// body: services.PatchRequest; only the fields the current step reads apply
func (sh *SessionHandler) Patch(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req services.PatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	v, err := sh.weighService.Patch(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, v)
}

// POST /api/sessions/:id/resolve
// body: { "leg": "vehicle", "plate": "ABC123", "state": "NSW" } or { "leg": ..., "manual": {...} }
func (sh *SessionHandler) Resolve(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req services.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	v, err := sh.weighService.Resolve(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, v)
}

// POST /api/sessions/:id/finalize
func (sh *SessionHandler) Finalize(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	rpt, err := sh.weighService.Finalize(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"report": rpt})
}

// GET /api/sessions/:id/report
func (sh *SessionHandler) Report(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	rpt, err := sh.weighService.Report(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"report": rpt})
}

// GET /api/sessions/:id/report.png
func (sh *SessionHandler) ReportPNG(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	rpt, err := sh.weighService.Report(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	png, err := sh.renderer.Render(rpt)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "render_failed", err)
		return
	}
	response.RespondPNG(c, png)
}
