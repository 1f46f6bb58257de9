package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	registrytypes "github.com/weighbuddy/weighbuddy-backend/internal/domain/registry"
	"github.com/weighbuddy/weighbuddy-backend/internal/http/response"
	"github.com/weighbuddy/weighbuddy-backend/internal/services"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func recordID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

// POST /api/vehicles
func (ch *CatalogHandler) CreateVehicle(c *gin.Context) {
	var req registrytypes.Vehicle
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := ch.catalogService.CreateVehicle(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"vehicle": created})
}

// GET /api/vehicles/:id
func (ch *CatalogHandler) GetVehicle(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	v, err := ch.catalogService.GetVehicle(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"vehicle": v})
}

// GET /api/vehicles?make=Ford&model=Ranger
func (ch *CatalogHandler) SearchVehicles(c *gin.Context) {
	rows, err := ch.catalogService.SearchVehicles(c.Request.Context(),
		c.Query("make"), c.Query("model"), intQuery(c, "limit"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"vehicles": rows})
}

// PATCH /api/vehicles/:id/capacities
func (ch *CatalogHandler) UpdateVehicleCapacities(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	var req struct {
		GVM  float64 `json:"gvm"`
		GCM  float64 `json:"gcm"`
		FAWR float64 `json:"fawr"`
		RAWR float64 `json:"rawr"`
		BTC  float64 `json:"btc"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := ch.catalogService.UpdateVehicleCapacities(c.Request.Context(), id,
		req.GVM, req.GCM, req.FAWR, req.RAWR, req.BTC); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// DELETE /api/vehicles/:id
func (ch *CatalogHandler) DeleteVehicle(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	if err := ch.catalogService.DeleteVehicle(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/caravans
func (ch *CatalogHandler) CreateCaravan(c *gin.Context) {
	var req registrytypes.Caravan
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := ch.catalogService.CreateCaravan(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"caravan": created})
}

// GET /api/caravans/:id
func (ch *CatalogHandler) GetCaravan(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	cv, err := ch.catalogService.GetCaravan(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"caravan": cv})
}

// GET /api/caravans?make=Jayco
func (ch *CatalogHandler) SearchCaravans(c *gin.Context) {
	rows, err := ch.catalogService.SearchCaravans(c.Request.Context(),
		c.Query("make"), c.Query("model"), intQuery(c, "limit"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"caravans": rows})
}

// PATCH /api/caravans/:id/capacities
func (ch *CatalogHandler) UpdateCaravanCapacities(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	var req struct {
		ATM           float64 `json:"atm"`
		GTM           float64 `json:"gtm"`
		AxleGroupLoad float64 `json:"axle_group_load"`
		TBM           float64 `json:"tbm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := ch.catalogService.UpdateCaravanCapacities(c.Request.Context(), id,
		req.ATM, req.GTM, req.AxleGroupLoad, req.TBM); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// DELETE /api/caravans/:id
func (ch *CatalogHandler) DeleteCaravan(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	if err := ch.catalogService.DeleteCaravan(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
