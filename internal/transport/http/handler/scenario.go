package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/CielmobilityWorks/route-optimization-tools/internal/application/planservice"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/domain"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/transport/http/dto"
)

// ScenarioHandler serves edit-scenario lifecycle operations: list,
// create, delete, reload, stop-location move and timeline reorder
// (§6, §4.3-§4.5).
type ScenarioHandler struct {
	service   *planservice.Service
	validator *validator.Validate
	log       *zap.Logger
}

func NewScenarioHandler(service *planservice.Service, log *zap.Logger) *ScenarioHandler {
	return &ScenarioHandler{service: service, validator: validator.New(), log: log}
}

// List handles GET /api/v1/projects/:project/scenarios.
func (h *ScenarioHandler) List(c *gin.Context) {
	rows, err := h.service.ListScenarios(c.Request.Context(), c.Param("project"))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.ScenarioSummaryResponse, len(rows))
	for i, r := range rows {
		out[i] = dto.ScenarioSummaryResponseFrom(r)
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": out})
}

// Create handles POST /api/v1/projects/:project/scenarios.
func (h *ScenarioHandler) Create(c *gin.Context) {
	var req dto.CreateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: string(domain.CodeBadInput), Message: err.Error()})
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: string(domain.CodeBadInput), Message: err.Error()})
		return
	}

	scenario, err := h.service.CreateScenario(c.Request.Context(), c.Param("project"), req.ID, req.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":         scenario.ID,
		"project_id": scenario.ProjectID,
		"parent_id":  scenario.ParentID,
		"created_at": scenario.CreatedAt,
	})
}

// Delete handles DELETE /api/v1/projects/:project/scenarios/:id.
func (h *ScenarioHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteScenario(c.Request.Context(), c.Param("project"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reload handles POST /api/v1/projects/:project/scenarios/:id/reload.
func (h *ScenarioHandler) Reload(c *gin.Context) {
	var req dto.MaterializationParamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: string(domain.CodeBadInput), Message: err.Error()})
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: string(domain.CodeBadInput), Message: err.Error()})
		return
	}

	stats, err := h.service.ReloadScenario(c.Request.Context(), c.Param("project"), c.Param("id"), req.ToMaterializationParams())
	if err != nil {
		h.log.Warn("reload_failed", zap.String("scenario", c.Param("id")), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReloadStatsFrom(stats))
}

// MoveStop handles PATCH /api/v1/projects/:project/scenarios/:id/stops/:stopId/location.
func (h *ScenarioHandler) MoveStop(c *gin.Context) {
	var req dto.MoveStopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: string(domain.CodeBadInput), Message: err.Error()})
		return
	}

	err := h.service.UpdateStopLocation(c.Request.Context(), c.Param("project"), c.Param("id"), c.Param("stopId"), req.Lon, req.Lat)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reorder handles PUT /api/v1/projects/:project/scenarios/:id/reorder.
func (h *ScenarioHandler) Reorder(c *gin.Context) {
	var req dto.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: string(domain.CodeBadInput), Message: err.Error()})
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: string(domain.CodeBadInput), Message: err.Error()})
		return
	}

	err := h.service.PersistReorder(c.Request.Context(), c.Param("project"), c.Param("id"), planservice.ReorderInput{VehicleStopIDs: req.VehicleStopIDs})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
