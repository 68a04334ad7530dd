package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/CielmobilityWorks/route-optimization-tools/internal/application/planservice"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/domain"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/transport/http/dto"
)

// PlanHandler serves the Optimize and Materialize baseline operations
// (§6).
type PlanHandler struct {
	service   *planservice.Service
	validator *validator.Validate
	log       *zap.Logger
}

func NewPlanHandler(service *planservice.Service, log *zap.Logger) *PlanHandler {
	return &PlanHandler{service: service, validator: validator.New(), log: log}
}

// Optimize handles POST /api/v1/projects/:project/optimize.
func (h *PlanHandler) Optimize(c *gin.Context) {
	var req dto.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: string(domain.CodeBadInput), Message: err.Error()})
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: string(domain.CodeBadInput), Message: err.Error()})
		return
	}

	plan, err := h.service.Optimize(c.Request.Context(), c.Param("project"), planservice.OptimizeInput{
		StopsSnapshotHash: req.StopsSnapshotHash,
		VehicleCount:      req.VehicleCount,
		Capacity:          req.Capacity,
		Objective:         req.Objective.ToObjectiveSpec(),
		Mode:              domain.RouteMode(req.RouteMode),
		TimeBudget:        time.Duration(req.TimeBudgetSeconds) * time.Second,
	})
	if err != nil {
		h.log.Warn("optimize_failed", zap.String("project", c.Param("project")), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OptimizeResponseFrom(plan))
}

// Materialize handles POST /api/v1/projects/:project/materialize.
func (h *PlanHandler) Materialize(c *gin.Context) {
	var req dto.MaterializationParamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: string(domain.CodeBadInput), Message: err.Error()})
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: string(domain.CodeBadInput), Message: err.Error()})
		return
	}

	artifact, err := h.service.MaterializeBaseline(c.Request.Context(), c.Param("project"), req.ToMaterializationParams())
	if err != nil {
		h.log.Warn("materialize_failed", zap.String("project", c.Param("project")), zap.Error(err))
		respondError(c, err)
		return
	}
	respondPartialMaterialization(c, dto.ArtifactResponseFrom(artifact))
}
