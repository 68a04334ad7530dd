package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CielmobilityWorks/route-optimization-tools/internal/domain"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/transport/http/dto"
)

// statusForCode maps the stable error taxonomy to an HTTP status
// (§8.4): BadInput -> 400, Infeasible/NoSolution -> 422,
// StaleMatrix/StaleReference -> 409, NotFound -> 404,
// ProviderUnavailable -> 502, PartialMaterialization -> 207.
func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.CodeBadInput:
		return http.StatusBadRequest
	case domain.CodeInfeasible, domain.CodeNoSolution:
		return http.StatusUnprocessableEntity
	case domain.CodeStaleMatrix, domain.CodeStaleReference:
		return http.StatusConflict
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeProviderUnavailable:
		return http.StatusBadGateway
	case domain.CodePartialMaterialization:
		return http.StatusMultiStatus
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error envelope for err, deriving the
// status from its PlanError code when present, or 500 otherwise.
func respondError(c *gin.Context, err error) {
	pe, ok := domain.AsPlanError(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: "Internal", Message: err.Error()})
		return
	}
	c.JSON(statusForCode(pe.Code), dto.ErrorResponse{Code: string(pe.Code), Message: pe.Message})
}

// respondPartialMaterialization writes the 207 multi-status body for
// an artifact that has at least one failed vehicle (§8.4).
func respondPartialMaterialization(c *gin.Context, body dto.ArtifactResponse) {
	if len(body.FailedVehicleIDs) > 0 {
		c.JSON(http.StatusMultiStatus, body)
		return
	}
	c.JSON(http.StatusOK, body)
}
