package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/geotag-backend-go/internal/models"
	"github.com/jengzang/geotag-backend-go/internal/service"
	"github.com/jengzang/geotag-backend-go/pkg/response"
)

// GeotagHandler handles HTTP requests for the run journal
type GeotagHandler struct {
	service *service.JournalService
}

// NewGeotagHandler creates a new geotag handler
func NewGeotagHandler(service *service.JournalService) *GeotagHandler {
	return &GeotagHandler{service: service}
}

// GetGeotags handles GET /api/v1/geotags
func (h *GeotagHandler) GetGeotags(c *gin.Context) {
	var filter models.GeotagRecordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters", err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get geotag records", err)
		return
	}

	response.Success(c, result)
}

// GetRunSummary handles GET /api/v1/geotags/runs/:runId
func (h *GeotagHandler) GetRunSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.Param("runId"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to summarize run", err)
		return
	}
	if summary.Total == 0 {
		response.Error(c, http.StatusNotFound, "Run not found", nil)
		return
	}

	response.Success(c, summary)
}
