package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/geotag-backend-go/internal/metadata"
	"github.com/jengzang/geotag-backend-go/internal/service"
	"github.com/jengzang/geotag-backend-go/pkg/response"
)

// TrackHandler handles HTTP requests for the loaded track
type TrackHandler struct {
	trackService *service.TrackService
}

// NewTrackHandler creates a new track handler
func NewTrackHandler(trackService *service.TrackService) *TrackHandler {
	return &TrackHandler{
		trackService: trackService,
	}
}

// GetTrack handles GET /api/v1/track
func (h *TrackHandler) GetTrack(c *gin.Context) {
	response.Success(c, h.trackService.Summary())
}

// GetFix handles GET /api/v1/fix?captureTime=2021:05:01 10:00:15
func (h *TrackHandler) GetFix(c *gin.Context) {
	raw := c.Query("captureTime")
	if raw == "" {
		response.BadRequest(c, "captureTime is required", nil)
		return
	}

	capture, err := parseCaptureTime(raw)
	if err != nil {
		response.BadRequest(c, "Invalid captureTime", err)
		return
	}

	result, err := h.trackService.Resolve(capture)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to resolve capture time", err)
		return
	}

	response.Success(c, result)
}

// parseCaptureTime accepts the EXIF layout or RFC 3339.
func parseCaptureTime(raw string) (time.Time, error) {
	if t, err := time.Parse(metadata.CaptureTimeLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("expected %q or RFC 3339, got %q", metadata.CaptureTimeLayout, raw)
}
