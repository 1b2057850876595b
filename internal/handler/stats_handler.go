package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dutyops/duty-roster-api/internal/dto"
	"github.com/dutyops/duty-roster-api/pkg/response"
)

// StatsProvider computes duty statistics.
type StatsProvider interface {
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}

// StatsHandler exposes the statistics endpoint.
type StatsHandler struct {
	stats  StatsProvider
	logger *zap.Logger
}

// NewStatsHandler constructs the stats handler.
func NewStatsHandler(stats StatsProvider, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, logger: logger}
}

// Stats godoc
// @Summary Per-person duty statistics
// @Tags stats
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.StatsResponse}
// @Router /stats [get]
func (h *StatsHandler) Stats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
