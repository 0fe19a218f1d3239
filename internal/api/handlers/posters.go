package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlively/cinematch/backend/internal/services"
)

type PosterHandler struct {
	worker *services.PosterWorker
}

func NewPosterHandler(worker *services.PosterWorker) *PosterHandler {
	return &PosterHandler{worker: worker}
}

// Status reports the background enrichment worker's last pass. Returns 503
// when the deployment runs without the worker (standalone batch mode).
func (h *PosterHandler) Status(c *gin.Context) {
	if h.worker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "poster worker is not running"})
		return
	}
	c.JSON(http.StatusOK, h.worker.GetStatus())
}
