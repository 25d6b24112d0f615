package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/Saravana-31/Form-Builder/internal/util"
	"github.com/Saravana-31/Form-Builder/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	Store  Pinger
	Driver string
}

func NewHealthController(store Pinger, driver string) *HealthController {
	return &HealthController{Store: store, Driver: driver}
}

// @Summary Health check
// @Description Reports service and store status
// @Tags system
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.Store.Ping(pingCtx); err != nil {
		logger.Log.Warn("Health check failed", zap.Error(err))
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"database": gin.H{"driver": c.Driver, "status": "up"},
		},
	})
}
