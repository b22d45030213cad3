package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pipone-one/p2pminiapp/internal/domain"
	"github.com/pipone-one/p2pminiapp/internal/usecase"
	"go.uber.org/zap"
)

const adminSecretHeader = "x-admin-secret"

type AlertService interface {
	ReplaceAlerts(ctx context.Context, ownerID string, inputs []usecase.AlertInput) (int, error)
	Stats(ctx context.Context) (usecase.AlertStats, error)
}

type StateReader interface {
	State() usecase.SchedulerState
}

type LogSource interface {
	Lines() []string
}

type Handler struct {
	alerts    AlertService
	scheduler StateReader
	routes    domain.RouteCounter
	logs      LogSource
	startedAt time.Time
	now       func() time.Time
	logger    *zap.Logger
}

func NewHandler(alerts AlertService, scheduler StateReader, routes domain.RouteCounter, logs LogSource, logger *zap.Logger) *Handler {
	return &Handler{
		alerts:    alerts,
		scheduler: scheduler,
		routes:    routes,
		logs:      logs,
		startedAt: time.Now(),
		now:       time.Now,
		logger:    logger,
	}
}

func (h *Handler) SyncAlerts(c *gin.Context) {
	var request syncAlertsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Payload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	userID := firstNonEmpty(request.UserID.String())
	if userID == "" || request.Alerts == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	inputs := make([]usecase.AlertInput, 0, len(request.Alerts))
	for _, payload := range request.Alerts {
		inputs = append(inputs, payload.toInput())
	}

	count, err := h.alerts.ReplaceAlerts(c.Request.Context(), userID, inputs)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAlert) || errors.Is(err, domain.ErrUnknownExchange) {
			h.logger.Warn("sync alerts rejected", zap.String("user_id", userID), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("sync alerts failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	h.logger.Info("sync alerts complete", zap.String("user_id", userID), zap.Int("count", count))
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.alerts.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("admin stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, statsResponse{
		Uptime:       strconv.FormatInt(int64(h.now().Sub(h.startedAt).Seconds()), 10),
		Alerts:       stats.Total,
		ActiveAlerts: stats.Active,
		Users:        stats.Owners,
		Proxies:      h.routes.Count(),
		Status:       h.scheduler.State().String(),
	})
}

func (h *Handler) Logs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"logs": h.logs.Lines()})
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "P2P Monitor Backend is running")
}
