package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/cache"
	"github.com/CielmobilityWorks/route-optimization-tools/internal/infrastructure/events"
)

// HealthHandler serves liveness and readiness checks.
type HealthHandler struct {
	startTime time.Time
	db        *sqlx.DB
	cache     *cache.Cache
	publisher events.Publisher
}

func NewHealthHandler(db *sqlx.DB, c *cache.Cache, publisher events.Publisher) *HealthHandler {
	return &HealthHandler{startTime: time.Now(), db: db, cache: c, publisher: publisher}
}

// Health reports liveness only, never checking downstream dependencies.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "route-optimization-tools",
		"uptime":  time.Since(h.startTime).String(),
	})
}

// Ready reports readiness, pinging every configured downstream
// dependency with a short timeout.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	components := map[string]string{
		"database": checkComponent(h.db.PingContext(ctx)),
		"redis":    checkComponent(h.cache.Health(ctx)),
		"events":   checkEvents(ctx, h.publisher),
	}

	status := "ready"
	for _, s := range components {
		if s != "ok" {
			status = "not_ready"
			break
		}
	}

	statusCode := http.StatusOK
	if status != "ready" {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, gin.H{"status": status, "components": components})
}

func checkComponent(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}

type healthChecker interface {
	Health(ctx context.Context) error
}

func checkEvents(ctx context.Context, p events.Publisher) string {
	if hc, ok := p.(healthChecker); ok {
		return checkComponent(hc.Health(ctx))
	}
	return "ok"
}
