package handler

import (
	"net/http"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler reports process and dependency health.
type HealthHandler struct {
	db  *gorm.DB
	rdb *redis.Client
	cb  *infra.CircuitBreaker
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client, cb *infra.CircuitBreaker) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, cb: cb}
}

func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "up"
	redisStatus := "up"

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}
	if h.rdb != nil {
		if err := h.rdb.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "down"
		}
	} else {
		redisStatus = "disabled"
	}

	c.JSON(status, gin.H{
		"status":          http.StatusText(status),
		"database":        dbStatus,
		"redis":           redisStatus,
		"circuit_breaker": h.cb.State().String(),
	})
}
