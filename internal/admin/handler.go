// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/Carlos130395/grow-analytics-backend/internal/core"
)

// Handler exposes operational stats for privileged callers. It takes
// function dependencies rather than concrete clients so it stays trivial to
// fake in tests.
type Handler struct {
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	dbPing     func(ctx context.Context) error
	redisPing  func(ctx context.Context) error
}

type HandlerConfig struct {
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	DBPing     func(ctx context.Context) error
	RedisPing  func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		dbPing:     cfg.DBPing,
		redisPing:  cfg.RedisPing,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
	})
}

type systemStats struct {
	DatabaseHealthy bool           `json:"databaseHealthy"`
	RedisHealthy    bool           `json:"redisHealthy"`
	DBOpenConns     int            `json:"dbOpenConns"`
	DBInUse         int            `json:"dbInUse"`
	DBIdle          int            `json:"dbIdle"`
	RedisHits       uint32         `json:"redisHits"`
	RedisMisses     uint32         `json:"redisMisses"`
	RedisTotalConns uint32         `json:"redisTotalConns"`
	Goroutines      int            `json:"goroutines"`
	Memory          map[string]any `json:"memory"`
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats := systemStats{
		DatabaseHealthy: true,
		RedisHealthy:    true,
		Goroutines:      runtime.NumGoroutine(),
	}

	if h.dbPing != nil {
		stats.DatabaseHealthy = h.dbPing(ctx) == nil
	}
	if h.redisPing != nil {
		stats.RedisHealthy = h.redisPing(ctx) == nil
	}

	if h.dbStats != nil {
		dbStats := h.dbStats()
		stats.DBOpenConns = dbStats.OpenConnections
		stats.DBInUse = dbStats.InUse
		stats.DBIdle = dbStats.Idle
	}

	if h.redisStats != nil {
		poolStats := h.redisStats()
		stats.RedisHits = poolStats.Hits
		stats.RedisMisses = poolStats.Misses
		stats.RedisTotalConns = poolStats.TotalConns
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats.Memory = map[string]any{
		"allocBytes":      memStats.Alloc,
		"totalAllocBytes": memStats.TotalAlloc,
		"sysBytes":        memStats.Sys,
		"numGC":           memStats.NumGC,
	}

	core.OK(w, stats)
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	core.OK(w, map[string]any{
		"goVersion":       runtime.Version(),
		"goroutines":      runtime.NumGoroutine(),
		"cpus":            runtime.NumCPU(),
		"allocBytes":      memStats.Alloc,
		"totalAllocBytes": memStats.TotalAlloc,
		"heapObjects":     memStats.HeapObjects,
		"numGC":           memStats.NumGC,
	})
}
