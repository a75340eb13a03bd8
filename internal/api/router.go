// Package api implements the HTTP submission surface: execute, status,
// and list-languages, as gin handlers. Grounded on the teacher's
// routes/route.go (gin.Context JSON responses, ShouldBindJSON, permissive
// CORS) with the rate limiter and cache lookups rerouted through Redis
// instead of the teacher's in-memory structures.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codearena/internal/cache"
	"codearena/internal/ratelimit"
	"codearena/internal/store"
)

type Server struct {
	cache     *cache.Cache
	limiter   *ratelimit.Limiter
	queue     *store.Queue
	results   *store.ResultStore
	statusTTL time.Duration
	log       *zap.Logger
}

func NewServer(c *cache.Cache, limiter *ratelimit.Limiter, queue *store.Queue, results *store.ResultStore, statusTTL time.Duration, log *zap.Logger) *Server {
	return &Server{cache: c, limiter: limiter, queue: queue, results: results, statusTTL: statusTTL, log: log}
}

// Router builds the gin engine with CORS middleware and the three
// submission routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(s.accessLogMiddleware())
	r.Use(corsMiddleware())

	r.POST("/execute", s.handleExecute)
	r.GET("/status", s.handleStatus)
	r.GET("/languages", s.handleLanguages)

	return r
}

// corsMiddleware sets the permissive headers spec.md §6 requires on every
// response and short-circuits preflight OPTIONS requests with 204.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
