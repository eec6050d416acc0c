// Package api exposes one engine instance over a small REST control
// surface so the scene frontend can drive playback remotely.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"murmur/internal/engine"
)

// resumeTimeout bounds the backend-readiness wait behind /play and
// /resume so a dead device cannot hang a request.
const resumeTimeout = 5 * time.Second

// Server wraps an engine behind HTTP handlers. It remembers the last
// accepted request purely for the status endpoint; the engine itself hands
// out no handles. Handlers run on separate goroutines, so the remembered
// request sits behind a mutex.
type Server struct {
	eng    *engine.Engine
	mu     sync.Mutex
	lastID string
	last   engine.Params
}

func NewServer(eng *engine.Engine) *Server {
	return &Server{eng: eng}
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware())

	r.GET("/health", s.handleHealth)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", s.handleHealth)
		v1.POST("/resume", s.handleResume)
		v1.POST("/play", s.handlePlay)
		v1.POST("/stop", s.handleStop)
		v1.GET("/status", s.handleStatus)
	}
	return r
}

// Run serves until the listener fails.
func (s *Server) Run(port int) error {
	return s.Router().Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// playRequest mirrors engine.Params plus the determinism seed. The
// identifier is any non-empty string; one is minted when absent.
type playRequest struct {
	Scale         string  `json:"scale"`
	BaseFrequency float64 `json:"baseFrequency" binding:"required,gt=0"`
	Tempo         int     `json:"tempo" binding:"required,gt=0"`
	Complexity    float64 `json:"complexity" binding:"gte=0,lte=1"`
	Mood          string  `json:"mood"`
	Identifier    string  `json:"identifier"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "murmur",
		"enabled": s.eng.Enabled(),
	})
}

func (s *Server) handleResume(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), resumeTimeout)
	defer cancel()
	if err := s.eng.Resume(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audio backend not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"resumed": true})
}

func (s *Server) handlePlay(c *gin.Context) {
	var req playRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Identifier == "" {
		req.Identifier = uuid.NewString()
	}

	params := engine.Params{
		Scale:         engine.Scale(req.Scale),
		BaseFrequency: req.BaseFrequency,
		Tempo:         req.Tempo,
		Complexity:    req.Complexity,
		Mood:          engine.Mood(req.Mood),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), resumeTimeout)
	defer cancel()
	s.eng.Play(ctx, params, req.Identifier)

	s.mu.Lock()
	s.lastID = req.Identifier
	s.last = params
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"playing":    s.eng.Playing(),
		"identifier": req.Identifier,
	})
}

func (s *Server) handleStop(c *gin.Context) {
	s.eng.Stop()
	c.JSON(http.StatusOK, gin.H{"playing": false})
}

func (s *Server) handleStatus(c *gin.Context) {
	resp := gin.H{"playing": s.eng.Playing()}
	s.mu.Lock()
	if s.lastID != "" {
		resp["identifier"] = s.lastID
		resp["params"] = s.last
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, resp)
}
