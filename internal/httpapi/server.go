// Package httpapi exposes the agent service over HTTP: lifecycle
// control, logs, bounty and analysis snapshots, wallet and reputation.
package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"solana-bounty-agent/internal/domain"
	"solana-bounty-agent/internal/service"
)

// reputationTimeout bounds the on-chain reputation lookup.
const reputationTimeout = 15 * time.Second

// ReputationSource looks up on-chain reputation for an agent address.
// An empty address means the configured agent wallet.
type ReputationSource interface {
	GetReputation(ctx context.Context, agent string) (*domain.Reputation, error)
}

// Server holds the API dependencies.
type Server struct {
	svc        *service.Service
	reputation ReputationSource
}

// NewServer creates the API server. reputation may be nil; the endpoint
// then reports zeros.
func NewServer(svc *service.Service, reputation ReputationSource) *Server {
	return &Server{svc: svc, reputation: reputation}
}

// Router builds the gin router with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	r.GET("/health", s.health)
	r.POST("/trigger", s.trigger)
	r.POST("/stop", s.stop)
	r.GET("/logs", s.logs)
	r.GET("/bounties", s.bounties)
	r.GET("/analysis", s.analysis)
	r.GET("/status", s.status)
	r.GET("/wallet", s.wallet)
	r.GET("/reputation", s.getReputation)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type triggerRequest struct {
	SingleRun *bool `json:"single_run"`
}

func (s *Server) trigger(c *gin.Context) {
	// Absent body or field defaults to a single run.
	singleRun := true
	var req triggerRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.SingleRun != nil {
		singleRun = *req.SingleRun
	}

	if !s.svc.Start(singleRun) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "already_running",
			"message": "Agent is already running",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "started",
		"message": "Agent started successfully",
	})
}

func (s *Server) stop(c *gin.Context) {
	if !s.svc.Stop() {
		c.JSON(http.StatusOK, gin.H{
			"status":  "not_running",
			"message": "Agent is not running",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "stopped",
		"message": "Agent stop requested",
	})
}

func (s *Server) logs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 0 {
		limit = 100
	}

	entries := s.svc.Logs(limit)
	c.JSON(http.StatusOK, gin.H{"logs": entries})
}

func (s *Server) bounties(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bounties": s.svc.Bounties()})
}

func (s *Server) analysis(c *gin.Context) {
	analysis := s.svc.LastAnalysis()
	if analysis == nil {
		c.JSON(http.StatusOK, gin.H{"analysis": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.GetStatus())
}

func (s *Server) wallet(c *gin.Context) {
	address := s.svc.WalletAddress()
	if address == "" {
		c.JSON(http.StatusOK, gin.H{
			"wallet_address": nil,
			"status":         "not_initialized",
			"message":        "Agent wallet not initialized. Start the agent first.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet_address": address,
		"status":         "ready",
	})
}

func (s *Server) getReputation(c *gin.Context) {
	address := c.Query("address")

	if s.reputation == nil {
		c.JSON(http.StatusOK, gin.H{
			"reputation": emptyReputation(),
			"message":    "Reputation lookup not available",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), reputationTimeout)
	defer cancel()

	rep, err := s.reputation.GetReputation(ctx, address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rep == nil {
		c.JSON(http.StatusOK, gin.H{"reputation": emptyReputation()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reputation": rep})
}

func emptyReputation() gin.H {
	return gin.H{
		"score":               0,
		"successful_bounties": 0,
		"failed_bounties":     0,
		"total_earned":        0,
	}
}
