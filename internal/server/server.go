// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	stderrors "betabot/internal/common/errors"
	"betabot/internal/common/logger"
	"betabot/internal/models"
)

// Asker answers queries. Satisfied by the orchestrator.
type Asker interface {
	Ask(ctx context.Context, q models.Query) (*models.Answer, error)
}

// ActivityLog lists recently answered queries for the dashboard.
type ActivityLog interface {
	Recent(ctx context.Context, n int) ([]models.LogEntry, error)
}

// Collaborators reports which backing services came up at boot. Informational
// only; the engine answers regardless.
type Collaborators struct {
	Search     bool `json:"search"`
	Warehouse  bool `json:"warehouse"`
	Generation bool `json:"generation"`
	QueryLog   bool `json:"query_log"`
}

// Server owns the HTTP surface: the ask endpoint, health, metrics, and the
// recent-activity listing backing the dashboard.
type Server struct {
	asker    Asker
	activity ActivityLog
	collabs  Collaborators
	logger   logger.Logger
}

// New builds the server around its collaborators.
func New(asker Asker, activity ActivityLog, collabs Collaborators, log logger.Logger) *Server {
	return &Server{
		asker:    asker,
		activity: activity,
		collabs:  collabs,
		logger: log.With(map[string]interface{}{
			"component": "server",
		}),
	}
}

// Router assembles the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(s.logger))
	r.Use(corsPolicy())

	r.GET("/", s.handleHealth)
	r.POST("/ask", s.handleAsk)
	r.GET("/recent", s.handleRecent)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "BetaBot backend is running",
		"collaborators": s.collabs,
	})
}

func (s *Server) handleAsk(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		status, httpErr := stderrors.ToHTTP(stderrors.NewInvalidInputError("request body must be a JSON object"))
		c.JSON(status, httpErr)
		return
	}

	q, err := validateAskRequest(body)
	if err != nil {
		status, httpErr := stderrors.ToHTTP(err)
		c.JSON(status, httpErr)
		return
	}

	answer, err := s.asker.Ask(c.Request.Context(), q)
	if err != nil {
		status, httpErr := stderrors.ToHTTP(err)
		c.JSON(status, httpErr)
		return
	}

	c.JSON(http.StatusOK, answer)
}

func (s *Server) handleRecent(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || n <= 0 {
		status, httpErr := stderrors.ToHTTP(stderrors.NewInvalidInputError("limit must be a positive integer"))
		c.JSON(status, httpErr)
		return
	}

	entries, err := s.activity.Recent(c.Request.Context(), n)
	if err != nil {
		s.logger.WithError(err).Warn("recent-activity listing failed", nil)
		c.JSON(http.StatusOK, gin.H{"entries": []models.LogEntry{}})
		return
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
