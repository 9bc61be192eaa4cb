// Package server exposes the leaderboard over HTTP.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/plus3/blockfall/leaderboard"
)

// Handler serves the leaderboard endpoints.
type Handler struct {
	board *leaderboard.Board
	log   logrus.FieldLogger
}

func NewHandler(board *leaderboard.Board, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{board: board, log: log}
}

type scoresResponse struct {
	Scores []int `json:"scores"`
}

type submitRequest struct {
	Score *int `json:"score" binding:"required"`
}

func errorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// Top handles GET /api/leaderboard.
func (h *Handler) Top(c *gin.Context) {
	scores, err := h.board.Top(c.Request.Context())
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, scoresResponse{Scores: nonNil(scores)})
}

// Submit handles POST /api/scores.
func (h *Handler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "body must be {\"score\": <int>}")
		return
	}

	scores, err := h.board.Record(c.Request.Context(), *req.Score)
	if errors.Is(err, leaderboard.ErrInvalidScore) {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.storeError(c, err)
		return
	}

	h.log.WithField("score", *req.Score).Info("server: score recorded")
	c.JSON(http.StatusOK, scoresResponse{Scores: nonNil(scores)})
}

func (h *Handler) storeError(c *gin.Context, err error) {
	h.log.WithError(err).Error("server: leaderboard unavailable")
	errorResponse(c, http.StatusServiceUnavailable, "leaderboard unavailable")
}

func nonNil(scores []int) []int {
	if scores == nil {
		return []int{}
	}
	return scores
}

// RequestLogger logs one line per request.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("server: request")
	}
}

// NewRouter builds the gin engine with the leaderboard routes.
func NewRouter(board *leaderboard.Board, log logrus.FieldLogger) *gin.Engine {
	h := NewHandler(board, log)

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.log))

	api := r.Group("/api")
	{
		api.GET("/leaderboard", h.Top)
		api.POST("/scores", h.Submit)
	}
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return r
}
