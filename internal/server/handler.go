package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fchimpan/leetboard/internal/calendar"
	"github.com/fchimpan/leetboard/internal/dashboard"
	"github.com/fchimpan/leetboard/internal/heatmap"
	"github.com/fchimpan/leetboard/internal/stats"
)

type Handler struct {
	deps Dependencies
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/users", h.ListUsers)
	r.GET("/leaderboard", h.GetLeaderboard)
	r.GET("/users/:username/heatmap", h.GetHeatmap)
}

func (h *Handler) aggregate(c *gin.Context) []stats.User {
	return dashboard.Aggregate(c.Request.Context(), h.deps.Fetcher, h.deps.Users, dashboard.Options{
		Concurrency: h.deps.Concurrency,
		Log:         h.deps.Log,
	})
}

func (h *Handler) ListUsers(c *gin.Context) {
	users := h.aggregate(c)
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) GetLeaderboard(c *gin.Context) {
	users := h.aggregate(c)

	progress := make(map[string][]dashboard.DifficultyProgress, len(users))
	for _, u := range users {
		progress[u.Username] = dashboard.Progress(u)
	}
	c.JSON(http.StatusOK, gin.H{
		"standings": dashboard.Leaderboard(users),
		"winners":   dashboard.Winners(users),
		"progress":  progress,
	})
}

func (h *Handler) GetHeatmap(c *gin.Context) {
	username := c.Param("username")
	if !h.isTracked(username) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown user"})
		return
	}

	today := h.deps.Now().UTC()
	if s := c.Query("today"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid today format, expected YYYY-MM-DD"})
			return
		}
		today = t
	}

	policy := h.deps.Policy
	if s := c.Query("policy"); s != "" {
		p, err := heatmap.PolicyByName(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		policy = p
	}

	u, err := h.deps.Fetcher.FetchUser(c.Request.Context(), username)
	if err != nil || u == nil {
		h.deps.Log.Warn("heatmap fetch failed", zap.String("user", username), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to retrieve user statistics"})
		return
	}

	subs := u.Activity.Submissions
	if subs == nil {
		subs = calendar.Calendar{}
	}
	grid := heatmap.BuildGrid(subs, today, heatmap.WithPolicy(policy))
	c.JSON(http.StatusOK, gin.H{
		"username": u.Username,
		"streak":   u.Activity.Streak,
		"grid":     grid,
	})
}

func (h *Handler) isTracked(username string) bool {
	for _, u := range h.deps.Users {
		if strings.EqualFold(strings.TrimSpace(u), username) {
			return true
		}
	}
	return false
}
