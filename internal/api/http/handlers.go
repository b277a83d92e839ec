// Package http contains the admin API handlers.
//
// The surface is observability only: session inspection and teardown.
// Interaction events never travel over it; the embedding host delivers
// those on the owner's execution context.
package http

import (
	"net/http"
	"time"

	"github.com/Volubles/gridmenu/internal/engine/session"
	"github.com/Volubles/gridmenu/internal/shared/id"
	"github.com/gin-gonic/gin"
)

// Handlers contains all admin API handlers.
type Handlers struct {
	registry *session.Registry
	started  time.Time
	version  string
}

// NewHandlers creates a handler set over the session registry.
func NewHandlers(registry *session.Registry, version string) *Handlers {
	return &Handlers{
		registry: registry,
		started:  time.Now(),
		version:  version,
	}
}

// Root identifies the service.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "gridmenu",
		"version": h.version,
	})
}

// Health reports liveness and registry state.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"uptime":   time.Since(h.started).String(),
		"sessions": h.registry.Stats(),
	})
}

// Stats returns registry statistics.
func (h *Handlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Stats())
}

// ListSessions returns a snapshot of every live session.
func (h *Handlers) ListSessions(c *gin.Context) {
	snap := h.registry.Snapshot()
	if snap == nil {
		snap = []session.SessionInfo{}
	}
	c.JSON(http.StatusOK, gin.H{
		"sessions": snap,
		"count":    len(snap),
	})
}

// GetSession returns one session's snapshot.
func (h *Handlers) GetSession(c *gin.Context) {
	owner := id.OwnerID(c.Param("owner"))
	s, ok := h.registry.Peek(owner)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, session.SessionInfo{
		Owner:    s.Owner().String(),
		Token:    s.Token(),
		ViewOpen: s.ViewOpen(),
	})
}

// RemoveSession tears a session down, closing its view with the usual
// departure sweep.
func (h *Handlers) RemoveSession(c *gin.Context) {
	owner := id.OwnerID(c.Param("owner"))
	if _, ok := h.registry.Peek(owner); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	h.registry.Remove(owner)
	c.JSON(http.StatusOK, gin.H{"removed": owner.String()})
}
