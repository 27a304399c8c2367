package handler

import (
	"errors"
	"net/http"

	"valuator/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionHandler handles session-related HTTP requests
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

type messageRequest struct {
	Message string `json:"message" binding:"required"`
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	id, greeting := h.sessionService.Create()
	c.JSON(http.StatusCreated, gin.H{
		"session_id": id,
		"reply":      greeting,
	})
}

// PostMessage handles POST /api/v1/sessions/:id/messages
func (h *SessionHandler) PostMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	reply, phase, err := h.sessionService.HandleMessage(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reply": reply,
		"phase": phase,
	})
}

// GetTranscript handles GET /api/v1/sessions/:id/transcript
func (h *SessionHandler) GetTranscript(c *gin.Context) {
	state, err := h.sessionService.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": state.ID,
		"phase":      state.Phase,
		"transcript": state.Transcript,
	})
}

// Reset handles POST /api/v1/sessions/:id/reset
func (h *SessionHandler) Reset(c *gin.Context) {
	greeting, err := h.sessionService.Reset(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reply": greeting,
	})
}
