package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gemini-relay-bot/internal/interfaces"
	"gemini-relay-bot/internal/usecases"
)

// Handler serves the operator status endpoints.
type Handler struct {
	service *usecases.MessageService
	users   interfaces.UserStore
}

func NewHandler(service *usecases.MessageService, users interfaces.UserStore) *Handler {
	return &Handler{
		service: service,
		users:   users,
	}
}

func SetupRoutes(r *gin.Engine, service *usecases.MessageService, users interfaces.UserStore) {
	h := NewHandler(service, users)

	r.GET("/healthz", h.Health)
	r.GET("/stats", h.Stats)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Stats(c *gin.Context) {
	count, tokens, err := h.users.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read user registry"})
		return
	}

	relay := h.service.Stats()
	c.JSON(http.StatusOK, gin.H{
		"users":               count,
		"tokens_remaining":    tokens,
		"messages_handled":    relay.MessagesHandled,
		"replies_sent":        relay.RepliesSent,
		"completion_failures": relay.CompletionFailures,
	})
}
