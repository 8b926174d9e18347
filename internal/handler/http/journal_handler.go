package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Wandor/journaling-node/internal/domain/models"
	"github.com/Wandor/journaling-node/internal/handler/http/middleware"
	"github.com/Wandor/journaling-node/internal/service"
)

// JournalHandler exposes the entry ingress endpoint. Entries are
// persisted synchronously and enriched asynchronously off the queue.
type JournalHandler struct {
	journalService *service.JournalService
	logger         *zap.Logger
}

func NewJournalHandler(journalService *service.JournalService, logger *zap.Logger) *JournalHandler {
	return &JournalHandler{journalService: journalService, logger: logger}
}

// CreateEntry persists a new journal entry for the authenticated user.
func (h *JournalHandler) CreateEntry(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "Invalid or expired access token", h.logger)
		return
	}

	var req models.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, bindingErrorMessage(err), h.logger)
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), userID, req)
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, "Failed to create journal entry", h.logger)
		return
	}

	RespondWithData(c, http.StatusCreated, entry)
}
