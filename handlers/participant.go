package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"checkin-backend/models"
	"checkin-backend/store"
	"checkin-backend/token"
)

type ParticipantHandler struct {
	store store.Store
	log   *zap.Logger
}

func NewParticipantHandler(store store.Store, log *zap.Logger) *ParticipantHandler {
	return &ParticipantHandler{store: store, log: log}
}

func (h *ParticipantHandler) ListParticipants(c *gin.Context) {
	eventID := c.Query("eventId")

	participants, err := h.store.ListParticipants(c, eventID)
	if err != nil {
		h.log.Error("failed to list participants", zap.String("event_id", eventID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch participants"})
		return
	}

	c.JSON(http.StatusOK, participants)
}

func (h *ParticipantHandler) CreateParticipant(c *gin.Context) {
	var req models.CreateParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: eventId, name, email"})
		return
	}

	qrToken := token.Generate(req.EventID, req.Email)

	participant, err := h.store.CreateParticipant(c, req.EventID, req.Name, req.Email, req.Company, qrToken)
	switch {
	case errors.Is(err, store.ErrDuplicateParticipant):
		c.JSON(http.StatusConflict, gin.H{"error": "Participant with this email already exists for this event"})
		return
	case errors.Is(err, store.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	case err != nil:
		h.log.Error("failed to create participant", zap.String("event_id", req.EventID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create participant"})
		return
	}

	h.log.Info("participant created",
		zap.String("id", participant.ID),
		zap.String("event_id", participant.EventID),
	)
	c.JSON(http.StatusCreated, participant)
}
