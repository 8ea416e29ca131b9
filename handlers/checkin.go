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

type CheckinHandler struct {
	store store.Store
	log   *zap.Logger
}

func NewCheckinHandler(store store.Store, log *zap.Logger) *CheckinHandler {
	return &CheckinHandler{store: store, log: log}
}

// CheckIn marks a participant as attended. At most one check-in ever
// succeeds per token; the datastore enforces that atomically.
func (h *CheckinHandler) CheckIn(c *gin.Context) {
	var req models.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	// Syntax check before touching the datastore.
	if !token.Validate(req.Token) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token format"})
		return
	}

	participant, err := h.store.CheckIn(c, req.Token, req.DeviceInfo)
	var already *store.AlreadyCheckedInError
	switch {
	case errors.Is(err, store.ErrParticipantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	case errors.As(err, &already):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Already checked in",
			"participant": gin.H{
				"name":        already.Name,
				"email":       already.Email,
				"checkedInAt": already.CheckedInAt,
			},
		})
		return
	case err != nil:
		h.log.Error("failed to check in participant", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check in"})
		return
	}

	h.log.Info("participant checked in",
		zap.String("id", participant.ID),
		zap.String("event_id", participant.EventID),
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"participant": gin.H{
			"id":          participant.ID,
			"name":        participant.Name,
			"email":       participant.Email,
			"company":     participant.Company,
			"checkedInAt": participant.CheckedInAt,
			"event": gin.H{
				"name": participant.Event.Name,
				"date": participant.Event.Date,
			},
		},
	})
}

// Stats reports attendance counts for an event.
func (h *CheckinHandler) Stats(c *gin.Context) {
	eventID := c.Query("eventId")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventId is required"})
		return
	}

	stats, err := h.store.EventStats(c, eventID)
	if err != nil {
		h.log.Error("failed to fetch check-in stats", zap.String("event_id", eventID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
