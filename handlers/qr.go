package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"checkin-backend/qr"
	"checkin-backend/store"
)

type QRHandler struct {
	store    store.Store
	renderer *qr.Renderer
	log      *zap.Logger
}

func NewQRHandler(store store.Store, renderer *qr.Renderer, log *zap.Logger) *QRHandler {
	return &QRHandler{store: store, renderer: renderer, log: log}
}

// GetQR renders the QR code for a single participant.
func (h *QRHandler) GetQR(c *gin.Context) {
	participantID := c.Query("participantId")
	if participantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "participantId is required"})
		return
	}

	participant, err := h.store.GetParticipant(c, participantID)
	if errors.Is(err, store.ErrParticipantNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to load participant", zap.String("id", participantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	dataURL, err := h.renderer.DataURL(participant.QRToken)
	if err != nil {
		h.log.Error("failed to render QR code", zap.String("id", participantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"participant": gin.H{
			"id":    participant.ID,
			"name":  participant.Name,
			"email": participant.Email,
		},
		"qrCode": dataURL,
		"token":  participant.QRToken,
	})
}

// BulkQR renders QR codes for every participant of an event.
func (h *QRHandler) BulkQR(c *gin.Context) {
	var req struct {
		EventID string `json:"eventId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventId is required"})
		return
	}

	participants, err := h.store.ListParticipants(c, req.EventID)
	if err != nil {
		h.log.Error("failed to list participants", zap.String("event_id", req.EventID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR codes"})
		return
	}

	qrCodes := make([]gin.H, 0, len(participants))
	for _, p := range participants {
		dataURL, err := h.renderer.DataURL(p.QRToken)
		if err != nil {
			h.log.Error("failed to render QR code", zap.String("participant_id", p.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR codes"})
			return
		}
		qrCodes = append(qrCodes, gin.H{
			"participantId": p.ID,
			"name":          p.Name,
			"email":         p.Email,
			"qrCode":        dataURL,
		})
	}

	c.JSON(http.StatusOK, gin.H{"qrCodes": qrCodes})
}
