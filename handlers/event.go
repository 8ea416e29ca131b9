package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"checkin-backend/models"
	"checkin-backend/store"
)

type EventHandler struct {
	store store.Store
	log   *zap.Logger
}

func NewEventHandler(store store.Store, log *zap.Logger) *EventHandler {
	return &EventHandler{store: store, log: log}
}

// Accepted date formats for event creation. Admin forms submit
// datetime-local values without seconds or zone.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseEventDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, value); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.store.ListEvents(c)
	if err != nil {
		h.log.Error("failed to list events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: name, date, location"})
		return
	}

	date, ok := parseEventDate(req.Date)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	event, err := h.store.CreateEvent(c, req.Name, date, req.Location)
	if err != nil {
		h.log.Error("failed to create event", zap.String("name", req.Name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	h.log.Info("event created", zap.String("id", event.ID), zap.String("name", event.Name))
	c.JSON(http.StatusCreated, event)
}
