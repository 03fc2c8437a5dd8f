package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zohair-aabidi/ajenda/internal/auth"
	"github.com/zohair-aabidi/ajenda/internal/middleware"
	"github.com/zohair-aabidi/ajenda/internal/service"
)

// EventHandler handles calendar event HTTP requests.
type EventHandler struct {
	eventService service.EventService
	log          logrus.FieldLogger
}

// NewEventHandler creates a new EventHandler instance.
func NewEventHandler(eventService service.EventService, log logrus.FieldLogger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		log:          log,
	}
}

// Create godoc
// @Summary Create event
// @Description Create an event owned by the caller
// @Tags events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.EventRequest true "Event"
// @Success 201 {object} service.EventResponse
// @Failure 400 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Router /evenements [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req service.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// Get godoc
// @Summary Get event
// @Description Get one event. Only its owner or an admin may read it.
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} service.EventResponse
// @Failure 403 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /evenements/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	event, err := h.eventService.Get(c.Request.Context(), middleware.CurrentPrincipal(c), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Update godoc
// @Summary Update event
// @Description Replace an event owned by the caller
// @Tags events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body service.EventRequest true "Event"
// @Success 200 {object} service.EventResponse
// @Failure 400 {object} MessageResponse
// @Failure 403 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /evenements/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), middleware.CurrentPrincipal(c), id, req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Delete godoc
// @Summary Delete event
// @Description Delete an event owned by the caller
// @Tags events
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 204
// @Failure 403 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /evenements/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), middleware.CurrentPrincipal(c), id); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListOwn godoc
// @Summary List my events
// @Tags events
// @Security BearerAuth
// @Produce json
// @Success 200 {array} service.EventResponse
// @Router /evenements/mes-evenements [get]
func (h *EventHandler) ListOwn(c *gin.Context) {
	events, err := h.eventService.ListOwn(c.Request.Context(), middleware.CurrentPrincipal(c))
	h.respondList(c, events, err)
}

// ListOwnInRange godoc
// @Summary List my events in a date range
// @Description Events that start or end inside [debut, fin], or span it
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param debut query string true "Range start (ISO date-time)"
// @Param fin query string true "Range end (ISO date-time)"
// @Success 200 {array} service.EventResponse
// @Failure 400 {object} MessageResponse
// @Router /evenements/mes-evenements/plage [get]
func (h *EventHandler) ListOwnInRange(c *gin.Context) {
	from, to, ok := queryRange(c)
	if !ok {
		return
	}
	events, err := h.eventService.ListOwnInRange(c.Request.Context(), middleware.CurrentPrincipal(c), from, to)
	h.respondList(c, events, err)
}

// SearchOwn godoc
// @Summary Search my events
// @Description Case-insensitive match on title or description
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param motCle query string true "Keyword"
// @Success 200 {array} service.EventResponse
// @Failure 400 {object} MessageResponse
// @Router /evenements/mes-evenements/recherche [get]
func (h *EventHandler) SearchOwn(c *gin.Context) {
	keyword, ok := queryKeyword(c)
	if !ok {
		return
	}
	events, err := h.eventService.SearchOwn(c.Request.Context(), middleware.CurrentPrincipal(c), keyword)
	h.respondList(c, events, err)
}

// ListAll godoc
// @Summary List all events (admin)
// @Tags events
// @Security BearerAuth
// @Produce json
// @Success 200 {array} service.EventResponse
// @Failure 403 {object} MessageResponse
// @Router /evenements [get]
func (h *EventHandler) ListAll(c *gin.Context) {
	events, err := h.eventService.ListAll(c.Request.Context())
	h.respondList(c, events, err)
}

// ListInRange godoc
// @Summary List all events in a date range (admin)
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param debut query string true "Range start (ISO date-time)"
// @Param fin query string true "Range end (ISO date-time)"
// @Success 200 {array} service.EventResponse
// @Failure 400 {object} MessageResponse
// @Failure 403 {object} MessageResponse
// @Router /evenements/plage [get]
func (h *EventHandler) ListInRange(c *gin.Context) {
	from, to, ok := queryRange(c)
	if !ok {
		return
	}
	events, err := h.eventService.ListInRange(c.Request.Context(), from, to)
	h.respondList(c, events, err)
}

// Search godoc
// @Summary Search all events (admin)
// @Tags events
// @Security BearerAuth
// @Produce json
// @Param motCle query string true "Keyword"
// @Success 200 {array} service.EventResponse
// @Failure 400 {object} MessageResponse
// @Failure 403 {object} MessageResponse
// @Router /evenements/recherche [get]
func (h *EventHandler) Search(c *gin.Context) {
	keyword, ok := queryKeyword(c)
	if !ok {
		return
	}
	events, err := h.eventService.Search(c.Request.Context(), keyword)
	h.respondList(c, events, err)
}

func (h *EventHandler) respondList(c *gin.Context, events []service.EventResponse, err error) {
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		RespondError(c, http.StatusNotFound, "Event not found")
	case errors.Is(err, service.ErrInvalidRange):
		RespondError(c, http.StatusBadRequest, "Range end must not be before range start")
	case errors.Is(err, auth.ErrUnauthenticated):
		RespondError(c, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, auth.ErrForbidden):
		RespondError(c, http.StatusForbidden, "Forbidden")
	default:
		LogAndRespondError(c, h.log, http.StatusInternalServerError, err, "event operation failed")
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "Invalid event id")
		return 0, false
	}
	return id, true
}

func queryRange(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := service.ParseEventTime(c.Query("debut"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Parameter 'debut' must be an ISO date-time")
		return time.Time{}, time.Time{}, false
	}
	to, err := service.ParseEventTime(c.Query("fin"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Parameter 'fin' must be an ISO date-time")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func queryKeyword(c *gin.Context) (string, bool) {
	keyword, ok := c.GetQuery("motCle")
	if !ok {
		RespondError(c, http.StatusBadRequest, "Parameter 'motCle' is required")
		return "", false
	}
	return keyword, true
}
