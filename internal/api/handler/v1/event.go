package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/antiscalping/tickets/internal/api/handler/v1/request"
	"github.com/antiscalping/tickets/internal/api/handler/v1/response"
	"github.com/antiscalping/tickets/internal/domain"
)

type EventService interface {
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
	ListActiveEvents(ctx context.Context) ([]domain.Event, error)
	ListUpcomingEvents(ctx context.Context) ([]domain.Event, error)
	SearchByVenue(ctx context.Context, venue string) ([]domain.Event, error)
	UpdateEventStatus(ctx context.Context, eventID, callerID uint, status domain.EventStatus) error
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// HandleCreateEvent godoc
// @Summary      Create a new event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest true "request body"
// @Success      201      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	eventDate, err := time.Parse(time.RFC3339, req.EventDate)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid event date: %v", err)))
		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), domain.Event{
		Name:          req.Name,
		Description:   req.Description,
		EventDate:     eventDate,
		Venue:         req.Venue,
		TotalCapacity: req.TotalCapacity,
		TicketPrice:   req.TicketPrice,
		OrganizerID:   userID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEventDateInPast) {
			response.RenderErr(ctx, response.ErrBadRequest(domain.ErrEventDateInPast))
			return
		}

		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleGetEvent godoc
// @Summary      Get an event by ID
// @Tags         events
// @Produce      json
// @Param        eventID  path      int true "event ID"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid event ID")))
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), uint(eventID))
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleListEvents godoc
// @Summary      List events
// @Description  Lists active events; pass upcoming=true for upcoming only, or venue=... to search by venue.
// @Tags         events
// @Produce      json
// @Param        upcoming  query     bool   false "upcoming events only"
// @Param        venue     query     string false "filter by venue"
// @Success      200       {array}   domain.Event
// @Failure      500       {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	var (
		events []domain.Event
		err    error
	)

	switch {
	case ctx.Query("venue") != "":
		events, err = h.svc.SearchByVenue(ctx.Request.Context(), ctx.Query("venue"))
	case ctx.Query("upcoming") == "true":
		events, err = h.svc.ListUpcomingEvents(ctx.Request.Context())
	default:
		events, err = h.svc.ListActiveEvents(ctx.Request.Context())
	}

	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleUpdateEventStatus godoc
// @Summary      Update an event's status
// @Description  Only the event's organizer may change its status.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int true "event ID"
// @Param        request  body      request.UpdateEventStatusRequest true "request body"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/status [put]
// @Security     BearerAuth
func (h *EventHandler) HandleUpdateEventStatus(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid event ID")))
		return
	}

	var req request.UpdateEventStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err = h.svc.UpdateEventStatus(ctx.Request.Context(), uint(eventID), userID, domain.EventStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, domain.ErrNotAuthorized):
			response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not the organizer", userID)))
		default:
			err = fmt.Errorf("v1.HandleUpdateEventStatus -> h.svc.UpdateEventStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": req.Status})
}
