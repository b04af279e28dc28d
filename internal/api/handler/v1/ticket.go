package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/antiscalping/tickets/internal/api/handler/v1/request"
	"github.com/antiscalping/tickets/internal/api/handler/v1/response"
	"github.com/antiscalping/tickets/internal/domain"
)

type TicketService interface {
	Purchase(ctx context.Context, userID, eventID uint, quantity int) ([]domain.Ticket, error)
	GetTicket(ctx context.Context, ticketID, callerID uint) (domain.Ticket, error)
	GetTicketByNumber(ctx context.Context, number string, callerID uint) (domain.Ticket, error)
	GetUserTickets(ctx context.Context, userID uint) ([]domain.Ticket, error)
	Validate(ctx context.Context, ticketID, callerID uint) error
	Cancel(ctx context.Context, ticketID, callerID uint) error
}

type TicketHandler struct {
	svc TicketService
}

func NewTicketHandler(svc TicketService) *TicketHandler {
	return &TicketHandler{
		svc: svc,
	}
}

// HandlePurchase godoc
// @Summary      Purchase tickets for an event
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        request  body      request.PurchaseTicketsRequest true "request body"
// @Success      201      {array}   domain.Ticket
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tickets/purchase [post]
// @Security     BearerAuth
func (h *TicketHandler) HandlePurchase(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.PurchaseTicketsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	tickets, err := h.svc.Purchase(ctx.Request.Context(), userID, req.EventID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", req.EventID))
		case errors.Is(err, domain.ErrCapacityExceeded):
			response.RenderErr(ctx, response.ErrConflict(domain.ErrCapacityExceeded))
		case errors.Is(err, domain.ErrInvalidState):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, domain.ErrFraudDetected):
			response.RenderErr(ctx, response.ErrUnprocessableEntity(err))
		default:
			err = fmt.Errorf("v1.HandlePurchase -> h.svc.Purchase -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, tickets)
}

// HandleGetMyTickets godoc
// @Summary      List the authenticated user's tickets
// @Tags         tickets
// @Produce      json
// @Success      200  {array}   domain.Ticket
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tickets [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleGetMyTickets(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tickets, err := h.svc.GetUserTickets(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMyTickets -> h.svc.GetUserTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

// HandleGetTicket godoc
// @Summary      Get one of the authenticated user's tickets
// @Tags         tickets
// @Produce      json
// @Param        ticketID  path      int true "ticket ID"
// @Success      200       {object}  domain.Ticket
// @Failure      400       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /tickets/{ticketID} [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleGetTicket(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ticketID, err := strconv.ParseUint(ctx.Param("ticketID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid ticket ID")))
		return
	}

	ticket, err := h.svc.GetTicket(ctx.Request.Context(), uint(ticketID), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", ticketID))
		case errors.Is(err, domain.ErrNotAuthorized):
			response.RenderErr(ctx, response.ErrPermissionDenied(domain.ErrNotAuthorized))
		default:
			err = fmt.Errorf("v1.HandleGetTicket -> h.svc.GetTicket -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleGetTicketByNumber godoc
// @Summary      Get one of the authenticated user's tickets by ticket number
// @Tags         tickets
// @Produce      json
// @Param        ticketNumber  path      string true "ticket number"
// @Success      200           {object}  domain.Ticket
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /tickets/number/{ticketNumber} [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleGetTicketByNumber(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	number := ctx.Param("ticketNumber")

	ticket, err := h.svc.GetTicketByNumber(ctx.Request.Context(), number, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket", "number", number))
		case errors.Is(err, domain.ErrNotAuthorized):
			response.RenderErr(ctx, response.ErrPermissionDenied(domain.ErrNotAuthorized))
		default:
			err = fmt.Errorf("v1.HandleGetTicketByNumber -> h.svc.GetTicketByNumber -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleValidate godoc
// @Summary      Validate a ticket at entry
// @Tags         tickets
// @Produce      json
// @Param        ticketID  path      int true "ticket ID"
// @Success      200       {object}  map[string]string
// @Failure      400       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /tickets/{ticketID}/validate [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleValidate(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ticketID, err := strconv.ParseUint(ctx.Param("ticketID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid ticket ID")))
		return
	}

	if err := h.svc.Validate(ctx.Request.Context(), uint(ticketID), userID); err != nil {
		renderTicketActionErr(ctx, err, ticketID, "v1.HandleValidate")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "validated"})
}

// HandleCancel godoc
// @Summary      Cancel a ticket and release its seat
// @Tags         tickets
// @Produce      json
// @Param        ticketID  path      int true "ticket ID"
// @Success      200       {object}  map[string]string
// @Failure      400       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /tickets/{ticketID}/cancel [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleCancel(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ticketID, err := strconv.ParseUint(ctx.Param("ticketID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid ticket ID")))
		return
	}

	if err := h.svc.Cancel(ctx.Request.Context(), uint(ticketID), userID); err != nil {
		renderTicketActionErr(ctx, err, ticketID, "v1.HandleCancel")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func renderTicketActionErr(ctx *gin.Context, err error, ticketID uint64, op string) {
	switch {
	case errors.Is(err, domain.ErrTicketNotFound):
		response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", ticketID))
	case errors.Is(err, domain.ErrNotOwner):
		response.RenderErr(ctx, response.ErrPermissionDenied(domain.ErrNotOwner))
	case errors.Is(err, domain.ErrInvalidState):
		response.RenderErr(ctx, response.ErrConflict(err))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
