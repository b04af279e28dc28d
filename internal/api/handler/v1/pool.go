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

type PoolService interface {
	AddToPool(ctx context.Context, ticketID, callerID uint) (domain.PoolTicket, error)
	Nominate(ctx context.Context, poolTicketID, nominatedUserID, callerID uint) (domain.PoolTicket, error)
	Claim(ctx context.Context, poolTicketID, callerID uint) error
	GetEventPool(ctx context.Context, eventID uint) ([]domain.PoolTicket, error)
	GetAvailablePoolTickets(ctx context.Context, eventID uint) ([]domain.PoolTicket, error)
}

type PoolHandler struct {
	svc PoolService
}

func NewPoolHandler(svc PoolService) *PoolHandler {
	return &PoolHandler{
		svc: svc,
	}
}

// HandleAddToPool godoc
// @Summary      Release a ticket into the event pool
// @Tags         pool
// @Accept       json
// @Produce      json
// @Param        request  body      request.AddToPoolRequest true "request body"
// @Success      201      {object}  domain.PoolTicket
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /pool [post]
// @Security     BearerAuth
func (h *PoolHandler) HandleAddToPool(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AddToPoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	poolTicket, err := h.svc.AddToPool(ctx.Request.Context(), req.TicketID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", req.TicketID))
		case errors.Is(err, domain.ErrNotOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(domain.ErrNotOwner))
		case errors.Is(err, domain.ErrAlreadyPooled):
			response.RenderErr(ctx, response.ErrConflict(domain.ErrAlreadyPooled))
		case errors.Is(err, domain.ErrInvalidState):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleAddToPool -> h.svc.AddToPool -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, poolTicket)
}

// HandleNominate godoc
// @Summary      Nominate a user for a pooled ticket
// @Description  The nominee has 15 minutes to claim before the nomination lapses.
// @Tags         pool
// @Accept       json
// @Produce      json
// @Param        poolTicketID  path      int true "pool ticket ID"
// @Param        request       body      request.NominateRequest true "request body"
// @Success      200           {object}  domain.PoolTicket
// @Failure      400           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      409           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /pool/{poolTicketID}/nominate [post]
// @Security     BearerAuth
func (h *PoolHandler) HandleNominate(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	poolTicketID, err := strconv.ParseUint(ctx.Param("poolTicketID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid pool ticket ID")))
		return
	}

	var req request.NominateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	poolTicket, err := h.svc.Nominate(ctx.Request.Context(), uint(poolTicketID), req.NominatedUserID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPoolTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("pool ticket", "ID", poolTicketID))
		case errors.Is(err, domain.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", req.NominatedUserID))
		case errors.Is(err, domain.ErrInvalidState):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleNominate -> h.svc.Nominate -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, poolTicket)
}

// HandleClaim godoc
// @Summary      Claim a pooled ticket as its nominee
// @Tags         pool
// @Produce      json
// @Param        poolTicketID  path      int true "pool ticket ID"
// @Success      200           {object}  map[string]string
// @Failure      400           {object}  response.Err
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      409           {object}  response.Err
// @Failure      410           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /pool/{poolTicketID}/claim [post]
// @Security     BearerAuth
func (h *PoolHandler) HandleClaim(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	poolTicketID, err := strconv.ParseUint(ctx.Param("poolTicketID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid pool ticket ID")))
		return
	}

	if err := h.svc.Claim(ctx.Request.Context(), uint(poolTicketID), userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrPoolTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("pool ticket", "ID", poolTicketID))
		case errors.Is(err, domain.ErrNotNominated):
			response.RenderErr(ctx, response.ErrPermissionDenied(domain.ErrNotNominated))
		case errors.Is(err, domain.ErrNominationExpired):
			response.RenderErr(ctx, response.NewErr(http.StatusGone, domain.ErrNominationExpired))
		case errors.Is(err, domain.ErrInvalidState):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleClaim -> h.svc.Claim -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "claimed"})
}

// HandleGetEventPool godoc
// @Summary      List pooled tickets for an event
// @Tags         pool
// @Produce      json
// @Param        eventID    path      int  true  "event ID"
// @Param        available  query     bool false "available entries only"
// @Success      200        {array}   domain.PoolTicket
// @Failure      400        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /pool/events/{eventID} [get]
// @Security     BearerAuth
func (h *PoolHandler) HandleGetEventPool(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid event ID")))
		return
	}

	var poolTickets []domain.PoolTicket
	if ctx.Query("available") == "true" {
		poolTickets, err = h.svc.GetAvailablePoolTickets(ctx.Request.Context(), uint(eventID))
	} else {
		poolTickets, err = h.svc.GetEventPool(ctx.Request.Context(), uint(eventID))
	}
	if err != nil {
		err = fmt.Errorf("v1.HandleGetEventPool -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, poolTickets)
}
