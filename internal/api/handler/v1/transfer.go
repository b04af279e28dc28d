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
	"github.com/antiscalping/tickets/internal/service"
)

type TransferService interface {
	Initiate(ctx context.Context, callerID uint, in service.InitiateTransferInput) (domain.TicketTransfer, error)
	Approve(ctx context.Context, transferID, callerID uint) error
	Complete(ctx context.Context, transferID, callerID uint) error
	Reject(ctx context.Context, transferID, callerID uint) error
	GetTransfer(ctx context.Context, transferID, callerID uint) (domain.TicketTransfer, error)
}

type TransferHandler struct {
	svc TransferService
}

func NewTransferHandler(svc TransferService) *TransferHandler {
	return &TransferHandler{
		svc: svc,
	}
}

// HandleInitiate godoc
// @Summary      Initiate a ticket transfer
// @Description  Opens a PENDING transfer to another user. Trusted circle transfers require an existing trust relationship.
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        request  body      request.InitiateTransferRequest true "request body"
// @Success      201      {object}  domain.TicketTransfer
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /transfers [post]
// @Security     BearerAuth
func (h *TransferHandler) HandleInitiate(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.InitiateTransferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	transfer, err := h.svc.Initiate(ctx.Request.Context(), userID, service.InitiateTransferInput{
		TicketID:      req.TicketID,
		ToUserID:      req.ToUserID,
		TransferType:  domain.TransferType(req.TransferType),
		TransferPrice: req.TransferPrice,
		TransferNotes: req.TransferNotes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", req.TicketID))
		case errors.Is(err, domain.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", req.ToUserID))
		case errors.Is(err, domain.ErrNotOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(domain.ErrNotOwner))
		case errors.Is(err, domain.ErrNotTrusted):
			response.RenderErr(ctx, response.ErrPermissionDenied(domain.ErrNotTrusted))
		case errors.Is(err, domain.ErrInvalidTransferType):
			response.RenderErr(ctx, response.ErrBadRequest(domain.ErrInvalidTransferType))
		case errors.Is(err, domain.ErrInvalidState):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, domain.ErrFraudDetected):
			response.RenderErr(ctx, response.ErrUnprocessableEntity(err))
		default:
			err = fmt.Errorf("v1.HandleInitiate -> h.svc.Initiate -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, transfer)
}

// HandleApprove godoc
// @Summary      Approve a pending transfer as its recipient
// @Tags         transfers
// @Produce      json
// @Param        transferID  path      int true "transfer ID"
// @Success      200         {object}  map[string]string
// @Failure      400         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      409         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /transfers/{transferID}/approve [post]
// @Security     BearerAuth
func (h *TransferHandler) HandleApprove(ctx *gin.Context) {
	h.handleAction(ctx, "v1.HandleApprove", h.svc.Approve, "approved")
}

// HandleComplete godoc
// @Summary      Complete an approved transfer as its sender
// @Tags         transfers
// @Produce      json
// @Param        transferID  path      int true "transfer ID"
// @Success      200         {object}  map[string]string
// @Failure      400         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      409         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /transfers/{transferID}/complete [post]
// @Security     BearerAuth
func (h *TransferHandler) HandleComplete(ctx *gin.Context) {
	h.handleAction(ctx, "v1.HandleComplete", h.svc.Complete, "completed")
}

// HandleReject godoc
// @Summary      Reject a transfer as its recipient
// @Tags         transfers
// @Produce      json
// @Param        transferID  path      int true "transfer ID"
// @Success      200         {object}  map[string]string
// @Failure      400         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /transfers/{transferID}/reject [post]
// @Security     BearerAuth
func (h *TransferHandler) HandleReject(ctx *gin.Context) {
	h.handleAction(ctx, "v1.HandleReject", h.svc.Reject, "rejected")
}

func (h *TransferHandler) handleAction(ctx *gin.Context, op string, action func(context.Context, uint, uint) error, status string) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	transferID, err := strconv.ParseUint(ctx.Param("transferID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid transfer ID")))
		return
	}

	if err := action(ctx.Request.Context(), uint(transferID), userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrTransferNotFound):
			response.RenderErr(ctx, response.ErrNotFound("transfer", "ID", transferID))
		case errors.Is(err, domain.ErrNotAuthorized):
			response.RenderErr(ctx, response.ErrPermissionDenied(domain.ErrNotAuthorized))
		case errors.Is(err, domain.ErrInvalidState):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("%v -> %w", op, err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": status})
}

// HandleGetTransfer godoc
// @Summary      Get a transfer the authenticated user participates in
// @Tags         transfers
// @Produce      json
// @Param        transferID  path      int true "transfer ID"
// @Success      200         {object}  domain.TicketTransfer
// @Failure      400         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /transfers/{transferID} [get]
// @Security     BearerAuth
func (h *TransferHandler) HandleGetTransfer(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	transferID, err := strconv.ParseUint(ctx.Param("transferID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid transfer ID")))
		return
	}

	transfer, err := h.svc.GetTransfer(ctx.Request.Context(), uint(transferID), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTransferNotFound):
			response.RenderErr(ctx, response.ErrNotFound("transfer", "ID", transferID))
		case errors.Is(err, domain.ErrNotAuthorized):
			response.RenderErr(ctx, response.ErrPermissionDenied(domain.ErrNotAuthorized))
		default:
			err = fmt.Errorf("v1.HandleGetTransfer -> h.svc.GetTransfer -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, transfer)
}
