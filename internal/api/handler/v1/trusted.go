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

type TrustedCircleService interface {
	AddTrustedUser(ctx context.Context, userID, trustedUserID uint, relationship string) (domain.TrustedCircle, error)
	GetTrustedUsers(ctx context.Context, userID uint) ([]domain.TrustedCircle, error)
	RemoveTrustedUser(ctx context.Context, userID, trustedUserID uint) error
}

type TrustedCircleHandler struct {
	svc TrustedCircleService
}

func NewTrustedCircleHandler(svc TrustedCircleService) *TrustedCircleHandler {
	return &TrustedCircleHandler{
		svc: svc,
	}
}

// HandleAddTrustedUser godoc
// @Summary      Add a user to the authenticated user's trusted circle
// @Tags         trusted-circle
// @Accept       json
// @Produce      json
// @Param        request  body      request.AddTrustedUserRequest true "request body"
// @Success      201      {object}  domain.TrustedCircle
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /trusted-circle [post]
// @Security     BearerAuth
func (h *TrustedCircleHandler) HandleAddTrustedUser(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AddTrustedUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	circle, err := h.svc.AddTrustedUser(ctx.Request.Context(), userID, req.TrustedUserID, req.Relationship)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSelfTrust):
			response.RenderErr(ctx, response.ErrBadRequest(domain.ErrSelfTrust))
		case errors.Is(err, domain.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", req.TrustedUserID))
		case errors.Is(err, domain.ErrAlreadyTrusted):
			response.RenderErr(ctx, response.ErrConflict(domain.ErrAlreadyTrusted))
		default:
			err = fmt.Errorf("v1.HandleAddTrustedUser -> h.svc.AddTrustedUser -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, circle)
}

// HandleGetTrustedUsers godoc
// @Summary      List the authenticated user's trusted circle
// @Tags         trusted-circle
// @Produce      json
// @Success      200  {array}   domain.TrustedCircle
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /trusted-circle [get]
// @Security     BearerAuth
func (h *TrustedCircleHandler) HandleGetTrustedUsers(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	circles, err := h.svc.GetTrustedUsers(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetTrustedUsers -> h.svc.GetTrustedUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, circles)
}

// HandleRemoveTrustedUser godoc
// @Summary      Remove a user from the authenticated user's trusted circle
// @Tags         trusted-circle
// @Produce      json
// @Param        trustedUserID  path      int true "trusted user ID"
// @Success      200            {object}  map[string]string
// @Failure      400            {object}  response.Err
// @Failure      404            {object}  response.Err
// @Failure      500            {object}  response.Err
// @Router       /trusted-circle/{trustedUserID} [delete]
// @Security     BearerAuth
func (h *TrustedCircleHandler) HandleRemoveTrustedUser(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	trustedUserID, err := strconv.ParseUint(ctx.Param("trustedUserID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid trusted user ID")))
		return
	}

	if err := h.svc.RemoveTrustedUser(ctx.Request.Context(), userID, uint(trustedUserID)); err != nil {
		if errors.Is(err, domain.ErrTrustedUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("trusted user", "ID", trustedUserID))
			return
		}

		err = fmt.Errorf("v1.HandleRemoveTrustedUser -> h.svc.RemoveTrustedUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "removed"})
}
