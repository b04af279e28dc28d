package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/antiscalping/tickets/internal/api/handler/v1/response"
	"github.com/antiscalping/tickets/internal/domain"
)

type AuditService interface {
	GetUserLogs(ctx context.Context, userID uint) ([]domain.AuditLog, error)
}

type AuditHandler struct {
	svc AuditService
}

func NewAuditHandler(svc AuditService) *AuditHandler {
	return &AuditHandler{
		svc: svc,
	}
}

// HandleGetMyLogs godoc
// @Summary      List the authenticated user's audit trail
// @Tags         audit
// @Produce      json
// @Success      200  {array}   domain.AuditLog
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /audit/me [get]
// @Security     BearerAuth
func (h *AuditHandler) HandleGetMyLogs(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	logs, err := h.svc.GetUserLogs(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMyLogs -> h.svc.GetUserLogs -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, logs)
}
