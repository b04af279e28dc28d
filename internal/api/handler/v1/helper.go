package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/antiscalping/tickets/internal/api/handler/v1/response"
	"github.com/antiscalping/tickets/internal/api/middleware"
)

func getUserIDFromContext(ctx *gin.Context) (uint, *response.Err) {
	value, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return 0, response.ErrUnauthorized(errors.New("user is not authenticated"))
	}

	userID, ok := value.(uint)
	if !ok || userID == 0 {
		return 0, response.ErrUnauthorized(errors.New("user is not authenticated"))
	}

	return userID, nil
}
