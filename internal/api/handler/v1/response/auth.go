package response

import (
	"github.com/antiscalping/tickets/internal/domain"
)

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
