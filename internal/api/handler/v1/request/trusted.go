package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type AddTrustedUserRequest struct {
	TrustedUserID uint   `json:"trusted_user_id"`
	Relationship  string `json:"relationship,omitempty"`
}

func (req *AddTrustedUserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TrustedUserID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Relationship, validation.Length(0, 50)),
	)
}
