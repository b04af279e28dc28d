package domain

import "errors"

// Precondition failures are terminal from the caller's perspective: the
// caller must correct the precondition before retrying. Infrastructure
// failures (storage unavailable, etc.) are a separate class and propagate
// unchanged.
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrPoolTicketNotFound  = errors.New("pool ticket not found")
	ErrTransferNotFound    = errors.New("transfer not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrTrustedUserNotFound = errors.New("trusted user not found in circle")

	ErrNotOwner            = errors.New("requester is not the ticket owner")
	ErrNotAuthorized       = errors.New("requester is not authorized for this action")
	ErrInvalidState        = errors.New("action is not legal in the current state")
	ErrCapacityExceeded    = errors.New("not enough tickets available")
	ErrAlreadyPooled       = errors.New("ticket is already in the pool")
	ErrNotTrusted          = errors.New("recipient is not in your trusted circle")
	ErrNotNominated        = errors.New("you are not nominated for this pool ticket")
	ErrNominationExpired   = errors.New("nomination period has expired")
	ErrFraudDetected       = errors.New("fraud detected")
	ErrInvalidTransferType = errors.New("invalid transfer type")
	ErrSelfTrust           = errors.New("cannot add yourself to trusted circle")
	ErrAlreadyTrusted      = errors.New("user is already in trusted circle")
	ErrEventDateInPast     = errors.New("event date must be in the future")

	ErrUserEmailExists = errors.New("user already exists")
	ErrWrongPassword   = errors.New("wrong password")
)
