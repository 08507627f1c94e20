package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidIdentity      = errors.New("invalid account identity")
	ErrInvalidName          = errors.New("invalid project name")
	ErrInvalidTarget        = errors.New("invalid financial target")
	ErrInvalidAmount        = errors.New("invalid donation amount")
	ErrDuplicateProject     = errors.New("project already exists for owner")
	ErrInvalidProjectStatus = errors.New("invalid project status for this operation")
	ErrArithmeticOverflow   = errors.New("balance arithmetic overflow")
	ErrCapacityExceeded     = errors.New("donation capacity exceeded")
	ErrTransferFailed       = errors.New("transfer failed")
	ErrRefundFailed         = errors.New("refund failed")
	ErrPayoutFailed         = errors.New("payout failed")
)
