package usecase

import (
	"errors"
	"fmt"

	"dormitory-backend/internal/pricing"

	"github.com/shopspring/decimal"
)

// Admission failures.
var (
	ErrRoomFull               = errors.New("room is full")
	ErrGenderMismatch         = errors.New("room is occupied by students of another gender")
	ErrDuplicateActiveBooking = errors.New("student already has an active booking")
)

// Validation and state failures.
var (
	ErrAlreadyClosed       = errors.New("booking is no longer active")
	ErrInvalidDateRange    = pricing.ErrInvalidDateRange
	ErrUnknownBillingMode  = pricing.ErrUnknownMode
	ErrNonPositiveAmount   = errors.New("payment amount must be positive")
	ErrInvalidAmount       = errors.New("payment amount must have at most two decimals and stay below 10000000000")
	ErrOverpaymentRejected = errors.New("payment exceeds the remaining debt")
	ErrSameRoom            = errors.New("student already lives in this room")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidRole         = errors.New("unknown staff role")
	ErrForbidden           = errors.New("operation not allowed for this role")
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrRoomNotFound      = errors.New("room not found")
	ErrStudentNotFound   = errors.New("student not found")
	ErrPrivilegeNotFound = errors.New("privilege not found")
)

// ErrStorageTimeout is returned when every storage attempt ran out of time.
var ErrStorageTimeout = errors.New("storage timeout")

// OverpaymentError carries how much a rejected payment exceeds the debt by.
type OverpaymentError struct {
	Excess decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment exceeds the remaining debt by %s", e.Excess.StringFixed(2))
}

func (e *OverpaymentError) Unwrap() error {
	return ErrOverpaymentRejected
}

var domainErrors = []error{
	ErrRoomFull,
	ErrGenderMismatch,
	ErrDuplicateActiveBooking,
	ErrAlreadyClosed,
	ErrInvalidDateRange,
	ErrUnknownBillingMode,
	ErrNonPositiveAmount,
	ErrInvalidAmount,
	ErrOverpaymentRejected,
	ErrSameRoom,
	ErrEmailTaken,
	ErrInvalidRole,
	ErrForbidden,
	ErrBookingNotFound,
	ErrRoomNotFound,
	ErrStudentNotFound,
	ErrPrivilegeNotFound,
}

// IsDomainError reports whether err is a business rule outcome rather than
// a storage failure. Domain errors are never retried.
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// rejectionReason is the metrics label of a business rule rejection.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrRoomFull):
		return "room_full"
	case errors.Is(err, ErrGenderMismatch):
		return "gender_mismatch"
	case errors.Is(err, ErrDuplicateActiveBooking):
		return "duplicate_active_booking"
	case errors.Is(err, ErrAlreadyClosed):
		return "already_closed"
	case errors.Is(err, ErrInvalidDateRange):
		return "invalid_date_range"
	case errors.Is(err, ErrNonPositiveAmount):
		return "non_positive_amount"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrOverpaymentRejected):
		return "overpayment"
	case errors.Is(err, ErrSameRoom):
		return "same_room"
	case errors.Is(err, ErrStorageTimeout):
		return "storage_timeout"
	case IsDomainError(err):
		return "other"
	default:
		return "storage"
	}
}
