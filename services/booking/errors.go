package booking

import (
	"errors"
	"fmt"
)

// Error codes carried by BookingError.
const (
	CodeClassNotFound       = "classNotFound"
	CodeAppointmentNotFound = "appointmentNotFound"
	CodeCheckoutNotFound    = "checkoutNotFound"
	CodeForbidden           = "forbidden"
	CodeInvalidRequest      = "invalidRequest"
	CodeInvalidSeats        = "invalidSeats"
	CodeSeatsExhausted      = "seatsExhausted"
	CodeSlotUnavailable     = "slotUnavailable"
	CodeNotEligible         = "notEligible"
	CodePaymentIncomplete   = "paymentIncomplete"
	CodePaymentFailed       = "paymentFailed"
	CodePackageNotFound     = "packageNotFound"
	CodePackageUnusable     = "packageUnusable"
)

// BookingError is a business-rule outcome of the booking flow. Two errors
// match under errors.Is when their codes are equal.
type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BookingError) Is(target error) bool {
	var be *BookingError
	if !errors.As(target, &be) {
		return false
	}
	return be.Code == e.Code
}

func newBookingError(code, format string, args ...any) error {
	return &BookingError{Code: code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrClassNotFound       = &BookingError{Code: CodeClassNotFound, Message: "class not found"}
	ErrAppointmentNotFound = &BookingError{Code: CodeAppointmentNotFound, Message: "booking not found"}
	ErrCheckoutNotFound    = &BookingError{Code: CodeCheckoutNotFound, Message: "checkout not found or expired"}
	ErrForbidden           = &BookingError{Code: CodeForbidden, Message: "booking belongs to another student"}
	ErrInvalidSeats        = &BookingError{Code: CodeInvalidSeats, Message: "invalid number of seats"}
	ErrSeatsExhausted      = &BookingError{Code: CodeSeatsExhausted, Message: "not enough seats left for this slot"}
	ErrSlotUnavailable     = &BookingError{Code: CodeSlotUnavailable, Message: "slot is not available"}
	ErrNotEligible         = &BookingError{Code: CodeNotEligible, Message: "action not allowed for this booking"}
	ErrPaymentIncomplete   = &BookingError{Code: CodePaymentIncomplete, Message: "payment has not succeeded"}
	ErrPaymentFailed       = &BookingError{Code: CodePaymentFailed, Message: "payment provider error"}
	ErrPackageNotFound     = &BookingError{Code: CodePackageNotFound, Message: "package not found"}
	ErrPackageExhausted    = &BookingError{Code: CodePackageUnusable, Message: "package has no credits left or has expired"}
)

// AsBookingError extracts the BookingError from err, if any.
func AsBookingError(err error) (*BookingError, bool) {
	var be *BookingError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
