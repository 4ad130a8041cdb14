package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Booking endpoints
	GetDaySlots       gin.HandlerFunc
	StartCheckout     gin.HandlerFunc
	ConfirmCheckout   gin.HandlerFunc
	GetEligibility    gin.HandlerFunc
	CancelBooking     gin.HandlerFunc
	RescheduleBooking gin.HandlerFunc
	GetRefundQuote    gin.HandlerFunc
	RefundBooking     gin.HandlerFunc

	// AI endpoints
	AnalyzeReview gin.HandlerFunc
}

// NewHandlerBundle wires the handler methods into a bundle.
func NewHandlerBundle(bh *BookingHandler, ah *AIHandler) *HandlerBundle {
	return &HandlerBundle{
		GetDaySlots:       bh.GetDaySlots,
		StartCheckout:     bh.StartCheckout,
		ConfirmCheckout:   bh.ConfirmCheckout,
		GetEligibility:    bh.GetEligibility,
		CancelBooking:     bh.CancelBooking,
		RescheduleBooking: bh.RescheduleBooking,
		GetRefundQuote:    bh.GetRefundQuote,
		RefundBooking:     bh.RefundBooking,
		AnalyzeReview:     ah.AnalyzeReview,
	}
}
