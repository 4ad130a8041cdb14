package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"pocketclass/middleware"
	"pocketclass/models"
	"pocketclass/services/booking"
	"pocketclass/services/payment"
	"pocketclass/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the slot, checkout and booking lifecycle endpoints.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// statusFor maps a booking error code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case booking.CodeClassNotFound, booking.CodeAppointmentNotFound, booking.CodeCheckoutNotFound, booking.CodePackageNotFound:
		return http.StatusNotFound
	case booking.CodeForbidden:
		return http.StatusForbidden
	case booking.CodeInvalidRequest, booking.CodeInvalidSeats:
		return http.StatusBadRequest
	case booking.CodePaymentFailed:
		return http.StatusBadGateway
	default:
		return http.StatusConflict
	}
}

// respondError writes err the way every booking endpoint reports failures.
func respondError(c *gin.Context, err error) {
	if be, ok := booking.AsBookingError(err); ok {
		status := statusFor(be.Code)
		if status == http.StatusBadRequest {
			utils.JSONError(c, status, be.Code, be.Message)
			return
		}
		utils.JSONRejection(c, status, be.Code, be.Message)
		return
	}
	if errors.Is(err, payment.ErrNotConfigured) {
		utils.JSONError(c, http.StatusServiceUnavailable, "Payments unavailable", err.Error())
		return
	}
	getLogger(c).Error("Booking request failed", zap.String("path", c.FullPath()), zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
}

// GetDaySlots returns the 24 hourly slots for one class and day.
func (h *BookingHandler) GetDaySlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing date", "query parameter date=YYYY-MM-DD is required")
		return
	}
	seats := 0
	if raw := c.Query("seats"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid seats", err.Error())
			return
		}
		seats = n
	}

	day, err := h.Service.DaySlots(c.Request.Context(), c.Param("classID"), date, seats)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// StartCheckout holds a slot and creates the payment for it.
func (h *BookingHandler) StartCheckout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	req.StudentID = middleware.UserID(c)

	pc, err := h.Service.Checkout(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("Checkout started", zap.String("checkoutId", pc.ID), zap.String("classId", req.ClassID))
	c.JSON(http.StatusCreated, pc)
}

// ConfirmCheckout turns a paid checkout into a confirmed appointment.
func (h *BookingHandler) ConfirmCheckout(c *gin.Context) {
	appt, err := h.Service.Confirm(c.Request.Context(), c.Param("checkoutID"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// GetEligibility lists what the student may still do with a booking.
func (h *BookingHandler) GetEligibility(c *gin.Context) {
	decisions, err := h.Service.Eligibility(c.Request.Context(), c.Param("bookingID"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": c.Param("bookingID"), "actions": decisions})
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	appt, err := h.Service.Cancel(c.Request.Context(), c.Param("bookingID"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *BookingHandler) RescheduleBooking(c *gin.Context) {
	var req models.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	appt, err := h.Service.Reschedule(c.Request.Context(), c.Param("bookingID"), middleware.UserID(c), req.Start)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// GetRefundQuote reports whether a refund is allowed now and for how much.
func (h *BookingHandler) GetRefundQuote(c *gin.Context) {
	quote, err := h.Service.RefundQuote(c.Request.Context(), c.Param("bookingID"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *BookingHandler) RefundBooking(c *gin.Context) {
	appt, err := h.Service.Refund(c.Request.Context(), c.Param("bookingID"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}
