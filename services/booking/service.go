package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pocketclass/database"
	"pocketclass/database/repository"
	"pocketclass/models"
	"pocketclass/services/availability"
	"pocketclass/services/calendar"
	"pocketclass/services/notification"
	"pocketclass/services/payment"
	"pocketclass/services/tasks"
	"pocketclass/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCheckoutTTL is how long a pending checkout waits for payment.
const DefaultCheckoutTTL = 15 * time.Minute

// BookingService is the booking flow exposed to the HTTP layer.
type BookingService interface {
	DaySlots(ctx context.Context, classID, date string, seats int) (*models.DaySlots, error)
	Checkout(ctx context.Context, req models.CheckoutRequest) (*models.PendingCheckout, error)
	Confirm(ctx context.Context, checkoutID, studentID string) (*models.Appointment, error)
	Eligibility(ctx context.Context, appointmentID, studentID string) ([]Decision, error)
	Cancel(ctx context.Context, appointmentID, studentID string) (*models.Appointment, error)
	Reschedule(ctx context.Context, appointmentID, studentID string, newStart time.Time) (*models.Appointment, error)
	RefundQuote(ctx context.Context, appointmentID, studentID string) (*RefundQuote, error)
	Refund(ctx context.Context, appointmentID, studentID string) (*models.Appointment, error)
	CompletePast(ctx context.Context) (int64, error)
}

// RefundQuote is what a refund would return right now.
type RefundQuote struct {
	Decision Decision `json:"decision"`
	Amount   int64    `json:"amount"`
	Currency string   `json:"currency"`
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Classes      repository.ClassRepository
	Availability repository.AvailabilityRepository
	Appointments repository.AppointmentRepository
	Packages     repository.PackageRepository
	Seats        *SeatLedger
	Checkouts    CheckoutStore
	Payments     payment.Gateway
	Calendar     calendar.Calendar
	Notifier     notification.NotificationService
	Reminders    tasks.ReminderScheduler
	Policy       Policy
	CheckoutTTL  time.Duration
	Now          func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultBookingService) checkoutTTL() time.Duration {
	if s.CheckoutTTL <= 0 {
		return DefaultCheckoutTTL
	}
	return s.CheckoutTTL
}

func (s *DefaultBookingService) classZone(class *models.Class) *time.Location {
	if class.Timezone != "" {
		if loc, err := time.LoadLocation(class.Timezone); err == nil {
			return loc
		}
	}
	if s.Policy.DefaultZone != nil {
		return s.Policy.DefaultZone
	}
	return availability.LoadZone("")
}

func (s *DefaultBookingService) loadClass(ctx context.Context, classID string) (*models.Class, error) {
	class, err := s.Classes.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return class, nil
}

// loadOwned fetches an appointment and checks it belongs to studentID.
func (s *DefaultBookingService) loadOwned(ctx context.Context, appointmentID, studentID string) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	if appt.StudentID != studentID {
		return nil, ErrForbidden
	}
	return appt, nil
}

// normalizeSeats returns the seat count a request stands for: always 0 for
// private classes, at least 1 for group classes.
func normalizeSeats(class *models.Class, seats int) (int, error) {
	if !class.GroupClass {
		return 0, nil
	}
	if seats == 0 {
		seats = 1
	}
	if err := ValidateSeats(class.ClassStudents, seats); err != nil {
		return 0, err
	}
	return seats, nil
}

// slotsFor builds the gated slots of day for class. excludeID drops one
// appointment from conflict evaluation, for reschedules.
func (s *DefaultBookingService) slotsFor(ctx context.Context, class *models.Class, day time.Time, seats int, excludeID string) ([]models.Slot, error) {
	loc := s.classZone(class)
	dayStart := availability.DateOnly(day, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	records, err := s.Availability.GetByClassID(ctx, class.ID)
	if err != nil {
		return nil, fmt.Errorf("load availability: %w", err)
	}
	intervals, parseErrs := availability.Flatten(records, loc)
	for _, perr := range parseErrs {
		utils.GetLogger().Warn("Skipping malformed availability", zap.String("classId", class.ID), zap.Error(perr))
	}

	appts, err := s.Appointments.ListActiveBetween(ctx, class.ID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	if excludeID != "" {
		appts = withoutAppointment(appts, excludeID)
	}

	opts := availability.SlotOptions{CheckConflicts: true, Seats: seats}
	if class.GroupClass {
		opts.Ledger = class.Bookings
		opts.TotalSeats = class.ClassStudents
	}
	slots := availability.GenerateSlots(dayStart, loc, intervals, appts, opts)

	// Hours that already started cannot be booked.
	now := s.now()
	for i := range slots {
		if !slots[i].Start.After(now) {
			slots[i].IsAvailable = false
		}
	}
	return slots, nil
}

// DaySlots returns the 24 hourly slots of date (YYYY-MM-DD in the class zone).
func (s *DefaultBookingService) DaySlots(ctx context.Context, classID, date string, seats int) (*models.DaySlots, error) {
	class, err := s.loadClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	loc := s.classZone(class)
	day, err := availability.ParseDay(date, loc)
	if err != nil {
		return nil, newBookingError(CodeInvalidRequest, "date must be YYYY-MM-DD, got %q", date)
	}
	seats, err = normalizeSeats(class, seats)
	if err != nil {
		return nil, err
	}

	slots, err := s.slotsFor(ctx, class, day, seats, "")
	if err != nil {
		return nil, err
	}
	return &models.DaySlots{ClassID: class.ID, Date: date, Timezone: loc.String(), Slots: slots}, nil
}

// pickSlot validates that start is a bookable slot start for class.
func (s *DefaultBookingService) pickSlot(ctx context.Context, class *models.Class, start time.Time, seats int, excludeID string) (models.Slot, error) {
	loc := s.classZone(class)
	start = start.In(loc)
	slots, err := s.slotsFor(ctx, class, start, seats, excludeID)
	if err != nil {
		return models.Slot{}, err
	}
	slot, ok := availability.FindSlot(slots, start)
	if !ok {
		return models.Slot{}, newBookingError(CodeInvalidRequest, "%s is not the start of an hourly slot", start.Format(time.RFC3339))
	}
	if !slot.IsAvailable {
		if slot.RemainingSeats != nil && *slot.RemainingSeats < seats {
			return models.Slot{}, ErrSeatsExhausted
		}
		return models.Slot{}, ErrSlotUnavailable
	}
	return slot, nil
}

// Checkout validates the requested slot and opens a pending checkout: a
// payment intent for card bookings, none for package bookings.
func (s *DefaultBookingService) Checkout(ctx context.Context, req models.CheckoutRequest) (*models.PendingCheckout, error) {
	class, err := s.loadClass(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}
	seats, err := normalizeSeats(class, req.Seats)
	if err != nil {
		return nil, err
	}
	slot, err := s.pickSlot(ctx, class, req.Start, seats, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	appt := models.Appointment{
		ID:            uuid.New().String(),
		StudentID:     req.StudentID,
		InstructorID:  class.InstructorID,
		ClassID:       class.ID,
		Start:         slot.Start,
		End:           slot.End,
		Price:         class.Price * int64(max(1, seats)),
		Currency:      class.Currency,
		Status:        models.StatusPending,
		ClassStudents: seats,
		GroupClass:    class.GroupClass,
		Timezone:      s.classZone(class).String(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	pc := &models.PendingCheckout{
		ID:        uuid.New().String(),
		ExpiresAt: now.Add(s.checkoutTTL()),
	}

	if req.PackageID != "" {
		if seats > 1 {
			return nil, newBookingError(CodeInvalidSeats, "a package pays for one seat, %d requested", seats)
		}
		if err := s.checkPackage(ctx, req.PackageID, req.StudentID, class.ID); err != nil {
			return nil, err
		}
		// Paid is set at confirmation, once a credit is actually spent.
		appt.PaymentMethod = models.PaymentPackage
		appt.PackageID = req.PackageID
	} else {
		appt.PaymentMethod = models.PaymentCard
		intent, err := s.Payments.CreateIntent(ctx, models.PaymentRequest{
			StudentID:      req.StudentID,
			Amount:         appt.Price,
			Currency:       appt.Currency,
			IdempotencyKey: "checkout-" + pc.ID,
			Description:    fmt.Sprintf("%s on %s", class.Name, slot.Label),
			Metadata: map[string]string{
				"appointmentId": appt.ID,
				"classId":       class.ID,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}
		appt.PaymentIntentID = intent.ID
		pc.ClientSecret = intent.ClientSecret
	}
	pc.Appointment = appt

	if err := s.Checkouts.Save(ctx, pc, s.checkoutTTL()); err != nil {
		return nil, fmt.Errorf("save checkout: %w", err)
	}
	utils.GetLogger().Info("Checkout opened",
		zap.String("checkoutId", pc.ID),
		zap.String("classId", class.ID),
		zap.String("start", models.SlotKey(appt.Start)),
		zap.Int("seats", seats))
	return pc, nil
}

// checkPackage verifies that packageID belongs to the student, covers the
// class and still has a credit. The credit itself is spent at confirmation.
func (s *DefaultBookingService) checkPackage(ctx context.Context, packageID, studentID, classID string) error {
	pkg, err := s.Packages.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrPackageNotFound
		}
		return err
	}
	if pkg.StudentID != studentID {
		return ErrPackageNotFound
	}
	if pkg.ClassID != classID {
		return newBookingError(CodePackageUnusable, "package %s is for another class", packageID)
	}
	if pkg.RemainingCredits <= 0 || pkg.Expired(s.now()) {
		return ErrPackageExhausted
	}
	return nil
}

// spendCredit takes one credit from the booking's package.
func (s *DefaultBookingService) spendCredit(ctx context.Context, appt models.Appointment) error {
	_, err := s.Packages.ConsumeCredit(ctx, appt.PackageID, appt.StudentID, appt.ClassID, s.now())
	if errors.Is(err, database.ErrNoCredits) {
		return ErrPackageExhausted
	}
	return err
}

func (s *DefaultBookingService) restoreCredit(ctx context.Context, appt models.Appointment) {
	if err := s.Packages.RestoreCredit(ctx, appt.PackageID); err != nil {
		utils.GetLogger().Error("Failed to restore package credit",
			zap.String("appointmentId", appt.ID), zap.String("packageId", appt.PackageID), zap.Error(err))
	}
}

func (s *DefaultBookingService) releaseSeats(ctx context.Context, class *models.Class, appt models.Appointment) {
	if err := s.Seats.Release(ctx, class, appt.Interval(), appt.ClassStudents); err != nil {
		utils.GetLogger().Error("Failed to release seats", zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}

func (s *DefaultBookingService) dropCheckout(ctx context.Context, pcID string) {
	if err := s.Checkouts.Delete(ctx, pcID); err != nil {
		utils.GetLogger().Warn("Failed to drop checkout", zap.String("checkoutId", pcID), zap.Error(err))
	}
}

// storedBooking returns the appointment a checkout already produced, or nil.
func (s *DefaultBookingService) storedBooking(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	return appt, err
}

// refundIntent returns a card payment. The key makes retries safe.
func (s *DefaultBookingService) refundIntent(ctx context.Context, appt models.Appointment, key string) (string, error) {
	if appt.PaymentMethod != models.PaymentCard || appt.PaymentIntentID == "" || !appt.Paid {
		return "", nil
	}
	r, err := s.Payments.Refund(ctx, appt.PaymentIntentID, appt.Price, key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	return r.ID, nil
}

// abortConfirm returns the student's money when a paid checkout can no longer
// be honoured. A booking this checkout already stored wins and is returned
// without a refund.
func (s *DefaultBookingService) abortConfirm(ctx context.Context, pcID string, appt models.Appointment, cause error) (*models.Appointment, error) {
	existing, err := s.storedBooking(ctx, appt.ID)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	if existing != nil {
		s.dropCheckout(ctx, pcID)
		return existing, nil
	}
	if _, err := s.refundIntent(ctx, appt, "abort-"+pcID); err != nil {
		utils.GetLogger().Error("Refund after failed confirmation failed",
			zap.String("checkoutId", pcID), zap.String("paymentIntentId", appt.PaymentIntentID), zap.Error(err))
	}
	s.dropCheckout(ctx, pcID)
	return nil, cause
}

// Confirm turns a paid pending checkout into a confirmed appointment. A
// checkout that was already confirmed returns its booking unchanged.
func (s *DefaultBookingService) Confirm(ctx context.Context, checkoutID, studentID string) (*models.Appointment, error) {
	pc, err := s.Checkouts.Get(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	if pc.Appointment.StudentID != studentID {
		return nil, ErrForbidden
	}
	appt := pc.Appointment

	if existing, err := s.storedBooking(ctx, appt.ID); err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	} else if existing != nil {
		s.dropCheckout(ctx, pc.ID)
		return existing, nil
	}

	if appt.PaymentMethod == models.PaymentCard {
		intent, err := s.Payments.GetIntent(ctx, appt.PaymentIntentID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}
		if intent.Status != models.PaymentSucceeded {
			return nil, newBookingError(CodePaymentIncomplete, "payment is %s", intent.Status)
		}
		appt.Paid = true
	}

	class, err := s.loadClass(ctx, appt.ClassID)
	if err != nil {
		return nil, err
	}

	if class.GroupClass {
		if _, err := s.Seats.Reserve(ctx, class, appt.Interval(), appt.ClassStudents); err != nil {
			if errors.Is(err, ErrSeatsExhausted) {
				return s.abortConfirm(ctx, pc.ID, appt, err)
			}
			return nil, err
		}
	}
	// undo gives back what this confirmation took so far.
	creditSpent := false
	undo := func() {
		if class.GroupClass {
			s.releaseSeats(ctx, class, appt)
		}
		if creditSpent {
			s.restoreCredit(ctx, appt)
		}
	}

	// Same rule as slotsFor: any overlap for private classes, same-size
	// bookings for group classes.
	others, err := s.Appointments.ListActiveBetween(ctx, appt.ClassID, appt.Start, appt.End)
	if err != nil {
		undo()
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	if availability.ConflictsWith(withoutAppointment(others, appt.ID), appt.Start, appt.End, appt.ClassStudents) {
		undo()
		return s.abortConfirm(ctx, pc.ID, appt, ErrSlotUnavailable)
	}

	if appt.PaymentMethod == models.PaymentPackage {
		if err := s.spendCredit(ctx, appt); err != nil {
			undo()
			if errors.Is(err, ErrPackageExhausted) {
				return s.abortConfirm(ctx, pc.ID, appt, err)
			}
			return nil, err
		}
		creditSpent = true
		appt.Paid = true
	}

	now := s.now()
	appt.Status = models.StatusConfirmed
	appt.UpdatedAt = now
	if err := s.Appointments.Create(ctx, &appt); err != nil {
		undo()
		if !errors.Is(err, database.ErrDuplicate) {
			return nil, fmt.Errorf("save appointment: %w", err)
		}
		// Either a concurrent confirmation of this checkout or another
		// booking of the hour won the insert.
		return s.abortConfirm(ctx, pc.ID, appt, ErrSlotUnavailable)
	}
	s.dropCheckout(ctx, pc.ID)

	utils.GetLogger().Info("Booking confirmed",
		zap.String("appointmentId", appt.ID),
		zap.String("classId", appt.ClassID),
		zap.String("studentId", appt.StudentID))

	if eventID, err := s.Calendar.CreateEvent(ctx, appt, class.Name); err != nil {
		utils.GetLogger().Warn("Calendar sync failed", zap.String("appointmentId", appt.ID), zap.Error(err))
	} else if eventID != "" {
		appt.CalendarEventID = eventID
		if err := s.Appointments.SetCalendarEvent(ctx, appt.ID, eventID); err != nil {
			utils.GetLogger().Warn("Failed to store calendar event", zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}
	s.afterChange(ctx, notification.KindConfirmed, appt)
	return &appt, nil
}

func withoutAppointment(appts []models.Appointment, id string) []models.Appointment {
	kept := make([]models.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	return kept
}

// afterChange sends the push and keeps the reminder in step. Failures are
// logged; the booking itself is already settled.
func (s *DefaultBookingService) afterChange(ctx context.Context, kind string, appt models.Appointment) {
	if err := s.Notifier.NotifyBooking(ctx, kind, appt); err != nil {
		utils.GetLogger().Warn("Push failed", zap.String("appointmentId", appt.ID), zap.String("kind", kind), zap.Error(err))
	}

	var err error
	if kind == notification.KindCancelled {
		err = s.Reminders.CancelReminder(ctx, appt.ID)
	} else {
		err = s.Reminders.ScheduleReminder(ctx, appt)
	}
	if err != nil {
		utils.GetLogger().Warn("Reminder update failed", zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}

// Eligibility reports what the student may currently do with a booking.
func (s *DefaultBookingService) Eligibility(ctx context.Context, appointmentID, studentID string) ([]Decision, error) {
	appt, err := s.loadOwned(ctx, appointmentID, studentID)
	if err != nil {
		return nil, err
	}
	return s.Policy.EvaluateAll(*appt, s.now()), nil
}

func rejection(d Decision) error {
	return newBookingError(CodeNotEligible, "%s", d.Reason)
}

// Cancel cancels a booking inside the window, refunding card payments.
func (s *DefaultBookingService) Cancel(ctx context.Context, appointmentID, studentID string) (*models.Appointment, error) {
	return s.cancel(ctx, appointmentID, studentID, ActionCancel)
}

// Refund cancels a card-paid booking and returns the payment. Eligibility is
// re-checked here, not trusted from an earlier quote.
func (s *DefaultBookingService) Refund(ctx context.Context, appointmentID, studentID string) (*models.Appointment, error) {
	return s.cancel(ctx, appointmentID, studentID, ActionRefund)
}

func (s *DefaultBookingService) cancel(ctx context.Context, appointmentID, studentID string, action Action) (*models.Appointment, error) {
	appt, err := s.loadOwned(ctx, appointmentID, studentID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if d := s.Policy.Evaluate(*appt, action, now); !d.Allowed {
		return nil, rejection(d)
	}

	refundID, err := s.refundIntent(ctx, *appt, "refund-"+appt.ID)
	if err != nil {
		return nil, err
	}
	if err := s.Appointments.Cancel(ctx, appt.ID, refundID, now); err != nil {
		if refundID != "" {
			// The money is back but the booking still reads confirmed. A retry
			// reuses the refund key; until then support reconciles from this line.
			utils.GetLogger().Error("Refund issued but cancellation not stored",
				zap.String("appointmentId", appt.ID),
				zap.String("paymentIntentId", appt.PaymentIntentID),
				zap.String("refundId", refundID),
				zap.Error(err))
		}
		if errors.Is(err, database.ErrStaleWrite) {
			return nil, newBookingError(CodeNotEligible, "booking changed, try again")
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	appt.Status = models.StatusCancelled
	appt.RefundID = refundID
	appt.CancelledAt = &now
	appt.UpdatedAt = now

	if appt.GroupClass {
		if class, err := s.loadClass(ctx, appt.ClassID); err != nil {
			utils.GetLogger().Error("Failed to release seats", zap.String("appointmentId", appt.ID), zap.Error(err))
		} else {
			s.releaseSeats(ctx, class, *appt)
		}
	}
	if appt.CalendarEventID != "" {
		if err := s.Calendar.DeleteEvent(ctx, appt.CalendarEventID); err != nil {
			utils.GetLogger().Warn("Calendar delete failed", zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}

	utils.GetLogger().Info("Booking cancelled",
		zap.String("appointmentId", appt.ID),
		zap.String("action", string(action)),
		zap.String("refundId", refundID))
	s.afterChange(ctx, notification.KindCancelled, *appt)
	return appt, nil
}

// Reschedule moves a booking to another free slot of the same class.
func (s *DefaultBookingService) Reschedule(ctx context.Context, appointmentID, studentID string, newStart time.Time) (*models.Appointment, error) {
	appt, err := s.loadOwned(ctx, appointmentID, studentID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if d := s.Policy.Evaluate(*appt, ActionReschedule, now); !d.Allowed {
		return nil, rejection(d)
	}
	if newStart.Equal(appt.Start) {
		return nil, newBookingError(CodeInvalidRequest, "booking is already at that time")
	}

	class, err := s.loadClass(ctx, appt.ClassID)
	if err != nil {
		return nil, err
	}
	slot, err := s.pickSlot(ctx, class, newStart, appt.ClassStudents, appt.ID)
	if err != nil {
		return nil, err
	}
	from := appt.Interval()
	to := models.Interval{Start: slot.Start, End: slot.End}

	if class.GroupClass {
		if err := s.Seats.Move(ctx, class, from, to, appt.ClassStudents); err != nil {
			return nil, err
		}
	}
	if err := s.Appointments.Reschedule(ctx, appt.ID, to.Start, to.End, now); err != nil {
		if class.GroupClass {
			// Undo the move so the ledger matches the stored booking.
			if merr := s.Seats.Move(ctx, class, to, from, appt.ClassStudents); merr != nil {
				utils.GetLogger().Error("Failed to restore seats", zap.String("appointmentId", appt.ID), zap.Error(merr))
			}
		}
		switch {
		case errors.Is(err, database.ErrDuplicate):
			return nil, ErrSlotUnavailable
		case errors.Is(err, database.ErrStaleWrite):
			return nil, newBookingError(CodeNotEligible, "booking changed, try again")
		}
		return nil, fmt.Errorf("reschedule appointment: %w", err)
	}
	appt.Start, appt.End, appt.UpdatedAt = to.Start, to.End, now

	if appt.CalendarEventID != "" {
		if err := s.Calendar.UpdateEvent(ctx, appt.CalendarEventID, *appt); err != nil {
			utils.GetLogger().Warn("Calendar update failed", zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}
	utils.GetLogger().Info("Booking rescheduled",
		zap.String("appointmentId", appt.ID),
		zap.String("from", models.SlotKey(from.Start)),
		zap.String("to", models.SlotKey(to.Start)))
	s.afterChange(ctx, notification.KindRescheduled, *appt)
	return appt, nil
}

// RefundQuote runs the refund rules without changing anything.
func (s *DefaultBookingService) RefundQuote(ctx context.Context, appointmentID, studentID string) (*RefundQuote, error) {
	appt, err := s.loadOwned(ctx, appointmentID, studentID)
	if err != nil {
		return nil, err
	}
	d := s.Policy.Evaluate(*appt, ActionRefund, s.now())
	q := &RefundQuote{Decision: d, Currency: appt.Currency}
	if d.Allowed {
		q.Amount = appt.Price
	}
	return q, nil
}

// CompletePast marks confirmed bookings that already ended as completed.
func (s *DefaultBookingService) CompletePast(ctx context.Context) (int64, error) {
	n, err := s.Appointments.CompleteEndedBefore(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		utils.GetLogger().Info("Completed past bookings", zap.Int64("count", n))
	}
	return n, nil
}
