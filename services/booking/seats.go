package booking

import (
	"context"
	"errors"
	"fmt"

	"pocketclass/database"
	"pocketclass/models"
	"pocketclass/utils"

	"go.uber.org/zap"
)

// ValidateSeats checks a group seat request against the class size.
func ValidateSeats(total, requested int) error {
	if requested <= 0 || requested > total {
		return newBookingError(CodeInvalidSeats, "requested %d seats, class holds %d", requested, total)
	}
	return nil
}

// ReserveSeats applies a reservation to a ledger entry. A nil entry is a slot
// nobody has booked yet. Requests larger than what remains are rejected whole.
func ReserveSeats(entry *models.SlotBooking, total, requested int) (models.SlotBooking, error) {
	if err := ValidateSeats(total, requested); err != nil {
		return models.SlotBooking{}, err
	}
	next := models.SlotBooking{RemainingSeats: total}
	if entry != nil {
		next = *entry
	}
	if requested > next.RemainingSeats {
		return models.SlotBooking{}, ErrSeatsExhausted
	}
	next.BookSeats += requested
	next.RemainingSeats -= requested
	return next, nil
}

// ReleaseSeats hands seats back to a ledger entry, never going above total.
func ReleaseSeats(entry models.SlotBooking, total, released int) models.SlotBooking {
	entry.BookSeats = max(0, entry.BookSeats-released)
	entry.RemainingSeats = min(total, total-entry.BookSeats)
	return entry
}

// SeatStore applies ledger changes atomically in the document store.
type SeatStore interface {
	ReserveSeats(ctx context.Context, classID string, slot models.Interval, total, seats int) (models.SlotBooking, error)
	ReleaseSeats(ctx context.Context, classID string, slot models.Interval, total, seats int) error
}

// SeatLedger is the group seat accounting used by the booking flow.
type SeatLedger struct {
	Store SeatStore
}

// Reserve takes seats for slot or fails with ErrSeatsExhausted.
func (l *SeatLedger) Reserve(ctx context.Context, class *models.Class, slot models.Interval, seats int) (models.SlotBooking, error) {
	if err := ValidateSeats(class.ClassStudents, seats); err != nil {
		return models.SlotBooking{}, err
	}
	entry, err := l.Store.ReserveSeats(ctx, class.ID, slot, class.ClassStudents, seats)
	if err != nil {
		if errors.Is(err, database.ErrSeatsExhausted) || errors.Is(err, ErrSeatsExhausted) {
			utils.GetLogger().Info("Seat reservation rejected",
				zap.String("classId", class.ID),
				zap.String("slot", models.SlotKey(slot.Start)),
				zap.Int("seats", seats))
			return models.SlotBooking{}, ErrSeatsExhausted
		}
		return models.SlotBooking{}, fmt.Errorf("reserve seats: %w", err)
	}
	return entry, nil
}

// Release gives seats back to slot.
func (l *SeatLedger) Release(ctx context.Context, class *models.Class, slot models.Interval, seats int) error {
	if seats <= 0 {
		return nil
	}
	if err := l.Store.ReleaseSeats(ctx, class.ID, slot, class.ClassStudents, seats); err != nil {
		return fmt.Errorf("release seats: %w", err)
	}
	return nil
}

// Move reserves seats on to before releasing them on from, so a failed move
// leaves the original reservation intact.
func (l *SeatLedger) Move(ctx context.Context, class *models.Class, from, to models.Interval, seats int) error {
	if _, err := l.Reserve(ctx, class, to, seats); err != nil {
		return err
	}
	if err := l.Release(ctx, class, from, seats); err != nil {
		utils.GetLogger().Error("Failed to release seats after move",
			zap.String("classId", class.ID),
			zap.String("slot", models.SlotKey(from.Start)),
			zap.Error(err))
	}
	return nil
}
