package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pocketclass/models"
)

func TestReserveSeats(t *testing.T) {
	tests := []struct {
		name      string
		entry     *models.SlotBooking
		total     int
		requested int
		wantErr   error
		want      int
	}{
		{"first booking", nil, 5, 2, nil, 3},
		{"exact fill", &models.SlotBooking{BookSeats: 3, RemainingSeats: 2}, 5, 2, nil, 0},
		{"over request", &models.SlotBooking{BookSeats: 4, RemainingSeats: 1}, 5, 2, ErrSeatsExhausted, 0},
		{"full slot", &models.SlotBooking{BookSeats: 5, RemainingSeats: 0}, 5, 1, ErrSeatsExhausted, 0},
		{"zero seats", nil, 5, 0, ErrInvalidSeats, 0},
		{"more than class", nil, 5, 6, ErrInvalidSeats, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReserveSeats(tc.entry, tc.total, tc.requested)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.RemainingSeats != tc.want {
				t.Fatalf("remaining = %d, want %d", got.RemainingSeats, tc.want)
			}
			if got.BookSeats+got.RemainingSeats != tc.total {
				t.Fatalf("ledger out of balance: %+v", got)
			}
		})
	}
}

func TestReserveSeatsDoesNotMutateInput(t *testing.T) {
	entry := &models.SlotBooking{BookSeats: 1, RemainingSeats: 4}
	if _, err := ReserveSeats(entry, 5, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.RemainingSeats != 4 {
		t.Fatal("input entry must not change")
	}
}

func TestReleaseSeatsCapped(t *testing.T) {
	got := ReleaseSeats(models.SlotBooking{BookSeats: 1, RemainingSeats: 4}, 5, 3)
	if got.BookSeats != 0 || got.RemainingSeats != 5 {
		t.Fatalf("release must cap at total, got %+v", got)
	}
}

func TestSeatLedgerConcurrentReservations(t *testing.T) {
	store := newFakeClasses(models.Class{ID: "yoga", GroupClass: true, ClassStudents: 5})
	ledger := &SeatLedger{Store: store}
	class, _ := store.GetByID(context.Background(), "yoga")
	start := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	slot := models.Interval{Start: start, End: start.Add(time.Hour)}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, taken int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.Reserve(context.Background(), class, slot, 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrSeatsExhausted):
				taken++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 5 || taken != 15 {
		t.Fatalf("expected 5 reservations and 15 rejections, got %d and %d", ok, taken)
	}
	entry, _ := store.entry("yoga", start)
	if entry.RemainingSeats != 0 || entry.BookSeats != 5 {
		t.Fatalf("unexpected ledger %+v", entry)
	}
}

func TestSeatLedgerMoveKeepsOriginalOnFailure(t *testing.T) {
	store := newFakeClasses(models.Class{ID: "yoga", GroupClass: true, ClassStudents: 2})
	ledger := &SeatLedger{Store: store}
	class, _ := store.GetByID(context.Background(), "yoga")
	a := models.Interval{Start: time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)}
	a.End = a.Start.Add(time.Hour)
	b := models.Interval{Start: a.End, End: a.End.Add(time.Hour)}
	ctx := context.Background()

	if _, err := ledger.Reserve(ctx, class, a, 1); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := ledger.Reserve(ctx, class, b, 2); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := ledger.Move(ctx, class, a, b, 1); !errors.Is(err, ErrSeatsExhausted) {
		t.Fatalf("expected ErrSeatsExhausted, got %v", err)
	}
	entry, _ := store.entry("yoga", a.Start)
	if entry.BookSeats != 1 {
		t.Fatalf("original reservation must survive a failed move, got %+v", entry)
	}
}
