package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pocketclass/database"
	"pocketclass/models"
)

type fakeClasses struct {
	mu      sync.Mutex
	classes map[string]*models.Class
}

func newFakeClasses(classes ...models.Class) *fakeClasses {
	f := &fakeClasses{classes: map[string]*models.Class{}}
	for i := range classes {
		c := classes[i]
		if c.Bookings == nil {
			c.Bookings = map[string]models.SlotBooking{}
		}
		f.classes[c.ID] = &c
	}
	return f
}

func (f *fakeClasses) GetByID(_ context.Context, id string) (*models.Class, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.classes[id]
	if !ok {
		return nil, fmt.Errorf("class %s: %w", id, database.ErrNotFound)
	}
	cp := *c
	cp.Bookings = make(map[string]models.SlotBooking, len(c.Bookings))
	for k, v := range c.Bookings {
		cp.Bookings[k] = v
	}
	return &cp, nil
}

func (f *fakeClasses) ReserveSeats(_ context.Context, classID string, slot models.Interval, total, seats int) (models.SlotBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.classes[classID]
	if !ok {
		return models.SlotBooking{}, database.ErrNotFound
	}
	key := models.SlotKey(slot.Start)
	var current *models.SlotBooking
	if e, ok := c.Bookings[key]; ok {
		current = &e
	}
	next, err := ReserveSeats(current, total, seats)
	if err != nil {
		return models.SlotBooking{}, database.ErrSeatsExhausted
	}
	next.Start, next.End = slot.Start, slot.End
	c.Bookings[key] = next
	return next, nil
}

func (f *fakeClasses) ReleaseSeats(_ context.Context, classID string, slot models.Interval, total, seats int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.classes[classID]
	key := models.SlotKey(slot.Start)
	e, ok := c.Bookings[key]
	if !ok {
		return database.ErrNotFound
	}
	c.Bookings[key] = ReleaseSeats(e, total, seats)
	return nil
}

func (f *fakeClasses) EnsureIndexes(context.Context) error { return nil }

func (f *fakeClasses) entry(classID string, start time.Time) (models.SlotBooking, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.classes[classID].Bookings[models.SlotKey(start)]
	return e, ok
}

type fakePackages struct {
	mu       sync.Mutex
	packages map[string]*models.Package
}

func newFakePackages(pkgs ...models.Package) *fakePackages {
	f := &fakePackages{packages: map[string]*models.Package{}}
	for i := range pkgs {
		p := pkgs[i]
		f.packages[p.ID] = &p
	}
	return f
}

func (f *fakePackages) GetByID(_ context.Context, id string) (*models.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.packages[id]
	if !ok {
		return nil, fmt.Errorf("package %s: %w", id, database.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakePackages) ConsumeCredit(_ context.Context, id, studentID, classID string, now time.Time) (*models.Package, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.packages[id]
	if !ok || !p.Usable(studentID, classID, now) {
		return nil, database.ErrNoCredits
	}
	p.RemainingCredits--
	cp := *p
	return &cp, nil
}

func (f *fakePackages) RestoreCredit(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.packages[id]
	if !ok {
		return database.ErrNotFound
	}
	p.RemainingCredits = min(p.TotalCredits, p.RemainingCredits+1)
	return nil
}

func (f *fakePackages) EnsureIndexes(context.Context) error { return nil }

func (f *fakePackages) credits(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.packages[id].RemainingCredits
}

type fakeAvailability struct {
	records map[string][]models.AvailabilityRecord
}

func (f *fakeAvailability) GetByClassID(_ context.Context, classID string) ([]models.AvailabilityRecord, error) {
	return f.records[classID], nil
}

func (f *fakeAvailability) EnsureIndexes(context.Context) error { return nil }

type fakeAppointments struct {
	mu        sync.Mutex
	byID      map[string]models.Appointment
	order     []string
	cancelErr error
}

func newFakeAppointments(appts ...models.Appointment) *fakeAppointments {
	f := &fakeAppointments{byID: map[string]models.Appointment{}}
	for _, a := range appts {
		f.byID[a.ID] = a
		f.order = append(f.order, a.ID)
	}
	return f
}

func (f *fakeAppointments) Create(_ context.Context, appt *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[appt.ID]; ok {
		return database.ErrDuplicate
	}
	if !appt.GroupClass {
		for _, a := range f.byID {
			if a.ClassID == appt.ClassID && a.Status == models.StatusConfirmed && !a.GroupClass && a.Start.Equal(appt.Start) {
				return database.ErrDuplicate
			}
		}
	}
	f.byID[appt.ID] = *appt
	f.order = append(f.order, appt.ID)
	return nil
}

func (f *fakeAppointments) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAppointments) ListActiveBetween(_ context.Context, classID string, from, to time.Time) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, id := range f.order {
		a := f.byID[id]
		if a.ClassID == classID && a.Active() && a.Start.Before(to) && a.End.After(from) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) update(id string, fn func(*models.Appointment)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return database.ErrNotFound
	}
	if a.Status != models.StatusConfirmed {
		return database.ErrStaleWrite
	}
	fn(&a)
	f.byID[id] = a
	return nil
}

func (f *fakeAppointments) Cancel(_ context.Context, id, refundID string, at time.Time) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	return f.update(id, func(a *models.Appointment) {
		a.Status = models.StatusCancelled
		a.RefundID = refundID
		a.CancelledAt = &at
	})
}

func (f *fakeAppointments) Reschedule(_ context.Context, id string, start, end time.Time, at time.Time) error {
	return f.update(id, func(a *models.Appointment) {
		a.Start, a.End, a.UpdatedAt = start, end, at
	})
}

func (f *fakeAppointments) SetCalendarEvent(_ context.Context, id, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.byID[id]
	a.CalendarEventID = eventID
	f.byID[id] = a
	return nil
}

func (f *fakeAppointments) CompleteEndedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, a := range f.byID {
		if a.Status == models.StatusConfirmed && !a.End.After(cutoff) {
			a.Status = models.StatusCompleted
			f.byID[id] = a
			n++
		}
	}
	return n, nil
}

func (f *fakeAppointments) EnsureIndexes(context.Context) error { return nil }

func (f *fakeAppointments) get(id string) models.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

type fakeCheckouts struct {
	mu    sync.Mutex
	items map[string]models.PendingCheckout
	ttl   time.Duration
	// keep makes Delete a no-op, like a Redis outage after the booking was stored.
	keep bool
}

func (f *fakeCheckouts) Save(_ context.Context, pc *models.PendingCheckout, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.items == nil {
		f.items = map[string]models.PendingCheckout{}
	}
	f.items[pc.ID] = *pc
	f.ttl = ttl
	return nil
}

func (f *fakeCheckouts) Get(_ context.Context, id string) (*models.PendingCheckout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pc, ok := f.items[id]
	if !ok {
		return nil, ErrCheckoutNotFound
	}
	return &pc, nil
}

func (f *fakeCheckouts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.keep {
		delete(f.items, id)
	}
	return nil
}

type fakeGateway struct {
	mu      sync.Mutex
	intents map[string]*models.PaymentIntent
	refunds map[string]*models.Refund // by idempotency key
	next    int
}

func (g *fakeGateway) CreateIntent(_ context.Context, req models.PaymentRequest) (*models.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.intents == nil {
		g.intents = map[string]*models.PaymentIntent{}
	}
	g.next++
	pi := &models.PaymentIntent{
		ID:           fmt.Sprintf("pi_%d", g.next),
		ClientSecret: fmt.Sprintf("pi_%d_secret", g.next),
		Status:       "requires_payment_method",
		Amount:       req.Amount,
		Currency:     req.Currency,
	}
	g.intents[pi.ID] = pi
	return pi, nil
}

func (g *fakeGateway) succeed(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents[id].Status = models.PaymentSucceeded
}

func (g *fakeGateway) GetIntent(_ context.Context, id string) (*models.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	pi, ok := g.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such intent %s", id)
	}
	cp := *pi
	return &cp, nil
}

func (g *fakeGateway) CancelIntent(context.Context, string) error { return nil }

func (g *fakeGateway) Refund(_ context.Context, intentID string, amount int64, key string) (*models.Refund, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refunds == nil {
		g.refunds = map[string]*models.Refund{}
	}
	if r, ok := g.refunds[key]; ok {
		return r, nil
	}
	r := &models.Refund{ID: "re_" + intentID, Status: "succeeded", Amount: amount}
	g.refunds[key] = r
	return r, nil
}

func (g *fakeGateway) refundCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.refunds)
}

type fakeCalendar struct {
	created, updated, deleted []string
}

func (c *fakeCalendar) CreateEvent(_ context.Context, appt models.Appointment, _ string) (string, error) {
	c.created = append(c.created, appt.ID)
	return "evt-" + appt.ID, nil
}

func (c *fakeCalendar) UpdateEvent(_ context.Context, eventID string, _ models.Appointment) error {
	c.updated = append(c.updated, eventID)
	return nil
}

func (c *fakeCalendar) DeleteEvent(_ context.Context, eventID string) error {
	c.deleted = append(c.deleted, eventID)
	return nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	kinds []string
}

func (n *fakeNotifier) SendUserPushNotification(context.Context, string, string, string, map[string]string) error {
	return nil
}

func (n *fakeNotifier) NotifyBooking(_ context.Context, kind string, _ models.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
	return nil
}

type fakeReminders struct {
	scheduled map[string]time.Time
	cancelled []string
}

func (r *fakeReminders) ScheduleReminder(_ context.Context, appt models.Appointment) error {
	if r.scheduled == nil {
		r.scheduled = map[string]time.Time{}
	}
	r.scheduled[appt.ID] = appt.Start
	return nil
}

func (r *fakeReminders) CancelReminder(_ context.Context, id string) error {
	delete(r.scheduled, id)
	r.cancelled = append(r.cancelled, id)
	return nil
}
