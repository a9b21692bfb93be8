// Package booking is the canonical booking collection shared by the client and
// barber apps. Either role may cancel or complete any booking; the actor is
// recorded, not checked.
package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/kv"
	"github.com/BruksfildServices01/barberbook/internal/metrics"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/notify"
	"github.com/BruksfildServices01/barberbook/internal/store"
)

type Deps struct {
	Options  store.Options
	Logger   *zap.Logger
	Audit    *audit.Dispatcher
	Notifier notify.Notifier
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

type Store struct {
	coll     *store.Collection[models.Booking]
	log      *zap.Logger
	audit    *audit.Dispatcher
	notifier notify.Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
}

func New(s kv.Store, d Deps) *Store {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Store{
		coll:     store.NewCollection[models.Booking](s, store.KeyBookings, d.Options),
		log:      d.Logger,
		audit:    d.Audit,
		notifier: d.Notifier,
		metrics:  d.Metrics,
		now:      d.Now,
	}
}

// ======================================================
// Create
// ======================================================

type CreateInput struct {
	UserID      int64   `json:"userId"`
	ClientID    string  `json:"clientId"`
	ClientName  string  `json:"clientName"`
	ClientPhone string  `json:"clientPhone"`
	BarberID    string  `json:"barberId"`
	BarberName  string  `json:"barberName"`
	BarberImage string  `json:"barberImage"`
	Service     string  `json:"service"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Price       float64 `json:"price"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	// Actor is the role creating the booking, client when empty.
	Actor domain.Actor `json:"-"`
}

// Create appends a confirmed booking with a fresh id. Invalid input yields
// nil, nil.
func (s *Store) Create(ctx context.Context, in CreateInput) (*models.Booking, error) {
	if in.Actor == "" {
		in.Actor = domain.ActorClient
	}
	if !in.Actor.Valid() {
		s.log.Debug("booking rejected", zap.String("actor", string(in.Actor)))
		return nil, nil
	}
	b := models.Booking{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		ClientID:    in.ClientID,
		ClientName:  in.ClientName,
		ClientPhone: in.ClientPhone,
		BarberID:    in.BarberID,
		BarberName:  in.BarberName,
		BarberImage: in.BarberImage,
		Service:     in.Service,
		Date:        in.Date,
		Time:        in.Time,
		Price:       in.Price,
		Status:      string(domain.InitialStatus()),
		Address:     in.Address,
		Phone:       in.Phone,
		Version:     1,
		CreatedAt:   s.now(),
	}
	if err := store.Validate(b); err != nil {
		s.log.Debug("booking rejected", zap.Error(err))
		return nil, nil
	}

	if _, err := s.coll.Update(ctx, func(bookings []models.Booking) ([]models.Booking, error) {
		return append(bookings, b), nil
	}); err != nil {
		return nil, err
	}

	s.log.Info("booking created", zap.String("booking_id", b.ID), zap.String("barber", b.BarberName))
	s.audit.Dispatch(audit.Event{
		Actor:    string(in.Actor),
		UserID:   userIDPtr(b.UserID),
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: b.ID,
		Metadata: map[string]any{"date": b.Date, "time": b.Time, "service": b.Service},
	})
	return &b, nil
}

// ======================================================
// Reads
// ======================================================

func (s *Store) ListAll(ctx context.Context) ([]models.Booking, error) {
	return s.coll.Load(ctx)
}

func (s *Store) Get(ctx context.Context, id string) (*models.Booking, error) {
	bookings, err := s.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexBooking(bookings, id); i >= 0 {
		return &bookings[i], nil
	}
	return nil, nil
}

func (s *Store) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	return s.ListForIdentity(ctx, Identity{UserID: userID})
}

// Identity is whatever links a booking to the requesting person.
type Identity struct {
	UserID   int64
	ClientID string
	Phone    string
}

// ListForIdentity returns bookings matching any non-empty field of id.
func (s *Store) ListForIdentity(ctx context.Context, id Identity) ([]models.Booking, error) {
	return s.filter(ctx, func(b models.Booking) bool {
		return (id.UserID != 0 && b.UserID == id.UserID) ||
			(id.ClientID != "" && b.ClientID == id.ClientID) ||
			(id.Phone != "" && b.ClientPhone == id.Phone)
	})
}

func (s *Store) ListByBarber(ctx context.Context, barberID string) ([]models.Booking, error) {
	return s.filter(ctx, func(b models.Booking) bool { return b.BarberID == barberID })
}

func (s *Store) filter(ctx context.Context, keep func(models.Booking) bool) ([]models.Booking, error) {
	bookings, err := s.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

// ======================================================
// Status
// ======================================================

// UpdateStatus moves booking id to status on behalf of actor. It reports false
// when the booking does not exist or the request is malformed, and true when
// the status changed or the booking was already terminal.
func (s *Store) UpdateStatus(ctx context.Context, id string, status domain.Status, actor domain.Actor) (bool, error) {
	now := s.now()

	var (
		found    bool
		changed  bool
		rejected error
		updated  models.Booking
		from     string
	)
	_, err := s.coll.Update(ctx, func(bookings []models.Booking) ([]models.Booking, error) {
		found, changed, rejected = false, false, nil

		i := indexBooking(bookings, id)
		if i < 0 {
			return nil, store.ErrSkipWrite
		}
		found = true

		b := bookings[i]
		from = b.Status
		ok, err := domain.Transition(&b, status, actor, now)
		if err != nil {
			rejected = err
			return nil, store.ErrSkipWrite
		}
		if !ok {
			return nil, store.ErrSkipWrite
		}
		bookings[i] = b
		changed, updated = true, b
		return bookings, nil
	})
	if err != nil {
		return false, err
	}

	switch {
	case !found:
		s.log.Debug("status update for unknown booking", zap.String("booking_id", id))
		return false, nil
	case rejected != nil:
		s.log.Debug("status update rejected", zap.String("booking_id", id), zap.Error(rejected))
		return false, nil
	case !changed:
		s.log.Debug("booking already terminal", zap.String("booking_id", id), zap.String("status", from))
		return true, nil
	}

	s.afterTransition(ctx, updated, from, actor, now)
	return true, nil
}

func (s *Store) Cancel(ctx context.Context, id string, actor domain.Actor) (bool, error) {
	return s.UpdateStatus(ctx, id, domain.StatusCancelled, actor)
}

func (s *Store) Complete(ctx context.Context, id string, actor domain.Actor) (bool, error) {
	return s.UpdateStatus(ctx, id, domain.StatusCompleted, actor)
}

func (s *Store) afterTransition(ctx context.Context, b models.Booking, from string, actor domain.Actor, at time.Time) {
	s.log.Info("booking status changed",
		zap.String("booking_id", b.ID),
		zap.String("from", from),
		zap.String("to", b.Status),
		zap.String("actor", string(actor)),
	)
	s.metrics.Transition(string(actor), b.Status)

	s.audit.Dispatch(audit.Event{
		Actor:    string(actor),
		UserID:   userIDPtr(b.UserID),
		Action:   "booking_" + b.Status,
		Entity:   "booking",
		EntityID: b.ID,
		Metadata: map[string]any{"from": from, "to": b.Status, "version": b.Version},
	})

	if s.notifier == nil {
		return
	}
	change := notify.Change{
		BookingID: b.ID,
		From:      from,
		To:        b.Status,
		Actor:     string(actor),
		Notify:    string(actor.Counterpart()),
		At:        at,
	}
	if err := s.notifier.StatusChanged(ctx, change); err != nil {
		s.log.Warn("status notification failed", zap.String("booking_id", b.ID), zap.Error(err))
	}
}

func indexBooking(bookings []models.Booking, id string) int {
	for i := range bookings {
		if bookings[i].ID == id {
			return i
		}
	}
	return -1
}

func userIDPtr(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
