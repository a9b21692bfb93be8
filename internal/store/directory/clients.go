package directory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	"github.com/BruksfildServices01/barberbook/internal/kv"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/store"
)

// Clients is the client directory. Phone is the deduplication key.
type Clients struct {
	coll     *store.Collection[models.Client]
	bookings *store.Collection[models.Booking]
	log      *zap.Logger
	audit    *audit.Dispatcher
	now      func() time.Time
}

func NewClients(s kv.Store, d Deps) *Clients {
	d = d.withDefaults()
	return &Clients{
		coll:     store.NewCollection[models.Client](s, store.KeyClients, d.Options),
		bookings: store.NewCollection[models.Booking](s, store.KeyBookings, d.Options),
		log:      d.Logger,
		audit:    d.Audit,
		now:      d.Now,
	}
}

func (c *Clients) List(ctx context.Context) ([]models.Client, error) {
	return c.coll.Load(ctx)
}

// Search matches query against name, phone and email, case-insensitively.
func (c *Clients) Search(ctx context.Context, query string) ([]models.Client, error) {
	clients, err := c.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return clients, nil
	}
	out := make([]models.Client, 0, len(clients))
	for _, cl := range clients {
		if strings.Contains(strings.ToLower(cl.Name), query) ||
			strings.Contains(cl.Phone, query) ||
			strings.Contains(strings.ToLower(cl.Email), query) {
			out = append(out, cl)
		}
	}
	return out, nil
}

func (c *Clients) Get(ctx context.Context, id string) (*models.Client, error) {
	clients, err := c.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexClient(clients, id); i >= 0 {
		return &clients[i], nil
	}
	return nil, nil
}

type ClientInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Create adds an explicit client. When a temporary client already holds the
// phone it is promoted in place; an explicit one rejects the create with
// nil, nil.
func (c *Clients) Create(ctx context.Context, in ClientInput) (*models.Client, error) {
	candidate := models.Client{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		Version:   1,
		CreatedAt: c.now(),
	}
	if err := store.Validate(candidate); err != nil {
		return nil, nil
	}

	var (
		result   *models.Client
		promoted bool
	)
	_, err := c.coll.Update(ctx, func(clients []models.Client) ([]models.Client, error) {
		result, promoted = nil, false
		if i := indexPhone(clients, candidate.Phone, ""); i >= 0 {
			if !clients[i].IsTemporary {
				return nil, store.ErrSkipWrite
			}
			cl := clients[i]
			cl.Name = candidate.Name
			cl.Email = candidate.Email
			cl.IsTemporary = false
			cl.Version++
			clients[i] = cl
			result, promoted = &cl, true
			return clients, nil
		}
		cl := candidate
		result = &cl
		return append(clients, cl), nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		c.log.Debug("client create rejected", zap.String("reason", "phone_taken"))
		return nil, nil
	}

	action := "client_created"
	if promoted {
		action = "client_promoted"
	}
	c.audit.Dispatch(audit.Event{Action: action, Entity: "client", EntityID: result.ID})
	return result, nil
}

// Update replaces the client with rec.ID. It reports false when the client is
// unknown, rec is invalid or its phone belongs to another client. The stored
// IsTemporary flag is kept; only Create promotes a derived client.
func (c *Clients) Update(ctx context.Context, rec models.Client) (bool, error) {
	rec.Name = strings.TrimSpace(rec.Name)
	rec.Phone = strings.TrimSpace(rec.Phone)
	rec.Email = strings.TrimSpace(rec.Email)
	if err := store.Validate(rec); err != nil {
		return false, nil
	}

	var ok bool
	_, err := c.coll.Update(ctx, func(clients []models.Client) ([]models.Client, error) {
		ok = false
		i := indexClient(clients, rec.ID)
		if i < 0 || indexPhone(clients, rec.Phone, rec.ID) >= 0 {
			return nil, store.ErrSkipWrite
		}
		rec.CreatedAt = clients[i].CreatedAt
		rec.IsTemporary = clients[i].IsTemporary
		rec.Version = clients[i].Version + 1
		clients[i] = rec
		ok = true
		return clients, nil
	})
	if err != nil {
		return false, err
	}
	if ok {
		c.audit.Dispatch(audit.Event{Action: "client_updated", Entity: "client", EntityID: rec.ID})
	}
	return ok, nil
}

// Delete removes the client. Bookings that reference it are left alone.
func (c *Clients) Delete(ctx context.Context, id string) (bool, error) {
	var ok bool
	_, err := c.coll.Update(ctx, func(clients []models.Client) ([]models.Client, error) {
		i := indexClient(clients, id)
		ok = i >= 0
		if !ok {
			return nil, store.ErrSkipWrite
		}
		return append(clients[:i:i], clients[i+1:]...), nil
	})
	if err != nil {
		return false, err
	}
	if ok {
		c.audit.Dispatch(audit.Event{Action: "client_deleted", Entity: "client", EntityID: id})
	}
	return ok, nil
}

// DeriveFromBookings adds a temporary client for every booking phone not yet
// in the directory and returns how many were added. Bookings are only read and
// existing clients are never removed.
func (c *Clients) DeriveFromBookings(ctx context.Context) (int, error) {
	bookings, err := c.bookings.Load(ctx)
	if err != nil {
		return 0, err
	}

	var added int
	_, err = c.coll.Update(ctx, func(clients []models.Client) ([]models.Client, error) {
		added = 0
		for _, b := range bookings {
			phone := strings.TrimSpace(b.ClientPhone)
			if phone == "" || indexPhone(clients, phone, "") >= 0 {
				continue
			}
			if b.ClientID != "" && indexClient(clients, b.ClientID) >= 0 {
				continue
			}
			name := strings.TrimSpace(b.ClientName)
			if name == "" {
				name = phone
			}
			clients = append(clients, models.Client{
				ID:          uuid.NewString(),
				Name:        name,
				Phone:       phone,
				IsTemporary: true,
				Version:     1,
				CreatedAt:   c.now(),
			})
			added++
		}
		if added == 0 {
			return nil, store.ErrSkipWrite
		}
		return clients, nil
	})
	if err != nil {
		return 0, err
	}
	if added > 0 {
		c.log.Info("clients derived from bookings", zap.Int("added", added))
	}
	return added, nil
}

func indexClient(clients []models.Client, id string) int {
	for i := range clients {
		if clients[i].ID == id {
			return i
		}
	}
	return -1
}

// indexPhone finds a client holding phone other than the one with exceptID.
func indexPhone(clients []models.Client, phone, exceptID string) int {
	for i := range clients {
		if clients[i].Phone == phone && clients[i].ID != exceptID {
			return i
		}
	}
	return -1
}
