package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	"github.com/BruksfildServices01/barberbook/internal/kv"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/store"
)

// Services never filters on IsActive; callers apply ActiveOnly themselves.
type Services struct {
	coll  *store.Collection[models.Service]
	log   *zap.Logger
	audit *audit.Dispatcher
}

func NewServices(s kv.Store, d Deps) *Services {
	d = d.withDefaults()
	return &Services{
		coll:  store.NewCollection[models.Service](s, store.KeyServices, d.Options),
		log:   d.Logger,
		audit: d.Audit,
	}
}

func (s *Services) SeedIfEmpty(ctx context.Context, seed []models.Service) (bool, error) {
	for i := range seed {
		if err := store.Validate(seed[i]); err != nil {
			return false, fmt.Errorf("seed service %q: %w", seed[i].ID, err)
		}
	}
	created, err := s.coll.Ensure(ctx, seed)
	if err != nil {
		return false, err
	}
	if created {
		s.log.Info("services seeded", zap.Int("count", len(seed)))
	}
	return created, nil
}

func (s *Services) List(ctx context.Context) ([]models.Service, error) {
	return s.coll.Load(ctx)
}

func (s *Services) Get(ctx context.Context, id string) (*models.Service, error) {
	services, err := s.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexService(services, id); i >= 0 {
		return &services[i], nil
	}
	return nil, nil
}

type ServiceInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"`
	Category    string  `json:"category"`
}

// Create adds an active service. Invalid input yields nil, nil.
func (s *Services) Create(ctx context.Context, in ServiceInput) (*models.Service, error) {
	svc := models.Service{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Duration:    in.Duration,
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		IsActive:    true,
		Version:     1,
	}
	if err := store.Validate(svc); err != nil {
		return nil, nil
	}

	if _, err := s.coll.Update(ctx, func(services []models.Service) ([]models.Service, error) {
		return append(services, svc), nil
	}); err != nil {
		return nil, err
	}

	s.audit.Dispatch(audit.Event{Action: "service_created", Entity: "service", EntityID: svc.ID})
	return &svc, nil
}

// ServicePatch changes only the fields that are set.
type ServicePatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Duration    *int     `json:"duration,omitempty"`
	Category    *string  `json:"category,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

// Update applies p to service id. It returns nil, nil when the service does not
// exist or the patched record would be invalid.
func (s *Services) Update(ctx context.Context, id string, p ServicePatch) (*models.Service, error) {
	var updated *models.Service
	_, err := s.coll.Update(ctx, func(services []models.Service) ([]models.Service, error) {
		updated = nil
		i := indexService(services, id)
		if i < 0 {
			return nil, store.ErrSkipWrite
		}
		svc := services[i]
		if p.Name != nil {
			svc.Name = strings.TrimSpace(*p.Name)
		}
		if p.Description != nil {
			svc.Description = *p.Description
		}
		if p.Price != nil {
			svc.Price = *p.Price
		}
		if p.Duration != nil {
			svc.Duration = *p.Duration
		}
		if p.Category != nil {
			svc.Category = strings.ToLower(strings.TrimSpace(*p.Category))
		}
		if p.IsActive != nil {
			svc.IsActive = *p.IsActive
		}
		if err := store.Validate(svc); err != nil {
			return nil, store.ErrSkipWrite
		}
		svc.Version++
		services[i] = svc
		updated = &svc
		return services, nil
	})
	if err != nil {
		return nil, err
	}
	if updated != nil {
		s.audit.Dispatch(audit.Event{Action: "service_updated", Entity: "service", EntityID: id})
	}
	return updated, nil
}

// Deactivate soft-deletes a service. It reports false when id is unknown.
func (s *Services) Deactivate(ctx context.Context, id string) (bool, error) {
	inactive := false
	svc, err := s.Update(ctx, id, ServicePatch{IsActive: &inactive})
	return svc != nil, err
}

// ActiveOnly is the reading-side filter for soft-deleted services.
func ActiveOnly(services []models.Service) []models.Service {
	out := make([]models.Service, 0, len(services))
	for _, svc := range services {
		if svc.IsActive {
			out = append(out, svc)
		}
	}
	return out
}

func indexService(services []models.Service, id string) int {
	for i := range services {
		if services[i].ID == id {
			return i
		}
	}
	return -1
}
