package directory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/kv"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/store"
)

type Barbers struct {
	coll *store.Collection[models.Barber]
	log  *zap.Logger
}

func NewBarbers(s kv.Store, d Deps) *Barbers {
	d = d.withDefaults()
	return &Barbers{
		coll: store.NewCollection[models.Barber](s, store.KeyBarbers, d.Options),
		log:  d.Logger,
	}
}

// SeedIfEmpty writes seed only when the collection key is absent.
func (b *Barbers) SeedIfEmpty(ctx context.Context, seed []models.Barber) (bool, error) {
	for i := range seed {
		if err := store.Validate(seed[i]); err != nil {
			return false, fmt.Errorf("seed barber %q: %w", seed[i].ID, err)
		}
	}
	created, err := b.coll.Ensure(ctx, seed)
	if err != nil {
		return false, err
	}
	if created {
		b.log.Info("barbers seeded", zap.Int("count", len(seed)))
	}
	return created, nil
}

func (b *Barbers) List(ctx context.Context) ([]models.Barber, error) {
	return b.coll.Load(ctx)
}

func (b *Barbers) Get(ctx context.Context, id string) (*models.Barber, error) {
	barbers, err := b.coll.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range barbers {
		if barbers[i].ID == id {
			return &barbers[i], nil
		}
	}
	return nil, nil
}
