// Package directory holds the reference collections the UIs browse: barbers,
// services and clients.
package directory

import (
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	"github.com/BruksfildServices01/barberbook/internal/store"
)

type Deps struct {
	Options store.Options
	Logger  *zap.Logger
	Audit   *audit.Dispatcher
	Now     func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}
