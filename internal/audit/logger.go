package audit

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barberbook/internal/kv"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/store"
)

const DefaultMaxEntries = 500

// Logger persists audit entries into the auditLogs collection, keeping only the
// newest maxEntries.
type Logger struct {
	coll       *store.Collection[models.AuditLog]
	maxEntries int
	instance   string
	now        func() time.Time
}

func New(s kv.Store, opts store.Options, maxEntries int, instance string, now func() time.Time) *Logger {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if now == nil {
		now = time.Now
	}
	return &Logger{
		coll:       store.NewCollection[models.AuditLog](s, store.KeyAuditLogs, opts),
		maxEntries: maxEntries,
		instance:   instance,
		now:        now,
	}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	entry := models.AuditLog{
		ID:        uuid.NewString(),
		Actor:     ev.Actor,
		UserID:    ev.UserID,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Metadata:  metaJSON,
		Instance:  l.instance,
		CreatedAt: l.now(),
	}

	_, err := l.coll.Update(ctx, func(logs []models.AuditLog) ([]models.AuditLog, error) {
		logs = append(logs, entry)
		if over := len(logs) - l.maxEntries; over > 0 {
			logs = logs[over:]
		}
		return logs, nil
	})
	return err
}

type Filter struct {
	Action string
	Entity string
	From   time.Time
	To     time.Time
	Page   int
	Limit  int
}

// List returns one page of matching entries, newest first, and the total
// number of matches.
func (l *Logger) List(ctx context.Context, f Filter) ([]models.AuditLog, int, error) {
	logs, err := l.coll.Load(ctx)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]models.AuditLog, 0, len(logs))
	for _, e := range logs {
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.Entity != "" && e.Entity != f.Entity {
			continue
		}
		if !f.From.IsZero() && e.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.CreatedAt.After(f.To) {
			continue
		}
		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page, limit := f.Page, f.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return []models.AuditLog{}, len(matched), nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], len(matched), nil
}
