package booking

import (
	"time"

	"github.com/BruksfildServices01/barberbook/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves b to the requested status on behalf of actor. A booking in a
// terminal status absorbs every request, valid or not: changed is false and
// err is nil.
func Transition(b *models.Booking, to Status, actor Actor, now time.Time) (changed bool, err error) {
	from := Status(b.Status)
	if from.IsTerminal() {
		return false, nil
	}
	if err := CanTransition(to, actor); err != nil {
		return false, err
	}

	b.Status = string(to)
	switch to {
	case StatusCancelled:
		b.CancelledAt = &now
	case StatusCompleted:
		b.CompletedAt = &now
	}
	b.Version++
	b.History = append(b.History, models.StatusTransition{
		From:  string(from),
		To:    string(to),
		Actor: string(actor),
		At:    now,
	})
	return true, nil
}

func Cancel(b *models.Booking, actor Actor, now time.Time) (bool, error) {
	return Transition(b, StatusCancelled, actor, now)
}

func Complete(b *models.Booking, actor Actor, now time.Time) (bool, error) {
	return Transition(b, StatusCompleted, actor, now)
}
