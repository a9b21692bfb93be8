package booking

import "github.com/BruksfildServices01/barberbook/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is accepted from s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ===============================
// Actors
// ===============================

type Actor string

const (
	ActorClient Actor = "client"
	ActorBarber Actor = "barber"
)

func (a Actor) Valid() bool {
	return a == ActorClient || a == ActorBarber
}

// Counterpart is the role that should hear about a change made by a.
func (a Actor) Counterpart() Actor {
	if a == ActorClient {
		return ActorBarber
	}
	return ActorClient
}

// ===============================
// Validations
// ===============================

func InitialStatus() Status {
	return StatusConfirmed
}

// CanTransition validates a request before it is applied.
func CanTransition(to Status, actor Actor) error {
	if !to.Valid() || to == StatusConfirmed {
		return httperr.ErrBusiness("invalid_status")
	}
	if !actor.Valid() {
		return httperr.ErrBusiness("invalid_actor")
	}
	return nil
}
