package booking

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

func TestTransition_ConfirmedToTerminal(t *testing.T) {
	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

	for _, to := range []Status{StatusCancelled, StatusCompleted} {
		b := &models.Booking{Status: string(StatusConfirmed)}
		changed, err := Transition(b, to, ActorClient, now)
		if err != nil || !changed {
			t.Fatalf("%s: changed=%v err=%v", to, changed, err)
		}
		if b.Status != string(to) || b.Version != 1 {
			t.Fatalf("%s: unexpected booking %+v", to, b)
		}
		if len(b.History) != 1 || b.History[0].From != "confirmed" || b.History[0].Actor != "client" {
			t.Fatalf("%s: unexpected history %+v", to, b.History)
		}
	}
}

func TestTransition_StampsTimestamps(t *testing.T) {
	now := time.Now()
	b := &models.Booking{Status: string(StatusConfirmed)}
	_, _ = Cancel(b, ActorBarber, now)
	if b.CancelledAt == nil || !b.CancelledAt.Equal(now) || b.CompletedAt != nil {
		t.Fatalf("unexpected timestamps %+v", b)
	}
}

func TestTransition_TerminalAbsorbsEverything(t *testing.T) {
	now := time.Now()
	for _, from := range []Status{StatusCancelled, StatusCompleted} {
		for _, to := range []Status{StatusCancelled, StatusCompleted, StatusConfirmed, "archived"} {
			b := &models.Booking{Status: string(from), Version: 3}
			changed, err := Transition(b, to, ActorBarber, now)
			if err != nil || changed {
				t.Fatalf("%s->%s: changed=%v err=%v", from, to, changed, err)
			}
			if b.Status != string(from) || b.Version != 3 || len(b.History) != 0 {
				t.Fatalf("%s->%s: terminal booking mutated: %+v", from, to, b)
			}
		}
	}
}

func TestTransition_RejectsBadInput(t *testing.T) {
	now := time.Now()
	b := &models.Booking{Status: string(StatusConfirmed)}

	if _, err := Transition(b, "archived", ActorClient, now); !httperr.IsBusiness(err, "invalid_status") {
		t.Fatalf("expected invalid_status, got %v", err)
	}
	if _, err := Transition(b, StatusConfirmed, ActorClient, now); !httperr.IsBusiness(err, "invalid_status") {
		t.Fatalf("expected invalid_status for confirmed target, got %v", err)
	}
	if _, err := Transition(b, StatusCancelled, "admin", now); !httperr.IsBusiness(err, "invalid_actor") {
		t.Fatalf("expected invalid_actor, got %v", err)
	}
	if b.Status != string(StatusConfirmed) {
		t.Fatalf("rejected request mutated booking")
	}
}

func TestActorCounterpart(t *testing.T) {
	if ActorClient.Counterpart() != ActorBarber || ActorBarber.Counterpart() != ActorClient {
		t.Fatalf("counterpart mismatch")
	}
}
