package store

import (
	"testing"

	"github.com/BruksfildServices01/barberbook/internal/models"
)

func TestValidate(t *testing.T) {
	ok := models.Client{Name: "Ana", Phone: "111"}
	if err := Validate(ok); err != nil {
		t.Fatalf("valid client rejected: %v", err)
	}
	err := Validate(models.Client{Name: "Ana", Phone: "111", Email: "not-an-email"})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := Validate(models.Booking{BarberName: "Studio", Service: "Cut", Date: "01/07/2024", Time: "09:00"}); !IsValidation(err) {
		t.Fatalf("expected bad date to fail, got %v", err)
	}
}
