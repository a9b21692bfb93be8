package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIsBusiness(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrBusiness("invalid_status"))
	if !IsBusiness(err, "invalid_status") {
		t.Fatalf("wrapped business error not recognised")
	}
	if IsBusiness(err, "invalid_actor") || IsBusiness(errors.New("invalid_status"), "invalid_status") {
		t.Fatalf("false positive")
	}
	if code, ok := BusinessCode(err); !ok || code != "invalid_status" {
		t.Fatalf("BusinessCode: %q %v", code, ok)
	}
}

func TestConflictBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Conflict(c, "phone_taken", "phone already registered")

	if w.Code != http.StatusConflict {
		t.Fatalf("status %d", w.Code)
	}
	var body HTTPError
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Code != "phone_taken" || body.Message == "" {
		t.Fatalf("body %+v", body)
	}
}
