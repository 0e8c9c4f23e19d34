package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorInterface(t *testing.T) {
	err := NewInvalidRequest("count must be positive")
	if !strings.Contains(err.Error(), "INVALID_REQUEST") {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
	if !strings.Contains(err.Error(), "count must be positive") {
		t.Errorf("Error() = %q, want message", err.Error())
	}
}

func TestIs(t *testing.T) {
	err := NewOracleMissing("/data/base-meanings.json")
	if !Is(err, ErrOracleMissing) {
		t.Error("Is(err, ErrOracleMissing) = false, want true")
	}
	if Is(err, ErrInternal) {
		t.Error("Is(err, ErrInternal) = true, want false")
	}
	if Is(stderrors.New("plain"), ErrInternal) {
		t.Error("Is(plain error) = true, want false")
	}
}

func TestNewOracleMalformed(t *testing.T) {
	err := NewOracleMalformed("combinations.json", stderrors.New("unexpected EOF"))
	if err.Status != 500 {
		t.Errorf("Status = %d, want 500", err.Status)
	}
	if err.Details["path"] != "combinations.json" {
		t.Errorf("Details[path] = %v, want combinations.json", err.Details["path"])
	}
	if !strings.Contains(err.Message, "unexpected EOF") {
		t.Errorf("Message = %q, want wrapped cause", err.Message)
	}
}

func TestNewIDCollision(t *testing.T) {
	err := NewIDCollision("a1b2c3d4e5f6", 5)
	if err.Code != ErrIDCollision {
		t.Errorf("Code = %q, want ID_COLLISION", err.Code)
	}
	if err.Details["retries"] != 5 {
		t.Errorf("Details[retries] = %v, want 5", err.Details["retries"])
	}
}

func TestNewInternalNilError(t *testing.T) {
	err := NewInternal(nil)
	if err.Message != "internal error" {
		t.Errorf("Message = %q, want 'internal error'", err.Message)
	}
}
