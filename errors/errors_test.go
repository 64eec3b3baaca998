package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorUnwrap(t *testing.T) {
	raw := stdErrors.New("connection refused")
	err := fmt.Errorf("load tasks: %w", ErrBackendUnavailable("tasks", raw))

	var appErr AppError
	if !stdErrors.As(err, &appErr) {
		t.Fatalf("expected AppError in chain")
	}
	if appErr.HTTPCode != http.StatusBadGateway {
		t.Fatalf("unexpected status %d", appErr.HTTPCode)
	}
	if !stdErrors.Is(err, raw) {
		t.Fatalf("expected raw error to be reachable")
	}
}

func TestWithDetailDoesNotShareMaps(t *testing.T) {
	base := ErrInvalidArgument("bad")
	a := base.WithDetail("field", "a")
	b := a.WithDetail("other", "b")

	if _, ok := a.Details["other"]; ok {
		t.Fatalf("detail leaked into earlier copy")
	}
	if b.Details["field"] != "a" || b.Details["other"] != "b" {
		t.Fatalf("unexpected details %v", b.Details)
	}
}

func TestErrorCodeString(t *testing.T) {
	if got := ErrorCode_OCR_RECOGNITION_FAILED.String(); got != "OCR_RECOGNITION_FAILED" {
		t.Fatalf("got %q", got)
	}
	if got := ErrorCode(42).String(); got != "UNKNOWN" {
		t.Fatalf("got %q", got)
	}
}
