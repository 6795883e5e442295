package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{NotFound("streak not found"), KindNotFound},
		{Conflict("duplicate name"), KindConflict},
		{InvalidInput("negative minutes"), KindInvalidInput},
		{QuotaExceeded("no tokens left"), KindQuotaExceeded},
		{Internal("query failed", errors.New("boom")), KindInternal},
		{errors.New("plain error"), KindInternal},
		// wrapped apperror is still discoverable
		{fmt.Errorf("pipeline: %w", NotFound("gone")), KindNotFound},
	}

	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{Conflict("x"), http.StatusConflict},
		{InvalidInput("x"), http.StatusBadRequest},
		{QuotaExceeded("x"), http.StatusBadRequest},
		{Internal("x", nil), http.StatusInternalServerError},
		{errors.New("x"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestMessageOfHidesInternalCause(t *testing.T) {
	err := Internal("failed to update streak", errors.New("connection refused"))
	if MessageOf(err) != "failed to update streak" {
		t.Errorf("unexpected message: %s", MessageOf(err))
	}

	if MessageOf(errors.New("pq: syntax error")) != "internal server error" {
		t.Error("plain errors must not leak their message")
	}
}

func TestErrorStringAndUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := Internal("failed to fetch achievements", cause)

	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose cause")
	}
	if err.Error() != "failed to fetch achievements: timeout" {
		t.Errorf("unexpected Error(): %s", err.Error())
	}
	if NotFound("gone").Error() != "gone" {
		t.Error("message-only error should render bare message")
	}
}
