package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"simple error", stderrors.New("boom"), "Error: boom"},
		{"validation", Validation("quantity", "must be greater than 0"), "Error: quantity: must be greater than 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	if got := Formatf("item %s not found", "abc"); got != "Error: item abc not found" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestValidationErrorIs(t *testing.T) {
	err := fmt.Errorf("add item: %w", Validation("name", "is required"))
	if !stderrors.Is(err, ErrValidation) {
		t.Error("wrapped ValidationError should match ErrValidation")
	}
	if stderrors.Is(err, ErrService) {
		t.Error("ValidationError should not match ErrService")
	}
}

func TestServiceError(t *testing.T) {
	err := &ServiceError{Op: "suggestions", StatusCode: 500, Message: "backend down", Err: io.ErrUnexpectedEOF}

	if !stderrors.Is(err, ErrService) {
		t.Error("ServiceError should match ErrService")
	}
	if !stderrors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("ServiceError should match its cause")
	}
	if got, want := err.Error(), "suggestions failed (status 500): backend down"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Retryable(err) {
		t.Error("Retryable() = false, want true")
	}

	rejected := &ServiceError{Op: "learn", StatusCode: 400, Message: "Please enter topics related to food waste", Rejected: true}
	if Retryable(rejected) {
		t.Error("Retryable() = true for rejected input, want false")
	}
	if Retryable(stderrors.New("other")) {
		t.Error("Retryable() = true for plain error, want false")
	}
}
