package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidName, "bad name: %s", "x")

	if err.Code != ErrCodeInvalidName {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidName)
	}
	if err.Message != "bad name: x" {
		t.Errorf("Message = %v, want %v", err.Message, "bad name: x")
	}
	expected := "INVALID_NAME: bad name: x"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeIO, cause, "write index.json")

	if err.Code != ErrCodeIO {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeIO)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if err.Error() != "IO_ERROR: write index.json: disk full" {
		t.Errorf("Error() = %v", err.Error())
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeCycle, "test"), ErrCodeCycle, true},
		{"non-matching code", New(ErrCodeCycle, "test"), ErrCodeIO, false},
		{"outer code wins", Wrap(ErrCodeIO, New(ErrCodeCanceled, "inner"), "outer"), ErrCodeIO, true},
		{"fmt wrapped", fmt.Errorf("ctx: %w", New(ErrCodeNoProject, "none")), ErrCodeNoProject, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsCanceled(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"direct", New(ErrCodeCanceled, "dialog closed"), true},
		{"wrapped by io", Wrap(ErrCodeIO, New(ErrCodeCanceled, "dialog closed"), "save"), true},
		{"fmt wrapped", fmt.Errorf("open: %w", New(ErrCodeCanceled, "x")), true},
		{"io failure", New(ErrCodeIO, "disk"), false},
		{"plain", errors.New("canceled"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCanceled(tt.err); got != tt.expected {
				t.Errorf("IsCanceled() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	for _, code := range []Code{ErrCodeNotFound, ErrCodeObjectNotFound, ErrCodeSceneNotFound, ErrCodeProjectNotFound} {
		if !IsNotFound(New(code, "x")) {
			t.Errorf("IsNotFound(%s) = false, want true", code)
		}
	}
	if IsNotFound(New(ErrCodeIO, "x")) {
		t.Error("IsNotFound(IO_ERROR) = true, want false")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeSceneNotFound, "test"), ErrCodeSceneNotFound},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
