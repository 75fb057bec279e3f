package services

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrUnavailable, "extraction", "tesseract", "run ocr", cause)

	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, not tagged ErrUnavailable", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v, cause lost", err)
	}
	for _, part := range []string{"extraction", "tesseract", "run ocr", "connection refused"} {
		if !strings.Contains(err.Error(), part) {
			t.Fatalf("err = %q, missing %q", err.Error(), part)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("err = %v, want ErrTransient", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("err = %q", err.Error())
	}
}

func TestIsProviderFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unavailable", Wrap(ErrUnavailable, "s", "o", "m", nil), true},
		{"timeout", Wrap(ErrTimeout, "s", "o", "m", nil), true},
		{"validation", Wrap(ErrValidation, "s", "o", "m", nil), false},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsProviderFailure(tc.err); got != tc.want {
				t.Fatalf("IsProviderFailure = %v, want %v", got, tc.want)
			}
		})
	}
}
