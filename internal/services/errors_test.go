package services_test

import (
	"errors"
	"strings"
	"testing"

	"jewelcase/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "converter", "createcd", "chd build failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"converter", "createcd", "chd build failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "tagger", "copy", "io failed", errors.New("disk"))
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient default marker, got %v", err)
	}
}

func TestWrapWithoutBaseError(t *testing.T) {
	err := services.Wrap(services.ErrNotFound, "tagger", "scan", "no code token", nil)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found marker, got %v", err)
	}
}

func TestFailureDisposition(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want services.Disposition
	}{
		{
			name: "configuration aborts",
			err:  services.Wrap(services.ErrConfiguration, "pack", "setup", "bad level", nil),
			want: services.DispositionAbort,
		},
		{
			name: "external tool continues",
			err:  services.Wrap(services.ErrExternalTool, "convert", "createcd", "exit 1", nil),
			want: services.DispositionContinue,
		},
		{
			name: "conflict continues",
			err:  services.Wrap(services.ErrConflict, "tagger", "rename", "target exists", nil),
			want: services.DispositionContinue,
		},
		{
			name: "plain error continues",
			err:  errors.New("boom"),
			want: services.DispositionContinue,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.FailureDisposition(tc.err); got != tc.want {
				t.Fatalf("disposition = %s, want %s", got, tc.want)
			}
		})
	}
}
