package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Disposition classifies how a batch run reacts to an item failure.
type Disposition int

const (
	// DispositionContinue skips the failed item and proceeds with the batch.
	DispositionContinue Disposition = iota
	// DispositionAbort stops the run; later items would fail the same way.
	DispositionAbort
)

func (d Disposition) String() string {
	if d == DispositionAbort {
		return "abort"
	}
	return "continue"
}

// FailureDisposition maps an item error to the action a batch driver takes
// after the item fails. Per-item conditions (missing codes, collisions, tool
// failures) let the batch continue; configuration problems abort the run.
func FailureDisposition(err error) Disposition {
	if errors.Is(err, ErrConfiguration) {
		return DispositionAbort
	}
	return DispositionContinue
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
