package menu

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInterrupted is returned when the user aborts a prompt with Ctrl+C or Esc.
var ErrInterrupted = errors.New("prompt interrupted")

const (
	requiredMessage   = "This field is required"
	floatErrorMessage = "Please use a valid floating point number"
	floatHelpMessage  = "Please use numbers here"
)

// Prompter asks the user questions. Every method blocks until the user
// answers, aborts, or ctx is cancelled.
type Prompter interface {
	// Select returns the index of the chosen option.
	Select(ctx context.Context, title string, options []string) (int, error)
	// Text returns a non-empty, trimmed answer.
	Text(ctx context.Context, label string) (string, error)
	// Float returns an answer parsed as a floating point number.
	Float(ctx context.Context, label string) (float64, error)
}

func validateRequired(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(requiredMessage)
	}
	return nil
}

func validateFloat(value string) error {
	if _, err := parseFloat(value); err != nil {
		return errors.New(floatErrorMessage)
	}
	return nil
}

func parseFloat(value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", value)
	}
	return f, nil
}
