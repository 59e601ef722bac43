package service

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/painelquick/backend/internal/repo"
)

var (
	ErrValidation   = errors.New("validation")          // 400
	ErrUnauthorized = errors.New("unauthorized")        // 401
	ErrForbidden    = errors.New("forbidden")           // 403
	ErrNotFound     = errors.New("not found")           // 404
	ErrConflict     = errors.New("conflict")            // 409
	ErrNoCourier    = errors.New("no courier available") // 400
)

// Detail returns the message attached to a sentinel-wrapped error, without
// the sentinel prefix.
func Detail(err error) string {
	msg := err.Error()
	for _, s := range []error{ErrValidation, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict} {
		if p := s.Error() + ": "; strings.HasPrefix(msg, p) {
			return strings.TrimPrefix(msg, p)
		}
	}
	return msg
}

// notFound turns a missing-row error into ErrNotFound with what as detail.
func notFound(err error, what string) error {
	if repo.IsNotFound(err) {
		return fmt.Errorf("%w: %s not found", ErrNotFound, what)
	}
	return err
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
