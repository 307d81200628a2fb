package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/product_catalog/internal/repo"
)

var (
	ErrValidation  = errors.New("validation")  // 400
	ErrNotFound    = errors.New("not found")   // 404
	ErrConflict    = errors.New("conflict")    // 409
	ErrUnavailable = errors.New("unavailable") // 503
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func isMissing(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func missing(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// notFound translates a missing row into ErrNotFound and passes the rest on.
func notFound(err error, what string) error {
	if isMissing(err) {
		return missing(what)
	}
	return err
}

// staleWrite resolves a write that matched no rows: the row vanished (404)
// or a concurrent change got in the way (surfaced as a plain error).
func staleWrite(err error, exists func() (bool, error), what string) error {
	if !errors.Is(err, repo.ErrNoRowsAffected) {
		return err
	}
	ok, checkErr := exists()
	if checkErr != nil {
		return checkErr
	}
	if !ok {
		return missing(what)
	}
	return fmt.Errorf("concurrent update of %s: %w", what, err)
}
