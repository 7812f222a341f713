package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a lookup whose target row does not exist. Handlers turn
// it into a redirect with a notice, never a 500.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials is returned for both an unknown username and a wrong
// password, so login failures stay indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUsernameTaken is returned when registration hits the unique constraint
// on users.username.
var ErrUsernameTaken = errors.New("username already exists")

// ValidationError carries the user-facing message shown when form input is
// missing or malformed. The message is displayed as-is in a flash notice.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// InsufficientStockError rejects a purchase that would drive stock negative.
type InsufficientStockError struct {
	ProductName string
	Stock       int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: have %d, requested %d", e.ProductName, e.Stock, e.Requested)
}
