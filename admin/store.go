package admin

import (
	"context"
	"errors"
)

var (
	// ErrAdminNotFound is returned when an admin is not found.
	ErrAdminNotFound = errors.New("admin not found")

	// ErrDuplicateEmail is returned when an admin with the email already exists.
	ErrDuplicateEmail = errors.New("email already exists")
)

// Store defines the interface for admin persistence operations.
type Store interface {
	// Create creates a new admin.
	Create(ctx context.Context, admin *Admin) error

	// GetByID retrieves an active admin by ID.
	GetByID(ctx context.Context, id uint) (*Admin, error)

	// GetByEmail retrieves an active admin by email address.
	GetByEmail(ctx context.Context, email string) (*Admin, error)

	// Update applies the setters to the admin and saves it.
	Update(ctx context.Context, id uint, setters ...UpdateSetter) error
}

// UpdateSetter is a function that updates an admin field.
type UpdateSetter func(*Admin) error
