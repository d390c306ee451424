package domain

import "errors"

// Domain-level errors
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrCartRejected marks a cart operation that was refused and left the
	// cart unchanged, e.g. adding a zero-stock product.
	ErrCartRejected = errors.New("cart operation rejected")

	// ErrInvalidFilter marks a FilterSpec that violates an invariant.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrSupplierMismatch is returned when a purchase order names a product
	// the supplier does not provide.
	ErrSupplierMismatch = errors.New("supplier does not provide the requested product")
)
