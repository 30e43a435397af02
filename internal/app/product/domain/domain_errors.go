package domain

import "errors"

// Domain errors as sentinel values
var (
	ErrProductNotFound = errors.New("product not found")
	ErrEmptyName       = errors.New("product name cannot be empty")
	ErrInvalidPrice    = errors.New("product price must be positive")
	ErrInvalidCategory = errors.New("product category cannot be empty")
	ErrMoneyOverflow   = errors.New("money value exceeds storage capacity")

	ErrSamePrice            = errors.New("new price equals current price")
	ErrAlreadyArchived      = errors.New("product is already archived")
	ErrCannotModifyArchived = errors.New("cannot modify archived product")
)
