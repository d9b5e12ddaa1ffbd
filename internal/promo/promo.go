// Package promo validates marketplace promo codes against a code list
// distributed as a gzipped file (one code per line) on S3 or local disk.
// A valid code grants the platform-configured discount percent on a
// customer order's subtotal.
package promo

import (
	"context"
)

// Validator defines the interface for promo code validation.
type Validator interface {
	// Validate checks a promo code and returns the discount percent it
	// grants. Unknown or malformed codes yield model.ErrInvalidPromoCode.
	Validate(ctx context.Context, code string) (int, error)

	// Close releases resources held by the validator.
	Close() error
}

// CodeSet represents a set of promo codes for fast lookup.
type CodeSet interface {
	// Contains checks if a promo code exists in the set.
	Contains(code string) bool

	// Size returns the number of codes in the set.
	Size() int
}

// Loader defines the interface for loading promo code files.
type Loader interface {
	// Load reads a gzipped code file and returns a CodeSet.
	Load(ctx context.Context, path string) (CodeSet, error)
}
