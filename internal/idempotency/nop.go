package idempotency

import "context"

// nopGuard claims every key. Used when redis is disabled and in tests.
type nopGuard struct{}

// NewNopGuard creates a guard that never deduplicates.
func NewNopGuard() Guard {
	return nopGuard{}
}

func (nopGuard) Claim(context.Context, string) (string, bool, error) { return "", true, nil }

func (nopGuard) Complete(context.Context, string, string) error { return nil }

func (nopGuard) Release(context.Context, string) error { return nil }
