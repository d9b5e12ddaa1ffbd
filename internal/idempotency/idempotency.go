// Package idempotency deduplicates order-creation requests. A client sends
// an Idempotency-Key header; replays of the same key are answered with the
// order id recorded for the first attempt instead of creating a second order.
package idempotency

import "context"

// Guard claims idempotency keys.
type Guard interface {
	// Claim attempts to claim key. If the key is new, claimed is true and
	// the caller must Complete with the created order id. If the key was
	// seen before, claimed is false and existing holds the recorded order id
	// (empty while the first attempt is still in flight).
	Claim(ctx context.Context, key string) (existing string, claimed bool, err error)

	// Complete records the order id for a claimed key.
	Complete(ctx context.Context, key, orderID string) error

	// Release drops a claimed key after a failed creation so the client can
	// retry with the same key.
	Release(ctx context.Context, key string) error
}
