package cart

import (
	"context"

	"github.com/go-faster/errors"
)

// RecordKey is the fixed key of the persisted cart record.
const RecordKey = "tsk_cart"

// ErrNoRecord is returned by Storage.Get when no value exists for the key.
var ErrNoRecord = errors.New("no record")

// Storage is the session-scoped key/value record the cart persists into.
// Values vanish when the session ends; that lifetime belongs to the
// implementation, not to the cart.
type Storage interface {
	// Get returns the stored bytes or ErrNoRecord.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
