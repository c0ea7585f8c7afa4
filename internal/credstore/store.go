package credstore

import "context"

// Storage keys for the persisted session. The session manager is the only
// writer of these keys.
const (
	KeyUser         = "user"
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
)

// Keys lists every key the session manager persists, in wipe order.
var Keys = []string{KeyUser, KeyAccessToken, KeyRefreshToken}

// Store is durable key-value storage for the current session. Implementations
// must tolerate repeated deletes of absent keys.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes key to value, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the given keys. Deleting an absent key is not an error.
	Delete(ctx context.Context, keys ...string) error
}
