// Package store is the client's local key-value persistence: the moral
// equivalent of browser localStorage. Implementations never return errors —
// an unavailable backend behaves exactly like an absent value, and callers
// must treat the two identically.
package store

// Store holds small string values (auth token, current user snapshot).
type Store interface {
	// Get returns the value for key, or "" and false when the key is absent
	// or the backend is unavailable.
	Get(key string) (string, bool)
	// Set writes a value, reporting whether the write happened.
	Set(key, value string) bool
	// Remove deletes a key, reporting whether the backend accepted the call.
	Remove(key string) bool
}

// Well-known keys shared by session handling.
const (
	KeyToken = "token"
	KeyUser  = "user"
)
