package util

import "github.com/google/uuid"

// NewID returns a random UUID string. Content types and entries mint their
// IDs client-side before the create call, so the remote record carries the
// ID the operator already sees.
func NewID() string {
	return uuid.NewString()
}
