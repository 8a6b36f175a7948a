package idgen

import "github.com/google/uuid"

// Generator creates random UUIDs for slots and asset handles.
type Generator struct{}

// NewID returns a UUIDv4 string.
func (Generator) NewID() string {
	return uuid.NewString()
}
