// Package id provides identifier generation for requests and submissions.
package id

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewULID returns a 26 character ULID. Submission references use it so that
// they sort by arrival; IDs made within one millisecond stay monotonic.
func NewULID() string {
	return ulid.Make().String()
}

// NewUUID returns a random version 4 UUID, used for request IDs.
func NewUUID() string {
	return uuid.NewString()
}
