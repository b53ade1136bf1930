package database

import "github.com/google/uuid"

// NewID returns a random UUID for new rows. Generating ids app-side means a
// record's identity is known before the INSERT round-trip; the tables keep
// their gen_random_uuid() defaults for rows created directly in SQL.
func NewID() string {
	return uuid.NewString()
}
