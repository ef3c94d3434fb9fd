package models

// Person is an address-book identity. People are referenced by ID from
// expenses, settlements and subscriptions, never owned by them; deleting
// a person leaves historical records with a dangling ID that the ledger
// engine treats as contributing zero.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	ID string

	// Name is the display name.
	Name string

	// CreatedAt is the Unix timestamp when the person was added.
	CreatedAt int64
}
