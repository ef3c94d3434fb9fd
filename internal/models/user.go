package models

import "time"

// User is an authenticated account. Each user is linked to a Person that
// serves as their default balance viewpoint; balance functions always
// take the viewpoint explicitly rather than reading ambient state.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is shown in place of the email where available.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// PersonID links the account to its address-book identity.
	PersonID string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a user with the creation timestamp set. The ID and
// linked person are assigned by the store.
func NewUser(email, displayName, passwordHash string) *User {
	return &User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
