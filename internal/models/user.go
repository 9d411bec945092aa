package models

// User represents a person who can pay for expenses or take part in them.
// Users are referenced by ID from every other model.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address (unique, optional).
	Email string

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64
}

// Category labels expenses (e.g., "Rent", "Groceries").
type Category struct {
	ID        string
	Name      string
	CreatedAt int64
}
