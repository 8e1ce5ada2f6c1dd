package entity

import (
	"github.com/google/uuid"
)

// User is an account holder. Password stores the bcrypt hash, never the
// plaintext, and is excluded from JSON.
type User struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Name     string    `db:"name" json:"name"`
	Email    string    `db:"email" json:"email"`
	Password string    `db:"password" json:"-"`
}
