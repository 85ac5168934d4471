// Package store is the query and aggregation layer over the outreach schema.
// Every operation takes the explicit database handle held by the Store and
// returns a result type specific to that operation; nothing here keeps state
// beyond the connection.
package store

import (
	"github.com/dawat-dev/dawat/internal/models"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Listing page bounds.
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// UserRef is the display subset of a user attached to rows they created.
type UserRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func userRef(u models.User) UserRef {
	return UserRef{Name: u.Name, Email: u.Email}
}
