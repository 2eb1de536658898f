// internal/store/store.go
package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/creatorbridge/negotiation-backend/internal/models"
)

var ErrNotFound = errors.New("record not found")

// SessionFilter narrows session listings. Nil fields match everything.
type SessionFilter struct {
	BrandID      *uuid.UUID
	InfluencerID *uuid.UUID
	UserID       *uuid.UUID
	Status       *models.SessionStatus
	Page         int
	Limit        int
}

// SessionStore persists negotiation sessions. Implementations must give
// read-your-writes consistency for a single session id.
type SessionStore interface {
	Get(id uuid.UUID) (*models.NegotiationSession, error)
	Put(session *models.NegotiationSession) error
	List(filter SessionFilter) ([]models.NegotiationSession, int64, error)
}

// ContractFilter narrows contract listings.
type ContractFilter struct {
	Status *models.ContractStatus
	Page   int
	Limit  int
}

// ContractStore persists contracts.
type ContractStore interface {
	Get(id uuid.UUID) (*models.Contract, error)
	GetBySession(sessionID uuid.UUID) (*models.Contract, error)
	Put(contract *models.Contract) error
	List(filter ContractFilter) ([]models.Contract, int64, error)
}
