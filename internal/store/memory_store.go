// internal/store/memory_store.go
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/creatorbridge/negotiation-backend/internal/models"
)

// MemorySessionStore is a map-backed SessionStore used by tests and local
// development without a database.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]models.NegotiationSession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[uuid.UUID]models.NegotiationSession)}
}

func (s *MemorySessionStore) Get(id uuid.UUID) (*models.NegotiationSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (s *MemorySessionStore) Put(session *models.NegotiationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	session.UpdatedAt = time.Now().UTC()
	s.sessions[session.ID] = *session
	return nil
}

func (s *MemorySessionStore) List(filter SessionFilter) ([]models.NegotiationSession, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.NegotiationSession
	for _, session := range s.sessions {
		if filter.Status != nil && session.Status != *filter.Status {
			continue
		}
		if filter.UserID != nil && (session.UserID == nil || *session.UserID != *filter.UserID) {
			continue
		}
		if filter.BrandID != nil && (session.Brief.BrandID == nil || *session.Brief.BrandID != *filter.BrandID) {
			continue
		}
		if filter.InfluencerID != nil && (session.Influencer.InfluencerID == nil || *session.Influencer.InfluencerID != *filter.InfluencerID) {
			continue
		}
		matched = append(matched, session)
	}
	return matched, int64(len(matched)), nil
}

// MemoryContractStore is a map-backed ContractStore.
type MemoryContractStore struct {
	mu        sync.RWMutex
	contracts map[uuid.UUID]models.Contract
}

func NewMemoryContractStore() *MemoryContractStore {
	return &MemoryContractStore{contracts: make(map[uuid.UUID]models.Contract)}
}

func (s *MemoryContractStore) Get(id uuid.UUID) (*models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contract, ok := s.contracts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &contract, nil
}

func (s *MemoryContractStore) GetBySession(sessionID uuid.UUID) (*models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, contract := range s.contracts {
		if contract.SessionID == sessionID {
			c := contract
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryContractStore) Put(contract *models.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if contract.ID == uuid.Nil {
		contract.ID = uuid.New()
	}
	if contract.CreatedAt.IsZero() {
		contract.CreatedAt = time.Now().UTC()
	}
	contract.UpdatedAt = time.Now().UTC()
	s.contracts[contract.ID] = *contract
	return nil
}

func (s *MemoryContractStore) List(filter ContractFilter) ([]models.Contract, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []models.Contract
	for _, contract := range s.contracts {
		if filter.Status != nil && contract.Status != *filter.Status {
			continue
		}
		matched = append(matched, contract)
	}
	return matched, int64(len(matched)), nil
}
