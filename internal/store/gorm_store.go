// internal/store/gorm_store.go
package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorbridge/negotiation-backend/internal/models"
)

type GormSessionStore struct {
	db *gorm.DB
}

func NewGormSessionStore(db *gorm.DB) *GormSessionStore {
	return &GormSessionStore{db: db}
}

func (s *GormSessionStore) Get(id uuid.UUID) (*models.NegotiationSession, error) {
	var session models.NegotiationSession
	if err := s.db.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &session, nil
}

func (s *GormSessionStore) Put(session *models.NegotiationSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if err := s.db.Save(session).Error; err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *GormSessionStore) List(filter SessionFilter) ([]models.NegotiationSession, int64, error) {
	query := s.db.Model(&models.NegotiationSession{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.BrandID != nil {
		query = query.Where("brief->>'brand_id' = ?", filter.BrandID.String())
	}
	if filter.InfluencerID != nil {
		query = query.Where("influencer->>'influencer_id' = ?", filter.InfluencerID.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		query = query.Offset(offset).Limit(filter.Limit)
	}

	var sessions []models.NegotiationSession
	if err := query.Order("created_at DESC").Find(&sessions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, total, nil
}

type GormContractStore struct {
	db *gorm.DB
}

func NewGormContractStore(db *gorm.DB) *GormContractStore {
	return &GormContractStore{db: db}
}

func (s *GormContractStore) Get(id uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	if err := s.db.First(&contract, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &contract, nil
}

func (s *GormContractStore) GetBySession(sessionID uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	if err := s.db.First(&contract, "session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &contract, nil
}

func (s *GormContractStore) Put(contract *models.Contract) error {
	if contract.ID == uuid.Nil {
		contract.ID = uuid.New()
	}
	if err := s.db.Save(contract).Error; err != nil {
		return fmt.Errorf("failed to save contract: %w", err)
	}
	return nil
}

func (s *GormContractStore) List(filter ContractFilter) ([]models.Contract, int64, error) {
	query := s.db.Model(&models.Contract{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contracts: %w", err)
	}

	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		query = query.Offset(offset).Limit(filter.Limit)
	}

	var contracts []models.Contract
	if err := query.Order("created_at DESC").Find(&contracts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, total, nil
}
