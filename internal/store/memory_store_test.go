// internal/store/memory_store_test.go
package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorbridge/negotiation-backend/internal/models"
)

func TestMemorySessionStore(t *testing.T) {
	s := NewMemorySessionStore()

	session := &models.NegotiationSession{
		Brief:  models.BrandBrief{Name: "GlowUp Cosmetics", Budget: 500, Currency: "USD"},
		Status: models.SessionStatusProposed,
	}
	require.NoError(t, s.Put(session))
	assert.NotEqual(t, uuid.Nil, session.ID)
	assert.False(t, session.CreatedAt.IsZero())

	got, err := s.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, "GlowUp Cosmetics", got.Brief.Name)

	// Stored copy is independent of later caller mutations.
	got.Brief.Name = "mutated"
	again, err := s.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, "GlowUp Cosmetics", again.Brief.Name)

	_, err = s.Get(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySessionStoreFilters(t *testing.T) {
	s := NewMemorySessionStore()

	brandID := uuid.New()
	userID := uuid.New()

	proposed := &models.NegotiationSession{
		Brief:  models.BrandBrief{Name: "A", BrandID: &brandID},
		Status: models.SessionStatusProposed,
		UserID: &userID,
	}
	agreed := &models.NegotiationSession{
		Brief:  models.BrandBrief{Name: "B"},
		Status: models.SessionStatusAgreed,
	}
	require.NoError(t, s.Put(proposed))
	require.NoError(t, s.Put(agreed))

	status := models.SessionStatusProposed
	matched, total, err := s.List(SessionFilter{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "A", matched[0].Brief.Name)

	matched, _, err = s.List(SessionFilter{BrandID: &brandID})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "A", matched[0].Brief.Name)

	matched, _, err = s.List(SessionFilter{UserID: &userID})
	require.NoError(t, err)
	assert.Len(t, matched, 1)

	other := uuid.New()
	_, total, err = s.List(SessionFilter{UserID: &other})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestMemoryContractStore(t *testing.T) {
	s := NewMemoryContractStore()

	sessionID := uuid.New()
	contract := &models.Contract{
		SessionID: sessionID,
		Status:    models.ContractStatusPendingSignatures,
	}
	require.NoError(t, s.Put(contract))
	assert.NotEqual(t, uuid.Nil, contract.ID)

	bySession, err := s.GetBySession(sessionID)
	require.NoError(t, err)
	assert.Equal(t, contract.ID, bySession.ID)

	_, err = s.GetBySession(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	status := models.ContractStatusPendingSignatures
	_, total, err := s.List(ContractFilter{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	executed := models.ContractStatusFullyExecuted
	_, total, err = s.List(ContractFilter{Status: &executed})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
