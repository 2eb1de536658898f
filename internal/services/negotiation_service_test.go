// internal/services/negotiation_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorbridge/negotiation-backend/internal/models"
	"github.com/creatorbridge/negotiation-backend/internal/pricing"
	"github.com/creatorbridge/negotiation-backend/internal/store"
)

func newTestNegotiationService(t *testing.T) (*NegotiationService, *ContractService) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	engine := pricing.NewEngine(pricing.NewModel(), pricing.DefaultPolicy())
	contracts := NewContractService(store.NewMemoryContractStore(), nil, nil, nil, nil, logger)
	negotiations := NewNegotiationService(
		store.NewMemorySessionStore(),
		engine,
		NewTemplateService(),
		NewRuleBasedClassifier(),
		contracts,
		nil,
		logger,
	)
	return negotiations, contracts
}

// Instagram creator against a 500 USD budget: market comes out at 388.80,
// ceiling at 575.00.
func testStartRequest() *StartSessionRequest {
	return &StartSessionRequest{
		Brief: models.BrandBrief{
			Name:     "GlowUp Cosmetics",
			Budget:   500,
			Currency: "USD",
			ContentRequirements: map[models.ContentType]int{
				models.ContentInstagramPost: 2,
			},
			CampaignDays: 30,
			Location:     models.LocationUS,
		},
		Influencer: models.InfluencerProfile{
			Name:           "Alex Rivera",
			Followers:      20000,
			EngagementRate: 0.045,
			Location:       models.LocationUS,
		},
	}
}

func startTestSession(t *testing.T, svc *NegotiationService) *models.NegotiationSession {
	t.Helper()
	reply, err := svc.StartSession(context.Background(), nil, testStartRequest())
	require.NoError(t, err)
	return reply.Session
}

func TestStartSession(t *testing.T) {
	svc, _ := newTestNegotiationService(t)

	reply, err := svc.StartSession(context.Background(), nil, testStartRequest())
	require.NoError(t, err)

	session := reply.Session
	assert.Equal(t, models.SessionStatusProposed, session.Status)
	assert.Equal(t, 1, session.Round)
	assert.InDelta(t, 575.00, session.Ceiling, 0.01)
	assert.InDelta(t, 388.80, session.TotalMarketCost, 0.01)

	require.Len(t, session.Offers, 1)
	offer := session.Offers[0]
	assert.Equal(t, models.StrategyWithinBudget, offer.Strategy)
	assert.Equal(t, models.OfferSideBrand, offer.IssuedBy)
	assert.InDelta(t, 388.80, offer.Total, 0.01)
	assert.Equal(t, "50% advance, 50% on completion", offer.PaymentTerms)
	assert.Equal(t, 2, offer.Revisions)

	// Greeting plus proposal on record.
	assert.Len(t, session.Transcript, 2)
	assert.NotEmpty(t, reply.Reply)

	// Persisted already.
	stored, err := svc.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusProposed, stored.Status)
}

func TestStartSessionUnsupportedContentType(t *testing.T) {
	svc, _ := newTestNegotiationService(t)

	req := testStartRequest()
	req.Brief.ContentRequirements = map[models.ContentType]int{
		models.ContentType("facebook_post"): 1,
	}

	_, err := svc.StartSession(context.Background(), nil, req)
	require.Error(t, err)
}

func TestAcceptanceEmitsContract(t *testing.T) {
	svc, contracts := newTestNegotiationService(t)
	session := startTestSession(t, svc)

	reply, err := svc.ContinueSession(context.Background(), session.ID, &MessageRequest{
		Message: "Sounds good, let's do it!",
	})
	require.NoError(t, err)

	updated := reply.Session
	assert.Equal(t, models.SessionStatusAgreed, updated.Status)
	require.NotNil(t, updated.AgreedTerms)
	assert.InDelta(t, 388.80, updated.AgreedTerms.Total, 0.01)

	require.NotNil(t, updated.Contract)
	assert.Equal(t, models.ContractStatusPendingSignatures, updated.Contract.Status)

	contract, err := contracts.GetBySession(session.ID)
	require.NoError(t, err)
	assert.InDelta(t, 388.80, contract.TotalAmount, 0.01)
	assert.Equal(t, "USD", contract.Currency)
}

func TestRejectionClosesSession(t *testing.T) {
	svc, contracts := newTestNegotiationService(t)
	session := startTestSession(t, svc)

	reply, err := svc.ContinueSession(context.Background(), session.ID, &MessageRequest{
		Message: "No thanks, I'll pass on this one.",
	})
	require.NoError(t, err)

	assert.Equal(t, models.SessionStatusRejected, reply.Session.Status)
	assert.Nil(t, reply.Session.AgreedTerms)

	_, err = contracts.GetBySession(session.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCounterOfferWithinCeilingAccepted(t *testing.T) {
	svc, _ := newTestNegotiationService(t)
	session := startTestSession(t, svc)

	reply, err := svc.ContinueSession(context.Background(), session.ID, &MessageRequest{
		Message: "Can you do 500?",
	})
	require.NoError(t, err)

	// The accepted amount becomes the new standing offer; the session stays
	// open until the influencer explicitly accepts.
	updated := reply.Session
	assert.Equal(t, models.SessionStatusProposed, updated.Status)
	assert.Equal(t, 2, updated.Round)
	assert.Nil(t, updated.AgreedTerms)
	assert.Nil(t, updated.Contract)

	// Initial proposal, influencer counter, updated brand offer.
	require.Len(t, updated.Offers, 3)
	counter := updated.Offers[1]
	assert.Equal(t, models.OfferSideInfluencer, counter.IssuedBy)
	assert.InDelta(t, 500.00, counter.Total, 0.01)

	current := updated.CurrentOffer()
	assert.Equal(t, models.OfferSideBrand, current.IssuedBy)
	assert.InDelta(t, 500.00, current.Total, 0.01)

	// Deliverables scaled to the new total, quantities untouched.
	require.Len(t, current.Deliverables, 1)
	item := current.Deliverables[0]
	assert.Equal(t, 2, item.Quantity)
	assert.InDelta(t, 250.00, item.UnitRate, 0.01)
	assert.InDelta(t, 500.00, item.LineTotal, 0.01)
}

func TestMultiRoundCounterSequence(t *testing.T) {
	svc, contracts := newTestNegotiationService(t)
	session := startTestSession(t, svc)

	// Round 2: counter at 500, under the 575 ceiling, becomes the new offer.
	reply, err := svc.ContinueSession(context.Background(), session.ID, &MessageRequest{
		Message: "Can you do 500?",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusProposed, reply.Session.Status)
	assert.Equal(t, 2, reply.Session.Round)
	assert.InDelta(t, 500.00, reply.Session.CurrentOffer().Total, 0.01)

	// Round 3: counter above the ceiling is rejected; the 500 offer holds.
	reply, err = svc.ContinueSession(context.Background(), session.ID, &MessageRequest{
		Message: "I need at least 600 for this scope.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusProposed, reply.Session.Status)
	assert.Equal(t, 3, reply.Session.Round)
	assert.InDelta(t, 500.00, reply.Session.CurrentOffer().Total, 0.01)
	assert.Nil(t, reply.Session.AgreedTerms)

	// No offer in the history ever exceeded the ceiling.
	for _, offer := range reply.Session.Offers {
		if offer.IssuedBy == models.OfferSideBrand {
			assert.LessOrEqual(t, offer.Total, reply.Session.Ceiling)
		}
	}

	// Explicit acceptance closes the deal at the standing 500 offer.
	reply, err = svc.ContinueSession(context.Background(), session.ID, &MessageRequest{
		Message: "Sounds good, let's do it!",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusAgreed, reply.Session.Status)
	assert.Equal(t, 3, reply.Session.Round)
	require.NotNil(t, reply.Session.AgreedTerms)
	assert.InDelta(t, 500.00, reply.Session.AgreedTerms.Total, 0.01)

	contract, err := contracts.GetBySession(session.ID)
	require.NoError(t, err)
	assert.InDelta(t, 500.00, contract.TotalAmount, 0.01)
}

func TestCounterOfferAboveCeilingRejected(t *testing.T) {
	svc, _ := newTestNegotiationService(t)
	session := startTestSession(t, svc)

	reply, err := svc.ContinueSession(context.Background(), session.ID, &MessageRequest{
		Message: "I need at least 600 for this scope.",
	})
	require.NoError(t, err)

	updated := reply.Session
	// The turn goes back to the influencer with the prior terms re-issued.
	assert.Equal(t, models.SessionStatusProposed, updated.Status)
	assert.Equal(t, 2, updated.Round)
	assert.Nil(t, updated.AgreedTerms)
	assert.Nil(t, updated.Contract)

	require.Len(t, updated.Offers, 3)
	reoffer := updated.CurrentOffer()
	assert.Equal(t, models.OfferSideBrand, reoffer.IssuedBy)
	assert.InDelta(t, 388.80, reoffer.Total, 0.01)
	assert.Equal(t, 2, reoffer.Round)
}

func TestCounterWithoutAmountAsksForClarification(t *testing.T) {
	svc, _ := newTestNegotiationService(t)
	session := startTestSession(t, svc)

	reply, err := svc.ContinueSession(context.Background(), session.ID, &MessageRequest{
		Message: "Could we discuss the rate?",
	})
	require.NoError(t, err)

	// No state change: same status, same round, no new offers.
	updated := reply.Session
	assert.Equal(t, models.SessionStatusProposed, updated.Status)
	assert.Equal(t, 1, updated.Round)
	assert.Len(t, updated.Offers, 1)
	assert.Contains(t, reply.Reply, "388.80 USD")
}

func TestQuestionDoesNotAdvanceState(t *testing.T) {
	svc, _ := newTestNegotiationService(t)
	session := startTestSession(t, svc)

	reply, err := svc.ContinueSession(context.Background(), session.ID, &MessageRequest{
		Message: "What platforms does this campaign cover?",
	})
	require.NoError(t, err)

	assert.Equal(t, models.SessionStatusProposed, reply.Session.Status)
	assert.Len(t, reply.Session.Offers, 1)
}

func TestMessageToTerminalSessionFails(t *testing.T) {
	svc, _ := newTestNegotiationService(t)
	session := startTestSession(t, svc)

	_, err := svc.ContinueSession(context.Background(), session.ID, &MessageRequest{
		Message: "No thanks.",
	})
	require.NoError(t, err)

	_, err = svc.ContinueSession(context.Background(), session.ID, &MessageRequest{
		Message: "Actually, I accept!",
	})
	require.Error(t, err)

	var stateErr *InvalidStateTransitionError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, string(models.SessionStatusRejected), stateErr.From)

	// The rejected message never touched the stored session.
	stored, err := svc.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusRejected, stored.Status)
	for _, entry := range stored.Transcript {
		assert.NotContains(t, entry.Text, "Actually, I accept!")
	}
}

func TestUpdateBudgetReprices(t *testing.T) {
	svc, _ := newTestNegotiationService(t)
	session := startTestSession(t, svc)

	// Shrinking the budget to 300 pushes market 388.80 beyond the 20%
	// threshold: the proposal scales to the new ceiling 345.00.
	reply, err := svc.UpdateBudget(context.Background(), session.ID, &UpdateBudgetRequest{Budget: 300})
	require.NoError(t, err)

	updated := reply.Session
	assert.Equal(t, models.SessionStatusProposed, updated.Status)
	assert.Equal(t, 2, updated.Round)
	assert.InDelta(t, 345.00, updated.Ceiling, 0.01)
	assert.InDelta(t, 300.00, updated.Brief.Budget, 0.01)

	offer := updated.CurrentOffer()
	assert.Equal(t, models.StrategyScaleToMaxBudget, offer.Strategy)
	assert.InDelta(t, 345.00, offer.Total, 0.01)
}

func TestUpdateDeliverablesReprices(t *testing.T) {
	svc, _ := newTestNegotiationService(t)
	session := startTestSession(t, svc)

	reply, err := svc.UpdateDeliverables(context.Background(), session.ID, &UpdateDeliverablesRequest{
		ContentRequirements: map[models.ContentType]int{
			models.ContentInstagramPost: 1,
		},
	})
	require.NoError(t, err)

	updated := reply.Session
	assert.Equal(t, 2, updated.Round)
	offer := updated.CurrentOffer()
	assert.Equal(t, models.StrategyWithinBudget, offer.Strategy)
	assert.InDelta(t, 194.40, offer.Total, 0.01)
	require.Len(t, offer.Deliverables, 1)
	assert.Equal(t, 1, offer.Deliverables[0].Quantity)
}

func TestRepriceBlockedOnTerminalSession(t *testing.T) {
	svc, _ := newTestNegotiationService(t)
	session := startTestSession(t, svc)

	_, err := svc.Cancel(context.Background(), session.ID, "brand withdrew")
	require.NoError(t, err)

	_, err = svc.UpdateBudget(context.Background(), session.ID, &UpdateBudgetRequest{Budget: 1000})
	var stateErr *InvalidStateTransitionError
	require.ErrorAs(t, err, &stateErr)
}

func TestCancelSession(t *testing.T) {
	svc, _ := newTestNegotiationService(t)
	session := startTestSession(t, svc)

	cancelled, err := svc.Cancel(context.Background(), session.ID, "campaign postponed")
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCancelled, cancelled.Status)

	last := cancelled.Transcript[len(cancelled.Transcript)-1]
	assert.Equal(t, "campaign postponed", last.Text)

	// Cancelling twice fails.
	_, err = svc.Cancel(context.Background(), session.ID, "")
	require.Error(t, err)
}

func TestSummary(t *testing.T) {
	svc, _ := newTestNegotiationService(t)
	session := startTestSession(t, svc)

	summary, err := svc.Summary(session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusProposed, summary.Status)
	assert.Equal(t, "GlowUp Cosmetics", summary.BrandName)
	assert.InDelta(t, 388.80, summary.CurrentTotal, 0.01)
	assert.InDelta(t, 575.00, summary.Ceiling, 0.01)
	assert.Nil(t, summary.ContractID)

	_, err = svc.ContinueSession(context.Background(), session.ID, &MessageRequest{
		Message: "Sounds good, let's do it!",
	})
	require.NoError(t, err)

	summary, err = svc.Summary(session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusAgreed, summary.Status)
	assert.InDelta(t, 388.80, summary.AgreedTotal, 0.01)
	assert.NotNil(t, summary.ContractID)
}
