// internal/services/negotiation_service.go
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/creatorbridge/negotiation-backend/internal/models"
	"github.com/creatorbridge/negotiation-backend/internal/pricing"
	"github.com/creatorbridge/negotiation-backend/internal/store"
	"github.com/creatorbridge/negotiation-backend/internal/utils"
)

const (
	defaultPaymentTerms = "50% advance, 50% on completion"
	defaultUsageRights  = "6 months social media usage"
	defaultRevisions    = 2

	speakerAgent      = "agent"
	speakerInfluencer = "influencer"
	speakerSystem     = "system"
)

// NegotiationService owns the negotiation state machine. All mutations of a
// session go through here, serialized per session: two concurrent messages to
// the same session are applied one after the other, never interleaved.
type NegotiationService struct {
	sessions      store.SessionStore
	engine        *pricing.Engine
	templates     *TemplateService
	classifier    IntentClassifier
	contracts     *ContractService
	notifications *NotificationService
	logger        *logrus.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewNegotiationService(
	sessions store.SessionStore,
	engine *pricing.Engine,
	templates *TemplateService,
	classifier IntentClassifier,
	contracts *ContractService,
	notifications *NotificationService,
	logger *logrus.Logger,
) *NegotiationService {
	return &NegotiationService{
		sessions:      sessions,
		engine:        engine,
		templates:     templates,
		classifier:    classifier,
		contracts:     contracts,
		notifications: notifications,
		logger:        logger,
		locks:         make(map[uuid.UUID]*sync.Mutex),
	}
}

type StartSessionRequest struct {
	Brief      models.BrandBrief        `json:"brief" validate:"required"`
	Influencer models.InfluencerProfile `json:"influencer" validate:"required"`
}

type MessageRequest struct {
	Message string `json:"message" validate:"required,min=1,max=4000"`
}

type UpdateDeliverablesRequest struct {
	ContentRequirements map[models.ContentType]int `json:"content_requirements" validate:"required"`
}

type UpdateBudgetRequest struct {
	Budget float64 `json:"budget" validate:"required"`
}

// SessionReply pairs the session after a transition with the agent's text
// response for that turn.
type SessionReply struct {
	Session *models.NegotiationSession `json:"session"`
	Reply   string                     `json:"reply"`
}

// SessionSummary is the read-model for dashboards: where the negotiation
// stands without the full transcript.
type SessionSummary struct {
	ID              uuid.UUID            `json:"id"`
	Status          models.SessionStatus `json:"status"`
	Round           int                  `json:"round"`
	BrandName       string               `json:"brand_name"`
	InfluencerName  string               `json:"influencer_name"`
	Currency        string               `json:"currency"`
	Budget          float64              `json:"budget"`
	CurrentTotal    float64              `json:"current_total"`
	Strategy        models.StrategyTag   `json:"strategy,omitempty"`
	Ceiling         float64              `json:"ceiling,omitempty"`
	TotalMarketCost float64              `json:"total_market_cost"`
	AgreedTotal     float64              `json:"agreed_total,omitempty"`
	ContractID      *uuid.UUID           `json:"contract_id,omitempty"`
	MessageCount    int                  `json:"message_count"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// StartSession prices the brief against the influencer profile and opens the
// negotiation with the budget-constrained proposal. The session is persisted
// already in PROPOSED state with the opening offer and greeting on record.
func (s *NegotiationService) StartSession(ctx context.Context, userID *uuid.UUID, req *StartSessionRequest) (*SessionReply, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	market, err := s.engine.ComputeMarketRate(req.Influencer, req.Brief.ContentRequirements, req.Brief.Currency)
	if err != nil {
		return nil, err
	}

	proposal, err := s.engine.ComputeBudgetConstrainedProposal(req.Brief.Budget, market)
	if err != nil {
		return nil, err
	}

	session := &models.NegotiationSession{
		Brief:           req.Brief,
		Influencer:      req.Influencer,
		Round:           1,
		Status:          models.SessionStatusInitiated,
		Ceiling:         proposal.Ceiling,
		TotalMarketCost: proposal.TotalMarketCost,
		UserID:          userID,
	}

	offer := models.Offer{
		Total:        proposal.FinalProposedCost,
		Currency:     proposal.Currency,
		Deliverables: proposal.Items,
		Strategy:     proposal.Strategy,
		Round:        1,
		IssuedBy:     models.OfferSideBrand,
		PaymentTerms: defaultPaymentTerms,
		UsageRights:  defaultUsageRights,
		Revisions:    defaultRevisions,
		IssuedAt:     time.Now().UTC(),
	}

	greeting := s.templates.Greeting(req.Brief, proposal)
	proposalText := s.templates.Proposal(req.Brief, offer, proposal.Strategy, proposal.Ceiling, s.engine.Policy().DiscloseCeiling)

	session.AppendOffer(offer)
	session.AppendTranscript(speakerAgent, greeting)
	session.AppendTranscript(speakerAgent, proposalText)
	session.Status = models.SessionStatusProposed

	if err := s.sessions.Put(session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"strategy":   proposal.Strategy,
		"market":     proposal.TotalMarketCost,
		"proposed":   proposal.FinalProposedCost,
	}).Info("negotiation session started")

	return &SessionReply{Session: session, Reply: proposalText}, nil
}

// ContinueSession applies one influencer message to the session. The message
// is classified before anything is mutated; if classification or any pricing
// step fails, the session is left exactly as it was.
func (s *NegotiationService) ContinueSession(ctx context.Context, sessionID uuid.UUID, req *MessageRequest) (*SessionReply, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status.Terminal() {
		return nil, &InvalidStateTransitionError{
			Entity:    "negotiation session",
			From:      string(session.Status),
			Operation: "message",
		}
	}

	intent, err := s.classifier.Classify(ctx, req.Message)
	if err != nil {
		return nil, fmt.Errorf("intent classification failed: %w", err)
	}

	session.AppendTranscript(speakerInfluencer, req.Message)

	var reply string
	switch intent.Type {
	case IntentAccept:
		reply, err = s.applyAcceptance(ctx, session)
	case IntentReject:
		reply = s.applyRejection(session)
	case IntentCounterOffer:
		reply, err = s.applyCounterOffer(ctx, session, intent)
	default:
		reply = s.templates.Clarification(session.CurrentOffer())
	}
	if err != nil {
		return nil, err
	}

	session.AppendTranscript(speakerAgent, reply)

	if err := s.sessions.Put(session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return &SessionReply{Session: session, Reply: reply}, nil
}

func (s *NegotiationService) applyAcceptance(ctx context.Context, session *models.NegotiationSession) (string, error) {
	current := session.CurrentOffer()
	if current == nil {
		return "", &InvalidStateTransitionError{
			Entity:    "negotiation session",
			From:      string(session.Status),
			Operation: "accept",
		}
	}

	agreed := *current
	session.Status = models.SessionStatusAgreed
	session.AgreedTerms = &agreed

	if err := s.emitContract(ctx, session); err != nil {
		return "", err
	}

	s.notifyAgreement(session)
	return s.templates.Agreement(agreed, session.Influencer), nil
}

func (s *NegotiationService) applyRejection(session *models.NegotiationSession) string {
	session.Status = models.SessionStatusRejected
	s.logger.WithField("session_id", session.ID).Info("negotiation rejected by influencer")
	return s.templates.Rejection(session.Brief.Name)
}

// applyCounterOffer records the influencer's counter and decides it against
// the ceiling fixed at proposal time. Market rate is never re-consulted.
func (s *NegotiationService) applyCounterOffer(ctx context.Context, session *models.NegotiationSession, intent Intent) (string, error) {
	current := session.CurrentOffer()
	if current == nil {
		return "", &InvalidStateTransitionError{
			Entity:    "negotiation session",
			From:      string(session.Status),
			Operation: "counter offer",
		}
	}

	if intent.Amount <= 0 {
		// Counter language without a discernible amount: ask, change nothing.
		return s.templates.Clarification(current), nil
	}

	session.Round++
	session.Status = models.SessionStatusCounterOffered
	session.AppendOffer(models.Offer{
		Total:        intent.Amount,
		Currency:     current.Currency,
		Deliverables: current.Deliverables,
		Round:        session.Round,
		IssuedBy:     models.OfferSideInfluencer,
		PaymentTerms: current.PaymentTerms,
		UsageRights:  current.UsageRights,
		Revisions:    current.Revisions,
		IssuedAt:     time.Now().UTC(),
	})

	decision := s.engine.EvaluateCounterOffer(current.Total, intent.Amount, session.Ceiling)
	if !decision.Accepted {
		// Re-issue the prior terms unchanged and hand the turn back.
		reoffer := *current
		reoffer.Round = session.Round
		reoffer.IssuedBy = models.OfferSideBrand
		reoffer.IssuedAt = time.Now().UTC()
		session.AppendOffer(reoffer)
		session.Status = models.SessionStatusProposed
		return s.templates.CounterRejected(intent.Amount, current.Total, current.Currency), nil
	}

	// The accepted amount becomes the brand's standing offer. The session
	// stays open: agreement only happens on an explicit acceptance turn.
	accepted := models.Offer{
		Total:        decision.NewTotal,
		Currency:     current.Currency,
		Deliverables: s.engine.ScaleDeliverables(current.Deliverables, current.Total, decision.NewTotal),
		Strategy:     current.Strategy,
		Round:        session.Round,
		IssuedBy:     models.OfferSideBrand,
		PaymentTerms: current.PaymentTerms,
		UsageRights:  current.UsageRights,
		Revisions:    current.Revisions,
		IssuedAt:     time.Now().UTC(),
	}
	session.AppendOffer(accepted)
	session.Status = models.SessionStatusProposed

	return s.templates.CounterAccepted(decision.NewTotal, current.Currency), nil
}

// UpdateDeliverables replaces the content requirements mid-negotiation and
// reprices from scratch: new market rate, new strategy, new ceiling. Only
// allowed while the session is still open.
func (s *NegotiationService) UpdateDeliverables(ctx context.Context, sessionID uuid.UUID, req *UpdateDeliverablesRequest) (*SessionReply, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	return s.reprice(session, session.Brief.Budget, req.ContentRequirements, "deliverables updated")
}

// UpdateBudget replaces the brand budget mid-negotiation and reprices. The
// ceiling moves with the new budget.
func (s *NegotiationService) UpdateBudget(ctx context.Context, sessionID uuid.UUID, req *UpdateBudgetRequest) (*SessionReply, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	return s.reprice(session, req.Budget, session.Brief.ContentRequirements, "budget updated")
}

// reprice recomputes market rate and proposal for an open session. All the
// derived state (ceiling, market cost, strategy) is replaced atomically: any
// failure leaves the session untouched.
func (s *NegotiationService) reprice(session *models.NegotiationSession, budget float64, requirements map[models.ContentType]int, note string) (*SessionReply, error) {
	if session.Status.Terminal() {
		return nil, &InvalidStateTransitionError{
			Entity:    "negotiation session",
			From:      string(session.Status),
			Operation: "reprice",
		}
	}

	market, err := s.engine.ComputeMarketRate(session.Influencer, requirements, session.Brief.Currency)
	if err != nil {
		return nil, err
	}
	proposal, err := s.engine.ComputeBudgetConstrainedProposal(budget, market)
	if err != nil {
		return nil, err
	}

	session.Brief.Budget = budget
	session.Brief.ContentRequirements = requirements
	session.Ceiling = proposal.Ceiling
	session.TotalMarketCost = proposal.TotalMarketCost
	session.Round++

	current := session.CurrentOffer()
	offer := models.Offer{
		Total:        proposal.FinalProposedCost,
		Currency:     proposal.Currency,
		Deliverables: proposal.Items,
		Strategy:     proposal.Strategy,
		Round:        session.Round,
		IssuedBy:     models.OfferSideBrand,
		PaymentTerms: defaultPaymentTerms,
		UsageRights:  defaultUsageRights,
		Revisions:    defaultRevisions,
		IssuedAt:     time.Now().UTC(),
	}
	if current != nil {
		offer.PaymentTerms = current.PaymentTerms
		offer.UsageRights = current.UsageRights
		offer.Revisions = current.Revisions
	}

	session.AppendOffer(offer)
	session.Status = models.SessionStatusProposed
	session.AppendTranscript(speakerSystem, note)

	reply := s.templates.Proposal(session.Brief, offer, proposal.Strategy, proposal.Ceiling, s.engine.Policy().DiscloseCeiling)
	session.AppendTranscript(speakerAgent, reply)

	if err := s.sessions.Put(session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return &SessionReply{Session: session, Reply: reply}, nil
}

// Cancel closes an open session without agreement.
func (s *NegotiationService) Cancel(ctx context.Context, sessionID uuid.UUID, reason string) (*models.NegotiationSession, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status.Terminal() {
		return nil, &InvalidStateTransitionError{
			Entity:    "negotiation session",
			From:      string(session.Status),
			Operation: "cancel",
		}
	}

	session.Status = models.SessionStatusCancelled
	if reason == "" {
		reason = "negotiation cancelled"
	}
	session.AppendTranscript(speakerSystem, reason)

	if err := s.sessions.Put(session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.WithField("session_id", session.ID).Info("negotiation session cancelled")
	return session, nil
}

func (s *NegotiationService) Get(sessionID uuid.UUID) (*models.NegotiationSession, error) {
	return s.sessions.Get(sessionID)
}

func (s *NegotiationService) List(filter store.SessionFilter) ([]models.NegotiationSession, int64, error) {
	return s.sessions.List(filter)
}

func (s *NegotiationService) Summary(sessionID uuid.UUID) (*SessionSummary, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	summary := &SessionSummary{
		ID:              session.ID,
		Status:          session.Status,
		Round:           session.Round,
		BrandName:       session.Brief.Name,
		InfluencerName:  session.Influencer.Name,
		Currency:        session.Brief.Currency,
		Budget:          session.Brief.Budget,
		Ceiling:         session.Ceiling,
		TotalMarketCost: session.TotalMarketCost,
		MessageCount:    len(session.Transcript),
		CreatedAt:       session.CreatedAt,
		UpdatedAt:       session.UpdatedAt,
	}
	if current := session.CurrentOffer(); current != nil {
		summary.CurrentTotal = current.Total
		summary.Strategy = current.Strategy
	}
	if session.AgreedTerms != nil {
		summary.AgreedTotal = session.AgreedTerms.Total
	}
	if session.Contract != nil {
		summary.ContractID = &session.Contract.ID
	} else if s.contracts != nil {
		if contract, err := s.contracts.GetBySession(session.ID); err == nil {
			summary.ContractID = &contract.ID
		}
	}
	return summary, nil
}

func (s *NegotiationService) emitContract(ctx context.Context, session *models.NegotiationSession) error {
	if s.contracts == nil {
		return nil
	}
	contract, err := s.contracts.EmitForSession(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to emit contract: %w", err)
	}
	session.Contract = contract
	return nil
}

func (s *NegotiationService) notifyAgreement(session *models.NegotiationSession) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.SendAgreementNotification(session); err != nil {
		s.logger.WithError(err).WithField("session_id", session.ID).Warn("agreement notification failed")
	}
}

// lockSession serializes all mutations of one session. Locks are kept for
// the life of the process; sessions are few and small.
func (s *NegotiationService) lockSession(sessionID uuid.UUID) func() {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
