// internal/services/contract_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/creatorbridge/negotiation-backend/internal/models"
	"github.com/creatorbridge/negotiation-backend/internal/store"
	"github.com/creatorbridge/negotiation-backend/internal/utils"
)

// ContractService turns an agreed negotiation into a signed contract. One
// contract per session, ever: emission is idempotent and signing follows the
// PENDING_SIGNATURES -> one-side-signed -> FULLY_EXECUTED lifecycle.
type ContractService struct {
	contracts     store.ContractStore
	documents     *DocumentService
	storage       *StorageService
	payments      *PaymentService
	notifications *NotificationService
	logger        *logrus.Logger
}

func NewContractService(
	contracts store.ContractStore,
	documents *DocumentService,
	storage *StorageService,
	payments *PaymentService,
	notifications *NotificationService,
	logger *logrus.Logger,
) *ContractService {
	return &ContractService{
		contracts:     contracts,
		documents:     documents,
		storage:       storage,
		payments:      payments,
		notifications: notifications,
		logger:        logger,
	}
}

type SignContractRequest struct {
	Role  models.SignerRole `json:"role" validate:"required,oneof=brand influencer"`
	Name  string            `json:"name" validate:"required,min=2,max=255"`
	Email string            `json:"email" validate:"required,email"`
}

type CancelContractRequest struct {
	Reason string `json:"reason,omitempty"`
}

// EmitForSession creates the contract for an agreed session, or returns the
// existing one. The contract snapshots the agreed offer; it never reads the
// session again afterwards.
func (s *ContractService) EmitForSession(ctx context.Context, session *models.NegotiationSession) (*models.Contract, error) {
	if session.AgreedTerms == nil {
		return nil, &InvalidStateTransitionError{
			Entity:    "negotiation session",
			From:      string(session.Status),
			Operation: "contract emission",
		}
	}

	if existing, err := s.contracts.GetBySession(session.ID); err == nil {
		return existing, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	terms := session.AgreedTerms
	campaignStart := time.Now().UTC().AddDate(0, 0, 7)
	campaignDays := session.Brief.CampaignDays
	if campaignDays <= 0 {
		campaignDays = 30
	}

	contractNumber, err := utils.GenerateContractNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate contract number: %w", err)
	}

	contract := &models.Contract{
		SessionID:       session.ID,
		ContractNumber:  contractNumber,
		Status:          models.ContractStatusPendingSignatures,
		BrandName:       session.Brief.Name,
		BrandEmail:      defaultBrandEmail(session.Brief.Name),
		InfluencerName:  session.Influencer.Name,
		InfluencerEmail: defaultInfluencerEmail(session.Influencer.Name),

		Title:        fmt.Sprintf("%s x %s Collaboration", session.Brief.Name, session.Influencer.Name),
		Description:  fmt.Sprintf("Influencer marketing campaign for %s across %s", session.Brief.Name, strings.Join(session.Brief.TargetPlatforms, ", ")),
		Deliverables: terms.Deliverables,
		TotalAmount:  terms.Total,
		Currency:     terms.Currency,
		PaymentTerms: terms.PaymentTerms,
		UsageRights:  terms.UsageRights,
		Revisions:    terms.Revisions,

		CampaignStart: campaignStart,
		CampaignEnd:   campaignStart.AddDate(0, 0, campaignDays),

		CancellationPolicy: cancellationPolicy,
		DisputeResolution:  disputeResolution,
		GoverningLaw:       governingLaw(session.Brief.Location),
	}

	if err := s.contracts.Put(contract); err != nil {
		return nil, fmt.Errorf("failed to persist contract: %w", err)
	}

	s.archiveDocument(ctx, contract)
	s.notifyContractReady(contract)

	s.logger.WithFields(logrus.Fields{
		"contract_id": contract.ID,
		"session_id":  session.ID,
		"total":       contract.TotalAmount,
	}).Info("contract emitted")

	return contract, nil
}

// Sign attaches one party's signature. Signing twice for the same role fails
// with AlreadySignedError; signing a terminal contract fails with an
// invalid-state error. When the second signature lands the contract becomes
// fully executed and the advance payment is kicked off.
func (s *ContractService) Sign(ctx context.Context, contractID uuid.UUID, req *SignContractRequest, ipAddress, userAgent string) (*models.Contract, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	contract, err := s.contracts.Get(contractID)
	if err != nil {
		return nil, err
	}

	if contract.Status.Terminal() {
		return nil, &InvalidStateTransitionError{
			Entity:    "contract",
			From:      string(contract.Status),
			Operation: "sign",
		}
	}

	if contract.SignatureFor(req.Role) != nil {
		return nil, &AlreadySignedError{Role: string(req.Role)}
	}

	signature := &models.Signature{
		ID:        uuid.New(),
		Role:      req.Role,
		Name:      req.Name,
		Email:     req.Email,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		SignedAt:  time.Now().UTC(),
	}

	if req.Role == models.SignerRoleBrand {
		contract.BrandSignature = signature
	} else {
		contract.InfluencerSignature = signature
	}

	if contract.FullySigned() {
		contract.Status = models.ContractStatusFullyExecuted
	} else if req.Role == models.SignerRoleBrand {
		contract.Status = models.ContractStatusBrandSigned
	} else {
		contract.Status = models.ContractStatusInfluencerSigned
	}

	if err := s.contracts.Put(contract); err != nil {
		return nil, fmt.Errorf("failed to persist contract: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"contract_id": contract.ID,
		"role":        req.Role,
		"status":      contract.Status,
	}).Info("contract signed")

	if contract.Status == models.ContractStatusFullyExecuted {
		s.onFullyExecuted(ctx, contract)
	} else {
		s.notifySignature(contract, signature)
	}

	return contract, nil
}

// Cancel voids a contract that is not yet fully executed.
func (s *ContractService) Cancel(ctx context.Context, contractID uuid.UUID, reason string) (*models.Contract, error) {
	contract, err := s.contracts.Get(contractID)
	if err != nil {
		return nil, err
	}

	if contract.Status.Terminal() {
		return nil, &InvalidStateTransitionError{
			Entity:    "contract",
			From:      string(contract.Status),
			Operation: "cancel",
		}
	}

	contract.Status = models.ContractStatusCancelled
	if err := s.contracts.Put(contract); err != nil {
		return nil, fmt.Errorf("failed to persist contract: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"contract_id": contract.ID,
		"reason":      reason,
	}).Info("contract cancelled")

	return contract, nil
}

func (s *ContractService) Get(contractID uuid.UUID) (*models.Contract, error) {
	return s.contracts.Get(contractID)
}

func (s *ContractService) GetBySession(sessionID uuid.UUID) (*models.Contract, error) {
	return s.contracts.GetBySession(sessionID)
}

func (s *ContractService) List(filter store.ContractFilter) ([]models.Contract, int64, error) {
	return s.contracts.List(filter)
}

// Document renders the printable contract. Rendering is pure: calling it
// twice for the same contract state yields identical bytes.
func (s *ContractService) Document(contractID uuid.UUID) ([]byte, string, error) {
	contract, err := s.contracts.Get(contractID)
	if err != nil {
		return nil, "", err
	}

	document, err := s.documents.Render(contract)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render contract document: %w", err)
	}

	return document, utils.HashString(string(document)), nil
}

func (s *ContractService) onFullyExecuted(ctx context.Context, contract *models.Contract) {
	s.archiveDocument(ctx, contract)

	if s.payments != nil {
		if _, err := s.payments.ProcessAdvancePayment(contract); err != nil {
			s.logger.WithError(err).WithField("contract_id", contract.ID).Error("advance payment failed")
		}
	}
	if s.notifications != nil {
		if err := s.notifications.SendContractExecutedNotification(contract); err != nil {
			s.logger.WithError(err).WithField("contract_id", contract.ID).Warn("execution notification failed")
		}
	}
}

// archiveDocument snapshots the rendered document to object storage. Archive
// failures are logged, never fatal: the contract record is the source of
// truth and the document can always be re-rendered.
func (s *ContractService) archiveDocument(ctx context.Context, contract *models.Contract) {
	if s.storage == nil || s.documents == nil {
		return
	}
	document, err := s.documents.Render(contract)
	if err != nil {
		s.logger.WithError(err).WithField("contract_id", contract.ID).Warn("contract render for archive failed")
		return
	}
	if _, err := s.storage.ArchiveContractDocument(contract, document); err != nil {
		s.logger.WithError(err).WithField("contract_id", contract.ID).Warn("contract archive failed")
	}
}

func (s *ContractService) notifyContractReady(contract *models.Contract) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.SendContractReadyNotification(contract); err != nil {
		s.logger.WithError(err).WithField("contract_id", contract.ID).Warn("contract-ready notification failed")
	}
}

func (s *ContractService) notifySignature(contract *models.Contract, signature *models.Signature) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.SendContractSignedNotification(contract, signature); err != nil {
		s.logger.WithError(err).WithField("contract_id", contract.ID).Warn("signature notification failed")
	}
}

const cancellationPolicy = `Either party may terminate this agreement with 7 days written notice. If terminated by the brand, completed deliverables are paid in full plus 50% for work in progress. If terminated by the influencer without cause, the advance payment is refunded minus completed work. Completed content may be used by the brand as per the usage rights terms.`

const disputeResolution = `Any disputes arising from this agreement shall be resolved through: (1) good faith negotiation for 30 days, (2) mediation with a mutually agreed mediator for 60 days, (3) binding arbitration as final resort. Both parties waive the right to jury trial for disputes under this agreement.`

// governingLaw follows the brand's location; unknown markets default to
// Delaware.
func governingLaw(location models.Location) string {
	switch location {
	case models.LocationUS:
		return "State of Delaware, United States"
	case models.LocationUK:
		return "England and Wales"
	case models.LocationCanada:
		return "Province of Ontario, Canada"
	case models.LocationAustralia:
		return "State of New South Wales, Australia"
	case models.LocationGermany:
		return "Laws of Germany"
	case models.LocationFrance:
		return "Laws of France"
	case models.LocationJapan:
		return "Laws of Japan"
	case models.LocationBrazil:
		return "Laws of Brazil"
	case models.LocationIndia:
		return "Laws of India"
	default:
		return "State of Delaware, United States"
	}
}

func defaultBrandEmail(brandName string) string {
	return "legal@" + strings.ReplaceAll(strings.ToLower(brandName), " ", "") + ".com"
}

func defaultInfluencerEmail(influencerName string) string {
	return strings.ReplaceAll(strings.ToLower(influencerName), " ", ".") + "@email.com"
}
