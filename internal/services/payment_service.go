// internal/services/payment_service.go
package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/creatorbridge/negotiation-backend/internal/config"
	"github.com/creatorbridge/negotiation-backend/internal/models"
)

// PaymentService moves the advance payment once a contract is fully
// executed. Every attempt leaves a Transaction row in the contract's
// currency; amounts are never converted.
type PaymentService struct {
	db     *gorm.DB
	config *config.Config
}

func NewPaymentService(db *gorm.DB, config *config.Config) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: config,
	}
}

// ProcessAdvancePayment creates the advance PaymentIntent for an executed
// contract. Idempotent per contract: an existing advance transaction is
// returned as-is.
func (s *PaymentService) ProcessAdvancePayment(contract *models.Contract) (*models.Transaction, error) {
	if contract.Status != models.ContractStatusFullyExecuted {
		return nil, &InvalidStateTransitionError{
			Entity:    "contract",
			From:      string(contract.Status),
			Operation: "advance payment",
		}
	}

	if s.db != nil {
		var existing models.Transaction
		err := s.db.Where("contract_id = ? AND transaction_type = ?",
			contract.ID, models.TransactionTypeAdvancePayment).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	advance := math.Round(contract.TotalAmount*s.config.Payment.AdvancePercent) / 100

	transaction := &models.Transaction{
		ContractID:      contract.ID,
		TransactionType: models.TransactionTypeAdvancePayment,
		Amount:          advance,
		Currency:        contract.Currency,
		Status:          models.TransactionStatusPending,
	}

	if s.config.Payment.StripeSecretKey != "" {
		params := &stripe.PaymentIntentParams{
			Amount:   stripe.Int64(int64(advance * 100)),
			Currency: stripe.String(strings.ToLower(contract.Currency)),
		}
		params.AddMetadata("contract_id", contract.ID.String())
		params.AddMetadata("transaction_type", string(models.TransactionTypeAdvancePayment))

		pi, err := paymentintent.New(params)
		if err != nil {
			transaction.Status = models.TransactionStatusFailed
			s.saveTransaction(transaction)
			return nil, fmt.Errorf("failed to create payment intent: %w", err)
		}
		transaction.PaymentReference = pi.ID
	}

	if err := s.saveTransaction(transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

// ConfirmPayment reconciles a transaction with its PaymentIntent state.
func (s *PaymentService) ConfirmPayment(paymentIntentID string) (*models.Transaction, error) {
	if s.db == nil {
		return nil, fmt.Errorf("payment confirmation requires a database")
	}

	var transaction models.Transaction
	if err := s.db.Where("payment_reference = ?", paymentIntentID).First(&transaction).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("transaction not found for payment intent %s", paymentIntentID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	pi, err := paymentintent.Get(paymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment intent: %w", err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		now := time.Now().UTC()
		transaction.Status = models.TransactionStatusCompleted
		transaction.ProcessedAt = &now
	case stripe.PaymentIntentStatusCanceled:
		transaction.Status = models.TransactionStatusFailed
	default:
		transaction.Status = models.TransactionStatusPending
	}

	if err := s.db.Save(&transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return &transaction, nil
}

func (s *PaymentService) ListByContract(contractID string) ([]models.Transaction, error) {
	if s.db == nil {
		return nil, nil
	}
	var transactions []models.Transaction
	if err := s.db.Where("contract_id = ?", contractID).Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

func (s *PaymentService) saveTransaction(transaction *models.Transaction) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}
