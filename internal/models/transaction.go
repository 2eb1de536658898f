// internal/models/transaction.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction records a payment against an executed contract, in the
// contract's currency.
type Transaction struct {
	BaseModel
	ContractID       uuid.UUID         `json:"contract_id" gorm:"type:uuid;not null;index"`
	TransactionType  TransactionType   `json:"transaction_type" gorm:"type:varchar(20);not null;index"`
	Amount           float64           `json:"amount" gorm:"type:decimal(12,2);not null"`
	Currency         string            `json:"currency" gorm:"size:3;not null"`
	PaymentReference string            `json:"payment_reference" gorm:"size:255"`
	Status           TransactionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ProcessedAt      *time.Time        `json:"processed_at"`

	// Relationships
	Contract Contract `json:"contract,omitempty" gorm:"foreignKey:ContractID"`
}
