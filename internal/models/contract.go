// internal/models/contract.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Signature is one party's digital signature. Once attached it is never
// replaced; signing twice for the same role is an invalid-state error.
type Signature struct {
	ID        uuid.UUID  `json:"id"`
	Role      SignerRole `json:"role"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	IPAddress string     `json:"ip_address"`
	UserAgent string     `json:"user_agent"`
	SignedAt  time.Time  `json:"signed_at"`
}

// Contract is the executed form of an agreed negotiation. Terms are a
// denormalized snapshot of the session's final offer; the contract never
// writes back to its session.
type Contract struct {
	BaseModel
	SessionID      uuid.UUID      `json:"session_id" gorm:"type:uuid;not null;uniqueIndex"`
	ContractNumber string         `json:"contract_number" gorm:"size:32;uniqueIndex"`
	Status         ContractStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending_signatures';index"`

	// Parties
	BrandName       string `json:"brand_name" gorm:"size:255;not null"`
	BrandEmail      string `json:"brand_email" gorm:"size:255"`
	InfluencerName  string `json:"influencer_name" gorm:"size:255;not null"`
	InfluencerEmail string `json:"influencer_email" gorm:"size:255"`

	// Agreed terms
	Title        string        `json:"title" gorm:"size:255"`
	Description  string        `json:"description" gorm:"type:text"`
	Deliverables []Deliverable `json:"deliverables" gorm:"serializer:json;type:jsonb"`
	TotalAmount  float64       `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	Currency     string        `json:"currency" gorm:"size:3;not null"`
	PaymentTerms string        `json:"payment_terms" gorm:"type:text"`
	UsageRights  string        `json:"usage_rights" gorm:"type:text"`
	Revisions    int           `json:"revisions"`

	CampaignStart time.Time `json:"campaign_start"`
	CampaignEnd   time.Time `json:"campaign_end"`

	// Legal boilerplate
	CancellationPolicy string `json:"cancellation_policy" gorm:"type:text"`
	DisputeResolution  string `json:"dispute_resolution" gorm:"type:text"`
	GoverningLaw       string `json:"governing_law" gorm:"size:255"`

	BrandSignature      *Signature `json:"brand_signature,omitempty" gorm:"serializer:json;type:jsonb"`
	InfluencerSignature *Signature `json:"influencer_signature,omitempty" gorm:"serializer:json;type:jsonb"`
}

// SignatureFor returns the signature slot for a role, nil when unsigned.
func (c *Contract) SignatureFor(role SignerRole) *Signature {
	if role == SignerRoleBrand {
		return c.BrandSignature
	}
	return c.InfluencerSignature
}

func (c *Contract) FullySigned() bool {
	return c.BrandSignature != nil && c.InfluencerSignature != nil
}
