// internal/models/session.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// BrandBrief captures the brand side of a negotiation: what the campaign
// needs and how much money is on the table. Budget is expressed in Currency
// and every amount derived from it stays in that currency.
type BrandBrief struct {
	Name                string         `json:"name" validate:"required"`
	Budget              float64        `json:"budget" validate:"required,gt=0"`
	Currency            string         `json:"currency" validate:"required,currency_code"`
	Goals               pq.StringArray `json:"goals" gorm:"type:text[]"`
	TargetPlatforms     pq.StringArray `json:"target_platforms" gorm:"type:text[]"`
	ContentRequirements map[ContentType]int `json:"content_requirements" gorm:"serializer:json;type:jsonb"`
	CampaignDays        int            `json:"campaign_days" validate:"required,gt=0"`
	TargetAudience      string         `json:"target_audience"`
	Guidelines          string         `json:"guidelines"`
	Location            Location       `json:"location"`
	BrandID             *uuid.UUID     `json:"brand_id,omitempty"`
}

// InfluencerProfile is the creator side of a negotiation. EngagementRate is
// a fraction (0.045 means 4.5%).
type InfluencerProfile struct {
	Name           string         `json:"name" validate:"required"`
	Followers      int64          `json:"followers" validate:"required,gt=0"`
	EngagementRate float64        `json:"engagement_rate" validate:"gte=0,lte=1"`
	Location       Location       `json:"location"`
	Platforms      pq.StringArray `json:"platforms" gorm:"type:text[]"`
	Niches         pq.StringArray `json:"niches" gorm:"type:text[]"`
	Collaborations int            `json:"collaborations" validate:"gte=0"`
	InfluencerID   *uuid.UUID     `json:"influencer_id,omitempty"`
}

// Deliverable is one priced unit of content work. UnitRate and LineTotal are
// the single canonical names for the final per-unit price and the final line
// total; no other field carries either value.
type Deliverable struct {
	Platform    Platform    `json:"platform"`
	ContentType ContentType `json:"content_type"`
	Quantity    int         `json:"quantity"`
	UnitRate    float64     `json:"unit_rate"`
	LineTotal   float64     `json:"line_total"`
	Notes       string      `json:"notes,omitempty"`
}

// Offer is a complete proposed price for one round. Offers are immutable
// once recorded; a new round appends a new Offer.
type Offer struct {
	Total        float64       `json:"total"`
	Currency     string        `json:"currency"`
	Deliverables []Deliverable `json:"deliverables"`
	Strategy     StrategyTag   `json:"strategy"`
	Round        int           `json:"round"`
	IssuedBy     OfferSide     `json:"issued_by"`
	PaymentTerms string        `json:"payment_terms"`
	UsageRights  string        `json:"usage_rights"`
	Revisions    int           `json:"revisions"`
	IssuedAt     time.Time     `json:"issued_at"`
}

// TranscriptEntry is one turn of the conversation.
type TranscriptEntry struct {
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NegotiationSession owns its offers and transcript exclusively. The offer
// list and transcript are append-only; Round never decreases; Status moves
// only along the negotiation state machine.
type NegotiationSession struct {
	BaseModel
	Brief      BrandBrief        `json:"brief" gorm:"serializer:json;type:jsonb"`
	Influencer InfluencerProfile `json:"influencer" gorm:"serializer:json;type:jsonb"`
	Offers     []Offer           `json:"offers" gorm:"serializer:json;type:jsonb"`
	Transcript []TranscriptEntry `json:"transcript" gorm:"serializer:json;type:jsonb"`
	Round      int               `json:"round" gorm:"not null;default:1"`
	Status     SessionStatus     `json:"status" gorm:"type:varchar(20);not null;default:'initiated';index"`

	// Ceiling is the maximum amount the brand side may concede to, fixed at
	// initial-proposal time. TotalMarketCost is kept for audit only; after
	// the initial proposal the ceiling is the sole constraint.
	Ceiling         float64 `json:"ceiling"`
	TotalMarketCost float64 `json:"total_market_cost"`

	AgreedTerms *Offer     `json:"agreed_terms,omitempty" gorm:"serializer:json;type:jsonb"`
	UserID      *uuid.UUID `json:"user_id,omitempty" gorm:"type:uuid;index"`

	// Relationships
	Contract *Contract `json:"contract,omitempty" gorm:"foreignKey:SessionID"`
}

// CurrentOffer returns the latest offer, or nil before the initial proposal.
func (s *NegotiationSession) CurrentOffer() *Offer {
	if len(s.Offers) == 0 {
		return nil
	}
	return &s.Offers[len(s.Offers)-1]
}

// AppendOffer records a new offer as the current one.
func (s *NegotiationSession) AppendOffer(o Offer) {
	s.Offers = append(s.Offers, o)
}

// AppendTranscript records one conversation turn.
func (s *NegotiationSession) AppendTranscript(speaker, text string) {
	s.Transcript = append(s.Transcript, TranscriptEntry{
		Speaker:   speaker,
		Text:      text,
		Timestamp: time.Now().UTC(),
	})
}
