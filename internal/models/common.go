// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserType string

const (
	UserTypeBrand      UserType = "brand"
	UserTypeInfluencer UserType = "influencer"
	UserTypeAdmin      UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
)

type ContentType string

const (
	ContentInstagramPost   ContentType = "instagram_post"
	ContentInstagramReel   ContentType = "instagram_reel"
	ContentInstagramStory  ContentType = "instagram_story"
	ContentYouTubeLongForm ContentType = "youtube_long_form"
	ContentYouTubeShorts   ContentType = "youtube_shorts"
	ContentTikTokVideo     ContentType = "tiktok_video"
	ContentLinkedInPost    ContentType = "linkedin_post"
	ContentLinkedInVideo   ContentType = "linkedin_video"
	ContentTwitterPost     ContentType = "twitter_post"
	ContentTwitterVideo    ContentType = "twitter_video"
)

// Platform returns the platform half of a content type key such as
// "instagram_post" or "youtube_long_form".
func (c ContentType) Platform() Platform {
	switch c {
	case ContentInstagramPost, ContentInstagramReel, ContentInstagramStory:
		return PlatformInstagram
	case ContentYouTubeLongForm, ContentYouTubeShorts:
		return PlatformYouTube
	case ContentTikTokVideo:
		return PlatformTikTok
	case ContentLinkedInPost, ContentLinkedInVideo:
		return PlatformLinkedIn
	case ContentTwitterPost, ContentTwitterVideo:
		return PlatformTwitter
	}
	return ""
}

type Location string

const (
	LocationUS        Location = "us"
	LocationUK        Location = "uk"
	LocationCanada    Location = "canada"
	LocationAustralia Location = "australia"
	LocationGermany   Location = "germany"
	LocationFrance    Location = "france"
	LocationJapan     Location = "japan"
	LocationBrazil    Location = "brazil"
	LocationIndia     Location = "india"
	LocationOther     Location = "other"
)

type SessionStatus string

const (
	SessionStatusInitiated      SessionStatus = "initiated"
	SessionStatusProposed       SessionStatus = "proposed"
	SessionStatusCounterOffered SessionStatus = "counter_offered"
	SessionStatusAgreed         SessionStatus = "agreed"
	SessionStatusRejected       SessionStatus = "rejected"
	SessionStatusCancelled      SessionStatus = "cancelled"
)

// Terminal reports whether no further negotiation transitions are allowed.
func (s SessionStatus) Terminal() bool {
	return s == SessionStatusAgreed || s == SessionStatusRejected || s == SessionStatusCancelled
}

type StrategyTag string

const (
	StrategyWithinBudget          StrategyTag = "within_budget"
	StrategyNegotiableAboveBudget StrategyTag = "negotiable_above_budget"
	StrategyScaleToMaxBudget      StrategyTag = "scale_to_max_budget"
)

type OfferSide string

const (
	OfferSideBrand      OfferSide = "brand"
	OfferSideInfluencer OfferSide = "influencer"
)

type ContractStatus string

const (
	ContractStatusPendingSignatures ContractStatus = "pending_signatures"
	ContractStatusBrandSigned       ContractStatus = "brand_signed"
	ContractStatusInfluencerSigned  ContractStatus = "influencer_signed"
	ContractStatusFullyExecuted     ContractStatus = "fully_executed"
	ContractStatusCancelled         ContractStatus = "cancelled"
)

func (s ContractStatus) Terminal() bool {
	return s == ContractStatusFullyExecuted || s == ContractStatusCancelled
}

type SignerRole string

const (
	SignerRoleBrand      SignerRole = "brand"
	SignerRoleInfluencer SignerRole = "influencer"
)

type TransactionType string

const (
	TransactionTypeAdvancePayment TransactionType = "advance_payment"
	TransactionTypeFinalPayment   TransactionType = "final_payment"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)
