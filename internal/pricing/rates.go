// internal/pricing/rates.go
package pricing

import (
	"github.com/creatorbridge/negotiation-backend/internal/models"
)

// PlatformConfig holds the static pricing reference data for one platform.
// Base rates are per content piece per 1k followers, expressed as
// currency-neutral scalars; amounts computed from them are denominated in
// whatever currency the brand brief carries.
type PlatformConfig struct {
	Name             string
	BaseRates        map[models.ContentType]float64
	EngagementWeight float64
	FollowerWeight   float64
}

// CulturalProfile is display-hint data for the templating layer. Core
// negotiation logic never branches on it; the only numeric location input
// to pricing is the location multiplier.
type CulturalProfile struct {
	Tone              string `json:"tone"`
	PaymentPreference string `json:"payment_preference"`
	FlexibilityNorms  string `json:"flexibility_norms"`
}

// Model is the rate model: pure lookups over static tables.
type Model struct {
	platforms           map[models.Platform]PlatformConfig
	locationMultipliers map[models.Location]float64
	culturalProfiles    map[models.Location]CulturalProfile
}

func NewModel() *Model {
	return &Model{
		platforms: map[models.Platform]PlatformConfig{
			models.PlatformInstagram: {
				Name: "Instagram",
				BaseRates: map[models.ContentType]float64{
					models.ContentInstagramPost:  1.0,
					models.ContentInstagramReel:  1.5,
					models.ContentInstagramStory: 0.3,
				},
				EngagementWeight: 1.2,
				FollowerWeight:   1.0,
			},
			models.PlatformYouTube: {
				Name: "YouTube",
				BaseRates: map[models.ContentType]float64{
					models.ContentYouTubeLongForm: 2.0,
					models.ContentYouTubeShorts:   1.0,
				},
				EngagementWeight: 1.5,
				FollowerWeight:   1.2,
			},
			models.PlatformLinkedIn: {
				Name: "LinkedIn",
				BaseRates: map[models.ContentType]float64{
					models.ContentLinkedInPost:  0.8,
					models.ContentLinkedInVideo: 1.3,
				},
				EngagementWeight: 1.8,
				FollowerWeight:   0.8,
			},
			models.PlatformTikTok: {
				Name: "TikTok",
				BaseRates: map[models.ContentType]float64{
					models.ContentTikTokVideo: 1.2,
				},
				EngagementWeight: 1.3,
				FollowerWeight:   1.1,
			},
			models.PlatformTwitter: {
				Name: "Twitter",
				BaseRates: map[models.ContentType]float64{
					models.ContentTwitterPost:  0.5,
					models.ContentTwitterVideo: 0.8,
				},
				EngagementWeight: 1.0,
				FollowerWeight:   0.7,
			},
		},
		locationMultipliers: map[models.Location]float64{
			models.LocationUS:        1.8,
			models.LocationUK:        1.6,
			models.LocationCanada:    1.5,
			models.LocationAustralia: 1.4,
			models.LocationGermany:   1.3,
			models.LocationFrance:    1.2,
			models.LocationJapan:     1.1,
			models.LocationBrazil:    0.8,
			models.LocationIndia:     0.6,
			models.LocationOther:     1.0,
		},
		culturalProfiles: map[models.Location]CulturalProfile{
			models.LocationIndia: {
				Tone:              "relationship_first",
				PaymentPreference: "50% advance, 50% on completion (milestone-based)",
				FlexibilityNorms:  "extended back-and-forth expected",
			},
			models.LocationUS: {
				Tone:              "direct",
				PaymentPreference: "50% upfront, 50% within NET-30 terms",
				FlexibilityNorms:  "one or two counter rounds typical",
			},
			models.LocationUK: {
				Tone:              "formal",
				PaymentPreference: "50% advance, 50% on completion",
				FlexibilityNorms:  "one or two counter rounds typical",
			},
			models.LocationJapan: {
				Tone:              "formal",
				PaymentPreference: "payment on completion via bank transfer",
				FlexibilityNorms:  "counter-offers uncommon",
			},
			models.LocationBrazil: {
				Tone:              "warm",
				PaymentPreference: "50% advance, 50% on completion",
				FlexibilityNorms:  "extended back-and-forth expected",
			},
		},
	}
}

// BaseRate returns the per-1k-follower base rate for a platform/content-type
// pair. Unknown pairs are an error, not a fallback.
func (m *Model) BaseRate(platform models.Platform, contentType models.ContentType) (float64, error) {
	cfg, ok := m.platforms[platform]
	if !ok {
		return 0, &UnsupportedContentTypeError{Platform: platform, ContentType: contentType}
	}
	rate, ok := cfg.BaseRates[contentType]
	if !ok {
		return 0, &UnsupportedContentTypeError{Platform: platform, ContentType: contentType}
	}
	return rate, nil
}

// PlatformConfig returns the full config for a platform.
func (m *Model) PlatformConfig(platform models.Platform) (PlatformConfig, bool) {
	cfg, ok := m.platforms[platform]
	return cfg, ok
}

// LocationMultiplier returns the pricing multiplier for a location. Unknown
// locations fall back to the neutral 1.0 multiplier by policy.
func (m *Model) LocationMultiplier(location models.Location) float64 {
	if mult, ok := m.locationMultipliers[location]; ok {
		return mult
	}
	return m.locationMultipliers[models.LocationOther]
}

// CulturalProfile returns display hints for a location; unknown locations
// get a neutral profile.
func (m *Model) CulturalProfile(location models.Location) CulturalProfile {
	if p, ok := m.culturalProfiles[location]; ok {
		return p
	}
	return CulturalProfile{
		Tone:              "neutral",
		PaymentPreference: "50% advance, 50% on completion",
		FlexibilityNorms:  "one or two counter rounds typical",
	}
}

// Platforms lists all supported platforms with their configs, for the
// reference-data endpoints.
func (m *Model) Platforms() map[models.Platform]PlatformConfig {
	return m.platforms
}

// Locations lists all known location multipliers.
func (m *Model) Locations() map[models.Location]float64 {
	return m.locationMultipliers
}
