// internal/pricing/rates_test.go
package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorbridge/negotiation-backend/internal/models"
)

func TestBaseRateLookups(t *testing.T) {
	model := NewModel()

	cases := []struct {
		platform    models.Platform
		contentType models.ContentType
		rate        float64
	}{
		{models.PlatformInstagram, models.ContentInstagramPost, 1.0},
		{models.PlatformInstagram, models.ContentInstagramReel, 1.5},
		{models.PlatformInstagram, models.ContentInstagramStory, 0.3},
		{models.PlatformYouTube, models.ContentYouTubeLongForm, 2.0},
		{models.PlatformLinkedIn, models.ContentLinkedInVideo, 1.3},
		{models.PlatformTikTok, models.ContentTikTokVideo, 1.2},
		{models.PlatformTwitter, models.ContentTwitterPost, 0.5},
	}

	for _, tc := range cases {
		rate, err := model.BaseRate(tc.platform, tc.contentType)
		require.NoError(t, err)
		assert.Equal(t, tc.rate, rate)
	}
}

func TestBaseRateUnknownPair(t *testing.T) {
	model := NewModel()

	// Known platform, wrong content type.
	_, err := model.BaseRate(models.PlatformInstagram, models.ContentYouTubeShorts)
	assert.Error(t, err)

	// Unknown platform entirely.
	_, err = model.BaseRate(models.Platform("facebook"), models.ContentInstagramPost)
	assert.Error(t, err)
}

func TestLocationMultiplierFallback(t *testing.T) {
	model := NewModel()

	assert.Equal(t, 1.8, model.LocationMultiplier(models.LocationUS))
	assert.Equal(t, 0.6, model.LocationMultiplier(models.LocationIndia))
	assert.Equal(t, 1.0, model.LocationMultiplier(models.Location("mars")))
}

func TestCulturalProfileFallback(t *testing.T) {
	model := NewModel()

	assert.Equal(t, "direct", model.CulturalProfile(models.LocationUS).Tone)
	assert.Equal(t, "relationship_first", model.CulturalProfile(models.LocationIndia).Tone)

	// Unlisted locations get the neutral profile, never an empty one.
	neutral := model.CulturalProfile(models.LocationGermany)
	assert.Equal(t, "neutral", neutral.Tone)
	assert.NotEmpty(t, neutral.PaymentPreference)
}
