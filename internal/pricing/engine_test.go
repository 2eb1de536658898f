// internal/pricing/engine_test.go
package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorbridge/negotiation-backend/internal/models"
)

func testEngine() *Engine {
	return NewEngine(NewModel(), DefaultPolicy())
}

// Instagram creator: 20k followers, 4.5% engagement, US market.
// unit rate = 1.0 (base) x 5.4 (engagement) x 20 (followers) x 1.8 (location)
func testProfile() models.InfluencerProfile {
	return models.InfluencerProfile{
		Name:           "Alex Rivera",
		Followers:      20000,
		EngagementRate: 0.045,
		Location:       models.LocationUS,
	}
}

func TestComputeMarketRate(t *testing.T) {
	engine := testEngine()

	rate, err := engine.ComputeMarketRate(testProfile(), map[models.ContentType]int{
		models.ContentInstagramPost: 2,
	}, "USD")
	require.NoError(t, err)

	require.Len(t, rate.Items, 1)
	item := rate.Items[0]
	assert.Equal(t, models.PlatformInstagram, item.Platform)
	assert.Equal(t, 2, item.Quantity)
	assert.InDelta(t, 194.40, item.UnitRate, 0.01)
	assert.InDelta(t, 388.80, item.LineTotal, 0.01)
	assert.InDelta(t, 388.80, rate.Total, 0.01)
	assert.Equal(t, "USD", rate.Currency)
}

func TestComputeMarketRateSkipsZeroQuantities(t *testing.T) {
	engine := testEngine()

	rate, err := engine.ComputeMarketRate(testProfile(), map[models.ContentType]int{
		models.ContentInstagramPost:  1,
		models.ContentInstagramReel:  0,
		models.ContentInstagramStory: 4,
	}, "USD")
	require.NoError(t, err)

	// The zero-quantity reel never reaches the arithmetic.
	require.Len(t, rate.Items, 2)
	for _, item := range rate.Items {
		assert.NotEqual(t, models.ContentInstagramReel, item.ContentType)
		assert.Greater(t, item.Quantity, 0)
	}
}

func TestComputeMarketRateUnknownPairFails(t *testing.T) {
	engine := testEngine()

	_, err := engine.ComputeMarketRate(testProfile(), map[models.ContentType]int{
		models.ContentType("facebook_post"): 1,
	}, "USD")
	require.Error(t, err)

	var contentErr *UnsupportedContentTypeError
	assert.True(t, errors.As(err, &contentErr))
}

func TestComputeMarketRateClampsFactors(t *testing.T) {
	engine := testEngine()

	// Tiny account: both engagement and follower factors hit their floors.
	profile := models.InfluencerProfile{
		Name:           "Nano Creator",
		Followers:      500,
		EngagementRate: 0,
		Location:       models.LocationOther,
	}

	rate, err := engine.ComputeMarketRate(profile, map[models.ContentType]int{
		models.ContentInstagramPost: 1,
	}, "EUR")
	require.NoError(t, err)

	// 1.0 base x 0.1 engagement floor x 1.0 follower floor x 1.0 location
	require.Len(t, rate.Items, 1)
	assert.InDelta(t, 0.10, rate.Items[0].UnitRate, 0.001)
}

func TestProposalWithinBudget(t *testing.T) {
	engine := testEngine()

	market := MarketRate{
		Items: []models.Deliverable{{
			Platform: models.PlatformInstagram, ContentType: models.ContentInstagramPost,
			Quantity: 2, UnitRate: 194.40, LineTotal: 388.80,
		}},
		Total:    388.80,
		Currency: "USD",
	}

	proposal, err := engine.ComputeBudgetConstrainedProposal(500, market)
	require.NoError(t, err)

	assert.Equal(t, models.StrategyWithinBudget, proposal.Strategy)
	assert.InDelta(t, 388.80, proposal.FinalProposedCost, 0.01)
	assert.InDelta(t, 575.00, proposal.Ceiling, 0.01)
	assert.True(t, proposal.WithinFlexibility)
	// Line items pass through unscaled.
	assert.InDelta(t, 194.40, proposal.Items[0].UnitRate, 0.01)
}

func TestProposalNegotiableAboveBudget(t *testing.T) {
	engine := testEngine()

	market := MarketRate{
		Items: []models.Deliverable{{
			Platform: models.PlatformInstagram, ContentType: models.ContentInstagramPost,
			Quantity: 2, UnitRate: 1127.52, LineTotal: 2255.04,
		}},
		Total:    2255.04,
		Currency: "USD",
	}

	// Market is 12.75% over budget: inside the 20% overage threshold.
	proposal, err := engine.ComputeBudgetConstrainedProposal(2000, market)
	require.NoError(t, err)

	assert.Equal(t, models.StrategyNegotiableAboveBudget, proposal.Strategy)
	assert.InDelta(t, 2000.00, proposal.FinalProposedCost, 0.01)
	assert.InDelta(t, 2300.00, proposal.Ceiling, 0.01)
	assert.InDelta(t, 2255.04, proposal.TotalMarketCost, 0.01)
	assert.True(t, proposal.WithinFlexibility)

	// The opening offer is exactly the budget, not a drift back to market.
	total := 0.0
	for _, item := range proposal.Items {
		total += item.LineTotal
	}
	assert.InDelta(t, 2000.00, total, 0.01)
}

func TestProposalScaleToMaxBudget(t *testing.T) {
	engine := testEngine()

	market := MarketRate{
		Items: []models.Deliverable{{
			Platform: models.PlatformYouTube, ContentType: models.ContentYouTubeLongForm,
			Quantity: 4, UnitRate: 466560.00, LineTotal: 1866240.00,
		}},
		Total:    1866240.00,
		Currency: "USD",
	}

	proposal, err := engine.ComputeBudgetConstrainedProposal(2000, market)
	require.NoError(t, err)

	assert.Equal(t, models.StrategyScaleToMaxBudget, proposal.Strategy)
	assert.InDelta(t, 2300.00, proposal.FinalProposedCost, 0.01)
	assert.InDelta(t, 2300.00, proposal.Ceiling, 0.01)
	assert.False(t, proposal.WithinFlexibility)

	// Every line item is scaled by the same ratio; quantities are untouched.
	require.Len(t, proposal.Items, 1)
	assert.Equal(t, 4, proposal.Items[0].Quantity)
	assert.InDelta(t, 2300.00, proposal.Items[0].LineTotal, 0.01)
}

func TestProposalInvalidBudget(t *testing.T) {
	engine := testEngine()

	for _, budget := range []float64{0, -100} {
		_, err := engine.ComputeBudgetConstrainedProposal(budget, MarketRate{Total: 100, Currency: "USD"})
		require.Error(t, err)

		var budgetErr *BudgetInvalidError
		assert.True(t, errors.As(err, &budgetErr))
	}
}

func TestProposalCurrencyPassthrough(t *testing.T) {
	engine := testEngine()

	// Identical numbers in a different currency produce identical amounts:
	// the engine never converts.
	for _, currency := range []string{"USD", "EUR", "INR"} {
		market := MarketRate{Total: 2255.04, Currency: currency}
		proposal, err := engine.ComputeBudgetConstrainedProposal(2000, market)
		require.NoError(t, err)
		assert.InDelta(t, 2000.00, proposal.FinalProposedCost, 0.01)
		assert.Equal(t, currency, proposal.Currency)
	}
}

func TestEvaluateCounterOffer(t *testing.T) {
	engine := testEngine()

	// Current offer 2000, ceiling 2300.
	cases := []struct {
		name     string
		proposed float64
		accepted bool
		newTotal float64
	}{
		{"below current", 1800, true, 1800},
		{"at current", 2000, true, 2000},
		{"within ceiling", 2200, true, 2200},
		{"at ceiling", 2300, true, 2300},
		{"above ceiling", 2600, false, 2000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision := engine.EvaluateCounterOffer(2000, tc.proposed, 2300)
			assert.Equal(t, tc.accepted, decision.Accepted)
			assert.InDelta(t, tc.newTotal, decision.NewTotal, 0.01)
		})
	}
}

func TestScaleDeliverables(t *testing.T) {
	engine := testEngine()

	items := []models.Deliverable{
		{Quantity: 2, UnitRate: 500, LineTotal: 1000},
		{Quantity: 1, UnitRate: 1000, LineTotal: 1000},
	}

	scaled := engine.ScaleDeliverables(items, 2000, 2200)

	assert.InDelta(t, 550, scaled[0].UnitRate, 0.01)
	assert.InDelta(t, 1100, scaled[0].LineTotal, 0.01)
	assert.InDelta(t, 1100, scaled[1].UnitRate, 0.01)
	assert.Equal(t, 2, scaled[0].Quantity)

	// Originals untouched.
	assert.InDelta(t, 500, items[0].UnitRate, 0.01)
}
