// internal/pricing/engine.go
package pricing

import (
	"fmt"
	"math"

	"github.com/creatorbridge/negotiation-backend/internal/models"
)

// UnsupportedContentTypeError marks an unknown platform/content-type pair.
// It is fatal to the computation that hit it and surfaced to the caller.
type UnsupportedContentTypeError struct {
	Platform    models.Platform
	ContentType models.ContentType
}

func (e *UnsupportedContentTypeError) Error() string {
	return fmt.Sprintf("unsupported content type %q on platform %q", e.ContentType, e.Platform)
}

// BudgetInvalidError marks a non-positive budget at session start or edit.
type BudgetInvalidError struct {
	Budget float64
}

func (e *BudgetInvalidError) Error() string {
	return fmt.Sprintf("budget must be positive, got %.2f", e.Budget)
}

// Policy holds the negotiation knobs. OverageThreshold and Flexibility are
// fractions: the defaults mean market rates up to 20% over budget stay
// negotiable, and the brand may concede up to 15% over budget.
type Policy struct {
	OverageThreshold float64
	Flexibility      float64
	DiscloseCeiling  bool
}

func DefaultPolicy() Policy {
	return Policy{
		OverageThreshold: 0.20,
		Flexibility:      0.15,
		DiscloseCeiling:  false,
	}
}

// MarketRate is the fair-market cost of a requirement set, in the brand's
// currency. Zero-quantity requirements never appear in Items.
type MarketRate struct {
	Items    []models.Deliverable `json:"items"`
	Total    float64              `json:"total"`
	Currency string               `json:"currency"`
}

// Proposal is the budget-constrained opening offer. Every line item carries
// its final unit rate and line total under those two names only.
type Proposal struct {
	Items             []models.Deliverable `json:"items"`
	BrandBudget       float64              `json:"brand_budget"`
	Ceiling           float64              `json:"ceiling"`
	TotalMarketCost   float64              `json:"total_market_cost"`
	FinalProposedCost float64              `json:"final_proposed_cost"`
	Strategy          models.StrategyTag   `json:"strategy"`
	WithinFlexibility bool                 `json:"within_flexibility"`
	Currency          string               `json:"currency"`
}

// CounterDecision is the outcome of evaluating one counter-offer.
type CounterDecision struct {
	Accepted bool
	// NewTotal is the amount the current offer becomes: the proposed amount
	// when accepted, the unchanged prior amount when rejected.
	NewTotal float64
}

// Engine computes market rates and budget-constrained proposals.
type Engine struct {
	model  *Model
	policy Policy
}

func NewEngine(model *Model, policy Policy) *Engine {
	return &Engine{model: model, policy: policy}
}

func (e *Engine) Policy() Policy { return e.policy }
func (e *Engine) Model() *Model  { return e.model }

// ComputeMarketRate prices every positive-quantity requirement:
// unit rate = base rate x engagement factor x follower factor x location
// multiplier. Zero-quantity entries are excluded before any arithmetic runs,
// so they can never end up in a denominator. Unknown platform/content pairs
// fail the whole computation.
func (e *Engine) ComputeMarketRate(profile models.InfluencerProfile, requirements map[models.ContentType]int, currency string) (MarketRate, error) {
	rate := MarketRate{Currency: currency}

	for _, contentType := range orderedContentTypes(requirements) {
		quantity := requirements[contentType]
		if quantity <= 0 {
			continue
		}

		platform := contentType.Platform()
		base, err := e.model.BaseRate(platform, contentType)
		if err != nil {
			return MarketRate{}, err
		}
		cfg, _ := e.model.PlatformConfig(platform)

		// Engagement rate is a fraction; pricing works in percentage points.
		engagementFactor := profile.EngagementRate * 100 * cfg.EngagementWeight
		if engagementFactor < 0.1 {
			engagementFactor = 0.1
		}
		followerFactor := float64(profile.Followers) / 1000 * cfg.FollowerWeight
		if followerFactor < 1.0 {
			followerFactor = 1.0
		}

		unitRate := round2(base * engagementFactor * followerFactor * e.model.LocationMultiplier(profile.Location))
		lineTotal := round2(unitRate * float64(quantity))

		rate.Items = append(rate.Items, models.Deliverable{
			Platform:    platform,
			ContentType: contentType,
			Quantity:    quantity,
			UnitRate:    unitRate,
			LineTotal:   lineTotal,
		})
		rate.Total = round2(rate.Total + lineTotal)
	}

	return rate, nil
}

// ComputeBudgetConstrainedProposal applies the three-tier policy:
//
//  1. market <= budget: propose at market, line items unchanged.
//  2. market within the overage threshold: open at exactly the budget and
//     record the ceiling (budget x (1+flexibility)) as the most the brand
//     may concede to. The proposal never drifts back toward market rate.
//  3. market beyond the threshold: treat budget x (1+flexibility) as a hard
//     cap and scale every line item by the same ratio.
//
// The ceiling is fixed here, once, for the life of the session.
func (e *Engine) ComputeBudgetConstrainedProposal(budget float64, market MarketRate) (Proposal, error) {
	if budget <= 0 {
		return Proposal{}, &BudgetInvalidError{Budget: budget}
	}

	ceiling := round2(budget * (1 + e.policy.Flexibility))
	proposal := Proposal{
		BrandBudget:       budget,
		Ceiling:           ceiling,
		TotalMarketCost:   market.Total,
		WithinFlexibility: market.Total <= ceiling,
		Currency:          market.Currency,
	}

	switch {
	case market.Total <= budget:
		proposal.Strategy = models.StrategyWithinBudget
		proposal.Items = cloneItems(market.Items)
		proposal.FinalProposedCost = market.Total

	case market.Total <= round2(budget*(1+e.policy.OverageThreshold)):
		proposal.Strategy = models.StrategyNegotiableAboveBudget
		proposal.Items = scaleItems(market.Items, budget/market.Total)
		proposal.FinalProposedCost = budget

	default:
		proposal.Strategy = models.StrategyScaleToMaxBudget
		proposal.Items = scaleItems(market.Items, ceiling/market.Total)
		proposal.FinalProposedCost = ceiling
	}

	return proposal, nil
}

// EvaluateCounterOffer decides one counter-offer against the ceiling fixed
// at proposal time. Asking for less than the current offer is always
// accepted; anything up to the ceiling is accepted; beyond the ceiling the
// offer stays where it was. Market rate is never consulted here.
func (e *Engine) EvaluateCounterOffer(currentOffer, proposed, ceiling float64) CounterDecision {
	if proposed <= currentOffer {
		return CounterDecision{Accepted: true, NewTotal: proposed}
	}
	if proposed <= ceiling {
		return CounterDecision{Accepted: true, NewTotal: proposed}
	}
	return CounterDecision{Accepted: false, NewTotal: currentOffer}
}

// ScaleDeliverables reprices line items proportionally to a renegotiated
// total, e.g. when a counter-offer lands between the current offer and the
// ceiling. Quantities never change; only rates do.
func (e *Engine) ScaleDeliverables(items []models.Deliverable, currentTotal, newTotal float64) []models.Deliverable {
	if currentTotal == 0 {
		return cloneItems(items)
	}
	return scaleItems(items, newTotal/currentTotal)
}

func scaleItems(items []models.Deliverable, ratio float64) []models.Deliverable {
	scaled := make([]models.Deliverable, len(items))
	for i, item := range items {
		item.UnitRate = round2(item.UnitRate * ratio)
		item.LineTotal = round2(item.LineTotal * ratio)
		scaled[i] = item
	}
	return scaled
}

func cloneItems(items []models.Deliverable) []models.Deliverable {
	cloned := make([]models.Deliverable, len(items))
	copy(cloned, items)
	return cloned
}

// orderedContentTypes keeps pricing output deterministic across runs.
func orderedContentTypes(requirements map[models.ContentType]int) []models.ContentType {
	known := []models.ContentType{
		models.ContentInstagramPost,
		models.ContentInstagramReel,
		models.ContentInstagramStory,
		models.ContentYouTubeLongForm,
		models.ContentYouTubeShorts,
		models.ContentTikTokVideo,
		models.ContentLinkedInPost,
		models.ContentLinkedInVideo,
		models.ContentTwitterPost,
		models.ContentTwitterVideo,
	}
	ordered := make([]models.ContentType, 0, len(requirements))
	for _, ct := range known {
		if _, ok := requirements[ct]; ok {
			ordered = append(ordered, ct)
		}
	}
	// Unknown keys still surface so BaseRate can reject them.
	for ct := range requirements {
		if ct.Platform() == "" {
			ordered = append(ordered, ct)
		}
	}
	return ordered
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
