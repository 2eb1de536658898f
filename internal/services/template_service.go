// internal/services/template_service.go
package services

import (
	"fmt"
	"strings"

	"github.com/creatorbridge/negotiation-backend/internal/models"
	"github.com/creatorbridge/negotiation-backend/internal/pricing"
)

// TemplateService renders the brand agent's side of the conversation. The
// agent always speaks for the brand; pricing decisions are made elsewhere and
// the templates only narrate them.
type TemplateService struct {
	culturalNotes bool
}

func NewTemplateService() *TemplateService {
	return &TemplateService{culturalNotes: true}
}

func (t *TemplateService) Greeting(brief models.BrandBrief, proposal pricing.Proposal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello! I'm representing %s and I'm excited to discuss a potential collaboration opportunity with you.\n\n", brief.Name)
	b.WriteString("We've reviewed your profile and believe you'd be a great fit for our upcoming campaign. Here's what we're looking for:\n\n")
	if len(brief.Goals) > 0 {
		fmt.Fprintf(&b, "Campaign goals: %s\n", strings.Join(brief.Goals, ", "))
	}
	fmt.Fprintf(&b, "Budget: %s\n", formatAmount(brief.Budget, brief.Currency))
	if len(brief.TargetPlatforms) > 0 {
		fmt.Fprintf(&b, "Target platforms: %s\n", strings.Join(brief.TargetPlatforms, ", "))
	}
	fmt.Fprintf(&b, "Content requirements: %s\n", summarizeRequirements(brief.ContentRequirements))
	fmt.Fprintf(&b, "Campaign duration: %d days\n\n", brief.CampaignDays)
	b.WriteString("Based on our market research and your profile, we'd like to propose a collaboration that's mutually beneficial. We believe in fair compensation while staying within our allocated budget.")
	return b.String()
}

// Proposal narrates the opening offer. The rendered text follows the pricing
// strategy but never mentions the internal ceiling unless disclose is set.
func (t *TemplateService) Proposal(brief models.BrandBrief, offer models.Offer, strategy models.StrategyTag, ceiling float64, disclose bool) string {
	var b strings.Builder
	b.WriteString("Here's our formal collaboration proposal:\n\n")
	b.WriteString("Deliverables and compensation:\n")
	for _, d := range offer.Deliverables {
		fmt.Fprintf(&b, "- %s x %d: %s (%s each)\n",
			deliverableLabel(d), d.Quantity,
			formatAmount(d.LineTotal, offer.Currency),
			formatAmount(d.UnitRate, offer.Currency))
	}
	fmt.Fprintf(&b, "\nTotal compensation: %s\n", formatAmount(offer.Total, offer.Currency))
	fmt.Fprintf(&b, "Payment terms: %s\n", offer.PaymentTerms)
	fmt.Fprintf(&b, "Revisions: %d included per deliverable\n", offer.Revisions)
	fmt.Fprintf(&b, "Usage rights: %s\n", offer.UsageRights)

	switch strategy {
	case models.StrategyWithinBudget:
		b.WriteString("\nThis offer reflects current market rates for your profile and fits comfortably within our campaign budget.")
	case models.StrategyNegotiableAboveBudget:
		fmt.Fprintf(&b, "\nMarket rates for your profile run above our allocation, so we're opening at our full budget of %s. There is some room to discuss.", formatAmount(offer.Total, offer.Currency))
	case models.StrategyScaleToMaxBudget:
		b.WriteString("\nMarket rates for your profile are well above our allocation, so we've scaled the scope to the absolute maximum we can commit. This is our best offer.")
	}
	if disclose && ceiling > 0 {
		fmt.Fprintf(&b, "\nThe most we can go to on this campaign is %s.", formatAmount(ceiling, offer.Currency))
	}
	b.WriteString("\n\nWould you like to move forward with these terms, or are there specific aspects you'd like to discuss?")
	return b.String()
}

func (t *TemplateService) CounterAccepted(proposed float64, currency string) string {
	return fmt.Sprintf("Your request of %s works for us. Our updated offer stands at that amount. Please confirm and we'll get the contract underway.",
		formatAmount(proposed, currency))
}

func (t *TemplateService) CounterRejected(proposed, current float64, currency string) string {
	return fmt.Sprintf("Thank you for the counter-proposal of %s. Unfortunately that's beyond what we can commit for this campaign. Our offer stands at %s, and we'd love to make it work at that level.",
		formatAmount(proposed, currency), formatAmount(current, currency))
}

func (t *TemplateService) Agreement(offer models.Offer, profile models.InfluencerProfile) string {
	var b strings.Builder
	b.WriteString("Excellent! We're thrilled to move forward with this partnership!\n\nFinal agreement summary:\n")
	for _, d := range offer.Deliverables {
		fmt.Fprintf(&b, "- %s x %d: %s\n", deliverableLabel(d), d.Quantity, formatAmount(d.LineTotal, offer.Currency))
	}
	fmt.Fprintf(&b, "- Total investment: %s\n", formatAmount(offer.Total, offer.Currency))
	fmt.Fprintf(&b, "- Payment terms: %s\n", offer.PaymentTerms)
	fmt.Fprintf(&b, "- Usage rights: %s\n", offer.UsageRights)
	b.WriteString("\nNext steps: our legal team will prepare the digital contract within 2 business days, and the advance payment will be processed once both parties have signed.")
	if t.culturalNotes {
		if note := culturalClosing(profile.Location); note != "" {
			b.WriteString("\n\n")
			b.WriteString(note)
		}
	}
	return b.String()
}

func (t *TemplateService) Rejection(brandName string) string {
	return fmt.Sprintf("I understand and respect your decision. While we're disappointed this particular opportunity isn't the right fit, %s values building long-term relationships with quality creators. If your circumstances change, we'd love to reconnect.", brandName)
}

func (t *TemplateService) Clarification(offer *models.Offer) string {
	if offer == nil {
		return "Happy to clarify anything about the campaign. What would you like to know?"
	}
	return fmt.Sprintf("Happy to clarify. Our current offer stands at %s for the deliverables outlined above. You can accept, decline, or propose a different amount.",
		formatAmount(offer.Total, offer.Currency))
}

func (t *TemplateService) Closed(status models.SessionStatus) string {
	switch status {
	case models.SessionStatusAgreed:
		return "This negotiation has concluded with an agreement. Please refer to the contract for next steps."
	case models.SessionStatusRejected:
		return "This negotiation was declined and is closed."
	default:
		return "This negotiation has been cancelled and is closed."
	}
}

// culturalClosing adds a display-only nicety per market. It never affects
// pricing.
func culturalClosing(location models.Location) string {
	switch location {
	case models.LocationIndia:
		return "We understand the Indian market dynamics and have structured this collaboration to be competitive within the local creator economy."
	case models.LocationJapan:
		return "We look forward to a respectful, long-term partnership."
	default:
		return ""
	}
}

func deliverableLabel(d models.Deliverable) string {
	label := strings.ReplaceAll(string(d.ContentType), "_", " ")
	if label == "" {
		return string(d.Platform)
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func summarizeRequirements(reqs map[models.ContentType]int) string {
	if len(reqs) == 0 {
		return "to be discussed"
	}
	parts := make([]string, 0, len(reqs))
	for _, ct := range orderedRequirementKeys(reqs) {
		if reqs[ct] <= 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d x %s", reqs[ct], strings.ReplaceAll(string(ct), "_", " ")))
	}
	if len(parts) == 0 {
		return "to be discussed"
	}
	return strings.Join(parts, ", ")
}

func orderedRequirementKeys(reqs map[models.ContentType]int) []models.ContentType {
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
	ordered := make([]models.ContentType, 0, len(reqs))
	for _, ct := range known {
		if _, ok := reqs[ct]; ok {
			ordered = append(ordered, ct)
		}
	}
	return ordered
}

func formatAmount(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}
