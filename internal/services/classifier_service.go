// internal/services/classifier_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/creatorbridge/negotiation-backend/internal/config"
)

type IntentType string

const (
	IntentAccept       IntentType = "accept"
	IntentReject       IntentType = "reject"
	IntentCounterOffer IntentType = "counter_offer"
	IntentQuestion     IntentType = "question"
	IntentOther        IntentType = "other"
)

// Intent is the classified meaning of one influencer message. Amount is only
// meaningful for counter offers and is expressed in the session currency.
type Intent struct {
	Type   IntentType `json:"type"`
	Amount float64    `json:"amount,omitempty"`
}

// IntentClassifier turns a free-text influencer message into an Intent.
type IntentClassifier interface {
	Classify(ctx context.Context, message string) (Intent, error)
}

// amountPattern matches "2200", "2,200", "$2200.50", "2200 USD".
var amountPattern = regexp.MustCompile(`[$€£₹]?\s*(\d{1,3}(?:,\d{3})+|\d+)(?:\.(\d{1,2}))?`)

var (
	acceptWords   = []string{"accept", "agree", "deal", "yes", "perfect", "sounds good", "let's do it"}
	rejectWords   = []string{"reject", "decline", "no thanks", "not interested", "pass", "too low"}
	counterWords  = []string{"counter", "offer", "suggest", "$", "price", "rate", "how about", "can you do"}
	questionWords = []string{"question", "clarify", "explain", "details", "more info", "what", "?"}
)

// RuleBasedClassifier is the deterministic fallback: keyword buckets checked
// in priority order, with an amount regex for counter offers. A message that
// carries an amount is a counter offer even without counter keywords.
type RuleBasedClassifier struct{}

func NewRuleBasedClassifier() *RuleBasedClassifier {
	return &RuleBasedClassifier{}
}

func (c *RuleBasedClassifier) Classify(_ context.Context, message string) (Intent, error) {
	lower := strings.ToLower(message)
	amount, hasAmount := extractAmount(message)

	switch {
	case containsAny(lower, acceptWords) && !hasAmount:
		return Intent{Type: IntentAccept}, nil
	case containsAny(lower, rejectWords):
		return Intent{Type: IntentReject}, nil
	case hasAmount:
		return Intent{Type: IntentCounterOffer, Amount: amount}, nil
	case containsAny(lower, counterWords):
		return Intent{Type: IntentCounterOffer}, nil
	case containsAny(lower, questionWords):
		return Intent{Type: IntentQuestion}, nil
	default:
		return Intent{Type: IntentOther}, nil
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func extractAmount(message string) (float64, bool) {
	match := amountPattern.FindStringSubmatch(message)
	if match == nil {
		return 0, false
	}
	raw := strings.ReplaceAll(match[1], ",", "")
	if match[2] != "" {
		raw += "." + match[2]
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}

// HostedClassifier calls an external model endpoint and falls back to the
// rule-based classifier on any failure or timeout. Classification never
// blocks a negotiation: worst case the message is treated by the rules.
type HostedClassifier struct {
	cfg      config.ClassifierConfig
	client   *http.Client
	fallback IntentClassifier
	logger   *logrus.Logger
}

func NewHostedClassifier(cfg config.ClassifierConfig, logger *logrus.Logger) *HostedClassifier {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HostedClassifier{
		cfg:      cfg,
		client:   &http.Client{Timeout: timeout},
		fallback: NewRuleBasedClassifier(),
		logger:   logger,
	}
}

type classifyRequest struct {
	Model   string `json:"model"`
	Message string `json:"message"`
}

type classifyResponse struct {
	Intent string  `json:"intent"`
	Amount float64 `json:"amount"`
}

func (c *HostedClassifier) Classify(ctx context.Context, message string) (Intent, error) {
	if c.cfg.Endpoint == "" {
		return c.fallback.Classify(ctx, message)
	}

	body, err := json.Marshal(classifyRequest{Model: c.cfg.Model, Message: message})
	if err != nil {
		return c.fallback.Classify(ctx, message)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return c.fallback.Classify(ctx, message)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithError(err).Warn("intent classifier endpoint unreachable, using rules")
		return c.fallback.Classify(ctx, message)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status", resp.StatusCode).Warn("intent classifier returned non-200, using rules")
		return c.fallback.Classify(ctx, message)
	}

	var parsed classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return c.fallback.Classify(ctx, message)
	}

	intent := Intent{Amount: parsed.Amount}
	switch IntentType(parsed.Intent) {
	case IntentAccept, IntentReject, IntentCounterOffer, IntentQuestion, IntentOther:
		intent.Type = IntentType(parsed.Intent)
	default:
		c.logger.WithField("intent", parsed.Intent).Warn("unknown intent from classifier, using rules")
		return c.fallback.Classify(ctx, message)
	}

	// A counter offer without a usable amount still needs the rules to try
	// extracting one from the raw text.
	if intent.Type == IntentCounterOffer && intent.Amount <= 0 {
		if amount, ok := extractAmount(message); ok {
			intent.Amount = amount
		}
	}

	return intent, nil
}
