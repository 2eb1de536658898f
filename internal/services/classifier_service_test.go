// internal/services/classifier_service_test.go
package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creatorbridge/negotiation-backend/internal/config"
)

func TestRuleBasedClassifier(t *testing.T) {
	classifier := NewRuleBasedClassifier()

	cases := []struct {
		name    string
		message string
		intent  IntentType
		amount  float64
	}{
		{"plain acceptance", "Sounds good, let's do it!", IntentAccept, 0},
		{"agree word", "I agree to these terms", IntentAccept, 0},
		{"rejection", "No thanks, not interested", IntentReject, 0},
		{"too low", "That's way too low for me", IntentReject, 0},
		{"counter with dollar sign", "How about $2,200?", IntentCounterOffer, 2200},
		{"counter with decimals", "I was thinking 2200.50 for this", IntentCounterOffer, 2200.50},
		{"counter with currency suffix", "Can you do 2200 USD?", IntentCounterOffer, 2200},
		{"bare amount is a counter", "1500", IntentCounterOffer, 1500},
		{"counter language without amount", "Could we discuss the rate?", IntentCounterOffer, 0},
		{"question", "What does the campaign involve?", IntentQuestion, 0},
		{"noise", "hello there", IntentOther, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			intent, err := classifier.Classify(context.Background(), tc.message)
			require.NoError(t, err)
			assert.Equal(t, tc.intent, intent.Type)
			assert.InDelta(t, tc.amount, intent.Amount, 0.001)
		})
	}
}

func TestExtractAmount(t *testing.T) {
	cases := []struct {
		message string
		amount  float64
		found   bool
	}{
		{"$2,200", 2200, true},
		{"2200.50", 2200.50, true},
		{"I'd need 3,000,000 for that", 3000000, true},
		{"no numbers here", 0, false},
	}

	for _, tc := range cases {
		amount, found := extractAmount(tc.message)
		assert.Equal(t, tc.found, found, tc.message)
		assert.InDelta(t, tc.amount, amount, 0.001, tc.message)
	}
}

func hostedClassifier(endpoint string) *HostedClassifier {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewHostedClassifier(config.ClassifierConfig{
		Endpoint:       endpoint,
		Model:          "intent-small",
		TimeoutSeconds: 2,
	}, logger)
}

func TestHostedClassifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req classifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "intent-small", req.Model)
		json.NewEncoder(w).Encode(classifyResponse{Intent: "counter_offer", Amount: 2400})
	}))
	defer server.Close()

	intent, err := hostedClassifier(server.URL).Classify(context.Background(), "I want more")
	require.NoError(t, err)
	assert.Equal(t, IntentCounterOffer, intent.Type)
	assert.InDelta(t, 2400, intent.Amount, 0.001)
}

func TestHostedClassifierFillsAmountFromText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(classifyResponse{Intent: "counter_offer"})
	}))
	defer server.Close()

	intent, err := hostedClassifier(server.URL).Classify(context.Background(), "How about $2,600?")
	require.NoError(t, err)
	assert.Equal(t, IntentCounterOffer, intent.Type)
	assert.InDelta(t, 2600, intent.Amount, 0.001)
}

func TestHostedClassifierFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	intent, err := hostedClassifier(server.URL).Classify(context.Background(), "Sounds good, let's do it!")
	require.NoError(t, err)
	assert.Equal(t, IntentAccept, intent.Type)
}

func TestHostedClassifierFallsBackOnUnknownIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(classifyResponse{Intent: "shrug"})
	}))
	defer server.Close()

	intent, err := hostedClassifier(server.URL).Classify(context.Background(), "No thanks, I'll pass")
	require.NoError(t, err)
	assert.Equal(t, IntentReject, intent.Type)
}

func TestHostedClassifierFallsBackWithoutEndpoint(t *testing.T) {
	intent, err := hostedClassifier("").Classify(context.Background(), "How about 900?")
	require.NoError(t, err)
	assert.Equal(t, IntentCounterOffer, intent.Type)
	assert.InDelta(t, 900, intent.Amount, 0.001)
}

func TestHostedClassifierFallsBackOnUnreachableEndpoint(t *testing.T) {
	intent, err := hostedClassifier("http://127.0.0.1:1/classify").Classify(context.Background(), "I accept")
	require.NoError(t, err)
	assert.Equal(t, IntentAccept, intent.Type)
}
