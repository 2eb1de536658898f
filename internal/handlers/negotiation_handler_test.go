// internal/handlers/negotiation_handler_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/creatorbridge/negotiation-backend/internal/pricing"
	"github.com/creatorbridge/negotiation-backend/internal/services"
	"github.com/creatorbridge/negotiation-backend/internal/store"
)

type HandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	engine := pricing.NewEngine(pricing.NewModel(), pricing.DefaultPolicy())
	documents, err := services.NewDocumentService()
	s.Require().NoError(err)

	contractService := services.NewContractService(store.NewMemoryContractStore(), documents, nil, nil, nil, logger)
	negotiationService := services.NewNegotiationService(
		store.NewMemorySessionStore(),
		engine,
		services.NewTemplateService(),
		services.NewRuleBasedClassifier(),
		contractService,
		nil,
		logger,
	)

	negotiationHandler := NewNegotiationHandler(negotiationService)
	contractHandler := NewContractHandler(contractService)

	s.router = gin.New()
	v1 := s.router.Group("/v1")
	{
		negotiations := v1.Group("/negotiations")
		negotiations.POST("", negotiationHandler.StartSession)
		negotiations.GET("", negotiationHandler.ListSessions)
		negotiations.GET("/:id", negotiationHandler.GetSession)
		negotiations.GET("/:id/summary", negotiationHandler.GetSummary)
		negotiations.GET("/:id/contract", contractHandler.GetContractBySession)
		negotiations.POST("/:id/messages", negotiationHandler.PostMessage)
		negotiations.PUT("/:id/budget", negotiationHandler.UpdateBudget)
		negotiations.POST("/:id/cancel", negotiationHandler.Cancel)

		contracts := v1.Group("/contracts")
		contracts.GET("/:id/document", contractHandler.GetDocument)
		contracts.POST("/:id/sign", contractHandler.SignContract)
	}
}

func (s *HandlerTestSuite) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var parsed map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &parsed))
	return parsed
}

func startSessionBody() map[string]interface{} {
	return map[string]interface{}{
		"brief": map[string]interface{}{
			"name":     "GlowUp Cosmetics",
			"budget":   500,
			"currency": "USD",
			"content_requirements": map[string]int{
				"instagram_post": 2,
			},
			"campaign_days": 30,
			"location":      "us",
		},
		"influencer": map[string]interface{}{
			"name":            "Alex Rivera",
			"followers":       20000,
			"engagement_rate": 0.045,
			"location":        "us",
		},
	}
}

// startSession drives the endpoint and returns the new session ID.
func (s *HandlerTestSuite) startSession() string {
	w := s.request(http.MethodPost, "/v1/negotiations", startSessionBody())
	s.Require().Equal(http.StatusCreated, w.Code)

	data := s.decode(w)["data"].(map[string]interface{})
	session := data["session"].(map[string]interface{})
	return session["id"].(string)
}

func (s *HandlerTestSuite) TestStartSession() {
	w := s.request(http.MethodPost, "/v1/negotiations", startSessionBody())
	s.Equal(http.StatusCreated, w.Code)

	parsed := s.decode(w)
	s.Equal(true, parsed["success"])

	data := parsed["data"].(map[string]interface{})
	s.NotEmpty(data["reply"])

	session := data["session"].(map[string]interface{})
	s.Equal("proposed", session["status"])
	s.InDelta(575.00, session["ceiling"].(float64), 0.01)
}

func (s *HandlerTestSuite) TestStartSessionValidationError() {
	body := startSessionBody()
	brief := body["brief"].(map[string]interface{})
	delete(brief, "budget")

	w := s.request(http.MethodPost, "/v1/negotiations", body)
	s.Equal(http.StatusBadRequest, w.Code)

	parsed := s.decode(w)
	s.Equal(false, parsed["success"])
	errObj := parsed["error"].(map[string]interface{})
	s.Equal("VALIDATION_ERROR", errObj["code"])
}

func (s *HandlerTestSuite) TestAcceptanceProducesContract() {
	sessionID := s.startSession()

	w := s.request(http.MethodPost, fmt.Sprintf("/v1/negotiations/%s/messages", sessionID), map[string]string{
		"message": "Sounds good, let's do it!",
	})
	s.Require().Equal(http.StatusOK, w.Code)

	data := s.decode(w)["data"].(map[string]interface{})
	session := data["session"].(map[string]interface{})
	s.Equal("agreed", session["status"])

	w = s.request(http.MethodGet, fmt.Sprintf("/v1/negotiations/%s/contract", sessionID), nil)
	s.Require().Equal(http.StatusOK, w.Code)

	contract := s.decode(w)["data"].(map[string]interface{})
	s.Equal("pending_signatures", contract["status"])

	w = s.request(http.MethodGet, fmt.Sprintf("/v1/contracts/%s/document", contract["id"]), nil)
	s.Equal(http.StatusOK, w.Code)
	s.NotEmpty(w.Header().Get("X-Document-Hash"))
	s.Contains(w.Body.String(), "GlowUp Cosmetics")
}

func (s *HandlerTestSuite) TestSignFlow() {
	sessionID := s.startSession()
	s.request(http.MethodPost, fmt.Sprintf("/v1/negotiations/%s/messages", sessionID), map[string]string{
		"message": "Sounds good, let's do it!",
	})

	w := s.request(http.MethodGet, fmt.Sprintf("/v1/negotiations/%s/contract", sessionID), nil)
	s.Require().Equal(http.StatusOK, w.Code)
	contractID := s.decode(w)["data"].(map[string]interface{})["id"].(string)

	signBody := map[string]string{
		"role":  "brand",
		"name":  "Dana Kim",
		"email": "dana@glowup.example",
	}
	w = s.request(http.MethodPost, fmt.Sprintf("/v1/contracts/%s/sign", contractID), signBody)
	s.Require().Equal(http.StatusOK, w.Code)

	contract := s.decode(w)["data"].(map[string]interface{})["contract"].(map[string]interface{})
	s.Equal("brand_signed", contract["status"])

	// Same role twice is a conflict.
	w = s.request(http.MethodPost, fmt.Sprintf("/v1/contracts/%s/sign", contractID), signBody)
	s.Equal(http.StatusConflict, w.Code)

	// Counterparty completes execution.
	w = s.request(http.MethodPost, fmt.Sprintf("/v1/contracts/%s/sign", contractID), map[string]string{
		"role":  "influencer",
		"name":  "Alex Rivera",
		"email": "alex@example.com",
	})
	s.Require().Equal(http.StatusOK, w.Code)
	contract = s.decode(w)["data"].(map[string]interface{})["contract"].(map[string]interface{})
	s.Equal("fully_executed", contract["status"])
}

func (s *HandlerTestSuite) TestMessageToTerminalSession() {
	sessionID := s.startSession()
	s.request(http.MethodPost, fmt.Sprintf("/v1/negotiations/%s/cancel", sessionID), nil)

	w := s.request(http.MethodPost, fmt.Sprintf("/v1/negotiations/%s/messages", sessionID), map[string]string{
		"message": "I accept",
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	errObj := s.decode(w)["error"].(map[string]interface{})
	s.Equal("INVALID_STATE", errObj["code"])
}

func (s *HandlerTestSuite) TestUpdateBudget() {
	sessionID := s.startSession()

	w := s.request(http.MethodPut, fmt.Sprintf("/v1/negotiations/%s/budget", sessionID), map[string]float64{
		"budget": 300,
	})
	s.Require().Equal(http.StatusOK, w.Code)

	session := s.decode(w)["data"].(map[string]interface{})["session"].(map[string]interface{})
	s.InDelta(345.00, session["ceiling"].(float64), 0.01)
	s.Equal(float64(2), session["round"])
}

func (s *HandlerTestSuite) TestGetSummary() {
	sessionID := s.startSession()

	w := s.request(http.MethodGet, fmt.Sprintf("/v1/negotiations/%s/summary", sessionID), nil)
	s.Require().Equal(http.StatusOK, w.Code)

	summary := s.decode(w)["data"].(map[string]interface{})
	s.Equal("GlowUp Cosmetics", summary["brand_name"])
	s.InDelta(388.80, summary["current_total"].(float64), 0.01)
}

func (s *HandlerTestSuite) TestListSessionsPagination() {
	s.startSession()
	s.startSession()

	w := s.request(http.MethodGet, "/v1/negotiations?page=1&limit=10", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	parsed := s.decode(w)
	meta := parsed["meta"].(map[string]interface{})
	pagination := meta["pagination"].(map[string]interface{})
	s.Equal(float64(2), pagination["total"])
}

func (s *HandlerTestSuite) TestUnknownSession() {
	w := s.request(http.MethodGet, "/v1/negotiations/6e8bbff6-0f23-4c6f-a8c7-9d6a0e9c3b11", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestMalformedSessionID() {
	w := s.request(http.MethodGet, "/v1/negotiations/not-a-uuid", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
