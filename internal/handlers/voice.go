// internal/handlers/voice.go
package handlers

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/creatorbridge/negotiation-backend/internal/services"
)

// VoiceHandler adapts the negotiation to telephony webhooks. The provider
// posts form-encoded speech transcriptions; we answer with TwiML. The voice
// channel is a thin skin: every utterance goes through the same
// ContinueSession path as the text API.
type VoiceHandler struct {
	negotiationService *services.NegotiationService
	logger             *logrus.Logger
}

func NewVoiceHandler(negotiationService *services.NegotiationService, logger *logrus.Logger) *VoiceHandler {
	return &VoiceHandler{
		negotiationService: negotiationService,
		logger:             logger,
	}
}

type twimlGather struct {
	XMLName xml.Name `xml:"Gather"`
	Input   string   `xml:"input,attr"`
	Action  string   `xml:"action,attr"`
	Method  string   `xml:"method,attr"`
	Timeout int      `xml:"timeout,attr"`
	Say     string   `xml:"Say"`
}

type twimlResponse struct {
	XMLName xml.Name     `xml:"Response"`
	Say     string       `xml:"Say,omitempty"`
	Gather  *twimlGather `xml:"Gather,omitempty"`
	Hangup  *struct{}    `xml:"Hangup,omitempty"`
}

// POST /v1/voice/inbound
// Greets the caller with the current offer and opens a speech gather.
func (h *VoiceHandler) Inbound(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.negotiationService.Get(sessionID)
	if err != nil {
		h.respondTwiML(c, twimlResponse{
			Say:    "We could not find that negotiation. Goodbye.",
			Hangup: &struct{}{},
		})
		return
	}

	prompt := fmt.Sprintf("Hello, this is the %s partnership team.", session.Brief.Name)
	if offer := session.CurrentOffer(); offer != nil && !session.Status.Terminal() {
		prompt = fmt.Sprintf("%s Our current offer is %.2f %s. You can accept, decline, or propose a different amount.",
			prompt, offer.Total, offer.Currency)
	}

	if session.Status.Terminal() {
		h.respondTwiML(c, twimlResponse{
			Say:    prompt + " This negotiation has concluded. Goodbye.",
			Hangup: &struct{}{},
		})
		return
	}

	h.respondTwiML(c, twimlResponse{
		Gather: h.gatherFor(sessionID.String(), prompt),
	})
}

// POST /v1/voice/collect
// Receives one speech transcription and applies it to the session.
func (h *VoiceHandler) Collect(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	speech := c.PostForm("SpeechResult")
	if speech == "" {
		h.respondTwiML(c, twimlResponse{
			Gather: h.gatherFor(sessionID.String(), "Sorry, I didn't catch that. Could you repeat?"),
		})
		return
	}

	reply, err := h.negotiationService.ContinueSession(c.Request.Context(), sessionID, &services.MessageRequest{Message: speech})
	if err != nil {
		var stateErr *services.InvalidStateTransitionError
		if errors.As(err, &stateErr) {
			h.respondTwiML(c, twimlResponse{
				Say:    "This negotiation has concluded. Goodbye.",
				Hangup: &struct{}{},
			})
			return
		}
		h.logger.WithError(err).WithField("session_id", sessionID).Error("voice turn failed")
		h.respondTwiML(c, twimlResponse{
			Say:    "Service temporarily unavailable. Please try again later.",
			Hangup: &struct{}{},
		})
		return
	}

	if reply.Session.Status.Terminal() {
		h.respondTwiML(c, twimlResponse{
			Say:    reply.Reply + " Goodbye.",
			Hangup: &struct{}{},
		})
		return
	}

	h.respondTwiML(c, twimlResponse{
		Gather: h.gatherFor(sessionID.String(), reply.Reply),
	})
}

func (h *VoiceHandler) gatherFor(sessionID, prompt string) *twimlGather {
	return &twimlGather{
		Input:   "speech",
		Action:  fmt.Sprintf("/v1/voice/%s/collect", sessionID),
		Method:  "POST",
		Timeout: 5,
		Say:     prompt,
	}
}

func (h *VoiceHandler) respondTwiML(c *gin.Context, response twimlResponse) {
	body, err := xml.Marshal(response)
	if err != nil {
		c.String(http.StatusInternalServerError, "")
		return
	}
	c.Data(http.StatusOK, "application/xml", append([]byte(xml.Header), body...))
}
