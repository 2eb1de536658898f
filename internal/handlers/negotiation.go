// internal/handlers/negotiation.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/creatorbridge/negotiation-backend/internal/i18n"
	"github.com/creatorbridge/negotiation-backend/internal/models"
	"github.com/creatorbridge/negotiation-backend/internal/services"
	"github.com/creatorbridge/negotiation-backend/internal/store"
	"github.com/creatorbridge/negotiation-backend/internal/utils"
)

type NegotiationHandler struct {
	negotiationService *services.NegotiationService
}

func NewNegotiationHandler(negotiationService *services.NegotiationService) *NegotiationHandler {
	return &NegotiationHandler{
		negotiationService: negotiationService,
	}
}

// POST /v1/negotiations
func (h *NegotiationHandler) StartSession(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	var userID *uuid.UUID
	if id, ok := utils.GetUserIDFromContext(c); ok {
		if parsed, err := uuid.Parse(id); err == nil {
			userID = &parsed
		}
	}

	reply, err := h.negotiationService.StartSession(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, "negotiation", err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyNegotiationCreated),
		"session": reply.Session,
		"reply":   reply.Reply,
	})
}

// POST /v1/negotiations/:id/messages
func (h *NegotiationHandler) PostMessage(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	reply, err := h.negotiationService.ContinueSession(c.Request.Context(), sessionID, &req)
	if err != nil {
		respondServiceError(c, "negotiation", err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"session": reply.Session,
		"reply":   reply.Reply,
	})
}

// PUT /v1/negotiations/:id/deliverables
func (h *NegotiationHandler) UpdateDeliverables(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateDeliverablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	reply, err := h.negotiationService.UpdateDeliverables(c.Request.Context(), sessionID, &req)
	if err != nil {
		respondServiceError(c, "negotiation", err)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyNegotiationUpdated),
		"session": reply.Session,
		"reply":   reply.Reply,
	})
}

// PUT /v1/negotiations/:id/budget
func (h *NegotiationHandler) UpdateBudget(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	reply, err := h.negotiationService.UpdateBudget(c.Request.Context(), sessionID, &req)
	if err != nil {
		respondServiceError(c, "negotiation", err)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyNegotiationUpdated),
		"session": reply.Session,
		"reply":   reply.Reply,
	})
}

// POST /v1/negotiations/:id/cancel
func (h *NegotiationHandler) Cancel(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason,omitempty"`
	}
	c.ShouldBindJSON(&req)

	session, err := h.negotiationService.Cancel(c.Request.Context(), sessionID, req.Reason)
	if err != nil {
		respondServiceError(c, "negotiation", err)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyNegotiationCancelled),
		"session": session,
	})
}

// GET /v1/negotiations/:id
func (h *NegotiationHandler) GetSession(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.negotiationService.Get(sessionID)
	if err != nil {
		respondServiceError(c, "negotiation", err)
		return
	}

	utils.SuccessResponse(c, session)
}

// GET /v1/negotiations/:id/summary
func (h *NegotiationHandler) GetSummary(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.negotiationService.Summary(sessionID)
	if err != nil {
		respondServiceError(c, "negotiation", err)
		return
	}

	utils.SuccessResponse(c, summary)
}

// GET /v1/negotiations
func (h *NegotiationHandler) ListSessions(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := store.SessionFilter{
		Page:  params.Page,
		Limit: params.Limit,
	}
	if params.Status != "" {
		status := models.SessionStatus(params.Status)
		filter.Status = &status
	}
	if brandID := c.Query("brand_id"); brandID != "" {
		if parsed, err := uuid.Parse(brandID); err == nil {
			filter.BrandID = &parsed
		}
	}
	if influencerID := c.Query("influencer_id"); influencerID != "" {
		if parsed, err := uuid.Parse(influencerID); err == nil {
			filter.InfluencerID = &parsed
		}
	}
	if id, ok := utils.GetUserIDFromContext(c); ok {
		if userType, _ := utils.GetUserTypeFromContext(c); userType != string(models.UserTypeAdmin) {
			if parsed, err := uuid.Parse(id); err == nil {
				filter.UserID = &parsed
			}
		}
	}

	sessions, total, err := h.negotiationService.List(filter)
	if err != nil {
		respondServiceError(c, "negotiation", err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(sessions, total, params))
}
