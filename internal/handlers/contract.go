// internal/handlers/contract.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/creatorbridge/negotiation-backend/internal/i18n"
	"github.com/creatorbridge/negotiation-backend/internal/models"
	"github.com/creatorbridge/negotiation-backend/internal/services"
	"github.com/creatorbridge/negotiation-backend/internal/store"
	"github.com/creatorbridge/negotiation-backend/internal/utils"
)

type ContractHandler struct {
	contractService *services.ContractService
}

func NewContractHandler(contractService *services.ContractService) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
	}
}

// GET /v1/contracts
func (h *ContractHandler) ListContracts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := store.ContractFilter{
		Page:  params.Page,
		Limit: params.Limit,
	}
	if params.Status != "" {
		status := models.ContractStatus(params.Status)
		filter.Status = &status
	}

	contracts, total, err := h.contractService.List(filter)
	if err != nil {
		respondServiceError(c, "contract", err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(contracts, total, params))
}

// GET /v1/contracts/:id
func (h *ContractHandler) GetContract(c *gin.Context) {
	contractID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	contract, err := h.contractService.Get(contractID)
	if err != nil {
		respondServiceError(c, "contract", err)
		return
	}

	utils.SuccessResponse(c, contract)
}

// GET /v1/negotiations/:id/contract
func (h *ContractHandler) GetContractBySession(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	contract, err := h.contractService.GetBySession(sessionID)
	if err != nil {
		respondServiceError(c, "contract", err)
		return
	}

	utils.SuccessResponse(c, contract)
}

// POST /v1/contracts/:id/sign
func (h *ContractHandler) SignContract(c *gin.Context) {
	contractID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.SignContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	contract, err := h.contractService.Sign(c.Request.Context(), contractID, &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondServiceError(c, "contract", err)
		return
	}

	lang := utils.GetLangFromContext(c)
	message := i18n.T(lang, i18n.KeyContractSigned)
	if contract.Status == models.ContractStatusFullyExecuted {
		message = i18n.T(lang, i18n.KeyContractExecuted)
	}

	utils.SuccessResponse(c, gin.H{
		"message":  message,
		"contract": contract,
	})
}

// POST /v1/contracts/:id/cancel
func (h *ContractHandler) CancelContract(c *gin.Context) {
	contractID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CancelContractRequest
	c.ShouldBindJSON(&req)

	contract, err := h.contractService.Cancel(c.Request.Context(), contractID, req.Reason)
	if err != nil {
		respondServiceError(c, "contract", err)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyContractCancelled),
		"contract": contract,
	})
}

// GET /v1/contracts/:id/document
func (h *ContractHandler) GetDocument(c *gin.Context) {
	contractID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	document, hash, err := h.contractService.Document(contractID)
	if err != nil {
		respondServiceError(c, "contract", err)
		return
	}

	c.Header("X-Document-Hash", hash)
	c.Data(http.StatusOK, "text/html; charset=utf-8", document)
}
