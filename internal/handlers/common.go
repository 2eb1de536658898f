// internal/handlers/common.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/creatorbridge/negotiation-backend/internal/i18n"
	"github.com/creatorbridge/negotiation-backend/internal/pricing"
	"github.com/creatorbridge/negotiation-backend/internal/services"
	"github.com/creatorbridge/negotiation-backend/internal/store"
	"github.com/creatorbridge/negotiation-backend/internal/utils"
)

// respondServiceError maps domain errors onto the API envelope. Unknown
// errors become a 500 without leaking internals.
func respondServiceError(c *gin.Context, resource string, err error) {
	lang := utils.GetLangFromContext(c)

	var stateErr *services.InvalidStateTransitionError
	var signedErr *services.AlreadySignedError
	var contentErr *pricing.UnsupportedContentTypeError
	var budgetErr *pricing.BudgetInvalidError

	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.As(err, &stateErr):
		utils.UnprocessableResponse(c, "INVALID_STATE", i18n.T(lang, i18n.KeyNegotiationInvalidState), stateErr.Error())
	case errors.As(err, &signedErr):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyContractAlreadySigned))
	case errors.As(err, &contentErr):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyNegotiationUnsupported, contentErr.Platform), contentErr.Error())
	case errors.As(err, &budgetErr):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyNegotiationBudgetInvalid), budgetErr.Error())
	default:
		utils.InternalErrorResponse(c, "")
	}
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "invalid "+name, err.Error())
		return uuid.Nil, false
	}
	return id, true
}
