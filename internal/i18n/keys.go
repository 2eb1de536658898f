// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserNotFound       = "auth.user_not_found"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAccessDenied           = "auth.access_denied"

	// Negotiations
	KeyNegotiationCreated       = "negotiation.created"
	KeyNegotiationNotFound      = "negotiation.not_found"
	KeyNegotiationAgreed        = "negotiation.agreed"
	KeyNegotiationRejected      = "negotiation.rejected"
	KeyNegotiationCancelled     = "negotiation.cancelled"
	KeyNegotiationClosed        = "negotiation.closed"
	KeyNegotiationInvalidState  = "negotiation.invalid_state"
	KeyNegotiationUpdated       = "negotiation.updated"
	KeyNegotiationBudgetInvalid = "negotiation.budget_invalid"
	KeyNegotiationUnsupported   = "negotiation.unsupported_content"

	// Contracts
	KeyContractCreated       = "contract.created"
	KeyContractNotFound      = "contract.not_found"
	KeyContractSigned        = "contract.signed"
	KeyContractAlreadySigned = "contract.already_signed"
	KeyContractExecuted      = "contract.executed"
	KeyContractCancelled     = "contract.cancelled"
	KeyContractNotSignable   = "contract.not_signable"

	// Payments
	KeyPaymentSuccess = "payment.success"
	KeyPaymentFailed  = "payment.failed"
	KeyPaymentPending = "payment.pending"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationEmail    = "validation.invalid_email"
	KeyValidationPassword = "validation.invalid_password"
)
