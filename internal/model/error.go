package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeInvalidTransition   = "INVALID_TRANSITION"
	ErrCodeInvalidDeliveryCode = "INVALID_DELIVERY_CODE"
	ErrCodeValidationFailure   = "VALIDATION_FAILURE"
	ErrCodeVersionConflict     = "VERSION_CONFLICT"
	ErrCodeInvalidPromoCode    = "INVALID_PROMO_CODE"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError is a typed, recoverable business-rule rejection. A DomainError
// never indicates storage corruption; internal storage failures are returned
// as wrapped plain errors so callers can tell them apart and retry safely.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrOrderNotFound       = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrStoreNotFound       = NewDomainError(ErrCodeNotFound, "Store not found or inactive")
	ErrSupplierNotFound    = NewDomainError(ErrCodeNotFound, "Supplier not found or inactive")
	ErrProductNotFound     = NewDomainError(ErrCodeNotFound, "One or more products not found")
	ErrRouteNotFound       = NewDomainError(ErrCodeNotFound, "Delivery route not found for supplier")
	ErrStockNotFound       = NewDomainError(ErrCodeNotFound, "Stock record not found or inactive")
	ErrInsufficientStock   = NewDomainError(ErrCodeInsufficientStock, "Insufficient available stock")
	ErrInvalidTransition   = NewDomainError(ErrCodeInvalidTransition, "Status transition not allowed from current status")
	ErrInvalidDeliveryCode = NewDomainError(ErrCodeInvalidDeliveryCode, "Delivery code does not match")
	ErrInvalidQuantity     = NewDomainError(ErrCodeValidationFailure, "Quantity must be greater than zero")
	ErrEmptyOrder          = NewDomainError(ErrCodeValidationFailure, "Order must contain at least one line")
	ErrVersionConflict     = NewDomainError(ErrCodeVersionConflict, "Order was modified concurrently, retry the request")
	ErrInvalidPromoCode    = NewDomainError(ErrCodeInvalidPromoCode, "Promo code is not valid")
)
