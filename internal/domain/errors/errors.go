package errors

import (
	"net/http"

	"basket/internal/errors"
)

// Kind groups application errors by how callers should react to them.
type Kind string

const (
	KindValidation   Kind = "validation"   // Bad input shape or range.
	KindNotFound     Kind = "not_found"    // Product, line, cart, promotion or order absent.
	KindConflict     Kind = "conflict"     // Stock shortfall, exhausted promotion, unresolved drift.
	KindState        Kind = "state"        // Operation not allowed in the current lifecycle state.
	KindUnauthorized Kind = "unauthorized" // Missing or bad credentials.
	KindForbidden    Kind = "forbidden"    // Authenticated but not allowed.
	KindInternal     Kind = "internal"     // Anything the caller cannot fix.
)

// HTTPStatus maps a kind to the status code the API layer responds with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindState:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	Kind() Kind        // Error category
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() any      // Structured context (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	kind      Kind
	errorCode string
	message   string
	details   any
}

// NewBaseError creates a new base error
func NewBaseError(kind Kind, errorCode, message string) *BaseError {
	return &BaseError{
		kind:      kind,
		errorCode: errorCode,
		message:   message,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// Is matches any BaseError carrying the same error code, so detailed copies
// still satisfy errors.Is against the predefined values.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)

	return ok && t.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// Kind returns the error category
func (e *BaseError) Kind() Kind {
	return e.kind
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.kind.HTTPStatus()
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns structured error context
func (e *BaseError) Details() any {
	return e.details
}

// WithDetails returns a copy of the error carrying details
func (e *BaseError) WithDetails(details any) *BaseError {
	return &BaseError{
		kind:      e.kind,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Validation
	ErrValidationFailed       = NewBaseError(KindValidation, "VALIDATION_FAILED", "input validation failed")
	ErrInvalidQuantity        = NewBaseError(KindValidation, "INVALID_QUANTITY", "quantity must be between 1 and the per-line limit")
	ErrQuantityLimitExceeded  = NewBaseError(KindValidation, "QUANTITY_LIMIT_EXCEEDED", "quantity would exceed the per-line limit")
	ErrMissingCheckoutFields  = NewBaseError(KindValidation, "MISSING_CHECKOUT_FIELDS", "delivery address and payment method are required")
	ErrInvalidRole            = NewBaseError(KindValidation, "INVALID_ROLE", "role is not allowed for this operation")
	ErrInvalidQRCode          = NewBaseError(KindValidation, "INVALID_QR_CODE", "QR code payload is not a delivery code")
	ErrInvalidDiscountRule    = NewBaseError(KindValidation, "INVALID_DISCOUNT_RULE", "discount rule is not valid")
	ErrInvalidPromotionWindow = NewBaseError(KindValidation, "INVALID_PROMOTION_WINDOW", "promotion validTo precedes validFrom")

	// Not found
	ErrProductNotFound   = NewBaseError(KindNotFound, "PRODUCT_NOT_FOUND", "product not found")
	ErrLineNotFound      = NewBaseError(KindNotFound, "LINE_NOT_FOUND", "cart line not found")
	ErrCartNotFound      = NewBaseError(KindNotFound, "CART_NOT_FOUND", "cart not found")
	ErrPromotionNotFound = NewBaseError(KindNotFound, "PROMOTION_NOT_FOUND", "promotion not found")
	ErrOrderNotFound     = NewBaseError(KindNotFound, "ORDER_NOT_FOUND", "order not found")
	ErrUserNotFound      = NewBaseError(KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrAddressNotFound   = NewBaseError(KindNotFound, "ADDRESS_NOT_FOUND", "address not found")
	ErrCategoryNotFound  = NewBaseError(KindNotFound, "CATEGORY_NOT_FOUND", "category not found")

	// Conflict
	ErrProductUnavailable      = NewBaseError(KindConflict, "PRODUCT_UNAVAILABLE", "product is not available for sale")
	ErrInsufficientStock       = NewBaseError(KindConflict, "INSUFFICIENT_STOCK", "not enough stock for the requested quantity")
	ErrPromotionInvalid        = NewBaseError(KindConflict, "PROMOTION_INVALID", "promotion code cannot be applied")
	ErrPriceDrift              = NewBaseError(KindConflict, "PRICE_DRIFT", "cart prices changed, accept the new prices before checkout")
	ErrOrphanedLine            = NewBaseError(KindConflict, "ORPHANED_LINE", "cart references a product that no longer exists")
	ErrInvalidProductReference = NewBaseError(KindConflict, "INVALID_PRODUCT_REFERENCE", "cart line references a product that no longer exists")
	ErrEmptyCart               = NewBaseError(KindConflict, "EMPTY_CART", "cart is empty")
	ErrCartBusy                = NewBaseError(KindConflict, "CART_BUSY", "cart is being modified by another request")
	ErrUserAlreadyExists       = NewBaseError(KindConflict, "USER_ALREADY_EXISTS", "email is already registered")
	ErrPromotionCodeExists     = NewBaseError(KindConflict, "PROMOTION_CODE_EXISTS", "promotion code already exists")
	ErrCategoryExists          = NewBaseError(KindConflict, "CATEGORY_EXISTS", "category already exists")
	ErrConflict                = NewBaseError(KindConflict, "CONFLICT", "resource conflict")

	// State
	ErrInvalidStatusTransition = NewBaseError(KindState, "INVALID_STATUS_TRANSITION", "order status transition is not allowed")

	// Auth
	ErrInvalidCredentials = NewBaseError(KindUnauthorized, "INVALID_CREDENTIALS", "email or password is incorrect")
	ErrForbidden          = NewBaseError(KindForbidden, "FORBIDDEN", "access denied")

	// General
	ErrInternalError = NewBaseError(KindInternal, "INTERNAL_ERROR", "internal server error")
)

// StockShortage is attached to ErrInsufficientStock.
type StockShortage struct {
	ProductID string `json:"product_id"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

// NewInsufficientStockError reports the first line that cannot be fulfilled.
func NewInsufficientStockError(productID string, available, requested int) *BaseError {
	return ErrInsufficientStock.WithDetails(StockShortage{
		ProductID: productID,
		Available: available,
		Requested: requested,
	})
}

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the driver error.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// Kind returns the error category
func (e *DatabaseExecuteError) Kind() Kind {
	return KindInternal
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() any {
	return e.details
}
