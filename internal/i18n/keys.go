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
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthNotConfigured      = "auth.not_configured"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"

	// Products
	KeyProductsImported     = "products.imported"
	KeyProductsInvalidSheet = "products.invalid_sheet"
	KeyProductsFileRequired = "products.file_required"

	// Images
	KeyImagesUploaded     = "images.uploaded"
	KeyImageDeleted       = "images.deleted"
	KeyImagesRequired     = "images.required"
	KeyImageInvalidType   = "images.invalid_type"
	KeyImageTooLarge      = "images.too_large"
	KeyImageInvalidName   = "images.invalid_name"
	KeyImageThumbnailIndex = "images.invalid_thumbnail_index"

	// Orders
	KeyOrderPlaced        = "orders.placed"
	KeyOrderNotFound      = "orders.not_found"
	KeyOrderStatusUpdated = "orders.status_updated"
	KeyOrderInvalidStatus = "orders.invalid_status"
	KeyOrdersReset        = "orders.reset"

	// Files
	KeyFileNotFound    = "files.not_found"
	KeyFileInvalidType = "files.invalid_type"

	// Validation
	KeyValidationFailed   = "validation.failed"
	KeyValidationRequired = "validation.required"
	KeyValidationEmail    = "validation.email"
	KeyValidationMin      = "validation.min"
	KeyValidationMax      = "validation.max"

	// System
	KeySystemError       = "system.error"
	KeyStorageError      = "system.storage_error"
	KeyRateLimitExceeded = "system.rate_limit_exceeded"
)
