// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthOTPSent            = "auth.otp_sent"
	KeyAuthOTPVerified        = "auth.otp_verified"
	KeyAuthOTPInvalid         = "auth.otp_invalid"
	KeyAuthAccessDenied       = "auth.access_denied"

	// User Management
	KeyUserNotFound       = "user.not_found"
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserSuspended      = "user.suspended"
	KeyUserReactivated    = "user.reactivated"

	// Products / catalog
	KeyProductSubmitted  = "product.submitted"
	KeyProductUpdated    = "product.updated"
	KeyProductDeleted    = "product.deleted"
	KeyProductNotFound   = "product.not_found"
	KeyProductApproved   = "product.approved"
	KeyProductRejected   = "product.rejected"
	KeyProductOutOfStock = "product.out_of_stock"

	// Cart
	KeyCartItemAdded   = "cart.item_added"
	KeyCartItemRemoved = "cart.item_removed"
	KeyCartUpdated     = "cart.updated"
	KeyCartCleared     = "cart.cleared"
	KeyCartEmpty       = "cart.empty"

	// Orders
	KeyOrderPlaced        = "order.placed"
	KeyOrderNotFound      = "order.not_found"
	KeyOrderStatusUpdated = "order.status_updated"

	// Notifications
	KeyNotificationNotFound = "notification.not_found"
	KeyNotificationsCleared = "notification.cleared"

	// Media
	KeyFileUploadSuccess = "media.upload_success"
	KeyFileUploadFailed  = "media.upload_failed"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
