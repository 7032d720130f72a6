// internal/i18n/i18n_test.go
package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	KeyAuthRequired, KeyAuthInvalidToken, KeyAuthTokenExpired,
	KeyAuthInvalidCredentials, KeyAuthUserExists, KeyAuthLoginSuccess,
	KeyAuthLogoutSuccess, KeyAuthRegisterSuccess, KeyAuthOTPSent,
	KeyAuthOTPVerified, KeyAuthOTPInvalid, KeyAuthAccessDenied,
	KeyUserNotFound, KeyUserProfileUpdated, KeyUserSuspended, KeyUserReactivated,
	KeyProductSubmitted, KeyProductUpdated, KeyProductDeleted,
	KeyProductNotFound, KeyProductApproved, KeyProductRejected,
	KeyProductOutOfStock,
	KeyCartItemAdded, KeyCartItemRemoved, KeyCartUpdated, KeyCartCleared,
	KeyCartEmpty,
	KeyOrderPlaced, KeyOrderNotFound, KeyOrderStatusUpdated,
	KeyNotificationNotFound, KeyNotificationsCleared,
	KeyFileUploadSuccess, KeyFileUploadFailed,
	KeyValidationRequired, KeyValidationInvalid,
}

func TestEveryKeyTranslatedInAllLocales(t *testing.T) {
	require.NoError(t, Initialize())

	for _, key := range allKeys {
		en := T("en", key)
		assert.NotEqual(t, key, en, "missing en translation for %s", key)

		// kk must carry its own entry, not fall back to English
		kk := T("kk", key)
		assert.NotEqual(t, key, kk, "missing kk translation for %s", key)
		assert.NotEqual(t, en, kk, "kk falls back to en for %s", key)
	}
}

func TestUnknownKeyFallsBackToKey(t *testing.T) {
	require.NoError(t, Initialize())
	assert.Equal(t, "no.such.key", T("kk", "no.such.key"))
}

func TestFormattingArgs(t *testing.T) {
	require.NoError(t, Initialize())
	assert.Equal(t, "email is required", T("en", KeyValidationRequired, "email"))
}
