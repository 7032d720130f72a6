// internal/services/auth_service_test.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"

	"github.com/vendora/vendora-backend/internal/blobstore"
	"github.com/vendora/vendora-backend/internal/config"
	"github.com/vendora/vendora-backend/internal/models"
)

// failingSaveStore rejects writes while failSaves is set, for exercising the
// persist-then-assign rollback paths.
type failingSaveStore struct {
	blobstore.Store
	failSaves bool
}

func (s *failingSaveStore) Save(ctx context.Context, key string, blob []byte) error {
	if s.failSaves {
		return errors.New("store unavailable")
	}
	return s.Store.Save(ctx, key, blob)
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Admin: config.AdminConfig{
			Email:    "admin@vendora.local",
			Password: "Admin123!@#",
			Name:     "Platform Admin",
		},
	}
}

type AuthServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *blobstore.MemoryStore
	auth  *AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = blobstore.NewMemoryStore()
	suite.auth = NewAuthService(suite.ctx, suite.store, testConfig())
}

func (suite *AuthServiceTestSuite) register(email string, role string) *AuthResponse {
	resp, err := suite.auth.Register(suite.ctx, &RegisterRequest{
		Name:     "Test User",
		Email:    email,
		Password: "Sup3rSecret!",
		Role:     role,
	})
	suite.Require().NoError(err)
	return resp
}

func (suite *AuthServiceTestSuite) TestAdminIsSeeded() {
	resp, err := suite.auth.Login(suite.ctx, &LoginRequest{
		Email:    "admin@vendora.local",
		Password: "Admin123!@#",
	})
	suite.Require().NoError(err)
	suite.Equal(models.RoleAdmin, resp.User.Role)
	suite.NotEmpty(resp.AccessToken)
}

func (suite *AuthServiceTestSuite) TestAdminSeededOnlyOnce() {
	// A second service over the same store must not add another admin
	NewAuthService(suite.ctx, suite.store, testConfig())

	admins := 0
	for _, u := range suite.auth.Users() {
		if u.Role == models.RoleAdmin {
			admins++
		}
	}
	suite.Equal(1, admins)

	reloaded := NewAuthService(suite.ctx, suite.store, testConfig())
	admins = 0
	for _, u := range reloaded.Users() {
		if u.Role == models.RoleAdmin {
			admins++
		}
	}
	suite.Equal(1, admins)
}

func (suite *AuthServiceTestSuite) TestRegisterDefaultsToBuyer() {
	resp := suite.register("buyer@example.com", "")
	suite.Equal(models.RoleBuyer, resp.User.Role)
	suite.Equal(models.UserStatusActive, resp.User.Status)
	suite.NotEmpty(resp.AccessToken)
	suite.NotEmpty(resp.RefreshToken)
}

func (suite *AuthServiceTestSuite) TestRegisterSeller() {
	resp := suite.register("seller@example.com", "seller")
	suite.Equal(models.RoleSeller, resp.User.Role)
}

func (suite *AuthServiceTestSuite) TestRegisterAdminRefused() {
	_, err := suite.auth.Register(suite.ctx, &RegisterRequest{
		Name:     "Sneaky",
		Email:    "sneaky@example.com",
		Password: "Sup3rSecret!",
		Role:     "admin",
	})
	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestRegisterDuplicateEmail() {
	suite.register("dup@example.com", "")

	_, err := suite.auth.Register(suite.ctx, &RegisterRequest{
		Name:     "Second",
		Email:    "DUP@example.com",
		Password: "Sup3rSecret!",
	})
	suite.ErrorIs(err, ErrUserExists, "email comparison is case-insensitive")
}

func (suite *AuthServiceTestSuite) TestRegisterWeakPasswordRefused() {
	_, err := suite.auth.Register(suite.ctx, &RegisterRequest{
		Name:     "Weak",
		Email:    "weak@example.com",
		Password: "password",
	})
	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestLoginWrongPassword() {
	suite.register("login@example.com", "")

	_, err := suite.auth.Login(suite.ctx, &LoginRequest{
		Email:    "login@example.com",
		Password: "WrongPass1!",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLoginStampsLastLogin() {
	resp := suite.register("stamp@example.com", "")
	suite.Nil(resp.User.LastLoginAt)

	logged, err := suite.auth.Login(suite.ctx, &LoginRequest{
		Email:    "stamp@example.com",
		Password: "Sup3rSecret!",
	})
	suite.Require().NoError(err)
	suite.NotNil(logged.User.LastLoginAt)
}

func (suite *AuthServiceTestSuite) TestSuspendedUserCannotLogin() {
	resp := suite.register("suspended@example.com", "")

	_, err := suite.auth.SetStatus(suite.ctx, resp.User.ID, models.UserStatusSuspended)
	suite.Require().NoError(err)

	_, err = suite.auth.Login(suite.ctx, &LoginRequest{
		Email:    "suspended@example.com",
		Password: "Sup3rSecret!",
	})
	suite.ErrorIs(err, ErrAccountSuspended)

	// Reactivation restores access
	_, err = suite.auth.SetStatus(suite.ctx, resp.User.ID, models.UserStatusActive)
	suite.Require().NoError(err)
	_, err = suite.auth.Login(suite.ctx, &LoginRequest{
		Email:    "suspended@example.com",
		Password: "Sup3rSecret!",
	})
	suite.NoError(err)
}

func (suite *AuthServiceTestSuite) TestRefreshIssuesNewPair() {
	resp := suite.register("refresh@example.com", "")

	refreshed, err := suite.auth.Refresh(resp.RefreshToken)
	suite.Require().NoError(err)
	suite.Equal(resp.User.ID, refreshed.User.ID)
	suite.NotEmpty(refreshed.AccessToken)
}

func (suite *AuthServiceTestSuite) TestRefreshGarbageToken() {
	_, err := suite.auth.Refresh("not-a-token")
	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestOTPFlow() {
	resp := suite.register("otp@example.com", "")

	hook := logtest.NewGlobal()
	defer hook.Reset()

	suite.Require().NoError(suite.auth.SendOTP(suite.ctx, resp.User.ID, "email"))

	// The code is delivered through the log in lieu of a mail provider
	code := ""
	for _, entry := range hook.AllEntries() {
		if c, ok := entry.Data["code"].(string); ok {
			code = c
		}
	}
	suite.Require().Len(code, 6)

	suite.ErrorIs(suite.auth.VerifyOTP(suite.ctx, resp.User.ID, "000000"), ErrInvalidOTP)

	suite.Require().NoError(suite.auth.VerifyOTP(suite.ctx, resp.User.ID, code))

	user, err := suite.auth.GetUserByID(resp.User.ID)
	suite.Require().NoError(err)
	suite.NotNil(user.EmailVerifiedAt)

	// Codes are single use
	suite.ErrorIs(suite.auth.VerifyOTP(suite.ctx, resp.User.ID, code), ErrInvalidOTP)
}

func (suite *AuthServiceTestSuite) TestSendOTPFailedPersistLeavesNoCode() {
	flaky := &failingSaveStore{Store: blobstore.NewMemoryStore()}
	auth := NewAuthService(suite.ctx, flaky, testConfig())

	resp, err := auth.Register(suite.ctx, &RegisterRequest{
		Name:     "Flaky",
		Email:    "flaky-send@example.com",
		Password: "Sup3rSecret!",
	})
	suite.Require().NoError(err)

	flaky.failSaves = true
	suite.Error(auth.SendOTP(suite.ctx, resp.User.ID, "email"))

	user, err := auth.GetUserByID(resp.User.ID)
	suite.Require().NoError(err)
	suite.NotContains(user.ProfileData, "otp_hash", "failed issue must not leave a pending code")
}

func (suite *AuthServiceTestSuite) TestVerifyOTPFailedPersistKeepsCodeValid() {
	flaky := &failingSaveStore{Store: blobstore.NewMemoryStore()}
	auth := NewAuthService(suite.ctx, flaky, testConfig())

	resp, err := auth.Register(suite.ctx, &RegisterRequest{
		Name:     "Flaky",
		Email:    "flaky-verify@example.com",
		Password: "Sup3rSecret!",
	})
	suite.Require().NoError(err)

	hook := logtest.NewGlobal()
	defer hook.Reset()

	suite.Require().NoError(auth.SendOTP(suite.ctx, resp.User.ID, "email"))
	code := ""
	for _, entry := range hook.AllEntries() {
		if c, ok := entry.Data["code"].(string); ok {
			code = c
		}
	}
	suite.Require().Len(code, 6)

	// The store goes down mid-verify: the attempt fails, but the code is
	// not consumed and the channel is not marked verified
	flaky.failSaves = true
	suite.Error(auth.VerifyOTP(suite.ctx, resp.User.ID, code))

	user, err := auth.GetUserByID(resp.User.ID)
	suite.Require().NoError(err)
	suite.Nil(user.EmailVerifiedAt)
	suite.Contains(user.ProfileData, "otp_hash")

	// Retrying once the store recovers succeeds with the same code
	flaky.failSaves = false
	suite.NoError(auth.VerifyOTP(suite.ctx, resp.User.ID, code))
}

func (suite *AuthServiceTestSuite) TestSendOTPUnknownChannel() {
	resp := suite.register("channel@example.com", "")
	suite.Error(suite.auth.SendOTP(suite.ctx, resp.User.ID, "pigeon"))
}

func (suite *AuthServiceTestSuite) TestUpdateProfile() {
	resp := suite.register("profile@example.com", "")

	user, err := suite.auth.UpdateProfile(suite.ctx, resp.User.ID, &UpdateProfileRequest{
		Name:  "Renamed User",
		Phone: "+77001234567",
	})
	suite.Require().NoError(err)
	suite.Equal("Renamed User", user.Name)
	suite.Equal("+77001234567", user.Phone)
	suite.Equal("profile@example.com", user.Email, "untouched fields survive")
}

func (suite *AuthServiceTestSuite) TestUsersSurviveReload() {
	resp := suite.register("reload@example.com", "seller")

	reloaded := NewAuthService(suite.ctx, suite.store, testConfig())
	user, err := reloaded.GetUserByID(resp.User.ID)
	suite.Require().NoError(err)
	suite.Equal(models.RoleSeller, user.Role)

	// Password hashes travel with the blob
	_, err = reloaded.Login(suite.ctx, &LoginRequest{
		Email:    "reload@example.com",
		Password: "Sup3rSecret!",
	})
	suite.NoError(err)
}

func (suite *AuthServiceTestSuite) TestPasswordHashNeverInPublicJSON() {
	resp := suite.register("hash@example.com", "")
	suite.NotEmpty(resp.User.PasswordHash)

	out, err := json.Marshal(resp.User)
	suite.Require().NoError(err)
	suite.NotContains(string(out), "password")
	suite.NotContains(string(out), resp.User.PasswordHash)
}

func (suite *AuthServiceTestSuite) TestHasRole() {
	resp := suite.register("roles@example.com", "seller")

	suite.True(resp.User.HasRole(models.RoleSeller, models.RoleAdmin))
	suite.False(resp.User.HasRole(models.RoleAdmin))

	var nobody *models.User
	suite.False(nobody.HasRole(models.RoleBuyer, models.RoleSeller, models.RoleAdmin))
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
