// internal/services/auth_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vendora/vendora-backend/internal/blobstore"
	"github.com/vendora/vendora-backend/internal/config"
	"github.com/vendora/vendora-backend/internal/models"
	"github.com/vendora/vendora-backend/internal/utils"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountSuspended   = errors.New("account is suspended")
	ErrInvalidOTP         = errors.New("invalid or expired verification code")
)

const otpTTL = 5 * time.Minute

// AuthService owns the user records. The collection is one blob under the
// "users" key, password hashes included; the public User JSON shape never
// carries them.
type AuthService struct {
	store blobstore.Store
	cfg   *config.Config

	mu    sync.RWMutex
	users []models.User
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password" validate:"required,strong_password"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=buyer seller"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name      string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone     string `json:"phone,omitempty"`
	AvatarURL string `json:"avatar,omitempty"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

func NewAuthService(ctx context.Context, store blobstore.Store, cfg *config.Config) *AuthService {
	s := &AuthService{store: store, cfg: cfg}
	s.users = s.loadUsers(ctx)
	s.seedAdmin(ctx)
	return s
}

func (s *AuthService) loadUsers(ctx context.Context) []models.User {
	blob, err := s.store.Load(ctx, blobstore.KeyUsers)
	if errors.Is(err, blobstore.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		logrus.WithError(err).Warn("Failed to load users blob")
		return nil
	}

	var persisted models.UserBlob
	if err := json.Unmarshal(blob, &persisted); err != nil {
		logrus.WithError(err).Warn("Corrupt users blob, starting empty")
		return nil
	}
	return persisted.Users()
}

// seedAdmin creates the initial moderation account when none exists yet.
func (s *AuthService) seedAdmin(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Role == models.RoleAdmin {
			return
		}
	}

	now := time.Now()
	admin := models.User{
		ID:        models.NewUserID(),
		Name:      s.cfg.Admin.Name,
		Email:     strings.ToLower(s.cfg.Admin.Email),
		Role:      models.RoleAdmin,
		Status:    models.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := admin.SetPassword(s.cfg.Admin.Password); err != nil {
		logrus.WithError(err).Error("Failed to hash admin password")
		return
	}

	next := append(append([]models.User(nil), s.users...), admin)
	if err := s.persistLocked(ctx, next); err != nil {
		logrus.WithError(err).Error("Failed to seed admin user")
		return
	}
	s.users = next
	logrus.WithField("email", admin.Email).Info("Seeded admin account")
}

func (s *AuthService) persistLocked(ctx context.Context, users []models.User) error {
	blob, err := json.Marshal(models.UsersToBlob(users))
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}
	if err := s.store.Save(ctx, blobstore.KeyUsers, blob); err != nil {
		return fmt.Errorf("persist users: %w", err)
	}
	return nil
}

// Register creates a buyer or seller account. Admin accounts are seeded from
// configuration only.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	role := models.RoleBuyer
	if req.Role != "" {
		parsed, ok := models.ParseRole(req.Role)
		if !ok || parsed == models.RoleAdmin {
			return nil, errors.New("invalid role")
		}
		role = parsed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(req.Email)
	for _, u := range s.users {
		if u.Email == email {
			return nil, ErrUserExists
		}
	}

	now := time.Now()
	user := models.User{
		ID:        models.NewUserID(),
		Name:      req.Name,
		Email:     email,
		Phone:     req.Phone,
		Role:      role,
		Status:    models.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	next := append(append([]models.User(nil), s.users...), user)
	if err := s.persistLocked(ctx, next); err != nil {
		return nil, err
	}
	s.users = next

	return s.buildAuthResponse(&user)
}

// Login verifies credentials and stamps the last login time.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByEmail(strings.ToLower(req.Email))
	if idx < 0 {
		return nil, ErrInvalidCredentials
	}
	user := s.users[idx]

	if user.Status == models.UserStatusSuspended {
		return nil, ErrAccountSuspended
	}
	if err := user.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	next := append([]models.User(nil), s.users...)
	next[idx].LastLoginAt = &now
	if err := s.persistLocked(ctx, next); err != nil {
		return nil, err
	}
	s.users = next
	user = next[idx]

	return s.buildAuthResponse(&user)
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (s *AuthService) Refresh(refreshToken string) (*AuthResponse, error) {
	userID, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Status != models.UserStatusActive {
		return nil, ErrAccountSuspended
	}

	return s.buildAuthResponse(user)
}

// SendOTP issues a 6-digit code for the given channel ("email" or "phone").
// The hash and expiry live in the user's profile data until verified. The
// code itself is logged, standing in for a mail or SMS provider.
func (s *AuthService) SendOTP(ctx context.Context, userID, channel string) error {
	if channel != "email" && channel != "phone" {
		return errors.New("unknown OTP channel")
	}

	code, err := utils.GenerateOTPCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(userID)
	if idx < 0 {
		return ErrUserNotFound
	}

	next := append([]models.User(nil), s.users...)
	// Clone before mutating so a failed persist leaves s.users untouched
	next[idx].ProfileData = next[idx].ProfileData.Clone()
	if next[idx].ProfileData == nil {
		next[idx].ProfileData = make(models.Metadata)
	}
	next[idx].ProfileData["otp_hash"] = utils.HashString(code)
	next[idx].ProfileData["otp_channel"] = channel
	next[idx].ProfileData["otp_expires"] = time.Now().Add(otpTTL).Unix()

	if err := s.persistLocked(ctx, next); err != nil {
		return err
	}
	s.users = next

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"channel": channel,
		"code":    code,
	}).Info("OTP issued")
	return nil
}

// VerifyOTP checks the submitted code against the stored hash. Codes are
// single use: success clears the stored hash and stamps the channel verified.
func (s *AuthService) VerifyOTP(ctx context.Context, userID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(userID)
	if idx < 0 {
		return ErrUserNotFound
	}

	profile := s.users[idx].ProfileData
	storedHash, _ := profile["otp_hash"].(string)
	if storedHash == "" {
		return ErrInvalidOTP
	}

	expires := int64(0)
	switch v := profile["otp_expires"].(type) {
	case float64:
		expires = int64(v)
	case int64:
		expires = v
	}
	if time.Now().Unix() > expires {
		return ErrInvalidOTP
	}

	if !utils.SecureCompare(storedHash, utils.HashString(code)) {
		return ErrInvalidOTP
	}

	now := time.Now()
	next := append([]models.User(nil), s.users...)
	// Clone before the deletes below so a failed persist keeps the code valid
	next[idx].ProfileData = next[idx].ProfileData.Clone()
	channel, _ := profile["otp_channel"].(string)
	if channel == "phone" {
		next[idx].PhoneVerifiedAt = &now
	} else {
		next[idx].EmailVerifiedAt = &now
	}
	delete(next[idx].ProfileData, "otp_hash")
	delete(next[idx].ProfileData, "otp_channel")
	delete(next[idx].ProfileData, "otp_expires")

	if err := s.persistLocked(ctx, next); err != nil {
		return err
	}
	s.users = next
	return nil
}

// UpdateProfile merges profile fields and restamps UpdatedAt.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(userID)
	if idx < 0 {
		return nil, ErrUserNotFound
	}

	next := append([]models.User(nil), s.users...)
	if req.Name != "" {
		next[idx].Name = req.Name
	}
	if req.Phone != "" {
		next[idx].Phone = req.Phone
	}
	if req.AvatarURL != "" {
		next[idx].AvatarURL = req.AvatarURL
	}
	next[idx].UpdatedAt = time.Now()

	if err := s.persistLocked(ctx, next); err != nil {
		return nil, err
	}
	s.users = next
	user := next[idx]
	return &user, nil
}

// SetStatus suspends or reactivates an account (admin console).
func (s *AuthService) SetStatus(ctx context.Context, userID string, status models.UserStatus) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(userID)
	if idx < 0 {
		return nil, ErrUserNotFound
	}

	next := append([]models.User(nil), s.users...)
	next[idx].Status = status
	next[idx].UpdatedAt = time.Now()

	if err := s.persistLocked(ctx, next); err != nil {
		return nil, err
	}
	s.users = next
	user := next[idx]
	return &user, nil
}

func (s *AuthService) GetUserByID(userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexByID(userID)
	if idx < 0 {
		return nil, ErrUserNotFound
	}
	user := s.users[idx]
	return &user, nil
}

// Users returns a snapshot of all accounts, newest first (admin console).
func (s *AuthService) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]models.User(nil), s.users...)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (s *AuthService) CountByRole() map[models.Role]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.Role]int)
	for _, u := range s.users {
		counts[u.Role]++
	}
	return counts
}

func (s *AuthService) buildAuthResponse(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Name, string(user.Role), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}

// indexByEmail and indexByID must be called with the lock held.
func (s *AuthService) indexByEmail(email string) int {
	for i, u := range s.users {
		if u.Email == email {
			return i
		}
	}
	return -1
}

func (s *AuthService) indexByID(userID string) int {
	for i, u := range s.users {
		if u.ID == userID {
			return i
		}
	}
	return -1
}
