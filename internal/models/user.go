// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone,omitempty"`
	Role            Role       `json:"role"`
	AvatarURL       string     `json:"avatar,omitempty"`
	PasswordHash    string     `json:"-"`
	Status          UserStatus `json:"status"`
	ProfileData     Metadata   `json:"profile_data,omitempty"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	PhoneVerifiedAt *time.Time `json:"phone_verified_at,omitempty"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// HasRole reports whether the user holds any of the given roles. A nil user
// holds no role at all.
func (u *User) HasRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

// persistedUser carries the password hash into the users blob. The public JSON
// shape of User never includes it.
type persistedUser struct {
	User
	PasswordHash string `json:"password_hash"`
}

func (u User) toPersisted() persistedUser {
	return persistedUser{User: u, PasswordHash: u.PasswordHash}
}

func (p persistedUser) toUser() User {
	u := p.User
	u.PasswordHash = p.PasswordHash
	return u
}

// UserBlob is the serialized form of the users collection.
type UserBlob []persistedUser

func UsersToBlob(users []User) UserBlob {
	blob := make(UserBlob, 0, len(users))
	for _, u := range users {
		blob = append(blob, u.toPersisted())
	}
	return blob
}

func (b UserBlob) Users() []User {
	users := make([]User, 0, len(b))
	for _, p := range b {
		users = append(users, p.toUser())
	}
	return users
}
