// Package auth handles account creation, credential checks and browser
// sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zulandar/bookmarky/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrBadCredentials = errors.New("auth: bad credentials")
	ErrLoginTaken     = errors.New("auth: login already taken")
	ErrInvalidInput   = errors.New("auth: login and password are required")
	ErrNoSession      = errors.New("auth: no valid session")
)

// hashCost is the bcrypt work factor. Tests lower it.
var hashCost = bcrypt.DefaultCost

// now is the session clock. Times are kept in UTC so they compare as text
// under SQLite.
var now = func() time.Time { return time.Now().UTC() }

// NewUser holds the fields submitted when creating an account.
type NewUser struct {
	Login       string
	Password    string
	DisplayName string
	Email       string
	Role        string
}

// CreateUser stores a new account with a bcrypt-hashed password and returns
// its id. A blank display name falls back to the login; a blank role to
// Developer.
func CreateUser(ctx context.Context, db *gorm.DB, nu NewUser) (uint, error) {
	login := strings.TrimSpace(nu.Login)
	if login == "" || nu.Password == "" {
		return 0, ErrInvalidInput
	}
	if login == models.UnassignedLogin {
		return 0, ErrLoginTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), hashCost)
	if err != nil {
		return 0, fmt.Errorf("auth: hash password: %w", err)
	}

	u := models.User{
		Login:        login,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(nu.DisplayName),
		Email:        strings.TrimSpace(nu.Email),
		Role:         strings.TrimSpace(nu.Role),
	}
	if u.DisplayName == "" {
		u.DisplayName = login
	}
	if u.Role == "" {
		u.Role = models.RoleDeveloper
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.User{}).Where("login = ?", login).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrLoginTaken
		}
		return tx.Create(&u).Error
	})
	if errors.Is(err, ErrLoginTaken) {
		return 0, err
	}
	if err != nil {
		return 0, fmt.Errorf("auth: create user %q: %w", login, err)
	}
	return u.ID, nil
}

// CheckAuth returns the id of the user whose login and password match.
func CheckAuth(ctx context.Context, db *gorm.DB, login, password string) (uint, error) {
	var u models.User
	err := db.WithContext(ctx).Where("login = ?", strings.TrimSpace(login)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrBadCredentials
	}
	if err != nil {
		return 0, fmt.Errorf("auth: check %q: %w", login, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return 0, ErrBadCredentials
	}
	return u.ID, nil
}

// NewSession issues a random session token for uid that expires after ttl.
func NewSession(ctx context.Context, db *gorm.DB, uid uint, ttl time.Duration) (*models.Session, error) {
	s := models.Session{
		Token:     uuid.NewString(),
		UserID:    uid,
		ExpiresAt: now().Add(ttl),
	}
	if err := db.WithContext(ctx).Create(&s).Error; err != nil {
		return nil, fmt.Errorf("auth: new session for user %d: %w", uid, err)
	}
	return &s, nil
}

// Lookup resolves an unexpired session token to its user.
func Lookup(ctx context.Context, db *gorm.DB, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	var s models.Session
	err := db.WithContext(ctx).
		Preload("User").
		Where("token = ? AND expires_at > ?", token, now()).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("auth: lookup session: %w", err)
	}
	if s.User.ID == 0 {
		return nil, ErrNoSession
	}
	return &s.User, nil
}

// EndSession deletes the session. Unknown tokens are not an error.
func EndSession(ctx context.Context, db *gorm.DB, token string) error {
	if token == "" {
		return nil
	}
	if err := db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("auth: end session: %w", err)
	}
	return nil
}

// SweepExpired deletes every expired session and reports how many went.
func SweepExpired(ctx context.Context, db *gorm.DB) (int64, error) {
	result := db.WithContext(ctx).Where("expires_at <= ?", now()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("auth: sweep sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
