// Package admin is the back office: authenticated product and stock
// maintenance plus dataset refresh. Writes go to the SQLite dataset tables
// and become visible to shoppers on the next snapshot refresh; live
// snapshots are never mutated.
package admin

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/veloparts/storefront/internal/config"
)

// AuthConfig holds the back-office credential material.
type AuthConfig struct {
	Username     string        `mapstructure:"username"`
	PasswordHash string        `mapstructure:"password_hash"` // bcrypt hash; empty disables login entirely
	TOTPSecret   string        `mapstructure:"totp_secret"`   // optional second factor
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
}

// AuthConfigFrom reads the admin.* configuration subtree.
func AuthConfigFrom(cfg *config.Config) AuthConfig {
	var ac AuthConfig
	if err := cfg.Sub("admin").Unmarshal(&ac); err != nil {
		return AuthConfig{TokenTTL: 24 * time.Hour}
	}
	if ac.TokenTTL <= 0 {
		ac.TokenTTL = 24 * time.Hour
	}
	return ac
}

// authenticator checks credentials and issues/validates session tokens.
// Login attempts are rate limited independently of credential validity.
type authenticator struct {
	cfg     AuthConfig
	limiter *rate.Limiter
}

func newAuthenticator(cfg AuthConfig) *authenticator {
	// A handful of attempts per minute is plenty for one back office.
	return &authenticator{cfg: cfg, limiter: rate.NewLimiter(rate.Every(6*time.Second), 5)}
}

// login validates the username, password and, when configured, the TOTP
// code, and returns a signed session token.
func (a *authenticator) login(username, password, otpCode string) (string, error) {
	if !a.limiter.Allow() {
		return "", errRateLimited
	}
	if a.cfg.PasswordHash == "" || a.cfg.JWTSecret == "" {
		return "", errLoginDisabled
	}
	if username != a.cfg.Username {
		return "", errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.cfg.PasswordHash), []byte(password)); err != nil {
		return "", errBadCredentials
	}
	if a.cfg.TOTPSecret != "" && !totp.Validate(otpCode, a.cfg.TOTPSecret) {
		return "", errBadCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.TokenTTL)),
		Issuer:    "veloparts-admin",
	})
	signed, err := token.SignedString([]byte(a.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// validate parses and verifies a Bearer token from the request.
func (a *authenticator) validate(r *http.Request) error {
	if a.cfg.JWTSecret == "" {
		return errLoginDisabled
	}
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return errNoToken
	}

	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(a.cfg.JWTSecret), nil
	})
	if err != nil {
		return fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return errNoToken
	}
	return nil
}

// Sentinel auth errors, mapped to HTTP statuses by the handler.
var (
	errRateLimited    = fmt.Errorf("too many login attempts")
	errLoginDisabled  = fmt.Errorf("admin login is not configured")
	errBadCredentials = fmt.Errorf("invalid credentials")
	errNoToken        = fmt.Errorf("missing or invalid token")
)
