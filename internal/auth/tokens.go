package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token purposes. A token minted for one purpose never validates for another.
const (
	purposeAccess = "access"
	purposeVerify = "verify_email"
	purposeReset  = "reset_password"
)

// Claims is the JWT payload for all purposes. PasswordChangedAt pins the
// token to the credential generation it was issued under: changing the
// password invalidates every outstanding token at once.
type Claims struct {
	Purpose           string `json:"purpose"`
	PasswordChangedAt int64  `json:"pwd_changed_at,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and validates the JWTs used for API access, email
// verification, and password reset
type TokenIssuer struct {
	secret []byte
}

// NewTokenIssuer creates a new token issuer with the given signing secret
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

func (t *TokenIssuer) mint(userID uuid.UUID, purpose string, ttl time.Duration, pwdChangedAt *time.Time) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if pwdChangedAt != nil {
		claims.PasswordChangedAt = pwdChangedAt.Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// AccessToken mints a short-lived API access token
func (t *TokenIssuer) AccessToken(userID uuid.UUID, ttl time.Duration, pwdChangedAt *time.Time) (string, error) {
	return t.mint(userID, purposeAccess, ttl, pwdChangedAt)
}

// VerificationToken mints an email verification token
func (t *TokenIssuer) VerificationToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	return t.mint(userID, purposeVerify, ttl, nil)
}

// ResetToken mints a password reset token
func (t *TokenIssuer) ResetToken(userID uuid.UUID, ttl time.Duration, pwdChangedAt *time.Time) (string, error) {
	return t.mint(userID, purposeReset, ttl, pwdChangedAt)
}

// parse validates signature, expiry, and purpose, returning the claims
func (t *TokenIssuer) parse(tokenString, purpose string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseAccessToken validates an access token and returns its claims
func (t *TokenIssuer) ParseAccessToken(tokenString string) (*Claims, error) {
	return t.parse(tokenString, purposeAccess)
}

// ParseVerificationToken validates an email verification token
func (t *TokenIssuer) ParseVerificationToken(tokenString string) (*Claims, error) {
	return t.parse(tokenString, purposeVerify)
}

// ParseResetToken validates a password reset token
func (t *TokenIssuer) ParseResetToken(tokenString string) (*Claims, error) {
	return t.parse(tokenString, purposeReset)
}

// NewRefreshToken generates an opaque refresh token and the SHA-256 hash
// under which it is stored. Only the hash ever touches the database, so a
// leaked database cannot mint sessions.
func NewRefreshToken() (token, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	token = hex.EncodeToString(buf)
	return token, HashRefreshToken(token), nil
}

// HashRefreshToken returns the storage hash for a refresh token
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
