package services

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/rings-s/anha/internal/common"
)

// bcrypt ignores everything past 72 bytes; truncate explicitly so long
// passwords verify consistently.
const bcryptInputLimit = 72

// CredentialService owns password hashing and the two bearer secrets the
// platform issues: signed access tokens and one-shot reset tokens.
type CredentialService interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool

	NewAccessToken(subject string) (string, error)
	ParseAccessToken(token string) (string, error)

	NewResetToken() (token, tokenHash string, err error)
	HashResetToken(token string) string
	VerifyResetToken(token, tokenHash string) bool
}

type credentialService struct {
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewCredentialService(jwtSecret string, tokenTTL time.Duration) CredentialService {
	return &credentialService{
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

func (s *credentialService) HashPassword(password string) (string, error) {
	input := []byte(password)
	if len(input) > bcryptInputLimit {
		input = input[:bcryptInputLimit]
	}
	hashed, err := bcrypt.GenerateFromPassword(input, bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *credentialService) VerifyPassword(password, hash string) bool {
	input := []byte(password)
	if len(input) > bcryptInputLimit {
		input = input[:bcryptInputLimit]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), input) == nil
}

// NewAccessToken signs an HS256 JWT whose subject is the user's email.
func (s *credentialService) NewAccessToken(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken verifies signature and expiry and returns the subject.
// Every failure mode collapses to ErrInvalidCredential.
func (s *credentialService) ParseAccessToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return "", common.ErrInvalidCredential
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", common.ErrInvalidCredential
	}
	return claims.Subject, nil
}

// NewResetToken returns a high-entropy bearer token and its SHA-256
// digest. Only the digest is ever persisted.
func (s *credentialService) NewResetToken() (string, string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate reset token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	return token, s.HashResetToken(token), nil
}

func (s *credentialService) HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *credentialService) VerifyResetToken(token, tokenHash string) bool {
	computed := s.HashResetToken(token)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(tokenHash)) == 1
}
