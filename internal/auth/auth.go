// Package auth resolves bearer tokens to the owner they act for.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// KeyStore looks up the owner of a hashed API key.
type KeyStore interface {
	OwnerForKeyHash(ctx context.Context, keyHash string) (string, error)
}

// HashKey returns the stored form of an API key.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// GenerateKey returns a new random API key.
func GenerateKey() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating api key: %w", err)
	}
	return "atk_" + hex.EncodeToString(buf), nil
}

// APIKeyResolver resolves API keys stored as hashes.
type APIKeyResolver struct {
	store KeyStore
}

// NewAPIKeyResolver creates a resolver backed by store.
func NewAPIKeyResolver(store KeyStore) *APIKeyResolver {
	return &APIKeyResolver{store: store}
}

// ResolveOwner returns the owner of an API key.
func (r *APIKeyResolver) ResolveOwner(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrUnauthorized
	}
	ownerID, err := r.store.OwnerForKeyHash(ctx, HashKey(token))
	if err != nil || ownerID == "" {
		return "", ErrUnauthorized
	}
	return ownerID, nil
}

// JWTResolver verifies HS256 tokens whose subject is the owner id.
type JWTResolver struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewJWTResolver creates a resolver for tokens signed with secret.
func NewJWTResolver(secret, issuer string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Issue signs a token for ownerID valid for ttl.
func (r *JWTResolver) Issue(ownerID string, ttl time.Duration) (string, error) {
	if ownerID == "" {
		return "", errors.New("owner id is required")
	}
	now := r.now()
	claims := jwt.RegisteredClaims{
		Subject:   ownerID,
		Issuer:    r.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ResolveOwner verifies a token and returns its subject.
func (r *JWTResolver) ResolveOwner(_ context.Context, token string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(r.now),
	}
	if r.issuer != "" {
		opts = append(opts, jwt.WithIssuer(r.issuer))
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrUnauthorized
	}
	return claims.Subject, nil
}

// StaticResolver maps every token to one owner. It serves single-user setups
// where authentication is disabled.
type StaticResolver struct {
	OwnerID string
}

// ResolveOwner returns the configured owner.
func (r StaticResolver) ResolveOwner(context.Context, string) (string, error) {
	if r.OwnerID == "" {
		return "", ErrUnauthorized
	}
	return r.OwnerID, nil
}
