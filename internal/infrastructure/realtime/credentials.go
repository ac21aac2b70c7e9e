package realtime

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/readysetcloud/newsletter-service-sub010/internal/domain"
)

// Scope limits what a credential may do on a tenant's topics.
type Scope string

const (
	ScopePublish   Scope = "publish"
	ScopeSubscribe Scope = "subscribe"
)

// Claims holds the credential payload fields.
type Claims struct {
	TenantID string `json:"tenant_id"`
	Scope    Scope  `json:"scope"`
	jwt.RegisteredClaims
}

// Credential is an ephemeral, scope-limited authorization for one tenant's
// topics. Never persisted; minted per use and discarded.
type Credential struct {
	Token     string    `json:"token"`
	TenantID  string    `json:"tenantId"`
	Scope     Scope     `json:"scope"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Vendor mints and verifies HS256 topic credentials.
type Vendor struct {
	secret []byte
	ttl    time.Duration
}

func NewVendor(secret string, ttl time.Duration) *Vendor {
	return &Vendor{secret: []byte(secret), ttl: ttl}
}

// MintPublish issues a publish-only credential for one tenant's topics.
func (v *Vendor) MintPublish(tenantID string) (*Credential, error) {
	return v.mint(tenantID, ScopePublish)
}

// MintSubscribe issues a read-only credential for dashboard clients.
func (v *Vendor) MintSubscribe(tenantID string) (*Credential, error) {
	return v.mint(tenantID, ScopeSubscribe)
}

func (v *Vendor) mint(tenantID string, scope Scope) (*Credential, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant id required", domain.ErrCredential)
	}
	now := time.Now()
	expiresAt := now.Add(v.ttl)
	claims := Claims{
		TenantID: tenantID,
		Scope:    scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCredential, err)
	}
	return &Credential{
		Token:     token,
		TenantID:  tenantID,
		Scope:     scope,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks a credential token's signature and expiry and returns its claims.
func (v *Vendor) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid credential claims")
	}
	return claims, nil
}
