package token

import (
	"context"
	"fmt"

	"github.com/readysetcloud/newsletter-service-sub010/internal/domain"
	"github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/realtime"
)

// Minter issues subscribe-scoped topic credentials.
type Minter interface {
	MintSubscribe(tenantID string) (*realtime.Credential, error)
}

// Service vends short-lived read-only realtime credentials to dashboard
// clients. The tenant always comes from the caller's verified platform token,
// so a client can never request a credential for another tenant's topic.
type Service interface {
	RealtimeToken(ctx context.Context, tenantID string) (*realtime.Credential, error)
}

type service struct {
	minter Minter
}

func NewService(minter Minter) Service {
	return &service{minter: minter}
}

func (s *service) RealtimeToken(_ context.Context, tenantID string) (*realtime.Credential, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("missing tenant: %w", domain.ErrUnauthorized)
	}
	return s.minter.MintSubscribe(tenantID)
}
