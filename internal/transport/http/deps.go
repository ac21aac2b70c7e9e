package http

import (
	"github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/dynamo"
	jwtinfra "github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/jwt"
	"github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/realtime"
	s3infra "github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/s3"
	"github.com/readysetcloud/newsletter-service-sub010/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	NotificationRepo *dynamo.NotificationRepo
	Vendor           *realtime.Vendor
	Publisher        *realtime.Publisher
	Archive          *s3infra.Archive
	Alerts           sns.AlertSender
	JWTProvider      *jwtinfra.Provider
}
