package service

import (
	"github.com/churchkit/church-ops/internal/config"
	"github.com/churchkit/church-ops/internal/logger"
	"github.com/churchkit/church-ops/internal/store"
)

// Services aggregates every business-layer dependency the transport
// layer consumes.
type Services struct {
	CredentialService CredentialService
	SessionService    SessionService
	AuthService       AuthService
	MemberService     MemberService

	// AuthLimiter throttles credential-guessing traffic on the login
	// path. APILimiter throttles general request volume per client.
	AuthLimiter RateLimiter
	APILimiter  RateLimiter
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, clock Clock, logger *logger.Logger) *Services {
	credentials := NewCredentialService(storages.AccountRepository, cfg.Auth, logger)
	sessions := NewSessionService(storages.SessionRepository, storages.AccountRepository, clock, logger)

	authLimiter := NewRateLimiter(storages.AuthBuckets, cfg.RateLimit.AuthWindow, cfg.RateLimit.AuthMax, clock, logger)
	apiLimiter := NewRateLimiter(storages.APIBuckets, cfg.RateLimit.APIWindow, cfg.RateLimit.APIMax, clock, logger)

	return &Services{
		CredentialService: credentials,
		SessionService:    sessions,
		AuthService:       NewAuthService(storages.AccountRepository, credentials, sessions, authLimiter, cfg.Auth, logger),
		MemberService:     NewMemberService(storages.MemberRepository, logger),
		AuthLimiter:       authLimiter,
		APILimiter:        apiLimiter,
	}
}
