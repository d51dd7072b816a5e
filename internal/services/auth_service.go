package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	authorizer "github.com/localnerve/authorizer-go"
	"github.com/localnerve/growthdb/internal/config"
	"github.com/localnerve/growthdb/internal/models"
	"github.com/localnerve/growthdb/internal/utils"
	"github.com/rs/zerolog"
)

var (
	authClient atomic.Pointer[authorizer.AuthorizerClient]
	authMu     sync.Mutex
)

// ErrNoDomainRole is returned for a valid session that is neither parent nor provider.
var ErrNoDomainRole = errors.New("session has no parent or provider role")

// IsAuthorizerInitialized returns true if the Authorizer client is initialized
func IsAuthorizerInitialized() bool {
	return authClient.Load() != nil
}

// InitAuthorizer initializes the Authorizer client once it is reachable.
// A failed attempt leaves it uninitialized so a later request retries.
// The redirect URL is taken from the first request that succeeds.
func InitAuthorizer(ctx context.Context, cfg *config.Config, requestProtocol, requestHost string, log zerolog.Logger) error {
	authMu.Lock()
	defer authMu.Unlock()

	if authClient.Load() != nil {
		return nil
	}

	if err := utils.PingAuthorizer(ctx, cfg.AuthzURL); err != nil {
		return fmt.Errorf("authorizer ping failed: %w", err)
	}

	redirectURL := fmt.Sprintf("%s://%s", requestProtocol, requestHost)
	log.Info().
		Str("authorizer_url", cfg.AuthzURL).
		Str("client_id", cfg.AuthzClientID).
		Str("redirect_url", redirectURL).
		Msg("initializing authorizer")

	client, err := authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, redirectURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create authorizer client: %w", err)
	}
	authClient.Store(client)
	return nil
}

// ValidateSession resolves a session cookie to an Actor.
func ValidateSession(cookie string) (models.Actor, error) {
	client := authClient.Load()
	if client == nil {
		return models.Actor{}, fmt.Errorf("authorizer client not initialized")
	}

	res, err := client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
	})
	if err != nil {
		return models.Actor{}, fmt.Errorf("session validation failed: %w", err)
	}
	if res == nil || !res.IsValid || res.User == nil {
		return models.Actor{}, fmt.Errorf("session is not valid")
	}

	roles := make([]string, 0, len(res.User.Roles))
	for _, r := range res.User.Roles {
		if r != nil {
			roles = append(roles, *r)
		}
	}
	role, ok := RoleFromClaims(roles)
	if !ok {
		return models.Actor{}, ErrNoDomainRole
	}
	return models.Actor{ID: res.User.ID, Role: role}, nil
}

// RoleFromClaims picks the domain role from session roles. Provider wins over parent.
func RoleFromClaims(roles []string) (models.Role, bool) {
	found := false
	for _, r := range roles {
		role, ok := models.ParseRole(strings.TrimSpace(r))
		if !ok {
			continue
		}
		if role.IsProvider() {
			return role, true
		}
		found = true
	}
	if found {
		return models.RoleParent, true
	}
	return "", false
}
