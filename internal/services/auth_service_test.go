package services

import (
	"context"
	"net"
	"testing"

	"github.com/localnerve/growthdb/internal/config"
	"github.com/localnerve/growthdb/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetAuthorizer(t *testing.T) {
	t.Helper()
	authClient.Store(nil)
	t.Cleanup(func() { authClient.Store(nil) })
}

func TestInitAuthorizerRetriesAfterOutage(t *testing.T) {
	resetAuthorizer(t)
	ctx := context.Background()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	cfg := &config.Config{AuthMode: config.AuthModeAuthorizer, AuthzURL: "http://" + addr, AuthzClientID: "growthdb"}

	err = InitAuthorizer(ctx, cfg, "http", "localhost:3000", zerolog.Nop())
	require.Error(t, err)
	assert.False(t, IsAuthorizerInitialized())

	_, err = ValidateSession("cookie")
	require.Error(t, err)

	ln, err = net.Listen("tcp", addr)
	require.NoError(t, err)
	defer ln.Close()

	require.NoError(t, InitAuthorizer(ctx, cfg, "http", "localhost:3000", zerolog.Nop()))
	assert.True(t, IsAuthorizerInitialized())

	// initialized clients are kept even if the service goes away again
	require.NoError(t, ln.Close())
	require.NoError(t, InitAuthorizer(ctx, cfg, "http", "localhost:3000", zerolog.Nop()))
	assert.True(t, IsAuthorizerInitialized())
}

func TestRoleFromClaims(t *testing.T) {
	role, ok := RoleFromClaims([]string{"user", " parent ", "provider"})
	require.True(t, ok)
	assert.Equal(t, models.RoleProvider, role)

	role, ok = RoleFromClaims([]string{"parent"})
	require.True(t, ok)
	assert.Equal(t, models.RoleParent, role)

	_, ok = RoleFromClaims([]string{"admin"})
	assert.False(t, ok)
}
