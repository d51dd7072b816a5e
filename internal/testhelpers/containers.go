// containers.go
//
// Shared child growth and nutrition records for parents and healthcare providers
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of growthdb.
// growthdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// growthdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with growthdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/localnerve/growthdb/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Default images, overridden by DB_IMAGE and AUTHZ_IMAGE.
const (
	defaultPostgresImage   = "postgres:16-alpine"
	defaultMariaDBImage    = "mariadb:11"
	defaultAuthorizerImage = "lakhansamani/authorizer:latest"
)

// Stack is a database, and optionally an Authorizer, running in containers.
type Stack struct {
	Network             *testcontainers.DockerNetwork
	DBContainer         testcontainers.Container
	AuthorizerContainer testcontainers.Container

	// Config points growthdb at the containers from the host.
	Config config.Config
}

// StackOptions selects what CreateStack starts.
type StackOptions struct {
	DBType         string // postgres (default) or mariadb
	WithAuthorizer bool
}

// DockerAvailable reports whether a Docker daemon answers on the environment's endpoint.
func DockerAvailable(ctx context.Context) bool {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false
	}
	defer cli.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err = cli.Ping(pingCtx)
	return err == nil
}

// Terminate stops everything the stack started. t may be nil outside tests.
func (s *Stack) Terminate(t *testing.T) {
	ctx := context.Background()
	if s.AuthorizerContainer != nil {
		if err := s.AuthorizerContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate Authorizer: %v", err)
		}
	}
	if s.DBContainer != nil {
		if err := s.DBContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate database: %v", err)
		}
	}
	if s.Network != nil {
		if err := s.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// CreateStack starts the containers described by opts. On failure everything
// already started is terminated.
func CreateStack(ctx context.Context, t *testing.T, opts StackOptions) (*Stack, error) {
	if opts.DBType == "" {
		opts.DBType = "postgres"
	}
	stack := &Stack{}

	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create network: %w", err)
	}
	stack.Network = nw

	dbAlias := "db"
	dbPort, dbEnv, image, err := dbContainerSettings(opts.DBType)
	if err != nil {
		stack.Terminate(t)
		return nil, err
	}
	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:          image,
			ExposedPorts:   []string{string(dbPort)},
			Env:            dbEnv,
			WaitingFor:     wait.ForListeningPort(dbPort).WithStartupTimeout(60 * time.Second),
			Networks:       []string{nw.Name},
			NetworkAliases: map[string][]string{nw.Name: {dbAlias}},
		},
		Started: true,
	})
	if err != nil {
		stack.Terminate(t)
		return nil, fmt.Errorf("start %s: %w", opts.DBType, err)
	}
	stack.DBContainer = dbContainer

	host, err := dbContainer.Host(ctx)
	if err != nil {
		stack.Terminate(t)
		return nil, fmt.Errorf("database host: %w", err)
	}
	mapped, err := dbContainer.MappedPort(ctx, dbPort)
	if err != nil {
		stack.Terminate(t)
		return nil, fmt.Errorf("database port: %w", err)
	}

	stack.Config = config.Config{
		Port:              "3000",
		DBType:            opts.DBType,
		DBHost:            host,
		DBPort:            mapped.Port(),
		DBDatabase:        dbEnv["POSTGRES_DB"] + dbEnv["MYSQL_DATABASE"],
		DBUser:            dbEnv["POSTGRES_USER"] + dbEnv["MYSQL_USER"],
		DBPassword:        dbEnv["POSTGRES_PASSWORD"] + dbEnv["MYSQL_PASSWORD"],
		DBConnectionLimit: 5,
		DBLogLevel:        "warn",
		AuthMode:          config.AuthModeHeader,
		LogLevel:          "info",
		LogFormat:         "console",
		NotesMaxLength:    500,
	}
	logMessage(t, "DB_HOST=%s DB_PORT=%s", host, mapped.Port())

	if !opts.WithAuthorizer {
		return stack, nil
	}

	authzPort, err := nat.NewPort("tcp", envOr("AUTHZ_PORT", "8080"))
	if err != nil {
		stack.Terminate(t)
		return nil, fmt.Errorf("authorizer port: %w", err)
	}
	clientID := envOr("AUTHZ_CLIENT_ID", "growthdb-test")
	authorizerContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        envOr("AUTHZ_IMAGE", defaultAuthorizerImage),
			ExposedPorts: []string{string(authzPort)},
			Env: map[string]string{
				"ENV":           "production",
				"CLIENT_ID":     clientID,
				"PORT":          authzPort.Port(),
				"DATABASE_TYPE": "sqlite",
				"DATABASE_URL":  "/tmp/authorizer.db",
				"ADMIN_SECRET":  envOr("AUTHZ_ADMIN_SECRET", "admin-secret"),
				"ROLES":         "parent,provider",
				"DEFAULT_ROLES": "parent",
			},
			WaitingFor: wait.ForLog("Authorizer running at PORT:").WithStartupTimeout(30 * time.Second),
			Networks:   []string{nw.Name},
		},
		Started: true,
	})
	if err != nil {
		stack.Terminate(t)
		return nil, fmt.Errorf("start authorizer: %w", err)
	}
	stack.AuthorizerContainer = authorizerContainer

	authzHost, _ := authorizerContainer.Host(ctx)
	authzMapped, _ := authorizerContainer.MappedPort(ctx, authzPort)
	stack.Config.AuthMode = config.AuthModeAuthorizer
	stack.Config.AuthzURL = fmt.Sprintf("http://%s:%s", authzHost, authzMapped.Port())
	stack.Config.AuthzClientID = clientID
	logMessage(t, "AUTHZ_URL=%s", stack.Config.AuthzURL)

	return stack, nil
}

func dbContainerSettings(dbType string) (nat.Port, map[string]string, string, error) {
	switch dbType {
	case "postgres", "postgresql":
		port, err := nat.NewPort("tcp", "5432")
		return port, map[string]string{
			"POSTGRES_USER":     "growthdb",
			"POSTGRES_PASSWORD": "growthdb",
			"POSTGRES_DB":       "growthdb",
		}, envOr("DB_IMAGE", defaultPostgresImage), err
	case "mariadb", "mysql":
		port, err := nat.NewPort("tcp", "3306")
		return port, map[string]string{
			"MYSQL_ROOT_PASSWORD": envOr("DB_ROOT_PASSWORD", "root"),
			"MYSQL_DATABASE":      "growthdb",
			"MYSQL_USER":          "growthdb",
			"MYSQL_PASSWORD":      "growthdb",
		}, envOr("DB_IMAGE", defaultMariaDBImage), err
	}
	return "", nil, "", fmt.Errorf("unsupported container DB_TYPE: %s", dbType)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
