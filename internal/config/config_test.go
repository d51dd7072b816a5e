package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DATABASE", "growth.db")
	t.Setenv("AUTH_MODE", AuthModeHeader)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "sqlite-go", cfg.DBType)
	assert.Equal(t, 500, cfg.NotesMaxLength)
	assert.True(t, cfg.IsSQLite())
}

func TestLoadRequiresDatabase(t *testing.T) {
	t.Setenv("DB_DATABASE", "")
	t.Setenv("AUTH_MODE", AuthModeHeader)

	_, err := Load()
	assert.ErrorContains(t, err, "DB_DATABASE")
}

func TestValidate(t *testing.T) {
	base := Config{
		DBType:         "postgres",
		DBDatabase:     "growthdb",
		DBUser:         "growthdb",
		AuthMode:       AuthModeAuthorizer,
		AuthzURL:       "http://localhost:8080",
		AuthzClientID:  "client",
		NotesMaxLength: 500,
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"server db without user", func(c *Config) { c.DBUser = "" }, "DB_USER"},
		{"unknown db", func(c *Config) { c.DBType = "oracle" }, "unsupported DB_TYPE"},
		{"authorizer without url", func(c *Config) { c.AuthzURL = "" }, "AUTHZ_URL"},
		{"authorizer without client", func(c *Config) { c.AuthzClientID = "" }, "AUTHZ_CLIENT_ID"},
		{"unknown auth mode", func(c *Config) { c.AuthMode = "basic" }, "AUTH_MODE"},
		{"notes limit", func(c *Config) { c.NotesMaxLength = 0 }, "NOTES_MAX_LENGTH"},
		{"notes limit wider than column", func(c *Config) { c.NotesMaxLength = NotesColumnLength + 1 }, "NOTES_MAX_LENGTH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}

	widest := base
	widest.NotesMaxLength = NotesColumnLength
	assert.NoError(t, widest.Validate())

	header := base
	header.AuthMode = AuthModeHeader
	header.AuthzURL = ""
	assert.NoError(t, header.Validate())
}
