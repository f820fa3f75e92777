package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engnohamahmoudamayem/edu-catalog/pkg/catalog"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "memory", cfg.DatabaseType)
	assert.True(t, cfg.EnableEventLogging)
}

func TestLoadOptions(t *testing.T) {
	cfg, err := Load(
		WithPort("9090"),
		WithEnvironment("production"),
		WithDatabase("postgres", "postgres://localhost/catalog"),
		WithEventLogging(false),
	)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, "postgres://localhost/catalog", cfg.DatabaseURL)
	assert.False(t, cfg.EnableEventLogging)
}

func TestLoadSkipsNilOptions(t *testing.T) {
	cfg, err := Load(nil, WithPort("9191"), nil)
	require.NoError(t, err)
	assert.Equal(t, "9191", cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		options     []Option
		expectError bool
	}{
		{
			name:        "defaults are valid",
			options:     nil,
			expectError: false,
		},
		{
			name:        "empty port",
			options:     []Option{WithPort("")},
			expectError: true,
		},
		{
			name:        "unknown database type",
			options:     []Option{WithDatabase("sqlite", "")},
			expectError: true,
		},
		{
			name:        "postgres without url",
			options:     []Option{WithDatabase("postgres", "")},
			expectError: true,
		},
		{
			name:        "postgres with url",
			options:     []Option{WithDatabase("postgres", "postgres://localhost/catalog")},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.options...)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildServiceMemory(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	svc, err := cfg.BuildService(context.Background())
	require.NoError(t, err)
	require.NotNil(t, svc)

	// The built service is immediately usable.
	stage, err := svc.CreateStage(context.Background(), catalog.CreateStageRequest{Name: "Primary"})
	assert.NoError(t, err)
	assert.NotZero(t, stage.ID)
}
