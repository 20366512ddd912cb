// Package testutil starts throwaway backends for integration tests.
package testutil

import (
	"context"
	"fmt"

	"github.com/nikolayk812/nicoshop/internal/bootstrap/steps"
	"github.com/nikolayk812/nicoshop/internal/repository"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage = "postgres:17-alpine"
	redisImage    = "redis:7-alpine"
)

// StartPostgres runs a Postgres container with the schema migrated and returns its connection string.
func StartPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("nicoshop"),
		postgres.WithUsername("nicoshop"),
		postgres.WithPassword("nicoshop"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	migrateStep, err := steps.NewMigrate(connStr, repository.Migrations, "migrations")
	if err != nil {
		return container, "", fmt.Errorf("steps.NewMigrate: %w", err)
	}

	if err := migrateStep.Run(ctx, steps.DataContext{}); err != nil {
		return container, "", fmt.Errorf("migrateStep.Run: %w", err)
	}

	return container, connStr, nil
}

// StartRedis runs a Redis container and returns a redis:// URL for it.
func StartRedis(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        redisImage,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("testcontainers.GenericContainer: %w", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		return container, "", fmt.Errorf("container.Endpoint: %w", err)
	}

	return container, "redis://" + endpoint, nil
}
