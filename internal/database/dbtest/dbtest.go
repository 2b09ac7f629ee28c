// Package dbtest provides a throwaway Postgres for integration tests.
package dbtest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taiwoajasa245/quran-reader/internal/database"
	"github.com/taiwoajasa245/quran-reader/pkg/config"
)

var (
	containerOnce sync.Once
	containerCfg  *config.Config
	containerErr  error
)

// New starts (once per test binary) a Postgres container and returns a
// migrated database.Service pointing at it. Tests are skipped when no
// container provider is available.
func New(t *testing.T) database.Service {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	containerOnce.Do(func() {
		containerCfg, containerErr = mustStartPostgresContainer()
	})
	require.NoError(t, containerErr, "could not start postgres container")

	srv, err := database.New(containerCfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	require.NoError(t, srv.Migrate(context.Background()))
	return srv
}

func mustStartPostgresContainer() (*config.Config, error) {
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	ctx := context.Background()
	dbContainer, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(ctx)
	if err != nil {
		return nil, err
	}

	dbPort, err := dbContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return nil, err
	}

	return &config.Config{
		DBHost:     dbHost,
		DBPort:     dbPort.Port(),
		DBName:     dbName,
		DBUser:     dbUser,
		DBPassword: dbPwd,
		DBSchema:   "public",
	}, nil
}
