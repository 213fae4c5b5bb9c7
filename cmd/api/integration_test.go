//go:build integration
// +build integration

package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubsuite/elections-api/internal/config"
	"github.com/clubsuite/elections-api/internal/storage/postgres"
	"github.com/clubsuite/elections-api/internal/storage/rediscache"
)

// Integration tests that require real PostgreSQL and Redis backends
// Run with: go test -tags=integration

func loadTestConfig() *config.Config {
	cfg := config.Load()
	if testDB := os.Getenv("TEST_DB_NAME"); testDB != "" {
		cfg.DB.Name = testDB
	}
	return cfg
}

func TestDatabaseConnection(t *testing.T) {
	cfg := loadTestConfig()

	db, err := postgres.Connect(cfg)
	require.NoError(t, err, "Should be able to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.NoError(t, sqlDB.Ping(), "Should be able to ping the database")
}

func TestDatabaseMigration(t *testing.T) {
	cfg := loadTestConfig()

	db, err := postgres.Connect(cfg)
	require.NoError(t, err, "Should be able to connect to test database")

	assert.NoError(t, postgres.AutoMigrate(db), "Should be able to run migrations")

	sqlDB, _ := db.DB()
	sqlDB.Close()
}

func TestRedisConnection(t *testing.T) {
	cfg := loadTestConfig()

	cache, err := rediscache.Connect(cfg)
	require.NoError(t, err, "Should be able to connect to Redis")
	defer cache.Close()

	require.NoError(t, cache.IncrementCandidate("it-event", "it-pos", "it-cand"))
	counters, err := cache.GetEventCounters("it-event")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, counters["it-pos:it-cand"], int64(1))
}
