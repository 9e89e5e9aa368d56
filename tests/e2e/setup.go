//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"salon-scheduler/cmd/bootstrap"
	"salon-scheduler/cmd/bootstrap/components"
	"salon-scheduler/internal/events"
	"salon-scheduler/internal/infra/db"
	"salon-scheduler/internal/pkg/config"
	"salon-scheduler/internal/usecase/commands"
	"salon-scheduler/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

var (
	postgresContainerOnce sync.Once
	postgresTestContainer testcontainers.Container

	testUser     = "test"
	testPassword = "testpass"
)

type ContainerInfo struct {
	Host string
	Port nat.Port
}

// noopPublisher stands in for the AMQP publisher. The test graph runs
// neither the relay nor the consumer; suites that exercise delivery build
// their own relay over the test pool.
type noopPublisher struct{}

func (noopPublisher) PublishBookingCompleted(context.Context, events.BookingCompleted) error {
	return nil
}

// ------------------------------------------------------------
// Per-process environment setup
// ------------------------------------------------------------
func setupE2EEnvironment(t *testing.T) (*pgxpool.Pool, *gin.Engine, config.Config) {
	postgresInfo := startContainers(t)

	pool, dbConfig := prepareDatabase(t, postgresInfo)

	router, cfg, app := buildE2EApp(pool, dbConfig)
	require.NotNil(t, router, "router setup failed")

	// Register cleanup for the fx app
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("failed to stop fx application", "error", err.Error())
		}
	})

	return pool, router, cfg
}

func startContainers(t *testing.T) ContainerInfo {
	gin.SetMode(gin.TestMode)
	startPostgreSQLContainerOnce(t)

	postgresInfo, err := getContainerHostPort(postgresTestContainer, "5432/tcp")
	require.NoError(t, err, "failed to read postgres container info")

	return postgresInfo
}

// ------------------------------------------------------------
// Database preparation
// ------------------------------------------------------------
func prepareDatabase(t *testing.T, postgresInfo ContainerInfo) (*pgxpool.Pool, config.DBConfig) {
	// One database per test process so packages can run in parallel.
	dbName := "testdb_" + strings.ReplaceAll(uuid.New().String(), "-", "")

	adminDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		testUser, testPassword, postgresInfo.Host, postgresInfo.Port.Port())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	adminPool, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err, "admin connection failed")
	defer adminPool.Close()

	// Database creation can race with other processes hitting the same
	// container; retry with backoff.
	var createErr error
	for attempts := range 5 {
		if attempts > 0 {
			waitTime := time.Duration(500+attempts*500) * time.Millisecond
			waitTime = min(waitTime, 3*time.Second)
			time.Sleep(waitTime)
		}
		_, createErr = adminPool.Exec(ctx, "CREATE DATABASE "+dbName)
		if createErr == nil {
			break
		}
		slog.Warn("retrying test database creation", "attempt", attempts+1, "error", createErr.Error())
	}
	require.NoError(t, createErr, "failed to create test database")

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()

		cleanupPool, err := pgxpool.New(cleanupCtx, adminDSN)
		if err != nil {
			slog.Warn("failed to connect for cleanup", "database", dbName, "error", err.Error())
			return
		}
		defer cleanupPool.Close()

		_, err = cleanupPool.Exec(cleanupCtx, "DROP DATABASE IF EXISTS "+dbName)
		if err != nil {
			slog.Warn("failed to drop test database", "database", dbName, "error", err.Error())
		}
	})

	dbConfig := config.DBConfig{
		Host:     postgresInfo.Host,
		Port:     postgresInfo.Port.Port(),
		User:     testUser,
		Password: testPassword,
		DBName:   dbName,
		SSLMode:  "disable",
		TimeZone: "Europe/Paris",
	}

	pool, _, err := db.Connect(context.Background(), dbConfig)
	require.NoError(t, err, "database connection failed")
	require.NotNil(t, pool, "database pool is nil")

	err = applyMigrations(t, dbConfig)
	require.NoError(t, err, "database migration failed")

	require.NoError(t, dbtest.SeedReferenceData(pool), "failed to seed reference data")

	return pool, dbConfig
}

func applyMigrations(t *testing.T, dbConfig config.DBConfig) error {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	pool, cleanup, err := db.Connect(ctx, dbConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer cleanup()

	migrationFiles := []string{
		"migrations/001_initial_schema.sql",
	}

	for _, file := range migrationFiles {
		// Resolve migration file path relative to possible working dirs
		// (package dirs during `go test`).
		var (
			sqlContent []byte
			readErr    error
		)
		candidates := []string{
			file, // repo root
			filepath.Join("..", file),
			filepath.Join("..", "..", file),
			filepath.Join("..", "..", "..", file),
		}
		for _, cand := range candidates {
			sqlContent, readErr = os.ReadFile(cand)
			if readErr == nil {
				file = cand
				break
			}
		}
		if readErr != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, readErr)
		}

		if _, err := pool.Exec(ctx, string(sqlContent)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
	}

	return nil
}

// ------------------------------------------------------------
// E2E application assembly
//
// Mirrors the production fx graph, with two substitutions: the AMQP
// publisher becomes a no-op and the redis client never gets dialed
// (the rate limiter is disabled because SubmitLimit is zero in the
// test config).
// ------------------------------------------------------------
func buildE2EApp(pool *pgxpool.Pool, dbConfig config.DBConfig) (*gin.Engine, config.Config, *fx.App) {
	var router *gin.Engine
	var cfg config.Config

	testDBModule := fx.Module("testdb",
		fx.Provide(func() *pgxpool.Pool { return pool }),
	)

	testConfigModule := fx.Module("testconfig",
		fx.Provide(func() config.Config {
			return createTestConfig(dbConfig)
		}),
	)

	testStubsModule := fx.Module("teststubs",
		fx.Provide(
			func() commands.CompletionPublisher { return noopPublisher{} },
			func(c config.Config) *redis.Client {
				return redis.NewClient(&redis.Options{Addr: c.Redis.Addr})
			},
		),
	)

	app := fx.New(
		testDBModule,
		testConfigModule,
		testStubsModule,
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,

		fx.Populate(&router, &cfg),

		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		panic(fmt.Sprintf("failed to start fx app: %v", err))
	}

	if router == nil {
		panic("fx application started without a router")
	}

	return router, cfg, app
}

func createTestConfig(dbConfig config.DBConfig) config.Config {
	testConfig := config.NewTestConfig()
	testConfig.DB = dbConfig
	return testConfig
}

func startGenericContainer(req testcontainers.ContainerRequest, timeoutSec int) (testcontainers.Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	return testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
}

// ------------------------------------------------------------
// PostgreSQL container, started once and shared
// ------------------------------------------------------------
func startPostgreSQLContainerOnce(t *testing.T) {
	postgresContainerOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{
				// Keep data in RAM; durability does not matter for tests.
				"/var/lib/postgresql/data": "rw,size=512m",
			},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "full_page_writes=off",
				"-c", "synchronous_commit=off",
				"-c", "max_wal_size=512MB",
				"-c", "checkpoint_completion_target=0.9",
				"-c", "wal_buffers=16MB",
				"-c", "shared_buffers=256MB",
				"-c", "max_connections=200",
				"-c", "log_statement=none",
				"-c", "log_duration=off",
				"-c", "log_lock_waits=off",
				"-c", "log_checkpoints=off",
				"-c", "autovacuum=on",
				"-c", "autovacuum_max_workers=2",
			},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
					testUser, testPassword, host, port.Port())
			}).WithStartupTimeout(60 * time.Second),
			Name:   "postgres-e2e",
			Labels: map[string]string{"purpose": "e2e-tests"},
		}

		var err error
		postgresTestContainer, err = startGenericContainer(req, 180)
		require.NoError(t, err, "failed to start postgres container")

		t.Cleanup(func() {
			if postgresTestContainer != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := postgresTestContainer.Terminate(ctx); err != nil {
					slog.Warn("failed to terminate postgres container", "error", err.Error())
				}
			}
		})
	})
}

func getContainerHostPort(c testcontainers.Container, port string) (ContainerInfo, error) {
	ctx := context.Background()
	mappedPort, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return ContainerInfo{}, err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return ContainerInfo{}, err
	}
	return ContainerInfo{Host: host, Port: mappedPort}, nil
}

// ------------------------------------------------------------
// Shared suite setup for e2e packages
// ------------------------------------------------------------
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
}

func (s *SharedSuite) SetupSharedSuite(t *testing.T) {
	db, router, cfg := setupE2EEnvironment(t)
	s.DB = db
	s.Router = router
	s.Config = cfg
	require.NotNil(t, db, "database setup failed")
	require.NotEmpty(t, s.Config, "config setup failed")
	require.NotNil(t, s.Router, "router setup failed")
}

func (s *SharedSuite) SetupSuite() {
	s.SetupSharedSuite(s.T())
}

func (s *SharedSuite) SetupSubTest() {
	// Reset database state using TRUNCATE + reseed
	err := dbtest.ResetDB(s.DB)
	require.NoError(s.T(), err, "failed to reset database state")
}
