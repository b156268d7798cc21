package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/testcontainers/testcontainers-go"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	challengemigrations "github.com/soloq-club/soloq-tracker/app/modules/challenge/infrastructure/repositories/migrations"
	trackingmigrations "github.com/soloq-club/soloq-tracker/app/modules/tracking/infrastructure/repositories/migrations"
	"github.com/soloq-club/soloq-tracker/integration_tests/containers"
)

// appTables are truncated between tests, children first.
var appTables = []string{"skipped_matches", "player_matches", "rank_snapshots", "players", "challenge_members", "challenges"}

// TestDB is a migrated database shared by every test in the package binary.
type TestDB struct {
	DB  *bun.DB
	DSN string
}

var (
	sharedOnce sync.Once
	sharedDB   *TestDB
	sharedErr  error
)

// SetupDB returns the shared database with every application table emptied.
// It skips the test under -short or when Docker is not reachable.
func SetupDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	sharedOnce.Do(func() {
		sharedDB, sharedErr = startDB(context.Background())
	})
	if sharedErr != nil {
		t.Fatalf("failed to set up database: %v", sharedErr)
	}
	if err := CleanupDatabase(context.Background(), sharedDB.DB); err != nil {
		t.Fatalf("failed to clean database: %v", err)
	}
	return sharedDB
}

// The container is left to the testcontainers reaper once the binary exits.
func startDB(ctx context.Context) (*TestDB, error) {
	_, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn))), pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := RunMigrations(ctx, db, dsn); err != nil {
		return nil, err
	}
	return &TestDB{DB: db, DSN: dsn}, nil
}

// RunMigrations applies River's schema and then every module's migrations in
// foreign key order.
func RunMigrations(ctx context.Context, db *bun.DB, dsn string) error {
	if err := runRiverMigrations(ctx, dsn); err != nil {
		return err
	}

	orderedModules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"challenge", challengemigrations.Migrations},
		{"tracking", trackingmigrations.Migrations},
	}
	for _, mod := range orderedModules {
		migrator := migrate.NewMigrator(db, mod.migrations,
			migrate.WithTableName("bun_migrations_"+mod.name),
			migrate.WithLocksTableName("bun_migration_locks_"+mod.name),
		)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to init %s migrations: %w", mod.name, err)
		}
		if _, err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", mod.name, err)
		}
	}
	return nil
}

func runRiverMigrations(ctx context.Context, dsn string) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for River migrations: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	return nil
}

// CleanupDatabase truncates every application table and pending River jobs.
func CleanupDatabase(ctx context.Context, db *bun.DB) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(appTables, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM river_job"); err != nil {
		return fmt.Errorf("failed to clean river jobs: %w", err)
	}
	return nil
}
