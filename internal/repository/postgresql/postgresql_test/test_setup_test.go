package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup wraps a migrated test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and skips the test when it is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err, "failed to connect to test database")

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(context.Background()))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes all rows from every table.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"refresh_tokens",
		"leave_requests",
		"comments",
		"tasks",
		"attendance",
		"users",
		"departments",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (t *TestDatabaseSetup) CreateDepartment(tb testing.TB, name string) int64 {
	tb.Helper()
	var id int64
	err := t.DB.QueryRow(context.Background(), `INSERT INTO departments (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	require.NoError(tb, err)
	return id
}

func (t *TestDatabaseSetup) CreateUser(tb testing.TB, username, role string, departmentID *int64, salary decimal.Decimal) int64 {
	tb.Helper()
	var id int64
	err := t.DB.QueryRow(context.Background(), `
		INSERT INTO users (username, email, full_name, role, department_id, salary)
		VALUES ($1, $1 || '@example.com', $1, $2, $3, $4)
		RETURNING id
	`, username, role, departmentID, salary).Scan(&id)
	require.NoError(tb, err)
	return id
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
