package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testMigrations = fstest.MapFS{
	"0001_first.up.sql":    {Data: []byte("CREATE TABLE a (id INTEGER)")},
	"0001_first.down.sql":  {Data: []byte("DROP TABLE a")},
	"0002_second.up.sql":   {Data: []byte("CREATE TABLE b (id INTEGER)")},
	"0002_second.down.sql": {Data: []byte("DROP TABLE b")},
	"README.md":            {Data: []byte("ignored")},
}

func TestApplyMigrationsSkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schema_migrations WHERE name = $1")).
		WithArgs("0001_first").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schema_migrations WHERE name = $1")).
		WithArgs("0002_second").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b (id INTEGER)")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations (name) VALUES ($1)")).
		WithArgs("0002_second").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, ApplyMigrations(context.Background(), db, "postgres", testMigrations, zap.NewNop()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyMigrationsRollsBackFailedFile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	files := fstest.MapFS{"0001_broken.up.sql": {Data: []byte("CREATE TABLE oops")}}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schema_migrations WHERE name = ?")).
		WithArgs("0001_broken").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE oops").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err = ApplyMigrations(context.Background(), db, "sqlite", files, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0001_broken")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRollbackMigrationNothingApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM schema_migrations ORDER BY name DESC LIMIT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	name, err := RollbackMigration(context.Background(), db, "postgres", testMigrations, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", SQLiteDSN(filepath.Join(t.TempDir(), "migrate.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestMigrateUpAndDownSQLite(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, db, "sqlite", zap.NewNop()))
	// Applying again is a no-op.
	require.NoError(t, Migrate(ctx, db, "sqlite", zap.NewNop()))

	for _, table := range []string{"users", "subscriptions", "ingredients", "tags", "recipes",
		"recipe_ingredients", "recipe_tags", "favorites", "shopping_lists"} {
		assert.True(t, tableExists(t, db, table), table)
	}

	files, err := MigrationsFor("sqlite")
	require.NoError(t, err)
	name, err := RollbackMigration(ctx, db, "sqlite", files, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "0001_init", name)
	assert.False(t, tableExists(t, db, "recipes"))

	name, err = RollbackMigration(ctx, db, "sqlite", files, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestMigrateUnknownDriver(t *testing.T) {
	db := openSQLite(t)
	assert.Error(t, Migrate(context.Background(), db, "oracle", zap.NewNop()))
}
