package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMigrateTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

var testMigrations = fstest.MapFS{
	"002_index.up.sql":   {Data: []byte("CREATE INDEX idx_a ON a (x)")},
	"001_table.up.sql":   {Data: []byte("CREATE TABLE a (x NUMBER);\n")},
	"001_table.down.sql": {Data: []byte("DROP TABLE a")},
	"002_index.down.sql": {Data: []byte("DROP INDEX idx_a")},
	"README.md":          {Data: []byte("not a migration")},
}

func TestRunMigrations_UpInOrder(t *testing.T) {
	db, mock := setupMigrateTestDB(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a (x NUMBER)") + "$").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX idx_a ON a (x)")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, RunMigrations(context.Background(), db, testMigrations, Up))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_DownInReverse(t *testing.T) {
	db, mock := setupMigrateTestDB(t)

	mock.ExpectExec(regexp.QuoteMeta("DROP INDEX idx_a")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE a")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, RunMigrations(context.Background(), db, testMigrations, Down))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_SkipsExistingObjects(t *testing.T) {
	db, mock := setupMigrateTestDB(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a")).
		WillReturnError(errors.New("ORA-00955: name is already used by an existing object"))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX idx_a")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, RunMigrations(context.Background(), db, testMigrations, Up))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_Failure(t *testing.T) {
	db, mock := setupMigrateTestDB(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a")).WillReturnError(errors.New("ORA-01031: insufficient privileges"))

	err := RunMigrations(context.Background(), db, testMigrations, Up)
	assert.ErrorContains(t, err, "001_table.up.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}
