package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github-portfolio-analyzer/internal/common"
	"github-portfolio-analyzer/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLiteMock(t *testing.T) (*SQLiteCache, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &SQLiteCache{db: db, nowFunc: func() time.Time { return fixedNow }}, mock
}

func TestSQLiteCache_Migrate(t *testing.T) {
	store, mock := setupSQLiteMock(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS report_cache")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS idx_report_cache_expires")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteCache_Migrate_Error(t *testing.T) {
	store, mock := setupSQLiteMock(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS report_cache")).WillReturnError(errors.New("readonly database"))

	err := store.migrate(context.Background())
	assert.Equal(t, common.ErrCodeDatabase, common.Code(err))
}

func TestSQLiteCache_Get(t *testing.T) {
	report := testutil.SampleReport()
	query := regexp.QuoteMeta(`SELECT payload FROM report_cache WHERE cache_key = ? AND expires_at > ?`)

	t.Run("命中", func(t *testing.T) {
		store, mock := setupSQLiteMock(t)
		mock.ExpectQuery(query).
			WithArgs("octocat", fixedNow.UnixNano()).
			WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(mustEncode(t, report)))

		got, hit, err := store.Get(context.Background(), "octocat")

		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, report, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("未命中", func(t *testing.T) {
		store, mock := setupSQLiteMock(t)
		mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"payload"}))

		got, hit, err := store.Get(context.Background(), "octocat")

		require.NoError(t, err)
		assert.False(t, hit)
		assert.Nil(t, got)
	})

	t.Run("数据库错误", func(t *testing.T) {
		store, mock := setupSQLiteMock(t)
		mock.ExpectQuery(query).WillReturnError(errors.New("database is locked"))

		_, hit, err := store.Get(context.Background(), "octocat")

		assert.False(t, hit)
		assert.Equal(t, common.ErrCodeDatabase, common.Code(err))
	})
}

func TestSQLiteCache_Set(t *testing.T) {
	report := testutil.SampleReport()
	store, mock := setupSQLiteMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO report_cache (cache_key, username, payload, expires_at, created_at)`)).
		WithArgs("octocat", "octocat", reportArg{want: report}, fixedNow.Add(time.Hour).UnixNano(), fixedNow.UnixNano()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.Set(context.Background(), "octocat", report, time.Hour))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteCache_PurgeExpired(t *testing.T) {
	store, mock := setupSQLiteMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM report_cache WHERE expires_at <= ?`)).
		WithArgs(fixedNow.UnixNano()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := store.PurgeExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
