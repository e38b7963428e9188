package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresBlobStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresBlobStore(db, nil), mock
}

func TestNewPostgresBlobStorePanicsOnNilDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewPostgresBlobStore(nil, nil) })
}

func TestPostgresBlobStoreLoad(t *testing.T) {
	t.Parallel()

	query := regexp.QuoteMeta(loadBlobQuery)

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		mock.ExpectQuery(query).
			WithArgs("learner", store.KeyDocuments).
			WillReturnRows(sqlmock.NewRows([]string{"blob"}).AddRow([]byte(`[]`)))

		blob, err := s.Load(context.Background(), "learner", store.KeyDocuments)
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(blob))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		mock.ExpectQuery(query).
			WithArgs("learner", store.KeyStudyStats).
			WillReturnError(sql.ErrNoRows)

		_, err := s.Load(context.Background(), "learner", store.KeyStudyStats)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresBlobStoreSaveMany(t *testing.T) {
	t.Parallel()

	upsert := regexp.QuoteMeta("INSERT INTO study_blobs")

	t.Run("writes every key in one transaction", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(upsert).
			WithArgs("learner", store.KeyStudyMaterials, []byte(`[]`), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(upsert).
			WithArgs("learner", store.KeyStudyStats, []byte(`{}`), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := s.SaveMany(context.Background(), "learner", map[string][]byte{
			store.KeyStudyStats:     []byte(`{}`),
			store.KeyStudyMaterials: []byte(`[]`),
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		t.Parallel()
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(upsert).
			WillReturnError(&pgconn.PgError{Code: checkViolationCode, ConstraintName: "study_blobs_key_check"})
		mock.ExpectRollback()

		err := s.SaveMany(context.Background(), "learner", map[string][]byte{"other": []byte(`1`)})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMapError(t *testing.T) {
	t.Parallel()

	other := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"unique", &pgconn.PgError{Code: uniqueViolationCode}, store.ErrDuplicate},
		{"check", &pgconn.PgError{Code: checkViolationCode}, store.ErrInvalidEntity},
		{"not null", &pgconn.PgError{Code: notNullViolationCode}, store.ErrInvalidEntity},
		{"serialization", &pgconn.PgError{Code: serializationFailedCode}, store.ErrTransactionFailed},
		{"unmapped", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MapError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.NoError(t, MapError(nil))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.True(t, IsUndefinedTable(&pgconn.PgError{Code: undefinedTableCode}))
}

func TestMigrationsAreEmbedded(t *testing.T) {
	t.Parallel()

	entries, err := Migrations.ReadDir(MigrationsDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}
