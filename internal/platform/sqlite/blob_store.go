package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

const (
	loadBlobQuery = `SELECT blob FROM study_blobs WHERE namespace = ? AND key = ?`

	upsertBlobQuery = `
		INSERT INTO study_blobs (namespace, key, blob, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, key)
		DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at`
)

// SQLiteBlobStore implements store.BlobStore on the study_blobs table.
type SQLiteBlobStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

var _ store.BlobStore = (*SQLiteBlobStore)(nil)

// NewSQLiteBlobStore creates a new SQLiteBlobStore.
// It panics if db is nil. A nil logger uses slog.Default.
func NewSQLiteBlobStore(db store.DBTX, logger *slog.Logger) *SQLiteBlobStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteBlobStore{
		db:     db,
		logger: logger.With(slog.String("component", "blob_store"), slog.String("backend", "sqlite")),
		now:    time.Now,
	}
}

// WithTx returns a store that runs its queries inside tx.
func (s *SQLiteBlobStore) WithTx(tx *sql.Tx) *SQLiteBlobStore {
	return &SQLiteBlobStore{db: tx, logger: s.logger, now: s.now}
}

// Load implements store.BlobStore.
func (s *SQLiteBlobStore) Load(ctx context.Context, namespace, key string) ([]byte, error) {
	var blob []byte
	if err := s.db.QueryRowContext(ctx, loadBlobQuery, namespace, key).Scan(&blob); err != nil {
		mapped := MapError(err)
		if !store.IsNotFoundError(mapped) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to load blob",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return nil, mapped
	}
	return blob, nil
}

// Save implements store.BlobStore.
func (s *SQLiteBlobStore) Save(ctx context.Context, namespace, key string, blob []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertBlobQuery, namespace, key, blob, s.now().UTC()); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save blob",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// SaveMany implements store.BlobStore.
func (s *SQLiteBlobStore) SaveMany(ctx context.Context, namespace string, blobs map[string][]byte) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		return s.saveAll(ctx, namespace, blobs)
	}
	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return s.WithTx(tx).saveAll(ctx, namespace, blobs)
	})
}

func (s *SQLiteBlobStore) saveAll(ctx context.Context, namespace string, blobs map[string][]byte) error {
	for _, key := range slices.Sorted(maps.Keys(blobs)) {
		if err := s.Save(ctx, namespace, key, blobs[key]); err != nil {
			return err
		}
	}
	return nil
}
