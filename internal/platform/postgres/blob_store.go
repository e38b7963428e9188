package postgres

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
	loadBlobQuery = `SELECT blob FROM study_blobs WHERE namespace = $1 AND key = $2`

	upsertBlobQuery = `
		INSERT INTO study_blobs (namespace, key, blob, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, key)
		DO UPDATE SET blob = EXCLUDED.blob, updated_at = EXCLUDED.updated_at`
)

// PostgresBlobStore implements store.BlobStore on the study_blobs table.
type PostgresBlobStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

var _ store.BlobStore = (*PostgresBlobStore)(nil)

// NewPostgresBlobStore creates a new PostgresBlobStore.
// It panics if db is nil. A nil logger uses slog.Default.
func NewPostgresBlobStore(db store.DBTX, logger *slog.Logger) *PostgresBlobStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBlobStore{
		db:     db,
		logger: logger.With(slog.String("component", "blob_store"), slog.String("backend", "postgres")),
		now:    time.Now,
	}
}

// WithTx returns a store that runs its queries inside tx.
func (s *PostgresBlobStore) WithTx(tx *sql.Tx) *PostgresBlobStore {
	return &PostgresBlobStore{db: tx, logger: s.logger, now: s.now}
}

// Load implements store.BlobStore.
func (s *PostgresBlobStore) Load(ctx context.Context, namespace, key string) ([]byte, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var blob []byte
	err := s.db.QueryRowContext(ctx, loadBlobQuery, namespace, key).Scan(&blob)
	if err != nil {
		mapped := MapError(err)
		if !store.IsNotFoundError(mapped) {
			log.Error("failed to load blob",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return nil, mapped
	}
	return blob, nil
}

// Save implements store.BlobStore.
func (s *PostgresBlobStore) Save(ctx context.Context, namespace, key string, blob []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertBlobQuery, namespace, key, blob, s.now().UTC()); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save blob",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// SaveMany implements store.BlobStore. When the store is not already bound to
// a transaction, the writes run inside a new one.
func (s *PostgresBlobStore) SaveMany(ctx context.Context, namespace string, blobs map[string][]byte) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		return s.saveAll(ctx, namespace, blobs)
	}
	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return s.WithTx(tx).saveAll(ctx, namespace, blobs)
	})
}

func (s *PostgresBlobStore) saveAll(ctx context.Context, namespace string, blobs map[string][]byte) error {
	// sorted keys keep lock order stable across concurrent writers
	for _, key := range slices.Sorted(maps.Keys(blobs)) {
		if err := s.Save(ctx, namespace, key, blobs[key]); err != nil {
			return err
		}
	}
	return nil
}
