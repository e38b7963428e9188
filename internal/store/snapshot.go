package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/domain"
)

// Snapshot is the persisted study state of one learner.
type Snapshot struct {
	Documents []domain.Document
	Items     []domain.QuizItem
	Stats     domain.SessionStats
}

// SnapshotStore reads and writes Snapshots through a BlobStore, one JSON blob per key.
type SnapshotStore struct {
	blobs  BlobStore
	logger *slog.Logger
}

// NewSnapshotStore creates a SnapshotStore.
// It panics if blobs is nil.
func NewSnapshotStore(blobs BlobStore, logger *slog.Logger) *SnapshotStore {
	if blobs == nil {
		panic("blobs cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotStore{
		blobs:  blobs,
		logger: logger.With(slog.String("component", "snapshot_store")),
	}
}

// Load reads every key of the learner's snapshot.
//
// Missing keys yield empty values. Keys that fail to load or decode are left
// empty too, and their errors are returned joined and wrapped with
// ErrPersistence alongside the partial snapshot.
func (s *SnapshotStore) Load(ctx context.Context, namespace string) (Snapshot, error) {
	var (
		snap Snapshot
		errs []error
	)

	targets := map[string]any{
		KeyDocuments:      &snap.Documents,
		KeyStudyMaterials: &snap.Items,
		KeyStudyStats:     &snap.Stats,
	}

	for _, key := range AllKeys {
		blob, err := s.blobs.Load(ctx, namespace, key)
		if err != nil {
			if IsNotFoundError(err) {
				continue
			}
			errs = append(errs, NewStoreError(key, "load", "could not read blob", err))
			continue
		}
		if err := json.Unmarshal(blob, targets[key]); err != nil {
			errs = append(errs, NewStoreError(key, "load", "could not decode blob", err))
		}
	}

	if len(errs) > 0 {
		return snap, fmt.Errorf("%w: %w", ErrPersistence, errors.Join(errs...))
	}

	s.logger.DebugContext(ctx, "loaded snapshot",
		slog.Int("documents", len(snap.Documents)),
		slog.Int("items", len(snap.Items)))
	return snap, nil
}

// Save writes the given keys of the snapshot atomically. With no keys, every
// key is written.
func (s *SnapshotStore) Save(ctx context.Context, namespace string, snap Snapshot, keys ...string) error {
	if len(keys) == 0 {
		keys = AllKeys
	}

	blobs := make(map[string][]byte, len(keys))
	for _, key := range keys {
		var value any
		switch key {
		case KeyDocuments:
			value = nonNil(snap.Documents)
		case KeyStudyMaterials:
			value = nonNil(snap.Items)
		case KeyStudyStats:
			value = snap.Stats
		default:
			return fmt.Errorf("%w: %w: unknown key %q", ErrPersistence, ErrInvalidEntity, key)
		}

		blob, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPersistence, NewStoreError(key, "save", "could not encode", err))
		}
		blobs[key] = blob
	}

	if err := s.blobs.SaveMany(ctx, namespace, blobs); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// nonNil makes empty slices encode as [] rather than null.
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
