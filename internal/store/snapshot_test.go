package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBlobStore struct {
	mock.Mock
}

func (m *mockBlobStore) Load(ctx context.Context, namespace, key string) ([]byte, error) {
	args := m.Called(ctx, namespace, key)
	blob, _ := args.Get(0).([]byte)
	return blob, args.Error(1)
}

func (m *mockBlobStore) Save(ctx context.Context, namespace, key string, blob []byte) error {
	return m.Called(ctx, namespace, key, blob).Error(0)
}

func (m *mockBlobStore) SaveMany(ctx context.Context, namespace string, blobs map[string][]byte) error {
	return m.Called(ctx, namespace, blobs).Error(0)
}

func testSnapshot(t *testing.T) Snapshot {
	t.Helper()
	now := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	doc, err := domain.NewDocument("cells.txt", domain.DocumentKindText, "Cells are the basic unit of life.", 1, now)
	require.NoError(t, err)
	item, err := domain.NewFlashcard(uuid.New(), doc.ID, "What is unit in the context of this topic?",
		"Cells are the basic unit of life", domain.DifficultyEasy, now)
	require.NoError(t, err)
	return Snapshot{
		Documents: []domain.Document{doc},
		Items:     []domain.QuizItem{item},
		Stats:     domain.SessionStats{ItemsStudied: 3, CorrectAnswers: 2, CurrentStreak: 1},
	}
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewSnapshotStore(NewMemoryBlobStore(), nil)
	snap := testSnapshot(t)

	require.NoError(t, s.Save(ctx, "learner-1", snap))

	loaded, err := s.Load(ctx, "learner-1")
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)

	other, err := s.Load(ctx, "learner-2")
	require.NoError(t, err)
	assert.Empty(t, other.Documents)
	assert.Empty(t, other.Items)
	assert.Equal(t, domain.SessionStats{}, other.Stats)
}

func TestSnapshotStoreSavesOnlyRequestedKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	blobs := NewMemoryBlobStore()
	s := NewSnapshotStore(blobs, nil)
	snap := testSnapshot(t)

	require.NoError(t, s.Save(ctx, "learner", snap, KeyStudyStats))

	_, err := blobs.Load(ctx, "learner", KeyDocuments)
	assert.ErrorIs(t, err, ErrNotFound)

	stats, err := blobs.Load(ctx, "learner", KeyStudyStats)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items_studied":3,"correct_answers":2,"current_streak":1}`, string(stats))

	require.NoError(t, s.Save(ctx, "learner", Snapshot{}, KeyStudyMaterials))
	items, err := blobs.Load(ctx, "learner", KeyStudyMaterials)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(items))
}

func TestSnapshotStoreLoadFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	driverErr := errors.New("connection reset")

	blobs := new(mockBlobStore)
	blobs.On("Load", ctx, "learner", KeyDocuments).Return(nil, driverErr)
	blobs.On("Load", ctx, "learner", KeyStudyMaterials).Return([]byte("{not json"), nil)
	blobs.On("Load", ctx, "learner", KeyStudyStats).Return([]byte(`{"items_studied":7}`), nil)

	snap, err := NewSnapshotStore(blobs, nil).Load(ctx, "learner")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, driverErr)
	assert.Empty(t, snap.Documents)
	assert.Empty(t, snap.Items)
	assert.Equal(t, 7, snap.Stats.ItemsStudied, "healthy keys still load")
	blobs.AssertExpectations(t)
}

func TestSnapshotStoreSaveFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	blobs := new(mockBlobStore)
	blobs.On("SaveMany", ctx, "learner", mock.Anything).Return(errors.New("disk full"))

	s := NewSnapshotStore(blobs, nil)
	err := s.Save(ctx, "learner", testSnapshot(t))
	assert.ErrorIs(t, err, ErrPersistence)

	err = s.Save(ctx, "learner", testSnapshot(t), "bogus")
	assert.ErrorIs(t, err, ErrInvalidEntity)
}

func TestNewSnapshotStorePanicsOnNilBlobs(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewSnapshotStore(nil, nil) })
}
