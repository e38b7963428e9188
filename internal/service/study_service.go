package service

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/redact"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/store"
)

// StudyService provides the study workflow of a single learner: documents,
// generated materials, the review session and progress.
type StudyService interface {
	ListDocuments(ctx context.Context, learnerID uuid.UUID) ([]domain.Document, error)
	UploadDocument(ctx context.Context, learnerID uuid.UUID, filename string, data []byte) (DocumentResult, error)
	DeleteDocument(ctx context.Context, learnerID, documentID uuid.UUID) (bool, error)

	// Generate derives a batch of items from a document and appends it to
	// the learner's materials. Empty kinds and a zero count use the defaults.
	Generate(ctx context.Context, learnerID, documentID uuid.UUID, kinds []domain.ItemKind, count int) (GenerateResult, error)

	ListMaterials(ctx context.Context, learnerID uuid.UUID) ([]domain.QuizItem, error)
	DueMaterials(ctx context.Context, learnerID uuid.UUID) ([]domain.QuizItem, error)
	ClearMaterials(ctx context.Context, learnerID uuid.UUID) (bool, error)

	Study(ctx context.Context, learnerID uuid.UUID) (StudyState, error)
	Reveal(ctx context.Context, learnerID uuid.UUID) (StudyState, error)
	SelectOption(ctx context.Context, learnerID uuid.UUID, option string) (StudyState, error)
	SelectTruth(ctx context.Context, learnerID uuid.UUID, value bool) (StudyState, error)
	Rate(ctx context.Context, learnerID uuid.UUID, rating srs.Rating) (StudyState, error)
	Continue(ctx context.Context, learnerID uuid.UUID) (StudyState, error)
	Restart(ctx context.Context, learnerID uuid.UUID) (StudyState, error)

	Progress(ctx context.Context, learnerID uuid.UUID) (Progress, error)
}

// StudyOptions configure generation defaults and the clock.
type StudyOptions struct {
	DefaultKinds       []domain.ItemKind
	ItemsPerGeneration int
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// DocumentResult is the outcome of an upload.
type DocumentResult struct {
	Document domain.Document
	Synced   bool
}

// GenerateResult is the outcome of a generation request.
type GenerateResult struct {
	Document domain.Document
	Items    []domain.QuizItem
	Synced   bool
}

// StudyState is the learner's position in the review session.
type StudyState struct {
	Current   *domain.QuizItem
	Position  int
	Total     int
	Remaining int
	Phase     session.Phase
	Selection *session.Selection
	Complete  bool
	Stats     domain.SessionStats
	// Outcome is set by Rate and Continue.
	Outcome *session.Outcome
	Synced  bool
}

// Progress summarises the learner's study history.
type Progress struct {
	ItemsStudied   int
	CorrectAnswers int
	Accuracy       int
	CurrentStreak  int
	TotalMaterials int
	DueMaterials   int
	Documents      int
}

// workspace is the in-memory study state of one learner.
type workspace struct {
	mu        sync.Mutex
	loaded    bool
	documents []domain.Document
	session   session.Session
	stats     domain.SessionStats
	// pending holds keys whose last save failed.
	pending map[string]struct{}
}

func (ws *workspace) snapshot() store.Snapshot {
	return store.Snapshot{
		Documents: ws.documents,
		Items:     ws.session.Items,
		Stats:     ws.stats,
	}
}

func (ws *workspace) synced() bool {
	return len(ws.pending) == 0
}

func (ws *workspace) state() StudyState {
	st := StudyState{
		Total:     len(ws.session.Items),
		Remaining: ws.session.Remaining(),
		Phase:     ws.session.Phase,
		Selection: ws.session.Selection,
		Complete:  ws.session.Complete,
		Stats:     ws.stats,
		Synced:    ws.synced(),
	}
	if item, err := ws.session.Current(); err == nil {
		st.Current = &item
		st.Position = ws.session.Cursor + 1
	}
	return st
}

// studyServiceImpl implements the StudyService interface
type studyServiceImpl struct {
	snapshots *store.SnapshotStore
	generator generation.Generator
	engine    *session.Engine
	scheduler srs.Service
	opts      StudyOptions
	logger    *slog.Logger

	mu         sync.Mutex
	workspaces map[uuid.UUID]*workspace
}

var _ StudyService = (*studyServiceImpl)(nil)

// NewStudyService creates a new StudyService.
// It returns an error if any of the required dependencies are nil.
func NewStudyService(
	snapshots *store.SnapshotStore,
	generator generation.Generator,
	engine *session.Engine,
	scheduler srs.Service,
	opts StudyOptions,
	logger *slog.Logger,
) (StudyService, error) {
	switch {
	case snapshots == nil:
		return nil, &StudyServiceError{Operation: "create_service", Message: "snapshots cannot be nil"}
	case generator == nil:
		return nil, &StudyServiceError{Operation: "create_service", Message: "generator cannot be nil"}
	case engine == nil:
		return nil, &StudyServiceError{Operation: "create_service", Message: "engine cannot be nil"}
	case scheduler == nil:
		return nil, &StudyServiceError{Operation: "create_service", Message: "scheduler cannot be nil"}
	}

	if len(opts.DefaultKinds) == 0 {
		opts.DefaultKinds = domain.AllItemKinds
	}
	if opts.ItemsPerGeneration <= 0 {
		opts.ItemsPerGeneration = 15
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &studyServiceImpl{
		snapshots:  snapshots,
		generator:  generator,
		engine:     engine,
		scheduler:  scheduler,
		opts:       opts,
		logger:     logger.With("component", "study_service"),
		workspaces: make(map[uuid.UUID]*workspace),
	}, nil
}

// withWorkspace runs fn with the learner's workspace locked, loading it from
// the snapshot store on first use. A failed load starts the learner empty.
func (s *studyServiceImpl) withWorkspace(ctx context.Context, learnerID uuid.UUID, fn func(*workspace) error) error {
	if learnerID == uuid.Nil {
		return ErrInvalidLearner
	}

	s.mu.Lock()
	ws, ok := s.workspaces[learnerID]
	if !ok {
		ws = &workspace{session: session.New(nil), pending: map[string]struct{}{}}
		s.workspaces[learnerID] = ws
	}
	s.mu.Unlock()

	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.loaded {
		snap, err := s.snapshots.Load(ctx, learnerID.String())
		if err != nil {
			logger.FromContextOrDefault(ctx, s.logger).WarnContext(ctx, "failed to load study snapshot, keeping what was readable",
				slog.String("learner_id", learnerID.String()),
				slog.String("error", redact.Error(err)))
		}
		ws.documents = snap.Documents
		ws.session = session.New(snap.Items)
		ws.stats = snap.Stats
		ws.loaded = true
	}

	return fn(ws)
}

// persist saves keys plus any keys left over from an earlier failed save.
// A failure is logged and remembered; it is never returned. The save outlives
// a cancelled request so answered items are not lost when a client hangs up.
func (s *studyServiceImpl) persist(ctx context.Context, learnerID uuid.UUID, ws *workspace, keys ...string) bool {
	ctx = context.WithoutCancel(ctx)
	for _, k := range keys {
		ws.pending[k] = struct{}{}
	}
	if len(ws.pending) == 0 {
		return true
	}

	toSave := slices.Sorted(maps.Keys(ws.pending))
	if err := s.snapshots.Save(ctx, learnerID.String(), ws.snapshot(), toSave...); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).ErrorContext(ctx, "failed to save study snapshot",
			slog.String("learner_id", learnerID.String()),
			slog.Any("keys", toSave),
			slog.String("error", redact.Error(err)))
		return false
	}

	clear(ws.pending)
	return true
}
