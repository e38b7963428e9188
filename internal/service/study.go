package service

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/store"
)

// ListMaterials returns every item in session order.
func (s *studyServiceImpl) ListMaterials(ctx context.Context, learnerID uuid.UUID) ([]domain.QuizItem, error) {
	var items []domain.QuizItem
	err := s.withWorkspace(ctx, learnerID, func(ws *workspace) error {
		items = slices.Clone(ws.session.Items)
		return nil
	})
	return items, err
}

// DueMaterials returns the items whose next review is due now.
func (s *studyServiceImpl) DueMaterials(ctx context.Context, learnerID uuid.UUID) ([]domain.QuizItem, error) {
	var items []domain.QuizItem
	err := s.withWorkspace(ctx, learnerID, func(ws *workspace) error {
		items = srs.DueItems(s.scheduler, ws.session.Items, s.opts.Clock())
		return nil
	})
	return items, err
}

// ClearMaterials removes every item. Statistics are kept.
func (s *studyServiceImpl) ClearMaterials(ctx context.Context, learnerID uuid.UUID) (bool, error) {
	var synced bool
	err := s.withWorkspace(ctx, learnerID, func(ws *workspace) error {
		ws.session = ws.session.Clear()
		synced = s.persist(ctx, learnerID, ws, store.KeyStudyMaterials)
		return nil
	})
	return synced, err
}

// Study returns the current session state.
func (s *studyServiceImpl) Study(ctx context.Context, learnerID uuid.UUID) (StudyState, error) {
	var st StudyState
	err := s.withWorkspace(ctx, learnerID, func(ws *workspace) error {
		st = ws.state()
		return nil
	})
	return st, err
}

// Reveal implements StudyService.
func (s *studyServiceImpl) Reveal(ctx context.Context, learnerID uuid.UUID) (StudyState, error) {
	return s.step(ctx, learnerID, "reveal", s.engine.Reveal)
}

// SelectOption implements StudyService.
func (s *studyServiceImpl) SelectOption(ctx context.Context, learnerID uuid.UUID, option string) (StudyState, error) {
	return s.step(ctx, learnerID, "select_option", func(sess session.Session) (session.Session, error) {
		return s.engine.SelectOption(sess, option)
	})
}

// SelectTruth implements StudyService.
func (s *studyServiceImpl) SelectTruth(ctx context.Context, learnerID uuid.UUID, value bool) (StudyState, error) {
	return s.step(ctx, learnerID, "select_truth", func(sess session.Session) (session.Session, error) {
		return s.engine.SelectTruth(sess, value)
	})
}

// Restart implements StudyService.
func (s *studyServiceImpl) Restart(ctx context.Context, learnerID uuid.UUID) (StudyState, error) {
	return s.step(ctx, learnerID, "restart", func(sess session.Session) (session.Session, error) {
		return sess.Restart(), nil
	})
}

// Rate implements StudyService.
func (s *studyServiceImpl) Rate(ctx context.Context, learnerID uuid.UUID, rating srs.Rating) (StudyState, error) {
	return s.answer(ctx, learnerID, "rate", func(sess session.Session, stats domain.SessionStats) (session.Session, domain.SessionStats, session.Outcome, error) {
		return s.engine.Rate(sess, stats, rating)
	})
}

// Continue implements StudyService.
func (s *studyServiceImpl) Continue(ctx context.Context, learnerID uuid.UUID) (StudyState, error) {
	return s.answer(ctx, learnerID, "continue", s.engine.Continue)
}

// step applies a session operation that changes neither items nor stats,
// so nothing is persisted.
func (s *studyServiceImpl) step(
	ctx context.Context,
	learnerID uuid.UUID,
	op string,
	fn func(session.Session) (session.Session, error),
) (StudyState, error) {
	var st StudyState
	err := s.withWorkspace(ctx, learnerID, func(ws *workspace) error {
		next, err := fn(ws.session)
		if err != nil {
			return NewStudyServiceError(op, "session operation rejected", err)
		}
		ws.session = next
		st = ws.state()
		return nil
	})
	return st, err
}

// answer applies a rating operation and persists the rescheduled items and stats.
func (s *studyServiceImpl) answer(
	ctx context.Context,
	learnerID uuid.UUID,
	op string,
	fn func(session.Session, domain.SessionStats) (session.Session, domain.SessionStats, session.Outcome, error),
) (StudyState, error) {
	var st StudyState
	err := s.withWorkspace(ctx, learnerID, func(ws *workspace) error {
		next, stats, outcome, err := fn(ws.session, ws.stats)
		if err != nil {
			return NewStudyServiceError(op, "answer rejected", err)
		}
		ws.session = next
		ws.stats = stats
		s.persist(ctx, learnerID, ws, store.KeyStudyMaterials, store.KeyStudyStats)

		st = ws.state()
		st.Outcome = &outcome
		return nil
	})
	return st, err
}

// Progress implements StudyService.
func (s *studyServiceImpl) Progress(ctx context.Context, learnerID uuid.UUID) (Progress, error) {
	var p Progress
	err := s.withWorkspace(ctx, learnerID, func(ws *workspace) error {
		p = Progress{
			ItemsStudied:   ws.stats.ItemsStudied,
			CorrectAnswers: ws.stats.CorrectAnswers,
			Accuracy:       ws.stats.Accuracy(),
			CurrentStreak:  ws.stats.CurrentStreak,
			TotalMaterials: len(ws.session.Items),
			DueMaterials:   len(srs.DueItems(s.scheduler, ws.session.Items, s.opts.Clock())),
			Documents:      len(ws.documents),
		}
		return nil
	})
	return p, err
}
