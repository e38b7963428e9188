package generation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

// maxDrawFactor bounds the number of draws per kind to maxDrawFactor times its target.
const maxDrawFactor = 10

// Rand is the source of randomness used by the generator.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// globalRand delegates to the goroutine-safe top-level functions of math/rand/v2.
type globalRand struct{}

func (globalRand) IntN(n int) int                     { return rand.IntN(n) }
func (globalRand) Float64() float64                   { return rand.Float64() }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// HeuristicGenerator builds quiz items by picking sentences from the text and
// deriving prompts around their middle word.
type HeuristicGenerator struct {
	rnd    Rand
	now    func() time.Time
	logger *slog.Logger
}

var _ Generator = (*HeuristicGenerator)(nil)

// NewHeuristicGenerator creates a generator. A nil rnd uses math/rand/v2, a nil
// clock uses time.Now and a nil logger uses slog.Default.
func NewHeuristicGenerator(logger *slog.Logger, rnd Rand, clock func() time.Time) *HeuristicGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	if rnd == nil {
		rnd = globalRand{}
	}
	if clock == nil {
		clock = time.Now
	}
	return &HeuristicGenerator{
		rnd:    rnd,
		now:    clock,
		logger: logger.With(slog.String("component", "heuristic_generator")),
	}
}

// Generate implements Generator.
//
// Each requested kind receives up to ceil(Count/len(Kinds)) items, capped by the
// number of sentences. Sentences are drawn uniformly with replacement; draws
// landing on a sentence with too few words are skipped, and a kind that ends up
// empty falls back to an eligible sentence so that every kind is represented.
func (g *HeuristicGenerator) Generate(ctx context.Context, req Request) ([]domain.QuizItem, error) {
	kinds := uniqueKinds(req.Kinds)
	if len(kinds) == 0 {
		return nil, fmt.Errorf("%w: at least one item kind is required", ErrInvalidRequest)
	}
	for _, k := range kinds {
		if !k.IsValid() {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, domain.ErrInvalidItemKind)
		}
	}
	if req.Count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidRequest, req.Count)
	}

	sentences := splitSentences(req.Text)
	pool := slices.DeleteFunc(slices.Clone(sentences), func(s string) bool { return !eligible(s) })
	if len(pool) == 0 {
		return nil, ErrInsufficientContent
	}

	perKind := (req.Count + len(kinds) - 1) / len(kinds)
	target := min(perKind, len(sentences))
	batchID := uuid.New()
	now := g.now()

	items := make([]domain.QuizItem, 0, target*len(kinds))
	for _, kind := range kinds {
		produced := 0
		for attempt := 0; produced < target && attempt < target*maxDrawFactor; attempt++ {
			sentence := sentences[g.rnd.IntN(len(sentences))]
			if !eligible(sentence) {
				continue
			}
			item, err := g.buildItem(kind, sentence, batchID, req.DocumentID, now)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			produced++
		}

		if produced == 0 {
			item, err := g.buildItem(kind, pool[g.rnd.IntN(len(pool))], batchID, req.DocumentID, now)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	}

	g.logger.DebugContext(ctx, "generated quiz items",
		slog.String("batch_id", batchID.String()),
		slog.Int("sentences", len(sentences)),
		slog.Int("eligible", len(pool)),
		slog.Int("items", len(items)))

	return items, nil
}

func (g *HeuristicGenerator) buildItem(
	kind domain.ItemKind,
	sentence string,
	batchID, documentID uuid.UUID,
	now time.Time,
) (domain.QuizItem, error) {
	pivot := pivotWord(sentence)
	difficulty := domain.AllDifficulties[g.rnd.IntN(len(domain.AllDifficulties))]

	var (
		item domain.QuizItem
		err  error
	)
	switch kind {
	case domain.KindFlashcard:
		item, err = domain.NewFlashcard(batchID, documentID,
			fmt.Sprintf("What is %s in the context of this topic?", pivot),
			sentence, difficulty, now)
	case domain.KindMultipleChoice:
		options := []string{sentence, pivot + " is unrelated", "Opposite meaning", "Different concept"}
		g.rnd.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
		item, err = domain.NewMultipleChoice(batchID, documentID,
			fmt.Sprintf("Which statement about %s is correct?", pivot),
			options, sentence, difficulty, now)
	case domain.KindTrueFalse:
		if g.rnd.Float64() < 0.5 {
			item, err = domain.NewTrueFalse(batchID, documentID, sentence, true,
				"This is true.", difficulty, now)
		} else {
			item, err = domain.NewTrueFalse(batchID, documentID,
				strings.Replace(sentence, pivot, "incorrect", 1), false,
				"False. Correct: "+sentence, difficulty, now)
		}
	default:
		return domain.QuizItem{}, fmt.Errorf("%w: %q", domain.ErrInvalidItemKind, kind)
	}
	if err != nil {
		return domain.QuizItem{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return item, nil
}

func uniqueKinds(kinds []domain.ItemKind) []domain.ItemKind {
	out := make([]domain.ItemKind, 0, len(kinds))
	for _, k := range kinds {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}
