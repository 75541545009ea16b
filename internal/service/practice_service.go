package service

import (
	"context"
	"fmt"
	"time"

	"abacusisland/internal/generator"
	"abacusisland/internal/logger"
	"abacusisland/internal/metrics"
	"abacusisland/internal/models"
	"abacusisland/internal/progress"
	"abacusisland/internal/syllabus"
)

const (
	baseCoins   = 10
	streakCoins = 20
	// answers in a row needed before completions pay streakCoins
	streakBonusAfter = 5
	// daily score earned per level number on a correct answer
	pointsPerLevel = 10
)

// AnswerResult is the outcome of SubmitAnswer
type AnswerResult struct {
	Correct bool `json:"correct"`
	// Ignored is set when the input could not be judged; nothing was recorded
	Ignored         bool   `json:"ignored"`
	Expected        string `json:"expected"`
	CoinsAwarded    int    `json:"coinsAwarded"`
	Score           int    `json:"score"`
	FirstCompletion bool   `json:"firstCompletion"`
	Coins           int    `json:"coins"`
	AnswerStreak    int    `json:"answerStreak"`
}

// PracticeService handles the practice flow: picking, generating and judging problems
type PracticeService struct {
	store   *progress.Store
	catalog *syllabus.Catalog
	log     *logger.Logger
}

// NewPracticeService creates a new practice service
func NewPracticeService(store *progress.Store, catalog *syllabus.Catalog, log *logger.Logger) *PracticeService {
	return &PracticeService{
		store:   store,
		catalog: catalog,
		log:     log.With("component", "practice"),
	}
}

// Catalog returns the syllabus the service generates from
func (s *PracticeService) Catalog() *syllabus.Catalog {
	return s.catalog
}

// Store returns the progress store the service records into
func (s *PracticeService) Store() *progress.Store {
	return s.store
}

// StartExercise returns the next problem to work on in a stage
func (s *PracticeService) StartExercise(ctx context.Context, levelID, stageIndex int) (models.Problem, error) {
	index, err := s.store.GetNextAvailableProblem(ctx, levelID, stageIndex)
	if err != nil {
		return nil, err
	}
	return s.Problem(levelID, index)
}

// StartExerciseInMode is StartExercise for a learner working in one mode:
// problems solved only in other modes are still offered.
func (s *PracticeService) StartExerciseInMode(ctx context.Context, levelID, stageIndex int, mode models.PracticeMode) (models.Problem, error) {
	index, err := s.store.GetNextAvailableProblemForMode(ctx, levelID, stageIndex, mode)
	if err != nil {
		return nil, err
	}
	return s.Problem(levelID, index)
}

// Problem generates the problem at index of a level with the current master seed
func (s *PracticeService) Problem(levelID, index int) (models.Problem, error) {
	level, ok := s.catalog.Level(levelID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", progress.ErrUnknownLevel, levelID)
	}
	if index < models.FirstIndex || index > models.LastIndex {
		return nil, fmt.Errorf("%w: %d", progress.ErrInvalidIndex, index)
	}

	p := generator.Generate(level, index, s.store.MasterSeed())
	metrics.ProblemsGenerated.WithLabelValues(string(p.Header().Operation)).Inc()
	return p, nil
}

// SubmitAnswer judges input for a problem and records the attempt.
// A first-time correct answer earns coins; every judged answer goes into
// today's log and moves the answer streak.
func (s *PracticeService) SubmitAnswer(ctx context.Context, levelID, index int, mode models.PracticeMode, input string, elapsed time.Duration) (*AnswerResult, error) {
	if mode == "" {
		mode = models.ModeVisual
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", progress.ErrInvalidMode, mode)
	}
	p, err := s.Problem(levelID, index)
	if err != nil {
		return nil, err
	}

	result := &AnswerResult{Expected: expected(p)}
	correct, ok := generator.CheckAnswer(p, input)
	if !ok {
		metrics.AnswersJudged.WithLabelValues("ignored").Inc()
		result.Ignored = true
		result.Coins = s.store.Coins()
		result.AnswerStreak = s.store.AnswerStreak()
		return result, nil
	}
	result.Correct = correct

	// the bonus looks at the streak built before this answer
	streak := s.store.AnswerStreak()

	first, err := s.store.RecordCompletion(ctx, levelID, index, mode, correct)
	if err != nil {
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}
	result.FirstCompletion = first

	if correct {
		metrics.AnswersJudged.WithLabelValues("correct").Inc()
		result.Score = pointsPerLevel * levelID
		if first {
			result.CoinsAwarded = baseCoins
			if streak > streakBonusAfter {
				result.CoinsAwarded = streakCoins
			}
			s.store.AwardCoins(ctx, levelID, result.CoinsAwarded)
		}
	} else {
		metrics.AnswersJudged.WithLabelValues("wrong").Inc()
	}

	s.store.RecordActivity(ctx, progress.Activity{
		Solved:    1,
		Correct:   correct,
		Level:     levelID,
		Score:     result.Score,
		TimeSpent: elapsed.Seconds(),
		Mode:      mode,
	})
	result.AnswerStreak = s.store.RecordAnswerStreak(ctx, levelID, correct)
	result.Coins = s.store.Coins()

	s.log.Debug("answer judged",
		"level", levelID,
		"index", index,
		"mode", mode,
		"correct", correct,
		"coins_awarded", result.CoinsAwarded,
	)
	return result, nil
}

// Shuffle picks a new master seed
func (s *PracticeService) Shuffle(ctx context.Context) int64 {
	seed := s.store.Shuffle(ctx)
	s.log.Info("master seed shuffled", "seed", seed)
	return seed
}

// Reset forgets all progress
func (s *PracticeService) Reset(ctx context.Context) {
	s.store.ResetAll(ctx)
	s.log.Info("progress reset")
}

func expected(p models.Problem) string {
	switch problem := p.(type) {
	case models.MathProblem:
		return generator.Format(problem.Answer)
	case models.EnglishProblem:
		return problem.Answer
	}
	return ""
}
