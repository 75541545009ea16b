// Package progress tracks what a learner has solved: completed problems,
// per-attempt details, daily activity logs, coins and streaks.
//
// A Store is owned by the application shell and shared by handle. The
// in-memory state is the source of truth for the session; every mutation
// writes through to a storage.KV, and write failures are logged and dropped.
package progress

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"abacusisland/internal/logger"
	"abacusisland/internal/metrics"
	"abacusisland/internal/models"
	"abacusisland/internal/storage"
	"abacusisland/internal/syllabus"
)

var (
	ErrUnknownLevel = errors.New("unknown level")
	ErrUnknownStage = errors.New("unknown stage")
	ErrUnknownPath  = errors.New("unknown learning path")
	ErrInvalidIndex = errors.New("problem index out of range")
	ErrInvalidMode  = errors.New("unknown practice mode")
)

// DefaultLearningPath is selected on first start and after a reset
const DefaultLearningPath = "junior"

// DefaultWriteTimeout bounds a single write-through to the KV
const DefaultWriteTimeout = 2 * time.Second

// StageProgress counts solved problems of a stage; Total is the stage width
type StageProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Percent returns the share of the stage that is solved, 0 to 100
func (p StageProgress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total) * 100
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithWriteTimeout bounds each write-through; values <= 0 keep the default
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

// WithRand replaces the source used for replay picks and shuffled seeds
func WithRand(r *rand.Rand) Option {
	return func(s *Store) { s.rng = r }
}

type Store struct {
	mu           sync.Mutex
	kv           storage.KV
	catalog      *syllabus.Catalog
	log          *logger.Logger
	now          func() time.Time
	rng          *rand.Rand
	writeTimeout time.Duration
	state        *state
}

// New returns an empty store; call Load to read persisted state
func New(kv storage.KV, catalog *syllabus.Catalog, log *logger.Logger, opts ...Option) *Store {
	s := &Store{
		kv:           kv,
		catalog:      catalog,
		log:          log.With("component", "progress"),
		now:          time.Now,
		writeTimeout: DefaultWriteTimeout,
		state:        newState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := uint64(s.now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return s
}

// Load replaces the in-memory state with what the KV holds. Values that fail
// to decode are logged and left at their defaults.
func (s *Store) Load(ctx context.Context) error {
	values, err := s.kv.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}

	st, bad := decodeState(values)
	for key, err := range bad {
		s.log.Warn("ignoring unreadable stored value", "key", key, "error", err)
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}

// persist writes the given keys from the current state. Callers hold mu so
// writes reach the KV in mutation order; a stalled backend is cut off after
// writeTimeout and the write is dropped.
func (s *Store) persist(ctx context.Context, keys ...string) {
	values, err := s.state.encode(keys...)
	if err == nil {
		ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
		err = s.kv.SetMany(ctx, values)
		cancel()
	}
	if err != nil {
		s.log.Warn("failed to persist progress", "keys", keys, "error", err)
		for _, key := range keys {
			metrics.PersistenceFailures.WithLabelValues(key).Inc()
		}
	}
}

func (s *Store) level(levelID int) (models.LevelConfig, error) {
	level, ok := s.catalog.Level(levelID)
	if !ok {
		return models.LevelConfig{}, fmt.Errorf("%w: %d", ErrUnknownLevel, levelID)
	}
	return level, nil
}

func (s *Store) stage(levelID, stageIndex int) (models.StageConfig, error) {
	if _, err := s.level(levelID); err != nil {
		return models.StageConfig{}, err
	}
	stage, ok := s.catalog.Stage(levelID, stageIndex)
	if !ok {
		return models.StageConfig{}, fmt.Errorf("%w: level %d stage %d", ErrUnknownStage, levelID, stageIndex)
	}
	return stage, nil
}

// RecordCompletion records one judged attempt. A correct answer adds the index
// to the level's completed set, which nothing but ResetAll removes again. The
// attempt detail always keeps the latest date and correctness. It reports
// whether this attempt completed the problem for the first time.
func (s *Store) RecordCompletion(ctx context.Context, levelID, index int, mode models.PracticeMode, correct bool) (bool, error) {
	level, err := s.level(levelID)
	if err != nil {
		return false, err
	}
	if index < models.FirstIndex || index > models.LastIndex {
		return false, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	if mode == "" {
		mode = models.ModeVisual
	}
	if !mode.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	stageIndex, _ := syllabus.StageFor(level, index)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	key := completionKey(levelID, index, mode)
	c, ok := s.state.completions[key]
	if !ok {
		c = models.ProblemCompletion{LevelID: levelID, StageIndex: stageIndex, Index: index, Mode: mode}
	}
	c.Attempts++
	c.IsCorrect = correct
	c.Date = now
	if correct && c.FirstCorrectAt == nil {
		first := now
		c.FirstCorrectAt = &first
	}
	s.state.completions[key] = c

	keys := []string{storage.KeyCompletions}
	first := false
	if correct {
		first = s.state.levelProgress(levelID).CompletedIndices.Add(index)
		if first {
			keys = append(keys, storage.KeyProgress)
		}
		if next := s.state.next; next != nil && next.LevelID == levelID && next.StageIndex == stageIndex {
			s.state.next = nil
			keys = append(keys, storage.KeyNextProblem)
		}
	}
	s.persist(ctx, keys...)
	return first, nil
}

// IsCompleted reports whether index of a level has been solved
func (s *Store) IsCompleted(levelID, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.state.progress[levelID]
	return ok && p.CompletedIndices.Has(index)
}

// Completion returns the attempt detail of one problem in one mode
func (s *Store) Completion(levelID, index int, mode models.PracticeMode) (models.ProblemCompletion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.state.completions[completionKey(levelID, index, mode)]
	return c, ok
}

// StageCompletions returns the attempt details of a stage in one mode, by index
func (s *Store) StageCompletions(levelID, stageIndex int, mode models.PracticeMode) (map[int]models.ProblemCompletion, error) {
	stage, err := s.stage(levelID, stageIndex)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]models.ProblemCompletion)
	for i := stage.Range[0]; i <= stage.Range[1]; i++ {
		if c, ok := s.state.completions[completionKey(levelID, i, mode)]; ok {
			out[i] = c
		}
	}
	return out, nil
}

// GetStageProgress counts the solved problems of a stage
func (s *Store) GetStageProgress(levelID, stageIndex int) (StageProgress, error) {
	stage, err := s.stage(levelID, stageIndex)
	if err != nil {
		return StageProgress{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	done := 0
	if p, ok := s.state.progress[levelID]; ok {
		for i := stage.Range[0]; i <= stage.Range[1]; i++ {
			if p.CompletedIndices.Has(i) {
				done++
			}
		}
	}
	return StageProgress{Completed: done, Total: stage.Size()}, nil
}

// GetStageProgressForMode counts the problems of a stage ever solved in mode
func (s *Store) GetStageProgressForMode(levelID, stageIndex int, mode models.PracticeMode) (StageProgress, error) {
	stage, err := s.stage(levelID, stageIndex)
	if err != nil {
		return StageProgress{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	done := 0
	for i := stage.Range[0]; i <= stage.Range[1]; i++ {
		if c, ok := s.state.completions[completionKey(levelID, i, mode)]; ok && c.FirstCorrectAt != nil {
			done++
		}
	}
	return StageProgress{Completed: done, Total: stage.Size()}, nil
}

// GetNextAvailableProblem returns the first unsolved index of a stage. Once
// the whole stage is solved it picks a random index for replay and keeps
// returning it until the next correct answer in that stage.
func (s *Store) GetNextAvailableProblem(ctx context.Context, levelID, stageIndex int) (int, error) {
	return s.nextAvailable(ctx, levelID, stageIndex, func(i int) bool {
		p := s.state.progress[levelID]
		return p != nil && p.CompletedIndices.Has(i)
	})
}

// GetNextAvailableProblemForMode is GetNextAvailableProblem counting only
// problems first solved in mode.
func (s *Store) GetNextAvailableProblemForMode(ctx context.Context, levelID, stageIndex int, mode models.PracticeMode) (int, error) {
	if !mode.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	return s.nextAvailable(ctx, levelID, stageIndex, func(i int) bool {
		c, ok := s.state.completions[completionKey(levelID, i, mode)]
		return ok && c.FirstCorrectAt != nil
	})
}

// nextAvailable calls solved with mu held
func (s *Store) nextAvailable(ctx context.Context, levelID, stageIndex int, solved func(int) bool) (int, error) {
	stage, err := s.stage(levelID, stageIndex)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := stage.Range[0]; i <= stage.Range[1]; i++ {
		if !solved(i) {
			return i, nil
		}
	}

	if next := s.state.next; next != nil && next.LevelID == levelID && next.StageIndex == stageIndex {
		return next.Index, nil
	}
	index := stage.Range[0] + s.rng.IntN(stage.Size())
	s.state.next = &NextProblem{LevelID: levelID, StageIndex: stageIndex, Index: index}
	s.persist(ctx, storage.KeyNextProblem)
	return index, nil
}

// LevelProgress returns a copy of a level's progress
func (s *Store) LevelProgress(levelID int) models.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.state.progress[levelID]
	if !ok {
		return *models.NewUserProgress(levelID)
	}
	return cloneProgress(p)
}

// Coins returns the global coin balance
func (s *Store) Coins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.coins
}

// AwardCoins adds n coins to the balance and to the level's tally
func (s *Store) AwardCoins(ctx context.Context, levelID, n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.coins += n
	keys := []string{storage.KeyCoins}
	if _, ok := s.catalog.Level(levelID); ok {
		s.state.levelProgress(levelID).Coins += n
		keys = append(keys, storage.KeyProgress)
	}
	s.persist(ctx, keys...)
	return s.state.coins
}

// AnswerStreak returns the number of consecutive correct answers
func (s *Store) AnswerStreak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.answerStreak
}

// RecordAnswerStreak extends the answer streak on a correct answer and
// resets it on a wrong one. The level's own streak follows the same rule.
func (s *Store) RecordAnswerStreak(ctx context.Context, levelID int, correct bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := []string{storage.KeyStreak}
	if correct {
		s.state.answerStreak++
	} else {
		s.state.answerStreak = 0
	}
	if _, ok := s.catalog.Level(levelID); ok {
		p := s.state.levelProgress(levelID)
		if correct {
			p.Streak++
		} else {
			p.Streak = 0
		}
		keys = append(keys, storage.KeyProgress)
	}
	s.persist(ctx, keys...)
	return s.state.answerStreak
}

// MasterSeed returns the seed mixed into every generated problem
func (s *Store) MasterSeed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.masterSeed
}

// Shuffle picks a new master seed so every index yields a new problem
func (s *Store) Shuffle(ctx context.Context) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.masterSeed = s.rng.Int64N(1_000_000)
	s.persist(ctx, storage.KeyMasterSeed)
	return s.state.masterSeed
}

// LearningPath returns the selected path name
func (s *Store) LearningPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.learningPath
}

// SetLearningPath selects a path of the catalog
func (s *Store) SetLearningPath(ctx context.Context, name string) error {
	if _, ok := s.catalog.Path(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPath, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.learningPath = name
	s.persist(ctx, storage.KeyLearningPath)
	return nil
}

// ResetAll forgets everything. The new state replaces the old one in a
// single step and the KV is cleared with a single call, so no reader sees a
// half-reset store.
func (s *Store) ResetAll(ctx context.Context) {
	fresh := newState()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fresh
	ctx, cancel := context.WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := s.kv.Clear(ctx); err != nil {
		s.log.Warn("failed to clear stored progress", "error", err)
		metrics.PersistenceFailures.WithLabelValues("all").Inc()
	}
}
