package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"abacusisland/internal/metrics"
	"abacusisland/internal/models"
	"abacusisland/internal/storage"
)

// NextProblem is the replay index picked for a fully solved stage
type NextProblem struct {
	LevelID    int `json:"levelId"`
	StageIndex int `json:"stageIndex"`
	Index      int `json:"index"`
}

type state struct {
	progress     map[int]*models.UserProgress
	logs         map[string]*models.DailyLog // by date
	completions  map[string]models.ProblemCompletion
	coins        int
	answerStreak int
	masterSeed   int64
	learningPath string
	next         *NextProblem
}

func newState() *state {
	return &state{
		progress:     make(map[int]*models.UserProgress),
		logs:         make(map[string]*models.DailyLog),
		completions:  make(map[string]models.ProblemCompletion),
		learningPath: DefaultLearningPath,
	}
}

func (st *state) levelProgress(levelID int) *models.UserProgress {
	p, ok := st.progress[levelID]
	if !ok {
		p = models.NewUserProgress(levelID)
		st.progress[levelID] = p
	}
	return p
}

func completionKey(levelID, index int, mode models.PracticeMode) string {
	return strconv.Itoa(levelID) + "-" + strconv.Itoa(index) + "-" + string(mode)
}

func cloneProgress(p *models.UserProgress) models.UserProgress {
	out := *p
	out.CompletedIndices = make(models.IndexSet, len(p.CompletedIndices))
	for i := range p.CompletedIndices {
		out.CompletedIndices[i] = struct{}{}
	}
	return out
}

// Snapshot is the whole persisted state in one value, used for backups
type Snapshot struct {
	Progress     []models.UserProgress      `json:"progress"`
	DailyLogs    []models.DailyLog          `json:"dailyLogs"`
	Completions  []models.ProblemCompletion `json:"completions"`
	Coins        int                        `json:"coins"`
	AnswerStreak int                        `json:"streak"`
	MasterSeed   int64                      `json:"masterSeed"`
	LearningPath string                     `json:"learningPath"`
	NextProblem  *NextProblem               `json:"nextProblem,omitempty"`
}

func (st *state) snapshot() Snapshot {
	snap := Snapshot{
		Progress:     make([]models.UserProgress, 0, len(st.progress)),
		DailyLogs:    make([]models.DailyLog, 0, len(st.logs)),
		Completions:  make([]models.ProblemCompletion, 0, len(st.completions)),
		Coins:        st.coins,
		AnswerStreak: st.answerStreak,
		MasterSeed:   st.masterSeed,
		LearningPath: st.learningPath,
	}
	for _, p := range st.progress {
		snap.Progress = append(snap.Progress, cloneProgress(p))
	}
	sort.Slice(snap.Progress, func(i, j int) bool { return snap.Progress[i].LevelID < snap.Progress[j].LevelID })

	for _, l := range st.logs {
		snap.DailyLogs = append(snap.DailyLogs, cloneLog(l))
	}
	sort.Slice(snap.DailyLogs, func(i, j int) bool { return snap.DailyLogs[i].Date < snap.DailyLogs[j].Date })

	for _, c := range st.completions {
		snap.Completions = append(snap.Completions, c)
	}
	sort.Slice(snap.Completions, func(i, j int) bool {
		a, b := snap.Completions[i], snap.Completions[j]
		if a.LevelID != b.LevelID {
			return a.LevelID < b.LevelID
		}
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return a.Mode < b.Mode
	})

	if st.next != nil {
		next := *st.next
		snap.NextProblem = &next
	}
	return snap
}

func stateFromSnapshot(snap Snapshot) *state {
	st := newState()
	for _, p := range snap.Progress {
		p := p
		if p.CompletedIndices == nil {
			p.CompletedIndices = models.IndexSet{}
		}
		st.progress[p.LevelID] = &p
	}
	for _, l := range snap.DailyLogs {
		l := l
		st.logs[l.Date] = &l
	}
	for _, c := range snap.Completions {
		st.completions[completionKey(c.LevelID, c.Index, c.Mode)] = c
	}
	st.coins = snap.Coins
	st.answerStreak = snap.AnswerStreak
	st.masterSeed = snap.MasterSeed
	if snap.LearningPath != "" {
		st.learningPath = snap.LearningPath
	}
	st.next = snap.NextProblem
	return st
}

// allKeys lists every key the store owns
var allKeys = []string{
	storage.KeyProgress, storage.KeyDailyLogs, storage.KeyCompletions,
	storage.KeyCoins, storage.KeyStreak, storage.KeyMasterSeed,
	storage.KeyLearningPath, storage.KeyNextProblem,
}

// encode serializes the named keys to JSON
func (st *state) encode(keys ...string) (map[string]string, error) {
	snap := st.snapshot()
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		var v interface{}
		switch key {
		case storage.KeyProgress:
			v = snap.Progress
		case storage.KeyDailyLogs:
			v = snap.DailyLogs
		case storage.KeyCompletions:
			v = snap.Completions
		case storage.KeyCoins:
			v = snap.Coins
		case storage.KeyStreak:
			v = snap.AnswerStreak
		case storage.KeyMasterSeed:
			v = snap.MasterSeed
		case storage.KeyLearningPath:
			v = snap.LearningPath
		case storage.KeyNextProblem:
			v = snap.NextProblem
		default:
			return nil, fmt.Errorf("unknown progress key %q", key)
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", key, err)
		}
		values[key] = string(data)
	}
	return values, nil
}

// decodeState rebuilds state from stored values, returning the keys that
// could not be decoded alongside their errors.
func decodeState(values map[string]string) (*state, map[string]error) {
	var snap Snapshot
	bad := make(map[string]error)
	targets := map[string]interface{}{
		storage.KeyProgress:     &snap.Progress,
		storage.KeyDailyLogs:    &snap.DailyLogs,
		storage.KeyCompletions:  &snap.Completions,
		storage.KeyCoins:        &snap.Coins,
		storage.KeyStreak:       &snap.AnswerStreak,
		storage.KeyMasterSeed:   &snap.MasterSeed,
		storage.KeyLearningPath: &snap.LearningPath,
		storage.KeyNextProblem:  &snap.NextProblem,
	}
	for key, target := range targets {
		raw, ok := values[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal([]byte(raw), target); err != nil {
			bad[key] = err
		}
	}
	return stateFromSnapshot(snap), bad
}

// Snapshot returns a copy of the whole state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.snapshot()
}

// Restore replaces the whole state with snap and rewrites the KV in one
// atomic call. Levels unknown to the catalog are rejected.
func (s *Store) Restore(ctx context.Context, snap Snapshot) error {
	for _, p := range snap.Progress {
		if _, ok := s.catalog.Level(p.LevelID); !ok {
			return fmt.Errorf("%w: %d", ErrUnknownLevel, p.LevelID)
		}
	}
	if snap.LearningPath != "" {
		if _, ok := s.catalog.Path(snap.LearningPath); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownPath, snap.LearningPath)
		}
	}
	st := stateFromSnapshot(snap)
	values, err := st.encode(allKeys...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	if err := s.kv.Replace(ctx, values); err != nil {
		s.log.Warn("failed to persist restored progress", "error", err)
		metrics.PersistenceFailures.WithLabelValues("all").Inc()
	}
	return nil
}
