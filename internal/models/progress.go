package models

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-day format used for daily logs
const DateLayout = "2006-01-02"

// PracticeMode is the way a learner works through a problem
type PracticeMode string

const (
	ModeVisual PracticeMode = "visual" // with the abacus on screen
	ModeMental PracticeMode = "mental" // audio only
	ModeFinger PracticeMode = "finger" // finger theory, numbers below 100
)

// Valid reports whether m is a known practice mode
func (m PracticeMode) Valid() bool {
	switch m {
	case ModeVisual, ModeMental, ModeFinger:
		return true
	}
	return false
}

// IndexSet is a set of problem indices, serialized as a sorted list
type IndexSet map[int]struct{}

// Add inserts i and reports whether it was newly added
func (s IndexSet) Add(i int) bool {
	if _, ok := s[i]; ok {
		return false
	}
	s[i] = struct{}{}
	return true
}

// Has reports whether i is in the set
func (s IndexSet) Has(i int) bool {
	_, ok := s[i]
	return ok
}

// Sorted returns the members in ascending order
func (s IndexSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (s IndexSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *IndexSet) UnmarshalJSON(data []byte) error {
	var list []int
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	set := make(IndexSet, len(list))
	for _, i := range list {
		set[i] = struct{}{}
	}
	*s = set
	return nil
}

// UserProgress tracks the completed problems of one level
type UserProgress struct {
	LevelID          int      `json:"levelId"`
	CompletedIndices IndexSet `json:"completedIndices"`
	Coins            int      `json:"coins"`
	Streak           int      `json:"streak"`
}

// NewUserProgress creates empty progress for a level
func NewUserProgress(levelID int) *UserProgress {
	return &UserProgress{LevelID: levelID, CompletedIndices: IndexSet{}}
}

// ProblemCompletion is the latest attempt recorded for one problem in one mode
type ProblemCompletion struct {
	LevelID        int          `json:"levelId"`
	StageIndex     int          `json:"stageIndex"`
	Index          int          `json:"index"`
	Mode           PracticeMode `json:"mode"`
	IsCorrect      bool         `json:"isCorrect"`
	Date           time.Time    `json:"date"`
	FirstCorrectAt *time.Time   `json:"firstCorrectAt,omitempty"`
	Attempts       int          `json:"attempts"`
}

// DisplayDate formats the attempt date for review grids
func (c ProblemCompletion) DisplayDate() string {
	return c.Date.Format("Jan 2")
}

// ModeStats is the per-practice-mode share of a daily log
type ModeStats struct {
	ProblemsSolved int     `json:"problemsSolved"`
	CorrectAnswers int     `json:"correctAnswers"`
	WrongAnswers   int     `json:"wrongAnswers"`
	TotalScore     int     `json:"totalScore"`
	TimeSpent      float64 `json:"timeSpent"`
}

// DailyLog aggregates one calendar day of activity
type DailyLog struct {
	ID             uuid.UUID                  `json:"id"`
	Date           string                     `json:"date"`
	ProblemsSolved int                        `json:"problemsSolved"`
	CorrectAnswers int                        `json:"correctAnswers"`
	WrongAnswers   int                        `json:"wrongAnswers"`
	HighestLevel   int                        `json:"highestLevel"`
	TotalScore     int                        `json:"totalScore"`
	TimeSpent      float64                    `json:"timeSpent"` // seconds
	Modes          map[PracticeMode]ModeStats `json:"modes,omitempty"`
}

// Accuracy returns the percentage of correct answers, 0 when nothing was solved
func (l DailyLog) Accuracy() float64 {
	if l.ProblemsSolved <= 0 {
		return 0
	}
	return float64(l.CorrectAnswers) / float64(l.ProblemsSolved) * 100
}
