package progress

import (
	"context"
	"fmt"
	"sort"
	"time"

	"abacusisland/internal/models"
	"abacusisland/internal/storage"

	"github.com/google/uuid"
)

// Activity is one increment of a day's log
type Activity struct {
	Date      time.Time // zero means now
	Solved    int
	Correct   bool
	Level     int
	Score     int
	TimeSpent float64 // seconds
	Mode      models.PracticeMode
}

func cloneLog(l *models.DailyLog) models.DailyLog {
	out := *l
	if l.Modes != nil {
		out.Modes = make(map[models.PracticeMode]models.ModeStats, len(l.Modes))
		for m, stats := range l.Modes {
			out.Modes[m] = stats
		}
	}
	return out
}

// RecordActivity adds a to the log of its day, creating the log as needed,
// and returns the updated log.
func (s *Store) RecordActivity(ctx context.Context, a Activity) models.DailyLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := a.Date
	if day.IsZero() {
		day = s.now()
	}
	date := day.Format(models.DateLayout)

	entry, ok := s.state.logs[date]
	if !ok {
		entry = &models.DailyLog{ID: uuid.New(), Date: date, HighestLevel: a.Level}
		s.state.logs[date] = entry
	}
	correct, wrong := 0, 1
	if a.Correct {
		correct, wrong = 1, 0
	}
	entry.ProblemsSolved += a.Solved
	entry.CorrectAnswers += correct
	entry.WrongAnswers += wrong
	entry.TotalScore += a.Score
	entry.TimeSpent += a.TimeSpent
	if a.Level > entry.HighestLevel {
		entry.HighestLevel = a.Level
	}

	if a.Mode != "" {
		if entry.Modes == nil {
			entry.Modes = make(map[models.PracticeMode]models.ModeStats)
		}
		stats := entry.Modes[a.Mode]
		stats.ProblemsSolved += a.Solved
		stats.CorrectAnswers += correct
		stats.WrongAnswers += wrong
		stats.TotalScore += a.Score
		stats.TimeSpent += a.TimeSpent
		entry.Modes[a.Mode] = stats
	}

	s.persist(ctx, storage.KeyDailyLogs)
	return cloneLog(entry)
}

// GetCurrentStreak counts consecutive days with a log, ending today
func (s *Store) GetCurrentStreak() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	streak := 0
	day := s.now()
	for {
		if _, ok := s.state.logs[day.Format(models.DateLayout)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// Log returns the log of a date formatted as models.DateLayout
func (s *Store) Log(date string) (models.DailyLog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.state.logs[date]
	if !ok {
		return models.DailyLog{}, false
	}
	return cloneLog(l), true
}

// TodayLog returns the log of the current day
func (s *Store) TodayLog() (models.DailyLog, bool) {
	return s.Log(s.now().Format(models.DateLayout))
}

// TotalProblemsSolved sums every daily log
func (s *Store) TotalProblemsSolved() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, l := range s.state.logs {
		total += l.ProblemsSolved
	}
	return total
}

// LogsForMonth returns the logs of one calendar month in date order
func (s *Store) LogsForMonth(year int, month time.Month) []models.DailyLog {
	prefix := fmt.Sprintf("%04d-%02d-", year, int(month))

	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.DailyLog
	for date, l := range s.state.logs {
		if len(date) > len(prefix) && date[:len(prefix)] == prefix {
			out = append(out, cloneLog(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
