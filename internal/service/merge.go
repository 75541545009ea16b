package service

import (
	"abacusisland/internal/models"
	"abacusisland/internal/progress"
)

// merge folds incoming into current. Completed sets are united, logs and
// completion details from incoming win per date and per problem, and the
// scalar fields are taken from incoming.
func merge(current, incoming progress.Snapshot) progress.Snapshot {
	out := incoming

	levels := make(map[int]models.UserProgress)
	var order []int
	for _, p := range current.Progress {
		levels[p.LevelID] = p
		order = append(order, p.LevelID)
	}
	for _, p := range incoming.Progress {
		have, ok := levels[p.LevelID]
		if !ok {
			levels[p.LevelID] = p
			order = append(order, p.LevelID)
			continue
		}
		united := make(models.IndexSet, len(have.CompletedIndices)+len(p.CompletedIndices))
		for i := range have.CompletedIndices {
			united.Add(i)
		}
		for i := range p.CompletedIndices {
			united.Add(i)
		}
		p.CompletedIndices = united
		levels[p.LevelID] = p
	}
	out.Progress = make([]models.UserProgress, 0, len(order))
	for _, id := range order {
		out.Progress = append(out.Progress, levels[id])
	}

	logs := make(map[string]int)
	out.DailyLogs = append([]models.DailyLog(nil), current.DailyLogs...)
	for i, l := range out.DailyLogs {
		logs[l.Date] = i
	}
	for _, l := range incoming.DailyLogs {
		if i, ok := logs[l.Date]; ok {
			out.DailyLogs[i] = l
			continue
		}
		logs[l.Date] = len(out.DailyLogs)
		out.DailyLogs = append(out.DailyLogs, l)
	}

	type problemKey struct {
		level, index int
		mode         models.PracticeMode
	}
	completions := make(map[problemKey]int)
	out.Completions = append([]models.ProblemCompletion(nil), current.Completions...)
	for i, c := range out.Completions {
		completions[problemKey{c.LevelID, c.Index, c.Mode}] = i
	}
	for _, c := range incoming.Completions {
		k := problemKey{c.LevelID, c.Index, c.Mode}
		if i, ok := completions[k]; ok {
			out.Completions[i] = c
			continue
		}
		completions[k] = len(out.Completions)
		out.Completions = append(out.Completions, c)
	}
	return out
}
