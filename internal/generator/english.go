package generator

import "abacusisland/internal/models"

// english serves the content row for index; rows repeat cyclically
func english(level models.LevelConfig, index int, op models.Operation, header models.ProblemHeader) models.Problem {
	n := len(level.Content)
	row := level.Content[((index%n)+n)%n]

	header.Operation = op
	header.Expression = row.Question
	return models.EnglishProblem{
		ProblemHeader: header,
		Answer:        row.Answer,
		Hint:          row.Hint,
		Options:       row.Options,
	}
}
