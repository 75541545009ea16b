package generator

import (
	"math"
	"strconv"
	"strings"

	"abacusisland/internal/models"
)

// Tolerance is the largest difference accepted between a numeric answer and
// the expected value.
const Tolerance = 1e-4

// CheckAnswer judges input against the problem's answer. ok is false when the
// input cannot be judged at all (empty, or not a number for a math problem),
// in which case the attempt should be ignored.
func CheckAnswer(p models.Problem, input string) (correct, ok bool) {
	switch problem := p.(type) {
	case models.MathProblem:
		s := strings.TrimSpace(input)
		if s == "" {
			return false, false
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return false, false
		}
		return math.Abs(v-problem.Answer) < Tolerance, true
	case models.EnglishProblem:
		got := normalizeWord(input)
		if got == "" {
			return false, false
		}
		return got == normalizeWord(problem.Answer), true
	}
	return false, false
}

func normalizeWord(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimSpace(strings.TrimRight(s, ".!?,;:"))
}
