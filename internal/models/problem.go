package models

// ProblemKind tags the variants of Problem
type ProblemKind string

const (
	KindMath    ProblemKind = "math"
	KindEnglish ProblemKind = "english"
)

// Problem is either a MathProblem or an EnglishProblem
type Problem interface {
	Header() ProblemHeader
	Kind() ProblemKind
}

// ProblemHeader holds the fields shared by every problem variant
type ProblemHeader struct {
	ID         string    `json:"id"`
	Expression string    `json:"expression"`
	Operation  Operation `json:"operation"`
	Index      int       `json:"index"`
	LevelID    int       `json:"levelId"`
}

// Header returns the shared problem fields
func (h ProblemHeader) Header() ProblemHeader {
	return h
}

// MathProblem is an arithmetic exercise with a numeric answer
type MathProblem struct {
	ProblemHeader
	Answer   float64   `json:"answer"`
	Operands []float64 `json:"operands,omitempty"`
}

func (MathProblem) Kind() ProblemKind { return KindMath }

// EnglishProblem is a reading, grammar, vocabulary or writing exercise
type EnglishProblem struct {
	ProblemHeader
	Answer  string   `json:"answer"`
	Hint    string   `json:"hint,omitempty"`
	Options []string `json:"options,omitempty"`
}

func (EnglishProblem) Kind() ProblemKind { return KindEnglish }
