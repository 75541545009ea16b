package models

// Operation identifies the kind of exercise a problem asks for
type Operation string

const (
	OpAddition          Operation = "addition"
	OpSubtraction       Operation = "subtraction"
	OpMultiplication    Operation = "multiplication"
	OpDivision          Operation = "division"
	OpSquareRoot        Operation = "square_root"
	OpFraction          Operation = "fractions"
	OpPercentage        Operation = "percentage"
	OpOrderOfOperations Operation = "bodmas"

	// English variant
	OpReading    Operation = "reading"
	OpGrammar    Operation = "grammar"
	OpVocabulary Operation = "vocabulary"
	OpWriting    Operation = "writing"
)

// AllOperations lists every known operation in syllabus order
var AllOperations = []Operation{
	OpAddition, OpSubtraction, OpMultiplication, OpDivision,
	OpSquareRoot, OpFraction, OpPercentage, OpOrderOfOperations,
	OpReading, OpGrammar, OpVocabulary, OpWriting,
}

// Valid reports whether o is a known operation
func (o Operation) Valid() bool {
	for _, known := range AllOperations {
		if o == known {
			return true
		}
	}
	return false
}

// IsArithmetic reports whether the operation produces a numeric answer
func (o Operation) IsArithmetic() bool {
	switch o {
	case OpReading, OpGrammar, OpVocabulary, OpWriting:
		return false
	}
	return o.Valid()
}

// Symbol returns the operator glyph used in expressions, or "" when the
// operation has no single operator.
func (o Operation) Symbol() string {
	switch o {
	case OpAddition:
		return "+"
	case OpSubtraction:
		return "-"
	case OpMultiplication:
		return "×"
	case OpDivision:
		return "÷"
	case OpSquareRoot:
		return "√"
	case OpPercentage:
		return "%"
	}
	return ""
}
