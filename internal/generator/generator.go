// Package generator derives practice problems from a level, an index and a
// master seed. The same inputs always produce the same problem.
package generator

import (
	"fmt"
	"math"
	"strings"

	"abacusisland/internal/models"
	"abacusisland/internal/prng"
	"abacusisland/internal/syllabus"
)

var (
	fractionDenominators = []int{2, 4, 5, 8, 10}
	percentages          = []int{10, 20, 25, 50, 75}
	defaultSqrtRange     = [2]int{10, 99}
)

// decimal answers of a fraction need room for eighths
const fractionDecimalPlaces = 3

// product of two one-place operands
const productDecimalPlaces = 2

// result is the arithmetic part of a generated problem
type result struct {
	op         models.Operation
	operands   []float64
	answer     float64
	expression string
	places     int
}

// Seed returns the base seed for a problem
func Seed(levelID, index int, masterSeed int64) int64 {
	return masterSeed + int64(levelID)*10000 + int64(index)
}

// Generate returns the problem at index for level. It never fails: stages
// without operations and English stages without content fall back to a
// single-digit addition.
func Generate(level models.LevelConfig, index int, masterSeed int64) models.Problem {
	_, stage := syllabus.StageFor(level, index)
	seed := Seed(level.ID, index, masterSeed)
	seq := prng.New(seed)

	header := models.ProblemHeader{
		ID:      fmt.Sprintf("%d-%d-%d", level.ID, index, seed),
		Index:   index,
		LevelID: level.ID,
	}

	op := prng.Pick(seq, 0, stage.Operations)
	if op.Valid() && !op.IsArithmetic() && len(level.Content) > 0 {
		return english(level, index, op, header)
	}

	var r result
	switch op {
	case models.OpAddition, models.OpSubtraction:
		r = addSub(level, stage, index, op, seq)
	case models.OpMultiplication:
		r = multiply(level, seq)
	case models.OpDivision:
		r = divide(level, seq)
	case models.OpSquareRoot:
		r = squareRoot(level, seq)
	case models.OpFraction:
		r = fraction(level, seq)
	case models.OpPercentage:
		r = percentage(level, seq)
	case models.OpOrderOfOperations:
		r = orderOfOperations(level, seq)
	default:
		r = fallback(level, seq)
	}

	header.Operation = r.op
	header.Expression = r.expression
	return models.MathProblem{
		ProblemHeader: header,
		Answer:        Round(r.answer, r.places),
		Operands:      r.operands,
	}
}

// IsDecimal reports whether addition and subtraction at index use operands
// rescaled to one decimal place.
func IsDecimal(level models.LevelConfig, index int) bool {
	_, stage := syllabus.StageFor(level, index)
	return isDecimal(level, stage, index)
}

func isDecimal(level models.LevelConfig, stage models.StageConfig, index int) bool {
	if level.DecimalPlaces <= 0 {
		return false
	}
	return index > 30 ||
		strings.Contains(strings.ToLower(stage.Name), "decimal") ||
		strings.Contains(strings.ToLower(stage.Description), "decimal")
}

// digitBounds clamps a level's digit range to something representable
func digitBounds(level models.LevelConfig) (int, int) {
	lo, hi := level.DigitRange[0], level.DigitRange[1]
	if lo < 1 {
		lo = 1
	}
	if hi > 9 {
		hi = 9
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func addSub(level models.LevelConfig, stage models.StageConfig, index int, op models.Operation, seq prng.Seq) result {
	lo, hi := digitBounds(level)
	d := seq.Between(1, lo, hi)
	upper := int(math.Pow10(d))
	lower := upper / 10

	n1 := float64(lower + seq.Intn(2, upper-lower))
	n2 := float64(lower + seq.Intn(3, upper-lower))

	decimal := isDecimal(level, stage, index)
	if decimal {
		n1 = Round(n1/10, level.DecimalPlaces)
		n2 = Round(n2/10, level.DecimalPlaces)
	}
	if op == models.OpSubtraction && !level.AllowNegative && n1 < n2 {
		n1, n2 = n2, n1
	}

	answer := n1 + n2
	if op == models.OpSubtraction {
		answer = n1 - n2
	}
	return binary(op, n1, n2, answer, level.DecimalPlaces)
}

func multiply(level models.LevelConfig, seq prng.Seq) result {
	if level.DecimalPlaces > 0 {
		n1 := Round(float64(seq.Between(1, 10, 99))/10, level.DecimalPlaces)
		n2 := Round(float64(seq.Between(2, 10, 99))/10, level.DecimalPlaces)
		return binary(models.OpMultiplication, n1, n2, n1*n2, max(level.DecimalPlaces, productDecimalPlaces))
	}

	var n1, n2 int
	switch level.MultiplicationTier {
	case models.MulAdvanced:
		n1 = seq.Between(1, 100, 999)
		n2 = seq.Between(2, 100, 999)
	case models.MulIntermediate:
		n1 = seq.Between(1, 10, 99)
		if seq.At(5) > 0.5 {
			n2 = seq.Between(2, 10, 99)
		} else {
			n2 = seq.Between(3, 1, 9)
		}
	default:
		n1 = seq.Between(1, 10, 99)
		n2 = seq.Between(2, 2, 9)
	}
	return binary(models.OpMultiplication, float64(n1), float64(n2), float64(n1*n2), 0)
}

// divide builds the dividend from divisor and quotient so the answer is exact
func divide(level models.LevelConfig, seq prng.Seq) result {
	if level.DecimalPlaces > 0 {
		divisor := Round(float64(seq.Between(1, 10, 99))/10, 1)
		quotient := Round(float64(seq.Between(2, 10, 99))/10, level.DecimalPlaces)
		dividend := Round(divisor*quotient, level.DecimalPlaces+1)
		return binary(models.OpDivision, dividend, divisor, quotient, level.DecimalPlaces)
	}

	divisor := seq.Between(1, 2, 9)
	if level.DivisionTier == models.DivAdvanced {
		divisor = seq.Between(3, 10, 99)
	}
	quotient := seq.Between(2, 5, 49)
	return binary(models.OpDivision, float64(divisor*quotient), float64(divisor), float64(quotient), 0)
}

func squareRoot(level models.LevelConfig, seq prng.Seq) result {
	bounds := level.SqrtRange
	if bounds == [2]int{} {
		bounds = defaultSqrtRange
	}
	root := seq.Between(1, bounds[0], bounds[1])
	square := float64(root * root)
	return result{
		op:         models.OpSquareRoot,
		operands:   []float64{square},
		answer:     float64(root),
		expression: models.OpSquareRoot.Symbol() + Format(square),
		places:     level.DecimalPlaces,
	}
}

func fraction(level models.LevelConfig, seq prng.Seq) result {
	den := prng.Pick(seq, 1, fractionDenominators)
	num := seq.Between(2, 1, den-1)

	if level.FractionDecimal {
		places := level.DecimalPlaces
		if places < fractionDecimalPlaces {
			places = fractionDecimalPlaces
		}
		return result{
			op:         models.OpFraction,
			operands:   []float64{float64(num), float64(den)},
			answer:     float64(num) / float64(den),
			expression: fmt.Sprintf("Decimal of %d/%d", num, den),
			places:     places,
		}
	}

	total := seq.Intn(3, 10)*den + den
	return result{
		op:         models.OpFraction,
		operands:   []float64{float64(num), float64(den), float64(total)},
		answer:     float64(num * total / den),
		expression: fmt.Sprintf("%d/%d of %d", num, den, total),
		places:     level.DecimalPlaces,
	}
}

func percentage(level models.LevelConfig, seq prng.Seq) result {
	p := prng.Pick(seq, 1, percentages)
	total := (seq.Intn(2, 10) + 1) * 40
	return result{
		op:         models.OpPercentage,
		operands:   []float64{float64(p), float64(total)},
		answer:     float64(p*total) / 100,
		expression: fmt.Sprintf("%d%% of %d", p, total),
		places:     level.DecimalPlaces,
	}
}

func orderOfOperations(level models.LevelConfig, seq prng.Seq) result {
	a := seq.Between(1, 1, 20)
	b := seq.Between(2, 1, 10)
	c := seq.Between(3, 1, 5)
	return result{
		op:         models.OpOrderOfOperations,
		operands:   []float64{float64(a), float64(b), float64(c)},
		answer:     float64((a + b) * c),
		expression: fmt.Sprintf("(%d + %d) × %d", a, b, c),
		places:     level.DecimalPlaces,
	}
}

func fallback(level models.LevelConfig, seq prng.Seq) result {
	n1 := seq.Between(1, 1, 9)
	n2 := seq.Between(2, 1, 9)
	return binary(models.OpAddition, float64(n1), float64(n2), float64(n1+n2), level.DecimalPlaces)
}

func binary(op models.Operation, n1, n2, answer float64, places int) result {
	return result{
		op:         op,
		operands:   []float64{n1, n2},
		answer:     answer,
		expression: Format(n1) + " " + op.Symbol() + " " + Format(n2),
		places:     places,
	}
}
