package generator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"abacusisland/internal/models"
	"abacusisland/internal/syllabus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultLevels(t *testing.T) []models.LevelConfig {
	t.Helper()
	catalog, err := syllabus.Default()
	require.NoError(t, err)
	return catalog.Levels()
}

func levelByID(t *testing.T, id int) models.LevelConfig {
	t.Helper()
	catalog, err := syllabus.Default()
	require.NoError(t, err)
	level, ok := catalog.Level(id)
	require.True(t, ok, "level %d", id)
	return level
}

func mathProblem(t *testing.T, p models.Problem) models.MathProblem {
	t.Helper()
	mp, ok := p.(models.MathProblem)
	require.True(t, ok, "expected a math problem, got %T", p)
	return mp
}

func decimalDigits(v float64) int {
	s := Format(v)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

func TestGenerateIsDeterministic(t *testing.T) {
	for _, level := range defaultLevels(t) {
		for _, seed := range []int64{0, 7, 123456} {
			for index := models.FirstIndex; index <= models.LastIndex; index++ {
				a := Generate(level, index, seed)
				b := Generate(level, index, seed)
				require.Equal(t, a, b, "level %d index %d seed %d", level.ID, index, seed)
			}
		}
	}
}

func TestGenerateHeader(t *testing.T) {
	level := levelByID(t, 5)
	p := Generate(level, 42, 3)
	h := p.Header()

	seed := Seed(5, 42, 3)
	assert.Equal(t, int64(3+5*10000+42), seed)
	assert.Equal(t, fmt.Sprintf("5-42-%d", seed), h.ID)
	assert.Equal(t, 42, h.Index)
	assert.Equal(t, 5, h.LevelID)
	assert.NotEmpty(t, h.Expression)
}

func TestGenerateUsesStageOperations(t *testing.T) {
	for _, level := range defaultLevels(t) {
		for _, stage := range level.Stages {
			for index := stage.Range[0]; index <= stage.Range[1]; index++ {
				op := Generate(level, index, 0).Header().Operation
				assert.Contains(t, stage.Operations, op, "level %d index %d", level.ID, index)
			}
		}
	}
}

func TestDivisionIsExactAndClean(t *testing.T) {
	artifact := regexp.MustCompile(`\d\.\d{10,}`)
	found := 0

	for _, level := range defaultLevels(t) {
		if !level.HasOperation(models.OpDivision) {
			continue
		}
		for seed := int64(0); seed < 10; seed++ {
			for index := models.FirstIndex; index <= models.LastIndex; index++ {
				p := Generate(level, index, seed)
				if p.Header().Operation != models.OpDivision {
					continue
				}
				found++
				mp := mathProblem(t, p)

				parts := strings.Split(mp.Expression, " ÷ ")
				require.Len(t, parts, 2, mp.Expression)
				assert.NotRegexp(t, artifact, parts[0])
				assert.NotRegexp(t, artifact, parts[1])

				dividend, err := strconv.ParseFloat(parts[0], 64)
				require.NoError(t, err)
				divisor, err := strconv.ParseFloat(parts[1], 64)
				require.NoError(t, err)
				require.NotZero(t, divisor)

				assert.InDelta(t, dividend/divisor, mp.Answer, 1e-9, mp.Expression)
				assert.LessOrEqual(t, decimalDigits(mp.Answer), level.DecimalPlaces, mp.Expression)
				if level.DecimalPlaces == 0 {
					assert.Equal(t, math.Trunc(mp.Answer), mp.Answer)
				}
			}
		}
	}
	assert.Positive(t, found)
}

func TestDivisionTiers(t *testing.T) {
	tests := []struct {
		name       string
		tier       models.DivisionTier
		minDivisor float64
		maxDivisor float64
	}{
		{"basic", models.DivBasic, 2, 9},
		{"advanced", models.DivAdvanced, 10, 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := models.LevelConfig{
				ID:           99,
				Operations:   []models.Operation{models.OpDivision},
				DigitRange:   [2]int{1, 2},
				DivisionTier: tt.tier,
				Stages: []models.StageConfig{
					{Name: "Div", Operations: []models.Operation{models.OpDivision}, Range: [2]int{1, 100}},
				},
			}
			for index := models.FirstIndex; index <= models.LastIndex; index++ {
				mp := mathProblem(t, Generate(level, index, 0))
				require.Len(t, mp.Operands, 2)
				divisor := mp.Operands[1]
				assert.GreaterOrEqual(t, divisor, tt.minDivisor)
				assert.LessOrEqual(t, divisor, tt.maxDivisor)
				assert.GreaterOrEqual(t, mp.Answer, 5.0)
				assert.LessOrEqual(t, mp.Answer, 49.0)
				assert.Equal(t, mp.Operands[0], divisor*mp.Answer)
			}
		})
	}
}

func TestHighLevelsHaveDecimalQuotients(t *testing.T) {
	level := levelByID(t, 10)
	for seed := int64(0); seed < 200; seed++ {
		p := Generate(level, 80, seed)
		if p.Header().Operation == models.OpDivision && decimalDigits(mathProblem(t, p).Answer) > 0 {
			return
		}
	}
	t.Fatal("expected at least one decimal quotient")
}

func TestSubtractionNeverNegative(t *testing.T) {
	for _, level := range defaultLevels(t) {
		if level.AllowNegative {
			continue
		}
		for seed := int64(0); seed < 5; seed++ {
			for index := models.FirstIndex; index <= models.LastIndex; index++ {
				p := Generate(level, index, seed)
				if p.Header().Operation != models.OpSubtraction {
					continue
				}
				mp := mathProblem(t, p)
				assert.GreaterOrEqual(t, mp.Answer, 0.0, "level %d %s", level.ID, mp.Expression)
			}
		}
	}
}

func TestAddSubRespectDigitRange(t *testing.T) {
	for _, level := range defaultLevels(t) {
		for index := models.FirstIndex; index <= models.LastIndex; index++ {
			p := Generate(level, index, 11)
			op := p.Header().Operation
			if op != models.OpAddition && op != models.OpSubtraction {
				continue
			}
			mp := mathProblem(t, p)
			scale := 1.0
			if IsDecimal(level, index) {
				scale = 10
			}
			for _, operand := range mp.Operands {
				digits := len(strconv.Itoa(int(math.Round(operand * scale))))
				assert.GreaterOrEqual(t, digits, level.DigitRange[0], "level %d %s", level.ID, mp.Expression)
				assert.LessOrEqual(t, digits, level.DigitRange[1], "level %d %s", level.ID, mp.Expression)
			}
		}
	}
}

func TestFixedSeedSubtraction(t *testing.T) {
	level := models.LevelConfig{
		ID:         1,
		Title:      "Two digit subtraction",
		Operations: []models.Operation{models.OpSubtraction},
		DigitRange: [2]int{2, 2},
		Stages: []models.StageConfig{
			{Name: "Minus", Operations: []models.Operation{models.OpSubtraction}, Range: [2]int{1, 100}},
		},
	}

	for index := models.FirstIndex; index <= models.LastIndex; index++ {
		first := mathProblem(t, Generate(level, index, 42))
		second := mathProblem(t, Generate(level, index, 42))
		require.Equal(t, first, second)

		require.Len(t, first.Operands, 2)
		n1, n2 := first.Operands[0], first.Operands[1]
		assert.GreaterOrEqual(t, n1, 10.0)
		assert.LessOrEqual(t, n1, 99.0)
		assert.GreaterOrEqual(t, n2, 10.0)
		assert.LessOrEqual(t, n2, 99.0)
		assert.GreaterOrEqual(t, n1, n2)
		assert.Equal(t, n1-n2, first.Answer)
		assert.Equal(t, fmt.Sprintf("%s - %s", Format(n1), Format(n2)), first.Expression)
	}
}

func TestDecimalRescaling(t *testing.T) {
	level := levelByID(t, 6)
	assert.False(t, IsDecimal(level, 1))
	assert.True(t, IsDecimal(level, 31))

	integer := levelByID(t, 5)
	assert.False(t, IsDecimal(integer, 99))
}

func TestMultiplicationTiers(t *testing.T) {
	tests := []struct {
		name   string
		tier   models.MultiplicationTier
		first  [2]float64
		second [2]float64
	}{
		{"basic", models.MulBasic, [2]float64{10, 99}, [2]float64{2, 9}},
		{"intermediate", models.MulIntermediate, [2]float64{10, 99}, [2]float64{1, 99}},
		{"advanced", models.MulAdvanced, [2]float64{100, 999}, [2]float64{100, 999}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := models.LevelConfig{
				ID:                 98,
				Operations:         []models.Operation{models.OpMultiplication},
				DigitRange:         [2]int{1, 2},
				MultiplicationTier: tt.tier,
				Stages: []models.StageConfig{
					{Name: "Mul", Operations: []models.Operation{models.OpMultiplication}, Range: [2]int{1, 100}},
				},
			}
			for index := models.FirstIndex; index <= models.LastIndex; index++ {
				mp := mathProblem(t, Generate(level, index, 0))
				require.Len(t, mp.Operands, 2)
				assert.GreaterOrEqual(t, mp.Operands[0], tt.first[0])
				assert.LessOrEqual(t, mp.Operands[0], tt.first[1])
				assert.GreaterOrEqual(t, mp.Operands[1], tt.second[0])
				assert.LessOrEqual(t, mp.Operands[1], tt.second[1])
				assert.Equal(t, mp.Operands[0]*mp.Operands[1], mp.Answer)
			}
		})
	}
}

func TestDecimalProductIsExact(t *testing.T) {
	for _, places := range []int{1, 2, 3} {
		t.Run(strconv.Itoa(places), func(t *testing.T) {
			level := models.LevelConfig{
				ID:            97,
				Operations:    []models.Operation{models.OpMultiplication},
				DigitRange:    [2]int{2, 2},
				DecimalPlaces: places,
				Stages: []models.StageConfig{
					{Name: "Decimal Mul", Operations: []models.Operation{models.OpMultiplication}, Range: [2]int{1, 100}},
				},
			}
			for index := models.FirstIndex; index <= models.LastIndex; index++ {
				mp := mathProblem(t, Generate(level, index, 0))
				require.Len(t, mp.Operands, 2)
				exact := mp.Operands[0] * mp.Operands[1]
				require.InDelta(t, exact, mp.Answer, 1e-9, "%s", mp.Expression)
				correct, ok := CheckAnswer(mp, Format(Round(exact, 2)))
				assert.True(t, ok)
				assert.True(t, correct, "%s", mp.Expression)
			}
		})
	}
}

func TestSquareRoot(t *testing.T) {
	level := levelByID(t, 11)
	found := false
	for seed := int64(0); seed < 20; seed++ {
		for index := models.FirstIndex; index <= models.LastIndex; index++ {
			p := Generate(level, index, seed)
			if p.Header().Operation != models.OpSquareRoot {
				continue
			}
			found = true
			mp := mathProblem(t, p)
			assert.True(t, strings.HasPrefix(mp.Expression, "√"))
			assert.Equal(t, mp.Operands[0], mp.Answer*mp.Answer)
			assert.GreaterOrEqual(t, mp.Answer, 10.0)
			assert.LessOrEqual(t, mp.Answer, 99.0)
		}
	}
	assert.True(t, found)
}

func TestFractions(t *testing.T) {
	t.Run("of a total", func(t *testing.T) {
		level := levelByID(t, 9)
		for index := models.FirstIndex; index <= models.LastIndex; index++ {
			p := Generate(level, index, 0)
			if p.Header().Operation != models.OpFraction {
				continue
			}
			mp := mathProblem(t, p)
			var num, den, total int
			_, err := fmt.Sscanf(mp.Expression, "%d/%d of %d", &num, &den, &total)
			require.NoError(t, err, mp.Expression)
			assert.Contains(t, fractionDenominators, den)
			assert.Less(t, num, den)
			assert.Zero(t, total%den)
			assert.Equal(t, float64(num*total/den), mp.Answer)
		}
	})

	t.Run("as a decimal", func(t *testing.T) {
		level := levelByID(t, 26)
		found := false
		for seed := int64(0); seed < 10; seed++ {
			for index := models.FirstIndex; index <= models.LastIndex; index++ {
				p := Generate(level, index, seed)
				if p.Header().Operation != models.OpFraction {
					continue
				}
				found = true
				mp := mathProblem(t, p)
				var num, den int
				_, err := fmt.Sscanf(mp.Expression, "Decimal of %d/%d", &num, &den)
				require.NoError(t, err, mp.Expression)
				assert.InDelta(t, float64(num)/float64(den), mp.Answer, 1e-9)
			}
		}
		assert.True(t, found)
	})
}

func TestPercentage(t *testing.T) {
	level := levelByID(t, 10)
	for seed := int64(0); seed < 5; seed++ {
		for index := models.FirstIndex; index <= models.LastIndex; index++ {
			p := Generate(level, index, seed)
			if p.Header().Operation != models.OpPercentage {
				continue
			}
			mp := mathProblem(t, p)
			var pct, total int
			_, err := fmt.Sscanf(mp.Expression, "%d%% of %d", &pct, &total)
			require.NoError(t, err, mp.Expression)
			assert.Contains(t, percentages, pct)
			assert.Zero(t, total%40)
			assert.InDelta(t, float64(pct*total)/100, mp.Answer, 1e-9)
		}
	}
}

func TestOrderOfOperations(t *testing.T) {
	level := levelByID(t, 28)
	for index := 71; index <= models.LastIndex; index++ {
		mp := mathProblem(t, Generate(level, index, 0))
		require.Equal(t, models.OpOrderOfOperations, mp.Operation)
		var a, b, c int
		_, err := fmt.Sscanf(mp.Expression, "(%d + %d) × %d", &a, &b, &c)
		require.NoError(t, err, mp.Expression)
		assert.Equal(t, float64((a+b)*c), mp.Answer)
	}
}

func TestEmptyOperationsFallBackToAddition(t *testing.T) {
	level := models.LevelConfig{
		ID:         50,
		DigitRange: [2]int{3, 3},
		Stages:     []models.StageConfig{{Name: "Empty", Range: [2]int{1, 100}}},
	}
	for index := models.FirstIndex; index <= models.LastIndex; index++ {
		mp := mathProblem(t, Generate(level, index, 0))
		assert.Equal(t, models.OpAddition, mp.Operation)
		assert.Equal(t, mp.Operands[0]+mp.Operands[1], mp.Answer)
		assert.LessOrEqual(t, mp.Answer, 18.0)
	}

	assert.NotPanics(t, func() {
		Generate(models.LevelConfig{ID: 51}, 10, 0)
	})
}

func TestEnglishContentCycles(t *testing.T) {
	level := levelByID(t, 31)
	n := len(level.Content)
	require.Positive(t, n)

	for index := models.FirstIndex; index <= models.LastIndex; index++ {
		p := Generate(level, index, 0)
		ep, ok := p.(models.EnglishProblem)
		require.True(t, ok, "expected an english problem, got %T", p)
		row := level.Content[index%n]
		assert.Equal(t, row.Question, ep.Expression)
		assert.Equal(t, row.Answer, ep.Answer)
		assert.Equal(t, models.OpReading, ep.Operation)
	}

	assert.Equal(t, Generate(level, 1, 0).Header().Expression, Generate(level, 1+n, 0).Header().Expression)
}

func TestEnglishWithoutContentFallsBack(t *testing.T) {
	level := models.LevelConfig{
		ID:         60,
		Operations: []models.Operation{models.OpGrammar},
		DigitRange: [2]int{1, 1},
		Stages: []models.StageConfig{
			{Name: "Grammar", Operations: []models.Operation{models.OpGrammar}, Range: [2]int{1, 100}},
		},
	}
	p := Generate(level, 3, 0)
	assert.Equal(t, models.KindMath, p.Kind())
	assert.Equal(t, models.OpAddition, p.Header().Operation)
}
