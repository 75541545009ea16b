package models

// Problem indices run from FirstIndex to LastIndex within every level
const (
	FirstIndex = 1
	LastIndex  = 100
)

// MultiplicationTier controls operand magnitudes for integer multiplication
type MultiplicationTier string

const (
	MulBasic        MultiplicationTier = "basic"        // 2 digits x 2..9
	MulIntermediate MultiplicationTier = "intermediate" // 2 digits x 1 or 2 digits
	MulAdvanced     MultiplicationTier = "advanced"     // 3 digits x 3 digits
)

// DivisionTier controls the divisor size for integer division
type DivisionTier string

const (
	DivBasic    DivisionTier = "basic"    // single digit divisor
	DivAdvanced DivisionTier = "advanced" // two digit divisor
)

// StageConfig is a contiguous slice of a level's practice indices
type StageConfig struct {
	Name        string      `yaml:"name" json:"name" validate:"required"`
	Operations  []Operation `yaml:"operations" json:"operations" validate:"dive,operation"`
	Range       [2]int      `yaml:"range" json:"range"`
	Description string      `yaml:"description" json:"description"`
}

// Contains reports whether index falls inside the stage range (inclusive)
func (s StageConfig) Contains(index int) bool {
	return index >= s.Range[0] && index <= s.Range[1]
}

// Size returns the number of indices covered by the stage
func (s StageConfig) Size() int {
	if s.Range[1] < s.Range[0] {
		return 0
	}
	return s.Range[1] - s.Range[0] + 1
}

// EnglishContent is one question of a non-arithmetic level
type EnglishContent struct {
	Question string   `yaml:"question" json:"question" validate:"required"`
	Answer   string   `yaml:"answer" json:"answer" validate:"required"`
	Hint     string   `yaml:"hint,omitempty" json:"hint,omitempty"`
	Options  []string `yaml:"options,omitempty" json:"options,omitempty"`
}

// LevelConfig describes one island of a syllabus
type LevelConfig struct {
	ID            int         `yaml:"id" json:"id" validate:"gt=0"`
	Label         string      `yaml:"label" json:"label,omitempty"`
	Title         string      `yaml:"title" json:"title" validate:"required"`
	AbacusDesc    string      `yaml:"abacus_desc" json:"abacusDesc"`
	MentalDesc    string      `yaml:"mental_desc" json:"mentalDesc"`
	Operations    []Operation `yaml:"operations" json:"operations" validate:"min=1,dive,operation"`
	DigitRange    [2]int      `yaml:"digit_range" json:"digitRange"`
	DecimalPlaces int         `yaml:"decimal_places" json:"decimalPlaces" validate:"gte=0,lte=6"`
	AllowNegative bool        `yaml:"allow_negative" json:"allowNegative"`

	MultiplicationTier MultiplicationTier `yaml:"multiplication_tier,omitempty" json:"multiplicationTier,omitempty" validate:"omitempty,oneof=basic intermediate advanced"`
	DivisionTier       DivisionTier       `yaml:"division_tier,omitempty" json:"divisionTier,omitempty" validate:"omitempty,oneof=basic advanced"`
	SqrtRange          [2]int             `yaml:"sqrt_range,omitempty" json:"sqrtRange,omitempty"`
	// FractionDecimal asks for the decimal value of a fraction instead of a fraction of a total
	FractionDecimal bool `yaml:"fraction_decimal,omitempty" json:"fractionDecimal,omitempty"`

	Content []EnglishContent `yaml:"content,omitempty" json:"-" validate:"dive"`
	Stages  []StageConfig    `yaml:"stages" json:"stages" validate:"min=1,dive"`
}

// StageIndexFor returns the position of the stage containing index, or -1
func (l LevelConfig) StageIndexFor(index int) int {
	for i, s := range l.Stages {
		if s.Contains(index) {
			return i
		}
	}
	return -1
}

// HasOperation reports whether op is allowed anywhere in the level
func (l LevelConfig) HasOperation(op Operation) bool {
	for _, o := range l.Operations {
		if o == op {
			return true
		}
	}
	return false
}
