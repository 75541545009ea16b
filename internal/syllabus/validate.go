package syllabus

import (
	"errors"
	"fmt"

	"abacusisland/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or nil func
	_ = v.RegisterValidation("operation", func(fl validator.FieldLevel) bool {
		return models.Operation(fl.Field().String()).Valid()
	})
	return v
}

// ValidatePath checks struct constraints, id uniqueness and every level
func ValidatePath(p Path) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("syllabus %q: %w", p.Name, err)
	}

	var errs []error
	seen := make(map[int]bool, len(p.Levels))
	for _, level := range p.Levels {
		if seen[level.ID] {
			errs = append(errs, fmt.Errorf("duplicate level id %d", level.ID))
		}
		seen[level.ID] = true
		if err := ValidateLevel(level); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("syllabus %q: %w", p.Name, errors.Join(errs...))
	}
	return nil
}

// ValidateLevel checks the constraints a single level must satisfy
func ValidateLevel(level models.LevelConfig) error {
	var errs []error
	prefix := fmt.Sprintf("level %d", level.ID)

	lo, hi := level.DigitRange[0], level.DigitRange[1]
	if lo < 1 || hi < lo || hi > 9 {
		errs = append(errs, fmt.Errorf("%s: digit range [%d,%d] must satisfy 1 <= min <= max <= 9", prefix, lo, hi))
	}
	if r := level.SqrtRange; r != [2]int{} && (r[0] < 1 || r[1] < r[0]) {
		errs = append(errs, fmt.Errorf("%s: invalid square root range [%d,%d]", prefix, r[0], r[1]))
	}

	needsContent := false
	for _, stage := range level.Stages {
		if len(stage.Operations) == 0 {
			errs = append(errs, fmt.Errorf("%s: stage %q has no operations", prefix, stage.Name))
		}
		for _, op := range stage.Operations {
			if !level.HasOperation(op) {
				errs = append(errs, fmt.Errorf("%s: stage %q uses %s which the level does not allow", prefix, stage.Name, op))
			}
			if !op.IsArithmetic() {
				needsContent = true
			}
		}
	}
	if needsContent && len(level.Content) == 0 {
		errs = append(errs, fmt.Errorf("%s: english stages need content", prefix))
	}

	if err := CheckPartition(level.Stages); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
	}
	return errors.Join(errs...)
}

// CheckPartition verifies the stage ranges cover 1..100 exactly once
func CheckPartition(stages []models.StageConfig) error {
	var counts [models.LastIndex + 1]int
	for _, stage := range stages {
		start, end := stage.Range[0], stage.Range[1]
		if start < models.FirstIndex || end > models.LastIndex || start > end {
			return fmt.Errorf("stage %q has invalid range [%d,%d]", stage.Name, start, end)
		}
		for i := start; i <= end; i++ {
			counts[i]++
		}
	}
	for i := models.FirstIndex; i <= models.LastIndex; i++ {
		switch {
		case counts[i] == 0:
			return fmt.Errorf("index %d is not covered by any stage", i)
		case counts[i] > 1:
			return fmt.Errorf("index %d is covered by %d stages", i, counts[i])
		}
	}
	return nil
}
