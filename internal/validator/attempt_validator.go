package validator

import (
	"fmt"

	"github.com/SAP-F-2025/learning-gap-service/internal/errors"
	"github.com/SAP-F-2025/learning-gap-service/internal/models"
)

// AttemptValidator enforces business rules on ingested dataset rows that
// struct tags cannot express: cross-row duplicates and field relationships.
type AttemptValidator struct{}

func NewAttemptValidator() *AttemptValidator {
	return &AttemptValidator{}
}

// Validate checks every row and returns the accumulated errors. Row indices
// in error fields are 1-based to match spreadsheet row numbering.
func (v *AttemptValidator) Validate(attempts []models.Attempt) errors.ValidationErrors {
	var errs errors.ValidationErrors

	seen := make(map[string]int, len(attempts))
	for i, a := range attempts {
		row := i + 1

		if a.StudentID == "" {
			errs = append(errs, *errors.NewValidationError(
				fmt.Sprintf("row %d: student_id", row), "is required", nil))
		}
		if a.QuestionID == "" {
			errs = append(errs, *errors.NewValidationError(
				fmt.Sprintf("row %d: question_id", row), "is required", nil))
		}
		if a.Topic == "" {
			errs = append(errs, *errors.NewValidationError(
				fmt.Sprintf("row %d: topic", row), "is required", nil))
		}
		if a.TimeTaken < 0 {
			errs = append(errs, *errors.NewValidationError(
				fmt.Sprintf("row %d: time_taken", row), "must be a non-negative number of seconds", a.TimeTaken))
		}
		if a.AttemptNumber < 0 {
			errs = append(errs, *errors.NewValidationError(
				fmt.Sprintf("row %d: attempt_number", row), "must not be negative", a.AttemptNumber))
		}

		key := fmt.Sprintf("%s|%s|%d", a.StudentID, a.QuestionID, a.AttemptNumber)
		if prev, ok := seen[key]; ok {
			errs = append(errs, *errors.NewValidationError(
				fmt.Sprintf("row %d", row),
				fmt.Sprintf("duplicates row %d (same student, question and attempt number)", prev), nil))
			continue
		}
		seen[key] = row
	}

	return errs
}
