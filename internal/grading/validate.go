package grading

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidQualification = errors.New("invalid qualification")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks what Aggregate assumes: positive unit credits,
// unique non-empty unit ids, known grades and Pass <= Merit <= Distinction <= Total.
// Units graded D, M or P may not carry more credits than TotalCredits.
func Validate(q Qualification) error {
	var problems []string
	if err := structValidator().Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidQualification, err)
		}
		for _, fe := range verrs {
			problems = append(problems, describe(fe))
		}
	}
	graded := 0
	for _, u := range q.Units {
		g, ok := u.Grade.Get()
		switch {
		case !ok, g == Ungraded:
		case !g.Valid():
			problems = append(problems, fmt.Sprintf("unit %s: unknown grade %q", u.ID, string(g)))
		default:
			graded += u.Credits
		}
	}
	if graded > q.TotalCredits {
		problems = append(problems, fmt.Sprintf("graded units carry %d credits, more than the qualification total of %d",
			graded, q.TotalCredits))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidQualification, strings.Join(problems, "; "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Qualification.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	case "unique":
		return field + " must have unique ids"
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}
