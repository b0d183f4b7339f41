package grading

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Grade is an awarded outcome for a unit or a qualification.
type Grade string

const (
	Distinction Grade = "D"
	Merit       Grade = "M"
	Pass        Grade = "P"
	Ungraded    Grade = "U"
)

var ErrInvalidGrade = errors.New("invalid grade")

// Grades lists the selectable grades, highest first.
var Grades = []Grade{Distinction, Merit, Pass, Ungraded}

func (g Grade) Valid() bool {
	switch g {
	case Distinction, Merit, Pass, Ungraded:
		return true
	}
	return false
}

// Rank orders grades U < P < M < D. Unknown grades rank below U.
func (g Grade) Rank() int {
	switch g {
	case Distinction:
		return 3
	case Merit:
		return 2
	case Pass:
		return 1
	case Ungraded:
		return 0
	}
	return -1
}

func (g Grade) Label() string {
	switch g {
	case Distinction:
		return "Distinction"
	case Merit:
		return "Merit"
	case Pass:
		return "Pass"
	case Ungraded:
		return "Ungraded"
	}
	return string(g)
}

// ParseGrade accepts a grade letter or its full name, in any case.
func ParseGrade(s string) (Grade, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "distinction":
		return Distinction, nil
	case "m", "merit":
		return Merit, nil
	case "p", "pass":
		return Pass, nil
	case "u", "ungraded":
		return Ungraded, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGrade, s)
}

// Award is an optional Grade. The zero value means the unit has not been graded yet,
// which is different from an awarded Ungraded outcome.
type Award struct {
	grade Grade
	set   bool
}

func NotGraded() Award { return Award{} }

func Awarded(g Grade) Award { return Award{grade: g, set: true} }

// Get returns the awarded grade and whether one was recorded.
func (a Award) Get() (Grade, bool) { return a.grade, a.set }

func (a Award) IsSet() bool { return a.set }

func (a Award) String() string {
	if !a.set {
		return "-"
	}
	return string(a.grade)
}

func (a Award) MarshalJSON() ([]byte, error) {
	if !a.set {
		return []byte("null"), nil
	}
	return json.Marshal(string(a.grade))
}

func (a *Award) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*a = NotGraded()
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidGrade, string(b))
	}
	if strings.TrimSpace(s) == "" {
		*a = NotGraded()
		return nil
	}
	g, err := ParseGrade(s)
	if err != nil {
		return err
	}
	*a = Awarded(g)
	return nil
}
