// Package sheet reads learner grade sheets and prints calculation reports for
// the command-line calculator.
package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mind-engage/btec-grade-calculator/internal/grading"
	"github.com/mind-engage/btec-grade-calculator/internal/presets"
)

// Sheet is a learner's grades keyed by published unit number. JSON input is
// accepted too, since it is valid YAML.
//
//	level: extendedDiploma
//	grades:
//	  1: D
//	  2: merit
//	  8: U
type Sheet struct {
	Level  string            `yaml:"level"`
	Grades map[string]string `yaml:"grades"`
}

func Parse(r io.Reader) (Sheet, error) {
	var s Sheet
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		if err == io.EOF {
			return Sheet{}, nil
		}
		return Sheet{}, fmt.Errorf("parse sheet: %w", err)
	}
	return s, nil
}

// Qualification builds the sheet's level from tbl and applies its grades. A
// non-empty level overrides the one in the sheet. Blank or "-" grades leave the
// unit not graded. The graded units must fit within the level's total credits.
func (s Sheet) Qualification(tbl *presets.Table, level string) (grading.Qualification, error) {
	if level == "" {
		level = s.Level
	}
	q, err := tbl.NewQualification(level)
	if err != nil {
		return grading.Qualification{}, err
	}
	for key, raw := range s.Grades {
		n, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return grading.Qualification{}, fmt.Errorf("grades: unit number %q: %w", key, err)
		}
		raw = strings.TrimSpace(raw)
		a := grading.NotGraded()
		if raw != "" && raw != "-" {
			g, err := grading.ParseGrade(raw)
			if err != nil {
				return grading.Qualification{}, fmt.Errorf("unit %d: %w", n, err)
			}
			a = grading.Awarded(g)
		}
		if _, ok := tbl.UnitByNumber(n); !ok {
			return grading.Qualification{}, fmt.Errorf("unit %d is not in the %s catalog: %w", n, tbl.Code, grading.ErrUnknownUnit)
		}
		if err := q.SetGrade(tbl.UnitID(n), a); err != nil {
			return grading.Qualification{}, fmt.Errorf("unit %d is not part of %s: %w", n, level, grading.ErrUnknownUnit)
		}
	}
	if err := grading.Validate(q); err != nil {
		return grading.Qualification{}, err
	}
	return q, nil
}
