package grading

import (
	"errors"
	"fmt"
)

var ErrUnknownUnit = errors.New("unknown unit")

// Unit is one assessable component of a qualification.
type Unit struct {
	ID          string `json:"id" validate:"required"`
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Size        int    `json:"size"`
	IsMandatory bool   `json:"is_mandatory"`
	IsExternal  bool   `json:"is_external"`
	Credits     int    `json:"credits" validate:"gt=0"`
	Grade       Award  `json:"grade"`
}

// Qualification is a set of units plus the credit thresholds of its level.
type Qualification struct {
	Name                       string `json:"name"`
	Level                      string `json:"level,omitempty"`
	TotalCredits               int    `json:"total_credits" validate:"gte=0"`
	RequiredPassCredits        int    `json:"required_pass_credits" validate:"gte=0,ltefield=RequiredMeritCredits"`
	RequiredMeritCredits       int    `json:"required_merit_credits" validate:"gte=0,ltefield=RequiredDistinctionCredits"`
	RequiredDistinctionCredits int    `json:"required_distinction_credits" validate:"gte=0,ltefield=TotalCredits"`
	Units                      []Unit `json:"units" validate:"unique=ID,dive"`
}

// Unit returns the unit with the given id.
func (q *Qualification) Unit(id string) (Unit, bool) {
	for _, u := range q.Units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// SetGrade records (or clears, with NotGraded) the grade of a single unit.
func (q *Qualification) SetGrade(unitID string, a Award) error {
	if g, ok := a.Get(); ok && !g.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidGrade, string(g))
	}
	for i := range q.Units {
		if q.Units[i].ID == unitID {
			q.Units[i].Grade = a
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownUnit, unitID)
}

// Clone returns a copy whose unit slice can be graded independently.
func (q Qualification) Clone() Qualification {
	out := q
	out.Units = append([]Unit(nil), q.Units...)
	return out
}

func (q *Qualification) MandatoryUnits() []Unit {
	return q.filter(func(u Unit) bool { return u.IsMandatory })
}

func (q *Qualification) OptionalUnits() []Unit {
	return q.filter(func(u Unit) bool { return !u.IsMandatory })
}

func (q *Qualification) filter(keep func(Unit) bool) []Unit {
	out := make([]Unit, 0, len(q.Units))
	for _, u := range q.Units {
		if keep(u) {
			out = append(out, u)
		}
	}
	return out
}

// GradeResult is the outcome of one Aggregate run.
type GradeResult struct {
	OverallGrade           Grade `json:"overall_grade"`
	TotalCredits           int   `json:"total_credits"`
	PassCredits            int   `json:"pass_credits"`
	MeritCredits           int   `json:"merit_credits"`
	DistinctionCredits     int   `json:"distinction_credits"`
	MandatoryUnitsComplete bool  `json:"mandatory_units_complete"`
	ExternalUnitsComplete  bool  `json:"external_units_complete"`
}
