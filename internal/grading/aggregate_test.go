package grading_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/btec-grade-calculator/internal/grading"
)

/* ---------------- fixtures ---------------- */

type unitDef struct {
	credits             int
	mandatory, external bool
	grade               grading.Award
}

func qualification(pass, merit, dist, total int, defs ...unitDef) grading.Qualification {
	q := grading.Qualification{
		Name:                       "test",
		TotalCredits:               total,
		RequiredPassCredits:        pass,
		RequiredMeritCredits:       merit,
		RequiredDistinctionCredits: dist,
	}
	for i, s := range defs {
		q.Units = append(q.Units, grading.Unit{
			ID:          "u" + strconv.Itoa(i+1),
			Number:      i + 1,
			Title:       "Unit " + strconv.Itoa(i+1),
			Size:        s.credits,
			IsMandatory: s.mandatory,
			IsExternal:  s.external,
			Credits:     s.credits,
			Grade:       s.grade,
		})
	}
	return q
}

func extendedDiploma(defs ...unitDef) grading.Qualification {
	return qualification(810, 945, 1080, 1080, defs...)
}

func mandatory(credits int, a grading.Award) unitDef {
	return unitDef{credits: credits, mandatory: true, grade: a}
}

func mandatoryExternal(credits int, a grading.Award) unitDef {
	return unitDef{credits: credits, mandatory: true, external: true, grade: a}
}

func external(credits int, a grading.Award) unitDef {
	return unitDef{credits: credits, external: true, grade: a}
}

func optional(credits int, a grading.Award) unitDef {
	return unitDef{credits: credits, grade: a}
}

var (
	none = grading.NotGraded()
	d    = grading.Awarded(grading.Distinction)
	m    = grading.Awarded(grading.Merit)
	p    = grading.Awarded(grading.Pass)
	u    = grading.Awarded(grading.Ungraded)
)

/* ---------------- scenarios ---------------- */

func TestAggregate_AllUngraded(t *testing.T) {
	q := extendedDiploma(
		mandatory(120, none),
		mandatoryExternal(120, none),
		external(60, none),
		optional(60, none),
	)

	r := grading.Aggregate(q)

	assert.Equal(t, grading.Ungraded, r.OverallGrade)
	assert.Zero(t, r.TotalCredits)
	assert.Zero(t, r.PassCredits)
	assert.Zero(t, r.MeritCredits)
	assert.Zero(t, r.DistinctionCredits)
	assert.False(t, r.MandatoryUnitsComplete)
	assert.False(t, r.ExternalUnitsComplete)
}

func TestAggregate_FullDistinction(t *testing.T) {
	defs := []unitDef{
		mandatoryExternal(120, d),
		mandatoryExternal(120, d),
		mandatoryExternal(120, d),
		mandatoryExternal(120, d),
	}
	for i := 0; i < 5; i++ {
		defs = append(defs, mandatory(120, d))
	}
	for i := 0; i < 6; i++ {
		defs = append(defs, optional(60, none))
	}

	r := grading.Aggregate(extendedDiploma(defs...))

	assert.Equal(t, grading.GradeResult{
		OverallGrade:           grading.Distinction,
		TotalCredits:           1080,
		PassCredits:            1080,
		MeritCredits:           1080,
		DistinctionCredits:     1080,
		MandatoryUnitsComplete: true,
		ExternalUnitsComplete:  true,
	}, r)
}

func TestAggregate_MandatoryMissingForcesU(t *testing.T) {
	defs := []unitDef{
		mandatoryExternal(120, d),
		mandatoryExternal(120, d),
		mandatoryExternal(120, d),
		mandatoryExternal(120, d),
	}
	for i := 0; i < 4; i++ {
		defs = append(defs, mandatory(120, d))
	}
	defs = append(defs, mandatory(120, none))
	// enough optional Distinctions to clear the bar on credits alone
	defs = append(defs, optional(60, d), optional(60, d))

	r := grading.Aggregate(extendedDiploma(defs...))

	require.False(t, r.MandatoryUnitsComplete)
	assert.True(t, r.ExternalUnitsComplete)
	assert.Equal(t, 1080, r.DistinctionCredits)
	assert.Equal(t, grading.Ungraded, r.OverallGrade)
	assert.Equal(t, []string{grading.WarnMandatoryIncomplete}, r.Warnings())
}

func TestAggregate_ExternalMissingForcesU(t *testing.T) {
	q := qualification(100, 150, 200, 200,
		mandatory(200, d),
		external(60, none),
	)

	r := grading.Aggregate(q)

	assert.True(t, r.MandatoryUnitsComplete)
	assert.False(t, r.ExternalUnitsComplete)
	assert.Equal(t, grading.Ungraded, r.OverallGrade)
	assert.Equal(t, []string{grading.WarnExternalIncomplete}, r.Warnings())
}

func TestAggregate_PassAtThreshold(t *testing.T) {
	defs := []unitDef{
		mandatoryExternal(120, p),
		mandatoryExternal(120, p),
		mandatoryExternal(90, p),
	}
	for i := 0; i < 4; i++ {
		defs = append(defs, mandatory(120, p))
	}
	defs = append(defs, optional(60, none))

	r := grading.Aggregate(extendedDiploma(defs...))

	require.Equal(t, 810, r.PassCredits)
	assert.Zero(t, r.MeritCredits)
	assert.Equal(t, grading.Pass, r.OverallGrade)
}

func TestAggregate_ThresholdBoundaries(t *testing.T) {
	tests := []struct {
		name string
		q    grading.Qualification
		want grading.Grade
	}{
		{"distinction exactly met", qualification(10, 20, 30, 30, mandatory(30, d)), grading.Distinction},
		{"distinction one short", qualification(10, 20, 30, 31, mandatory(29, d), optional(2, p)), grading.Merit},
		{"merit exactly met", qualification(10, 20, 30, 30, mandatory(20, m), optional(10, p)), grading.Merit},
		{"pass exactly met", qualification(10, 20, 30, 30, mandatory(10, p)), grading.Pass},
		{"pass one short", qualification(10, 20, 30, 30, mandatory(9, p)), grading.Ungraded},
		{"merit credits cascade into pass", qualification(10, 20, 30, 30, mandatory(15, m)), grading.Pass},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, grading.Aggregate(tc.q).OverallGrade)
		})
	}
}

func TestAggregate_CreditCascade(t *testing.T) {
	q := qualification(0, 0, 1000, 1000,
		mandatory(90, d),
		mandatory(60, m),
		mandatory(30, p),
	)

	r := grading.Aggregate(q)

	assert.Equal(t, 180, r.TotalCredits)
	assert.Equal(t, 180, r.PassCredits)
	assert.Equal(t, 150, r.MeritCredits)
	assert.Equal(t, 90, r.DistinctionCredits)
	assert.Equal(t, grading.Merit, r.OverallGrade)
}

func TestAggregate_AwardedUngradedCountsAsComplete(t *testing.T) {
	q := qualification(60, 120, 180, 180,
		mandatoryExternal(60, u),
		external(60, u),
		mandatory(60, p),
	)

	r := grading.Aggregate(q)

	assert.True(t, r.MandatoryUnitsComplete)
	assert.True(t, r.ExternalUnitsComplete)
	assert.Equal(t, 60, r.TotalCredits, "U earns no credits")
	assert.Equal(t, 60, r.PassCredits)
	assert.Equal(t, grading.Pass, r.OverallGrade)
	assert.Empty(t, r.Warnings())
}

func TestAggregate_UngradedMandatoryExternalOnlyClearsMandatoryFlag(t *testing.T) {
	q := qualification(0, 0, 0, 120, mandatoryExternal(120, none))

	r := grading.Aggregate(q)

	assert.False(t, r.MandatoryUnitsComplete)
	assert.True(t, r.ExternalUnitsComplete)
	assert.Equal(t, grading.Ungraded, r.OverallGrade)
}

func TestAggregate_OptionalUngradedHasNoEffect(t *testing.T) {
	q := qualification(60, 60, 60, 120, mandatory(60, d), optional(60, none))

	r := grading.Aggregate(q)

	assert.True(t, r.MandatoryUnitsComplete)
	assert.True(t, r.ExternalUnitsComplete)
	assert.Equal(t, 60, r.TotalCredits)
	assert.Equal(t, grading.Distinction, r.OverallGrade)
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	q := extendedDiploma(mandatory(120, d), optional(60, none))
	before := q.Clone()

	_ = grading.Aggregate(q)

	assert.Equal(t, before, q)
}
