package grading

// Aggregate computes the overall grade of q in a single pass over its units.
//
// Credits cascade downwards: a Distinction counts towards the Merit and Pass
// tallies too. A unit with a recorded grade, U included, is treated as complete,
// but only D, M and P add credits. An ungraded mandatory or external unit forces
// an overall U whatever the tallies are.
//
// Aggregate does not validate q and never modifies it.
func Aggregate(q Qualification) GradeResult {
	r := GradeResult{
		MandatoryUnitsComplete: true,
		ExternalUnitsComplete:  true,
	}

	for _, u := range q.Units {
		g, graded := u.Grade.Get()
		switch {
		case graded:
			switch g {
			case Distinction:
				r.DistinctionCredits += u.Credits
				fallthrough
			case Merit:
				r.MeritCredits += u.Credits
				fallthrough
			case Pass:
				r.PassCredits += u.Credits
				r.TotalCredits += u.Credits
			}
		case u.IsMandatory:
			r.MandatoryUnitsComplete = false
		case u.IsExternal:
			r.ExternalUnitsComplete = false
		}
	}

	r.OverallGrade = Ungraded
	if !r.MandatoryUnitsComplete || !r.ExternalUnitsComplete {
		return r
	}
	switch {
	case r.DistinctionCredits >= q.RequiredDistinctionCredits:
		r.OverallGrade = Distinction
	case r.MeritCredits >= q.RequiredMeritCredits:
		r.OverallGrade = Merit
	case r.PassCredits >= q.RequiredPassCredits:
		r.OverallGrade = Pass
	}
	return r
}
