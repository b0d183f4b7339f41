package grading

const (
	WarnMandatoryIncomplete = "not all mandatory units are complete"
	WarnExternalIncomplete  = "not all external units are complete"
)

// Tally is one credit total measured against the qualification's target for it.
type Tally struct {
	Label   string  `json:"label"`
	Value   int     `json:"value"`
	Target  int     `json:"target"`
	Percent float64 `json:"percent"`
	Met     bool    `json:"met"`
}

// Progress lays out r against the targets of q, in display order.
func Progress(q Qualification, r GradeResult) []Tally {
	return []Tally{
		tally("Total Credits", r.TotalCredits, q.TotalCredits),
		tally("Pass Credits", r.PassCredits, q.RequiredPassCredits),
		tally("Merit Credits", r.MeritCredits, q.RequiredMeritCredits),
		tally("Distinction Credits", r.DistinctionCredits, q.RequiredDistinctionCredits),
	}
}

func tally(label string, value, target int) Tally {
	t := Tally{Label: label, Value: value, Target: target, Met: value >= target}
	if target > 0 {
		t.Percent = float64(value) / float64(target) * 100
		if t.Percent > 100 {
			t.Percent = 100
		}
	}
	return t
}

// Warnings lists the completeness problems that forced or may force a U.
func (r GradeResult) Warnings() []string {
	var out []string
	if !r.MandatoryUnitsComplete {
		out = append(out, WarnMandatoryIncomplete)
	}
	if !r.ExternalUnitsComplete {
		out = append(out, WarnExternalIncomplete)
	}
	return out
}
