package sheet

import (
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mind-engage/btec-grade-calculator/internal/grading"
	"github.com/mind-engage/btec-grade-calculator/internal/presets"
)

func printer() *message.Printer { return message.NewPrinter(language.BritishEnglish) }

// WriteReport prints the result of q at level lv.
func WriteReport(w io.Writer, lv presets.Level, q grading.Qualification, r grading.GradeResult) error {
	p := printer()
	p.Fprintf(w, "%s\n", q.Name)
	p.Fprintf(w, "%s: %d GLH, %d TQT\n\n", lv.Name, lv.GLH, lv.TQT)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, t := range grading.Progress(q, r) {
		mark := ""
		if t.Met {
			mark = "ok"
		}
		p.Fprintf(tw, "%s\t%d / %d\t%.0f%%\t%s\n", t.Label, t.Value, t.Target, t.Percent, mark)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if ws := r.Warnings(); len(ws) > 0 {
		io.WriteString(w, "\n")
		for _, msg := range ws {
			p.Fprintf(w, "Warning: %s\n", msg)
		}
	}
	_, err := p.Fprintf(w, "\nOverall grade: %s (%s)\n", r.OverallGrade, r.OverallGrade.Label())
	return err
}

// WriteLevels prints the level table.
func WriteLevels(w io.Writer, tbl *presets.Table) error {
	p := printer()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	p.Fprintf(tw, "KEY\tNAME\tCREDITS\tPASS\tMERIT\tDISTINCTION\tUNITS\n")
	for _, lv := range tbl.Levels() {
		p.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d (%d mandatory, %d external)\n",
			lv.Key, lv.Name, lv.TotalCredits, lv.RequiredPassCredits, lv.RequiredMeritCredits,
			lv.RequiredDistinctionCredits, lv.Structure.TotalUnits, lv.Structure.MandatoryUnits,
			lv.Structure.ExternalUnits)
	}
	return tw.Flush()
}
