package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mind-engage/btec-grade-calculator/internal/config"
	"github.com/mind-engage/btec-grade-calculator/internal/grading"
	"github.com/mind-engage/btec-grade-calculator/internal/presets"
	"github.com/mind-engage/btec-grade-calculator/internal/sheet"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "gradecalc:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("gradecalc", flag.ContinueOnError)
	sheetPath := fs.String("sheet", "-", "grade sheet (YAML or JSON); - reads stdin")
	level := fs.String("level", "", "qualification level key; overrides the sheet")
	presetsPath := fs.String("presets", cfg.PresetsFile, "preset table YAML (default: built in)")
	listLevels := fs.Bool("levels", false, "list qualification levels and exit")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lvl := cfg.LogLevel
	if *verbose {
		lvl = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	tbl, err := presets.LoadFile(*presetsPath)
	if err != nil {
		return err
	}
	if *listLevels {
		return sheet.WriteLevels(stdout, tbl)
	}

	in := stdin
	if *sheetPath != "-" {
		f, err := os.Open(*sheetPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	s, err := sheet.Parse(in)
	if err != nil {
		return err
	}
	if *level == "" && s.Level == "" {
		*level = cfg.DefaultLevel
	}

	q, err := s.Qualification(tbl, *level)
	if err != nil {
		return err
	}
	lv, _ := tbl.Lookup(q.Level)
	res := grading.Aggregate(q)
	log.Debug("calculated", slog.String("level", q.Level), slog.Int("graded", len(s.Grades)),
		slog.String("overall", string(res.OverallGrade)))

	return sheet.WriteReport(stdout, lv, q, res)
}
