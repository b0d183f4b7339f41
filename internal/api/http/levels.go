// internal/api/http/levels.go
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mind-engage/btec-grade-calculator/internal/grading"
	"github.com/mind-engage/btec-grade-calculator/internal/presets"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type levelIndex struct {
	Default string          `json:"default,omitempty"`
	Levels  []presets.Level `json:"levels"`
}

type levelForm struct {
	Level         presets.Level         `json:"level"`
	Qualification grading.Qualification `json:"qualification"`
	Mandatory     []grading.Unit        `json:"mandatory"`
	Optional      []grading.Unit        `json:"optional"`
	Grades        []grading.Grade       `json:"grades"`
}

type calculateReq struct {
	Grades map[string]grading.Award `json:"grades" validate:"dive,keys,uuid,endkeys"` // unit id -> grade, null clears
}

type calculateResp struct {
	Qualification grading.Qualification `json:"qualification"`
	Result        grading.GradeResult   `json:"result"`
	Progress      []grading.Tally       `json:"progress"`
	Warnings      []string              `json:"warnings"`
}

// MountLevels serves the level table and grade calculation. Nothing is kept
// between requests: each calculation starts from a fresh preset.
func MountLevels(r chi.Router, tbl *presets.Table, defaultLevel string, log *slog.Logger) {
	// GET /levels
	r.Get("/", ListLevelsHandler(tbl, defaultLevel))
	// GET /levels/{level}
	r.Get("/{level}", GetLevelHandler(tbl))
	// POST /levels/{level}/calculate
	r.Post("/{level}/calculate", CalculateHandler(tbl, log))
}

// ListLevelsHandler lists the levels. The default key is only reported when
// the table has that level.
func ListLevelsHandler(tbl *presets.Table, defaultLevel string) http.HandlerFunc {
	if _, ok := tbl.Lookup(defaultLevel); !ok {
		defaultLevel = ""
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, levelIndex{Default: defaultLevel, Levels: tbl.Levels()})
	}
}

func GetLevelHandler(tbl *presets.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(chi.URLParam(r, "level"))
		lv, ok := tbl.Lookup(key)
		if !ok {
			writeProblem(w, r, http.StatusNotFound, "unknown level: "+key)
			return
		}
		q, err := tbl.NewQualification(key)
		if err != nil {
			writeProblem(w, r, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, levelForm{
			Level:         lv,
			Qualification: q,
			Mandatory:     q.MandatoryUnits(),
			Optional:      q.OptionalUnits(),
			Grades:        grading.Grades,
		})
	}
}

func CalculateHandler(tbl *presets.Table, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(chi.URLParam(r, "level"))
		q, err := tbl.NewQualification(key)
		if err != nil {
			if errors.Is(err, presets.ErrUnknownLevel) {
				writeProblem(w, r, http.StatusNotFound, err.Error())
				return
			}
			writeProblem(w, r, http.StatusInternalServerError, err.Error())
			return
		}

		var req calculateReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, r, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		if err := validate.Struct(req); err != nil {
			writeProblem(w, r, http.StatusBadRequest, "grades must be keyed by unit id: "+err.Error())
			return
		}
		for id, a := range req.Grades {
			if err := q.SetGrade(id, a); err != nil {
				writeProblem(w, r, http.StatusUnprocessableEntity, err.Error())
				return
			}
		}
		if err := grading.Validate(q); err != nil {
			writeProblem(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}

		res := grading.Aggregate(q)
		log.DebugContext(r.Context(), "grade calculated",
			slog.String("level", key),
			slog.Int("graded", len(req.Grades)),
			slog.String("overall", string(res.OverallGrade)))

		warnings := res.Warnings()
		if warnings == nil {
			warnings = []string{}
		}
		writeJSON(w, calculateResp{
			Qualification: q,
			Result:        res,
			Progress:      grading.Progress(q, res),
			Warnings:      warnings,
		})
	}
}
