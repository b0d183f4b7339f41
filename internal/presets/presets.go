// Package presets holds the qualification level table and the unit catalog the
// calculator builds qualifications from.
package presets

import (
	"bytes"
	"cmp"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mind-engage/btec-grade-calculator/internal/grading"
)

//go:embed levels.yaml
var embedded []byte

var ErrUnknownLevel = errors.New("unknown qualification level")

// CatalogUnit is a unit as published in the qualification handbook, before a level
// decides whether it is mandatory.
type CatalogUnit struct {
	Number  int    `yaml:"number" json:"number"`
	Title   string `yaml:"title" json:"title"`
	GLH     int    `yaml:"glh" json:"glh"`
	Credits int    `yaml:"credits,omitempty" json:"credits"` // defaults to GLH
}

type Structure struct {
	TotalUnits         int `yaml:"total_units" json:"total_units"`
	MandatoryUnits     int `yaml:"mandatory_units" json:"mandatory_units"`
	ExternalUnits      int `yaml:"external_units" json:"external_units"`
	MandatoryContent   int `yaml:"mandatory_content" json:"mandatory_content"`     // percent
	ExternalAssessment int `yaml:"external_assessment" json:"external_assessment"` // percent
}

type MandatoryRef struct {
	Unit     int  `yaml:"unit"`
	External bool `yaml:"external,omitempty"`
}

// Level is one qualification size with its credit thresholds.
type Level struct {
	Key                        string         `yaml:"key" json:"key"`
	Name                       string         `yaml:"name" json:"name"`
	Qualification              string         `yaml:"qualification" json:"qualification"`
	TotalCredits               int            `yaml:"total_credits" json:"total_credits"`
	RequiredPassCredits        int            `yaml:"required_pass_credits" json:"required_pass_credits"`
	RequiredMeritCredits       int            `yaml:"required_merit_credits" json:"required_merit_credits"`
	RequiredDistinctionCredits int            `yaml:"required_distinction_credits" json:"required_distinction_credits"`
	GLH                        int            `yaml:"glh" json:"glh"`
	TQT                        int            `yaml:"tqt" json:"tqt"`
	Structure                  Structure      `yaml:"structure" json:"structure"`
	Description                string         `yaml:"description" json:"description"`
	Mandatory                  []MandatoryRef `yaml:"mandatory" json:"-"`
	Optional                   []int          `yaml:"optional" json:"-"`
}

// Table is the immutable set of levels for one catalog. Build it with Load.
type Table struct {
	Code   string
	Name   string
	units  map[int]CatalogUnit
	levels []Level
	byKey  map[string]int
}

type document struct {
	Code   string        `yaml:"code"`
	Name   string        `yaml:"name"`
	Units  []CatalogUnit `yaml:"units"`
	Levels []Level       `yaml:"levels"`
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the table compiled into the binary. It is parsed once.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Load(bytes.NewReader(embedded))
	})
	return defaultTable, defaultErr
}

// LoadFile reads a table from path, or returns Default when path is empty.
func LoadFile(path string) (*Table, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open presets %q: %w", path, err)
	}
	defer f.Close()
	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("presets %q: %w", path, err)
	}
	return t, nil
}

// Load parses and checks a YAML preset document.
func Load(r io.Reader) (*Table, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	if doc.Code == "" {
		return nil, errors.New("presets: code is required")
	}

	t := &Table{
		Code:  doc.Code,
		Name:  doc.Name,
		units: make(map[int]CatalogUnit, len(doc.Units)),
		byKey: make(map[string]int, len(doc.Levels)),
	}
	for _, u := range doc.Units {
		if u.Number <= 0 {
			return nil, fmt.Errorf("unit %q: number must be positive", u.Title)
		}
		if _, dup := t.units[u.Number]; dup {
			return nil, fmt.Errorf("duplicate unit number: %d", u.Number)
		}
		if u.Credits == 0 {
			u.Credits = u.GLH
		}
		if u.Credits <= 0 {
			return nil, fmt.Errorf("unit %d: credits must be positive", u.Number)
		}
		t.units[u.Number] = u
	}
	for _, lv := range doc.Levels {
		if err := t.checkLevel(lv); err != nil {
			return nil, err
		}
		if _, dup := t.byKey[lv.Key]; dup {
			return nil, fmt.Errorf("duplicate level key: %s", lv.Key)
		}
		t.byKey[lv.Key] = len(t.levels)
		t.levels = append(t.levels, lv)
	}
	if len(t.levels) == 0 {
		return nil, errors.New("presets: no levels defined")
	}
	return t, nil
}

func (t *Table) checkLevel(lv Level) error {
	if lv.Key == "" {
		return errors.New("level.key is required")
	}
	if lv.RequiredPassCredits < 0 ||
		lv.RequiredPassCredits > lv.RequiredMeritCredits ||
		lv.RequiredMeritCredits > lv.RequiredDistinctionCredits ||
		lv.RequiredDistinctionCredits > lv.TotalCredits {
		return fmt.Errorf("level %s: thresholds must satisfy 0 <= pass <= merit <= distinction <= total", lv.Key)
	}
	seen := map[int]bool{}
	external := 0
	for _, m := range lv.Mandatory {
		if _, ok := t.units[m.Unit]; !ok {
			return fmt.Errorf("level %s: unknown mandatory unit %d", lv.Key, m.Unit)
		}
		if seen[m.Unit] {
			return fmt.Errorf("level %s: unit %d listed twice", lv.Key, m.Unit)
		}
		seen[m.Unit] = true
		if m.External {
			external++
		}
	}
	for _, n := range lv.Optional {
		if _, ok := t.units[n]; !ok {
			return fmt.Errorf("level %s: unknown optional unit %d", lv.Key, n)
		}
		if seen[n] {
			return fmt.Errorf("level %s: unit %d listed twice", lv.Key, n)
		}
		seen[n] = true
	}
	if len(lv.Mandatory) != lv.Structure.MandatoryUnits {
		return fmt.Errorf("level %s: %d mandatory units listed, structure declares %d",
			lv.Key, len(lv.Mandatory), lv.Structure.MandatoryUnits)
	}
	if external != lv.Structure.ExternalUnits {
		return fmt.Errorf("level %s: %d external units listed, structure declares %d",
			lv.Key, external, lv.Structure.ExternalUnits)
	}
	return nil
}

// Levels returns the levels in display order.
func (t *Table) Levels() []Level {
	return append([]Level(nil), t.levels...)
}

func (t *Table) Lookup(key string) (Level, bool) {
	i, ok := t.byKey[key]
	if !ok {
		return Level{}, false
	}
	return t.levels[i], true
}

// UnitByNumber returns a catalog unit by its published number.
func (t *Table) UnitByNumber(n int) (CatalogUnit, bool) {
	u, ok := t.units[n]
	return u, ok
}

// UnitID is the stable identifier of catalog unit n. The same unit has the same
// id at every level.
func (t *Table) UnitID(n int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:"+t.Code+":unit:"+strconv.Itoa(n))).String()
}

// NewQualification builds an ungraded qualification for the level: its
// thresholds, its mandatory units and its optional pool, ordered by unit number.
func (t *Table) NewQualification(key string) (grading.Qualification, error) {
	lv, ok := t.Lookup(key)
	if !ok {
		return grading.Qualification{}, fmt.Errorf("%w: %s", ErrUnknownLevel, key)
	}
	q := grading.Qualification{
		Name:                       lv.Qualification,
		Level:                      lv.Key,
		TotalCredits:               lv.TotalCredits,
		RequiredPassCredits:        lv.RequiredPassCredits,
		RequiredMeritCredits:       lv.RequiredMeritCredits,
		RequiredDistinctionCredits: lv.RequiredDistinctionCredits,
		Units:                      make([]grading.Unit, 0, len(lv.Mandatory)+len(lv.Optional)),
	}
	for _, m := range lv.Mandatory {
		q.Units = append(q.Units, t.unit(m.Unit, true, m.External))
	}
	for _, n := range lv.Optional {
		q.Units = append(q.Units, t.unit(n, false, false))
	}
	slices.SortStableFunc(q.Units, func(a, b grading.Unit) int { return cmp.Compare(a.Number, b.Number) })
	if err := grading.Validate(q); err != nil {
		return grading.Qualification{}, fmt.Errorf("level %s: %w", key, err)
	}
	return q, nil
}

func (t *Table) unit(n int, mandatory, external bool) grading.Unit {
	cu := t.units[n]
	return grading.Unit{
		ID:          t.UnitID(n),
		Number:      cu.Number,
		Title:       cu.Title,
		Size:        cu.GLH,
		IsMandatory: mandatory,
		IsExternal:  external,
		Credits:     cu.Credits,
	}
}
