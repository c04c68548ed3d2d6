// Package quality is the data-quality side-channel: coverage gaps found while
// building derived tables are collected here and written alongside the
// outputs, instead of being silently imputed or fatally aborting the run.
package quality

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Kind classifies a data-quality warning.
type Kind string

const (
	// KindNoStation marks a (region, date) with no active station.
	KindNoStation Kind = "no_station"
	// KindMissingSunshine marks an assigned station-date with no sunshine record.
	KindMissingSunshine Kind = "missing_sunshine"
	// KindUnmatchedRegion marks a child whose baseline region matched no region key.
	KindUnmatchedRegion Kind = "unmatched_region"
)

// Warning is one recorded coverage gap.
type Warning struct {
	Kind    Kind   `yaml:"kind"`
	Region  string `yaml:"region,omitempty"`
	Station int    `yaml:"station,omitempty"`
	Date    string `yaml:"date,omitempty"`
	Detail  string `yaml:"detail,omitempty"`
}

// Report is the serialized side-channel for one pipeline stage. The run id is
// a UUIDv5 over the report content, so identical inputs produce byte-identical
// reports.
type Report struct {
	RunID        string            `yaml:"run_id"`
	Stage        string            `yaml:"stage"`
	Assumptions  map[string]string `yaml:"assumptions,omitempty"`
	WarningCount int               `yaml:"warning_count"`
	Warnings     []Warning         `yaml:"warnings,omitempty"`
}

// Reporter accumulates warnings; safe for concurrent use by matcher workers.
type Reporter struct {
	mu          sync.Mutex
	stage       string
	assumptions map[string]string
	warnings    []Warning
}

// NewReporter creates a reporter for a named pipeline stage.
func NewReporter(stage string) *Reporter {
	return &Reporter{stage: stage, assumptions: make(map[string]string)}
}

// Warn records one warning.
func (r *Reporter) Warn(w Warning) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, w)
}

// Assume records a stated modeling assumption so it is visible in output.
func (r *Reporter) Assume(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assumptions[name] = value
}

// Count returns the number of warnings recorded so far.
func (r *Reporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.warnings)
}

var reportNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8") // uuid.NameSpaceURL

// Report builds the deterministic report: warnings sorted, run id derived
// from content.
func (r *Reporter) Report() Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	warnings := make([]Warning, len(r.warnings))
	copy(warnings, r.warnings)
	sort.Slice(warnings, func(i, j int) bool {
		a, b := warnings[i], warnings[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Station != b.Station {
			return a.Station < b.Station
		}
		return a.Detail < b.Detail
	})

	assumptions := make(map[string]string, len(r.assumptions))
	for k, v := range r.assumptions {
		assumptions[k] = v
	}

	seed := r.stage
	for _, w := range warnings {
		seed += fmt.Sprintf("|%s:%s:%d:%s:%s", w.Kind, w.Region, w.Station, w.Date, w.Detail)
	}
	return Report{
		RunID:        uuid.NewSHA1(reportNamespace, []byte(seed)).String(),
		Stage:        r.stage,
		Assumptions:  assumptions,
		WarningCount: len(warnings),
		Warnings:     warnings,
	}
}

// WriteYAML writes the report next to the stage's tabular outputs.
func (r *Reporter) WriteYAML(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "quality: mkdir for %s", path)
	}
	data, err := yaml.Marshal(r.Report())
	if err != nil {
		return eris.Wrap(err, "quality: marshal report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "quality: write %s", path)
	}
	return nil
}
