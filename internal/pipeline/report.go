package pipeline

import (
	"time"

	"git.home.luguber.info/inful/markupdown/internal/linkcheck"
	"git.home.luguber.info/inful/markupdown/internal/metrics"
	"git.home.luguber.info/inful/markupdown/internal/site"
)

// StageReport is the outcome of one stage.
type StageReport struct {
	Name      string
	Duration  time.Duration
	Documents int
	Skipped   bool
	Err       error
}

// Report summarizes a build. It is kept in memory only.
type Report struct {
	BuildID   string
	Outcome   metrics.BuildOutcome
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Stages      []StageReport
	Staged      []string
	Assets      []string
	Rendered    int
	Nav         []site.NavEntry
	BrokenLinks []linkcheck.Broken

	// SiteDir is the workspace; OutputDir receives the pages.
	SiteDir   string
	OutputDir string
}

// Stage returns the report of the named stage.
func (r *Report) Stage(name string) (StageReport, bool) {
	for _, s := range r.Stages {
		if s.Name == name {
			return s, true
		}
	}
	return StageReport{}, false
}

func (r *Report) finish(outcome metrics.BuildOutcome) {
	r.Outcome = outcome
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}
