package metrics

import (
	"testing"
	"time"
)

type testRecorder struct {
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
	buildDurations int
	buildOutcomes  map[BuildOutcome]int
	documents      map[string]int
	clones         int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stageDurations: map[string]int{},
		stageResults:   map[string]map[ResultLabel]int{},
		buildOutcomes:  map[BuildOutcome]int{},
		documents:      map[string]int{},
	}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.stageDurations[stage]++
}
func (t *testRecorder) ObserveBuildDuration(_ time.Duration) { t.buildDurations++ }
func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}
func (t *testRecorder) IncBuildOutcome(outcome BuildOutcome)   { t.buildOutcomes[outcome]++ }
func (t *testRecorder) AddDocuments(stage string, n int)       { t.documents[stage] += n }
func (t *testRecorder) ObserveCloneDuration(time.Duration, bool) { t.clones++ }

func TestRecorderInterfaceSatisfied(t *testing.T) {
	var recs []Recorder
	recs = append(recs, NoopRecorder{}, newTestRecorder(), NewPrometheusRecorder(nil))
	for _, r := range recs {
		r.ObserveStageDuration("render", time.Millisecond)
		r.IncStageResult("render", ResultSuccess)
		r.AddDocuments("render", 2)
		r.IncBuildOutcome(OutcomeSuccess)
		r.ObserveBuildDuration(time.Second)
		r.ObserveCloneDuration(time.Second, true)
	}

	tr := recs[1].(*testRecorder)
	if tr.stageResults["render"][ResultSuccess] != 1 || tr.documents["render"] != 2 || tr.buildOutcomes[OutcomeSuccess] != 1 {
		t.Fatalf("unexpected test recorder state: %+v", tr)
	}
}
