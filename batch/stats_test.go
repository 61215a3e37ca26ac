package batch

import (
	"math"
	"strings"
	"testing"
	"time"

	"warebots/sim"
)

func TestPercentile(t *testing.T) {
	cases := []struct {
		sorted []float64
		pct    float64
		want   float64
	}{
		{nil, 50, 0},
		{[]float64{4}, 25, 4},
		{[]float64{1, 2, 3, 4}, 0, 1},
		{[]float64{1, 2, 3, 4}, 100, 4},
		{[]float64{1, 2, 3, 4}, 50, 2.5},
		{[]float64{0, 10}, 25, 2.5},
		{[]float64{0, 10, 20, 30}, 75, 22.5},
	}
	for _, c := range cases {
		if got := percentile(c.sorted, c.pct); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("percentile(%v, %v)=%v want=%v", c.sorted, c.pct, got, c.want)
		}
	}
}

func testConfig() Config {
	return Config{
		Agent0:     "greedy",
		Agent1:     "alphabeta",
		NumGames:   4,
		TimeLimit:  time.Second,
		CountSteps: 10,
	}
}

func TestComputeSummary(t *testing.T) {
	results := []sim.Result{
		{Seed: 1, Winner: 0, FinalCredits: [2]int{6, -6}, StepsTaken: 20},
		{Seed: 2, Winner: 1, FinalCredits: [2]int{-2, 2}, StepsTaken: 20, TimeoutFlags: [2]bool{true, false}},
		{Seed: 3, Winner: sim.Draw, FinalCredits: [2]int{0, 0}, StepsTaken: 18},
		{Seed: 4, Winner: sim.Draw, Error: "agent 1 failed", ErrorPhase: "agent_step"},
	}

	s := ComputeSummary(testConfig(), results)

	if s.NumGames != 4 || s.NumCompleted != 3 || s.NumErrors != 1 {
		t.Fatalf("counts: %+v", s)
	}
	if s.Robot0Wins != 1 || s.Robot1Wins != 1 || s.Draws != 1 {
		t.Fatalf("tallies: %+v", s.Aggregate)
	}
	if s.WinRate0 != 0.3333 || s.DrawRate != 0.3333 {
		t.Fatalf("rates rounded wrong: win0=%v draw=%v", s.WinRate0, s.DrawRate)
	}
	// Errored games are excluded from credit and step statistics.
	if want := round((6.0-2.0+0.0)/3, 2); s.MeanCredits0 != want {
		t.Fatalf("mean credits 0=%v want=%v", s.MeanCredits0, want)
	}
	if want := round(58.0/3, 2); s.MeanSteps != want {
		t.Fatalf("mean steps=%v want=%v", s.MeanSteps, want)
	}
	// Timeout and error rates cover all games that ran.
	if s.TimeoutRate0 != 0.25 || s.TimeoutRate1 != 0 {
		t.Fatalf("timeout rates: %v %v", s.TimeoutRate0, s.TimeoutRate1)
	}
	if s.ErrorRate != 0.25 {
		t.Fatalf("error rate=%v want=0.25", s.ErrorRate)
	}
}

func TestComputeSummary_Empty(t *testing.T) {
	s := ComputeSummary(testConfig(), nil)
	if s.NumGames != 0 || s.WinRate0 != 0 || s.MeanCredits0 != 0 || s.ErrorRate != 0 {
		t.Fatalf("empty summary not zeroed: %+v", s)
	}
}

func TestPrintSummary(t *testing.T) {
	s := ComputeSummary(testConfig(), []sim.Result{
		{Seed: 1, Winner: 0, FinalCredits: [2]int{6, -6}, StepsTaken: 20},
	})

	var b strings.Builder
	PrintSummary(&b, s)
	out := b.String()

	for _, want := range []string{
		"Batch Results: greedy vs alphabeta",
		"Robot 0 wins:    1  (100.0%)",
		"Mean credits 0:  6",
		"Error rate:      0.0%",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	good := testConfig()
	if err := good.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := testConfig()
	bad.Agent1 = "nonsense"
	if err := bad.Validate(); err == nil {
		t.Fatalf("unknown agent accepted")
	}

	bad = testConfig()
	bad.NumGames = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("zero games accepted")
	}

	bad = testConfig()
	bad.LogSampling = -1
	if err := bad.Validate(); err == nil {
		t.Fatalf("negative sampling accepted")
	}
}

func TestResolveSeeds_Sequential(t *testing.T) {
	c := testConfig()
	c.SeedStart = 40

	seeds, err := ResolveSeeds(c)
	if err != nil {
		t.Fatalf("ResolveSeeds: %v", err)
	}
	want := []int64{40, 41, 42, 43}
	if len(seeds) != len(want) {
		t.Fatalf("seeds=%v want=%v", seeds, want)
	}
	for i := range want {
		if seeds[i] != want[i] {
			t.Fatalf("seeds=%v want=%v", seeds, want)
		}
	}
}
