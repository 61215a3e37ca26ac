package batch

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"warebots/sim"
)

// Aggregate holds the rate and distribution statistics. It is embedded in
// Summary and written standalone as the "aggregate" block of
// batch_summary.json.
type Aggregate struct {
	Robot0Wins   int     `json:"robot0_wins"`
	Robot1Wins   int     `json:"robot1_wins"`
	Draws        int     `json:"draws"`
	WinRate0     float64 `json:"win_rate_0"`
	WinRate1     float64 `json:"win_rate_1"`
	DrawRate     float64 `json:"draw_rate"`
	MeanCredits0 float64 `json:"mean_credits_0"`
	MeanCredits1 float64 `json:"mean_credits_1"`
	P25Credits0  float64 `json:"p25_credits_0"`
	P75Credits0  float64 `json:"p75_credits_0"`
	P25Credits1  float64 `json:"p25_credits_1"`
	P75Credits1  float64 `json:"p75_credits_1"`
	MeanSteps    float64 `json:"mean_steps"`
	TimeoutRate0 float64 `json:"timeout_rate_0"`
	TimeoutRate1 float64 `json:"timeout_rate_1"`
	ErrorRate    float64 `json:"error_rate"`
}

// Summary aggregates a batch. Win and credit statistics cover only
// completed games; timeout and error rates cover every game that ran.
type Summary struct {
	Agent0       string `json:"agent0"`
	Agent1       string `json:"agent1"`
	NumGames     int    `json:"num_games"`
	NumCompleted int    `json:"num_completed"`
	NumErrors    int    `json:"num_errors"`
	Aggregate
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	k := float64(len(sorted)-1) * pct / 100.0
	f := int(k)
	c := f + 1
	if c > len(sorted)-1 {
		c = len(sorted) - 1
	}
	return sorted[f] + (k-float64(f))*(sorted[c]-sorted[f])
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// ComputeSummary aggregates the per-game results of a batch.
func ComputeSummary(c Config, results []sim.Result) Summary {
	var completed []sim.Result
	for _, r := range results {
		if r.Error == "" {
			completed = append(completed, r)
		}
	}
	n := float64(len(completed))
	if n == 0 {
		n = 1
	}
	total := float64(len(results))
	if total == 0 {
		total = 1
	}

	credits0 := make([]float64, 0, len(completed))
	credits1 := make([]float64, 0, len(completed))
	var wins0, wins1, draws, stepSum int
	for _, r := range completed {
		credits0 = append(credits0, float64(r.FinalCredits[0]))
		credits1 = append(credits1, float64(r.FinalCredits[1]))
		stepSum += r.StepsTaken
		switch r.Winner {
		case 0:
			wins0++
		case 1:
			wins1++
		default:
			draws++
		}
	}
	sort.Float64s(credits0)
	sort.Float64s(credits1)

	var timeouts0, timeouts1 int
	for _, r := range results {
		if r.TimeoutFlags[0] {
			timeouts0++
		}
		if r.TimeoutFlags[1] {
			timeouts1++
		}
	}

	return Summary{
		Agent0:       c.Agent0,
		Agent1:       c.Agent1,
		NumGames:     len(results),
		NumCompleted: len(completed),
		NumErrors:    len(results) - len(completed),
		Aggregate: Aggregate{
			Robot0Wins:   wins0,
			Robot1Wins:   wins1,
			Draws:        draws,
			WinRate0:     round(float64(wins0)/n, 4),
			WinRate1:     round(float64(wins1)/n, 4),
			DrawRate:     round(float64(draws)/n, 4),
			MeanCredits0: round(sum(credits0)/n, 2),
			MeanCredits1: round(sum(credits1)/n, 2),
			P25Credits0:  round(percentile(credits0, 25), 2),
			P75Credits0:  round(percentile(credits0, 75), 2),
			P25Credits1:  round(percentile(credits1, 25), 2),
			P75Credits1:  round(percentile(credits1, 75), 2),
			MeanSteps:    round(float64(stepSum)/n, 2),
			TimeoutRate0: round(float64(timeouts0)/total, 4),
			TimeoutRate1: round(float64(timeouts1)/total, 4),
			ErrorRate:    round(float64(len(results)-len(completed))/total, 4),
		},
	}
}

func sum(vs []float64) float64 {
	var total float64
	for _, v := range vs {
		total += v
	}
	return total
}

// PrintSummary writes the human-readable end-of-batch block.
func PrintSummary(w io.Writer, s Summary) {
	rule := func(ch string) string {
		return strings.Repeat(ch, 50)
	}
	pct := func(rate float64) string {
		return fmt.Sprintf("%.1f%%", rate*100)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule("="))
	fmt.Fprintf(w, "  Batch Results: %s vs %s\n", s.Agent0, s.Agent1)
	fmt.Fprintln(w, rule("="))
	fmt.Fprintf(w, "  Games played:    %d\n", s.NumGames)
	fmt.Fprintf(w, "  Games completed: %d\n", s.NumCompleted)
	fmt.Fprintf(w, "  Errors:          %d\n", s.NumErrors)
	fmt.Fprintln(w, rule("-"))
	fmt.Fprintf(w, "  Robot 0 wins:    %d  (%s)\n", s.Robot0Wins, pct(s.WinRate0))
	fmt.Fprintf(w, "  Robot 1 wins:    %d  (%s)\n", s.Robot1Wins, pct(s.WinRate1))
	fmt.Fprintf(w, "  Draws:           %d  (%s)\n", s.Draws, pct(s.DrawRate))
	fmt.Fprintln(w, rule("-"))
	fmt.Fprintf(w, "  Mean credits 0:  %g  (p25=%g, p75=%g)\n", s.MeanCredits0, s.P25Credits0, s.P75Credits0)
	fmt.Fprintf(w, "  Mean credits 1:  %g  (p25=%g, p75=%g)\n", s.MeanCredits1, s.P25Credits1, s.P75Credits1)
	fmt.Fprintf(w, "  Mean steps:      %g\n", s.MeanSteps)
	fmt.Fprintf(w, "  Timeout rate 0:  %s\n", pct(s.TimeoutRate0))
	fmt.Fprintf(w, "  Timeout rate 1:  %s\n", pct(s.TimeoutRate1))
	fmt.Fprintf(w, "  Error rate:      %s\n", pct(s.ErrorRate))
	fmt.Fprintln(w, rule("="))
}
