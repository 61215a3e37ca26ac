package sim

import (
	"context"
	"strings"
	"testing"
	"time"

	"warebots/game"
	"warebots/rules"
)

type scriptedAgent struct {
	op string
}

func (a scriptedAgent) RunStep(s *game.State, robotID int, _ time.Duration) string {
	if a.op != "" {
		return a.op
	}
	return rules.LegalOperators(s, robotID)[0]
}

type sleepyAgent struct {
	sleep time.Duration
}

func (a sleepyAgent) RunStep(s *game.State, robotID int, _ time.Duration) string {
	time.Sleep(a.sleep)
	return rules.LegalOperators(s, robotID)[0]
}

type panickyAgent struct{}

func (panickyAgent) RunStep(*game.State, int, time.Duration) string {
	panic("boom")
}

func TestExecuteStep_ReturnsAgentMove(t *testing.T) {
	s := game.Generate(1, 40)
	want := rules.LegalOperators(s, 0)[0]

	step := ExecuteStep(context.Background(), scriptedAgent{}, s, 0, 100*time.Millisecond)
	if step.Err != nil || step.TimedOut {
		t.Fatalf("step=%+v want clean result", step)
	}
	if step.Operator != want {
		t.Fatalf("operator=%q want=%q", step.Operator, want)
	}
}

func TestExecuteStep_AgentSeesAClone(t *testing.T) {
	s := game.Generate(1, 40)
	before := s.String()

	mutator := agentFunc(func(clone *game.State, robotID int) string {
		op := rules.LegalOperators(clone, robotID)[0]
		rules.ApplyOperator(clone, robotID, op)
		clone.Robots[robotID].Credit = 999
		return op
	})

	ExecuteStep(context.Background(), mutator, s, 0, 100*time.Millisecond)
	if s.String() != before {
		t.Fatalf("agent mutation leaked into the live state:\nbefore:\n%s\nafter:\n%s", before, s.String())
	}
}

type agentFunc func(s *game.State, robotID int) string

func (f agentFunc) RunStep(s *game.State, robotID int, _ time.Duration) string {
	return f(s, robotID)
}

func TestExecuteStep_TimeoutForfeits(t *testing.T) {
	s := game.Generate(1, 40)

	step := ExecuteStep(context.Background(), sleepyAgent{sleep: 5 * time.Second}, s, 0, 50*time.Millisecond)
	if !step.TimedOut {
		t.Fatalf("step=%+v want timeout", step)
	}
	if step.Operator != "" {
		t.Fatalf("timed-out step still carries operator %q", step.Operator)
	}
}

func TestExecuteStep_PanicBecomesError(t *testing.T) {
	s := game.Generate(1, 40)

	step := ExecuteStep(context.Background(), panickyAgent{}, s, 0, 100*time.Millisecond)
	if step.Err == nil || !strings.Contains(step.Err.Error(), "boom") {
		t.Fatalf("step=%+v want panic error", step)
	}
}

func TestDetermineWinner(t *testing.T) {
	cases := []struct {
		balances [2]int
		want     int
	}{
		{[2]int{5, 3}, 0},
		{[2]int{-2, 0}, 1},
		{[2]int{4, 4}, Draw},
		{[2]int{0, 0}, Draw},
	}
	for _, c := range cases {
		if got := DetermineWinner(c.balances); got != c.want {
			t.Fatalf("DetermineWinner(%v)=%d want=%d", c.balances, got, c.want)
		}
	}
}

func TestSimulator_RunsToCompletion(t *testing.T) {
	simulator, err := New("greedy", "greedy", 5, 10, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var turns int
	result := simulator.Run(context.Background(), func(round, robotID int, agentName, op string, s *game.State) {
		turns++
		if agentName != "greedy" {
			t.Fatalf("agent name=%q want=greedy", agentName)
		}
		if op == "" {
			t.Fatalf("empty operator in turn callback")
		}
	})

	if result.Error != "" {
		t.Fatalf("unexpected error: %s (%s)", result.Error, result.ErrorPhase)
	}
	if result.StepsTaken != 20 || turns != 20 {
		t.Fatalf("steps=%d callbacks=%d want 20 each", result.StepsTaken, turns)
	}
	if result.FinalCredits != simulator.Env.Balances() {
		t.Fatalf("result credits=%v env=%v", result.FinalCredits, simulator.Env.Balances())
	}
	if want := DetermineWinner(result.FinalCredits); result.Winner != want {
		t.Fatalf("winner=%d want=%d", result.Winner, want)
	}
	if simulator.Env.StepsLeft != 0 {
		t.Fatalf("env steps left=%d want=0", simulator.Env.StepsLeft)
	}
}

func TestSimulator_SameSeedSameOutcome(t *testing.T) {
	run := func() Result {
		simulator, err := New("greedy", "greedyImproved", 9, 8, time.Second)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		return simulator.Run(context.Background(), nil)
	}

	a, b := run(), run()
	if a.FinalCredits != b.FinalCredits || a.Winner != b.Winner || a.StepsTaken != b.StepsTaken {
		t.Fatalf("deterministic agents diverged:\n%+v\nvs\n%+v", a, b)
	}
}

func TestSimulator_RejectsUnknownAgent(t *testing.T) {
	if _, err := New("greedy", "no-such-agent", 1, 10, time.Second); err == nil {
		t.Fatalf("expected unknown-agent error")
	}
}

func TestSimulator_InvalidConfig(t *testing.T) {
	if _, err := New("greedy", "greedy", 1, 0, time.Second); err == nil {
		t.Fatalf("expected count-steps error")
	}
	if _, err := New("greedy", "greedy", 1, 10, 0); err == nil {
		t.Fatalf("expected time-limit error")
	}
}
