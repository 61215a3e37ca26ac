package batch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	c := Config{
		Agent0:      "greedy",
		Agent1:      "greedy",
		NumGames:    3,
		TimeLimit:   time.Second,
		CountSteps:  5,
		SeedStart:   10,
		OutputDir:   dir,
		LogSampling: 2, // samples games 0 and 2
		CSV:         true,
		Workers:     2,
	}

	var progressCalls int
	summary, results, err := Run(context.Background(), c, func(p Progress) {
		progressCalls++
		if p.Total != 3 {
			t.Fatalf("progress total=%d want=3", p.Total)
		}
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(results) != 3 || progressCalls != 3 {
		t.Fatalf("results=%d progress=%d want 3 each", len(results), progressCalls)
	}
	if summary.NumGames != 3 || summary.NumErrors != 0 {
		t.Fatalf("summary: %+v", summary)
	}
	if summary.Robot0Wins+summary.Robot1Wins+summary.Draws != 3 {
		t.Fatalf("tallies do not cover all games: %+v", summary.Aggregate)
	}

	// Results stay in seed order regardless of worker interleaving.
	for i, r := range results {
		if r.Seed != int64(10+i) {
			t.Fatalf("result %d has seed %d", i, r.Seed)
		}
	}

	for _, name := range []string{"batch_manifest.json", "batch_summary.json", "batch_per_game.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing output %s: %v", name, err)
		}
	}
	for _, name := range []string{"game_0000_seed_10.txt", "game_0002_seed_12.txt"} {
		if _, err := os.Stat(filepath.Join(dir, "game_logs", name)); err != nil {
			t.Fatalf("missing sampled log %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "game_logs", "game_0001_seed_11.txt")); err == nil {
		t.Fatalf("unsampled game 1 was logged")
	}

	raw, err := os.ReadFile(filepath.Join(dir, "batch_manifest.json"))
	if err != nil {
		t.Fatal(err)
	}
	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("manifest not valid JSON: %v", err)
	}
	if m.SeedSource != "sequential_from:10" || len(m.SeedSequence) != 3 {
		t.Fatalf("manifest seeds: %+v", m)
	}
	if m.Configuration.Agent0 != "greedy" || m.Configuration.NumGames != 3 {
		t.Fatalf("manifest config: %+v", m.Configuration)
	}
}

func TestRun_SameSeedsSameAggregate(t *testing.T) {
	run := func() Summary {
		c := Config{
			Agent0:     "greedy",
			Agent1:     "greedyImproved",
			NumGames:   2,
			TimeLimit:  time.Second,
			CountSteps: 5,
			SeedStart:  30,
			OutputDir:  t.TempDir(),
			Workers:    2,
		}
		summary, _, err := Run(context.Background(), c, nil)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return summary
	}

	if a, b := run(), run(); a != b {
		t.Fatalf("same seeds, different aggregates:\n%+v\nvs\n%+v", a, b)
	}
}

func TestResolveSeeds_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeds.txt")
	if err := os.WriteFile(path, []byte("7\n\n13\n21\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := testConfig()
	c.SeedFile = path
	seeds, err := ResolveSeeds(c)
	if err != nil {
		t.Fatalf("ResolveSeeds: %v", err)
	}
	want := []int64{7, 13, 21}
	if len(seeds) != len(want) {
		t.Fatalf("seeds=%v want=%v", seeds, want)
	}
	for i := range want {
		if seeds[i] != want[i] {
			t.Fatalf("seeds=%v want=%v", seeds, want)
		}
	}

	empty := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(empty, []byte("\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c.SeedFile = empty
	if _, err := ResolveSeeds(c); err == nil {
		t.Fatalf("empty seed file accepted")
	}
}
