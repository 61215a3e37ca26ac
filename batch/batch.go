// Package batch runs many games between two agents and aggregates the
// results: win rates, credit distributions, timeout and error rates. Games
// are dispatched across a bounded worker pool; every run writes a manifest
// and a JSON summary, optionally per-game CSV and sampled full game logs.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"warebots/agents"
	"warebots/sim"
)

// Defaults for the batch CLI.
const (
	DefaultNumGames   = 100
	DefaultTimeLimit  = sim.DefaultTimeLimit
	DefaultCountSteps = sim.DefaultCountSteps
)

// Config holds every batch parameter. The zero value is not runnable; use
// the CLI defaults or fill all required fields and call Validate.
type Config struct {
	Agent0     string
	Agent1     string
	NumGames   int
	TimeLimit  time.Duration
	CountSteps int
	SeedStart  int64
	SeedFile   string // one seed per line, overrides SeedStart
	OutputDir  string
	// LogSampling saves a full game log for 1 out of every N games
	// (0 disables sampling).
	LogSampling int
	FailFast    bool
	CSV         bool
	Workers     int
	Command     string // invocation recorded in the manifest
}

func (c *Config) Validate() error {
	for _, name := range []string{c.Agent0, c.Agent1} {
		if !agents.Known(name) {
			return fmt.Errorf("unknown agent %q (valid: %s)", name, strings.Join(agents.Names, ", "))
		}
	}
	if c.NumGames <= 0 {
		return fmt.Errorf("num games must be positive, got %d", c.NumGames)
	}
	if c.TimeLimit <= 0 {
		return fmt.Errorf("time limit must be positive, got %s", c.TimeLimit)
	}
	if c.CountSteps <= 0 {
		return fmt.Errorf("count steps must be positive, got %d", c.CountSteps)
	}
	if c.LogSampling < 0 {
		return fmt.Errorf("log sampling must be non-negative, got %d", c.LogSampling)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}

// ResolveSeeds determines the per-game seed list: the seed file when
// given, else NumGames sequential seeds from SeedStart (randomized when
// SeedStart is zero).
func ResolveSeeds(c Config) ([]int64, error) {
	if c.SeedFile != "" {
		f, err := os.Open(c.SeedFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		var seeds []int64
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			seed, err := strconv.ParseInt(line, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("seed file %s: %w", c.SeedFile, err)
			}
			seeds = append(seeds, seed)
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		if len(seeds) == 0 {
			return nil, fmt.Errorf("seed file %s is empty", c.SeedFile)
		}
		return seeds, nil
	}

	start := c.SeedStart
	if start == 0 {
		start = rand.Int63n(256)
	}
	seeds := make([]int64, c.NumGames)
	for i := range seeds {
		seeds[i] = start + int64(i)
	}
	return seeds, nil
}

// Progress is reported after each completed game.
type Progress struct {
	GameIndex int
	Completed int
	Total     int
	Result    sim.Result
}

// Run executes the batch and writes all outputs under c.OutputDir.
// onProgress may be nil; it is called from the collector goroutine, one
// game at a time.
func Run(ctx context.Context, c Config, onProgress func(Progress)) (Summary, []sim.Result, error) {
	if err := c.Validate(); err != nil {
		return Summary{}, nil, err
	}
	seeds, err := ResolveSeeds(c)
	if err != nil {
		return Summary{}, nil, err
	}

	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return Summary{}, nil, fmt.Errorf("create output dir: %w", err)
	}
	if err := writeManifest(c, seeds); err != nil {
		return Summary{}, nil, err
	}

	workers := c.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(seeds) {
		workers = len(seeds)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	type indexed struct {
		index  int
		result sim.Result
	}
	resultCh := make(chan indexed)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res := runGame(runCtx, c, i, seeds[i])
				select {
				case resultCh <- indexed{index: i, result: res}:
				case <-runCtx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range seeds {
			select {
			case jobs <- i:
			case <-runCtx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	start := time.Now()
	results := make([]sim.Result, len(seeds))
	ran := make([]bool, len(seeds))
	completed := 0
	for r := range resultCh {
		results[r.index] = r.result
		ran[r.index] = true
		completed++
		if onProgress != nil {
			onProgress(Progress{
				GameIndex: r.index,
				Completed: completed,
				Total:     len(seeds),
				Result:    r.result,
			})
		}
		if c.FailFast && r.result.Error != "" {
			cancel()
			break
		}
	}
	wallTime := time.Since(start)

	// Drop slots for games that never ran (fail-fast or cancellation).
	final := make([]sim.Result, 0, len(seeds))
	for i, ok := range ran {
		if ok {
			final = append(final, results[i])
		}
	}

	summary := ComputeSummary(c, final)
	if err := writeJSONSummary(c, summary, final, wallTime); err != nil {
		return summary, final, err
	}
	if c.CSV {
		if err := writeCSV(c, final); err != nil {
			return summary, final, err
		}
	}

	if err := ctx.Err(); err != nil {
		return summary, final, err
	}
	return summary, final, nil
}
