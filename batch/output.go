package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"warebots/sim"
)

type manifest struct {
	CreatedAt     string         `json:"created_at"`
	Command       string         `json:"command"`
	Configuration manifestConfig `json:"configuration"`
	SeedSequence  []int64        `json:"seed_sequence"`
	SeedSource    string         `json:"seed_source"`
	Environment   manifestEnv    `json:"environment"`
}

type manifestConfig struct {
	Agent0          string  `json:"agent0"`
	Agent1          string  `json:"agent1"`
	NumGames        int     `json:"num_games"`
	TimeLimit       float64 `json:"time_limit"`
	CountSteps      int     `json:"count_steps"`
	FailFast        bool    `json:"fail_fast"`
	LogSamplingRate int     `json:"log_sampling_rate"`
	CSVOutput       bool    `json:"csv_output"`
}

type manifestEnv struct {
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Machine   string `json:"machine"`
}

// writeManifest records the full batch configuration and seed sequence
// before any game runs, so an interrupted batch is still reproducible.
func writeManifest(c Config, seeds []int64) error {
	command := c.Command
	if command == "" {
		command = "warebots batch"
	}
	seedSource := fmt.Sprintf("sequential_from:%d", seeds[0])
	if c.SeedFile != "" {
		seedSource = "file:" + c.SeedFile
	}
	m := manifest{
		CreatedAt: time.Now().Format(time.RFC3339),
		Command:   command,
		Configuration: manifestConfig{
			Agent0:          c.Agent0,
			Agent1:          c.Agent1,
			NumGames:        len(seeds),
			TimeLimit:       c.TimeLimit.Seconds(),
			CountSteps:      c.CountSteps,
			FailFast:        c.FailFast,
			LogSamplingRate: c.LogSampling,
			CSVOutput:       c.CSV,
		},
		SeedSequence: seeds,
		SeedSource:   seedSource,
		Environment: manifestEnv{
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS,
			Machine:   runtime.GOARCH,
		},
	}
	return writeJSONFile(filepath.Join(c.OutputDir, "batch_manifest.json"), m)
}

type summaryMetadata struct {
	Timestamp            string  `json:"timestamp"`
	Agent0               string  `json:"agent0"`
	Agent1               string  `json:"agent1"`
	NumGamesRequested    int     `json:"num_games_requested"`
	NumGamesCompleted    int     `json:"num_games_completed"`
	TotalWallTimeSeconds float64 `json:"total_wall_time_seconds"`
}

type summaryFile struct {
	Metadata  summaryMetadata `json:"metadata"`
	Aggregate Aggregate       `json:"aggregate"`
	PerGame   []sim.Result    `json:"per_game"`
}

func writeJSONSummary(c Config, s Summary, results []sim.Result, wallTime time.Duration) error {
	out := summaryFile{
		Metadata: summaryMetadata{
			Timestamp:            time.Now().Format(time.RFC3339),
			Agent0:               s.Agent0,
			Agent1:               s.Agent1,
			NumGamesRequested:    s.NumGames,
			NumGamesCompleted:    s.NumCompleted,
			TotalWallTimeSeconds: round(wallTime.Seconds(), 2),
		},
		Aggregate: s.Aggregate,
		PerGame:   results,
	}
	return writeJSONFile(filepath.Join(c.OutputDir, "batch_summary.json"), out)
}

func writeCSV(c Config, results []sim.Result) error {
	f, err := os.Create(filepath.Join(c.OutputDir, "batch_per_game.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"game_index", "seed", "winner", "credits_0", "credits_1",
		"steps_taken", "timeout_0", "timeout_1", "error",
		"error_phase", "wall_time_seconds",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, r := range results {
		winner := strconv.Itoa(r.Winner)
		switch {
		case r.Error != "":
			winner = "error"
		case r.Winner == sim.Draw:
			winner = "draw"
		}
		row := []string{
			strconv.Itoa(i),
			strconv.FormatInt(r.Seed, 10),
			winner,
			strconv.Itoa(r.FinalCredits[0]),
			strconv.Itoa(r.FinalCredits[1]),
			strconv.Itoa(r.StepsTaken),
			strconv.FormatBool(r.TimeoutFlags[0]),
			strconv.FormatBool(r.TimeoutFlags[1]),
			r.Error,
			r.ErrorPhase,
			strconv.FormatFloat(r.WallTime, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
