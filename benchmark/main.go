// Package main provides a performance benchmarking tool for the gradedash CLI.
// It generates synthetic classes of different sizes, serves them over a local
// HTTP server and measures the dashboard and students commands without a cache,
// with a cold document cache and with warm (offline) cache hits.
//
// Prerequisites:
// - gradedash binary installed and available in PATH
//
// Usage: go run benchmark/main.go [runs]
//
//	runs: Number of runs per phase (default 4)
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/wctc-net-database/gradedash/schema"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Class       string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// ClassSize describes one synthetic class.
type ClassSize struct {
	Name        string
	Students    int
	Assignments int
	Snapshots   int // history snapshots per assignment
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout time.Duration
	Runs    int
	Classes []ClassSize
}

func main() {
	runs := 4
	if len(os.Args) == 2 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil || n < 2 {
			fmt.Printf("Usage: %s [runs >= 2]\n", os.Args[0])
			os.Exit(1)
		}
		runs = n
	}

	config := BenchmarkConfig{
		Timeout: 2 * time.Minute,
		Runs:    runs,
		Classes: []ClassSize{
			{Name: "section", Students: 25, Assignments: 8, Snapshots: 10},
			{Name: "course", Students: 120, Assignments: 14, Snapshots: 30},
			{Name: "program", Students: 600, Assignments: 14, Snapshots: 60},
		},
	}

	if _, err := exec.LookPath("gradedash"); err != nil {
		fmt.Printf("Prerequisites check failed: gradedash binary not found in PATH\n")
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks executes all benchmark tests across the configured classes.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d classes, %v timeout, %d runs per phase\n",
		len(config.Classes), config.Timeout, config.Runs)

	for _, class := range config.Classes {
		dir, err := os.MkdirTemp("", "gradedash-bench-"+class.Name+"-*")
		if err != nil {
			return nil, err
		}
		if err := writeClass(dir, class); err != nil {
			_ = os.RemoveAll(dir)
			return nil, err
		}

		server := httptest.NewServer(http.FileServer(http.Dir(dir)))
		fmt.Printf("Benchmarking %s (%d students, %d assignments) at %s\n", class.Name, class.Students, class.Assignments, server.URL)

		for _, command := range []string{"dashboard", "students"} {
			results = append(results, runBenchmarkSuite(config, class.Name, server.URL, dir, command))
		}

		server.Close()
		_ = os.RemoveAll(dir)
	}

	return results, nil
}

// runBenchmarkSuite runs the no-cache phase, then one cold cached run followed by warm offline runs.
func runBenchmarkSuite(config BenchmarkConfig, class, dataURL, workDir, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, class)
	cacheDB := filepath.Join(workDir, "bench-cache.db")
	_ = os.Remove(cacheDB)

	noCache := timeRuns(config, command, config.Runs, []string{"--data", dataURL, "--cache-backend", "none"})

	cold := timeRuns(config, command, 1, []string{"--data", dataURL, "--cache-backend", "sqlite", "--cache-db-connect", cacheDB})
	warm := timeRuns(config, command, config.Runs-1, []string{"--data", dataURL, "--cache-backend", "sqlite", "--cache-db-connect", cacheDB, "--offline"})

	result := BenchmarkResult{
		Class:       class,
		Command:     command,
		NoCacheTime: average(noCache),
		ColdTime:    average(cold),
		WarmTime:    average(warm),
	}
	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", result.NoCacheTime, result.ColdTime, result.WarmTime)
	return result
}

// timeRuns executes a gradedash command numRuns times and returns the successful durations in seconds.
func timeRuns(config BenchmarkConfig, command string, numRuns int, extraArgs []string) []float64 {
	args := append([]string{command, "--credit-backend", "none", "--output", "text", "--color", "no"}, extraArgs...)

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("gradedash", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}
	return times
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	if command == "dashboard" {
		return strings.Contains(outputStr, "Rendered in")
	}
	return strings.Contains(outputStr, "student(s) in")
}

func average(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// writeClass writes current.json and history.json for a synthetic class.
func writeClass(dir string, class ClassSize) error {
	base := time.Date(2024, 9, 2, 9, 0, 0, 0, time.UTC)

	current := schema.CurrentDocument{Generated: schema.TimestampOf(base.AddDate(0, 4, 0))}
	var history schema.HistoryDocument

	for a := range class.Assignments {
		assignment := fmt.Sprintf("w%d", a+1)
		for s := range class.Students {
			current.Students = append(current.Students, syntheticEntry(s, a, assignment, base.AddDate(0, 0, 7*a+s%5)))
		}
		for snap := range class.Snapshots {
			date := base.AddDate(0, 0, 7*a).Add(time.Duration(snap) * 6 * time.Hour)
			entries := make([]schema.StudentSubmissionEntry, 0, class.Students)
			for s := range class.Students {
				entries = append(entries, syntheticEntry(s, a+snap, "", date))
			}
			history.Snapshots = append(history.Snapshots, schema.HistorySnapshot{
				Date:       schema.TimestampOf(date),
				Assignment: assignment,
				Students:   entries,
			})
		}
	}

	if err := writeJSONFile(filepath.Join(dir, "current.json"), current); err != nil {
		return err
	}
	return writeJSONFile(filepath.Join(dir, "history.json"), history)
}

// syntheticEntry derives a deterministic submission from the student and a seed.
func syntheticEntry(student, seed int, assignment string, at time.Time) schema.StudentSubmissionEntry {
	status := schema.BuildSuccess
	if (student+seed)%7 == 0 {
		status = schema.BuildFailure
	}
	return schema.StudentSubmissionEntry{
		Name:           fmt.Sprintf("Student %03d", student),
		Assignment:     assignment,
		Repo:           fmt.Sprintf("%s-student-%03d", assignment, student),
		Build:          &schema.BuildInfo{Status: status},
		TodoCount:      (student * seed) % 4,
		EstimatedScore: schema.Ptr(50 + (student*13+seed*7)%51),
		NeedsReview:    schema.Ptr((student+seed)%11 == 0),
		SubmittedAt:    schema.TimestampOf(at),
		LastPush:       schema.TimestampOf(at),
	}
}

func writeJSONFile(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("gradedash_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"class", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Class, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"dashboard", "students"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-10s: No-cache: %s, Cold: %s, Warm: %s\n", result.Class, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
