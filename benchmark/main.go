// Package main measures testhealth scan times across a set of local repositories.
// Each repository is scanned with the metadata cache disabled and then with a
// fresh SQLite cache, where the first run is cold and the rest are warm.
// Results are written to a CSV file for comparison between releases.
//
// Prerequisites:
// - testhealth binary installed and available in PATH
// - Test repositories cloned to the specified base directory
// - Git repositories: jest, pytest, react, vitest
//
// Usage: go run benchmark/main.go [repo-base-dir]
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the timings of one repository.
type BenchmarkResult struct {
	Repository  string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase    string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	TestRepos   []string
	Excludes    map[string]string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:    os.Args[1],
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		TestRepos:   []string{"jest", "pytest", "react", "vitest"},
		Excludes: map[string]string{
			"jest":   "node_modules/,e2e/__tests__/",
			"react":  "node_modules/,fixtures/",
			"vitest": "node_modules/",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	workDir, err := os.MkdirTemp("", "testhealth-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create work directory: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	results := make([]BenchmarkResult, 0, len(config.TestRepos))
	for _, repo := range config.TestRepos {
		results = append(results, benchmarkRepo(config, repo, workDir))
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}
	printSummary(results)
}

// checkPrerequisites verifies that the testhealth binary and test repositories exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("testhealth"); err != nil {
		return errors.New("testhealth binary not found in PATH")
	}
	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}
	return nil
}

// benchmarkRepo runs the no-cache and cache phases for one repository.
func benchmarkRepo(config BenchmarkConfig, repo, workDir string) BenchmarkResult {
	fmt.Printf("Benchmarking %s\n", repo)
	repoPath := filepath.Join(config.RepoBase, repo)

	noCache := runScans(config, repo, repoPath, workDir, "none", config.NoCacheRuns)

	// Every repository starts from an empty cache
	cacheDB := filepath.Join(workDir, repo+".cache.db")
	_ = os.Remove(cacheDB)
	cached := runScans(config, repo, repoPath, workDir, cacheDB, config.CacheRuns)

	result := BenchmarkResult{
		Repository:  repo,
		NoCacheTime: average(noCache),
		ColdTime:    "TIMEOUT",
		WarmTime:    "TIMEOUT",
	}
	if len(cached) > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", cached[0])
		result.WarmTime = average(cached[1:])
	}
	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n",
		result.NoCacheTime, result.ColdTime, result.WarmTime)
	return result
}

// runScans scans repoPath numRuns times and returns the durations of the
// successful runs in seconds. cacheDB "none" disables the metadata cache.
func runScans(config BenchmarkConfig, repo, repoPath, workDir, cacheDB string, numRuns int) []float64 {
	args := []string{
		"scan", repoPath,
		"--output", "table",
		"--json-file", filepath.Join(workDir, repo+".json"),
		"--report-file", filepath.Join(workDir, repo+".txt"),
	}
	if cacheDB == "none" {
		args = append(args, "--cache-backend", "none")
	} else {
		args = append(args, "--cache-backend", "sqlite", "--cache-db-connect", cacheDB)
	}
	if ex, ok := config.Excludes[repo]; ok {
		args = append(args, "--exclude", ex)
	}

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "testhealth", args...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil && strings.Contains(string(output), "Analysis completed in") {
			times = append(times, elapsed)
		}
	}
	return times
}

// average formats the mean of times, or TIMEOUT when nothing succeeded.
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

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	filename := fmt.Sprintf("/tmp/testhealth_benchmark_%s.csv", time.Now().Format("20060102_150405"))

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
	if err := writer.Write([]string{"repo", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Repository, r.NoCacheTime, r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, r := range results {
		fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", r.Repository, r.NoCacheTime, r.ColdTime, r.WarmTime)
	}
}
