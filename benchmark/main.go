// Package main provides a performance benchmarking tool for the report
// query executor. It runs the worker pool against a synthetic metrics
// backend with configurable latency across fleet sizes and worker counts,
// comparing cold and warm cache phases, and writes CSV output for
// performance analysis and documentation.
//
// Usage: go run benchmark/main.go
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/fleetwatch/slireport/core"
	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/fleetwatch/slireport/internal/iocache"
	"github.com/fleetwatch/slireport/schema"
)

// BenchmarkResult holds the result of one benchmark scenario.
type BenchmarkResult struct {
	Clusters int
	Rules    int
	Workers  int
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	FleetSizes   []int
	RuleCounts   []int
	WorkerCounts []int
	QueryLatency time.Duration
	WarmRuns     int
}

// syntheticMetrics fakes a metrics backend with a fixed per-query latency.
type syntheticMetrics struct {
	latency time.Duration
}

func (m *syntheticMetrics) Query(ctx context.Context, _ string, _ time.Time) (float64, bool, error) {
	select {
	case <-time.After(m.latency):
	case <-ctx.Done():
		return 0, false, ctx.Err()
	}
	return 0.99 + rand.Float64()/100, false, nil
}

func main() {
	config := BenchmarkConfig{
		FleetSizes:   []int{10, 50, 200},
		RuleCounts:   []int{3, 10},
		WorkerCounts: []int{1, 4, 16},
		QueryLatency: 20 * time.Millisecond,
		WarmRuns:     3,
	}

	// Use a throwaway SQLite cache so warm runs hit real cache reads
	tempDir, err := os.MkdirTemp("", "slireport-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	dbPath := filepath.Join(tempDir, "bench_cache.db")
	if err := iocache.InitCaching(schema.SQLiteBackend, dbPath); err != nil {
		fmt.Printf("Failed to initialize cache: %v\n", err)
		os.Exit(1)
	}
	defer iocache.CloseCaching()

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks executes all benchmark scenarios.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: fleets %v, rules %v, workers %v, latency %v\n",
		config.FleetSizes, config.RuleCounts, config.WorkerCounts, config.QueryLatency)

	for _, fleet := range config.FleetSizes {
		for _, ruleCount := range config.RuleCounts {
			clusters := makeClusters(fleet)
			rules := makeRules(ruleCount)

			jobs, err := core.BuildQueryPlan(rules, clusters, schema.GlobalVars{"range": "28d"})
			if err != nil {
				fmt.Printf("Failed to build query plan: %v\n", err)
				os.Exit(1)
			}

			for _, workers := range config.WorkerCounts {
				result := runScenario(config, jobs, fleet, ruleCount, workers)
				results = append(results, result)
			}
		}
	}

	return results
}

// runScenario measures one fleet/rules/workers combination. The first run is
// cold; later runs within the same as-of bucket hit the cache.
func runScenario(config BenchmarkConfig, jobs []core.QueryJob, fleet, ruleCount, workers int) BenchmarkResult {
	fmt.Printf("Running %d clusters x %d rules with %d workers (%d jobs)\n",
		fleet, ruleCount, workers, len(jobs))

	cfg := &contract.Config{
		Workers:      workers,
		QueryTimeout: 10 * time.Second,
		Retries:      0,
	}
	metrics := &syntheticMetrics{latency: config.QueryLatency}
	ctx := context.Background()
	asOf := time.Now()

	start := time.Now()
	core.ExecuteQueries(ctx, cfg, metrics, iocache.Manager, jobs, asOf)
	coldTime := time.Since(start)

	var warmTotal time.Duration
	for range config.WarmRuns {
		start = time.Now()
		core.ExecuteQueries(ctx, cfg, metrics, iocache.Manager, jobs, asOf)
		warmTotal += time.Since(start)
	}
	warmAvg := warmTotal / time.Duration(config.WarmRuns)

	fmt.Printf("  Cold: %v, Warm average: %v\n", coldTime.Round(time.Millisecond), warmAvg.Round(time.Millisecond))

	return BenchmarkResult{
		Clusters: fleet,
		Rules:    ruleCount,
		Workers:  workers,
		ColdTime: fmt.Sprintf("%.3fs", coldTime.Seconds()),
		WarmTime: fmt.Sprintf("%.3fs", warmAvg.Seconds()),
	}
}

// makeClusters builds a synthetic fleet of the given size.
func makeClusters(n int) []schema.Cluster {
	clusters := make([]schema.Cluster, n)
	for i := range clusters {
		clusters[i] = schema.Cluster{
			ID:   fmt.Sprintf("bench-%04d", i),
			Name: fmt.Sprintf("bench-cluster-%04d", i),
		}
	}
	return clusters
}

// makeRules builds synthetic rules with distinct queries.
func makeRules(n int) []schema.Rule {
	rules := make([]schema.Rule, n)
	for i := range rules {
		rules[i] = schema.Rule{
			Name:  fmt.Sprintf("Rule %02d", i),
			Goal:  0.995,
			Query: fmt.Sprintf("avg(probe_%02d{${sel}}[${range}])", i),
		}
	}
	return rules
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/slireport_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"clusters", "rules", "workers", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{
			fmt.Sprintf("%d", result.Clusters),
			fmt.Sprintf("%d", result.Rules),
			fmt.Sprintf("%d", result.Workers),
			result.ColdTime,
			result.WarmTime,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %4d clusters x %2d rules, %2d workers: Cold: %s, Warm: %s\n",
			result.Clusters, result.Rules, result.Workers, result.ColdTime, result.WarmTime)
	}
}
