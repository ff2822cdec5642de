package rpc

import (
	"context"
	"time"

	"github.com/Mohsinsiddi/namcli/internal/chain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Pinger measures one endpoint: latency and latest block height.
type Pinger func(ctx context.Context, url string) (time.Duration, uint64, error)

// RESTPing pings a Cosmos REST endpoint via its latest block.
func RESTPing(ctx context.Context, url string) (time.Duration, uint64, error) {
	return chain.NewRESTClient(url).Ping(ctx)
}

// BenchmarkResult holds the result of a single endpoint benchmark.
type BenchmarkResult struct {
	URL     string
	Latency time.Duration
	Height  uint64
	Err     error
}

// Benchmark pings all URLs in parallel. Results keep the order of urls.
func Benchmark(ctx context.Context, urls []string, ping Pinger) []BenchmarkResult {
	results := make([]BenchmarkResult, len(urls))
	var eg errgroup.Group
	for i, u := range urls {
		eg.Go(func() error {
			latency, height, err := ping(ctx, u)
			results[i] = BenchmarkResult{URL: u, Latency: latency, Height: height, Err: err}
			return nil
		})
	}
	eg.Wait() //nolint:errcheck
	return results
}

// ResultsToEndpoints converts benchmark results to picker Endpoints, all
// marked Checked.
func ResultsToEndpoints(results []BenchmarkResult) []Endpoint {
	endpoints := make([]Endpoint, 0, len(results))
	for _, r := range results {
		endpoints = append(endpoints, Endpoint{
			URL:     r.URL,
			Latency: r.Latency,
			Height:  r.Height,
			Healthy: r.Err == nil,
			Checked: true,
		})
	}
	return endpoints
}

// Best benchmarks urls and returns the winner under algo.
func Best(ctx context.Context, urls []string, algo Algorithm, ping Pinger, logger zerolog.Logger) (string, error) {
	if len(urls) == 1 {
		return urls[0], nil
	}

	results := Benchmark(ctx, urls, ping)
	for _, r := range results {
		ev := logger.Debug().Str("url", r.URL).Dur("latency", r.Latency).Uint64("height", r.Height)
		if r.Err != nil {
			ev = ev.Err(r.Err)
		}
		ev.Msg("benchmarked endpoint")
	}

	winner, err := NewPicker(algo).Pick(ResultsToEndpoints(results))
	if err != nil {
		return "", err
	}
	return winner.URL, nil
}

// BestREST picks among Cosmos REST endpoints.
func BestREST(ctx context.Context, urls []string, algo Algorithm, logger zerolog.Logger) (string, error) {
	return Best(ctx, urls, algo, RESTPing, logger)
}
