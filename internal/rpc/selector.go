package rpc

import (
	"context"

	"github.com/rs/zerolog"
)

// SelectBest picks the best REST URL using the named algorithm ("" means
// fastest) and returns ErrNoHealthyEndpoint when urls is empty or every
// endpoint fails.
func SelectBest(ctx context.Context, urls []string, algorithm string, logger zerolog.Logger) (string, error) {
	if len(urls) == 0 {
		return "", ErrNoHealthyEndpoint
	}
	algo := Algorithm(algorithm)
	if algo == "" {
		algo = AlgorithmFastest
	}
	return BestREST(ctx, urls, algo, logger.With().Str("component", "rpc").Logger())
}
