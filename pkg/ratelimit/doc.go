// Package ratelimit paces requests to the search API.
//
// The batch spends one quota unit per search page, so a run over many
// channels is spread out with a sliding window limiter:
//
//	limiter := ratelimit.PerMinute(cfg.RateLimit.RequestsPerMinute)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err // context cancelled
//	}
//	// issue request
package ratelimit
