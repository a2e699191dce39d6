// Package retry runs an operation again after transient failures.
//
// The batch only uses it while bootstrapping, to wait for the database to
// accept connections. Channel work is never retried within a run: a failed
// window is picked up again by the next scheduled run.
//
//	err := retry.Do(ctx, func(ctx context.Context) error {
//		return pool.Ping(ctx)
//	}, retry.Config{
//		MaxAttempts: 5,
//		Backoff:     &retry.ConstantBackoff{Delay: 2 * time.Second},
//		Name:        "database connect",
//	})
package retry
