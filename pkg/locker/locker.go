// Package locker provides distributed locking for coordinating background
// jobs across multiple service instances.
package locker

import (
	"context"
	"time"
)

// DistributedLocker provides distributed lock capabilities across multiple
// instances. Implementations must be safe for concurrent use.
//
// Typical usage:
//
//	acquired, err := locker.Acquire(ctx, "refresh-lock", 5*time.Minute)
//	if err != nil {
//	    return err
//	}
//	if !acquired {
//	    // Another instance holds the lock
//	    return nil
//	}
//	defer locker.Release(ctx, "refresh-lock")
type DistributedLocker interface {
	// Acquire attempts to take the lock identified by key. Returns true
	// when the lock was taken, false when another instance holds it. The
	// lock expires on its own after ttl if never released; pick the ttl
	// for the job's cooldown when using the lock for rate limiting.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release releases the lock identified by key. Safe to call when this
	// instance does not own the lock (no-op).
	Release(ctx context.Context, key string) error
}
