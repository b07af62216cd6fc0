// Package cache provides the cache backends probed by the health engine.
//
// Cache is a minimal key-value contract with Redis and in-process
// implementations. Fallback composes the two: it serves from Redis
// while reachable and fails over to the in-process tier when the
// backend goes away, so the service degrades instead of breaking.
//
//	client := redis.NewClient(&redis.Options{Addr: addr})
//	store := cache.NewFallback(cache.NewRedis(client))
//
//	// Health probing distinguishes degraded from down:
//	if err := store.Ping(ctx); err != nil && store.UsingFallback() {
//	    // reduced form, still serving
//	}
package cache
