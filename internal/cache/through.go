package cache

import "context"

// Fetch produces a value for a location when the cache has none. Returning a
// nil pointer with a nil error means the upstream had no data; such results
// are passed through to the caller but never cached, so the next request
// retries the upstream.
type Fetch[V any] func(ctx context.Context) (*V, error)

// Through performs a read-through lookup: cached value if present, otherwise
// the fetch result. Fetch errors are returned as-is and nothing is cached.
func Through[V any](ctx context.Context, c *LocationCache[*V], key string, fetch Fetch[V]) (*V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if v != nil {
		c.Set(key, v)
	}
	return v, nil
}
