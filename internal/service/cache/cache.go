package cache

import "time"

// Store is an in-process TTL cache of arbitrary values.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, v any, ttl time.Duration)
}

// BytesCache stores raw bytes with TTL; it may be remote.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
