// Package fetcher follows search.list continuation tokens until a window is
// exhausted. Pages are requested one at a time, each after the rate limiter
// grants a slot.
package fetcher
