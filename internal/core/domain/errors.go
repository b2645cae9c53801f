package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnknownPalette is returned when a color palette name is not registered.
	ErrUnknownPalette = errors.New("unknown palette")
	// ErrCacheMiss is returned by caches for absent or expired keys.
	ErrCacheMiss = errors.New("cache miss")
)
