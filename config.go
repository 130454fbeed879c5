package segheap

import (
	"golang.org/x/exp/slog"
)

// Default tuning constants. These mirror the reference implementation this
// allocator's algorithms are modeled on: a 64-byte initial free block, 4096-byte
// (one page) extension chunks, and a 128-byte realloc slack buffer.
const (
	defaultInitChunkSize = 64
	defaultChunkSize     = 4096
	defaultSlackBuffer   = 128
)

// Config holds the tunables an Allocator is constructed with. Use the
// With* options below rather than constructing this directly.
type Config struct {
	initChunkSize int
	chunkSize     int
	slackBuffer   int
	logger        *slog.Logger
}

// Option configures an Allocator at construction time.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		initChunkSize: defaultInitChunkSize,
		chunkSize:     defaultChunkSize,
		slackBuffer:   defaultSlackBuffer,
		logger:        slog.Default(),
	}
}

// WithInitChunkSize overrides the size of the first free block created
// during Init. Must be a multiple of 8.
func WithInitChunkSize(n int) Option {
	return func(c *Config) { c.initChunkSize = n }
}

// WithChunkSize overrides the minimum size of a heap extension performed
// when no free block satisfies an allocation. Must be a multiple of 8.
func WithChunkSize(n int) Option {
	return func(c *Config) { c.chunkSize = n }
}

// WithSlackBuffer overrides the extra headroom a realloc reserves beyond
// the requested size, amortizing a sequence of small grow-by-constant
// reallocations into a single in-place expansion.
func WithSlackBuffer(n int) Option {
	return func(c *Config) { c.slackBuffer = n }
}

// WithLogger overrides the logger used for debug-level observability of
// heap extension, coalescing, splitting, and in-place realloc absorption.
// A nil logger is ignored, leaving the default, slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
