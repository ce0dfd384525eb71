// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package port

import (
	"runtime"
	"time"
)

// Config configures a Port with fluent setters.
//
// Example:
//
//	cfg := port.NewConfig().
//	    Workers(16).
//	    MaxRetries(5).
//	    MemoryLimit(1 << 20)
type Config struct {
	workers      int
	maxPending   int
	nonblocking  bool
	maxRetries   int
	memoryLimit  int64
	closeTimeout time.Duration
}

// NewConfig returns the default configuration: one worker per P, blocking
// submission, 3 retries, no memory limit, 5s close timeout.
func NewConfig() *Config {
	return &Config{
		workers:      runtime.GOMAXPROCS(0),
		maxRetries:   3,
		closeTimeout: 5 * time.Second,
	}
}

// Workers sets the number of worker goroutines.
// Panics if n < 1.
func (c *Config) Workers(n int) *Config {
	if n < 1 {
		panic("port: workers must be >= 1")
	}
	c.workers = n
	return c
}

// MaxPending bounds the number of Submit calls that may wait for a free
// worker. Further calls fail with ErrWouldBlock. Zero means unbounded.
func (c *Config) MaxPending(n int) *Config {
	if n < 0 {
		panic("port: max pending must be >= 0")
	}
	c.maxPending = n
	return c
}

// Nonblocking makes Submit fail with ErrWouldBlock instead of waiting when
// every worker is busy.
func (c *Config) Nonblocking() *Config {
	c.nonblocking = true
	return c
}

// MaxRetries sets how many times a would-block operation is resubmitted.
func (c *Config) MaxRetries(n int) *Config {
	if n < 0 {
		panic("port: max retries must be >= 0")
	}
	c.maxRetries = n
	return c
}

// MemoryLimit bounds the bytes of in-flight requests. Submit fails with
// ErrOutOfMemory past the limit. Zero means unbounded.
func (c *Config) MemoryLimit(bytes int64) *Config {
	if bytes < 0 {
		panic("port: memory limit must be >= 0")
	}
	c.memoryLimit = bytes
	return c
}

// CloseTimeout bounds how long Close waits for running operations.
func (c *Config) CloseTimeout(d time.Duration) *Config {
	c.closeTimeout = d
	return c
}
