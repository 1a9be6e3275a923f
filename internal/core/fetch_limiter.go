package core

// fetch_limiter.go bounds how many requests read the source file at once.
//
// The limiter uses a semaphore so a burst of /fetch calls cannot open an
// unbounded number of file handles. When all slots are taken, new requests
// wait up to maxWait before failing with ErrTooManyFetches. WaitForDrain lets
// shutdown block until in-flight reads finish.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyFetches is returned when every read slot stays busy for the whole
// wait period.
var ErrTooManyFetches = errors.New("too many concurrent fetches, please try again later")

// DefaultMaxConcurrentFetches is used when the configured limit is not positive.
const DefaultMaxConcurrentFetches = 64

// DefaultFetchWaitTime is used when the configured wait is not positive.
const DefaultFetchWaitTime = 10 * time.Second

// FetchLimiter controls concurrent reads of the source file.
type FetchLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewFetchLimiter creates a limiter allowing at most maxConcurrent reads.
func NewFetchLimiter(maxConcurrent int, maxWait time.Duration) *FetchLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentFetches
	}
	if maxWait <= 0 {
		maxWait = DefaultFetchWaitTime
	}

	return &FetchLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire takes a read slot, waiting up to maxWait.
// The caller MUST call Release when the read completes.
func (l *FetchLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-timer.C:
		return ErrTooManyFetches
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a slot taken by Acquire.
func (l *FetchLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of reads in progress.
func (l *FetchLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until no reads are active or ctx is done.
func (l *FetchLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// FetchLimiterStatus is a snapshot of the limiter's state.
type FetchLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *FetchLimiter) Status() FetchLimiterStatus {
	active := l.ActiveCount()
	return FetchLimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
