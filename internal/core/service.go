package core

import (
	"context"

	"github.com/JonMunkholm/csvfetch/internal/config"
)

// Service is the entry point the transport layer calls. It pairs the
// configured Source with the limiter guarding concurrent reads.
type Service struct {
	source  *Source
	limiter *FetchLimiter
}

// NewService creates a Service from configuration.
func NewService(cfg *config.Config) *Service {
	return &Service{
		source:  NewSource(cfg.Source),
		limiter: NewFetchLimiter(cfg.Fetch.MaxConcurrent, cfg.Fetch.MaxWaitTime),
	}
}

// Fetch reads the whole source under a limiter slot.
func (s *Service) Fetch(ctx context.Context) (*FetchResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	return s.source.Fetch(ctx)
}

// SourcePath returns the configured CSV path.
func (s *Service) SourcePath() string {
	return s.source.Path
}

// CheckSource reports whether the source can currently be opened.
func (s *Service) CheckSource() error {
	return s.source.Check()
}

// ActiveFetches returns the number of reads in progress.
func (s *Service) ActiveFetches() int {
	return s.limiter.ActiveCount()
}

// LimiterStatus returns the fetch limiter state.
func (s *Service) LimiterStatus() FetchLimiterStatus {
	return s.limiter.Status()
}

// WaitForFetches blocks until in-flight reads finish or ctx is done.
func (s *Service) WaitForFetches(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
