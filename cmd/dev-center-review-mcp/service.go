package main

import (
	"context"
	"sync"

	"github.com/bobmcallan/dev-center-review/internal/capture"
	"github.com/bobmcallan/dev-center-review/internal/common"
)

type captureFunc func(ctx context.Context) (*capture.Result, error)

// reviewService serializes captures: every capture writes the same file.
type reviewService struct {
	mu      sync.Mutex
	capture captureFunc
	logger  *common.Logger
}

func newReviewService(fn captureFunc, logger *common.Logger) *reviewService {
	return &reviewService{capture: fn, logger: logger}
}

func (s *reviewService) Capture(ctx context.Context) (*capture.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capture(ctx)
}
