// Package metadata is the structured-logging observer attached to the
// traversal engine's main loop (spec §8 AMBIENT STACK). It is observational
// only: nothing here feeds back into retry, continuation, or abort
// decisions.
package metadata

import (
	"time"

	"github.com/OscartGiles/spider-crab/internal/fetcher"
	"github.com/OscartGiles/spider-crab/internal/traversal"
	"go.uber.org/zap"
)

// Sink is a concrete, zap-backed implementation of traversal.Sink.
type Sink struct {
	logger *zap.Logger
}

func NewSink(logger *zap.Logger) *Sink {
	return &Sink{logger: logger}
}

func (s *Sink) RecordFetch(page traversal.Page, err error) {
	if err != nil {
		s.logger.Warn("fetch failed",
			zap.Error(err),
			zap.String("cause", classify(err).String()),
		)
		return
	}

	s.logger.Info("fetched page",
		zap.String("url", page.URL.String()),
		zap.Int("status", page.Status),
		zap.Int("discovered_links", len(page.Links)),
	)
}

func (s *Sink) RecordStop(reason string) {
	s.logger.Info("crawl stopping", zap.String("reason", reason))
}

func (s *Sink) RecordFinalStats(pageCount int, elapsed time.Duration) {
	s.logger.Info("crawl finished",
		zap.Int("pages", pageCount),
		zap.Duration("elapsed", elapsed),
	)
}

func classify(err error) ErrorCause {
	fetchErr, ok := err.(*fetcher.FetchError)
	if !ok {
		return CauseUnknown
	}
	switch fetchErr.Cause {
	case fetcher.CauseTimeout:
		return CauseTimeout
	case fetcher.CauseTooManyRedirects:
		return CauseRedirectLimit
	case fetcher.CauseConnection:
		return CauseNetworkFailure
	default:
		return CauseUnknown
	}
}
