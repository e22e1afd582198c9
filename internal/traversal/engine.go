// Package traversal implements the TraversalEngine of spec §4.7: a
// seed-driven BFS over URLs with a dynamic task fan-out, deduplication,
// stop-condition enforcement, and best-effort progress broadcast.
package traversal

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/OscartGiles/spider-crab/internal/extractor"
	"github.com/OscartGiles/spider-crab/internal/fetcher"
	"golang.org/x/sync/errgroup"
)

// RobotsGate decides whether a URL may be fetched. Satisfied structurally
// by *robots.Gate; declared locally so this package does not have to
// import robots just to accept one.
type RobotsGate interface {
	MayFetch(u url.URL) bool
}

// Sink observes fetch and stop events for logging/metrics. It must never
// influence control flow — the engine calls it only from the single
// main-loop goroutine, after the decision that triggered the call has
// already been made.
type Sink interface {
	RecordFetch(page Page, err error)
	RecordStop(reason string)
	RecordFinalStats(pageCount int, elapsed time.Duration)
}

type noopSink struct{}

func (noopSink) RecordFetch(Page, error)             {}
func (noopSink) RecordStop(string)                   {}
func (noopSink) RecordFinalStats(int, time.Duration) {}

// Engine runs one crawl. Build one via Builder; Crawl consumes it.
type Engine struct {
	fetcher        fetcher.Fetcher
	gate           RobotsGate
	sink           Sink
	maxPages       int
	maxTime        time.Duration
	progressBuffer int

	mu          sync.Mutex
	subscribers []chan Page
}

// Subscribe returns a receiver of every Page as it completes. Call it
// before Crawl; a dropped receiver never affects the crawl or other
// subscribers.
func (e *Engine) Subscribe() <-chan Page {
	ch := make(chan Page, e.progressBuffer)
	e.mu.Lock()
	e.subscribers = append(e.subscribers, ch)
	e.mu.Unlock()
	return ch
}

func (e *Engine) broadcast(p Page) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ch := range e.subscribers {
		select {
		case ch <- p:
		default:
			// Slow subscriber: drop rather than stall the crawl. Progress is
			// advisory.
		}
	}
}

func (e *Engine) closeSubscribers() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ch := range e.subscribers {
		close(ch)
	}
}

type fetchResult struct {
	page Page
	err  error
}

// Crawl seeds the engine with a single URL and runs until the task set
// drains or a stop condition fires. It consumes the engine: call it once.
func (e *Engine) Crawl(ctx context.Context, seed url.URL) AllPages {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer e.closeSubscribers()

	visited := NewVisitedSet()
	results := make(chan fetchResult)
	var g errgroup.Group

	spawn := func(u url.URL) {
		g.Go(func() error {
			res := e.visitAndParse(ctx, u)
			select {
			case results <- res:
			case <-ctx.Done():
			}
			return nil
		})
	}

	outstanding := 0
	startTime := time.Now()
	if e.gate.MayFetch(seed) {
		visited.Add(seed.String())
		outstanding++
		spawn(seed)
	}

	var pages []Page

loop:
	for outstanding > 0 {
		select {
		case res := <-results:
			outstanding--

			if res.err != nil {
				e.sink.RecordFetch(res.page, res.err)
				continue
			}

			page := res.page
			e.broadcast(page)
			pages = append(pages, page)
			e.sink.RecordFetch(page, nil)

			if e.shouldStop(len(pages), startTime) {
				e.sink.RecordStop("limit reached")
				cancel()
				break loop
			}

			for _, link := range page.Links {
				if !e.gate.MayFetch(link) {
					continue
				}
				if visited.Add(link.String()) {
					outstanding++
					spawn(link)
				}
			}

		case <-ctx.Done():
			break loop
		}
	}

	// Unblock any still-running visitAndParse goroutine stuck trying to send
	// on results (loop exited before draining outstanding work), then wait
	// for the whole group to actually finish before returning.
	cancel()
	g.Wait() //nolint:errcheck // every spawned task always returns nil

	e.sink.RecordFinalStats(len(pages), time.Since(startTime))
	return AllPages(pages)
}

func (e *Engine) shouldStop(pageCount int, startTime time.Time) bool {
	if e.maxPages > 0 && pageCount >= e.maxPages {
		return true
	}
	if e.maxTime > 0 && time.Since(startTime) > e.maxTime {
		return true
	}
	return false
}

func (e *Engine) visitAndParse(ctx context.Context, u url.URL) (res fetchResult) {
	defer func() {
		if r := recover(); r != nil {
			res = fetchResult{err: fmt.Errorf("fetch-and-parse worker crashed on %s: %v", u.String(), r)}
		}
	}()

	pc, err := e.fetcher.Fetch(ctx, u)
	if err != nil {
		return fetchResult{err: err}
	}

	links := extractor.ExtractLinks(pc)
	return fetchResult{page: Page{URL: pc.URL(), Status: pc.Status(), Links: links}}
}
