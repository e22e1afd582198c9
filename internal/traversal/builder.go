package traversal

import (
	"errors"
	"time"

	"github.com/OscartGiles/spider-crab/internal/fetcher"
	"github.com/OscartGiles/spider-crab/internal/robots"
)

const defaultProgressBuffer = 100

// ErrNoFetcher is returned by Build when no Fetcher was configured.
var ErrNoFetcher = errors.New("traversal: a fetcher is required")

// Builder assembles an Engine (spec §4.8). Robots parsing errors surface
// here, at construction time, never during Crawl.
type Builder struct {
	fetcher        fetcher.Fetcher
	gate           RobotsGate
	sink           Sink
	maxPages       int
	maxTime        time.Duration
	progressBuffer int
}

// NewBuilder starts a Builder for the given Fetcher. With no further
// configuration the built Engine has no page/time cap and no robots
// policy (only assume-HTML filtering applies).
func NewBuilder(f fetcher.Fetcher) *Builder {
	return &Builder{
		fetcher:        f,
		gate:           robots.NoPolicy(""),
		sink:           noopSink{},
		progressBuffer: defaultProgressBuffer,
	}
}

// WithRobots parses robotsText for userAgent's rule group. An empty
// robotsText is equivalent to not calling WithRobots at all.
func (b *Builder) WithRobots(robotsText []byte, userAgent string) (*Builder, error) {
	gate, err := robots.NewGate(robotsText, userAgent)
	if err != nil {
		return nil, err
	}
	b.gate = gate
	return b, nil
}

func (b *Builder) WithMaxPages(n int) *Builder {
	b.maxPages = n
	return b
}

func (b *Builder) WithMaxTime(d time.Duration) *Builder {
	b.maxTime = d
	return b
}

func (b *Builder) WithSink(s Sink) *Builder {
	b.sink = s
	return b
}

func (b *Builder) WithProgressBuffer(n int) *Builder {
	b.progressBuffer = n
	return b
}

func (b *Builder) Build() (*Engine, error) {
	if b.fetcher == nil {
		return nil, ErrNoFetcher
	}
	return &Engine{
		fetcher:        b.fetcher,
		gate:           b.gate,
		sink:           b.sink,
		maxPages:       b.maxPages,
		maxTime:        b.maxTime,
		progressBuffer: b.progressBuffer,
	}, nil
}
