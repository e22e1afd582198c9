package robots

import (
	"fmt"

	"github.com/OscartGiles/spider-crab/pkg/failure"
)

// ParseError is raised at Builder time when the supplied robots.txt bytes
// cannot be parsed. It aborts construction rather than the crawl (spec §7).
type ParseError struct {
	Err error
}

func NewParseError(err error) *ParseError {
	return &ParseError{Err: err}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing robots.txt: %s", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Severity() failure.Severity {
	return failure.SeverityFatal
}
