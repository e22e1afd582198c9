// Package robots implements the RobotsGate of spec §4.2: assume-HTML
// filtering plus, when a policy is configured, robots.txt obedience.
package robots

import (
	"net/url"
	"strings"

	"github.com/temoto/robotstxt"
)

// Gate decides whether a URL may be fetched. A Gate with no policy still
// applies the assume-HTML heuristic.
type Gate struct {
	group     *robotstxt.Group
	userAgent string
}

// NewGate parses robotsText (already-fetched robots.txt bytes) for
// userAgent's rule group. An empty robotsText produces a Gate with no
// robots policy at all — every URL passes the robots check, and only
// assume-HTML filtering applies.
func NewGate(robotsText []byte, userAgent string) (*Gate, error) {
	if len(robotsText) == 0 {
		return &Gate{userAgent: userAgent}, nil
	}

	data, err := robotstxt.FromBytes(robotsText)
	if err != nil {
		return nil, NewParseError(err)
	}

	return &Gate{group: data.FindGroup(userAgent), userAgent: userAgent}, nil
}

// NoPolicy builds a Gate that only applies assume-HTML filtering, for use
// when the operator explicitly opts out of robots obedience.
func NoPolicy(userAgent string) *Gate {
	return &Gate{userAgent: userAgent}
}

// MayFetch reports whether u may be fetched: assumeHTML(u) && (no policy ||
// policy allows it for the configured user agent).
func (g *Gate) MayFetch(u url.URL) bool {
	if !assumeHTML(u) {
		return false
	}
	if g.group == nil {
		return true
	}
	return g.group.Test(u.EscapedPath())
}

// assumeHTML inspects the path's last '.'-delimited segment. A path with no
// dot is assumed HTML (it is cheaper to fetch and discover than to guess).
// A path whose final segment after the last dot is not exactly "html" is
// assumed to be a binary asset and rejected without a network round trip.
func assumeHTML(u url.URL) bool {
	path := u.Path
	idx := strings.LastIndex(path, ".")
	if idx == -1 {
		return true
	}
	return path[idx+1:] == "html"
}
