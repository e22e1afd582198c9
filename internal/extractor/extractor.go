// Package extractor implements the LinkExtractor of spec §4.1: parse HTML,
// yield normalized same-domain HTTP(S) URLs, fragment-stripped and
// deduplicated.
package extractor

import (
	"net"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/OscartGiles/spider-crab/internal/fetcher"
)

// ExtractLinks parses page's body as HTML and returns the deduplicated,
// same-domain, HTTP(S)-only, fragment-stripped set of outbound links,
// sorted for a deterministic return value. Malformed HTML never causes an
// error — goquery/x/net/html parse leniently and best-effort.
func ExtractLinks(page fetcher.PageContent) []url.URL {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Body()))
	if err != nil {
		return nil
	}

	pageURL := page.URL()
	seen := make(map[string]url.URL)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if strings.HasPrefix(href, "#") {
			return
		}

		resolved, err := resolve(pageURL, href)
		if err != nil {
			return
		}

		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		host := resolved.Hostname()
		if host == "" || host != pageURL.Hostname() {
			return
		}
		// An IP-literal host has no domain name, so it never counts as
		// same-domain.
		if net.ParseIP(host) != nil {
			return
		}

		resolved.Fragment = ""
		seen[resolved.String()] = resolved
	})

	links := make([]url.URL, 0, len(seen))
	for _, u := range seen {
		links = append(links, u)
	}
	sort.Slice(links, func(i, j int) bool { return links[i].String() < links[j].String() })
	return links
}

// resolve joins href against pageURL when it is root-relative (starts with
// "/"), otherwise parses it as an absolute URL. Either path can fail on
// garbage input, in which case the caller drops the href silently.
func resolve(pageURL url.URL, href string) (url.URL, error) {
	if strings.HasPrefix(href, "/") {
		rel, err := url.Parse(href)
		if err != nil {
			return url.URL{}, err
		}
		return *pageURL.ResolveReference(rel), nil
	}

	abs, err := url.Parse(href)
	if err != nil {
		return url.URL{}, err
	}
	if !abs.IsAbs() {
		return url.URL{}, errNotAbsolute
	}
	return *abs, nil
}

var errNotAbsolute = notAbsoluteError{}

type notAbsoluteError struct{}

func (notAbsoluteError) Error() string { return "href is neither root-relative nor absolute" }
