package traversal

import "net/url"

// Page is the permanent record of one visit: the URL, its HTTP status, and
// the same-domain links discovered on it.
type Page struct {
	URL    url.URL
	Status int
	Links  []url.URL
}

// AllPages is an ordered sequence of Page in completion order (the order in
// which fetches finished, not discovery order).
type AllPages []Page
