package traversal

// VisitedSet tracks URLs (by canonical string form) scheduled for fetching
// during a single crawl. Membership is monotonic: once inserted, never
// removed. Adapted from the teacher's frontier.Set[T comparable], specialized
// here to report whether an insertion was the first one for its key, which
// is what decides the winner of a same-URL race (spec invariant I1).
type VisitedSet map[string]struct{}

func NewVisitedSet() VisitedSet {
	return make(VisitedSet)
}

// Add reports whether key was newly inserted. A crawl spawns a fetch task
// for a link only when Add returns true for it.
func (v VisitedSet) Add(key string) bool {
	if _, exists := v[key]; exists {
		return false
	}
	v[key] = struct{}{}
	return true
}

func (v VisitedSet) Size() int {
	return len(v)
}
