package scraper

// Tracker remembers every identity emitted during the lifetime of one run.
// The set grows monotonically and is reset only by constructing a new
// Tracker for the next run. It is not safe for concurrent use; the polling
// loop is strictly sequential so it never needs to be.
type Tracker struct {
	seen map[string]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]struct{})}
}

// Seed marks identities as already seen, used to preload the tracker from
// rows already persisted by a previous run.
func (t *Tracker) Seed(identities []string) {
	for _, id := range identities {
		t.seen[id] = struct{}{}
	}
}

// Delta returns the records whose identity has not been seen before, in
// input order, and marks them seen. First-seen wins: a later record for a
// known identity is discarded even if its fields differ.
func (t *Tracker) Delta(records []VideoRecord) []VideoRecord {
	var delta []VideoRecord
	for _, r := range records {
		if _, ok := t.seen[r.Username]; ok {
			continue
		}
		t.seen[r.Username] = struct{}{}
		delta = append(delta, r)
	}
	return delta
}

// Len returns the number of identities seen so far.
func (t *Tracker) Len() int {
	return len(t.seen)
}
