package crawler

// VisitedSet records the document identifiers a crawl has entered, in the
// order they were entered. It belongs to one crawl and is not safe for
// concurrent use.
type VisitedSet struct {
	seen  map[string]struct{}
	order []string
}

// NewVisitedSet returns an empty VisitedSet.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{
		seen:  make(map[string]struct{}),
		order: make([]string, 0),
	}
}

// Add inserts id and reports whether it was not already present.
func (v *VisitedSet) Add(id string) bool {
	if _, ok := v.seen[id]; ok {
		return false
	}
	v.seen[id] = struct{}{}
	v.order = append(v.order, id)
	return true
}

// Contains reports whether id has been visited.
func (v *VisitedSet) Contains(id string) bool {
	_, ok := v.seen[id]
	return ok
}

// Len returns the number of visited identifiers.
func (v *VisitedSet) Len() int {
	return len(v.order)
}

// IDs returns the visited identifiers in visit order.
func (v *VisitedSet) IDs() []string {
	ids := make([]string, len(v.order))
	copy(ids, v.order)
	return ids
}
