package stats

// LongestRecord remembers the biggest item seen so far.
type LongestRecord struct {
	Title string
	Path  string
	Size  int
}

// Consider adopts the candidate only when it is strictly bigger, so among equal
// sizes the first one seen stays.
func (r *LongestRecord) Consider(title, path string, size int) bool {
	if size <= r.Size {
		return false
	}
	r.Title = title
	r.Path = path
	r.Size = size
	return true
}
