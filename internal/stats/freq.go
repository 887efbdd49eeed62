package stats

// FrequencyTable counts word occurrences twice over: as written and case-folded.
// Both maps are always fed from the same tokens.
type FrequencyTable struct {
	Written map[string]uint64
	Lower   map[string]uint64
}

func NewFrequencyTable() FrequencyTable {
	return FrequencyTable{
		Written: make(map[string]uint64),
		Lower:   make(map[string]uint64),
	}
}

func (t *FrequencyTable) Record(word string) {
	t.Written[word]++
	t.Lower[FoldCase(word)]++
}

// RecordText tokenizes s, records every token and returns how many there were.
func (t *FrequencyTable) RecordText(s string) int {
	words := Tokenize(s)
	for _, w := range words {
		t.Record(w)
	}
	return len(words)
}

// Merge adds every count of other into t.
func (t *FrequencyTable) Merge(other FrequencyTable) {
	for word, n := range other.Written {
		t.Written[word] += n
	}
	for word, n := range other.Lower {
		t.Lower[word] += n
	}
}
