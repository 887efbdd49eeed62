package output

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"wiki_stats/internal/stats"
)

// Serializer renders a final Package. The concrete encoding is picked once
// from configuration.
type Serializer interface {
	Encode(w io.Writer, p *stats.Package) error
}

func NewSerializer(plain bool) Serializer {
	if plain {
		return Plain{}
	}
	return Structured{}
}

type WordCount struct {
	Word        string `json:"word"`
	Appearances uint64 `json:"appearances"`
}

type Record struct {
	Title string `json:"title"`
	Path  string `json:"path"`
	Size  int    `json:"size"`
}

// SortedCounts lists a frequency map by count descending, then word.
func SortedCounts(m map[string]uint64) []WordCount {
	out := make([]WordCount, 0, len(m))
	for w, n := range m {
		out = append(out, WordCount{Word: w, Appearances: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Appearances != out[j].Appearances {
			return out[i].Appearances > out[j].Appearances
		}
		return out[i].Word < out[j].Word
	})
	return out
}

func recordOf(r stats.LongestRecord) Record {
	return Record{Title: r.Title, Path: r.Path, Size: r.Size}
}

// Structured writes one indented JSON document.
type Structured struct{}

type document struct {
	WordsFreq      []WordCount `json:"words_freq"`
	LowWordsFreq   []WordCount `json:"low_words_freq"`
	LongestArticle Record      `json:"longest_article"`
	LongestTitle   Record      `json:"longest_title"`
}

func (Structured) Encode(w io.Writer, p *stats.Package) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(document{
		WordsFreq:      SortedCounts(p.Words.Written),
		LowWordsFreq:   SortedCounts(p.Words.Lower),
		LongestArticle: recordOf(p.LongestArticle),
		LongestTitle:   recordOf(p.LongestTitle),
	})
}

// Plain writes headed sections of "word: count" and Title/Path/Size lines.
type Plain struct{}

func (Plain) Encode(w io.Writer, p *stats.Package) error {
	bw := bufio.NewWriter(w)

	writeCounts := func(header string, m map[string]uint64) {
		fmt.Fprintf(bw, "%s\n", header)
		for _, wc := range SortedCounts(m) {
			fmt.Fprintf(bw, "%s: %d\n", wc.Word, wc.Appearances)
		}
		fmt.Fprintln(bw)
	}
	writeRecord := func(header string, r stats.LongestRecord) {
		fmt.Fprintf(bw, "%s\nTitle: %s\nPath: %s\nSize: %d\n", header, oneLine(r.Title), oneLine(r.Path), r.Size)
	}

	writeCounts("Words frequency:", p.Words.Written)
	writeCounts("Lowercase words frequency:", p.Words.Lower)
	writeRecord("Longest article:", p.LongestArticle)
	fmt.Fprintln(bw)
	writeRecord("Longest title:", p.LongestTitle)

	return bw.Flush()
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// oneLine keeps a value on its labelled line.
func oneLine(s string) string {
	return lineBreaks.Replace(s)
}

// WriteFile replaces whatever is at path with the encoding of p. The data goes
// to a temporary file in the same directory first, so a failed write never
// leaves a partial file at path.
func WriteFile(path string, s Serializer, p *stats.Package) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return outputErr(path, err)
	}
	tmp := f.Name()

	bw := bufio.NewWriter(f)
	err = s.Encode(bw, p)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp, 0o644)
	}
	if err == nil {
		if rerr := os.Remove(path); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			err = rerr
		}
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return outputErr(path, err)
	}
	return nil
}

func outputErr(path string, err error) error {
	return &stats.ShardError{Shard: path, Kind: stats.ErrOutputIO, Err: err}
}
