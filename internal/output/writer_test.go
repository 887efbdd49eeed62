package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiki_stats/internal/models"
	"wiki_stats/internal/stats"
)

func samplePackage() *stats.Package {
	p := stats.NewPackage()
	p.AddArticle(models.Article{ID: "7", Title: "Rust", Text: "Rust rust <b> & fast"}, "folder/a.json")
	return p
}

func TestSortedCounts(t *testing.T) {
	got := SortedCounts(map[string]uint64{"b": 2, "a": 2, "c": 5})
	assert.Equal(t, []WordCount{{"c", 5}, {"a", 2}, {"b", 2}}, got)
	assert.Empty(t, SortedCounts(nil))
}

func TestStructuredEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Structured{}.Encode(&buf, samplePackage()))

	out := buf.String()
	assert.Contains(t, out, "\n  \"words_freq\": [")

	var doc struct {
		WordsFreq      []WordCount `json:"words_freq"`
		LowWordsFreq   []WordCount `json:"low_words_freq"`
		LongestArticle Record      `json:"longest_article"`
		LongestTitle   Record      `json:"longest_title"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, []WordCount{{"rust", 3}, {"b", 1}, {"fast", 1}}, doc.LowWordsFreq)
	assert.Equal(t, []WordCount{{"Rust", 2}, {"b", 1}, {"fast", 1}, {"rust", 1}}, doc.WordsFreq)
	assert.Equal(t, Record{Title: "Rust", Path: "folder/a.json/7", Size: 20}, doc.LongestArticle)
	assert.Equal(t, Record{Title: "Rust", Path: "folder/a.json/7", Size: 4}, doc.LongestTitle)

	iw := bytes.Index(buf.Bytes(), []byte(`"words_freq"`))
	il := bytes.Index(buf.Bytes(), []byte(`"low_words_freq"`))
	ia := bytes.Index(buf.Bytes(), []byte(`"longest_article"`))
	it := bytes.Index(buf.Bytes(), []byte(`"longest_title"`))
	assert.True(t, iw < il && il < ia && ia < it, "sections out of order")
}

func TestStructuredDoesNotEscapeHTML(t *testing.T) {
	p := stats.NewPackage()
	p.LongestTitle.Consider("Q&A <intro>", "folder/q.json/1", 11)

	var buf bytes.Buffer
	require.NoError(t, Structured{}.Encode(&buf, p))
	assert.Contains(t, buf.String(), `"title": "Q&A <intro>"`)
}

func TestPlainEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Plain{}.Encode(&buf, samplePackage()))

	want := `Words frequency:
Rust: 2
b: 1
fast: 1
rust: 1

Lowercase words frequency:
rust: 3
b: 1
fast: 1

Longest article:
Title: Rust
Path: folder/a.json/7
Size: 20

Longest title:
Title: Rust
Path: folder/a.json/7
Size: 4
`
	assert.Equal(t, want, buf.String())
}

func TestPlainEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Plain{}.Encode(&buf, stats.NewPackage()))
	assert.Contains(t, buf.String(), "Words frequency:\n\nLowercase words frequency:\n\n")
	assert.Contains(t, buf.String(), "Size: 0\n")
}

func TestNewSerializer(t *testing.T) {
	assert.IsType(t, Plain{}, NewSerializer(true))
	assert.IsType(t, Structured{}, NewSerializer(false))
}

func TestWriteFileReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("stale "), 1000), 0o644))

	require.NoError(t, WriteFile(path, Plain{}, samplePackage()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.True(t, bytes.HasPrefix(data, []byte("Words frequency:\n")))
}

func TestWriteFileOutputError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.json")

	err := WriteFile(path, Structured{}, samplePackage())
	require.Error(t, err)
	assert.ErrorIs(t, err, stats.ErrOutputIO)
	assert.Contains(t, err.Error(), path)
	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist))
}

type failingSerializer struct{}

func (failingSerializer) Encode(w io.Writer, p *stats.Package) error {
	if _, err := io.WriteString(w, strings.Repeat(`{"words_freq": [`, 1000)); err != nil {
		return err
	}
	return errors.New("disk full")
}

func TestWriteFileFailedEncodeLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stats.json")

	err := WriteFile(path, failingSerializer{}, samplePackage())
	require.Error(t, err)
	assert.ErrorIs(t, err, stats.ErrOutputIO)
	assert.Contains(t, err.Error(), "disk full")

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist), "no partial output")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary file is cleaned up")
}

func TestWriteFileFailedEncodeKeepsPreviousOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte("previous run"), 0o644))

	require.Error(t, WriteFile(path, failingSerializer{}, samplePackage()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous run", string(data))
}

func TestPlainEncodeKeepsRecordsOnOneLine(t *testing.T) {
	p := stats.NewPackage()
	p.LongestTitle.Consider("First line\nSecond\r\nThird", "folder/a.json/1", 26)

	var buf bytes.Buffer
	require.NoError(t, Plain{}.Encode(&buf, p))
	assert.Contains(t, buf.String(), "Longest title:\nTitle: First line Second Third\nPath: folder/a.json/1\nSize: 26\n")
}
