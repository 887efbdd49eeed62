package app

import (
	"bytes"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"

	"wiki_stats/internal/stats"
)

// Shard is one archive entry read fully into memory.
type Shard struct {
	Name string
	Data []byte
}

// ShardSource hands out shards one by one and returns io.EOF when exhausted.
type ShardSource interface {
	Next() (Shard, error)
}

// ArchiveSource walks the entries of a zip archive in order and yields those
// whose name matches prefix and ext.
type ArchiveSource struct {
	files  []*zip.File
	prefix string
	ext    string
	pos    int
}

func NewArchiveSource(r *zip.Reader, prefix, ext string) *ArchiveSource {
	return &ArchiveSource{files: r.File, prefix: prefix, ext: ext}
}

func (s *ArchiveSource) isShard(f *zip.File) bool {
	return !f.FileInfo().IsDir() &&
		strings.HasPrefix(f.Name, s.prefix) &&
		strings.HasSuffix(f.Name, s.ext)
}

func (s *ArchiveSource) Next() (Shard, error) {
	for s.pos < len(s.files) {
		f := s.files[s.pos]
		s.pos++
		if !s.isShard(f) {
			continue
		}

		data, err := readEntry(f)
		if err != nil {
			return Shard{}, &stats.ShardError{Shard: f.Name, Kind: stats.ErrArchiveIO, Err: err}
		}
		return Shard{Name: f.Name, Data: data}, nil
	}
	return Shard{}, io.EOF
}

const maxSizeHint = 64 << 20

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	// The header size is only a hint; a forged one must not drive allocation.
	var buf bytes.Buffer
	buf.Grow(int(min(f.UncompressedSize64, maxSizeHint)))
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
