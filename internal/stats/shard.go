package stats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"wiki_stats/internal/models"
)

var requiredFields = [...]string{"id", "title", "text"}

// decodeShard expects a JSON array of objects carrying the exact keys id,
// title and text as strings. Key matching is case-sensitive.
func decodeShard(raw []byte) ([]models.Article, error) {
	if !utf8.Valid(raw) {
		return nil, errors.New("shard is not valid UTF-8")
	}

	var recs []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, err
	}
	if recs == nil {
		return nil, errors.New("expected a JSON array of articles")
	}

	out := make([]models.Article, len(recs))
	for i, rec := range recs {
		if rec == nil {
			return nil, fmt.Errorf("article %d: not an object", i)
		}

		var vals [len(requiredFields)]string
		for j, key := range requiredFields {
			v, ok := rec[key]
			if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
				return nil, fmt.Errorf("article %d: missing field %q", i, key)
			}
			if err := json.Unmarshal(v, &vals[j]); err != nil {
				return nil, fmt.Errorf("article %d: field %q: %w", i, key, err)
			}
		}
		out[i] = models.Article{ID: vals[0], Title: vals[1], Text: vals[2]}
	}
	return out, nil
}

// ProcessShard turns one shard's raw JSON into a fresh Package. label is the
// shard's name inside the archive and prefixes every recorded path.
func ProcessShard(raw []byte, label string) (*Package, error) {
	articles, err := decodeShard(raw)
	if err != nil {
		return nil, &ShardError{Shard: label, Kind: ErrShardDecode, Err: err}
	}

	p := NewPackage()
	for _, a := range articles {
		p.AddArticle(a, label)
	}
	return p, nil
}
