package export

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"wiki_stats/internal/config"
	"wiki_stats/internal/models"
	"wiki_stats/internal/stats"
)

type fakeSource struct {
	docs []models.Document
	err  error
}

func (f *fakeSource) ForEachDocument(ctx context.Context, source string, fn func(*models.Document) error) error {
	for i := range f.docs {
		if source != "" && f.docs[i].Source != source {
			continue
		}
		if err := fn(&f.docs[i]); err != nil {
			return err
		}
	}
	return f.err
}

func exportConfig(t *testing.T) config.ExportConfig {
	return config.ExportConfig{
		Archive:    filepath.Join(t.TempDir(), "corpus.zip"),
		Folder:     "folder/",
		ShardSize:  2,
		MinTextLen: 5,
	}
}

func readShards(t *testing.T, path string) map[string][]byte {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	out := map[string][]byte{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = data
	}
	return out
}

func TestExportWritesShards(t *testing.T) {
	src := &fakeSource{docs: []models.Document{
		{ID: "1", Title: "Go", Content: "Go is a language.", Source: "wikipedia"},
		{ID: "2", Title: "Rust", Content: "Rust is too.", Source: "wikipedia"},
		{ID: "3", Title: "Tiny", Content: "tiny", Source: "wikipedia"},
		{ID: "4", Title: "", HTMLContent: page, URL: "https://en.wikipedia.org/wiki/Gopher", Source: "wikipedia"},
		{Title: "News", Content: "Some news text.", URL: "https://www.theguardian.com/sport/x", Source: "theguardian"},
	}}
	cfg := exportConfig(t)

	sum, err := NewExporter(cfg, zaptest.NewLogger(t)).Export(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, Summary{Documents: 5, Articles: 4, Skipped: 1, Shards: 2}, sum)

	shards := readShards(t, cfg.Archive)
	require.Len(t, shards, 2)
	require.Contains(t, shards, "folder/wiki_00000.json")
	require.Contains(t, shards, "folder/wiki_00001.json")

	acc := stats.NewPackage()
	for name, data := range shards {
		p, err := stats.ProcessShard(data, name)
		require.NoError(t, err, "exported shard must be valid stats input")
		acc.Merge(p)
	}
	assert.Equal(t, uint64(4), acc.Articles)
	assert.Equal(t, uint64(2), acc.Words.Lower["rust"])
	assert.Equal(t, "folder/wiki_00001.json/4", acc.LongestArticle.Path)

	newsID := ComputeContentHash(NormalizeURL("https://www.theguardian.com/sport/x"))
	assert.Contains(t, string(shards["folder/wiki_00001.json"]), `"id":"`+newsID+`"`)
}

func TestExportFiltersSource(t *testing.T) {
	src := &fakeSource{docs: []models.Document{
		{ID: "1", Title: "Go", Content: "Go is a language.", Source: "wikipedia"},
		{ID: "2", Title: "Cup", Content: "A football match.", Source: "theguardian"},
	}}
	cfg := exportConfig(t)
	cfg.Source = "theguardian"

	sum, err := NewExporter(cfg, zaptest.NewLogger(t)).Export(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Articles)
	assert.Equal(t, 1, sum.Shards)
}

func TestExportEmptySource(t *testing.T) {
	cfg := exportConfig(t)
	sum, err := NewExporter(cfg, zaptest.NewLogger(t)).Export(context.Background(), &fakeSource{})
	require.NoError(t, err)
	assert.Zero(t, sum.Shards)
	assert.Empty(t, readShards(t, cfg.Archive))
}

func TestExportSourceError(t *testing.T) {
	boom := errors.New("cursor died")
	cfg := exportConfig(t)

	_, err := NewExporter(cfg, zaptest.NewLogger(t)).Export(context.Background(), &fakeSource{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestShardName(t *testing.T) {
	e := NewExporter(config.ExportConfig{Folder: "folder/"}, zaptest.NewLogger(t))
	assert.Equal(t, "folder/wiki_00042.json", e.ShardName(42))
}
