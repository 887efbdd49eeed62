package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"

	"wiki_stats/internal/config"
	"wiki_stats/internal/models"
)

// DocumentSource yields crawled documents; *db.MongoDB implements it.
type DocumentSource interface {
	ForEachDocument(ctx context.Context, source string, fn func(*models.Document) error) error
}

// Summary counts what an export did.
type Summary struct {
	Documents int
	Articles  int
	Skipped   int
	Shards    int
}

// Exporter packs crawled documents into a zip of JSON shards that the stats
// command reads.
type Exporter struct {
	config config.ExportConfig
	logger *zap.Logger
}

func NewExporter(cfg config.ExportConfig, logger *zap.Logger) *Exporter {
	return &Exporter{config: cfg, logger: logger.With(zap.String("component", "export"))}
}

// ShardName is the archive entry name of the n-th shard.
func (e *Exporter) ShardName(n int) string {
	return fmt.Sprintf("%swiki_%05d.json", e.config.Folder, n)
}

// Article converts a document. Stored content wins; otherwise the text is
// extracted from the stored HTML.
func (e *Exporter) Article(doc *models.Document) (models.Article, error) {
	pageURL := doc.URL
	if pageURL == "" {
		pageURL = doc.NormalizedURL
	}

	a := models.Article{ID: doc.ID, Title: doc.Title, Text: doc.Content}
	if a.ID == "" {
		a.ID = ComputeContentHash(NormalizeURL(pageURL))
	}
	if a.Text == "" && doc.HTMLContent != "" {
		extracted, err := ExtractText(doc.HTMLContent, pageURL)
		if err != nil {
			return models.Article{}, fmt.Errorf("extract %s: %w", pageURL, err)
		}
		a.Text = extracted.Text
		if a.Title == "" {
			a.Title = extracted.Title
		}
	}
	return a, nil
}

// Export writes every usable document of src to the configured archive,
// replacing any previous file.
func (e *Exporter) Export(ctx context.Context, src DocumentSource) (sum Summary, err error) {
	path := e.config.Archive
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return sum, err
	}
	f, err := os.Create(path)
	if err != nil {
		return sum, err
	}
	zw := zip.NewWriter(f)
	defer func() {
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	pending := make([]models.Article, 0, e.config.ShardSize)
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		w, err := zw.Create(e.ShardName(sum.Shards))
		if err != nil {
			return err
		}
		if err := json.NewEncoder(w).Encode(pending); err != nil {
			return err
		}
		e.logger.Debug("Shard written", zap.String("shard", e.ShardName(sum.Shards)), zap.Int("articles", len(pending)))
		sum.Shards++
		pending = pending[:0]
		return nil
	}

	err = src.ForEachDocument(ctx, e.config.Source, func(doc *models.Document) error {
		sum.Documents++
		a, err := e.Article(doc)
		if err != nil {
			e.logger.Warn("Skipping document", zap.String("id", doc.ID), zap.Error(err))
			sum.Skipped++
			return nil
		}
		if len(a.Text) < e.config.MinTextLen {
			sum.Skipped++
			return nil
		}

		pending = append(pending, a)
		sum.Articles++
		if len(pending) == e.config.ShardSize {
			return flush()
		}
		return ctx.Err()
	})
	if err != nil {
		return sum, fmt.Errorf("export documents: %w", err)
	}
	if err := flush(); err != nil {
		return sum, err
	}

	e.logger.Info("Export finished",
		zap.String("archive", path),
		zap.Int("documents", sum.Documents),
		zap.Int("articles", sum.Articles),
		zap.Int("skipped", sum.Skipped),
		zap.Int("shards", sum.Shards))
	return sum, nil
}
