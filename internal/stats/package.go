package stats

import "wiki_stats/internal/models"

// Package holds partial or aggregate corpus statistics. A package is owned by
// exactly one goroutine at a time.
type Package struct {
	Words          FrequencyTable
	LongestArticle LongestRecord
	LongestTitle   LongestRecord

	Articles uint64
	Tokens   uint64
}

func NewPackage() *Package {
	return &Package{Words: NewFrequencyTable()}
}

// AddArticle counts the title then the text of a, and offers it to both
// longest records under the location <shard>/<id>.
func (p *Package) AddArticle(a models.Article, shard string) {
	p.Tokens += uint64(p.Words.RecordText(a.Title))
	p.Tokens += uint64(p.Words.RecordText(a.Text))

	path := shard + "/" + a.ID
	p.LongestArticle.Consider(a.Title, path, len(a.Text))
	p.LongestTitle.Consider(a.Title, path, len(a.Title))
	p.Articles++
}

// Merge folds other into p. Counts are summed; on equal longest sizes p keeps
// its own record. other must not be used afterwards.
func (p *Package) Merge(other *Package) {
	if other == nil {
		return
	}
	p.Words.Merge(other.Words)
	p.LongestArticle.Consider(other.LongestArticle.Title, other.LongestArticle.Path, other.LongestArticle.Size)
	p.LongestTitle.Consider(other.LongestTitle.Title, other.LongestTitle.Path, other.LongestTitle.Size)
	p.Articles += other.Articles
	p.Tokens += other.Tokens
}
