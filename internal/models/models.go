package models

// Article is one record of a corpus shard.
type Article struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type ExtractedArticle struct {
	Title   string
	Text    string
	HTML    string
	Excerpt string
}

// Document is a crawled page as stored by the spider in the documents collection.
type Document struct {
	ID            string `bson:"_id"`
	URL           string `bson:"url"`
	NormalizedURL string `bson:"normalized_url"`
	Source        string `bson:"source"`
	HTMLContent   string `bson:"html_content"`
	Title         string `bson:"title"`
	Content       string `bson:"content"`
	ContentHash   string `bson:"content_hash"`
	LastScraped   int64  `bson:"last_scraped"`
	ContentLength int    `bson:"content_length"`
	IsValid       bool   `bson:"is_valid"`
}
