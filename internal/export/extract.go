package export

import (
	"crypto/md5"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"wiki_stats/internal/models"
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reBlockOpen  = regexp.MustCompile(`<(?:div|p|br|li|td|tr|h[1-6])\b[^>]*>`)
	reBlockClose = regexp.MustCompile(`</(?:div|p|li|td|tr|h[1-6])>`)
)

const noiseSelector = "figure, aside, script, style, sup.reference, .mw-editsection, .dcr-citation, .element-atom"

func normalizeText(text string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
}

// addSpacesBeforeParsing keeps words of adjacent block elements apart once
// the markup is stripped.
func addSpacesBeforeParsing(html string) string {
	html = reBlockOpen.ReplaceAllString(html, " $0")
	return reBlockClose.ReplaceAllString(html, "$0 ")
}

// ExtractText pulls the readable article out of a stored page.
func ExtractText(rawHTML, pageURL string) (*models.ExtractedArticle, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		parsedURL = &url.URL{}
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(addSpacesBeforeParsing(article.Content)))
	if err != nil {
		return nil, err
	}
	doc.Find(noiseSelector).Remove()

	return &models.ExtractedArticle{
		Title:   article.Title,
		Text:    normalizeText(doc.Text()),
		HTML:    article.Content,
		Excerpt: article.Excerpt,
	}, nil
}

// NormalizeURL drops the fragment and a leading www. so the same page always
// maps to the same id.
func NormalizeURL(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return urlStr
	}

	parsed.Fragment = ""
	parsed.Host = strings.TrimPrefix(parsed.Host, "www.")
	if parsed.Scheme == "" {
		parsed.Scheme = "https"
	}
	return parsed.String()
}

func ComputeContentHash(content string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(content)))
}
