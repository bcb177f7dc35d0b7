// Package metadata locates an author or organisation name inside a fetched
// page. Strategies run in a fixed order and the first plausible value wins;
// when every strategy comes up empty the name is derived from the domain.
package metadata

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	scopedElementLimit = 50
	maxBylineChars     = 100
	maxBylineWords     = 4
	maxOrgChars        = 100
)

// DomainStrategy names the final fallback in Result.Strategy.
const DomainStrategy = "domain"

var scopedTags = []string{"p", "div", "span", "h1", "h2", "h3", "h4", "article"}

// ExtractionContext bundles the inputs of one extraction. Document is nil when
// the page could not be fetched.
type ExtractionContext struct {
	Document *goquery.Document
	Domain   string
}

// Result is the chosen name and the strategy that produced it.
type Result struct {
	Author   string
	Strategy string
}

type strategy struct {
	name string
	find func(doc *goquery.Document) (string, bool)
}

// cascade is evaluated top to bottom.
var cascade = []strategy{
	{"meta-author", metaAuthor},
	{"meta-article-author", metaArticleAuthor},
	{"meta-site-name", metaSiteName},
	{"link-rel-author", linkRelAuthor},
	{"json-ld", jsonLDAuthor},
	{"byline-text", bylineText},
	{"byline-element", bylineElement},
	{"org-element", orgElement},
}

// Extractor runs the author cascade.
type Extractor struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger.Named("metadata")}
}

// ExtractAuthor never fails and always returns a non-empty name.
func (e *Extractor) ExtractAuthor(doc *goquery.Document, domain string) string {
	return e.Extract(ExtractionContext{Document: doc, Domain: domain}).Author
}

// Extract runs the cascade and reports which strategy matched.
func (e *Extractor) Extract(ec ExtractionContext) Result {
	if ec.Document != nil {
		for _, s := range cascade {
			if author, ok := s.find(ec.Document); ok {
				author = strings.TrimSpace(author)
				if author == "" {
					continue
				}
				e.logger.Debug("author found", zap.String("strategy", s.name), zap.String("author", author), zap.String("domain", ec.Domain))
				return Result{Author: author, Strategy: s.name}
			}
		}
	}
	author := AuthorFromDomain(ec.Domain)
	e.logger.Debug("author from domain", zap.String("author", author), zap.String("domain", ec.Domain))
	return Result{Author: author, Strategy: DomainStrategy}
}

func attrValue(doc *goquery.Document, selector, attr string) (string, bool) {
	v, ok := doc.Find(selector).First().Attr(attr)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func metaAuthor(doc *goquery.Document) (string, bool) {
	return attrValue(doc, `meta[name="author"]`, "content")
}

func metaArticleAuthor(doc *goquery.Document) (string, bool) {
	v, ok := attrValue(doc, `meta[property="article:author"]`, "content")
	if !ok || strings.HasPrefix(v, "http") || strings.Contains(v, "/") {
		return "", false
	}
	return v, true
}

func metaSiteName(doc *goquery.Document) (string, bool) {
	return attrValue(doc, `meta[property="og:site_name"]`, "content")
}

func linkRelAuthor(doc *goquery.Document) (string, bool) {
	return attrValue(doc, `link[rel~="author"]`, "title")
}

// jsonLDAuthor reads schema.org blocks. An explicit author beats the
// publisher; blocks that fail to decode are ignored.
func jsonLDAuthor(doc *goquery.Document) (string, bool) {
	var found string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data map[string]any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		if name, ok := authorName(data["author"]); ok {
			found = name
			return false
		}
		if name, ok := nameField(data["publisher"]); ok {
			found = name
			return false
		}
		return true
	})
	return found, found != ""
}

func authorName(v any) (string, bool) {
	switch a := v.(type) {
	case []any:
		if len(a) == 0 {
			return "", false
		}
		return nameField(a[0])
	case map[string]any:
		return nameField(a)
	default:
		return "", false
	}
}

func nameField(v any) (string, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	name, ok := obj["name"].(string)
	if !ok {
		return "", false
	}
	name = strings.TrimSpace(name)
	return name, name != ""
}

// bylineText looks for byline phrasing, first inside small elements and then
// across the whole page text.
func bylineText(doc *goquery.Document) (string, bool) {
	for _, tag := range scopedTags {
		elems := doc.Find(tag)
		if elems.Length() > scopedElementLimit {
			elems = elems.Slice(0, scopedElementLimit)
		}
		var found string
		elems.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := s.Text()
			if !hasRoleHint(text) {
				return true
			}
			if name, ok := roleByline(text); ok {
				found = name
				return false
			}
			return true
		})
		if found != "" {
			return found, true
		}
	}

	text := doc.Text()
	if name, ok := roleByline(text); ok {
		return name, true
	}
	if name, ok := earlyByline(text); ok {
		return name, true
	}
	return labelledByline(text)
}

// bylineElement inspects elements whose class or id mentions author/byline.
func bylineElement(doc *goquery.Document) (string, bool) {
	selectors := []func(*goquery.Selection) bool{
		attrContains("class", "author", "byline"),
		attrContains("id", "author", "byline"),
	}
	for _, match := range selectors {
		for _, tag := range []string{"span", "div", "p"} {
			el := doc.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool { return match(s) }).First()
			if el.Length() == 0 {
				continue
			}
			text := strings.Join(strings.Fields(el.Text()), " ")
			if strings.Contains(text, "By") || strings.Contains(text, "by") {
				if name, ok := inlineByline(text); ok {
					return name, true
				}
				continue
			}
			if text != "" && utf8.RuneCountInString(text) < maxBylineChars && len(strings.Fields(text)) <= maxBylineWords {
				return text, true
			}
		}
	}
	return "", false
}

// orgElement accepts short text from elements whose class mentions "org".
func orgElement(doc *goquery.Document) (string, bool) {
	match := attrContains("class", "org")
	for _, tag := range []string{"span", "div"} {
		el := doc.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool { return match(s) }).First()
		if el.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(el.Text())
		if text != "" && utf8.RuneCountInString(text) < maxOrgChars {
			return text, true
		}
	}
	return "", false
}

func attrContains(attr string, needles ...string) func(*goquery.Selection) bool {
	return func(s *goquery.Selection) bool {
		v, ok := s.Attr(attr)
		if !ok {
			return false
		}
		v = strings.ToLower(v)
		for _, n := range needles {
			if strings.Contains(v, n) {
				return true
			}
		}
		return false
	}
}
