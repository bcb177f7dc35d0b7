package models

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Result is what a fetcher hands back for one URL: the raw <title> text and a
// queryable document tree.
type Result struct {
	URL      string            `json:"url"`
	Title    string            `json:"title"`
	Document *goquery.Document `json:"-"`
	HTMLHash string            `json:"html_hash"`
	Status   int               `json:"status"`
	RenderMS int               `json:"render_ms"`
}

// ParseHTML builds a Result from a raw HTML body. Title is left empty when the
// page has no <title> or the element has no text.
func ParseHTML(url string, body []byte, status int) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Result{URL: url, Status: status}, err
	}
	sum := sha1.Sum(body)
	return Result{
		URL:      url,
		Title:    strings.TrimSpace(doc.Find("title").First().Text()),
		Document: doc,
		HTMLHash: hex.EncodeToString(sum[:]),
		Status:   status,
	}, nil
}
