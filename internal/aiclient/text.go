package aiclient

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips markup the backend sometimes wraps around generated text.
// Input without tags is returned trimmed.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
