package report

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// Preview converts the readable part of a report to Markdown. The data
// island and styling are dropped.
func Preview(content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse report: %w", err)
	}
	if doc.Find("#"+DataElementID).Length() == 0 {
		return "", &DecodeError{Kind: KindHTML, Err: ErrInvalidReport}
	}

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("failed to read report body: %w", err)
	}

	converter := md.NewConverter("", true, &md.Options{
		HeadingStyle:     "atx",
		HorizontalRule:   "---",
		BulletListMarker: "-",
		EmDelimiter:      "*",
	})
	converter.Remove("script", "style", "meta", "link")

	markdown, err := converter.ConvertString(body)
	if err != nil {
		return "", fmt.Errorf("failed to convert report: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}
