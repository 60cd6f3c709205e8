package theme

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StyleTagID is the id of the standalone style element.
const StyleTagID = "theme-painter-styles"

// StyleElementID returns the id of the element Render emits for handle.
func StyleElementID(handle string) string {
	if handle == "" {
		return StyleTagID
	}
	return handle + "-inline-css"
}

// Render wraps css for the page head. With a stylesheet handle the block is
// attached to that stylesheet as its inline addition; without one it is a
// standalone style tag. Empty css renders nothing.
func Render(handle, css string) string {
	if css == "" {
		return ""
	}
	css = strings.ReplaceAll(css, "</style", `<\/style`)
	return fmt.Sprintf(`<style id="%s" type="text/css">%s</style>`, html.EscapeString(StyleElementID(handle)), css)
}

// PreviewScriptTag returns the script element loading the live preview
// client from libURL, or "" when live preview is not configured.
func PreviewScriptTag(libURL string) string {
	if libURL == "" {
		return ""
	}
	src := strings.TrimRight(libURL, "/") + "/preview.js"
	return fmt.Sprintf(`<script id="theme-painter-live-preview" src="%s" defer></script>`, html.EscapeString(src))
}

// InjectHead writes the HTML document read from r to w with block inserted.
// The block follows the <link> of handle when the document has one
// (id "<handle>-css"), otherwise it is appended to <head>.
func InjectHead(r io.Reader, w io.Writer, handle, block string) error {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	if block != "" {
		anchor := doc.Find("link").FilterFunction(func(_ int, s *goquery.Selection) bool {
			id, _ := s.Attr("id")
			return handle != "" && id == handle+"-css"
		})
		if anchor.Length() > 0 {
			anchor.Last().AfterHtml(block)
		} else {
			doc.Find("head").AppendHtml(block)
		}
	}

	out, err := doc.Html()
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
